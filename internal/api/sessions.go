package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/teslaing/cotizador/internal/apperr"
	"github.com/teslaing/cotizador/internal/quote"
	"github.com/teslaing/cotizador/internal/session"
)

// sessionView projects a session into its API representation.
func sessionView(s *session.Session) SessionResponse {
	q := s.Quote()
	hideUnit, hideTotals, taxMode := s.DisplayOptions()

	var hist []HistoryItem
	for _, e := range s.History() {
		hist = append(hist, HistoryItem{
			Version: e.Version,
			Fecha:   e.Timestamp,
			Estado:  e.State,
			Nota:    e.Note,
		})
	}
	if hist == nil {
		hist = []HistoryItem{}
	}
	return SessionResponse{
		ID:           s.ID,
		Paso:         string(s.Step()),
		Cotizacion:   q,
		Totales:      formatTotals(q),
		Historial:    hist,
		Archivos:     s.Files(),
		Conversacion: s.Conversation(),
		Opciones: DisplayOptionsDTO{
			OcultarPreciosUnitarios: hideUnit,
			OcultarTotalesPorItem:   hideTotals,
			ModoVisualizacionIGV:    string(taxMode),
		},
	}
}

// session resolves the {id} route param, writing the error response itself
// when the session does not exist.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id := chi.URLParam(r, "id")
	s, err := h.svc.Session(id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorBody("session not found"))
		return nil, false
	}
	return s, true
}

// CreateSession handles POST /api/sesiones.
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	s := h.svc.CreateSession(req.Empresa, req.Servicio, req.Industria, req.Contexto)
	writeJSON(w, http.StatusCreated, sessionView(s))
}

// GetSession handles GET /api/sesiones/{id}.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sessionView(s))
}

// DeleteSession handles DELETE /api/sesiones/{id}.
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	h.svc.DeleteSession(s.ID)
	w.WriteHeader(http.StatusNoContent)
}

// transition applies one wizard move and writes the refreshed view.
func (h *Handler) transition(w http.ResponseWriter, r *http.Request, move func(*session.Session) error) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := move(s); err != nil {
		if errors.Is(err, apperr.ErrInvalidTransition) {
			writeJSON(w, http.StatusConflict, errorBody(err.Error()))
		} else {
			slog.Error("session transition failed", slog.String("session", s.ID), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, sessionView(s))
}

// StartAnalysis handles POST /api/sesiones/{id}/iniciar-analisis.
func (h *Handler) StartAnalysis(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, (*session.Session).StartAnalysis)
}

// RequestRevision handles POST /api/sesiones/{id}/revision.
func (h *Handler) RequestRevision(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, (*session.Session).RequestRevision)
}

// ReturnToChat handles POST /api/sesiones/{id}/volver-chat.
func (h *Handler) ReturnToChat(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, (*session.Session).ReturnToChat)
}

// UpdateItem handles PUT /api/sesiones/{id}/items/{index}.
func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid item index"))
		return
	}
	var req UpdateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	s.UpdateItemField(index, req.Campo, req.Valor)
	writeJSON(w, http.StatusOK, sessionView(s))
}

// AddItem handles POST /api/sesiones/{id}/items.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	s.AddItem(req.Capitulo)
	writeJSON(w, http.StatusOK, sessionView(s))
}

// RemoveItem handles DELETE /api/sesiones/{id}/items/{index}.
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid item index"))
		return
	}
	s.RemoveItem(index)
	writeJSON(w, http.StatusOK, sessionView(s))
}

// RestoreVersion handles POST /api/sesiones/{id}/restaurar.
func (h *Handler) RestoreVersion(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req RestoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := s.RestoreVersion(req.Version); err != nil {
		writeJSON(w, http.StatusNotFound, errorBody(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, sessionView(s))
}

// SetState handles PUT /api/sesiones/{id}/estado.
func (h *Handler) SetState(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req StateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	s.SetState(req.Estado)
	writeJSON(w, http.StatusOK, sessionView(s))
}

// SetDisplayOptions handles PUT /api/sesiones/{id}/opciones.
func (h *Handler) SetDisplayOptions(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req DisplayOptionsDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	s.SetDisplayOptions(req.OcultarPreciosUnitarios, req.OcultarTotalesPorItem, quote.TaxDisplayMode(req.ModoVisualizacionIGV))
	writeJSON(w, http.StatusOK, sessionView(s))
}

// SetLogo handles PUT /api/sesiones/{id}/logo.
func (h *Handler) SetLogo(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 5<<20)
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req LogoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	s.SetLogo(req.LogoBase64)
	writeJSON(w, http.StatusOK, sessionView(s))
}

// ExportSession handles GET /api/sesiones/{id}/exportar: the full session
// as a JSON save file.
func (h *Handler) ExportSession(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	data, err := s.Export().Encode()
	if err != nil {
		slog.Error("session export failed", slog.String("session", s.ID), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	serveDocument(w, data, "sesion-"+s.ID+".json", "application/json; charset=utf-8")
}

// ImportSession handles POST /api/sesiones/{id}/importar, replacing the
// session's state wholesale with the uploaded save file.
func (h *Handler) ImportSession(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var raw json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	sf, err := session.DecodeSaveFile(raw)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	if err := s.Import(sf); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, sessionView(s))
}

// SaveSessionQuote handles POST /api/sesiones/{id}/guardar.
func (h *Handler) SaveSessionQuote(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	rec, err := h.svc.SaveSessionQuote(r.Context(), s.ID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusConflict, errorBody("session has no quote yet"))
		} else {
			slog.Error("save session quote failed", slog.String("session", s.ID), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusCreated, QuoteDetailResponse{
		Cotizacion:    rec.Quote,
		Totales:       rec.Totals.Format(),
		CreadoEn:      rec.CreatedAt,
		ActualizadoEn: rec.UpdatedAt,
	})
}

// GenerateSessionDoc returns a handler for POST
// /api/sesiones/{id}/generar-{pdf,word,html}.
func (h *Handler) GenerateSessionDoc(format string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := h.session(w, r)
		if !ok {
			return
		}
		data, filename, ct, err := h.svc.ExportSession(s.ID, format)
		if err != nil {
			h.writeExportError(w, s.ID, err)
			return
		}
		serveDocument(w, data, filename, ct)
	}
}
