package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/teslaing/cotizador/internal/apperr"
	"github.com/teslaing/cotizador/internal/models"
	"github.com/teslaing/cotizador/internal/quote"
	"github.com/teslaing/cotizador/internal/quoteservice"
	"github.com/teslaing/cotizador/internal/store"
)

const maxBodyBytes = 10 << 20

// Handler holds API route handlers.
type Handler struct {
	svc *quoteservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *quoteservice.Service) *Handler {
	return &Handler{svc: svc}
}

// Health handles GET /api/health.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ListQuotes handles GET /api/cotizaciones with optional estado filter and
// limit/offset paging.
func (h *Handler) ListQuotes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	items, total, err := h.svc.ListQuotes(r.Context(), store.ListFilter{
		Estado: models.QuoteState(q.Get("estado")),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		slog.Error("list quotes failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if items == nil {
		items = []store.QuoteSummary{}
	}
	writeJSON(w, http.StatusOK, QuoteListResponse{Cotizaciones: items, Total: total})
}

// GetQuote handles GET /api/cotizaciones/{numero}.
func (h *Handler) GetQuote(w http.ResponseWriter, r *http.Request) {
	numero := chi.URLParam(r, "numero")
	rec, err := h.svc.GetQuote(r.Context(), numero)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			slog.Error("get quote failed", slog.String("numero", numero), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, QuoteDetailResponse{
		Cotizacion:    rec.Quote,
		Totales:       rec.Totals.Format(),
		CreadoEn:      rec.CreatedAt,
		ActualizadoEn: rec.UpdatedAt,
	})
}

// SaveQuote handles POST /api/cotizaciones. A body without a numero creates
// a new quote; with one it replaces the stored record.
func (h *Handler) SaveQuote(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var q models.Quote
	if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	creating := q.Numero == ""
	rec, err := h.svc.SaveQuote(r.Context(), &q)
	if err != nil {
		if errors.Is(err, apperr.ErrInvalidInput) {
			writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		} else {
			slog.Error("save quote failed", slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	status := http.StatusOK
	if creating {
		status = http.StatusCreated
	}
	writeJSON(w, status, QuoteDetailResponse{
		Cotizacion:    rec.Quote,
		Totales:       rec.Totals.Format(),
		CreadoEn:      rec.CreatedAt,
		ActualizadoEn: rec.UpdatedAt,
	})
}

// UpdateQuote handles PUT /api/cotizaciones/{numero}. The numero in the URL
// wins over any numero in the body.
func (h *Handler) UpdateQuote(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	numero := chi.URLParam(r, "numero")
	if _, err := h.svc.GetQuote(r.Context(), numero); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
			return
		}
		slog.Error("update quote failed", slog.String("numero", numero), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	var q models.Quote
	if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	q.Numero = numero
	rec, err := h.svc.SaveQuote(r.Context(), &q)
	if err != nil {
		if errors.Is(err, apperr.ErrInvalidInput) {
			writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		} else {
			slog.Error("update quote failed", slog.String("numero", numero), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, QuoteDetailResponse{
		Cotizacion:    rec.Quote,
		Totales:       rec.Totals.Format(),
		CreadoEn:      rec.CreatedAt,
		ActualizadoEn: rec.UpdatedAt,
	})
}

// DeleteQuote handles DELETE /api/cotizaciones/{numero}.
func (h *Handler) DeleteQuote(w http.ResponseWriter, r *http.Request) {
	numero := chi.URLParam(r, "numero")
	if err := h.svc.DeleteQuote(r.Context(), numero); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			slog.Error("delete quote failed", slog.String("numero", numero), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GenerateQuoteDoc returns a handler for POST
// /api/cotizaciones/{numero}/generar-{pdf,word,html}.
func (h *Handler) GenerateQuoteDoc(format string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		numero := chi.URLParam(r, "numero")
		data, filename, ct, err := h.svc.ExportQuote(numero, format)
		if err != nil {
			h.writeExportError(w, numero, err)
			return
		}
		serveDocument(w, data, filename, ct)
	}
}

func (h *Handler) writeExportError(w http.ResponseWriter, subject string, err error) {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
	case errors.Is(err, apperr.ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
	default:
		slog.Error("export failed", slog.String("subject", subject), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("document generation failed"))
	}
}

// serveDocument writes the rendered bytes as a download. Nothing is written
// before rendering succeeds, so a failed export never produces a partial file.
func serveDocument(w http.ResponseWriter, data []byte, filename, contentType string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// ListClients handles GET /api/clientes.
func (h *Handler) ListClients(w http.ResponseWriter, r *http.Request) {
	clients, err := h.svc.ListClients(r.Context())
	if err != nil {
		slog.Error("list clients failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if clients == nil {
		clients = []models.Client{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"clientes": clients})
}

// SaveClient handles POST /api/clientes.
func (h *Handler) SaveClient(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var c models.Client
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := h.svc.SaveClient(r.Context(), c); err != nil {
		if errors.Is(err, apperr.ErrInvalidInput) {
			writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		} else {
			slog.Error("save client failed", slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// SetBrandLogo handles PUT /api/branding/logo, replacing the letterhead
// logo used by stored-quote and report exports.
func (h *Handler) SetBrandLogo(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 5<<20)
	var req LogoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := h.svc.SetBrandLogo(req.LogoBase64); err != nil {
		if errors.Is(err, apperr.ErrInvalidInput) {
			writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
			return
		}
		slog.Error("set brand logo failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// formatTotals is shared by the session views.
func formatTotals(q *models.Quote) quote.FormattedTotals {
	if q == nil {
		return quote.Totals{}.Format()
	}
	return quote.ComputeTotals(q.Items).Format()
}
