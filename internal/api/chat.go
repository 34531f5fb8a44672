package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/teslaing/cotizador/internal/apperr"
)

// Chat handles POST /api/chat/chat-contextualizado: one conversation round
// against the session's provider. While a round is in flight further
// requests for the same session get 409.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Sesion == "" || req.Mensaje == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("sesion and mensaje are required"))
		return
	}

	res, err := h.svc.Chat(r.Context(), req.Sesion, req.Mensaje)
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrNotFound):
			writeJSON(w, http.StatusNotFound, errorBody("session not found"))
		case errors.Is(err, apperr.ErrConflict):
			writeJSON(w, http.StatusConflict, errorBody("a request is already in flight for this session"))
		case errors.Is(err, apperr.ErrInvalidTransition):
			writeJSON(w, http.StatusConflict, errorBody(err.Error()))
		default:
			slog.Error("chat failed", slog.String("session", req.Sesion), slog.String("error", err.Error()))
			writeJSON(w, http.StatusBadGateway, ChatResponse{
				Success:   false,
				Respuesta: "El asistente no está disponible en este momento. Intenta de nuevo.",
			})
		}
		return
	}

	writeJSON(w, http.StatusOK, ChatResponse{
		Success:             true,
		Respuesta:           res.Reply,
		CotizacionGenerada:  res.Quote,
		BotonesContextuales: res.Buttons,
	})
}
