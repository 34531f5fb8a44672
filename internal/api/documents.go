package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/teslaing/cotizador/internal/apperr"
)

const maxUploadBytes = 50 << 20 // 50 MB

// uploadName validates that the filename is a plain name with no path
// separators or traversal.
func uploadName(name string) (string, bool) {
	if name == "" {
		return "", false
	}
	cleaned := filepath.Clean(name)
	if cleaned != filepath.Base(cleaned) || strings.Contains(cleaned, "..") {
		return "", false
	}
	return cleaned, true
}

// UploadDocument handles POST /api/sesiones/{id}/documentos
// (multipart/form-data, field "file").
func (h *Handler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("file too large or invalid multipart"))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("missing 'file' field in multipart form"))
		return
	}
	defer file.Close()

	name, ok := uploadName(header.Filename)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid filename"))
		return
	}
	data, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("failed to read file"))
		return
	}

	meta, err := h.svc.UploadDocument(s.ID, name, data)
	if err != nil {
		slog.Error("document upload failed",
			slog.String("session", s.ID),
			slog.String("file", name),
			slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("failed to store file"))
		return
	}
	writeJSON(w, http.StatusCreated, DocumentUploadResponse{Nombre: name, Tamano: meta.Size})
}

// ListDocuments handles GET /api/sesiones/{id}/documentos.
func (h *Handler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	metas, err := h.svc.ListDocuments(s.ID)
	if err != nil {
		slog.Error("list documents failed", slog.String("session", s.ID), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"documentos": metas})
}

// DeleteDocument handles DELETE /api/sesiones/{id}/documentos/{nombre}.
func (h *Handler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	name, ok := uploadName(chi.URLParam(r, "nombre"))
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid filename"))
		return
	}
	if err := h.svc.DeleteDocument(s.ID, name); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
			return
		}
		slog.Error("document delete failed",
			slog.String("session", s.ID),
			slog.String("file", name),
			slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
