package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/teslaing/cotizador/internal/apperr"
	"github.com/teslaing/cotizador/internal/models"
	"github.com/teslaing/cotizador/internal/store"
)

// ProjectStateRequest transitions a project.
type ProjectStateRequest struct {
	Estado models.ProjectState `json:"estado"`
}

func idParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

// ListProjects handles GET /api/proyectos with optional estado and cliente
// filters plus limit/offset paging.
func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	projects, err := h.svc.ListProjects(r.Context(), store.ProjectFilter{
		Estado:  models.ProjectState(q.Get("estado")),
		Cliente: q.Get("cliente"),
		Limit:   limit,
		Offset:  offset,
	})
	if err != nil {
		slog.Error("list projects failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if projects == nil {
		projects = []models.Project{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"proyectos": projects})
}

// CreateProject handles POST /api/proyectos.
func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var p models.Project
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	p.ID = 0
	saved, err := h.svc.SaveProject(r.Context(), &p)
	if err != nil {
		if errors.Is(err, apperr.ErrInvalidInput) {
			writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		} else {
			slog.Error("create project failed", slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

// GetProject handles GET /api/proyectos/{id}.
func (h *Handler) GetProject(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid id"))
		return
	}
	p, err := h.svc.GetProject(r.Context(), id)
	if err != nil {
		h.writeProjectError(w, id, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// GetProjectDetail handles GET /api/proyectos/{id}/detalle: the project
// with its quotes and the totals derived from them.
func (h *Handler) GetProjectDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid id"))
		return
	}
	d, err := h.svc.ProjectDetail(r.Context(), id)
	if err != nil {
		h.writeProjectError(w, id, err)
		return
	}
	if d.Quotes == nil {
		d.Quotes = []store.QuoteSummary{}
	}
	writeJSON(w, http.StatusOK, d)
}

// UpdateProject handles PUT /api/proyectos/{id}. The id in the URL wins
// over any id in the body.
func (h *Handler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	id, ok := idParam(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid id"))
		return
	}
	if _, err := h.svc.GetProject(r.Context(), id); err != nil {
		h.writeProjectError(w, id, err)
		return
	}
	var p models.Project
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	p.ID = id
	saved, err := h.svc.SaveProject(r.Context(), &p)
	if err != nil {
		if errors.Is(err, apperr.ErrInvalidInput) {
			writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		} else {
			slog.Error("update project failed", slog.Int64("id", id), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

// SetProjectState handles PUT /api/proyectos/{id}/estado.
func (h *Handler) SetProjectState(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid id"))
		return
	}
	var req ProjectStateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	p, err := h.svc.SetProjectState(r.Context(), id, req.Estado)
	if err != nil {
		if errors.Is(err, apperr.ErrInvalidInput) {
			writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
			return
		}
		h.writeProjectError(w, id, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// DeleteProject handles DELETE /api/proyectos/{id}. Reports that referenced
// the project are kept, detached.
func (h *Handler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid id"))
		return
	}
	if err := h.svc.DeleteProject(r.Context(), id); err != nil {
		h.writeProjectError(w, id, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeProjectError(w http.ResponseWriter, id int64, err error) {
	if errors.Is(err, apperr.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	slog.Error("project request failed", slog.Int64("id", id), slog.String("error", err.Error()))
	writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
}

// ListReports handles GET /api/informes with an optional ?proyecto= filter.
func (h *Handler) ListReports(w http.ResponseWriter, r *http.Request) {
	projectID, _ := strconv.ParseInt(r.URL.Query().Get("proyecto"), 10, 64)
	reports, err := h.svc.ListReports(r.Context(), projectID)
	if err != nil {
		slog.Error("list reports failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if reports == nil {
		reports = []models.Report{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"informes": reports})
}

// CreateReport handles POST /api/informes.
func (h *Handler) CreateReport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var rep models.Report
	if err := json.NewDecoder(r.Body).Decode(&rep); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	rep.ID = 0
	saved, err := h.svc.SaveReport(r.Context(), &rep)
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrInvalidInput):
			writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		case errors.Is(err, apperr.ErrNotFound):
			writeJSON(w, http.StatusBadRequest, errorBody("proyecto not found"))
		default:
			slog.Error("create report failed", slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

// GetReport handles GET /api/informes/{id}.
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid id"))
		return
	}
	rep, err := h.svc.GetReport(r.Context(), id)
	if err != nil {
		h.writeProjectError(w, id, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

// UpdateReport handles PUT /api/informes/{id}.
func (h *Handler) UpdateReport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	id, ok := idParam(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid id"))
		return
	}
	if _, err := h.svc.GetReport(r.Context(), id); err != nil {
		h.writeProjectError(w, id, err)
		return
	}
	var rep models.Report
	if err := json.NewDecoder(r.Body).Decode(&rep); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	rep.ID = id
	saved, err := h.svc.SaveReport(r.Context(), &rep)
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrInvalidInput):
			writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		case errors.Is(err, apperr.ErrNotFound):
			writeJSON(w, http.StatusBadRequest, errorBody("proyecto not found"))
		default:
			slog.Error("update report failed", slog.Int64("id", id), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

// DeleteReport handles DELETE /api/informes/{id}.
func (h *Handler) DeleteReport(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid id"))
		return
	}
	if err := h.svc.DeleteReport(r.Context(), id); err != nil {
		h.writeProjectError(w, id, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GenerateReportDoc returns a handler for POST
// /api/informes/{id}/generar-{pdf,word,html}.
func (h *Handler) GenerateReportDoc(format string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(r)
		if !ok {
			writeJSON(w, http.StatusBadRequest, errorBody("invalid id"))
			return
		}
		data, filename, ct, err := h.svc.ExportReport(id, format)
		if err != nil {
			h.writeExportError(w, strconv.FormatInt(id, 10), err)
			return
		}
		serveDocument(w, data, filename, ct)
	}
}
