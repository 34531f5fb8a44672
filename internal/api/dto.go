package api

import (
	"time"

	"github.com/teslaing/cotizador/internal/models"
	"github.com/teslaing/cotizador/internal/quote"
	"github.com/teslaing/cotizador/internal/store"
)

// QuoteListResponse wraps paginated quote listings.
type QuoteListResponse struct {
	Cotizaciones []store.QuoteSummary `json:"cotizaciones"`
	Total        int                  `json:"total"`
}

// QuoteDetailResponse is a stored quote plus its derived totals.
type QuoteDetailResponse struct {
	Cotizacion    *models.Quote         `json:"cotizacion"`
	Totales       quote.FormattedTotals `json:"totales"`
	CreadoEn      time.Time             `json:"creadoEn"`
	ActualizadoEn time.Time             `json:"actualizadoEn"`
}

// CreateSessionRequest is the configuration step payload.
type CreateSessionRequest struct {
	Empresa   string `json:"empresa"`
	Servicio  string `json:"servicio"`
	Industria string `json:"industria"`
	Contexto  string `json:"contexto"`
}

// SessionResponse is the session view returned after every mutation.
type SessionResponse struct {
	ID           string                `json:"id"`
	Paso         string                `json:"paso"`
	Cotizacion   *models.Quote         `json:"cotizacion,omitempty"`
	Totales      quote.FormattedTotals `json:"totales"`
	Historial    []HistoryItem         `json:"historial"`
	Archivos     []models.FileMeta     `json:"archivos"`
	Conversacion []models.ChatMessage  `json:"conversacion"`
	Opciones     DisplayOptionsDTO     `json:"opciones"`
}

// HistoryItem is one version history row without the full snapshot.
type HistoryItem struct {
	Version models.Version    `json:"version"`
	Fecha   time.Time         `json:"fecha"`
	Estado  models.QuoteState `json:"estado"`
	Nota    string            `json:"nota,omitempty"`
}

// DisplayOptionsDTO mirrors the session presentation toggles.
type DisplayOptionsDTO struct {
	OcultarPreciosUnitarios bool   `json:"ocultarPreciosUnitarios"`
	OcultarTotalesPorItem   bool   `json:"ocultarTotalesPorItem"`
	ModoVisualizacionIGV    string `json:"modoVisualizacionIGV"`
}

// ChatRequest is the body of POST /api/chat/chat-contextualizado.
type ChatRequest struct {
	Sesion  string `json:"sesion"`
	Mensaje string `json:"mensaje"`
}

// ChatResponse is the contextual chat reply. CotizacionGenerada is present
// only when the assistant produced a quote this turn.
type ChatResponse struct {
	Success             bool          `json:"success"`
	Respuesta           string        `json:"respuesta"`
	CotizacionGenerada  *models.Quote `json:"cotizacion_generada,omitempty"`
	BotonesContextuales []string      `json:"botones_contextuales,omitempty"`
}

// UpdateItemRequest is a single-field item edit.
type UpdateItemRequest struct {
	Campo string `json:"campo"`
	Valor string `json:"valor"`
}

// AddItemRequest appends a placeholder row to a chapter.
type AddItemRequest struct {
	Capitulo string `json:"capitulo"`
}

// RestoreRequest restores a history snapshot by version.
type RestoreRequest struct {
	Version models.Version `json:"version"`
}

// StateRequest tags the quote's review status.
type StateRequest struct {
	Estado models.QuoteState `json:"estado"`
}

// LogoRequest carries the session letterhead as base64.
type LogoRequest struct {
	LogoBase64 string `json:"logoBase64"`
}

// DocumentUploadResponse is returned after a successful document upload.
type DocumentUploadResponse struct {
	Nombre string `json:"nombre"`
	Tamano int64  `json:"tamano"`
}
