package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/teslaing/cotizador/internal/quoteservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *quoteservice.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	r.Get("/health", h.Health)

	// Stored quotes.
	r.Get("/cotizaciones", h.ListQuotes)
	r.Post("/cotizaciones", h.SaveQuote)
	r.Get("/cotizaciones/{numero}", h.GetQuote)
	r.Put("/cotizaciones/{numero}", h.UpdateQuote)
	r.Delete("/cotizaciones/{numero}", h.DeleteQuote)
	r.Post("/cotizaciones/{numero}/generar-html", h.GenerateQuoteDoc(quoteservice.FormatHTML))
	r.Post("/cotizaciones/{numero}/generar-pdf", h.GenerateQuoteDoc(quoteservice.FormatPDF))
	r.Post("/cotizaciones/{numero}/generar-word", h.GenerateQuoteDoc(quoteservice.FormatDOCX))

	// Projects and their quote roll-ups.
	r.Get("/proyectos", h.ListProjects)
	r.Post("/proyectos", h.CreateProject)
	r.Get("/proyectos/{id}", h.GetProject)
	r.Get("/proyectos/{id}/detalle", h.GetProjectDetail)
	r.Put("/proyectos/{id}", h.UpdateProject)
	r.Put("/proyectos/{id}/estado", h.SetProjectState)
	r.Delete("/proyectos/{id}", h.DeleteProject)

	// Supervision reports.
	r.Get("/informes", h.ListReports)
	r.Post("/informes", h.CreateReport)
	r.Get("/informes/{id}", h.GetReport)
	r.Put("/informes/{id}", h.UpdateReport)
	r.Delete("/informes/{id}", h.DeleteReport)
	r.Post("/informes/{id}/generar-html", h.GenerateReportDoc(quoteservice.FormatHTML))
	r.Post("/informes/{id}/generar-pdf", h.GenerateReportDoc(quoteservice.FormatPDF))
	r.Post("/informes/{id}/generar-word", h.GenerateReportDoc(quoteservice.FormatDOCX))

	// Clients.
	r.Get("/clientes", h.ListClients)
	r.Post("/clientes", h.SaveClient)

	// Letterhead.
	r.Put("/branding/logo", h.SetBrandLogo)

	// Contextual chat.
	r.Post("/chat/chat-contextualizado", h.Chat)

	// Quoting sessions.
	r.Post("/sesiones", h.CreateSession)
	r.Get("/sesiones/{id}", h.GetSession)
	r.Delete("/sesiones/{id}", h.DeleteSession)
	r.Post("/sesiones/{id}/iniciar-analisis", h.StartAnalysis)
	r.Post("/sesiones/{id}/revision", h.RequestRevision)
	r.Post("/sesiones/{id}/volver-chat", h.ReturnToChat)
	r.Post("/sesiones/{id}/items", h.AddItem)
	r.Put("/sesiones/{id}/items/{index}", h.UpdateItem)
	r.Delete("/sesiones/{id}/items/{index}", h.RemoveItem)
	r.Post("/sesiones/{id}/restaurar", h.RestoreVersion)
	r.Put("/sesiones/{id}/estado", h.SetState)
	r.Put("/sesiones/{id}/opciones", h.SetDisplayOptions)
	r.Put("/sesiones/{id}/logo", h.SetLogo)
	r.Get("/sesiones/{id}/exportar", h.ExportSession)
	r.Post("/sesiones/{id}/importar", h.ImportSession)
	r.Post("/sesiones/{id}/guardar", h.SaveSessionQuote)
	r.Post("/sesiones/{id}/generar-html", h.GenerateSessionDoc(quoteservice.FormatHTML))
	r.Post("/sesiones/{id}/generar-pdf", h.GenerateSessionDoc(quoteservice.FormatPDF))
	r.Post("/sesiones/{id}/generar-word", h.GenerateSessionDoc(quoteservice.FormatDOCX))

	// Uploaded project documents.
	r.Post("/sesiones/{id}/documentos", h.UploadDocument)
	r.Get("/sesiones/{id}/documentos", h.ListDocuments)
	r.Delete("/sesiones/{id}/documentos/{nombre}", h.DeleteDocument)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
