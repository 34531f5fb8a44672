// Package quoteservice coordinates the store, the in-memory sessions, the
// chat provider, and the exporters behind the API and MCP surfaces.
package quoteservice

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/teslaing/cotizador/internal/ai"
	"github.com/teslaing/cotizador/internal/apperr"
	"github.com/teslaing/cotizador/internal/branding"
	"github.com/teslaing/cotizador/internal/export"
	"github.com/teslaing/cotizador/internal/extract"
	"github.com/teslaing/cotizador/internal/models"
	"github.com/teslaing/cotizador/internal/parser"
	"github.com/teslaing/cotizador/internal/quote"
	"github.com/teslaing/cotizador/internal/session"
	"github.com/teslaing/cotizador/internal/sse"
	"github.com/teslaing/cotizador/internal/storage"
	"github.com/teslaing/cotizador/internal/store"
)

// Export formats.
const (
	FormatHTML = "html"
	FormatPDF  = "pdf"
	FormatDOCX = "docx"
)

// maxAttachments bounds how many uploaded documents ride along on one chat
// turn, matching the prompt excerpt cap.
const maxAttachments = 3

// Service wires the collaborators together. The broker and provider may be
// nil in reduced configurations (tests, MCP-only runs).
type Service struct {
	store    store.Store
	sessions *session.Manager
	provider ai.Provider
	broker   *sse.Broker
	brand    *branding.Manager
	uploads  storage.Provider
	logger   *slog.Logger
	now      func() time.Time
}

// NewService creates the orchestration service.
func NewService(st store.Store, sessions *session.Manager, provider ai.Provider, broker *sse.Broker, brand *branding.Manager, uploads storage.Provider, logger *slog.Logger) *Service {
	return &Service{
		store:    st,
		sessions: sessions,
		provider: provider,
		broker:   broker,
		brand:    brand,
		uploads:  uploads,
		logger:   logger,
		now:      time.Now,
	}
}

// ListQuotes returns one page of stored quote summaries.
func (s *Service) ListQuotes(_ context.Context, f store.ListFilter) ([]store.QuoteSummary, int, error) {
	return s.store.ListQuotes(f)
}

// GetQuote loads one stored quote.
func (s *Service) GetQuote(_ context.Context, numero string) (*store.QuoteRecord, error) {
	return s.store.GetQuote(numero)
}

// SaveQuote persists a quote and notifies listeners. A quote saved without
// a numero is a creation; one with a numero is an update.
func (s *Service) SaveQuote(_ context.Context, q *models.Quote) (*store.QuoteRecord, error) {
	creating := q != nil && q.Numero == ""
	rec, err := s.store.SaveQuote(q)
	if err != nil {
		return nil, err
	}
	if err := s.store.UpsertClient(rec.Quote.Client); err != nil {
		s.logger.Warn("quoteservice: client upsert failed", slog.String("error", err.Error()))
	}
	if s.broker != nil {
		kind := sse.QuoteUpdated
		if creating {
			kind = sse.QuoteCreated
		}
		s.broker.PublishQuoteEvent(kind, rec.Quote.Numero)
	}
	return rec, nil
}

// DeleteQuote removes a stored quote and notifies listeners.
func (s *Service) DeleteQuote(_ context.Context, numero string) error {
	if err := s.store.DeleteQuote(numero); err != nil {
		return err
	}
	if s.broker != nil {
		s.broker.PublishQuoteEvent(sse.QuoteDeleted, numero)
	}
	return nil
}

// ListClients returns the recorded clients.
func (s *Service) ListClients(_ context.Context) ([]models.Client, error) {
	return s.store.ListClients()
}

// SaveClient records a client directly.
func (s *Service) SaveClient(_ context.Context, c models.Client) error {
	return s.store.UpsertClient(c)
}

// CreateSession opens a quoting session at the configuration step.
func (s *Service) CreateSession(company, service, industry, context string) *session.Session {
	return s.sessions.Create(company, service, industry, context)
}

// Session looks a session up by id.
func (s *Service) Session(id string) (*session.Session, error) {
	return s.sessions.Get(id)
}

// DeleteSession discards a session and its in-memory state. Stored quotes
// and uploaded files survive.
func (s *Service) DeleteSession(id string) {
	s.sessions.Delete(id)
}

// ChatResult is one assistant turn: the conversational reply, the generated
// quote when the reply carried one, and the action buttons the client
// should offer next.
type ChatResult struct {
	Reply   string
	Quote   *models.Quote
	Buttons []string
}

// Chat runs one conversation round: build the prompt from the session and
// its documents, call the provider, parse the reply, and install the quote
// when one was generated. Only one round per session may be in flight.
func (s *Service) Chat(ctx context.Context, sessionID, message string) (*ChatResult, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if sess.Step() != session.StepChat {
		return nil, fmt.Errorf("quoteservice: chat in step %s: %w", sess.Step(), apperr.ErrInvalidTransition)
	}
	if s.provider == nil || !s.provider.Available() {
		return nil, fmt.Errorf("quoteservice: no chat provider configured")
	}
	if !sess.TryBeginRequest() {
		return nil, fmt.Errorf("quoteservice: request already in flight: %w", apperr.ErrConflict)
	}
	defer sess.EndRequest()

	excerpts, attachments := s.collectDocuments(sessionID)
	_, svc, industry, projectCtx := sess.Config()

	history := sess.Conversation()
	sess.AddMessage(models.RoleUser, message)

	prompt := ai.BuildQuotePrompt(ai.PromptInput{
		Service:      svc,
		Industry:     industry,
		Context:      projectCtx,
		Message:      message,
		DocExcerpts:  excerpts,
		History:      history,
		CurrentQuote: sess.Quote(),
		Revision:     sess.Revising(),
	})

	reply, err := s.provider.Send(ctx, []ai.Message{{
		Role:        ai.RoleUser,
		Text:        prompt,
		Attachments: attachments,
	}})
	if err != nil {
		return nil, fmt.Errorf("quoteservice: chat: %w", err)
	}

	res, parseErr := parser.Parse(reply.Text)
	if parseErr != nil {
		// The reply looked like a quote but did not validate. Surface the
		// raw text so the user can ask for a correction.
		s.logger.Warn("quoteservice: quote parse failed",
			slog.String("session", sessionID),
			slog.String("error", parseErr.Error()))
		sess.AddMessage(models.RoleAssistant, reply.Text)
		return &ChatResult{
			Reply:   "La respuesta no pudo interpretarse como cotización. Pide al asistente que la genere de nuevo.",
			Buttons: chatButtons(false),
		}, nil
	}

	sess.AddMessage(models.RoleAssistant, res.Reply)
	out := &ChatResult{Reply: res.Reply, Buttons: chatButtons(res.IsQuote())}
	if res.IsQuote() {
		if err := sess.ApplyGeneration(res.Quote); err != nil {
			return nil, err
		}
		out.Quote = sess.Quote()
		out.Reply = "Cotización generada. Revisa las partidas y ajusta lo que necesites."
	}

	if s.broker != nil {
		s.broker.Publish(sse.Event{Type: "chat.respuesta", Data: map[string]string{"sesion": sessionID}})
	}
	return out, nil
}

// chatButtons picks the contextual actions for the client UI.
func chatButtons(generated bool) []string {
	if generated {
		return []string{"Editar partidas", "Generar PDF", "Solicitar revisión"}
	}
	return []string{"Generar cotización", "Adjuntar documentos"}
}

// collectDocuments gathers prompt excerpts and binary attachments from the
// session's uploaded files. Extraction failures skip the file.
func (s *Service) collectDocuments(sessionID string) ([]string, []ai.Attachment) {
	if s.uploads == nil {
		return nil, nil
	}
	metas, err := s.uploads.List(sessionID)
	if err != nil {
		s.logger.Warn("quoteservice: list documents failed",
			slog.String("session", sessionID),
			slog.String("error", err.Error()))
		return nil, nil
	}

	var excerpts []string
	var attachments []ai.Attachment
	for _, m := range metas {
		data, err := s.uploads.Read(m.Path)
		if err != nil {
			continue
		}
		name := path.Base(m.Path)
		if extract.Supported(name) {
			res, err := extract.Text(name, data)
			if err == nil && res.Text != "" {
				excerpts = append(excerpts, fmt.Sprintf("%s:\n%s", name, res.Text))
			}
			continue
		}
		if mt := attachmentMediaType(name); mt != "" && len(attachments) < maxAttachments {
			attachments = append(attachments, ai.Attachment{
				MediaType: mt,
				Data:      base64Encode(data),
			})
		}
	}
	return excerpts, attachments
}

func base64Encode(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

func attachmentMediaType(name string) string {
	switch strings.ToLower(path.Ext(name)) {
	case ".pdf":
		return "application/pdf"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".webp":
		return "image/webp"
	}
	return ""
}

// UploadDocument stores a project file under the session's directory and
// records it in the session.
func (s *Service) UploadDocument(sessionID, filename string, data []byte) (storage.DocumentMeta, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return storage.DocumentMeta{}, err
	}
	if s.uploads == nil {
		return storage.DocumentMeta{}, fmt.Errorf("quoteservice: uploads not configured")
	}
	rel := path.Join(sessionID, path.Base(filename))
	if err := s.uploads.Write(rel, data); err != nil {
		return storage.DocumentMeta{}, err
	}
	sess.AddFile(models.FileMeta{
		Name: path.Base(filename),
		Type: strings.TrimPrefix(strings.ToLower(path.Ext(filename)), "."),
		Size: fmt.Sprintf("%d", len(data)),
	})
	return storage.DocumentMeta{Path: rel, Size: int64(len(data))}, nil
}

// ListDocuments lists the files uploaded for a session.
func (s *Service) ListDocuments(sessionID string) ([]storage.DocumentMeta, error) {
	if s.uploads == nil {
		return nil, nil
	}
	return s.uploads.List(sessionID)
}

// DeleteDocument removes one uploaded file from the session's directory and
// drops its metadata from the session.
func (s *Service) DeleteDocument(sessionID, filename string) error {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return err
	}
	if s.uploads == nil {
		return fmt.Errorf("quoteservice: uploads not configured")
	}
	name := path.Base(filename)
	if err := s.uploads.Delete(path.Join(sessionID, name)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("quoteservice: document %s: %w", name, apperr.ErrNotFound)
		}
		return err
	}
	sess.RemoveFile(name)
	return nil
}

// SetBrandLogo replaces the letterhead logo used by subsequent exports. The
// branding watcher restores the on-disk logo when the directory changes.
func (s *Service) SetBrandLogo(b64 string) error {
	if s.brand == nil {
		return fmt.Errorf("quoteservice: branding not configured")
	}
	if _, err := base64.StdEncoding.DecodeString(b64); err != nil {
		return fmt.Errorf("quoteservice: logo is not valid base64: %w", apperr.ErrInvalidInput)
	}
	s.brand.SetLogo(b64)
	return nil
}

// exportOptions merges the session display toggles with the branding
// letterhead. A session logo overrides the configured one.
func (s *Service) exportOptions(sess *session.Session) export.Options {
	opts := export.Options{Date: s.now()}
	if s.brand != nil {
		opts.Company = s.brand.Company()
		opts.LogoBase64 = s.brand.LogoBase64()
	}
	if sess != nil {
		hideUnit, hideTotals, taxMode := sess.DisplayOptions()
		opts.HideUnitPrices = hideUnit
		opts.HideItemTotals = hideTotals
		opts.TaxMode = taxMode
		if logo := sess.Logo(); logo != "" {
			opts.LogoBase64 = logo
		}
	}
	return opts
}

// ExportSession renders the session's working quote. Returns the document
// bytes, the suggested filename, and the content type.
func (s *Service) ExportSession(sessionID, format string) ([]byte, string, string, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, "", "", err
	}
	q := sess.Quote()
	if q == nil {
		return nil, "", "", fmt.Errorf("quoteservice: session has no quote yet: %w", apperr.ErrNotFound)
	}
	return s.render(q, s.exportOptions(sess), format)
}

// ExportQuote renders a stored quote with the letterhead defaults.
func (s *Service) ExportQuote(numero, format string) ([]byte, string, string, error) {
	rec, err := s.store.GetQuote(numero)
	if err != nil {
		return nil, "", "", err
	}
	return s.render(rec.Quote, s.exportOptions(nil), format)
}

func (s *Service) render(q *models.Quote, opts export.Options, format string) ([]byte, string, string, error) {
	var (
		data []byte
		err  error
		ct   string
	)
	switch format {
	case FormatHTML:
		data, err = export.RenderHTML(q, opts)
		ct = "text/html; charset=utf-8"
	case FormatPDF:
		data, err = export.RenderPDF(q, opts)
		ct = "application/pdf"
	case FormatDOCX:
		data, err = export.RenderDOCX(q, opts)
		ct = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	default:
		return nil, "", "", fmt.Errorf("quoteservice: unknown export format %q: %w", format, apperr.ErrInvalidInput)
	}
	if err != nil {
		return nil, "", "", err
	}
	prefix := "cotizacion"
	if q.Numero != "" {
		prefix = q.Numero
	}
	return data, export.Filename(prefix, q.Version, opts.Date, format), ct, nil
}

// SaveSessionQuote persists the session's working quote to the store,
// assigning a numero on first save, and writes it back into the session so
// later saves update the same record.
func (s *Service) SaveSessionQuote(ctx context.Context, sessionID string) (*store.QuoteRecord, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	q := sess.Quote()
	if q == nil {
		return nil, fmt.Errorf("quoteservice: session has no quote yet: %w", apperr.ErrNotFound)
	}
	rec, err := s.SaveQuote(ctx, q)
	if err != nil {
		return nil, err
	}
	sess.SetNumero(rec.Quote.Numero)
	return rec, nil
}

// Totals recomputes a quote's totals for display.
func (s *Service) Totals(q *models.Quote) quote.FormattedTotals {
	if q == nil {
		return quote.Totals{}.Format()
	}
	return quote.ComputeTotals(q.Items).Format()
}
