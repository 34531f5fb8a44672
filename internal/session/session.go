// Package session holds the in-memory quoting sessions: the wizard state
// machine, the working quote, its version history, the conversation, and
// the display options. A session lives until reset or server shutdown;
// durable persistence is the store's concern, not ours.
package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/teslaing/cotizador/internal/apperr"
	"github.com/teslaing/cotizador/internal/models"
	"github.com/teslaing/cotizador/internal/quote"
)

// Step is one wizard phase. Transitions go through the named methods so an
// invalid jump is unrepresentable instead of an ad hoc numeric flag.
type Step string

// Wizard steps.
const (
	StepConfig Step = "configuracion"
	StepChat   Step = "chat"
	StepEdit   Step = "edicion"
)

// Session is one user's quoting flow. All mutating methods take the lock;
// at most one chat request is in flight per session (Busy guards it).
type Session struct {
	ID        string
	CreatedAt time.Time

	mu           sync.Mutex
	step         Step
	busy         bool // one outstanding chat request at a time
	revising     bool // next generation is a revision, not a first draft
	company      string
	service      string
	industry     string
	context      string
	quote        *models.Quote
	history      quote.History
	conversation []models.ChatMessage
	files        []models.FileMeta

	hideUnitPrices bool
	hideItemTotals bool
	taxMode        quote.TaxDisplayMode
	logoBase64     string
}

// New creates a session at the configuration step.
func New(id, company, service, industry, context string) *Session {
	return &Session{
		ID:        id,
		CreatedAt: time.Now(),
		step:      StepConfig,
		company:   company,
		service:   service,
		industry:  industry,
		context:   context,
		taxMode:   quote.TaxExcluded,
	}
}

// Step returns the current wizard step.
func (s *Session) Step() Step {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step
}

// Config returns the fixed service selection made at creation time.
func (s *Session) Config() (company, service, industry, context string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.company, s.service, s.industry, s.context
}

// Files returns a copy of the uploaded file metadata.
func (s *Session) Files() []models.FileMeta {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.FileMeta, len(s.files))
	copy(out, s.files)
	return out
}

// Logo returns the session letterhead image, empty when none was uploaded.
func (s *Session) Logo() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.logoBase64
}

// StartAnalysis moves configuration → chat once the service selection is done.
func (s *Session) StartAnalysis() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.step != StepConfig {
		return fmt.Errorf("session: start analysis from %s: %w", s.step, apperr.ErrInvalidTransition)
	}
	s.step = StepChat
	return nil
}

// RequestRevision moves edit → chat and marks the next generation as a
// revision (version bump instead of 1.0).
func (s *Session) RequestRevision() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.step != StepEdit {
		return fmt.Errorf("session: request revision from %s: %w", s.step, apperr.ErrInvalidTransition)
	}
	s.step = StepChat
	s.revising = true
	return nil
}

// ReturnToChat moves edit → chat without arming a revision; the user just
// wants to keep talking.
func (s *Session) ReturnToChat() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.step != StepEdit {
		return fmt.Errorf("session: return to chat from %s: %w", s.step, apperr.ErrInvalidTransition)
	}
	s.step = StepChat
	return nil
}

// ApplyGeneration installs a freshly parsed quote: version 1.0 on first
// generation, +0.1 on a revision; state reset to draft; a history entry is
// committed and the wizard moves to the edit step. The previous quote is
// replaced wholesale, never merged.
func (s *Session) ApplyGeneration(q *models.Quote) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.step != StepChat {
		return fmt.Errorf("session: quote generated in %s: %w", s.step, apperr.ErrInvalidTransition)
	}
	next := q.Clone()
	if s.revising && s.quote != nil {
		next.Version = s.quote.Version.Bump()
	} else {
		next.Version = models.FirstVersion
	}
	next.State = models.StateDraft
	s.quote = next
	s.history.Commit(next)
	s.revising = false
	s.step = StepEdit
	return nil
}

// TryBeginRequest marks a chat request in flight. It reports false when one
// is already outstanding, mirroring the disabled send control.
func (s *Session) TryBeginRequest() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return false
	}
	s.busy = true
	return true
}

// EndRequest clears the in-flight marker.
func (s *Session) EndRequest() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
}

// AddMessage appends one conversation turn.
func (s *Session) AddMessage(role, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conversation = append(s.conversation, models.ChatMessage{
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	})
}

// Conversation returns a copy of the chat transcript.
func (s *Session) Conversation() []models.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.ChatMessage, len(s.conversation))
	copy(out, s.conversation)
	return out
}

// AddFile records metadata for an uploaded project file. Order is
// completion order: concurrent uploads append as each one finishes.
func (s *Session) AddFile(meta models.FileMeta) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files = append(s.files, meta)
}

// RemoveFile drops the metadata entry for a deleted upload. Unknown names
// are a no-op.
func (s *Session) RemoveFile(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, f := range s.files {
		if f.Name == name {
			s.files = append(s.files[:i], s.files[i+1:]...)
			return
		}
	}
}

// Quote returns a deep copy of the working quote, or nil before the first
// generation.
func (s *Session) Quote() *models.Quote {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.quote.Clone()
}

// Totals recomputes the totals from the current items.
func (s *Session) Totals() quote.Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.quote == nil {
		return quote.Totals{}
	}
	return quote.ComputeTotals(s.quote.Items)
}

// UpdateItemField applies a single-field edit; invalid numeric input keeps
// the previous value.
func (s *Session) UpdateItemField(index int, field, raw string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.quote == nil {
		return
	}
	s.quote.Items = quote.UpdateItem(s.quote.Items, index, field, raw)
}

// AddItem appends a placeholder row to the working quote.
func (s *Session) AddItem(chapter string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.quote == nil {
		return
	}
	s.quote.Items = quote.AddItem(s.quote.Items, chapter)
}

// RemoveItem deletes the row at index.
func (s *Session) RemoveItem(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.quote == nil {
		return
	}
	s.quote.Items = quote.RemoveItem(s.quote.Items, index)
}

// SetNumero records the numero assigned when the working quote was first
// persisted, so later saves update the same record.
func (s *Session) SetNumero(numero string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.quote != nil {
		s.quote.Numero = numero
	}
}

// Revising reports whether the next generation bumps the version instead of
// starting at 1.0.
func (s *Session) Revising() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revising
}

// SetState tags the quote's review status.
func (s *Session) SetState(state models.QuoteState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.quote != nil {
		s.quote.State = state
	}
}

// History lists the committed snapshots in creation order.
func (s *Session) History() []models.HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.List()
}

// RestoreVersion copies a past snapshot back into the working quote and
// commits a new entry noting the restoration. The restored quote keeps its
// own version number; the annotation records where it came from.
func (s *Session) RestoreVersion(v models.Version) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	restored, err := s.history.Restore(v)
	if err != nil {
		return err
	}
	s.quote = restored
	s.history.CommitNote(restored, fmt.Sprintf("restaurada desde v%s", v))
	return nil
}

// DisplayOptions returns the presentation toggles for exports.
func (s *Session) DisplayOptions() (hideUnitPrices, hideItemTotals bool, taxMode quote.TaxDisplayMode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hideUnitPrices, s.hideItemTotals, s.taxMode
}

// SetDisplayOptions updates the presentation toggles. An unknown tax mode
// is ignored, keeping the previous one.
func (s *Session) SetDisplayOptions(hideUnitPrices, hideItemTotals bool, taxMode quote.TaxDisplayMode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hideUnitPrices = hideUnitPrices
	s.hideItemTotals = hideItemTotals
	if taxMode.Valid() {
		s.taxMode = taxMode
	}
}

// SetLogo stores the letterhead image for exports (base64, data-URL or raw).
func (s *Session) SetLogo(b64 string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logoBase64 = b64
}
