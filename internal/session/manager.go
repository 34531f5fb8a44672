package session

import (
	"sync"

	"github.com/google/uuid"

	"github.com/teslaing/cotizador/internal/apperr"
)

// Manager owns the live sessions, keyed by id. Sessions are in-memory only;
// a restart clears them, which matches the browser-session lifecycle.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates an empty session manager.
func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*Session)}
}

// Create registers a new session at the configuration step and returns it.
func (m *Manager) Create(company, service, industry, context string) *Session {
	s := New(uuid.NewString(), company, service, industry, context)
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s
}

// Get returns the session with the given id.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return s, nil
}

// Delete discards a session; the quote and its history go with it.
func (m *Manager) Delete(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// Count reports the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
