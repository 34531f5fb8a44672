// Package branding manages the letterhead assets stamped onto exported
// documents: the company logo and identity. Assets live in a directory that
// can be swapped at runtime; a watcher picks changes up without a restart.
package branding

import (
	"encoding/base64"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/teslaing/cotizador/internal/export"
)

// Asset filenames looked up inside the branding directory.
const (
	logoFile    = "logo.png"
	companyFile = "empresa.yaml"
)

// Manager holds the currently loaded branding. Reads and reloads may race
// from the HTTP and watcher goroutines.
type Manager struct {
	dir string

	mu         sync.RWMutex
	logoBase64 string
	company    export.CompanyInfo
}

// NewManager loads branding from dir. A missing directory or missing assets
// is not an error; exports simply go out unbranded.
func NewManager(dir string, fallback export.CompanyInfo) (*Manager, error) {
	m := &Manager{dir: dir, company: fallback}
	if err := m.Reload(); err != nil {
		return nil, err
	}
	return m, nil
}

// Reload re-reads the assets from disk. Individual missing files keep their
// previous values; a corrupt company file is an error.
func (m *Manager) Reload() error {
	if m.dir == "" {
		return nil
	}

	logo, err := os.ReadFile(filepath.Join(m.dir, logoFile))
	switch {
	case err == nil:
		m.mu.Lock()
		m.logoBase64 = base64.StdEncoding.EncodeToString(logo)
		m.mu.Unlock()
	case errors.Is(err, fs.ErrNotExist):
		// keep previous logo
	default:
		return err
	}

	raw, err := os.ReadFile(filepath.Join(m.dir, companyFile))
	switch {
	case err == nil:
		var c export.CompanyInfo
		if err := yaml.Unmarshal(raw, &c); err != nil {
			return err
		}
		m.mu.Lock()
		m.company = c
		m.mu.Unlock()
	case errors.Is(err, fs.ErrNotExist):
		// keep previous identity
	default:
		return err
	}
	return nil
}

// LogoBase64 returns the current logo, empty when none is configured.
func (m *Manager) LogoBase64() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.logoBase64
}

// Company returns the current letterhead identity.
func (m *Manager) Company() export.CompanyInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.company
}

// SetLogo overrides the logo, as when a session uploads its own letterhead.
func (m *Manager) SetLogo(b64 string) {
	m.mu.Lock()
	m.logoBase64 = b64
	m.mu.Unlock()
}
