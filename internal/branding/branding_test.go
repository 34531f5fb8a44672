package branding

import (
	"context"
	"encoding/base64"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/teslaing/cotizador/internal/export"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestNewManager_EmptyDirUsesFallback(t *testing.T) {
	fallback := export.CompanyInfo{Name: "Tesla Ingenieros EIRL"}
	m, err := NewManager(t.TempDir(), fallback)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	if m.LogoBase64() != "" {
		t.Error("expected no logo")
	}
	if m.Company().Name != "Tesla Ingenieros EIRL" {
		t.Errorf("company = %+v", m.Company())
	}
}

func TestReload_PicksUpAssets(t *testing.T) {
	dir := t.TempDir()
	m, err := NewManager(dir, export.CompanyInfo{Name: "Fallback"})
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	logo := []byte{0x89, 'P', 'N', 'G'}
	if err := os.WriteFile(filepath.Join(dir, "logo.png"), logo, 0o644); err != nil {
		t.Fatal(err)
	}
	company := "name: Nueva Razón Social\nruc: \"20987654321\"\n"
	if err := os.WriteFile(filepath.Join(dir, "empresa.yaml"), []byte(company), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := m.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if m.LogoBase64() != base64.StdEncoding.EncodeToString(logo) {
		t.Error("logo not loaded")
	}
	if got := m.Company(); got.Name != "Nueva Razón Social" || got.RUC != "20987654321" {
		t.Errorf("company = %+v", got)
	}
}

func TestReload_CorruptCompanyFile(t *testing.T) {
	dir := t.TempDir()
	m, err := NewManager(dir, export.CompanyInfo{})
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "empresa.yaml"), []byte("{not yaml"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := m.Reload(); err == nil {
		t.Error("expected error for corrupt company file")
	}
}

func TestWatch_ReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	m, err := NewManager(dir, export.CompanyInfo{})
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan struct{}, 4)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, m, testLogger(), func() { reloaded <- struct{}{} })
	}()

	// Give the watcher time to register.
	time.Sleep(100 * time.Millisecond)

	logo := []byte{0x89, 'P', 'N', 'G', 1, 2, 3}
	if err := os.WriteFile(filepath.Join(dir, "logo.png"), logo, 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-reloaded:
	case <-time.After(3 * time.Second):
		t.Fatal("timeout waiting for reload")
	}
	if m.LogoBase64() != base64.StdEncoding.EncodeToString(logo) {
		t.Error("logo not reloaded")
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Watch: %v", err)
	}
}

func TestWatch_IgnoresUnrelatedFiles(t *testing.T) {
	dir := t.TempDir()
	m, err := NewManager(dir, export.CompanyInfo{})
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan struct{}, 4)
	go func() { _ = Watch(ctx, m, testLogger(), func() { reloaded <- struct{}{} }) }()
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(filepath.Join(dir, "notas.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-reloaded:
		t.Error("unrelated file triggered a reload")
	case <-time.After(500 * time.Millisecond):
	}
}
