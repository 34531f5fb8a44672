package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func tempRoot(t *testing.T) *FS {
	t.Helper()
	dir := t.TempDir()
	fs, err := NewFS(dir)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	return fs
}

func TestWriteAndRead(t *testing.T) {
	s := tempRoot(t)
	content := []byte("metrado de instalaciones\n")
	if err := s.Write("metrado.txt", content); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := s.Read("metrado.txt")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != string(content) {
		t.Errorf("content mismatch: got %q", got)
	}
}

func TestWriteCreatesSubdirs(t *testing.T) {
	s := tempRoot(t)
	if err := s.Write("sesion-1/planos/p1.pdf", []byte("deep")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := s.Read("sesion-1/planos/p1.pdf")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != "deep" {
		t.Errorf("content = %q", got)
	}
}

func TestDelete(t *testing.T) {
	s := tempRoot(t)
	_ = s.Write("del.txt", []byte("bye"))
	if err := s.Delete("del.txt"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Read("del.txt"); err == nil {
		t.Error("expected error reading deleted file")
	}
}

func TestList(t *testing.T) {
	s := tempRoot(t)
	_ = s.Write("a.txt", []byte("a"))
	_ = s.Write("sub/b.pdf", []byte("bb"))

	items, err := s.List("")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len = %d, want 2", len(items))
	}
	for _, it := range items {
		if it.Checksum == "" || it.Size == 0 {
			t.Errorf("incomplete metadata: %+v", it)
		}
	}
}

func TestTraversalBlocked(t *testing.T) {
	s := tempRoot(t)

	cases := []string{
		"../../etc/passwd",
		"../outside.txt",
		"/etc/shadow",
	}
	for _, p := range cases {
		if _, err := s.Read(p); err == nil {
			t.Errorf("expected error for path %q", p)
		}
		if err := s.Write(p, []byte("x")); err == nil {
			t.Errorf("expected error for write to %q", p)
		}
	}
}

func TestAtomicWriteNoCorruption(t *testing.T) {
	// Overwrites go through tmp file plus rename, so a reader never sees a
	// partial document.
	s := tempRoot(t)
	original := []byte("original content")
	_ = s.Write("atomic.txt", original)

	updated := []byte("updated content")
	if err := s.Write("atomic.txt", updated); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, _ := s.Read("atomic.txt")
	if string(got) != string(updated) {
		t.Errorf("expected updated content, got %q", got)
	}

	// Confirm no leftover temp files.
	matches, _ := filepath.Glob(filepath.Join(s.root, ".cotizador-tmp-*"))
	if len(matches) != 0 {
		t.Errorf("leftover temp files: %v", matches)
	}
}

func TestNewFS_CreatesRoot(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	if _, err := NewFS(dir); err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		t.Error("root directory was not created")
	}
}

func TestNewFS_FileNotDir(t *testing.T) {
	f, _ := os.CreateTemp("", "cotizador-test-*")
	_ = f.Close()
	defer os.Remove(f.Name())
	_, err := NewFS(f.Name())
	if err == nil {
		t.Error("expected error when root is a file")
	}
}
