// Package testutil provides shared test helpers for setting up databases
// and upload directories.
package testutil

import (
	"os"
	"testing"

	"github.com/teslaing/cotizador/internal/storage"
	"github.com/teslaing/cotizador/internal/store"
)

// TestDB creates a temporary SQLite database that is automatically cleaned up.
func TestDB(t *testing.T) *store.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "cotizador-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := store.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestUploadDir creates a temporary upload directory with a storage.Provider.
func TestUploadDir(t *testing.T) (string, storage.Provider) {
	t.Helper()
	dir := t.TempDir()
	prov, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return dir, prov
}
