// Package storage defines the upload-directory abstraction for project
// documents attached to quoting sessions.
package storage

import "time"

// DocumentMeta describes one stored document.
type DocumentMeta struct {
	Path      string    `json:"nombre"`
	Size      int64     `json:"tamano"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"actualizadoEn"`
}

// Provider is the interface for document file operations.
type Provider interface {
	// List returns metadata for every file under dir (relative to the root).
	List(dir string) ([]DocumentMeta, error)
	// Read returns the raw bytes of the file at path (relative to the root).
	Read(path string) ([]byte, error)
	// Write atomically writes content to path (relative to the root).
	Write(path string, content []byte) error
	// Delete removes the file at path (relative to the root).
	Delete(path string) error
}
