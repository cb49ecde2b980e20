// Package storage defines the filesystem abstraction the line editor works through.
package storage

import (
	"io"
	"io/fs"
)

// Provider is the interface for single-file operations.
type Provider interface {
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Open returns a reader over the file at path. The caller closes it.
	Open(path string) (io.ReadCloser, error)
	// Write replaces the whole content of the file at path, creating it if needed.
	Write(path string, content []byte) error
	// Append writes content at the end of the file, creating it if needed.
	// A non-empty file that does not end in a newline gets one first.
	Append(path string, content []byte) error
	// Create creates an empty file iff none exists and reports whether it did.
	Create(path string) (bool, error)
	// Stat returns file info for path.
	Stat(path string) (fs.FileInfo, error)
}
