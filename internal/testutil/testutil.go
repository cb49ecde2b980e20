// Package testutil provides shared test helpers for working with temp files.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// TempFile writes content to a new file in a temp directory that is cleaned
// up automatically, and returns its path.
func TempFile(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

// MissingFile returns a path inside a temp directory where no file exists.
func MissingFile(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "missing.txt")
}

// ReadFile returns the content at path, failing the test on error.
func ReadFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}
