package storage

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

func tempPath(t *testing.T, name string) string {
	t.Helper()
	return filepath.Join(t.TempDir(), name)
}

func TestWriteAndRead(t *testing.T) {
	s := NewFS()
	p := tempPath(t, "note.txt")
	content := []byte("Hello\nWorld\n")
	if err := s.Write(p, content); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := s.Read(p)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != string(content) {
		t.Errorf("content mismatch: got %q", got)
	}
}

func TestWriteTruncates(t *testing.T) {
	s := NewFS()
	p := tempPath(t, "trunc.txt")
	_ = s.Write(p, []byte("a much longer original"))
	if err := s.Write(p, []byte("short")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, _ := s.Read(p)
	if string(got) != "short" {
		t.Errorf("content = %q, want %q", got, "short")
	}
}

func TestReadMissing(t *testing.T) {
	s := NewFS()
	_, err := s.Read(tempPath(t, "missing.txt"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("err = %v, want fs.ErrNotExist", err)
	}
}

func TestOpen(t *testing.T) {
	s := NewFS()
	p := tempPath(t, "open.txt")
	_ = s.Write(p, []byte("stream"))
	rc, err := s.Open(p)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()
	got, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(got) != "stream" {
		t.Errorf("content = %q", got)
	}
}

func TestAppend(t *testing.T) {
	cases := []struct {
		name    string
		initial *string
		want    string
	}{
		{name: "missing file", initial: nil, want: "x\n"},
		{name: "empty file", initial: ptr(""), want: "x\n"},
		{name: "terminated", initial: ptr("a\n"), want: "a\nx\n"},
		{name: "unterminated", initial: ptr("a"), want: "a\nx\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := NewFS()
			p := tempPath(t, "append.txt")
			if tc.initial != nil {
				_ = os.WriteFile(p, []byte(*tc.initial), 0o644)
			}
			if err := s.Append(p, []byte("x\n")); err != nil {
				t.Fatalf("Append: %v", err)
			}
			got, _ := os.ReadFile(p)
			if string(got) != tc.want {
				t.Errorf("content = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestCreate(t *testing.T) {
	s := NewFS()
	p := tempPath(t, "create.txt")
	created, err := s.Create(p)
	if err != nil || !created {
		t.Fatalf("Create = %v, %v; want true, nil", created, err)
	}
	_ = os.WriteFile(p, []byte("keep"), 0o644)
	created, err = s.Create(p)
	if err != nil || created {
		t.Fatalf("second Create = %v, %v; want false, nil", created, err)
	}
	got, _ := os.ReadFile(p)
	if string(got) != "keep" {
		t.Errorf("existing content clobbered: %q", got)
	}
}

func TestCreateMissingDir(t *testing.T) {
	s := NewFS()
	p := filepath.Join(t.TempDir(), "no", "such", "dir", "f.txt")
	if _, err := s.Create(p); err == nil {
		t.Error("expected error creating in a missing directory")
	}
}

func TestModeApplied(t *testing.T) {
	s := &FS{Mode: 0o600}
	p := tempPath(t, "mode.txt")
	if err := s.Write(p, []byte("x")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	info, err := s.Stat(p)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm&0o077 != 0 {
		t.Errorf("perm = %o, want no group/other bits", perm)
	}
}

func TestAtomicWriteNoLeftovers(t *testing.T) {
	dir := t.TempDir()
	s := &FS{Atomic: true}
	p := filepath.Join(dir, "atomic.txt")
	_ = s.Write(p, []byte("original content"))

	updated := []byte("updated content")
	if err := s.Write(p, updated); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, _ := s.Read(p)
	if string(got) != string(updated) {
		t.Errorf("expected updated content, got %q", got)
	}

	// Confirm no leftover temp files.
	matches, _ := filepath.Glob(filepath.Join(dir, ".fileio-tmp-*"))
	if len(matches) != 0 {
		t.Errorf("leftover temp files: %v", matches)
	}
}

func TestAtomicWriteKeepsMode(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "perm.txt")
	if err := os.WriteFile(p, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
	s := &FS{Atomic: true, Mode: 0o644}
	if err := s.Write(p, []byte("y")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	info, _ := os.Stat(p)
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("perm = %o, want 600", perm)
	}
}

func ptr(s string) *string { return &s }
