// Package lineio provides a line-oriented editor bound to a single text file.
//
// Every operation opens, uses and closes the file on its own; nothing is
// cached between calls. Mutations read the whole file, change the line
// sequence in memory and write the whole file back.
//
// Lines are addressed from 1. A final line break terminates the last line
// instead of starting an empty one, so "a\nb\n" and "a\nb" both hold the
// lines ["a", "b"]. Rewrites keep the file's separator and final line break.
package lineio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/starford/fileio/internal/apperr"
	"github.com/starford/fileio/internal/storage"
)

// File is a line editor bound to one path. The zero value is not usable;
// construct it with New or Open.
type File struct {
	path   string
	store  storage.Provider
	logger *slog.Logger
}

// New returns a File bound to path. The path is not checked.
func New(path string, opts ...Option) *File {
	f := &File{
		path:   path,
		store:  storage.NewFS(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Open is shorthand for New(path) with default options.
func Open(path string) *File {
	return New(path)
}

// Path returns the bound path.
func (f *File) Path() string {
	return f.path
}

// ReadAll returns the full raw content.
func (f *File) ReadAll() (string, error) {
	data, err := f.read()
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ReadLines returns the file's lines without their terminators.
func (f *File) ReadLines() ([]string, error) {
	data, err := f.read()
	if err != nil {
		return nil, err
	}
	return parse(data).lines, nil
}

// ReadNonEmptyLines returns the trimmed lines that are not blank.
func (f *File) ReadNonEmptyLines() ([]string, error) {
	lines, err := f.ReadLines()
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out, nil
}

// CountLines counts lines while streaming the file.
func (f *File) CountLines() (int, error) {
	rc, err := f.store.Open(f.path)
	if err != nil {
		return 0, classify(err)
	}
	defer rc.Close()

	var (
		count int
		tail  = byte('\n')
		buf   = make([]byte, 32*1024)
	)
	for {
		n, err := rc.Read(buf)
		if n > 0 {
			count += bytes.Count(buf[:n], []byte{'\n'})
			tail = buf[n-1]
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("lineio: count %s: %w", f.path, err)
		}
	}
	// An unterminated final line still counts.
	if tail != '\n' {
		count++
	}
	return count, nil
}

// IsEmpty reports whether the file is missing or has no bytes.
func (f *File) IsEmpty() (bool, error) {
	info, err := f.store.Stat(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return true, nil
		}
		return false, err
	}
	return info.Size() == 0, nil
}

// Write replaces the file content verbatim.
func (f *File) Write(content string) error {
	return f.store.Write(f.path, []byte(content))
}

// WriteLines replaces the file content with lines, each terminated by '\n'.
func (f *File) WriteLines(lines []string) error {
	if err := checkContent(lines...); err != nil {
		return err
	}
	doc := newDocument()
	doc.lines = lines
	return f.store.Write(f.path, doc.bytes())
}

// Append adds content as a new last line.
func (f *File) Append(content string) error {
	if err := checkContent(content); err != nil {
		return err
	}
	return f.store.Append(f.path, []byte(content+"\n"))
}

// AppendLines adds each element as its own line.
func (f *File) AppendLines(lines []string) error {
	if err := checkContent(lines...); err != nil {
		return err
	}
	if len(lines) == 0 {
		return nil
	}
	return f.store.Append(f.path, []byte(strings.Join(lines, "\n")+"\n"))
}

// WriteLine sets line n to content, padding with empty lines when the file
// is shorter than n. Content must be a single line: no '\n' and no
// trailing '\r'.
func (f *File) WriteLine(n int, content string) error {
	if err := checkLine(n); err != nil {
		return err
	}
	if err := checkContent(content); err != nil {
		return err
	}
	doc := f.current()
	doc.set(n, content)
	return f.save(doc)
}

// InsertLine inserts content before line n, shifting later lines down.
func (f *File) InsertLine(n int, content string) error {
	return f.InsertLines(n, []string{content})
}

// InsertLines inserts lines in order starting at line n.
func (f *File) InsertLines(n int, lines []string) error {
	if err := checkLine(n); err != nil {
		return err
	}
	if err := checkContent(lines...); err != nil {
		return err
	}
	doc := f.current()
	doc.insert(n, lines...)
	return f.save(doc)
}

// RemoveLine removes line n. A line past the end leaves the content as is.
func (f *File) RemoveLine(n int) error {
	return f.RemoveLines(n, n)
}

// RemoveLines removes the inclusive range between start and end, in either
// order, clipped to the file length.
func (f *File) RemoveLines(start, end int) error {
	start, end, err := checkRange(start, end)
	if err != nil {
		return err
	}
	doc := f.current()
	doc.remove(start, end)
	return f.save(doc)
}

// ReadRange returns the inclusive range between start and end, in either
// order, clipped to the file length.
func (f *File) ReadRange(start, end int) ([]string, error) {
	start, end, err := checkRange(start, end)
	if err != nil {
		return nil, err
	}
	data, err := f.read()
	if err != nil {
		return nil, err
	}
	return parse(data).slice(start, end), nil
}

// FindReplace replaces every non-overlapping occurrence of find with replace
// and returns how many were replaced. The file is only rewritten when
// something matched.
func (f *File) FindReplace(find, replace string) (int, error) {
	if find == "" {
		return 0, nil
	}
	data := f.currentBytes()
	count := strings.Count(string(data), find)
	if count == 0 {
		return 0, nil
	}
	out := strings.ReplaceAll(string(data), find, replace)
	if err := f.store.Write(f.path, []byte(out)); err != nil {
		return 0, err
	}
	return count, nil
}

// CreateIfMissing creates an empty file when none exists and reports
// whether it did.
func (f *File) CreateIfMissing() (bool, error) {
	return f.store.Create(f.path)
}

// Exists reports whether the path is an existing file.
func (f *File) Exists() bool {
	info, err := f.store.Stat(f.path)
	return err == nil && !info.IsDir()
}

func (f *File) read() ([]byte, error) {
	data, err := f.store.Read(f.path)
	if err != nil {
		return nil, classify(err)
	}
	return data, nil
}

// currentBytes reads the file for a mutation. On a read error it substitutes
// empty content so the mutation proceeds as if the file were empty.
func (f *File) currentBytes() []byte {
	data, err := f.store.Read(f.path)
	if err != nil {
		f.logger.Debug("lineio: read failed, starting from empty content",
			slog.String("path", f.path),
			slog.String("error", err.Error()))
		return nil
	}
	return data
}

func (f *File) current() *document {
	return parse(f.currentBytes())
}

func (f *File) save(doc *document) error {
	return f.store.Write(f.path, doc.bytes())
}

// classify marks missing-file errors with apperr.ErrNotFound while keeping
// the underlying error in the chain.
func classify(err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("lineio: %w: %w", apperr.ErrNotFound, err)
	}
	return err
}

func checkLine(n int) error {
	if n < 1 {
		return fmt.Errorf("lineio: line number %d: %w", n, apperr.ErrInvalidInput)
	}
	return nil
}

// checkContent rejects lines that would not read back unchanged.
func checkContent(lines ...string) error {
	for _, line := range lines {
		if strings.ContainsRune(line, '\n') || strings.HasSuffix(line, "\r") {
			return fmt.Errorf("lineio: line %q is not a single line: %w", line, apperr.ErrInvalidInput)
		}
	}
	return nil
}

func checkRange(start, end int) (int, int, error) {
	if err := checkLine(start); err != nil {
		return 0, 0, err
	}
	if err := checkLine(end); err != nil {
		return 0, 0, err
	}
	if start > end {
		start, end = end, start
	}
	return start, end, nil
}
