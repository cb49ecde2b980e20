package lineio

import (
	"bytes"
	"strings"
)

// document is the parsed form of a file that line mutations operate on.
// It remembers the separator and whether the last line was terminated so
// that rewriting an unmodified document reproduces the original bytes.
type document struct {
	lines      []string
	sep        string
	terminated bool
}

// newDocument returns the document of an empty file.
func newDocument() *document {
	return &document{sep: "\n", terminated: true}
}

// parse splits data into lines. A final line break ends the last line rather
// than starting an empty one, and a '\r' right before '\n' is dropped.
func parse(data []byte) *document {
	doc := newDocument()
	if len(data) == 0 {
		return doc
	}
	if i := bytes.IndexByte(data, '\n'); i > 0 && data[i-1] == '\r' {
		doc.sep = "\r\n"
	}
	doc.terminated = data[len(data)-1] == '\n'
	doc.lines = splitLines(data)
	return doc
}

func splitLines(data []byte) []string {
	lines := make([]string, 0, bytes.Count(data, []byte{'\n'})+1)
	for len(data) > 0 {
		i := bytes.IndexByte(data, '\n')
		if i < 0 {
			lines = append(lines, string(data))
			break
		}
		lines = append(lines, string(bytes.TrimSuffix(data[:i], []byte{'\r'})))
		data = data[i+1:]
	}
	return lines
}

// bytes serializes the document.
func (d *document) bytes() []byte {
	var b strings.Builder
	for i, line := range d.lines {
		if i > 0 {
			b.WriteString(d.sep)
		}
		b.WriteString(line)
	}
	// An empty last line only survives parsing when it is terminated.
	if n := len(d.lines); n > 0 && (d.terminated || d.lines[n-1] == "") {
		b.WriteString(d.sep)
	}
	return []byte(b.String())
}

// pad grows the document with empty lines until it holds n lines.
func (d *document) pad(n int) {
	for len(d.lines) < n {
		d.lines = append(d.lines, "")
	}
}

// set replaces line n (1-based), padding as needed.
func (d *document) set(n int, content string) {
	d.pad(n)
	d.lines[n-1] = content
}

// insert places lines before line n (1-based). When n is past the end the
// document is first padded so the inserted lines start at n.
func (d *document) insert(n int, lines ...string) {
	d.pad(n - 1)
	d.lines = append(d.lines[:n-1], append(append([]string(nil), lines...), d.lines[n-1:]...)...)
}

// remove deletes the inclusive range [start, end] clipped to the document length.
func (d *document) remove(start, end int) {
	if start > len(d.lines) {
		return
	}
	end = min(end, len(d.lines))
	d.lines = append(d.lines[:start-1], d.lines[end:]...)
}

// slice returns a copy of the inclusive range [start, end] clipped to the
// document length. It is never nil.
func (d *document) slice(start, end int) []string {
	if start > len(d.lines) {
		return []string{}
	}
	end = min(end, len(d.lines))
	return append([]string{}, d.lines[start-1:end]...)
}

// Split splits content into lines the same way ReadLines does.
func Split(content string) []string {
	return parse([]byte(content)).lines
}
