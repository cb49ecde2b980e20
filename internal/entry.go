// Package internal wires configuration, logging and the line editor together
// and hosts the demonstration run.
package internal

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/starford/fileio/internal/lineio"
	"github.com/starford/fileio/internal/storage"
)

// NewLogger builds the slog logger described by cfg writing to w.
// In auto format a terminal gets the text handler and anything else JSON.
func NewLogger(cfg ApplicationConfig, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	format := cfg.LogFormat
	if format == "" || format == LogFormatAuto {
		format = LogFormatJSON
		if f, ok := w.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
			format = LogFormatText
		}
	}
	if format == LogFormatText {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// NewEditor returns a line editor for path using the editor settings of cfg.
func NewEditor(cfg *Config, path string, logger *slog.Logger) (*lineio.File, error) {
	mode, err := cfg.Editor.Mode()
	if err != nil {
		return nil, err
	}
	store := &storage.FS{Mode: mode, Atomic: cfg.Editor.AtomicWrites}
	return lineio.New(path, lineio.WithProvider(store), lineio.WithLogger(logger)), nil
}

// Run executes the demonstration sequence against the configured example file.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}
	if app.out == nil {
		app.out = os.Stdout
	}
	if app.logger == nil {
		app.logger = NewLogger(app.config.App, os.Stderr)
	}

	cfg := app.config
	logger := app.logger

	if err := ctx.Err(); err != nil {
		return err
	}

	logger.Info("Demo starting",
		slog.String("path", cfg.Demo.Path),
		slog.Bool("atomic_writes", cfg.Editor.AtomicWrites),
		slog.String("log_level", cfg.App.LogLevel.String()))

	f, err := NewEditor(cfg, cfg.Demo.Path, logger)
	if err != nil {
		return fmt.Errorf("init editor: %w", err)
	}

	created, err := f.CreateIfMissing()
	if err != nil {
		return fmt.Errorf("create example file: %w", err)
	}
	logger.Debug("example file ready", slog.Bool("created", created))

	steps := []struct {
		name string
		fn   func() error
	}{
		{"write", func() error { return f.Write("Start") }},
		{"append", func() error { return f.Append("Line 1") }},
		{"append", func() error { return f.Append("Line 2") }},
		{"write line", func() error { return f.WriteLine(2, "Updated line 2") }},
		{"insert line", func() error { return f.InsertLine(1, "Inserted line 1") }},
		{"insert lines", func() error { return f.InsertLines(3, []string{"A", "B", "C"}) }},
		{"remove line", func() error { return f.RemoveLine(5) }},
		{"find replace", func() error {
			n, err := f.FindReplace("Line", "Ln")
			logger.Debug("replaced", slog.Int("count", n))
			return err
		}},
	}
	for _, step := range steps {
		if err := step.fn(); err != nil {
			return fmt.Errorf("%s: %w", step.name, err)
		}
	}

	first, err := f.ReadRange(1, 4)
	if err != nil {
		return fmt.Errorf("read range: %w", err)
	}
	count, err := f.CountLines()
	if err != nil {
		return fmt.Errorf("count lines: %w", err)
	}
	lines, err := f.ReadLines()
	if err != nil {
		return fmt.Errorf("read lines: %w", err)
	}

	fmt.Fprintf(app.out, "First 4 lines: %q\n", first)
	fmt.Fprintf(app.out, "File has %d lines\n", count)
	fmt.Fprintf(app.out, "\nFile content:\n%s\n", strings.Join(lines, "\n"))

	logger.Info("Demo finished", slog.Int("lines", count))
	return nil
}
