package internal

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestRun_Demo(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Demo.Path = filepath.Join(t.TempDir(), "example.txt")

	var out bytes.Buffer
	if err := Run(context.Background(), WithConfig(cfg), WithLogger(quietLogger()), WithOutput(&out)); err != nil {
		t.Fatalf("Run: %v", err)
	}

	data, err := os.ReadFile(cfg.Demo.Path)
	if err != nil {
		t.Fatal(err)
	}
	want := "Inserted line 1\nStart\nA\nB\nUpdated line 2\nLn 2\n"
	if string(data) != want {
		t.Errorf("content = %q, want %q", data, want)
	}

	printed := out.String()
	for _, s := range []string{
		`First 4 lines: ["Inserted line 1" "Start" "A" "B"]`,
		"File has 6 lines",
		"Ln 2",
	} {
		if !strings.Contains(printed, s) {
			t.Errorf("output missing %q:\n%s", s, printed)
		}
	}
}

func TestRun_DemoRepeatable(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Demo.Path = filepath.Join(t.TempDir(), "example.txt")
	for i := 0; i < 2; i++ {
		var out bytes.Buffer
		if err := Run(context.Background(), WithConfig(cfg), WithLogger(quietLogger()), WithOutput(&out)); err != nil {
			t.Fatalf("Run #%d: %v", i, err)
		}
		if !strings.Contains(out.String(), "File has 6 lines") {
			t.Errorf("Run #%d output:\n%s", i, out.String())
		}
	}
}

func TestRun_RequiresConfig(t *testing.T) {
	if err := Run(context.Background()); err == nil {
		t.Fatal("expected error without config")
	}
}

func TestRun_CancelledContext(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Demo.Path = filepath.Join(t.TempDir(), "example.txt")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := Run(ctx, WithConfig(cfg), WithLogger(quietLogger())); err == nil {
		t.Fatal("expected context error")
	}
	if _, err := os.Stat(cfg.Demo.Path); err == nil {
		t.Error("cancelled run should not create the file")
	}
}

func TestNewEditor_AppliesMode(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Editor.FileMode = "0600"
	p := filepath.Join(t.TempDir(), "f.txt")
	f, err := NewEditor(cfg, p, quietLogger())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.CreateIfMissing(); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(p)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm&0o077 != 0 {
		t.Errorf("perm = %o", perm)
	}
}

func TestNewLogger_Formats(t *testing.T) {
	var buf bytes.Buffer
	NewLogger(ApplicationConfig{LogFormat: LogFormatText}, &buf).Info("hello")
	if !strings.Contains(buf.String(), "msg=hello") {
		t.Errorf("text output = %q", buf.String())
	}

	buf.Reset()
	// A buffer is not a terminal, so auto picks JSON.
	NewLogger(ApplicationConfig{LogFormat: LogFormatAuto}, &buf).Info("hello")
	if !strings.Contains(buf.String(), `"msg":"hello"`) {
		t.Errorf("json output = %q", buf.String())
	}

	buf.Reset()
	NewLogger(ApplicationConfig{LogLevel: slog.LevelWarn, LogFormat: LogFormatJSON}, &buf).Info("hidden")
	if buf.Len() != 0 {
		t.Errorf("info should be filtered at warn level: %q", buf.String())
	}
}
