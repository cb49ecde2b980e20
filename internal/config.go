package internal

import (
	"fmt"
	"io/fs"
	"log/slog"
	"regexp"
	"strconv"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Log formats.
const (
	LogFormatAuto = "auto"
	LogFormatJSON = "json"
	LogFormatText = "text"
)

var fileModePattern = regexp.MustCompile(`^0?[0-7]{3}$`)

// Config represents the application configuration.
type Config struct {
	App    ApplicationConfig `yaml:"app"`
	Editor EditorConfig      `yaml:"editor"`
	Watch  WatchConfig       `yaml:"watch"`
	Demo   DemoConfig        `yaml:"demo"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Editor.Validate(); err != nil {
		return err
	}
	if err := c.Watch.Validate(); err != nil {
		return err
	}
	return c.Demo.Validate()
}

// ApplicationConfig holds application-level configuration.
//
// LogFormat selects the slog handler:
//   - "auto" (default): text on a terminal, JSON otherwise.
//   - "json" or "text": always that handler.
type ApplicationConfig struct {
	LogLevel  slog.Level `yaml:"log_level"`
	LogFormat string     `yaml:"log_format"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	if c.LogFormat == "" {
		c.LogFormat = LogFormatAuto
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.LogFormat, validation.In(LogFormatAuto, LogFormatJSON, LogFormatText)),
	)
}

// EditorConfig controls how edited files are written.
type EditorConfig struct {
	// AtomicWrites replaces files via temp file and rename.
	AtomicWrites bool `yaml:"atomic_writes"`
	// FileMode is the octal permission for created files, e.g. "0644".
	FileMode string `yaml:"file_mode"`
}

// Validate validates the editor configuration.
func (c *EditorConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.FileMode, validation.Required, validation.Match(fileModePattern)),
	)
}

// Mode returns FileMode parsed as a permission.
func (c *EditorConfig) Mode() (fs.FileMode, error) {
	m, err := strconv.ParseUint(c.FileMode, 8, 32)
	if err != nil {
		return 0, fmt.Errorf("editor: file_mode %q: %w", c.FileMode, err)
	}
	return fs.FileMode(m).Perm(), nil
}

// WatchConfig holds file watcher configuration.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}

// Validate validates the watch configuration.
func (c *WatchConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Debounce, validation.Required, validation.Min(time.Millisecond), validation.Max(time.Minute)),
	)
}

// DemoConfig holds the example file used by the demonstration run.
type DemoConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the demo configuration.
func (c *DemoConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel:  slog.LevelInfo,
			LogFormat: LogFormatAuto,
		},
		Editor: EditorConfig{
			FileMode: "0644",
		},
		Watch: WatchConfig{
			Debounce: 100 * time.Millisecond,
		},
		Demo: DemoConfig{
			Path: "example.txt",
		},
	}
}
