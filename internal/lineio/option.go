package lineio

import (
	"log/slog"

	"github.com/starford/fileio/internal/storage"
)

// Option configures a File.
type Option func(*File)

// WithProvider sets the storage provider. The default is the OS filesystem.
func WithProvider(p storage.Provider) Option {
	return func(f *File) {
		f.store = p
	}
}

// WithLogger sets the logger used for debug output. The default discards.
func WithLogger(l *slog.Logger) Option {
	return func(f *File) {
		if l != nil {
			f.logger = l
		}
	}
}
