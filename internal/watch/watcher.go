// Package watch reports content changes of a single file.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/fileio/internal/apperr"
	"github.com/starford/fileio/internal/checksum"
	"github.com/starford/fileio/internal/lineio"
)

// Event kinds.
const (
	KindCreated = "created"
	KindUpdated = "updated"
	KindRemoved = "removed"
)

// DefaultDebounce is used when Watch receives a non-positive debounce.
const DefaultDebounce = 100 * time.Millisecond

// Event describes one observed change.
type Event struct {
	Kind     string
	Path     string
	Lines    int
	Checksum string
}

// Callback is called for every reported change.
type Callback func(Event)

// state is what was last reported for the file.
type state struct {
	exists bool
	sum    string
}

// Watch observes path with fsnotify until ctx is cancelled, calling cb after
// each burst of file events settles for debounce. The parent directory is
// watched so that replacement by rename and recreation after removal are
// seen. Bursts that leave the content unchanged are not reported.
func Watch(ctx context.Context, file *lineio.File, debounce time.Duration, logger *slog.Logger, cb Callback) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	target, err := filepath.Abs(file.Path())
	if err != nil {
		return fmt.Errorf("watch: resolve path: %w", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch: add %s: %w", filepath.Dir(target), err)
	}

	last, err := snapshot(file)
	if err != nil {
		logger.Warn("watch: initial read failed", slog.String("path", target), slog.String("error", err.Error()))
	}

	logger.Info("watch: started", slog.String("path", target))

	var timer *time.Timer
	var fire <-chan time.Time

	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(debounce)
			fire = timer.C
		} else {
			timer.Reset(debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("watch: stopped")
			return nil

		case <-fire:
			next, err := snapshot(file)
			if err != nil {
				logger.Warn("watch: read failed", slog.String("path", target), slog.String("error", err.Error()))
				continue
			}
			ev, changed := diff(last.state, next.state)
			last = next
			if !changed {
				continue
			}
			ev.Path = file.Path()
			ev.Lines = next.lines
			logger.Debug("watch: change", slog.String("path", target), slog.String("kind", ev.Kind))
			if cb != nil {
				cb(ev)
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0 {
				schedule()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watch: error", slog.String("error", watchErr.Error()))
		}
	}
}

type observation struct {
	state
	lines int
}

// snapshot reads the file's current state. A missing file is a valid state.
func snapshot(file *lineio.File) (observation, error) {
	content, err := file.ReadAll()
	if errors.Is(err, apperr.ErrNotFound) {
		return observation{}, nil
	}
	if err != nil {
		return observation{}, err
	}
	return observation{
		state: state{exists: true, sum: checksum.Sum([]byte(content))},
		lines: len(lineio.Split(content)),
	}, nil
}

// diff returns the event that moves prev to next, if any.
func diff(prev, next state) (Event, bool) {
	switch {
	case !prev.exists && next.exists:
		return Event{Kind: KindCreated, Checksum: next.sum}, true
	case prev.exists && !next.exists:
		return Event{Kind: KindRemoved}, true
	case next.exists && prev.sum != next.sum:
		return Event{Kind: KindUpdated, Checksum: next.sum}, true
	}
	return Event{}, false
}
