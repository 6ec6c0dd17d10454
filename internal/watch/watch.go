// Package watch re-runs an action when a file changes.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce collapses bursts of editor writes into one run.
const DefaultDebounce = 500 * time.Millisecond

// Watcher watches a single file.
type Watcher struct {
	file     string
	debounce time.Duration
	callback func(ctx context.Context) error
	watcher  *fsnotify.Watcher
	logger   *slog.Logger
}

// NewWatcher creates a watcher for file. The parent directory is watched so
// that editors replacing the file by rename are noticed.
func NewWatcher(file string, debounce time.Duration, callback func(ctx context.Context) error, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	absPath, err := filepath.Abs(file)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch directory: %w", err)
	}

	return &Watcher{
		file:     absPath,
		debounce: debounce,
		callback: callback,
		watcher:  watcher,
		logger:   logger,
	}, nil
}

// Run invokes the callback once, then again after every change, until ctx is
// cancelled. Callback errors are logged and do not stop the loop.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	w.invoke(ctx)

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	var fire <-chan time.Time

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			timer.Reset(w.debounce)
			fire = timer.C

		case <-fire:
			fire = nil
			w.invoke(ctx)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "error", err)

		case <-ctx.Done():
			timer.Stop()
			return nil
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false
	}
	path, err := filepath.Abs(event.Name)
	return err == nil && path == w.file
}

func (w *Watcher) invoke(ctx context.Context) {
	w.logger.Debug("running watch callback", "file", w.file)
	if err := w.callback(ctx); err != nil {
		w.logger.Error("watch callback failed", "error", err)
	}
}
