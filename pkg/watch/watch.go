// Package watch reports when a report file changes on disk.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dkoosis/foview/internal/logging"
)

// DefaultDebounce coalesces the burst of events one save produces.
const DefaultDebounce = 150 * time.Millisecond

// Watcher watches a single file. The parent directory is watched so that
// editors that replace the file by rename are still seen.
type Watcher struct {
	fw       *fsnotify.Watcher
	path     string
	debounce time.Duration
	log      *logging.Logger
}

// New starts watching path.
func New(path string, debounce time.Duration, log *logging.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{fw: fw, path: abs, debounce: debounce, log: log}, nil
}

// Run calls onChange once per burst of changes to the file. It returns when
// ctx is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context, onChange func()) error {
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.fw.Events:
			if !ok {
				return nil
			}
			if w.relevant(ev) {
				w.log.Debug("report changed", "path", ev.Name, "op", ev.Op.String())
				fire = time.After(w.debounce)
			}
		case err, ok := <-w.fw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("file watch error", "path", w.path, "error", err)
		case <-fire:
			fire = nil
			onChange()
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != w.path {
		return false
	}
	return ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string { return w.path }

// Close stops the watcher.
func (w *Watcher) Close() error {
	return w.fw.Close()
}
