package cli

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// fileWatcher reports changes to a single file. It watches the parent
// directory so editors that save by rename are still seen.
type fileWatcher struct {
	path string
	w    *fsnotify.Watcher
}

func newFileWatcher(path string) (*fileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("watching %s: %w", path, err)
	}
	return &fileWatcher{path: abs, w: w}, nil
}

// Run calls onChange once per burst of changes, after the file has been
// quiet for debounce. It returns when ctx is done.
func (fw *fileWatcher) Run(ctx context.Context, debounce time.Duration, onChange func(context.Context), log *slog.Logger) error {
	defer func() { _ = fw.w.Close() }()

	timer := time.NewTimer(debounce)
	timer.Stop()
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case ev, ok := <-fw.w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != fw.path || ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			timer.Reset(debounce)
			fire = timer.C
		case <-fire:
			fire = nil
			log.Info("scene changed", "scene", fw.path)
			onChange(ctx)
		case err, ok := <-fw.w.Errors:
			if !ok {
				return nil
			}
			log.Warn("watcher error", "err", err)
		}
	}
}
