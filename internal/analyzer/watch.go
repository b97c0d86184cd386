package analyzer

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch marks the loaded document stale whenever the source file changes on
// disk, so the next question re-runs the fingerprint check. The watcher stops
// when ctx is cancelled.
func (a *Analyzer) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}

	// Watch the directory, not the file: editors and atomic writers replace
	// the file, which would silently drop a file-level watch.
	dir := filepath.Dir(a.cfg.DocumentPath)
	if err := w.Add(dir); err != nil {
		w.Close()
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	target := filepath.Clean(a.cfg.DocumentPath)
	go func() {
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != target {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0 {
					a.log.Info("document changed on disk", "op", ev.Op.String())
					a.stale.Store(true)
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				a.log.Warn("document watcher error", "error", err)
			}
		}
	}()
	return nil
}
