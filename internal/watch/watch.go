// Package watch signals when the activity log may have changed.
// Signals are advisory: consumers still go through the cache, which
// does its own mtime check, so a spurious wakeup costs one stat call.
package watch

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Changes watches the directory containing logPath and sends a hint on
// the returned channel whenever the log is written, created, or
// replaced. The directory, not the file, is watched: log rotation
// swaps the file in with a rename, which would silently detach a
// file-level watch.
//
// The channel is closed when ctx is cancelled or the watcher fails.
func Changes(ctx context.Context, logPath string) (<-chan struct{}, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	dir := filepath.Dir(logPath)
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	hints := make(chan struct{}, 1)
	name := filepath.Base(logPath)

	go func() {
		defer w.Close()
		defer close(hints)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Base(ev.Name) != name {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				// Coalesce bursts: a pending hint is enough.
				select {
				case hints <- struct{}{}:
				default:
				}
			case _, ok := <-w.Errors:
				if !ok {
					return
				}
				// Watch errors are not fatal to the caller; polling
				// still refreshes the cache.
			}
		}
	}()

	return hints, nil
}
