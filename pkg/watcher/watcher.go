// Package watcher reports debounced changes to a set of files.
package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// FileWatcher calls back when watched files change. It watches the parent
// directories, so files replaced by rename (as many editors save) are still
// reported.
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	debounce time.Duration

	mu        sync.Mutex
	callbacks map[string]func(string)
	dirs      map[string]int
	timers    map[string]*time.Timer
}

// NewFileWatcher creates a watcher that waits for debounce of quiet time
// before calling back, so a burst of writes triggers once
func NewFileWatcher(debounce time.Duration) (*FileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	return &FileWatcher{
		watcher:   w,
		debounce:  debounce,
		callbacks: make(map[string]func(string)),
		dirs:      make(map[string]int),
		timers:    make(map[string]*time.Timer),
	}, nil
}

// Watch adds files, which must exist. callback receives the absolute path
// that changed.
func (fw *FileWatcher) Watch(files []string, callback func(string)) error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	for _, file := range files {
		absPath, err := filepath.Abs(file)
		if err != nil {
			return fmt.Errorf("failed to resolve path %s: %w", file, err)
		}
		if _, err := os.Stat(absPath); err != nil {
			return fmt.Errorf("failed to watch %s: %w", absPath, err)
		}

		if _, seen := fw.callbacks[absPath]; !seen {
			dir := filepath.Dir(absPath)
			if fw.dirs[dir] == 0 {
				if err := fw.watcher.Add(dir); err != nil {
					return fmt.Errorf("failed to watch %s: %w", dir, err)
				}
			}
			fw.dirs[dir]++
		}
		fw.callbacks[absPath] = callback
	}

	return nil
}

// Run dispatches events until ctx is cancelled or the watcher is closed
func (fw *FileWatcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				fw.schedule(filepath.Clean(event.Name))
			}

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("file watcher error", "error", err)
		}
	}
}

// Start runs the event loop in its own goroutine
func (fw *FileWatcher) Start(ctx context.Context) {
	go fw.Run(ctx)
}

// schedule (re)arms the debounce timer of a watched file. Events for other
// files in the same directory are ignored.
func (fw *FileWatcher) schedule(path string) {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	callback, watched := fw.callbacks[path]
	if !watched {
		return
	}

	if timer, pending := fw.timers[path]; pending {
		timer.Stop()
	}
	fw.timers[path] = time.AfterFunc(fw.debounce, func() {
		slog.Debug("file changed", "path", path)
		callback(path)
	})
}

// Close stops the watcher and pending callbacks
func (fw *FileWatcher) Close() error {
	fw.mu.Lock()
	fw.stopTimers()
	fw.mu.Unlock()
	return fw.watcher.Close()
}

// RemoveAll forgets every watched file
func (fw *FileWatcher) RemoveAll() error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	fw.stopTimers()
	for dir := range fw.dirs {
		if err := fw.watcher.Remove(dir); err != nil {
			return fmt.Errorf("failed to unwatch %s: %w", dir, err)
		}
	}
	clear(fw.dirs)
	clear(fw.callbacks)
	return nil
}

func (fw *FileWatcher) stopTimers() {
	for path, timer := range fw.timers {
		timer.Stop()
		delete(fw.timers, path)
	}
}
