package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/philipparndt/goview/pkg/loader"
	"github.com/philipparndt/goview/pkg/watcher"
)

// Watch reloads the model whenever its file or one of its dependencies
// changes. onReload is called after each attempt with the reload error, if
// any. Watch blocks until ctx is cancelled.
func (v *Viewer) Watch(ctx context.Context, debounce time.Duration, onReload func(error)) error {
	source := v.Source()
	if source == "" {
		return ErrNoModel
	}

	files, err := loader.Dependencies(source)
	if err != nil {
		return fmt.Errorf("failed to resolve dependencies: %w", err)
	}

	fw, err := watcher.NewFileWatcher(debounce)
	if err != nil {
		return err
	}
	defer fw.Close()

	var loading atomic.Bool
	callback := func(changed string) {
		slog.Info("file changed", "path", changed)
		if !loading.CompareAndSwap(false, true) {
			return
		}
		defer loading.Store(false)

		err := v.Reload(ctx)
		if err != nil {
			slog.Error("reload failed", "error", err)
		}
		if onReload != nil {
			onReload(err)
		}
	}

	if err := fw.Watch(files, callback); err != nil {
		return err
	}
	slog.Info("watching for changes", "files", len(files))

	fw.Run(ctx)
	return nil
}
