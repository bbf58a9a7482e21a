package app

import (
	"autoimport/internal/core/watcher"
	"context"
	"log/slog"
	"path/filepath"
	"strings"
)

// StartWatcher recomputes the registry whenever script files under the root
// change. Rebuilds are throttled by the engine's limiter; errors are logged
// and the last good snapshot stays in place.
func (e *Engine) StartWatcher(ctx context.Context) error {
	var excludeFiles []string
	if path := e.DeclarationFile(); path != "" {
		excludeFiles = append(excludeFiles, strings.ToLower(filepath.Base(path)))
	}

	w, err := watcher.NewWatcher(e.Config.Watch.Debounce, nil, excludeFiles, func(paths []string) {
		e.HandleChanges(ctx, paths)
	})
	if err != nil {
		return err
	}
	w.SetExtensions(e.parser.SupportedExtensions())
	if err := w.Watch([]string{e.Config.Root}); err != nil {
		w.Close()
		return err
	}

	e.watchMu.Lock()
	e.activeWatcher = w
	e.watchMu.Unlock()
	slog.Info("watching for changes", "root", e.Config.Root, "debounce", e.Config.Watch.Debounce)
	return nil
}

func (e *Engine) HandleChanges(ctx context.Context, paths []string) {
	if err := e.limiter.Wait(ctx); err != nil {
		return
	}
	slog.Debug("files changed", "count", len(paths))
	_, _ = e.RecomputeContext(ctx)
}

// Close stops the watcher, if one was started.
func (e *Engine) Close() error {
	e.watchMu.Lock()
	defer e.watchMu.Unlock()
	if e.activeWatcher == nil {
		return nil
	}
	err := e.activeWatcher.Close()
	e.activeWatcher = nil
	return err
}
