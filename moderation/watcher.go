package moderation

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads the censored word file into a Filter whenever it changes.
// The parent directory is watched so that editors replacing the file are seen.
type Watcher struct {
	path         string
	censoredChar rune
	filter       *Filter
	log          *slog.Logger
}

func NewWatcher(path string, censoredChar rune, filter *Filter, log *slog.Logger) *Watcher {
	return &Watcher{path: filepath.Clean(path), censoredChar: censoredChar, filter: filter, log: log}
}

func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		return err
	}
	w.log.Info("Watching censored words", "path", w.path)

	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Stopping censored words watcher")
			return ctx.Err()
		case evt, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(evt.Name) != w.path || !evt.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			w.reload()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("Censored words watcher error", "error", err)
		}
	}
}

// reload keeps the previous word list when the new one cannot be used.
func (w *Watcher) reload() {
	moderator, err := LoadModerator(w.path, w.censoredChar, w.log)
	if err != nil {
		w.log.Warn("Censored words not reloaded", "path", w.path, "error", err)
		return
	}
	w.filter.Swap(moderator)
	w.log.Info("Censored words reloaded", "path", w.path)
}
