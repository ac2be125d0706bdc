package storage

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Event is a change to the storage directory observed by Watch.
type Event struct {
	Name string
	Op   string
}

// Watch reports changes to the storage directory until ctx is done.
// Each event is logged; if onEvent is non-nil it is called as well.
func (s *Service) Watch(ctx context.Context, onEvent func(Event)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create storage watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(s.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", s.dir, err)
	}
	slog.Info("Watching storage directory", "dir", s.dir)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			op := describeOp(ev.Op)
			if op == "" {
				continue
			}
			e := Event{Name: filepath.Base(ev.Name), Op: op}
			slog.Info("Storage changed", "file", e.Name, "op", e.Op)
			if onEvent != nil {
				onEvent(e)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Storage watcher error", "error", err)
		}
	}
}

func describeOp(op fsnotify.Op) string {
	switch {
	case op.Has(fsnotify.Create):
		return "create"
	case op.Has(fsnotify.Remove):
		return "remove"
	case op.Has(fsnotify.Rename):
		return "rename"
	case op.Has(fsnotify.Write):
		return "write"
	default:
		return ""
	}
}
