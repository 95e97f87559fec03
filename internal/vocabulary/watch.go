package vocabulary

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the store whenever its backing file is written or replaced
// and calls onChange with the new version when the contents changed. It
// blocks until ctx is done.
func (s *CanonicalStore) Watch(ctx context.Context, onChange func(version string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify.NewWatcher > %w", err)
	}
	defer func() {
		_ = watcher.Close()
	}()

	target := filepath.Clean(s.path)
	dir := filepath.Dir(target)
	// Editors often replace the file, so the directory is watched instead.
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watcher.Add(%s) > %w", dir, err)
	}
	slog.Default().Info("watching canonical vocabulary", "path", target)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			slog.Default().Debug("fsnotify event", "file", event.Name, "event", event.Op)

			before := s.currentVersion()
			if err := s.Reload(); err != nil {
				slog.Default().Warn("failed to reload canonical vocabulary", "path", target, "error", err)
				continue
			}
			if after := s.currentVersion(); after != before && onChange != nil {
				onChange(after)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Default().Debug("fsnotify error", "dir", dir, "error", err)
		}
	}
}

func (s *CanonicalStore) currentVersion() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snapshot == nil {
		return ""
	}
	return s.snapshot.Version
}
