package mapping

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatchDebounce is how long Watch waits for writes to settle before
// reloading.
const WatchDebounce = 150 * time.Millisecond

// Watch calls onChange with the freshly loaded table every time the profile
// for device changes on disk, until ctx is done. The directory is watched
// rather than the file because Save replaces the file by rename. A profile
// that fails to load is logged and skipped; onChange is not called for
// deletions.
func Watch(ctx context.Context, s *Store, device string, logger *slog.Logger, onChange func(*Table)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(s.Dir); err != nil {
		return err
	}

	target := filepath.Clean(s.Path(device))
	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Has(fsnotify.Create) || ev.Has(fsnotify.Write) || ev.Has(fsnotify.Rename) {
				timer.Reset(WatchDebounce)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("map watcher error", "error", err)
		case <-timer.C:
			t, format, err := s.Load(device)
			if err != nil {
				if !errors.Is(err, ErrNotFound) {
					logger.Warn("reload map file", "device", device, "error", err)
				}
				continue
			}
			if format == FormatLegacy {
				logger.Warn("old map file, please re-map", "device", device)
			}
			logger.Info("map file reloaded", "device", device, "mapped", t.Mapped())
			onChange(t)
		}
	}
}
