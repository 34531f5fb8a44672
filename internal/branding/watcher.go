package branding

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// EventCallback is called after a successful runtime reload.
type EventCallback func()

// Watch starts an fsnotify watcher on the branding directory and reloads
// the manager when its assets change, until ctx is cancelled. It calls cb
// (if non-nil) after each successful reload.
//
// Writes are debounced: editors and file copies produce bursts of events
// for a single save.
func Watch(ctx context.Context, m *Manager, logger *slog.Logger, cb EventCallback) error {
	if m.dir == "" {
		<-ctx.Done()
		return nil
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(m.dir); err != nil {
		return err
	}
	logger.Info("branding: watcher started", slog.String("dir", m.dir))

	var reloadTimer *time.Timer
	var reloadCh <-chan time.Time

	scheduleReload := func() {
		if reloadTimer == nil {
			reloadTimer = time.NewTimer(200 * time.Millisecond)
			reloadCh = reloadTimer.C
		} else {
			reloadTimer.Reset(200 * time.Millisecond)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if reloadTimer != nil {
				reloadTimer.Stop()
			}
			logger.Info("branding: watcher stopped")
			return nil

		case <-reloadCh:
			if err := m.Reload(); err != nil {
				logger.Warn("branding: reload failed", slog.String("error", err.Error()))
				continue
			}
			logger.Info("branding: reloaded")
			if cb != nil {
				cb()
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			switch filepath.Base(ev.Name) {
			case logoFile, companyFile:
				if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename|fsnotify.Remove) != 0 {
					scheduleReload()
				}
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("branding: watcher error", slog.String("error", watchErr.Error()))
		}
	}
}
