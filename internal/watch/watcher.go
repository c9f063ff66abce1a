// Package watch reloads the catalog when the manifest file changes on disk.
package watch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce collapses bursts of editor writes into one reload.
const DefaultDebounce = 200 * time.Millisecond

// ReloadFunc rebuilds the catalog. It runs on the watcher goroutine.
type ReloadFunc func(ctx context.Context)

// Manifest watches the file at manifestPath until ctx is cancelled and calls
// reload, debounced, after it is created, written, renamed or removed.
//
// The manifest's directory does not need to exist yet: the nearest existing
// ancestor is watched and directories on the way to the manifest are added
// as they appear.
func Manifest(ctx context.Context, manifestPath string, debounce time.Duration, logger *slog.Logger, reload ReloadFunc) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	target, err := filepath.Abs(manifestPath)
	if err != nil {
		return err
	}
	dir := filepath.Dir(target)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	watched, err := addNearest(w, dir)
	if err != nil {
		return err
	}
	logger.Info("watcher: started",
		slog.String("manifest", target),
		slog.String("dir", watched))

	var timer *time.Timer
	var fire <-chan time.Time
	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(debounce)
			fire = timer.C
		} else {
			timer.Reset(debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-fire:
			logger.Debug("watcher: manifest changed", slog.String("manifest", target))
			reload(ctx)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			name := filepath.Clean(ev.Name)

			// A directory on the way to the manifest appeared: descend.
			if ev.Op&fsnotify.Create != 0 && name != target && onPath(name, dir) {
				if info, statErr := os.Stat(name); statErr == nil && info.IsDir() {
					next, addErr := addNearest(w, dir)
					if addErr != nil {
						logger.Warn("watcher: add dir failed",
							slog.String("path", name),
							slog.String("error", addErr.Error()))
						continue
					}
					logger.Debug("watcher: watching dir", slog.String("dir", next))
					if next == dir {
						schedule()
					}
				}
				continue
			}

			if name != target {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename|fsnotify.Remove) != 0 {
				schedule()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// addNearest watches dir, or its nearest existing ancestor, and returns the
// directory it added.
func addNearest(w *fsnotify.Watcher, dir string) (string, error) {
	for {
		info, err := os.Stat(dir)
		if err == nil && info.IsDir() {
			return dir, w.Add(dir)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", err
		}
		dir = parent
	}
}

// onPath reports whether p is dir or one of its ancestors.
func onPath(p, dir string) bool {
	return p == dir || strings.HasPrefix(dir, p+string(os.PathSeparator))
}
