package engine

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/danieljhkim/assetgate/internal/catalog"
)

// DefaultWatchDebounce batches bursts of file events into one reload.
const DefaultWatchDebounce = 250 * time.Millisecond

// ReloadFunc receives the reloaded workspace, or the error that prevented
// reloading.
type ReloadFunc func(ws *Workspace, err error)

// Watch reloads ws whenever the override file or the catalog content
// changes, calling onReload after each debounced batch of events. It blocks
// until ctx is cancelled.
func (e *Engine) Watch(ctx context.Context, ws *Workspace, debounce time.Duration, onReload ReloadFunc) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() {
		_ = watcher.Close()
	}()

	if err := e.fs.MkdirAll(e.paths.Workspace, 0755); err != nil {
		return fmt.Errorf("failed to create workspace directory: %w", err)
	}
	// The override file is replaced by rename, so watch its directory.
	if err := watcher.Add(e.paths.Workspace); err != nil {
		return fmt.Errorf("failed to watch %s: %w", e.paths.Workspace, err)
	}
	for _, kind := range catalog.Kinds() {
		if err := addRecursive(watcher, filepath.Join(ws.ContentDir, kind.Dir())); err != nil {
			return err
		}
	}

	var timer *time.Timer
	var fire <-chan time.Time
	current := ws

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !e.relevant(event.Name) {
				continue
			}
			e.logger.Debug("file event", "path", event.Name, "op", event.Op.String())
			if event.Has(fsnotify.Create) {
				// New subdirectories of the catalog need their own watch.
				if info, err := e.fs.Stat(event.Name); err == nil && info.IsDir() {
					_ = addRecursive(watcher, event.Name)
				}
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			e.logger.Warn("file watcher error", "error", err)

		case <-fire:
			fire = nil
			next, err := e.Reload(current)
			if err == nil {
				current = next
			}
			onReload(next, err)
		}
	}
}

// relevant filters out events for files assetgate writes as side effects.
func (e *Engine) relevant(name string) bool {
	if filepath.Dir(name) == e.paths.Workspace {
		return name == e.paths.Enablement
	}
	base := filepath.Base(name)
	return !strings.HasPrefix(base, ".assetgate-tmp-")
}

// addRecursive watches dir and every directory below it. A missing dir is
// not an error.
func addRecursive(watcher *fsnotify.Watcher, dir string) error {
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if err := watcher.Add(path); err != nil {
				return fmt.Errorf("failed to watch %s: %w", path, err)
			}
		}
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
