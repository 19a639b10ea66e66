// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package edition

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

// Watcher triggers a catalog refresh when the editions root changes.
//
// The root and its immediate edition folders are watched. Bursts of events,
// such as copying a whole folder in, collapse into one refresh after the
// debounce interval passes with no further events.
type Watcher struct {
	root      string
	refresher Refresher
	debounce  time.Duration
	logger    *slog.Logger

	watcher *fsnotify.Watcher
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	timerMu sync.Mutex
	timer   *time.Timer
}

// NewWatcher constructs a [Watcher]. A non-positive debounce defaults to 250ms.
func NewWatcher(root string, refresher Refresher, debounce time.Duration, logger *slog.Logger) *Watcher {
	if debounce <= 0 {
		debounce = 250 * time.Millisecond
	}
	return &Watcher{root: root, refresher: refresher, debounce: debounce, logger: logger}
}

// Start begins watching. It fails if the root itself cannot be watched.
func (w *Watcher) Start(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("edition: create watcher: %w", err)
	}

	if err := watcher.Add(w.root); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("edition: watch %s: %w", w.root, err)
	}

	if dirEntries, err := os.ReadDir(w.root); err == nil {
		for _, dirEntry := range dirEntries {
			if dirEntry.IsDir() {
				w.addPath(watcher, filepath.Join(w.root, dirEntry.Name()))
			}
		}
	}

	watchCtx, cancel := context.WithCancel(ctx)
	w.watcher = watcher
	w.cancel = cancel

	w.wg.Add(1)
	go w.loop(watchCtx)

	w.logger.Info("edition_watcher_started", slog.String("root", w.root))
	return nil
}

// Close stops the watcher and any pending refresh.
func (w *Watcher) Close() error {
	if w.cancel != nil {
		w.cancel()
	}

	w.timerMu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timerMu.Unlock()

	var err error
	if w.watcher != nil {
		err = w.watcher.Close()
	}
	w.wg.Wait()
	return err
}

func (w *Watcher) loop(ctx context.Context) {
	defer w.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if event.Op&fsnotify.Create != 0 && filepath.Dir(event.Name) == filepath.Clean(w.root) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					w.addPath(w.watcher, event.Name)
				}
			}
			w.schedule(ctx)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("edition_watch_error", slog.Any("error", err))
		}
	}
}

// schedule restarts the debounce timer.
func (w *Watcher) schedule(ctx context.Context) {
	w.timerMu.Lock()
	defer w.timerMu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		if ctx.Err() != nil {
			return
		}
		if _, err := w.refresher.Refresh(ctx, TriggerWatch); err != nil {
			w.logger.Warn("edition_watch_refresh_failed", slog.Any("error", err))
		}
	})
}

func (w *Watcher) addPath(watcher *fsnotify.Watcher, path string) {
	if err := watcher.Add(path); err != nil {
		w.logger.Warn("edition_watch_add_failed", slog.String("path", path), slog.Any("error", err))
	}
}
