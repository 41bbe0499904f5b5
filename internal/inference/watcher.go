// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package inference

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// =============================================================================
// ASSET WATCHER
// =============================================================================

// AssetWatcher watches the model asset files and invokes a callback when
// they change, so a freshly dropped-in model can be picked up without
// restarting. The callback typically calls Engine.Reload.
type AssetWatcher struct {
	paths    map[string]bool // asset file paths, absolute
	watcher  *fsnotify.Watcher
	debounce time.Duration
	onChange func()

	mu      sync.Mutex
	pending time.Time // last relevant event, zero when none pending

	ctx    context.Context
	cancel context.CancelFunc
}

// NewAssetWatcher creates a watcher for the given asset files. Empty paths
// are skipped.
func NewAssetWatcher(debounce time.Duration, onChange func(), paths ...string) (*AssetWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())

	aw := &AssetWatcher{
		paths:    make(map[string]bool),
		watcher:  watcher,
		debounce: debounce,
		onChange: onChange,
		ctx:      ctx,
		cancel:   cancel,
	}

	for _, p := range paths {
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			abs = p
		}
		aw.paths[abs] = true
	}

	return aw, nil
}

// Watch starts watching. The parent directories are watched rather than the
// files themselves so atomic replace-by-rename is still observed.
func (aw *AssetWatcher) Watch() error {
	dirs := make(map[string]bool)
	for p := range aw.paths {
		dirs[filepath.Dir(p)] = true
	}
	for dir := range dirs {
		if err := aw.watcher.Add(dir); err != nil {
			// Non-fatal: the directory may not exist yet.
			continue
		}
	}

	go aw.processEvents()
	go aw.processPending()

	return nil
}

// processEvents filters file system events down to the tracked assets.
func (aw *AssetWatcher) processEvents() {
	for {
		select {
		case <-aw.ctx.Done():
			return

		case event, ok := <-aw.watcher.Events:
			if !ok {
				return
			}

			abs, err := filepath.Abs(event.Name)
			if err != nil {
				abs = event.Name
			}
			if !aw.paths[abs] {
				continue
			}

			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0 {
				aw.mu.Lock()
				aw.pending = time.Now()
				aw.mu.Unlock()
			}

		case _, ok := <-aw.watcher.Errors:
			if !ok {
				return
			}
			// Non-fatal; keep watching.
		}
	}
}

// processPending fires the callback once the debounce window has passed
// with no further events.
func (aw *AssetWatcher) processPending() {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-aw.ctx.Done():
			return

		case <-ticker.C:
			aw.mu.Lock()
			fire := !aw.pending.IsZero() && time.Since(aw.pending) >= aw.debounce
			if fire {
				aw.pending = time.Time{}
			}
			aw.mu.Unlock()

			if fire && aw.onChange != nil {
				aw.onChange()
			}
		}
	}
}

// Close stops watching and releases resources.
func (aw *AssetWatcher) Close() error {
	aw.cancel()
	if aw.watcher != nil {
		return aw.watcher.Close()
	}
	return nil
}
