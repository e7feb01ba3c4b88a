// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"context"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// =============================================================================
// CONFIG FILE WATCHER
// =============================================================================

// DefaultDebounce is how long the watcher waits after the last change
// before reloading. Editors and atomic saves produce bursts of events.
const DefaultDebounce = 200 * time.Millisecond

// Watcher reloads the configuration when the config file changes on disk.
//
// On a successful reload the new config becomes the global instance and
// all subscribers are notified, so a running TUI re-themes without a
// restart. A reload that fails validation keeps the previous config.
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	debounce time.Duration

	mu      sync.Mutex
	subs    map[int]func(*Config)
	nextID  int
	pending time.Time // Last change time; zero means nothing pending

	ctx    context.Context
	cancel context.CancelFunc
}

// NewWatcher creates a watcher for the given config file path.
func NewWatcher(path string, debounce time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Watcher{
		path:     filepath.Clean(path),
		watcher:  fw,
		debounce: debounce,
		subs:     make(map[int]func(*Config)),
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// NewDefaultWatcher creates a watcher for ~/.tripdesk/config.toml.
func NewDefaultWatcher() (*Watcher, error) {
	if err := EnsureConfigDir(); err != nil {
		return nil, err
	}
	path, err := ConfigPathTOML()
	if err != nil {
		return nil, err
	}
	return NewWatcher(path, DefaultDebounce)
}

// Watch starts watching for config file changes.
func (w *Watcher) Watch() error {
	// Watch the parent directory, not the file: atomic saves replace the
	// file by rename, which would silently drop a file-level watch.
	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return err
	}

	go w.processEvents()
	go w.processPending()

	return nil
}

// Subscribe registers a callback invoked after each successful reload.
// The returned function removes the subscription.
func (w *Watcher) Subscribe(fn func(*Config)) func() {
	w.mu.Lock()
	defer w.mu.Unlock()

	id := w.nextID
	w.nextID++
	w.subs[id] = fn

	return func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		delete(w.subs, id)
	}
}

// processEvents marks the config file pending on any relevant event.
func (w *Watcher) processEvents() {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[config] Watcher event loop panic: %v", r)
		}
	}()

	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			// Only the config file itself matters; the directory watch
			// sees every sibling (credentials.json, drafts, ...).
			if filepath.Clean(event.Name) != w.path {
				continue
			}

			// Write and Create cover in-place edits and atomic replace.
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				w.mu.Lock()
				w.pending = time.Now()
				w.mu.Unlock()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("[config] Watcher error: %v", err)
		}
	}
}

// processPending reloads once the debounce window after the last change
// has passed.
func (w *Watcher) processPending() {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return

		case <-ticker.C:
			w.mu.Lock()
			due := !w.pending.IsZero() && time.Since(w.pending) >= w.debounce
			if due {
				w.pending = time.Time{}
			}
			w.mu.Unlock()

			if due {
				w.reload()
			}
		}
	}
}

// reload re-reads the config file and publishes the result.
func (w *Watcher) reload() {
	cfg, err := LoadFromPath(w.path)
	if err != nil {
		// Keep the previous config; a half-saved or invalid file must not
		// take down a running session.
		log.Printf("[config] Reload failed: %v (keeping previous config)", err)
		return
	}

	SetGlobal(cfg)
	log.Printf("[config] Reloaded %s", filepath.Base(w.path))

	// Snapshot subscribers so callbacks run outside the lock.
	w.mu.Lock()
	subs := make([]func(*Config), 0, len(w.subs))
	for _, fn := range w.subs {
		subs = append(subs, fn)
	}
	w.mu.Unlock()

	for _, fn := range subs {
		fn(cfg)
	}
}

// Close stops watching and releases resources.
func (w *Watcher) Close() error {
	w.cancel()
	if w.watcher != nil {
		return w.watcher.Close()
	}
	return nil
}
