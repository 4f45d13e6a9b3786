// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package watch

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// WatcherOptions configures the filesystem watcher.
type WatcherOptions struct {
	// Root is the directory watched recursively. Required.
	Root string

	// IgnoreGlobs are doublestar patterns (relative slash paths) whose
	// matches are neither watched nor forwarded.
	IgnoreGlobs []string

	// Logger receives diagnostics. Default slog.Default().
	Logger *slog.Logger
}

// Watcher forwards filesystem events into an Orchestrator's pending
// set. It is supplementary wiring; the Orchestrator works without it.
//
// # Thread Safety
//
// Safe for concurrent use. Start and Stop are serialized internally.
type Watcher struct {
	root         string
	orchestrator *Orchestrator
	ignore       []string
	logger       *slog.Logger

	mu      sync.Mutex
	fw      *fsnotify.Watcher
	done    chan struct{}
	running bool
}

// NewWatcher creates a watcher feeding the orchestrator.
func NewWatcher(o *Orchestrator, opts WatcherOptions) (*Watcher, error) {
	if o == nil {
		return nil, ErrNilAnalyzer
	}
	if opts.Root == "" {
		return nil, fmt.Errorf("watcher root is required")
	}
	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, fmt.Errorf("resolving watcher root: %w", err)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Watcher{
		root:         root,
		orchestrator: o,
		ignore:       opts.IgnoreGlobs,
		logger:       opts.Logger,
	}, nil
}

// Start begins watching the root tree recursively.
//
// Create, write, rename, and remove events are normalized to
// project-relative paths and enqueued. Newly created directories are
// added to the watch set on the fly.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return ErrAlreadyWatching
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}

	if err := w.addRecursive(fw, w.root); err != nil {
		fw.Close()
		return err
	}

	w.fw = fw
	w.done = make(chan struct{})
	w.running = true
	go w.loop(fw, w.done)

	w.logger.Info("filesystem watcher started", "root", w.root)
	return nil
}

// Stop ends watching and releases the underlying watcher.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.running {
		return ErrNotWatching
	}
	close(w.done)
	err := w.fw.Close()
	w.fw = nil
	w.running = false
	return err
}

// loop drains watcher events until Stop.
func (w *Watcher) loop(fw *fsnotify.Watcher, done chan struct{}) {
	for {
		select {
		case <-done:
			return
		case event, ok := <-fw.Events:
			if !ok {
				return
			}
			w.handle(fw, event)
		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher error", "error", err)
		}
	}
}

// handle forwards one event into the orchestrator.
func (w *Watcher) handle(fw *fsnotify.Watcher, event fsnotify.Event) {
	rel, err := filepath.Rel(w.root, event.Name)
	if err != nil {
		return
	}
	rel = filepath.ToSlash(rel)
	if rel == "." || w.ignored(rel) {
		return
	}

	// Watch new directories as they appear.
	if event.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := fw.Add(event.Name); err != nil {
				w.logger.Warn("cannot watch new directory", "path", rel, "error", err)
			}
			return
		}
	}

	if event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Write) ||
		event.Op.Has(fsnotify.Rename) || event.Op.Has(fsnotify.Remove) {
		if m := w.orchestrator.metrics; m != nil {
			m.WatchEventsTotal.WithLabelValues(event.Op.String()).Inc()
		}
		w.orchestrator.Enqueue(rel)
	}
}

// addRecursive registers root and every non-ignored subdirectory.
func (w *Watcher) addRecursive(fw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subtrees are skipped, not fatal.
			w.logger.Warn("skipping unwatchable entry", "path", p, "error", err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(root, p)
		if relErr == nil && rel != "." && w.ignored(filepath.ToSlash(rel)+"/") {
			return fs.SkipDir
		}
		if err := fw.Add(p); err != nil {
			return fmt.Errorf("watching %s: %w", p, err)
		}
		return nil
	})
}

// ignored reports whether rel matches any configured ignore glob.
func (w *Watcher) ignored(rel string) bool {
	for _, pattern := range w.ignore {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}
