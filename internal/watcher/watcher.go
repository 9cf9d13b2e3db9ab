// Package watcher keeps an index store in sync with live edits to a
// workspace's assets tree.
//
// It backs `mapdex watch` and can be embedded in any long-running
// process that wants the store to track the filesystem.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"mapdex/internal/corpus"
	"mapdex/internal/index"
)

// Watcher monitors the assets tree for changes and applies them to the
// index as they settle.
type Watcher struct {
	layout  corpus.Layout
	indexer *index.Indexer

	// Configuration
	snapshotPath  string
	debounceDelay time.Duration
	debug         bool

	// Internal state
	fsWatcher *fsnotify.Watcher
	pending   map[string]pendingChange
	mu        sync.Mutex

	// Callbacks
	onChange func(rel string, err error)
}

type changeOp int

const (
	opReindex changeOp = iota
	opRemove
)

type pendingChange struct {
	op changeOp
	at time.Time
}

// Config holds configuration options for the Watcher.
type Config struct {
	Layout        corpus.Layout
	Indexer       *index.Indexer
	SnapshotPath  string        // persisted after each drained batch when set
	DebounceDelay time.Duration // Default: 100ms
	Debug         bool
	OnChange      func(rel string, err error) // Optional callback
}

// New creates a new Watcher with the given configuration.
func New(cfg Config) (*Watcher, error) {
	if cfg.Layout.Root == "" {
		return nil, fmt.Errorf("workspace root is required")
	}
	if cfg.Indexer == nil {
		return nil, fmt.Errorf("indexer is required")
	}

	debounce := cfg.DebounceDelay
	if debounce == 0 {
		debounce = 100 * time.Millisecond
	}

	return &Watcher{
		layout:        cfg.Layout,
		indexer:       cfg.Indexer,
		snapshotPath:  cfg.SnapshotPath,
		debounceDelay: debounce,
		debug:         cfg.Debug,
		pending:       make(map[string]pendingChange),
		onChange:      cfg.OnChange,
	}, nil
}

// Start begins watching the assets tree for file changes.
// It blocks until the context is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	var err error
	w.fsWatcher, err = fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer w.fsWatcher.Close()

	assets := filepath.Join(w.layout.Root, "assets")
	if err := w.addWatchRecursive(assets); err != nil {
		return fmt.Errorf("failed to watch %s: %w", assets, err)
	}

	w.logDebug("Watching: %s", assets)

	// Start debounce processor
	go w.processDebounced(ctx)

	// Event loop
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return nil
			}
			w.logDebug("Watcher error: %v", err)
		}
	}
}

// handleEvent processes a single filesystem event.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	rel, ok := w.relPath(event.Name)
	if !ok {
		return
	}

	if !w.layout.Eligible(rel) {
		// New directories need watches before documents land in them.
		if event.Op&fsnotify.Create != 0 {
			if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
				w.addWatchRecursive(event.Name)
			}
		}
		return
	}

	w.logDebug("Event: %s %s", event.Op, rel)

	switch {
	case event.Op&fsnotify.Write != 0, event.Op&fsnotify.Create != 0:
		w.schedule(rel, opReindex)
	case event.Op&fsnotify.Remove != 0, event.Op&fsnotify.Rename != 0:
		w.schedule(rel, opRemove)
	}
}

// schedule records a change for rel. The latest operation for a path
// wins, so an editor's remove-then-recreate save collapses to a single
// reindex.
func (w *Watcher) schedule(rel string, op changeOp) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending[rel] = pendingChange{op: op, at: time.Now()}
}

// processDebounced drains pending changes after the debounce delay.
func (w *Watcher) processDebounced(ctx context.Context) {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.drainPending()
		}
	}
}

// drainPending applies changes that have settled past the debounce
// delay, then persists the snapshot once for the whole batch.
func (w *Watcher) drainPending() {
	w.mu.Lock()
	now := time.Now()
	ready := make(map[string]changeOp)
	for rel, change := range w.pending {
		if now.Sub(change.at) >= w.debounceDelay {
			ready[rel] = change.op
			delete(w.pending, rel)
		}
	}
	w.mu.Unlock()

	if len(ready) == 0 {
		return
	}

	for rel, op := range ready {
		err := w.apply(rel, op)
		if w.onChange != nil {
			w.onChange(rel, err)
		}
		if err != nil {
			w.logDebug("Failed to apply %s: %v", rel, err)
		} else {
			w.logDebug("Applied: %s", rel)
		}
	}

	if w.snapshotPath != "" {
		if err := w.indexer.Store().Persist(w.snapshotPath); err != nil {
			w.logDebug("Failed to persist snapshot: %v", err)
		}
	}
}

func (w *Watcher) apply(rel string, op changeOp) error {
	if op == opRemove {
		w.indexer.RemoveFile(rel)
		return nil
	}
	_, err := w.indexer.ReindexFile(rel)
	if errors.Is(err, fs.ErrNotExist) {
		// The file vanished before the drain; apply it as a removal.
		w.indexer.RemoveFile(rel)
		return nil
	}
	return err
}

// relPath converts an event path to a slash-separated path relative to
// the workspace root.
func (w *Watcher) relPath(abs string) (string, bool) {
	rel, err := filepath.Rel(w.layout.Root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

// addWatchRecursive adds a directory and all subdirectories to the watcher.
func (w *Watcher) addWatchRecursive(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil // Skip errors
		}
		if info.IsDir() {
			if shouldIgnoreDir(path) {
				return filepath.SkipDir
			}
			if err := w.fsWatcher.Add(path); err != nil {
				w.logDebug("Failed to watch %s: %v", path, err)
			}
		}
		return nil
	})
}

// shouldIgnoreDir returns true if the directory should not be watched.
func shouldIgnoreDir(path string) bool {
	base := filepath.Base(path)
	return base == "node_modules" || (strings.HasPrefix(base, ".") && base != ".")
}

// logDebug logs a debug message if debug mode is enabled.
func (w *Watcher) logDebug(format string, args ...interface{}) {
	if w.debug {
		fmt.Fprintf(os.Stderr, "[mapdex-watch] "+format+"\n", args...)
	}
}
