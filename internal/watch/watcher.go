// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package watch reports changes to the archives being compared.
//
// The parent directory of every archive is watched rather than the file
// itself, so files replaced by rename (as editors and copy tools do) keep
// being reported. Bursts of events for one file are debounced into a single
// Change.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// DefaultDebounce is the quiet period before a change is reported.
const DefaultDebounce = 500 * time.Millisecond

// pollInterval is how often pending changes are checked against the debounce.
const pollInterval = 50 * time.Millisecond

// Change describes a settled modification of a watched archive.
type Change struct {
	Path    string
	Removed bool
	At      time.Time
}

type pendingChange struct {
	last    time.Time
	removed bool
}

// =============================================================================
// ARCHIVE WATCHER
// =============================================================================

// ArchiveWatcher watches a small set of files with fsnotify.
type ArchiveWatcher struct {
	watcher  *fsnotify.Watcher
	debounce time.Duration
	logger   zerolog.Logger

	mu      sync.Mutex
	files   map[string]struct{} // cleaned absolute paths
	dirs    map[string]struct{}
	pending map[string]pendingChange

	changes chan Change
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	once    sync.Once
}

// New creates a watcher and starts its event loop. A non-positive debounce
// uses DefaultDebounce.
func New(debounce time.Duration, logger zerolog.Logger) (*ArchiveWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	ctx, cancel := context.WithCancel(context.Background())
	aw := &ArchiveWatcher{
		watcher:  w,
		debounce: debounce,
		logger:   logger,
		files:    make(map[string]struct{}),
		dirs:     make(map[string]struct{}),
		pending:  make(map[string]pendingChange),
		changes:  make(chan Change, 8),
		ctx:      ctx,
		cancel:   cancel,
	}

	aw.wg.Add(2)
	go aw.processEvents()
	go aw.processPending()

	return aw, nil
}

// Changes returns the channel settled changes are delivered on. It is closed
// by Close.
func (aw *ArchiveWatcher) Changes() <-chan Change {
	return aw.changes
}

// Watch replaces the watched set with paths. Empty paths are ignored.
func (aw *ArchiveWatcher) Watch(paths ...string) error {
	files := make(map[string]struct{})
	dirs := make(map[string]struct{})
	for _, p := range paths {
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", p, err)
		}
		files[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}

	aw.mu.Lock()
	defer aw.mu.Unlock()

	var added []string
	for dir := range dirs {
		if _, ok := aw.dirs[dir]; ok {
			continue
		}
		if err := aw.watcher.Add(dir); err != nil {
			for _, a := range added {
				_ = aw.watcher.Remove(a)
			}
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		added = append(added, dir)
	}
	for dir := range aw.dirs {
		if _, keep := dirs[dir]; !keep {
			_ = aw.watcher.Remove(dir)
		}
	}

	aw.files = files
	aw.dirs = dirs
	aw.pending = make(map[string]pendingChange)
	return nil
}

// Watched returns the absolute paths currently watched.
func (aw *ArchiveWatcher) Watched() []string {
	aw.mu.Lock()
	defer aw.mu.Unlock()
	out := make([]string, 0, len(aw.files))
	for f := range aw.files {
		out = append(out, f)
	}
	return out
}

// Close stops the watcher and closes the Changes channel.
func (aw *ArchiveWatcher) Close() error {
	var err error
	aw.once.Do(func() {
		aw.cancel()
		err = aw.watcher.Close()
		aw.wg.Wait()
		close(aw.changes)
	})
	return err
}

// processEvents records events for watched files.
func (aw *ArchiveWatcher) processEvents() {
	defer aw.wg.Done()

	for {
		select {
		case <-aw.ctx.Done():
			return

		case event, ok := <-aw.watcher.Events:
			if !ok {
				return
			}
			if event.Op == fsnotify.Chmod {
				continue
			}
			aw.record(event)

		case err, ok := <-aw.watcher.Errors:
			if !ok {
				return
			}
			aw.logger.Warn().Err(err).Msg("WATCH_ERROR")
		}
	}
}

func (aw *ArchiveWatcher) record(event fsnotify.Event) {
	path := filepath.Clean(event.Name)

	aw.mu.Lock()
	defer aw.mu.Unlock()

	if _, ok := aw.files[path]; !ok {
		return
	}
	removed := event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 &&
		event.Op&(fsnotify.Create|fsnotify.Write) == 0
	aw.pending[path] = pendingChange{last: time.Now(), removed: removed}
}

// processPending emits changes that have been quiet for the debounce period.
func (aw *ArchiveWatcher) processPending() {
	defer aw.wg.Done()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-aw.ctx.Done():
			return

		case now := <-ticker.C:
			aw.mu.Lock()
			var ready []Change
			for path, p := range aw.pending {
				if now.Sub(p.last) >= aw.debounce {
					ready = append(ready, Change{Path: path, Removed: p.removed, At: now})
					delete(aw.pending, path)
				}
			}
			aw.mu.Unlock()

			for _, c := range ready {
				select {
				case aw.changes <- c:
					aw.logger.Info().Str("path", c.Path).Bool("removed", c.Removed).Msg("ARCHIVE_CHANGED")
				case <-aw.ctx.Done():
					return
				default:
					// Receiver is behind; the next event reports it again.
				}
			}
		}
	}
}
