// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package viewstate tracks which file cards are collapsed.
//
// The aggregate AllCollapsed is derived from the per-path map on every call,
// so it cannot drift after individual toggles. State lives only for the
// current result and is never persisted.
package viewstate

import "sort"

// Store holds the collapse flag of every known path.
// Paths default to expanded. A Store is not safe for concurrent use; it is
// owned by the UI event loop.
type Store struct {
	collapsed map[string]bool
}

// New creates an empty store.
func New() *Store {
	return &Store{collapsed: make(map[string]bool)}
}

// Reset forgets every path.
func (s *Store) Reset() {
	s.collapsed = make(map[string]bool)
}

// Track registers paths as known and expanded. Already known paths keep
// their state.
func (s *Store) Track(paths []string) {
	for _, p := range paths {
		if _, ok := s.collapsed[p]; !ok {
			s.collapsed[p] = false
		}
	}
}

// Toggle flips one path. An unknown path starts expanded, so its first
// toggle collapses it.
func (s *Store) Toggle(path string) {
	s.collapsed[path] = !s.collapsed[path]
}

// SetAll sets every known path to the given state.
func (s *Store) SetAll(collapse bool) {
	for p := range s.collapsed {
		s.collapsed[p] = collapse
	}
}

// IsCollapsed reports whether a path is collapsed.
func (s *Store) IsCollapsed(path string) bool {
	return s.collapsed[path]
}

// AllCollapsed reports whether at least one path is known and all known
// paths are collapsed.
func (s *Store) AllCollapsed() bool {
	if len(s.collapsed) == 0 {
		return false
	}
	for _, c := range s.collapsed {
		if !c {
			return false
		}
	}
	return true
}

// Len returns the number of known paths.
func (s *Store) Len() int {
	return len(s.collapsed)
}

// CollapsedCount returns how many known paths are collapsed.
func (s *Store) CollapsedCount() int {
	n := 0
	for _, c := range s.collapsed {
		if c {
			n++
		}
	}
	return n
}

// Known returns the known paths in sorted order.
func (s *Store) Known() []string {
	paths := make([]string, 0, len(s.collapsed))
	for p := range s.collapsed {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
