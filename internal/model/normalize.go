// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "sort"

// Normalize reconciles a result into one entry per distinct path, sorted by
// byte-wise path order.
//
// A path listed in more than one place resolves as modified, then removed,
// then added. The first modified entry for a path wins. Absent contents
// resolve to "".
func Normalize(result *ComparisonResult) []FileEntry {
	if result == nil {
		return []FileEntry{}
	}

	byPath := make(map[string]FileEntry)

	for _, path := range result.Diff.Added {
		byPath[path] = FileEntry{
			Path:       path,
			Status:     StatusAdded,
			NewContent: result.Contents2[path],
		}
	}

	for _, path := range result.Diff.Removed {
		byPath[path] = FileEntry{
			Path:       path,
			Status:     StatusRemoved,
			OldContent: result.Contents1[path],
		}
	}

	seen := make(map[string]bool, len(result.Diff.Modified))
	for _, m := range result.Diff.Modified {
		if seen[m.File] {
			continue
		}
		seen[m.File] = true
		byPath[m.File] = FileEntry{
			Path:         m.File,
			Status:       StatusModified,
			OldContent:   deref(m.OldContent),
			NewContent:   deref(m.NewContent),
			LinesChanged: m.LinesChanged,
			Preview:      m.DiffPreview,
		}
	}

	paths := make([]string, 0, len(byPath))
	for path := range byPath {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	entries := make([]FileEntry, 0, len(paths))
	for _, path := range paths {
		entries = append(entries, byPath[path])
	}
	return entries
}

// Paths returns the paths of entries in order.
func Paths(entries []FileEntry) []string {
	paths := make([]string, len(entries))
	for i, e := range entries {
		paths[i] = e.Path
	}
	return paths
}

// CountEntries tallies entries by status.
func CountEntries(entries []FileEntry) Counts {
	var c Counts
	for _, e := range entries {
		switch e.Status {
		case StatusAdded:
			c.Added++
		case StatusRemoved:
			c.Removed++
		case StatusModified:
			c.Modified++
		}
	}
	return c
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
