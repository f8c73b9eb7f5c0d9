// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package diff generates and parses unified patches for file changes.
//
// Patches are produced with synthetic "old/<path>" and "new/<path>"
// headers and parsed back into a hunk tree that the renderer can lay out
// as unified or side-by-side rows.
//
// # Key Types
//
//   - DiffLineType: Type of diff line (context, added, removed)
//   - DiffLine: Single line in a diff with line numbers and intraline segments
//   - DiffHunk: Group of related diff lines with its header range
//   - Diff: Complete parsed patch with hunks and stats
//   - LinePair: One side-by-side row
//
// # Usage
//
// Generate patch text for a changed file:
//
//	oldLabel, newLabel := diff.Labels("src/app.js")
//	patch, err := diff.GeneratePatch(oldLabel, newLabel, before, after, diff.DefaultContextLines)
//
// Or get the parsed tree directly:
//
//	d, err := diff.ComputeDiff("src/app.js", before, after, diff.DefaultContextLines)
//	fmt.Println(d.Summary())
package diff
