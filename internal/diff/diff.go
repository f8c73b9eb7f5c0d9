// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package diff

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// DefaultContextLines is the number of unchanged lines shown around each change.
const DefaultContextLines = 4

// noNewlineMarker is the unified diff marker for a final line without newline.
const noNewlineMarker = `\ No newline at end of file`

var (
	// ErrNegativeContext is returned when a negative context size is requested.
	ErrNegativeContext = errors.New("context lines must be non-negative")

	// ErrMalformedPatch is returned when patch text cannot be parsed.
	ErrMalformedPatch = errors.New("malformed patch")
)

// =============================================================================
// DIFF TYPES
// =============================================================================

// DiffLineType represents the type of a diff line.
type DiffLineType int

const (
	// DiffLineContext represents unchanged context lines
	DiffLineContext DiffLineType = iota
	// DiffLineAdded represents added lines
	DiffLineAdded
	// DiffLineRemoved represents removed lines
	DiffLineRemoved
)

// String returns the string representation of a diff line type.
func (t DiffLineType) String() string {
	switch t {
	case DiffLineContext:
		return "context"
	case DiffLineAdded:
		return "added"
	case DiffLineRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// Prefix returns the diff prefix character for this line type.
func (t DiffLineType) Prefix() string {
	switch t {
	case DiffLineAdded:
		return "+"
	case DiffLineRemoved:
		return "-"
	default:
		return " "
	}
}

// Segment marks a changed rune range inside a line.
type Segment struct {
	Start int // first rune, inclusive
	End   int // last rune, exclusive
}

// DiffLine represents a single line in a diff.
type DiffLine struct {
	Type      DiffLineType // Type of line (added, removed, context)
	Content   string       // Line content without prefix or newline
	OldLine   int          // Line number in old file (0 if added)
	NewLine   int          // Line number in new file (0 if removed)
	NoNewline bool         // Line was the last one and had no trailing newline
	Segments  []Segment    // Intraline changes, empty unless highlighted
}

// DiffHunk represents a contiguous section of changes.
type DiffHunk struct {
	OldStart int        // Starting line in old file
	OldCount int        // Number of lines in old file
	NewStart int        // Starting line in new file
	NewCount int        // Number of lines in new file
	Header   string     // The raw "@@ ... @@" line
	Lines    []DiffLine // The actual diff lines
}

// DiffStats holds statistics about a diff.
type DiffStats struct {
	Additions int    // Number of added lines
	Deletions int    // Number of removed lines
	FileMode  string // "new", "modified", "deleted"
}

// Diff represents a complete file diff.
type Diff struct {
	FilePath string     // Path of the file being diffed
	OldLabel string     // Label from the "---" header
	NewLabel string     // Label from the "+++" header
	Hunks    []DiffHunk // The diff hunks
	Stats    DiffStats  // Statistics
}

// =============================================================================
// PATCH GENERATION
// =============================================================================

// Labels returns the synthetic header labels used for a path.
func Labels(path string) (oldLabel, newLabel string) {
	return "old/" + path, "new/" + path
}

// GeneratePatch produces unified diff text between two contents.
// Headers are always present; equal contents produce no hunks.
func GeneratePatch(oldLabel, newLabel, oldContent, newContent string, contextLines int) (string, error) {
	if contextLines < 0 {
		return "", ErrNegativeContext
	}

	header := fmt.Sprintf("--- %s\n+++ %s\n", oldLabel, newLabel)
	if oldContent == newContent {
		return header, nil
	}

	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        splitLines(oldContent),
		B:        splitLines(newContent),
		FromFile: oldLabel,
		ToFile:   newLabel,
		Context:  contextLines,
	})
	if err != nil {
		return "", fmt.Errorf("generate patch: %w", err)
	}
	if text == "" {
		return header, nil
	}
	return text, nil
}

// splitLines splits content into newline-terminated lines.
// A final line without newline carries the unified diff marker so it
// compares unequal to the same line with a newline.
func splitLines(content string) []string {
	if content == "" {
		return nil
	}
	lines := strings.SplitAfter(content, "\n")
	if lines[len(lines)-1] == "" {
		return lines[:len(lines)-1]
	}
	last := len(lines) - 1
	lines[last] = lines[last] + "\n" + noNewlineMarker + "\n"
	return lines
}

// ComputeDiff generates a patch for a path and parses it into a tree.
func ComputeDiff(filePath, oldContent, newContent string, contextLines int) (*Diff, error) {
	oldLabel, newLabel := Labels(filePath)
	patch, err := GeneratePatch(oldLabel, newLabel, oldContent, newContent, contextLines)
	if err != nil {
		return nil, err
	}

	d, err := ParsePatch(patch)
	if err != nil {
		return nil, err
	}
	d.FilePath = filePath

	switch {
	case oldContent == "" && newContent != "":
		d.Stats.FileMode = "new"
	case oldContent != "" && newContent == "":
		d.Stats.FileMode = "deleted"
	default:
		d.Stats.FileMode = "modified"
	}
	return d, nil
}

// =============================================================================
// UNIFIED DIFF FORMAT
// =============================================================================

// FormatUnifiedDiff returns the diff in standard unified diff format.
func FormatUnifiedDiff(d *Diff) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("--- %s\n", d.OldLabel))
	sb.WriteString(fmt.Sprintf("+++ %s\n", d.NewLabel))

	for _, hunk := range d.Hunks {
		sb.WriteString(fmt.Sprintf("@@ -%s +%s @@\n",
			formatRange(hunk.OldStart, hunk.OldCount),
			formatRange(hunk.NewStart, hunk.NewCount)))

		for _, line := range hunk.Lines {
			sb.WriteString(line.Type.Prefix())
			sb.WriteString(line.Content)
			sb.WriteString("\n")
			if line.NoNewline {
				sb.WriteString(noNewlineMarker)
				sb.WriteString("\n")
			}
		}
	}

	return sb.String()
}

// formatRange mirrors the range notation used in hunk headers.
func formatRange(start, count int) string {
	if count == 1 {
		return fmt.Sprintf("%d", start)
	}
	return fmt.Sprintf("%d,%d", start, count)
}

// =============================================================================
// SUMMARY
// =============================================================================

// HunkCount returns the number of hunks in the diff.
func (d *Diff) HunkCount() int {
	return len(d.Hunks)
}

// Summary returns a human-readable summary of the diff.
func (d *Diff) Summary() string {
	var parts []string

	switch d.Stats.FileMode {
	case "new":
		parts = append(parts, "New file")
	case "deleted":
		parts = append(parts, "File deleted")
	default:
		parts = append(parts, "Modified")
	}

	if d.Stats.Additions > 0 {
		parts = append(parts, fmt.Sprintf("+%d", d.Stats.Additions))
	}
	if d.Stats.Deletions > 0 {
		parts = append(parts, fmt.Sprintf("-%d", d.Stats.Deletions))
	}

	return strings.Join(parts, " ")
}
