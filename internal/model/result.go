// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "encoding/json"

// =============================================================================
// COMPARISON RESULT
// =============================================================================

// ComparisonResult is the service response for one pair of archives.
// It is never mutated after it has been received.
type ComparisonResult struct {
	// Diff lists the paths that differ between the two archives
	Diff DiffSet `json:"diff"`

	// Contents1 maps paths to their content in the first archive
	Contents1 map[string]string `json:"contents1,omitempty"`

	// Contents2 maps paths to their content in the second archive
	Contents2 map[string]string `json:"contents2,omitempty"`

	// Summary is a free-form description of the change set
	Summary string `json:"summary,omitempty"`

	// RawDiff is the diff object exactly as the service sent it
	RawDiff json.RawMessage `json:"-"`
}

// DiffSet groups the changed paths by kind.
type DiffSet struct {
	Added    []string        `json:"added"`
	Removed  []string        `json:"removed"`
	Modified []ModifiedEntry `json:"modified"`
}

// ModifiedEntry describes a path present in both archives with changed content.
// Nil content pointers mean the service omitted the field.
type ModifiedEntry struct {
	File         string   `json:"file"`
	OldContent   *string  `json:"old_content,omitempty"`
	NewContent   *string  `json:"new_content,omitempty"`
	LinesChanged int      `json:"lines_changed"`
	DiffPreview  []string `json:"diff_preview,omitempty"`
}

// DiffJSON returns the diff object for export.
// The service bytes are preferred so nothing is reshaped on the way out.
func (r *ComparisonResult) DiffJSON() json.RawMessage {
	if r == nil {
		return nil
	}
	if len(r.RawDiff) > 0 {
		return r.RawDiff
	}
	data, err := json.Marshal(r.Diff)
	if err != nil {
		return nil
	}
	return data
}

// =============================================================================
// FILE ENTRY
// =============================================================================

// Status is the change kind of a normalized path.
type Status string

const (
	StatusAdded    Status = "added"
	StatusRemoved  Status = "removed"
	StatusModified Status = "modified"
)

// Label returns the bracketed status label shown on file cards.
func (s Status) Label() string {
	switch s {
	case StatusAdded:
		return "[ADDED]"
	case StatusRemoved:
		return "[REMOVED]"
	default:
		return "[MODIFIED]"
	}
}

// FileEntry is one normalized path. Contents are never absent, only empty.
type FileEntry struct {
	Path         string
	Status       Status
	OldContent   string
	NewContent   string
	LinesChanged int
	Preview      []string
}

// Counts tallies entries by status.
type Counts struct {
	Added    int
	Removed  int
	Modified int
}

// Total returns the number of counted entries.
func (c Counts) Total() int {
	return c.Added + c.Removed + c.Modified
}

// StrPtr returns a pointer to s. Convenient for building ModifiedEntry values.
func StrPtr(s string) *string {
	return &s
}
