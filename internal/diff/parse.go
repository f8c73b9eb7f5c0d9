// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package diff

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var hunkHeaderRe = regexp.MustCompile(`^@@ -(\d+)(?:,(\d+))? \+(\d+)(?:,(\d+))? @@`)

// ParsePatch parses unified diff text into a structured Diff.
// Hunk line counts are checked against the header ranges.
func ParsePatch(text string) (*Diff, error) {
	d := &Diff{}
	var current *DiffHunk
	var oldLine, newLine int

	closeHunk := func() error {
		if current == nil {
			return nil
		}
		if err := checkCounts(current); err != nil {
			return err
		}
		d.Hunks = append(d.Hunks, *current)
		current = nil
		return nil
	}

	lines := strings.Split(text, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	for i, line := range lines {
		switch {
		case current == nil && strings.HasPrefix(line, "--- "):
			d.OldLabel = strings.TrimPrefix(line, "--- ")
			continue
		case current == nil && strings.HasPrefix(line, "+++ "):
			d.NewLabel = strings.TrimPrefix(line, "+++ ")
			continue
		}

		if strings.HasPrefix(line, "@@") {
			if err := closeHunk(); err != nil {
				return nil, err
			}
			h, err := parseHunkHeader(line)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedPatch, i+1, err)
			}
			current = h
			oldLine, newLine = h.OldStart, h.NewStart
			if h.OldCount == 0 {
				oldLine++
			}
			if h.NewCount == 0 {
				newLine++
			}
			continue
		}

		if current == nil {
			// Preamble such as "diff --git" or "index" lines.
			continue
		}

		if strings.HasPrefix(line, `\`) {
			if n := len(current.Lines); n > 0 {
				current.Lines[n-1].NoNewline = true
			}
			continue
		}

		var dl DiffLine
		switch {
		case strings.HasPrefix(line, "+"):
			dl = DiffLine{Type: DiffLineAdded, Content: line[1:], NewLine: newLine}
			newLine++
			d.Stats.Additions++
		case strings.HasPrefix(line, "-"):
			dl = DiffLine{Type: DiffLineRemoved, Content: line[1:], OldLine: oldLine}
			oldLine++
			d.Stats.Deletions++
		case strings.HasPrefix(line, " "), line == "":
			content := line
			if content != "" {
				content = content[1:]
			}
			dl = DiffLine{Type: DiffLineContext, Content: content, OldLine: oldLine, NewLine: newLine}
			oldLine++
			newLine++
		default:
			return nil, fmt.Errorf("%w: line %d: unexpected %q", ErrMalformedPatch, i+1, line)
		}
		current.Lines = append(current.Lines, dl)
	}

	if err := closeHunk(); err != nil {
		return nil, err
	}
	return d, nil
}

func parseHunkHeader(line string) (*DiffHunk, error) {
	m := hunkHeaderRe.FindStringSubmatch(line)
	if m == nil {
		return nil, fmt.Errorf("invalid hunk header %q", line)
	}
	h := &DiffHunk{Header: line, OldCount: 1, NewCount: 1}
	h.OldStart, _ = strconv.Atoi(m[1])
	h.NewStart, _ = strconv.Atoi(m[3])
	if m[2] != "" {
		h.OldCount, _ = strconv.Atoi(m[2])
	}
	if m[4] != "" {
		h.NewCount, _ = strconv.Atoi(m[4])
	}
	return h, nil
}

func checkCounts(h *DiffHunk) error {
	var oldSeen, newSeen int
	for _, l := range h.Lines {
		switch l.Type {
		case DiffLineAdded:
			newSeen++
		case DiffLineRemoved:
			oldSeen++
		default:
			oldSeen++
			newSeen++
		}
	}
	if oldSeen != h.OldCount || newSeen != h.NewCount {
		return fmt.Errorf("%w: hunk %q has %d old and %d new lines",
			ErrMalformedPatch, h.Header, oldSeen, newSeen)
	}
	return nil
}
