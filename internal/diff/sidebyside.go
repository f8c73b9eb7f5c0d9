// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package diff

import "github.com/sergi/go-diff/diffmatchpatch"

// LinePair represents a paired row for side-by-side display.
// Either side may be nil when a removal or addition has no counterpart.
type LinePair struct {
	Left  *DiffLine
	Right *DiffLine
}

// PairLines pairs removed/added runs side-by-side and maps context lines to both sides.
// The returned pointers alias the given slice.
func PairLines(lines []DiffLine) []LinePair {
	var pairs []LinePair
	var removed []*DiffLine

	flush := func() {
		for _, r := range removed {
			pairs = append(pairs, LinePair{Left: r})
		}
		removed = nil
	}

	for i := range lines {
		l := &lines[i]
		switch l.Type {
		case DiffLineRemoved:
			removed = append(removed, l)
		case DiffLineAdded:
			if len(removed) > 0 {
				pairs = append(pairs, LinePair{Left: removed[0], Right: l})
				removed = removed[1:]
			} else {
				pairs = append(pairs, LinePair{Right: l})
			}
		default:
			flush()
			pairs = append(pairs, LinePair{Left: l, Right: l})
		}
	}
	flush()

	return pairs
}

// HighlightIntraline fills Segments for every removed line paired with an added line.
func HighlightIntraline(h *DiffHunk) {
	dmp := diffmatchpatch.New()

	for _, p := range PairLines(h.Lines) {
		if p.Left == nil || p.Right == nil || p.Left == p.Right {
			continue
		}
		diffs := dmp.DiffMain(p.Left.Content, p.Right.Content, false)
		diffs = dmp.DiffCleanupSemantic(diffs)

		var oldPos, newPos int
		p.Left.Segments = nil
		p.Right.Segments = nil
		for _, d := range diffs {
			n := len([]rune(d.Text))
			switch d.Type {
			case diffmatchpatch.DiffDelete:
				p.Left.Segments = append(p.Left.Segments, Segment{Start: oldPos, End: oldPos + n})
				oldPos += n
			case diffmatchpatch.DiffInsert:
				p.Right.Segments = append(p.Right.Segments, Segment{Start: newPos, End: newPos + n})
				newPos += n
			default:
				oldPos += n
				newPos += n
			}
		}
	}
}
