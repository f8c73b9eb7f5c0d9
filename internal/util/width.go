// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Ellipsis is appended to truncated text.
const Ellipsis = "…"

// TabWidth is the column width used by ExpandTabs.
const TabWidth = 4

// StringWidth returns the number of terminal columns s occupies.
// Wide (CJK) runes count as two columns.
func StringWidth(s string) int {
	return runewidth.StringWidth(s)
}

// TruncateWidth cuts s to at most maxWidth columns, ending in an ellipsis
// when anything was removed.
func TruncateWidth(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth <= runewidth.StringWidth(Ellipsis) {
		return runewidth.Truncate(s, maxWidth, "")
	}
	return runewidth.Truncate(s, maxWidth, Ellipsis)
}

// PadWidth right-pads s with spaces to width columns.
// Wider strings are returned unchanged.
func PadWidth(s string, width int) string {
	return runewidth.FillRight(s, width)
}

// FitWidth truncates or pads s so it occupies exactly width columns.
func FitWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return PadWidth(TruncateWidth(s, width), width)
}

// ExpandTabs replaces tabs with spaces up to the next TabWidth stop.
func ExpandTabs(s string) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	var sb strings.Builder
	col := 0
	for _, r := range s {
		if r == '\t' {
			n := TabWidth - col%TabWidth
			sb.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		sb.WriteRune(r)
		col += runewidth.RuneWidth(r)
	}
	return sb.String()
}
