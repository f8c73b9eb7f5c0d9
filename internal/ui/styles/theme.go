// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "github.com/charmbracelet/lipgloss"

// Theme holds the styles used by the viewer.
type Theme struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Counts   lipgloss.Style
	Hint     lipgloss.Style
	Spinner  lipgloss.Style

	InputLabel        lipgloss.Style
	InputLabelFocused lipgloss.Style
	Button            lipgloss.Style
	ButtonDisabled    lipgloss.Style

	Card         lipgloss.Style
	CardSelected lipgloss.Style
	CardTitle    lipgloss.Style
	Path         lipgloss.Style

	LabelAdded    lipgloss.Style
	LabelRemoved  lipgloss.Style
	LabelModified lipgloss.Style

	DiffAdded           lipgloss.Style
	DiffAddedEmphasis   lipgloss.Style
	DiffRemoved         lipgloss.Style
	DiffRemovedEmphasis lipgloss.Style
	DiffContext         lipgloss.Style
	DiffHunk            lipgloss.Style
	DiffLineNumber      lipgloss.Style
	DiffGutter          lipgloss.Style
	DiffEmptySide       lipgloss.Style
	DiffFileHeader      lipgloss.Style
	SummaryPanel        lipgloss.Style
	SummaryPanelHeading lipgloss.Style
	StatusBar           lipgloss.Style
	StatusBarKey        lipgloss.Style
}

// NewTheme creates the default theme.
func NewTheme() *Theme {
	t := &Theme{}

	t.Title = lipgloss.NewStyle().Foreground(Purple).Bold(true)
	t.Subtitle = lipgloss.NewStyle().Foreground(TextSecondary)
	t.Counts = lipgloss.NewStyle().Foreground(TextSecondary).Bold(true)
	t.Hint = lipgloss.NewStyle().Foreground(TextMuted).Italic(true)
	t.Spinner = lipgloss.NewStyle().Foreground(Cyan)

	t.InputLabel = lipgloss.NewStyle().Foreground(TextSecondary).Width(8)
	t.InputLabelFocused = t.InputLabel.Copy().Foreground(Cyan).Bold(true)
	t.Button = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Purple).
		Padding(0, 2).
		Bold(true)
	t.ButtonDisabled = lipgloss.NewStyle().
		Foreground(TextMuted).
		Background(Overlay).
		Padding(0, 2)

	t.Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(OverlayDim).
		Padding(0, 1)
	t.CardSelected = t.Card.Copy().BorderForeground(Purple)
	t.CardTitle = lipgloss.NewStyle().Foreground(TextPrimary).Bold(true)
	t.Path = lipgloss.NewStyle().Foreground(TextPrimary)

	t.LabelAdded = lipgloss.NewStyle().Foreground(Emerald).Bold(true)
	t.LabelRemoved = lipgloss.NewStyle().Foreground(Rose).Bold(true)
	t.LabelModified = lipgloss.NewStyle().Foreground(Amber).Bold(true)

	t.DiffAdded = lipgloss.NewStyle().Foreground(DiffAddedFg).Background(DiffAddedBg)
	t.DiffAddedEmphasis = t.DiffAdded.Copy().Background(DiffAddedEmphasisBg).Bold(true)
	t.DiffRemoved = lipgloss.NewStyle().Foreground(DiffRemovedFg).Background(DiffRemovedBg)
	t.DiffRemovedEmphasis = t.DiffRemoved.Copy().Background(DiffRemovedEmphasisBg).Bold(true)
	t.DiffContext = lipgloss.NewStyle().Foreground(TextSecondary)
	t.DiffHunk = lipgloss.NewStyle().Foreground(DiffHunkFg)
	t.DiffLineNumber = lipgloss.NewStyle().Foreground(DiffLineNumberFg)
	t.DiffGutter = lipgloss.NewStyle().Foreground(OverlayDim)
	t.DiffEmptySide = lipgloss.NewStyle().Background(SurfaceDim)
	t.DiffFileHeader = lipgloss.NewStyle().Foreground(TextMuted)

	t.SummaryPanel = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), true, false, false, false).
		BorderForeground(Overlay).
		Padding(0, 1)
	t.SummaryPanelHeading = lipgloss.NewStyle().Foreground(Cyan).Bold(true)

	t.StatusBar = lipgloss.NewStyle().Foreground(TextMuted).Background(SurfaceDim)
	t.StatusBarKey = lipgloss.NewStyle().Foreground(TextSecondary).Background(SurfaceDim).Bold(true)

	return t
}
