// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"

	"github.com/jeranaias/diffly-tui/internal/ui/styles"
)

// SummaryPanel renders the service's summary text as markdown.
type SummaryPanel struct {
	mode     string
	profile  termenv.Profile
	width    int
	theme    *styles.Theme
	renderer *glamour.TermRenderer
}

// NewSummaryPanel creates a panel. mode is "auto", "dark" or "light"; the
// Ascii profile always renders without color.
func NewSummaryPanel(mode string, profile termenv.Profile, width int, theme *styles.Theme) *SummaryPanel {
	if theme == nil {
		theme = styles.NewTheme()
	}
	p := &SummaryPanel{mode: mode, profile: profile, theme: theme}
	p.SetWidth(width)
	return p
}

// SetWidth rebuilds the markdown renderer for a new wrap width.
func (p *SummaryPanel) SetWidth(width int) {
	if width < MinRenderWidth {
		width = MinRenderWidth
	}
	if width == p.width && p.renderer != nil {
		return
	}
	p.width = width

	r, err := glamour.NewTermRenderer(
		p.styleOption(),
		glamour.WithWordWrap(width-4),
	)
	if err != nil {
		// Plain text fallback.
		r = nil
	}
	p.renderer = r
}

func (p *SummaryPanel) styleOption() glamour.TermRendererOption {
	if p.profile == termenv.Ascii {
		return glamour.WithStandardStyle("notty")
	}
	switch p.mode {
	case "dark", "light":
		return glamour.WithStandardStyle(p.mode)
	default:
		return glamour.WithAutoStyle()
	}
}

// Markdown renders text, returning it unchanged when rendering fails.
func (p *SummaryPanel) Markdown(text string) string {
	if p.renderer == nil {
		return text
	}
	out, err := p.renderer.Render(text)
	if err != nil {
		return text
	}
	return strings.Trim(out, "\n")
}

// Render returns the panel, or "" for an empty summary.
func (p *SummaryPanel) Render(summary string) string {
	if strings.TrimSpace(summary) == "" {
		return ""
	}
	heading := p.theme.SummaryPanelHeading.Render("Summary")
	return p.theme.SummaryPanel.Width(p.width).Render(heading + "\n" + p.Markdown(summary))
}
