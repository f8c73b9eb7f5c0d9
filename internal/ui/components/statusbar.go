// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"github.com/jeranaias/diffly-tui/internal/ui/styles"
	"github.com/jeranaias/diffly-tui/internal/util"
)

// StatusBar renders the bottom line: state on the left, key hints on the right.
type StatusBar struct {
	theme    *styles.Theme
	width    int
	state    string
	bindings []key.Binding
}

// NewStatusBar creates an empty status bar.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	if theme == nil {
		theme = styles.NewTheme()
	}
	return &StatusBar{theme: theme}
}

// SetWidth sets the total width.
func (s *StatusBar) SetWidth(width int) {
	s.width = width
}

// SetState sets the text on the left.
func (s *StatusBar) SetState(state string) {
	s.state = state
}

// SetBindings sets the key hints. Disabled bindings are skipped when rendering.
func (s *StatusBar) SetBindings(bindings ...key.Binding) {
	s.bindings = bindings
}

// Hints returns the rendered "key desc" pairs of enabled bindings.
func (s *StatusBar) Hints() []string {
	var hints []string
	for _, b := range s.bindings {
		if !b.Enabled() {
			continue
		}
		h := b.Help()
		if h.Key == "" {
			continue
		}
		hints = append(hints, h.Key+" "+h.Desc)
	}
	return hints
}

// View renders the bar at the configured width.
func (s *StatusBar) View() string {
	left := " " + s.state + " "
	right := " " + strings.Join(s.Hints(), " · ") + " "

	if s.width <= 0 {
		return s.theme.StatusBarKey.Render(left) + s.theme.StatusBar.Render(right)
	}

	leftWidth := util.StringWidth(left)
	if leftWidth > s.width {
		return s.theme.StatusBarKey.Render(util.FitWidth(left, s.width))
	}
	right = util.TruncateWidth(right, s.width-leftWidth)
	gap := s.width - leftWidth - util.StringWidth(right)

	return s.theme.StatusBarKey.Render(left) +
		s.theme.StatusBar.Render(strings.Repeat(" ", gap)+right)
}
