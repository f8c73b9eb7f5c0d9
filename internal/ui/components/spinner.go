// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/diffly-tui/internal/ui/styles"
)

// ComparingMessage is shown while a comparison is running.
const ComparingMessage = "Comparing files, please wait..."

// =============================================================================
// SPINNER MODEL
// =============================================================================

// Spinner shows ComparingMessage and the elapsed time while a comparison
// is in flight.
type Spinner struct {
	spinner spinner.Model
	started time.Time
	active  bool
}

// NewSpinner creates an ASCII line spinner showing ComparingMessage.
func NewSpinner() Spinner {
	s := spinner.New()
	s.Spinner = spinner.Spinner{
		Frames: []string{"|", "/", "-", "\\"},
		FPS:    time.Second / 10,
	}
	s.Style = lipgloss.NewStyle().Foreground(styles.Purple)

	return Spinner{spinner: s}
}

// Start activates the spinner and returns its first tick.
func (s *Spinner) Start() tea.Cmd {
	s.active = true
	s.started = time.Now()
	return s.spinner.Tick
}

// Stop deactivates the spinner.
func (s *Spinner) Stop() {
	s.active = false
}

// IsActive returns whether the spinner is running.
func (s *Spinner) IsActive() bool {
	return s.active
}

// Elapsed returns the time since Start.
func (s *Spinner) Elapsed() time.Duration {
	if s.started.IsZero() {
		return 0
	}
	return time.Since(s.started)
}

// Update advances the animation while active.
func (s Spinner) Update(msg tea.Msg) (Spinner, tea.Cmd) {
	if !s.active {
		return s, nil
	}
	var cmd tea.Cmd
	s.spinner, cmd = s.spinner.Update(msg)
	return s, cmd
}

// View renders the spinner, or "" when stopped.
func (s Spinner) View() string {
	if !s.active {
		return ""
	}

	msg := lipgloss.NewStyle().Foreground(styles.TextSecondary).Render(ComparingMessage)
	elapsed := lipgloss.NewStyle().Foreground(styles.TextMuted).Render(" (" + formatElapsed(s.Elapsed()) + ")")
	return s.spinner.View() + " " + msg + elapsed
}

// formatElapsed renders a duration as "4.2s" or "1m05s".
func formatElapsed(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	m := int(d / time.Minute)
	sec := int((d % time.Minute) / time.Second)
	return fmt.Sprintf("%dm%02ds", m, sec)
}
