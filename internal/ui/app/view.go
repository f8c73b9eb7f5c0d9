// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/diffly-tui/internal/controller"
	"github.com/jeranaias/diffly-tui/internal/model"
	"github.com/jeranaias/diffly-tui/internal/ui/components"
)

const (
	defaultWidth    = 100
	minViewportRows = 3
)

// View renders the whole screen.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	top := m.renderTop()
	bottom := m.renderBottom()

	m.viewport.Height = m.viewportHeight(top, bottom)
	body := m.overlayToasts(m.viewport.View())

	return lipgloss.JoinVertical(lipgloss.Left, top, body, bottom)
}

// FormatCounts renders the header count line, e.g. "3 files: +1 -1 ~1".
func FormatCounts(c model.Counts) string {
	noun := "files"
	if c.Total() == 1 {
		noun = "file"
	}
	return fmt.Sprintf("%d %s: +%d -%d ~%d", c.Total(), noun, c.Added, c.Removed, c.Modified)
}

// =============================================================================
// LAYOUT
// =============================================================================

func (m Model) contentWidth() int {
	if m.width <= 0 {
		return defaultWidth
	}
	return m.width
}

func (m Model) viewportHeight(top, bottom string) int {
	if m.height <= 0 {
		return m.viewport.Height
	}
	h := m.height - lipgloss.Height(top) - lipgloss.Height(bottom)
	if h < minViewportRows {
		h = minViewportRows
	}
	return h
}

// refresh re-renders the file list into the viewport and updates which
// bulk actions are available. It runs after every state change.
func (m *Model) refresh() {
	files := m.ctrl.Files()
	if m.selected >= len(files) {
		m.selected = len(files) - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}

	width := m.contentWidth()
	m.viewport.Width = width
	m.viewport.Height = m.viewportHeight(m.renderTop(), m.renderBottom())
	// Card border and padding take four columns.
	m.renderer.SetWidth(width - 4)

	content, offsets := m.renderFiles(files)
	m.offsets = offsets
	m.viewport.SetContent(content)
	m.scrollToSelected()
	m.updateKeyStates(len(files))
}

// scrollToSelected keeps the top of the selected card on screen.
func (m *Model) scrollToSelected() {
	if m.selected >= len(m.offsets) {
		return
	}
	off := m.offsets[m.selected]
	if off < m.viewport.YOffset || off >= m.viewport.YOffset+m.viewport.Height {
		m.viewport.SetYOffset(off)
	}
}

// updateKeyStates enables bulk actions only where they change something.
func (m *Model) updateKeyStates(files int) {
	view := m.ctrl.View()
	hasResult := m.ctrl.Result() != nil

	m.keys.ExpandAll.SetEnabled(files > 0 && view.AllCollapsed())
	m.keys.CollapseAll.SetEnabled(files > 0 && !view.AllCollapsed())
	m.keys.Toggle.SetEnabled(files > 0)
	m.keys.ExportDiff.SetEnabled(!m.ctrl.Busy())
	m.keys.ExportSummary.SetEnabled(!m.ctrl.Busy())
	m.keys.Preview.SetEnabled(hasResult)
	m.keys.Layout.SetEnabled(hasResult)
	m.keys.Compare.SetEnabled(!m.ctrl.Busy())
	m.keys.Rerun.SetEnabled(!m.ctrl.Busy())
}

// =============================================================================
// FILE CARDS
// =============================================================================

// renderFiles renders every card and returns the first line of each.
func (m Model) renderFiles(files []model.FileEntry) (string, []int) {
	if len(files) == 0 {
		return m.emptyMessage(), nil
	}

	cardWidth := m.contentWidth() - 2
	view := m.ctrl.View()

	cards := make([]string, 0, len(files))
	offsets := make([]int, 0, len(files))
	line := 0
	for i, entry := range files {
		collapsed := view.IsCollapsed(entry.Path)
		selected := i == m.selected && m.focus == focusList

		body := m.renderer.Header(entry, collapsed, selected)
		if !collapsed {
			body += "\n" + m.renderBody(entry)
		}

		style := m.theme.Card
		if i == m.selected {
			style = m.theme.CardSelected
		}
		card := style.Width(cardWidth).Render(body)

		offsets = append(offsets, line)
		line += lipgloss.Height(card)
		cards = append(cards, card)
	}

	return strings.Join(cards, "\n"), offsets
}

func (m Model) renderBody(entry model.FileEntry) string {
	if m.showPreview {
		if preview := m.renderer.RenderPreview(entry); preview != "" {
			return preview
		}
		return m.theme.Hint.Render("No preview from the service")
	}

	out, err := m.renderer.Render(entry)
	if err != nil {
		return m.theme.LabelRemoved.Render("Cannot render diff: " + err.Error())
	}
	return out.Markup
}

func (m Model) emptyMessage() string {
	switch m.ctrl.State() {
	case controller.StateComparing:
		return ""
	case controller.StateReady:
		return m.theme.Hint.Render("No differences found.")
	case controller.StateFailed:
		return m.theme.Hint.Render("Comparison failed. Fix the inputs and press enter, or r to retry.")
	default:
		return m.theme.Hint.Render("Select two archives and press enter to compare.")
	}
}

// =============================================================================
// CHROME
// =============================================================================

func (m Model) renderTop() string {
	var sb strings.Builder

	sb.WriteString(m.theme.Title.Render("diffly"))
	sb.WriteString(" ")
	if result := m.ctrl.Result(); result != nil {
		sb.WriteString(m.theme.Counts.Render(FormatCounts(model.CountEntries(m.ctrl.Files()))))
	} else {
		sb.WriteString(m.theme.Subtitle.Render("compare two archives"))
	}
	sb.WriteString("\n")

	labels := []string{"Left", "Right"}
	for i := range m.inputs {
		label := m.theme.InputLabel
		if focus(i) == m.focus {
			label = m.theme.InputLabelFocused
		}
		sb.WriteString(label.Render(labels[i]))
		sb.WriteString(m.inputs[i].View())
		sb.WriteString("\n")
	}

	if m.ctrl.Busy() {
		sb.WriteString(m.spinner.View())
	} else if m.focus == focusList {
		sb.WriteString(m.theme.ButtonDisabled.Render("Compare"))
		sb.WriteString(" ")
		sb.WriteString(m.theme.Hint.Render("tab to edit paths"))
	} else {
		sb.WriteString(m.theme.Button.Render("Compare"))
		sb.WriteString(" ")
		sb.WriteString(m.theme.Hint.Render("press enter"))
	}

	return sb.String()
}

func (m Model) renderBottom() string {
	var parts []string

	if result := m.ctrl.Result(); result != nil {
		if panel := m.summary.Render(result.Summary); panel != "" {
			parts = append(parts, panel)
		}
	}

	if m.showHelp {
		parts = append(parts, m.help.View(m.keys))
	}

	m.status.SetState(stateLabel(m.ctrl.State()))
	if m.focus == focusList {
		m.status.SetBindings(m.keys.ShortHelp()...)
	} else {
		m.status.SetBindings(m.keys.NextField, m.keys.Compare, m.keys.ForceQuit)
	}
	parts = append(parts, m.status.View())

	return strings.Join(parts, "\n")
}

func stateLabel(s controller.State) string {
	switch s {
	case controller.StateComparing:
		return "Comparing"
	case controller.StateReady:
		return "Ready"
	case controller.StateFailed:
		return "Failed"
	default:
		return "Idle"
	}
}

// overlayToasts draws the toast stack over the last lines of body.
func (m Model) overlayToasts(body string) string {
	stack := components.RenderToastStack(m.toasts.Toasts(), m.contentWidth(), time.Now())
	if stack == "" {
		return body
	}

	lines := strings.Split(body, "\n")
	toastLines := strings.Split(stack, "\n")
	if len(toastLines) > len(lines) {
		toastLines = toastLines[len(toastLines)-len(lines):]
	}
	copy(lines[len(lines)-len(toastLines):], toastLines)
	return strings.Join(lines, "\n")
}
