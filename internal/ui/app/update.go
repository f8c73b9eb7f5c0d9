// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/diffly-tui/internal/controller"
	"github.com/jeranaias/diffly-tui/internal/model"
	"github.com/jeranaias/diffly-tui/internal/ui/components"
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case compareRequestMsg:
		left, right := m.Inputs()
		return m.startCompare(left, right)

	case CompareDoneMsg:
		return m.handleCompareDone(msg)

	case ExportDoneMsg:
		return m.handleExportDone(msg)

	case ArchiveChangedMsg:
		return m.handleArchiveChanged(msg)

	case components.ToastTickMsg:
		m.toasts.Tick()
		return m, components.ToastTickCmd()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m.updateInputs(msg)
}

// =============================================================================
// MESSAGE HANDLERS
// =============================================================================

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.ready = true

	m.help.Width = msg.Width
	m.status.SetWidth(msg.Width)
	m.summary.SetWidth(msg.Width)
	for i := range m.inputs {
		m.inputs[i].Width = msg.Width - 12
	}

	m.refresh()
	return m, nil
}

func (m Model) handleCompareDone(msg CompareDoneMsg) (tea.Model, tea.Cmd) {
	err := m.ctrl.Apply(msg.Outcome)
	if errors.Is(err, controller.ErrStaleOutcome) {
		return m, nil
	}

	m.spinner.Stop()
	m.selected = 0
	if err != nil {
		m.toasts.AddError("Error comparing files: " + err.Error())
	} else {
		counts := model.CountEntries(m.ctrl.Files())
		m.toasts.AddSuccess(fmt.Sprintf("Comparison complete: %d files differ", counts.Total()))
		m.setFocus(focusList)
	}

	m.refresh()
	return m, nil
}

func (m Model) handleExportDone(msg ExportDoneMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.logger.Error().Err(msg.Err).Str("kind", string(msg.Kind)).Msg("EXPORT_FAILED")
		m.toasts.AddError(fmt.Sprintf("Export %s failed: %v", msg.Kind, msg.Err))
		return m, nil
	}

	m.logger.Info().Str("kind", string(msg.Kind)).Str("path", msg.Path).Msg("EXPORT_COMPLETE")
	m.toasts.AddSuccess("Saved " + msg.Path)
	return m, nil
}

func (m Model) handleArchiveChanged(msg ArchiveChangedMsg) (tea.Model, tea.Cmd) {
	name := filepath.Base(msg.Change.Path)
	if msg.Change.Removed {
		m.toasts.AddWarning(name + " was removed")
	} else {
		m.toasts.AddWarning(name + " changed on disk, press r to re-compare")
	}

	var cmd tea.Cmd
	if m.watcher != nil {
		cmd = waitForChange(m.watcher.Changes())
	}
	return m, cmd
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m, tea.Quit
	}
	if m.focus == focusList {
		return m.handleListKey(msg)
	}
	return m.handleInputKey(msg)
}

func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.NextField):
		m.nextFocus(msg.String() == "shift+tab")
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keys.Compare):
		left, right := m.Inputs()
		return m.startCompare(left, right)

	case msg.Type == tea.KeyEsc:
		m.setFocus(focusList)
		m.refresh()
		return m, nil
	}

	return m.updateInputs(msg)
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	files := m.ctrl.Files()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.NextField):
		m.nextFocus(msg.String() == "shift+tab")

	case key.Matches(msg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
		}

	case key.Matches(msg, m.keys.Down):
		if m.selected < len(files)-1 {
			m.selected++
		}

	case key.Matches(msg, m.keys.PageUp):
		m.viewport.HalfViewUp()
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.viewport.HalfViewDown()
		return m, nil

	case key.Matches(msg, m.keys.Toggle):
		if m.selected < len(files) {
			m.ctrl.View().Toggle(files[m.selected].Path)
		}

	case key.Matches(msg, m.keys.ExpandAll):
		m.ctrl.View().SetAll(false)

	case key.Matches(msg, m.keys.CollapseAll):
		m.ctrl.View().SetAll(true)

	case key.Matches(msg, m.keys.ExportDiff):
		return m, m.exportCmd(ExportKindDiff)

	case key.Matches(msg, m.keys.ExportSummary):
		return m, m.exportCmd(ExportKindSummary)

	case key.Matches(msg, m.keys.Preview):
		m.showPreview = !m.showPreview

	case key.Matches(msg, m.keys.Layout):
		if m.renderer.Options().Layout == components.LayoutUnified {
			m.renderer.SetLayout(components.LayoutSideBySide)
		} else {
			m.renderer.SetLayout(components.LayoutUnified)
		}

	case key.Matches(msg, m.keys.Rerun):
		last, ok := m.ctrl.LastRequest()
		if !ok {
			m.toasts.AddStatus("Nothing to re-compare yet")
			return m, nil
		}
		return m.startCompare(last.Left, last.Right)

	case key.Matches(msg, m.keys.Dismiss):
		m.toasts.Dismiss()
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp

	default:
		return m, nil
	}

	m.refresh()
	return m, nil
}

func (m Model) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	for i := range m.inputs {
		var cmd tea.Cmd
		m.inputs[i], cmd = m.inputs[i].Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// =============================================================================
// COMMANDS
// =============================================================================

// startCompare begins a session and runs the remote call off the event loop.
func (m Model) startCompare(left, right string) (tea.Model, tea.Cmd) {
	req, err := m.ctrl.Begin(left, right)
	if err != nil {
		m.toasts.AddWarning("Cannot compare: " + err.Error())
		return m, nil
	}

	if m.watcher != nil {
		if err := m.watcher.Watch(req.Left, req.Right); err != nil {
			m.logger.Warn().Err(err).Str("session", req.Session).Msg("WATCH_FAILED")
		}
	}

	m.selected = 0
	m.refresh()

	ctrl := m.ctrl
	run := func() tea.Msg {
		return CompareDoneMsg{Outcome: ctrl.Run(context.Background(), req)}
	}
	return m, tea.Batch(run, m.spinner.Start())
}

// exportCmd writes an artifact of the current result.
func (m Model) exportCmd(kind ExportKind) tea.Cmd {
	result := m.ctrl.Result()
	exporter := m.exporter
	return func() tea.Msg {
		var path string
		var err error
		switch kind {
		case ExportKindSummary:
			path, err = exporter.ExportSummary(result)
		default:
			path, err = exporter.ExportDiff(result)
		}
		return ExportDoneMsg{Kind: kind, Path: path, Err: err}
	}
}
