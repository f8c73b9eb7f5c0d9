// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/diffly-tui/internal/controller"
	"github.com/jeranaias/diffly-tui/internal/watch"
)

// =============================================================================
// MESSAGES
// =============================================================================

// compareRequestMsg starts a comparison of the current inputs.
type compareRequestMsg struct{}

// CompareDoneMsg carries the outcome of a comparison run off the event loop.
type CompareDoneMsg struct {
	Outcome controller.Outcome
}

// ExportKind names the artifact being exported.
type ExportKind string

const (
	ExportKindDiff    ExportKind = "diff"
	ExportKindSummary ExportKind = "summary"
)

// ExportDoneMsg reports a finished export.
type ExportDoneMsg struct {
	Kind ExportKind
	Path string
	Err  error
}

// ArchiveChangedMsg reports that a compared archive changed on disk.
type ArchiveChangedMsg struct {
	Change watch.Change
}

// waitForChange blocks on the watcher channel and returns the next change.
// A closed channel ends the subscription.
func waitForChange(ch <-chan watch.Change) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		c, ok := <-ch
		if !ok {
			return nil
		}
		return ArchiveChangedMsg{Change: c}
	}
}
