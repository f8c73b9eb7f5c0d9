// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"github.com/charmbracelet/bubbles/key"
)

// =============================================================================
// KEY MAP DEFINITION
// =============================================================================

// KeyMap defines the keyboard bindings of the viewer.
type KeyMap struct {
	NextField     key.Binding
	Compare       key.Binding
	Up            key.Binding
	Down          key.Binding
	PageUp        key.Binding
	PageDown      key.Binding
	Toggle        key.Binding
	ExpandAll     key.Binding
	CollapseAll   key.Binding
	ExportDiff    key.Binding
	ExportSummary key.Binding
	Preview       key.Binding
	Layout        key.Binding
	Rerun         key.Binding
	Dismiss       key.Binding
	Help          key.Binding
	Quit          key.Binding
	ForceQuit     key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		NextField: key.NewBinding(
			key.WithKeys("tab", "shift+tab"),
			key.WithHelp("tab", "switch field"),
		),
		Compare: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "compare"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "previous file"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "next file"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("PgUp/C-u", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("PgDn/C-d", "page down"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter/space", "collapse/expand"),
		),
		ExpandAll: key.NewBinding(
			key.WithKeys("E"),
			key.WithHelp("E", "expand all"),
		),
		CollapseAll: key.NewBinding(
			key.WithKeys("C"),
			key.WithHelp("C", "collapse all"),
		),
		ExportDiff: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "export diff"),
		),
		ExportSummary: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "export summary"),
		),
		Preview: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "service preview"),
		),
		Layout: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "switch layout"),
		),
		Rerun: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "re-compare"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "dismiss notice"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("C-c", "quit"),
		),
	}
}

// ShortHelp returns the bindings shown in the status bar.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.ExpandAll, k.CollapseAll, k.ExportDiff, k.Help, k.Quit}
}

// FullHelp returns grouped bindings for the help overlay.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextField, k.Compare, k.Rerun},
		{k.Up, k.Down, k.PageUp, k.PageDown},
		{k.Toggle, k.ExpandAll, k.CollapseAll, k.Preview, k.Layout},
		{k.ExportDiff, k.ExportSummary, k.Dismiss, k.Help, k.Quit},
	}
}
