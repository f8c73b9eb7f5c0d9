// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package app is the Bubble Tea program of the diffly viewer.
//
// The model owns the inputs, the file list viewport and the feedback
// components. Comparison state lives in a controller.Controller; the model
// only renders what the controller holds and forwards user intent to it.
package app

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/jeranaias/diffly-tui/internal/config"
	"github.com/jeranaias/diffly-tui/internal/controller"
	"github.com/jeranaias/diffly-tui/internal/export"
	"github.com/jeranaias/diffly-tui/internal/ui/components"
	"github.com/jeranaias/diffly-tui/internal/ui/styles"
	"github.com/jeranaias/diffly-tui/internal/watch"
)

// =============================================================================
// MODEL
// =============================================================================

// focus is the element receiving key input.
type focus int

const (
	focusLeft focus = iota
	focusRight
	focusList
)

// Watcher reports changes to the compared archives.
type Watcher interface {
	Watch(paths ...string) error
	Changes() <-chan watch.Change
}

// Options wires the model to its collaborators.
type Options struct {
	Config   *config.Config
	Comparer controller.Comparer
	Watcher  Watcher
	Logger   zerolog.Logger

	// Left and Right prefill the inputs; when both are set the comparison
	// starts immediately.
	Left  string
	Right string
}

// Model is the root Bubble Tea model.
type Model struct {
	cfg      *config.Config
	ctrl     *controller.Controller
	exporter *export.Exporter
	watcher  Watcher
	logger   zerolog.Logger

	theme    *styles.Theme
	keys     KeyMap
	renderer *components.DiffRenderer
	summary  *components.SummaryPanel
	toasts   *components.ToastManager
	status   *components.StatusBar
	spinner  components.Spinner
	help     help.Model
	viewport viewport.Model
	inputs   [2]textinput.Model

	focus       focus
	selected    int
	offsets     []int
	showPreview bool
	showHelp    bool
	autoStart   bool

	width  int
	height int
	ready  bool
}

// New creates the model. A nil config uses config.Default.
func New(opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	styles.ApplyThemeMode(cfg.UI.Theme)

	theme := styles.NewTheme()
	profile := lipgloss.ColorProfile()

	renderer := components.NewDiffRenderer(components.RendererOptions{
		Layout:          components.Layout(cfg.UI.Layout),
		ContextLines:    cfg.UI.ContextLines,
		SyntaxHighlight: cfg.UI.SyntaxHighlight,
		Intraline:       cfg.UI.Intraline,
		Profile:         profile,
		Theme:           theme,
	})

	left := newPathInput("path/to/left.zip", opts.Left)
	right := newPathInput("path/to/right.zip", opts.Right)

	m := Model{
		cfg:  cfg,
		ctrl: controller.New(opts.Comparer, nil, opts.Logger),
		exporter: export.New(&export.Options{
			OutputDir:       cfg.Export.OutputDir,
			OpenAfterExport: cfg.Export.OpenAfterExport,
			Logger:          opts.Logger,
		}),
		watcher:     opts.Watcher,
		logger:      opts.Logger,
		theme:       theme,
		keys:        DefaultKeyMap(),
		renderer:    renderer,
		summary:     components.NewSummaryPanel(cfg.UI.Theme, profile, 80, theme),
		toasts:      components.NewToastManager(),
		status:      components.NewStatusBar(theme),
		spinner:     components.NewSpinner(),
		help:        help.New(),
		viewport:    viewport.New(80, 20),
		inputs:      [2]textinput.Model{left, right},
		showPreview: cfg.UI.ShowPreview,
		autoStart:   opts.Left != "" && opts.Right != "",
	}

	if m.autoStart {
		m.setFocus(focusList)
	} else {
		m.setFocus(focusLeft)
	}
	m.refresh()
	return m
}

func newPathInput(placeholder, value string) textinput.Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = placeholder
	ti.CharLimit = 4096
	ti.SetValue(value)
	return ti
}

// Init starts the cursor blink, the toast ticker and the archive watcher
// subscription.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, components.ToastTickCmd()}
	if m.watcher != nil {
		cmds = append(cmds, waitForChange(m.watcher.Changes()))
	}
	if m.autoStart {
		cmds = append(cmds, func() tea.Msg { return compareRequestMsg{} })
	}
	return tea.Batch(cmds...)
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Controller returns the comparison controller.
func (m Model) Controller() *controller.Controller {
	return m.ctrl
}

// Toasts returns the notice manager.
func (m Model) Toasts() *components.ToastManager {
	return m.toasts
}

// Selected returns the index of the selected file card.
func (m Model) Selected() int {
	return m.selected
}

// Inputs returns the current archive paths.
func (m Model) Inputs() (left, right string) {
	return m.inputs[0].Value(), m.inputs[1].Value()
}

// setFocus moves key input to f.
func (m *Model) setFocus(f focus) {
	m.focus = f
	for i := range m.inputs {
		if focus(i) == f {
			m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
}

// nextFocus cycles left, right, list.
func (m *Model) nextFocus(backward bool) {
	n := focus(len(m.inputs) + 1)
	if backward {
		m.setFocus((m.focus + n - 1) % n)
		return
	}
	m.setFocus((m.focus + 1) % n)
}
