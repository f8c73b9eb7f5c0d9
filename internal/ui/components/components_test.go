// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/diffly-tui/internal/diff"
	"github.com/jeranaias/diffly-tui/internal/model"
	"github.com/jeranaias/diffly-tui/internal/util"
)

func TestMain(m *testing.M) {
	// Plain output so assertions can match text.
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

func modifiedEntry() model.FileEntry {
	return model.FileEntry{
		Path:         "f.txt",
		Status:       model.StatusModified,
		OldContent:   "a\nb\nc\n",
		NewContent:   "a\nX\nc\n",
		LinesChanged: 2,
	}
}

func findLine(markup, substr string) (string, bool) {
	for _, l := range strings.Split(markup, "\n") {
		if strings.Contains(l, substr) {
			return l, true
		}
	}
	return "", false
}

// =============================================================================
// DIFF RENDERER
// =============================================================================

func TestDiffRenderer_StatusLabels(t *testing.T) {
	r := NewDiffRenderer(DefaultRendererOptions())

	tests := []struct {
		entry model.FileEntry
		want  string
	}{
		{model.FileEntry{Path: "a", Status: model.StatusAdded, NewContent: "x\n"}, "[ADDED]"},
		{model.FileEntry{Path: "b", Status: model.StatusRemoved, OldContent: "x\n"}, "[REMOVED]"},
		{modifiedEntry(), "[MODIFIED]"},
	}
	for _, tt := range tests {
		out, err := r.Render(tt.entry)
		require.NoError(t, err)
		assert.Equal(t, tt.want, out.StatusLabel)
		require.NotNil(t, out.Diff)
	}
}

func TestDiffRenderer_SideBySide(t *testing.T) {
	r := NewDiffRenderer(DefaultRendererOptions())

	out, err := r.Render(modifiedEntry())
	require.NoError(t, err)

	assert.Contains(t, out.Markup, "--- old/f.txt")
	assert.Contains(t, out.Markup, "+++ new/f.txt")
	assert.Contains(t, out.Markup, "@@ -1,3 +1,3 @@")

	row, ok := findLine(out.Markup, "-b")
	require.True(t, ok)
	assert.Contains(t, row, "+X", "removed and added lines share a row")
	assert.Contains(t, row, "│")

	ctx, ok := findLine(out.Markup, " a")
	require.True(t, ok)
	assert.Equal(t, 2, strings.Count(ctx, " a"), "context lines appear on both sides")
}

func TestDiffRenderer_Unified(t *testing.T) {
	opts := DefaultRendererOptions()
	opts.Layout = LayoutUnified
	r := NewDiffRenderer(opts)

	out, err := r.Render(modifiedEntry())
	require.NoError(t, err)

	assert.Contains(t, out.Markup, "--- old/f.txt\n+++ new/f.txt\n@@ -1,3 +1,3 @@")
	assert.Contains(t, out.Markup, "  1   1  a")
	assert.Contains(t, out.Markup, "  2     -b")
	assert.Contains(t, out.Markup, "      2 +X")
	assert.NotContains(t, out.Markup, "│")
}

func TestDiffRenderer_NoChanges(t *testing.T) {
	r := NewDiffRenderer(DefaultRendererOptions())
	entry := model.FileEntry{Path: "same.txt", Status: model.StatusModified, OldContent: "a\n", NewContent: "a\n"}

	out, err := r.Render(entry)
	require.NoError(t, err)

	assert.Equal(t, "[MODIFIED]", out.StatusLabel)
	assert.Empty(t, out.Diff.Hunks)
	assert.Equal(t, "No textual changes", out.Markup)
}

func TestDiffRenderer_AddedFile(t *testing.T) {
	r := NewDiffRenderer(DefaultRendererOptions())
	entry := model.FileEntry{Path: "new.txt", Status: model.StatusAdded, NewContent: "one\ntwo\n"}

	out, err := r.Render(entry)
	require.NoError(t, err)

	assert.Equal(t, "new", out.Diff.Stats.FileMode)
	assert.Equal(t, 2, out.Diff.Stats.Additions)
	assert.Contains(t, out.Markup, "+one")
	assert.Contains(t, out.Markup, "+two")
}

func TestDiffRenderer_FitsWidth(t *testing.T) {
	long := strings.Repeat("x", 500)
	entry := model.FileEntry{
		Path:       "long.txt",
		Status:     model.StatusModified,
		OldContent: "short\n" + long + "\n",
		NewContent: "short\n" + long + "y\n",
	}

	for _, layout := range []Layout{LayoutSideBySide, LayoutUnified} {
		t.Run(string(layout), func(t *testing.T) {
			opts := DefaultRendererOptions()
			opts.Layout = layout
			opts.Width = 60
			r := NewDiffRenderer(opts)

			out, err := r.Render(entry)
			require.NoError(t, err)

			for _, l := range strings.Split(out.Markup, "\n") {
				assert.LessOrEqual(t, util.StringWidth(l), 60, "line %q", l)
			}
			assert.Contains(t, out.Markup, util.Ellipsis)
		})
	}
}

func TestDiffRenderer_MinimumWidth(t *testing.T) {
	opts := DefaultRendererOptions()
	opts.Width = 10
	r := NewDiffRenderer(opts)

	out, err := r.Render(modifiedEntry())
	require.NoError(t, err)
	for _, l := range strings.Split(out.Markup, "\n") {
		assert.LessOrEqual(t, util.StringWidth(l), MinRenderWidth)
	}
}

func TestDiffRenderer_Intraline(t *testing.T) {
	entry := model.FileEntry{
		Path:       "greet.txt",
		Status:     model.StatusModified,
		OldContent: "hello world\n",
		NewContent: "hello there\n",
	}

	plain := NewDiffRenderer(DefaultRendererOptions())
	out, err := plain.Render(entry)
	require.NoError(t, err)
	for _, l := range out.Diff.Hunks[0].Lines {
		assert.Empty(t, l.Segments, "line-level granularity by default")
	}

	opts := DefaultRendererOptions()
	opts.Intraline = true
	r := NewDiffRenderer(opts)

	out, err = r.Render(entry)
	require.NoError(t, err)

	var marked int
	for _, l := range out.Diff.Hunks[0].Lines {
		if l.Type != diff.DiffLineContext && len(l.Segments) > 0 {
			marked++
		}
	}
	assert.Equal(t, 2, marked)
	assert.Contains(t, out.Markup, "-hello world")
	assert.Contains(t, out.Markup, "+hello there")
}

func TestDiffRenderer_ExpandsTabs(t *testing.T) {
	opts := DefaultRendererOptions()
	opts.Layout = LayoutUnified
	r := NewDiffRenderer(opts)

	out, err := r.Render(model.FileEntry{Path: "t.go", Status: model.StatusAdded, NewContent: "\tx\n"})
	require.NoError(t, err)

	assert.NotContains(t, out.Markup, "\t")
	assert.Contains(t, out.Markup, "+    x")
}

func TestDiffRenderer_Options(t *testing.T) {
	r := NewDiffRenderer(RendererOptions{Layout: "bogus", ContextLines: -1})

	opts := r.Options()
	assert.Equal(t, LayoutSideBySide, opts.Layout)
	assert.Equal(t, diff.DefaultContextLines, opts.ContextLines)
	assert.Equal(t, 100, opts.Width)

	zero := NewDiffRenderer(RendererOptions{ContextLines: 0})
	assert.Equal(t, 0, zero.Options().ContextLines)

	r.SetLayout(LayoutUnified)
	assert.Equal(t, LayoutUnified, r.Options().Layout)
	r.SetLayout("nope")
	assert.Equal(t, LayoutSideBySide, r.Options().Layout)

	r.SetWidth(0)
	assert.Equal(t, 100, r.Options().Width)
	r.SetWidth(72)
	assert.Equal(t, 72, r.Options().Width)
}

func TestDiffRenderer_Header(t *testing.T) {
	r := NewDiffRenderer(DefaultRendererOptions())

	entry := model.FileEntry{Path: "src/a.go", Status: model.StatusModified, LinesChanged: 3}
	h := r.Header(entry, true, false)
	assert.Contains(t, h, "▶")
	assert.Contains(t, h, "[MODIFIED] src/a.go (lines changed: 3)")
	assert.Contains(t, h, "(enter to expand)")

	added := model.FileEntry{Path: "b.txt", Status: model.StatusAdded}
	h = r.Header(added, false, true)
	assert.Contains(t, h, "▼ [ADDED] b.txt")
	assert.NotContains(t, h, "lines changed")
	assert.Contains(t, h, "(enter to collapse)")
}

func TestDiffRenderer_RenderPreview(t *testing.T) {
	r := NewDiffRenderer(DefaultRendererOptions())

	assert.Empty(t, r.RenderPreview(model.FileEntry{Path: "x"}))

	entry := model.FileEntry{Path: "x", Preview: []string{"@@ -1 +1 @@", "-a", "+b", " c"}}
	assert.Equal(t, "@@ -1 +1 @@\n-a\n+b\n c", r.RenderPreview(entry))
}

func TestFormatLineNumber(t *testing.T) {
	assert.Equal(t, "   ", formatLineNumber(0, 3))
	assert.Equal(t, "  7", formatLineNumber(7, 3))
	assert.Equal(t, "1234", formatLineNumber(1234, 3))
}

func TestLineNumberWidth(t *testing.T) {
	d := &diff.Diff{Hunks: []diff.DiffHunk{{OldStart: 990, OldCount: 20, NewStart: 1, NewCount: 1}}}
	assert.Equal(t, 4, lineNumberWidth(d))
	assert.Equal(t, 3, lineNumberWidth(&diff.Diff{}))
}

func TestRenderSegments_Fit(t *testing.T) {
	base := lipgloss.NewStyle()
	got := renderSegments("abcdef", []diff.Segment{{Start: 2, End: 4}}, base, base, 8)
	assert.Equal(t, "abcdef  ", got)

	got = renderSegments("abcdefghij", nil, base, base, 5)
	assert.Equal(t, "abcd"+util.Ellipsis, got)
}

// =============================================================================
// HIGHLIGHTER
// =============================================================================

func TestHighlighter(t *testing.T) {
	plain := NewHighlighter(DefaultHighlightStyle, termenv.Ascii)
	assert.False(t, plain.Enabled())
	assert.Equal(t, "package main", plain.Highlight("main.go", "package main"))

	color := NewHighlighter(DefaultHighlightStyle, termenv.TrueColor)
	require.True(t, color.Enabled())
	out := color.Highlight("main.go", "package main")
	assert.Contains(t, out, "\x1b[")
	assert.NotContains(t, out, "\n")

	assert.Equal(t, "plain text", color.Highlight("notes.unknownext", "plain text"))

	var nilHighlighter *Highlighter
	assert.False(t, nilHighlighter.Enabled())
	assert.Equal(t, "x", nilHighlighter.Highlight("a.go", "x"))
}

func TestHighlighter_Profiles(t *testing.T) {
	assert.NotNil(t, formatterFor(termenv.TrueColor))
	assert.NotNil(t, formatterFor(termenv.ANSI256))
	assert.NotNil(t, formatterFor(termenv.ANSI))
	assert.Nil(t, formatterFor(termenv.Ascii))

	// Unknown style names fall back.
	assert.NotNil(t, NewHighlighter("no-such-style", termenv.ANSI256).style)
}

func TestLanguage(t *testing.T) {
	assert.Equal(t, "Go", Language("cmd/main.go"))
	assert.Equal(t, "", Language("README.unknownext"))
}

// =============================================================================
// TOASTS
// =============================================================================

func newTestToastManager(now *time.Time) *ToastManager {
	m := NewToastManager()
	m.now = func() time.Time { return *now }
	return m
}

func TestToastManager_AddAndLimit(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	m := newTestToastManager(&now)

	for i := 0; i < MaxToasts+2; i++ {
		m.AddStatus("msg")
	}
	last := m.AddError("latest")

	toasts := m.Toasts()
	require.Len(t, toasts, MaxToasts)
	assert.Equal(t, last, toasts[0].ID, "newest first")
	assert.Equal(t, ToastKindError, toasts[0].Kind)
}

func TestToastManager_Tick(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	m := newTestToastManager(&now)

	m.AddSuccess("exported")
	m.AddWarning("archive changed")
	m.AddError("connection refused")

	now = now.Add(5 * time.Second)
	remaining := m.Tick()
	require.Len(t, remaining, 2)
	assert.Equal(t, ToastKindError, remaining[0].Kind)
	assert.Equal(t, ToastKindWarning, remaining[1].Kind)

	now = now.Add(2 * time.Second)
	require.Len(t, m.Tick(), 1)

	now = now.Add(2 * time.Second)
	assert.Empty(t, m.Tick())
}

func TestToastManager_DismissAndClear(t *testing.T) {
	now := time.Now()
	m := newTestToastManager(&now)

	assert.False(t, m.Dismiss())

	m.AddStatus("one")
	m.AddStatus("two")
	assert.True(t, m.Dismiss())
	require.Equal(t, 1, m.Len())
	assert.Equal(t, "one", m.Toasts()[0].Message)

	m.Clear()
	assert.Equal(t, 0, m.Len())
}

func TestToast_TimeRemaining(t *testing.T) {
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	toast := Toast{CreatedAt: created, Duration: 4 * time.Second}

	assert.Equal(t, 3*time.Second, toast.TimeRemaining(created.Add(time.Second)))
	assert.Equal(t, time.Duration(0), toast.TimeRemaining(created.Add(time.Minute)))
	assert.False(t, toast.IsExpired(created.Add(3*time.Second)))
	assert.True(t, toast.IsExpired(created.Add(4*time.Second)))
}

func TestRenderToast(t *testing.T) {
	now := time.Now()
	toast := Toast{Message: "Comparison failed", Kind: ToastKindError, CreatedAt: now, Duration: ErrorToastDuration}

	out := RenderToast(toast, 80, now)
	assert.Contains(t, out, "[X]")
	assert.Contains(t, out, "Comparison failed")
	assert.Contains(t, out, "[x] dismiss")

	assert.Empty(t, RenderToastStack(nil, 80, now))
	assert.Contains(t, RenderToastStack([]Toast{toast}, 80, now), "Comparison failed")
}

func TestWrapToastText(t *testing.T) {
	assert.Equal(t, "one two\nthree", wrapToastText("one two three", 8))
	assert.Equal(t, "unchanged", wrapToastText("unchanged", 0))
	assert.Equal(t, "", wrapToastText("", 10))
}

// =============================================================================
// SPINNER, STATUS BAR, SUMMARY
// =============================================================================

func TestSpinner(t *testing.T) {
	s := NewSpinner()
	assert.False(t, s.IsActive())
	assert.Empty(t, s.View())

	cmd := s.Start()
	assert.NotNil(t, cmd)
	assert.True(t, s.IsActive())
	assert.Contains(t, s.View(), ComparingMessage)

	s.Stop()
	assert.Empty(t, s.View())
}

func TestFormatElapsed(t *testing.T) {
	assert.Equal(t, "1.5s", formatElapsed(1500*time.Millisecond))
	assert.Equal(t, "1m05s", formatElapsed(65*time.Second))
}

func TestStatusBar(t *testing.T) {
	sb := NewStatusBar(nil)
	sb.SetState("Ready")

	enabled := key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "export diff"))
	disabled := key.NewBinding(key.WithKeys("E"), key.WithHelp("E", "expand all"))
	disabled.SetEnabled(false)
	sb.SetBindings(enabled, disabled)

	assert.Equal(t, []string{"d export diff"}, sb.Hints())

	sb.SetWidth(50)
	view := sb.View()
	assert.Equal(t, 50, util.StringWidth(view))
	assert.True(t, strings.HasPrefix(view, " Ready "))
	assert.Contains(t, view, "d export diff")

	sb.SetWidth(4)
	assert.Equal(t, 4, util.StringWidth(sb.View()))
}

func TestSummaryPanel(t *testing.T) {
	p := NewSummaryPanel("auto", termenv.Ascii, 80, nil)

	assert.Empty(t, p.Render(""))
	assert.Empty(t, p.Render("   \n"))

	out := p.Render("Three files changed between the archives.")
	assert.Contains(t, out, "Summary")
	assert.Contains(t, out, "Three files changed")
}
