// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/termenv"

	"github.com/jeranaias/diffly-tui/internal/diff"
	"github.com/jeranaias/diffly-tui/internal/model"
	"github.com/jeranaias/diffly-tui/internal/ui/styles"
	"github.com/jeranaias/diffly-tui/internal/util"
)

// =============================================================================
// RENDERER OPTIONS
// =============================================================================

// Layout selects how a file diff is laid out.
type Layout string

const (
	// LayoutSideBySide shows old and new lines in two paired columns.
	LayoutSideBySide Layout = "side-by-side"
	// LayoutUnified shows a single column with +/- prefixes.
	LayoutUnified Layout = "unified"
)

// MinRenderWidth is the narrowest width the renderer lays out for.
const MinRenderWidth = 40

// RendererOptions configures a DiffRenderer.
type RendererOptions struct {
	Layout          Layout
	ContextLines    int
	SyntaxHighlight bool
	Intraline       bool
	Width           int
	HighlightStyle  string
	Profile         termenv.Profile
	Theme           *styles.Theme
}

// DefaultRendererOptions returns side-by-side, line-level options.
func DefaultRendererOptions() RendererOptions {
	return RendererOptions{
		Layout:         LayoutSideBySide,
		ContextLines:   diff.DefaultContextLines,
		Width:          100,
		HighlightStyle: DefaultHighlightStyle,
		Profile:        termenv.Ascii,
	}
}

// RenderedFile is the display content of one file entry.
type RenderedFile struct {
	StatusLabel string
	Diff        *diff.Diff
	Markup      string
}

// =============================================================================
// DIFF RENDERER
// =============================================================================

// DiffRenderer turns file entries into styled diff markup.
// Nothing is cached; every call recomputes the patch.
type DiffRenderer struct {
	opts        RendererOptions
	theme       *styles.Theme
	highlighter *Highlighter
}

// NewDiffRenderer creates a renderer. Negative context, unknown layouts and
// unset width or style fall back to defaults; zero context is kept.
func NewDiffRenderer(opts RendererOptions) *DiffRenderer {
	defaults := DefaultRendererOptions()
	if opts.Layout != LayoutUnified {
		opts.Layout = LayoutSideBySide
	}
	if opts.ContextLines < 0 {
		opts.ContextLines = defaults.ContextLines
	}
	if opts.Width <= 0 {
		opts.Width = defaults.Width
	}
	if opts.HighlightStyle == "" {
		opts.HighlightStyle = defaults.HighlightStyle
	}
	theme := opts.Theme
	if theme == nil {
		theme = styles.NewTheme()
	}

	r := &DiffRenderer{opts: opts, theme: theme}
	if opts.SyntaxHighlight {
		r.highlighter = NewHighlighter(opts.HighlightStyle, opts.Profile)
	}
	return r
}

// Options returns the effective options.
func (r *DiffRenderer) Options() RendererOptions {
	return r.opts
}

// SetWidth updates the available width.
func (r *DiffRenderer) SetWidth(width int) {
	if width > 0 {
		r.opts.Width = width
	}
}

// SetLayout switches between side-by-side and unified.
func (r *DiffRenderer) SetLayout(layout Layout) {
	if layout != LayoutUnified {
		layout = LayoutSideBySide
	}
	r.opts.Layout = layout
}

// width returns the usable width, never below MinRenderWidth.
func (r *DiffRenderer) width() int {
	if r.opts.Width < MinRenderWidth {
		return MinRenderWidth
	}
	return r.opts.Width
}

// Render computes the patch for an entry and renders it.
func (r *DiffRenderer) Render(entry model.FileEntry) (RenderedFile, error) {
	out := RenderedFile{StatusLabel: entry.Status.Label()}

	d, err := diff.ComputeDiff(entry.Path, entry.OldContent, entry.NewContent, r.opts.ContextLines)
	if err != nil {
		return out, fmt.Errorf("render %s: %w", entry.Path, err)
	}
	if r.opts.Intraline {
		for i := range d.Hunks {
			diff.HighlightIntraline(&d.Hunks[i])
		}
	}

	out.Diff = d
	out.Markup = r.RenderDiff(d)
	return out, nil
}

// RenderDiff renders a structured diff in the configured layout.
func (r *DiffRenderer) RenderDiff(d *diff.Diff) string {
	if d == nil || len(d.Hunks) == 0 {
		return r.theme.Hint.Render("No textual changes")
	}

	numWidth := lineNumberWidth(d)
	var sb strings.Builder

	sb.WriteString(r.renderFileHeader(d))
	for i := range d.Hunks {
		sb.WriteString("\n")
		sb.WriteString(r.theme.DiffHunk.Render(util.TruncateWidth(d.Hunks[i].Header, r.width())))
		if r.opts.Layout == LayoutUnified {
			r.renderUnifiedHunk(&sb, d.FilePath, &d.Hunks[i], numWidth)
		} else {
			r.renderSideBySideHunk(&sb, d.FilePath, &d.Hunks[i], numWidth)
		}
	}

	return sb.String()
}

// renderFileHeader renders the ---/+++ labels.
func (r *DiffRenderer) renderFileHeader(d *diff.Diff) string {
	if r.opts.Layout == LayoutUnified {
		return r.theme.DiffFileHeader.Render("--- "+d.OldLabel) + "\n" +
			r.theme.DiffFileHeader.Render("+++ "+d.NewLabel)
	}
	half, _ := r.columns()
	left := util.FitWidth("--- "+d.OldLabel, half)
	right := util.TruncateWidth("+++ "+d.NewLabel, half)
	return r.theme.DiffFileHeader.Render(left) + r.theme.DiffGutter.Render(" │ ") +
		r.theme.DiffFileHeader.Render(right)
}

// columns returns the width of each side and of the separator.
func (r *DiffRenderer) columns() (half, sep int) {
	sep = 3
	half = (r.width() - sep) / 2
	return half, sep
}

// =============================================================================
// UNIFIED LAYOUT
// =============================================================================

func (r *DiffRenderer) renderUnifiedHunk(sb *strings.Builder, path string, h *diff.DiffHunk, numWidth int) {
	// old number, space, new number, space, prefix
	contentWidth := r.width() - 2*numWidth - 3
	if contentWidth < 1 {
		contentWidth = 1
	}

	for i := range h.Lines {
		line := &h.Lines[i]
		sb.WriteString("\n")
		sb.WriteString(r.theme.DiffLineNumber.Render(formatLineNumber(line.OldLine, numWidth)))
		sb.WriteString(" ")
		sb.WriteString(r.theme.DiffLineNumber.Render(formatLineNumber(line.NewLine, numWidth)))
		sb.WriteString(" ")
		sb.WriteString(r.renderLine(path, line, contentWidth))
		if line.NoNewline {
			sb.WriteString("\n")
			sb.WriteString(r.theme.Hint.Render(`\ No newline at end of file`))
		}
	}
}

// =============================================================================
// SIDE-BY-SIDE LAYOUT
// =============================================================================

func (r *DiffRenderer) renderSideBySideHunk(sb *strings.Builder, path string, h *diff.DiffHunk, numWidth int) {
	half, _ := r.columns()
	// number, space, prefix
	contentWidth := half - numWidth - 2
	if contentWidth < 1 {
		contentWidth = 1
	}

	for _, pair := range diff.PairLines(h.Lines) {
		sb.WriteString("\n")
		sb.WriteString(r.renderSide(path, pair.Left, true, numWidth, contentWidth))
		sb.WriteString(r.theme.DiffGutter.Render(" │ "))
		sb.WriteString(r.renderSide(path, pair.Right, false, numWidth, contentWidth))
	}
}

// renderSide renders one column of a paired row. A nil line renders as an
// empty filler of the full column width.
func (r *DiffRenderer) renderSide(path string, line *diff.DiffLine, old bool, numWidth, contentWidth int) string {
	if line == nil {
		return r.theme.DiffEmptySide.Render(strings.Repeat(" ", numWidth+1+contentWidth+1))
	}
	num := line.NewLine
	if old {
		num = line.OldLine
	}
	return r.theme.DiffLineNumber.Render(formatLineNumber(num, numWidth)) + " " +
		r.renderLine(path, line, contentWidth)
}

// =============================================================================
// LINE RENDERING
// =============================================================================

// renderLine renders the prefix and content of a line padded to width.
func (r *DiffRenderer) renderLine(path string, line *diff.DiffLine, width int) string {
	base, emphasis := r.lineStyles(line.Type)
	prefix := base.Render(line.Type.Prefix())

	if len(line.Segments) > 0 {
		return prefix + renderSegments(line.Content, line.Segments, base, emphasis, width)
	}

	text := util.FitWidth(util.ExpandTabs(line.Content), width)
	if r.highlighter.Enabled() {
		return prefix + r.highlighter.Highlight(path, text)
	}
	return prefix + base.Render(text)
}

// lineStyles returns the base and emphasis styles for a line type.
func (r *DiffRenderer) lineStyles(t diff.DiffLineType) (lipgloss.Style, lipgloss.Style) {
	switch t {
	case diff.DiffLineAdded:
		return r.theme.DiffAdded, r.theme.DiffAddedEmphasis
	case diff.DiffLineRemoved:
		return r.theme.DiffRemoved, r.theme.DiffRemovedEmphasis
	default:
		return r.theme.DiffContext, r.theme.DiffContext
	}
}

// styledRune is one display rune and whether it is inside a changed segment.
type styledRune struct {
	r        rune
	emphasis bool
}

// renderSegments renders content with changed rune ranges emphasized, fitted
// to exactly width columns.
func renderSegments(content string, segs []diff.Segment, base, emphasis lipgloss.Style, width int) string {
	runes := expandSegments(content, segs)
	runes = fitRunes(runes, width)

	var sb strings.Builder
	var run strings.Builder
	current := false
	flush := func() {
		if run.Len() == 0 {
			return
		}
		if current {
			sb.WriteString(emphasis.Render(run.String()))
		} else {
			sb.WriteString(base.Render(run.String()))
		}
		run.Reset()
	}

	for i, sr := range runes {
		if i > 0 && sr.emphasis != current {
			flush()
		}
		current = sr.emphasis
		run.WriteRune(sr.r)
	}
	flush()

	return sb.String()
}

// expandSegments marks every rune of content and expands tabs, keeping the
// mark of the tab on its spaces.
func expandSegments(content string, segs []diff.Segment) []styledRune {
	var out []styledRune
	col := 0
	for i, c := range []rune(content) {
		marked := inSegment(i, segs)
		if c == '\t' {
			n := util.TabWidth - col%util.TabWidth
			for j := 0; j < n; j++ {
				out = append(out, styledRune{r: ' ', emphasis: marked})
			}
			col += n
			continue
		}
		out = append(out, styledRune{r: c, emphasis: marked})
		col += runewidth.RuneWidth(c)
	}
	return out
}

func inSegment(i int, segs []diff.Segment) bool {
	for _, s := range segs {
		if i >= s.Start && i < s.End {
			return true
		}
	}
	return false
}

// fitRunes truncates with an ellipsis or pads with spaces to width columns.
func fitRunes(runes []styledRune, width int) []styledRune {
	total := 0
	for _, sr := range runes {
		total += runewidth.RuneWidth(sr.r)
	}

	if total > width {
		limit := width - runewidth.StringWidth(util.Ellipsis)
		cut := make([]styledRune, 0, len(runes))
		used := 0
		for _, sr := range runes {
			w := runewidth.RuneWidth(sr.r)
			if used+w > limit {
				break
			}
			cut = append(cut, sr)
			used += w
		}
		for _, e := range util.Ellipsis {
			cut = append(cut, styledRune{r: e})
			used += runewidth.RuneWidth(e)
		}
		runes, total = cut, used
	}

	for ; total < width; total++ {
		runes = append(runes, styledRune{r: ' '})
	}
	return runes
}

// lineNumberWidth returns the column width needed for the largest line number.
func lineNumberWidth(d *diff.Diff) int {
	maxLine := 0
	for _, h := range d.Hunks {
		if end := h.OldStart + h.OldCount; end > maxLine {
			maxLine = end
		}
		if end := h.NewStart + h.NewCount; end > maxLine {
			maxLine = end
		}
	}
	w := len(strconv.Itoa(maxLine))
	if w < 3 {
		w = 3
	}
	return w
}

// formatLineNumber right-aligns n, leaving zero blank.
func formatLineNumber(n, width int) string {
	if n <= 0 {
		return strings.Repeat(" ", width)
	}
	s := strconv.Itoa(n)
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}

// =============================================================================
// CARD HEADER AND PREVIEW
// =============================================================================

// Header renders the title line of a file card.
func (r *DiffRenderer) Header(entry model.FileEntry, collapsed, selected bool) string {
	arrow := "▼"
	action := "collapse"
	if collapsed {
		arrow = "▶"
		action = "expand"
	}

	arrowStyle := r.theme.Hint
	pathStyle := r.theme.Path
	if selected {
		arrowStyle = r.theme.Title
		pathStyle = r.theme.CardTitle
	}

	parts := []string{
		arrowStyle.Render(arrow),
		r.labelStyle(entry.Status).Render(entry.Status.Label()),
		pathStyle.Render(entry.Path),
	}
	if entry.Status == model.StatusModified {
		parts = append(parts, r.theme.Subtitle.Render(fmt.Sprintf("(lines changed: %d)", entry.LinesChanged)))
	}
	parts = append(parts, r.theme.Hint.Render("(enter to "+action+")"))

	return strings.Join(parts, " ")
}

func (r *DiffRenderer) labelStyle(s model.Status) lipgloss.Style {
	switch s {
	case model.StatusAdded:
		return r.theme.LabelAdded
	case model.StatusRemoved:
		return r.theme.LabelRemoved
	default:
		return r.theme.LabelModified
	}
}

// RenderPreview renders the service's preview lines colored by prefix.
// Entries without a preview render as an empty string.
func (r *DiffRenderer) RenderPreview(entry model.FileEntry) string {
	if len(entry.Preview) == 0 {
		return ""
	}

	width := r.width()
	lines := make([]string, 0, len(entry.Preview))
	for _, l := range entry.Preview {
		text := util.TruncateWidth(util.ExpandTabs(l), width)
		switch {
		case strings.HasPrefix(l, "+++"), strings.HasPrefix(l, "---"):
			lines = append(lines, r.theme.DiffFileHeader.Render(text))
		case strings.HasPrefix(l, "@@"):
			lines = append(lines, r.theme.DiffHunk.Render(text))
		case strings.HasPrefix(l, "+"):
			lines = append(lines, r.theme.DiffAdded.Render(text))
		case strings.HasPrefix(l, "-"):
			lines = append(lines, r.theme.DiffRemoved.Render(text))
		default:
			lines = append(lines, r.theme.DiffContext.Render(text))
		}
	}
	return strings.Join(lines, "\n")
}
