// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"
	"github.com/muesli/termenv"
)

// DefaultHighlightStyle is the chroma style used when none is configured.
const DefaultHighlightStyle = "monokai"

// =============================================================================
// SYNTAX HIGHLIGHTING (Chroma-based)
// =============================================================================

// Highlighter colors single diff lines by the language of their file.
// A nil formatter disables highlighting.
type Highlighter struct {
	style     *chroma.Style
	formatter chroma.Formatter
}

// NewHighlighter creates a highlighter for the given chroma style and color
// profile. The Ascii profile yields a highlighter that returns text unchanged.
func NewHighlighter(styleName string, profile termenv.Profile) *Highlighter {
	style := chromaStyles.Get(styleName)
	if style == nil {
		style = chromaStyles.Fallback
	}
	return &Highlighter{
		style:     style,
		formatter: formatterFor(profile),
	}
}

// formatterFor picks the chroma terminal formatter matching the profile.
func formatterFor(profile termenv.Profile) chroma.Formatter {
	var name string
	switch profile {
	case termenv.TrueColor:
		name = "terminal16m"
	case termenv.ANSI256:
		name = "terminal256"
	case termenv.ANSI:
		name = "terminal16"
	default:
		return nil
	}
	if f := formatters.Get(name); f != nil {
		return f
	}
	return formatters.Fallback
}

// Enabled reports whether the highlighter produces colored output.
func (h *Highlighter) Enabled() bool {
	return h != nil && h.formatter != nil
}

// Lexer returns the lexer for a file path, or nil when the type is unknown.
func Lexer(path string) chroma.Lexer {
	lexer := lexers.Match(filepath.Base(path))
	if lexer == nil {
		return nil
	}
	return chroma.Coalesce(lexer)
}

// Language returns the lexer name for a path, or "" when unknown.
func Language(path string) string {
	if lexer := Lexer(path); lexer != nil {
		return lexer.Config().Name
	}
	return ""
}

// Highlight colors one line of the file at path. Unknown file types and
// tokenizer errors return the line unchanged.
func (h *Highlighter) Highlight(path, line string) string {
	if !h.Enabled() || line == "" {
		return line
	}
	lexer := Lexer(path)
	if lexer == nil {
		return line
	}

	iterator, err := lexer.Tokenise(nil, line)
	if err != nil {
		return line
	}

	var buf strings.Builder
	if err := h.formatter.Format(&buf, h.style, iterator); err != nil {
		return line
	}

	// Lexers append a newline token when the input lacks one.
	return strings.ReplaceAll(buf.String(), "\n", "")
}
