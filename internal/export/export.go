// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jeranaias/diffly-tui/internal/model"
	"github.com/jeranaias/diffly-tui/internal/util"
)

// Artifact file names.
const (
	DiffFilename    = "diff.json"
	SummaryFilename = "summary.json"
)

// ErrNoResult is returned when exporting before a comparison has succeeded.
var ErrNoResult = errors.New("no comparison result to export")

// =============================================================================
// EXPORT OPTIONS
// =============================================================================

// Options configures export behavior.
type Options struct {
	// OutputDir is the directory where files will be saved.
	// Default: current working directory
	OutputDir string

	// OpenAfterExport opens the file in the default application.
	OpenAfterExport bool

	// Logger records artifacts that could not be opened.
	Logger zerolog.Logger
}

// DefaultOptions returns default export options.
func DefaultOptions() *Options {
	return &Options{
		OutputDir:       ".",
		OpenAfterExport: false,
		Logger:          zerolog.Nop(),
	}
}

// =============================================================================
// EXPORTER
// =============================================================================

// Exporter writes JSON artifacts into one output directory.
type Exporter struct {
	options *Options
	open    func(path string) error
}

// New creates an exporter. Nil options use DefaultOptions.
func New(opts *Options) *Exporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	if opts.OutputDir == "" {
		opts.OutputDir = "."
	}
	return &Exporter{options: opts, open: openFile}
}

// OutputDir returns the directory artifacts are written to.
func (e *Exporter) OutputDir() string {
	return e.options.OutputDir
}

// Export writes data as indented JSON under filename and returns the path.
// The data is not transformed.
func (e *Exporter) Export(data any, filename string) (string, error) {
	content, err := EncodeJSON(data)
	if err != nil {
		return "", fmt.Errorf("export %s: %w", filename, err)
	}

	outputPath := filepath.Join(e.options.OutputDir, sanitizeFilename(filename))
	if err := util.AtomicWriteFile(outputPath, content, 0644); err != nil {
		return "", fmt.Errorf("write %s: %w", outputPath, err)
	}

	if e.options.OpenAfterExport && e.open != nil {
		// The artifact is written; a viewer that fails to start is only logged.
		if err := e.open(outputPath); err != nil {
			e.options.Logger.Warn().Err(err).Str("path", outputPath).Msg("EXPORT_OPEN_FAILED")
		}
	}

	return outputPath, nil
}

// ExportDiff writes the diff object of result as diff.json.
func (e *Exporter) ExportDiff(result *model.ComparisonResult) (string, error) {
	if result == nil {
		return "", ErrNoResult
	}
	return e.Export(result.DiffJSON(), DiffFilename)
}

// ExportSummary writes {"summary": ...} as summary.json.
func (e *Exporter) ExportSummary(result *model.ComparisonResult) (string, error) {
	if result == nil {
		return "", ErrNoResult
	}
	return e.Export(struct {
		Summary string `json:"summary"`
	}{Summary: result.Summary}, SummaryFilename)
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// sanitizeFilename removes or replaces characters that are invalid in filenames.
func sanitizeFilename(s string) string {
	const maxLen = 100
	runes := []rune(strings.TrimSpace(s))
	if len(runes) > maxLen {
		runes = runes[:maxLen]
	}

	result := make([]rune, 0, len(runes))
	for _, r := range runes {
		switch {
		case strings.ContainsRune(`/\:*?"<>|`, r):
			result = append(result, '-')
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			result = append(result, '_')
		case r < 32 || r == 127:
			result = append(result, '-')
		default:
			result = append(result, r)
		}
	}

	name := string(result)
	if strings.Trim(name, ".") == "" {
		return "export.json"
	}
	return name
}

// openFile opens a file in the default application for the OS.
func openFile(path string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", `""`, path)
	case "darwin":
		cmd = exec.Command("open", path)
	case "linux", "freebsd", "openbsd":
		cmd = exec.Command("xdg-open", path)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}
