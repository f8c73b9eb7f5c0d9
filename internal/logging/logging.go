// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging builds the application logger.
//
// The terminal belongs to the TUI, so log output goes to a rotating file.
// The standard library logger is redirected as well, so nothing is printed
// over the interface.
package logging

import (
	"errors"
	"fmt"
	"io"
	stdlog "log"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/jeranaias/diffly-tui/internal/config"
)

// Logger is a zerolog.Logger that owns its output.
type Logger struct {
	zerolog.Logger
	closer io.Closer
}

// Close releases the log file, if any.
func (l *Logger) Close() error {
	if l == nil || l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{Logger: zerolog.Nop()}
}

// Builder assembles a Logger from configuration.
type Builder struct {
	cfg    config.LogConfig
	writer io.Writer
	stdlib bool
}

// NewBuilder creates a builder with default log settings.
func NewBuilder() *Builder {
	return &Builder{cfg: config.Default().Log, stdlib: true}
}

// WithConfig sets the log configuration.
func (b *Builder) WithConfig(cfg config.LogConfig) *Builder {
	b.cfg = cfg
	return b
}

// WithWriter sends output to w instead of the configured file.
func (b *Builder) WithWriter(w io.Writer) *Builder {
	b.writer = w
	return b
}

// WithStdlib controls whether the standard library logger is redirected.
func (b *Builder) WithStdlib(redirect bool) *Builder {
	b.stdlib = redirect
	return b
}

// Build creates the logger. A disabled config yields a no-op logger.
func (b *Builder) Build() (*Logger, error) {
	if !b.cfg.Enabled {
		if b.stdlib {
			stdlog.SetOutput(io.Discard)
		}
		return Nop(), nil
	}

	level, err := ParseLevel(b.cfg.Level)
	if err != nil {
		return nil, err
	}

	out := b.writer
	var closer io.Closer
	if out == nil {
		w, err := fileWriter(b.cfg)
		if err != nil {
			return nil, err
		}
		out, closer = w, w
	}

	zl := zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("app", "diffly").
		Logger()

	if b.stdlib {
		stdlog.SetOutput(zl)
		stdlog.SetFlags(0)
	}

	return &Logger{Logger: zl, closer: closer}, nil
}

// ParseLevel converts a level name to a zerolog level.
func ParseLevel(s string) (zerolog.Level, error) {
	if strings.TrimSpace(s) == "" {
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return zerolog.InfoLevel, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}

func fileWriter(cfg config.LogConfig) (*lumberjack.Logger, error) {
	if cfg.File == "" {
		return nil, errors.New("log file path required when logging is enabled")
	}
	if cfg.MaxSizeMB <= 0 {
		return nil, fmt.Errorf("log max size must be positive, got %d", cfg.MaxSizeMB)
	}
	if err := os.MkdirAll(filepath.Dir(cfg.File), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	return &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		LocalTime:  true,
	}, nil
}
