// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/diffly-tui/internal/config"
)

func TestBuild_WritesStructuredEvents(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewBuilder().
		WithConfig(config.LogConfig{Enabled: true, Level: "info", File: "unused", MaxSizeMB: 1}).
		WithWriter(&buf).
		WithStdlib(false).
		Build()
	require.NoError(t, err)

	logger.Info().Str("session", "abc").Int("files", 3).Msg("COMPARE_COMPLETE")
	logger.Debug().Msg("HIDDEN")

	var event map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &event))
	assert.Equal(t, "COMPARE_COMPLETE", event["message"])
	assert.Equal(t, "abc", event["session"])
	assert.Equal(t, float64(3), event["files"])
	assert.Equal(t, "diffly", event["app"])
	assert.NotContains(t, buf.String(), "HIDDEN", "debug is below info")
}

func TestBuild_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "diffly.log")
	logger, err := NewBuilder().
		WithConfig(config.LogConfig{Enabled: true, Level: "debug", File: path, MaxSizeMB: 1, MaxBackups: 1}).
		WithStdlib(false).
		Build()
	require.NoError(t, err)

	logger.Debug().Msg("EXPORT_COMPLETE")
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "EXPORT_COMPLETE"))
}

func TestBuild_Disabled(t *testing.T) {
	logger, err := NewBuilder().
		WithConfig(config.LogConfig{Enabled: false}).
		WithStdlib(false).
		Build()
	require.NoError(t, err)

	assert.Equal(t, zerolog.Disabled, logger.GetLevel())
	assert.NoError(t, logger.Close())
}

func TestBuild_InvalidConfig(t *testing.T) {
	_, err := NewBuilder().
		WithConfig(config.LogConfig{Enabled: true, Level: "shouting", File: "x.log", MaxSizeMB: 1}).
		WithStdlib(false).
		Build()
	assert.Error(t, err)

	_, err = NewBuilder().
		WithConfig(config.LogConfig{Enabled: true, Level: "info", File: "", MaxSizeMB: 1}).
		WithStdlib(false).
		Build()
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected zerolog.Level
		wantErr  bool
	}{
		{"", zerolog.InfoLevel, false},
		{"debug", zerolog.DebugLevel, false},
		{"WARN", zerolog.WarnLevel, false},
		{" error ", zerolog.ErrorLevel, false},
		{"nope", zerolog.InfoLevel, true},
	}

	for _, tt := range tests {
		level, err := ParseLevel(tt.input)
		if tt.wantErr {
			assert.Error(t, err, tt.input)
			continue
		}
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.expected, level, tt.input)
	}
}
