// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading for the diffly viewer.
//
// Supports both TOML and JSON configuration formats, with defaults,
// environment variable overrides, and validation.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - ServiceConfig: Comparison service endpoint and limits
//   - ExportConfig: Output directory for JSON artifacts
//   - UIConfig: Layout, context lines and highlighting
//   - LogConfig: Rotating log file settings
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (DIFFLY_*)
//   - ~/.diffly/config.toml
//   - ~/.diffly/config.json
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	timeout := cfg.Timeout()
package config
