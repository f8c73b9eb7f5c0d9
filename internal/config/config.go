// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	"github.com/jeranaias/diffly-tui/internal/util"
)

// =============================================================================
// CONFIG TYPES
// =============================================================================

// Config is the complete viewer configuration.
type Config struct {
	Service ServiceConfig `toml:"service" json:"service"`
	Export  ExportConfig  `toml:"export" json:"export"`
	UI      UIConfig      `toml:"ui" json:"ui"`
	Log     LogConfig     `toml:"log" json:"log"`
}

// ServiceConfig points at the comparison service.
type ServiceConfig struct {
	// URL is the full compare endpoint
	URL string `toml:"url" json:"url" validate:"required,url"`

	// TimeoutSecs bounds the whole request; 0 waits indefinitely
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs" validate:"gte=0"`

	// MaxResponseMB caps the size of a response body
	MaxResponseMB int `toml:"max_response_mb" json:"max_response_mb" validate:"gte=1,lte=1024"`
}

// ExportConfig controls where JSON artifacts are written.
type ExportConfig struct {
	OutputDir       string `toml:"output_dir" json:"output_dir" validate:"required"`
	OpenAfterExport bool   `toml:"open_after_export" json:"open_after_export"`
}

// UIConfig holds display preferences.
type UIConfig struct {
	// Layout is "side-by-side" or "unified"
	Layout string `toml:"layout" json:"layout" validate:"oneof=side-by-side unified"`

	// ContextLines is the unchanged lines shown around each change
	ContextLines int `toml:"context_lines" json:"context_lines" validate:"gte=0,lte=1000"`

	SyntaxHighlight bool `toml:"syntax_highlight" json:"syntax_highlight"`
	Intraline       bool `toml:"intraline" json:"intraline"`

	// Theme is "auto", "dark" or "light"
	Theme string `toml:"theme" json:"theme" validate:"oneof=auto dark light"`

	// ShowPreview starts with the service preview pane visible
	ShowPreview bool `toml:"show_preview" json:"show_preview"`

	// WatchArchives reports changes to the compared archives
	WatchArchives bool `toml:"watch_archives" json:"watch_archives"`
}

// LogConfig controls the rotating log file.
type LogConfig struct {
	Enabled    bool   `toml:"enabled" json:"enabled"`
	Level      string `toml:"level" json:"level" validate:"oneof=trace debug info warn error"`
	File       string `toml:"file" json:"file" validate:"required_if=Enabled true"`
	MaxSizeMB  int    `toml:"max_size_mb" json:"max_size_mb" validate:"gte=1"`
	MaxBackups int    `toml:"max_backups" json:"max_backups" validate:"gte=0"`
}

// Layout names.
const (
	LayoutSideBySide = "side-by-side"
	LayoutUnified    = "unified"
)

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Service: ServiceConfig{
			URL:           "http://127.0.0.1:8000/compare",
			TimeoutSecs:   0,
			MaxResponseMB: 64,
		},
		Export: ExportConfig{
			OutputDir:       ".",
			OpenAfterExport: false,
		},
		UI: UIConfig{
			Layout:          LayoutSideBySide,
			ContextLines:    4,
			SyntaxHighlight: true,
			Intraline:       false,
			Theme:           "auto",
			ShowPreview:     false,
			WatchArchives:   true,
		},
		Log: LogConfig{
			Enabled:    true,
			Level:      "info",
			File:       defaultLogFile(),
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

func defaultLogFile() string {
	dir, err := ConfigDir()
	if err != nil {
		return "diffly.log"
	}
	return filepath.Join(dir, "logs", "diffly.log")
}

// SetDefaults fills zero values left by a partial config file.
// ContextLines is not touched because zero is a valid setting.
func (c *Config) SetDefaults() {
	d := Default()

	if c.Service.URL == "" {
		c.Service.URL = d.Service.URL
	}
	if c.Service.MaxResponseMB == 0 {
		c.Service.MaxResponseMB = d.Service.MaxResponseMB
	}
	if c.Export.OutputDir == "" {
		c.Export.OutputDir = d.Export.OutputDir
	}
	if c.UI.Layout == "" {
		c.UI.Layout = d.UI.Layout
	}
	if c.UI.Theme == "" {
		c.UI.Theme = d.UI.Theme
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Log.File == "" {
		c.Log.File = d.Log.File
	}
	if c.Log.MaxSizeMB == 0 {
		c.Log.MaxSizeMB = d.Log.MaxSizeMB
	}

	c.UI.Layout = strings.ToLower(c.UI.Layout)
	c.UI.Theme = strings.ToLower(c.UI.Theme)
	c.Log.Level = strings.ToLower(c.Log.Level)
}

// Timeout returns the request timeout. Zero means none.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Service.TimeoutSecs) * time.Second
}

// MaxResponseBytes returns the response size cap in bytes.
func (c *Config) MaxResponseBytes() int64 {
	return int64(c.Service.MaxResponseMB) << 20
}

// =============================================================================
// PATHS
// =============================================================================

// ConfigDir returns the configuration directory (~/.diffly).
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".diffly"), nil
}

// ConfigPathTOML returns the path of the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path of the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads ~/.diffly/config.toml, then ~/.diffly/config.json, then falls
// back to defaults. Environment overrides are applied last and the result
// is validated.
func Load() (*Config, error) {
	candidates := make([]string, 0, 2)
	if p, err := ConfigPathTOML(); err == nil {
		candidates = append(candidates, p)
	}
	if p, err := ConfigPathJSON(); err == nil {
		candidates = append(candidates, p)
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		return LoadFromPath(path)
	}

	return finish(Default())
}

// LoadFromPath reads one config file. The format follows the extension;
// anything other than .json is read as TOML.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	var err error
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = LoadJSON(cfg, path)
	} else {
		err = LoadTOML(cfg, path)
	}
	if err != nil {
		return nil, err
	}

	return finish(cfg)
}

func finish(cfg *Config) (*Config, error) {
	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML decodes a TOML file over cfg.
func LoadTOML(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("failed to decode TOML file %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

// LoadJSON decodes a JSON file over cfg.
func LoadJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file %s: %w", path, err)
	}
	return nil
}

// =============================================================================
// SAVING
// =============================================================================

// SaveTOML writes cfg as TOML.
func SaveTOML(cfg *Config, path string) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return util.AtomicWriteFileWithDir(path, buf.Bytes(), 0600, 0700)
}

// SaveJSON writes cfg as indented JSON.
func SaveJSON(cfg *Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return util.AtomicWriteFileWithDir(path, data, 0600, 0700)
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError is one invalid field.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors collects every invalid field.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := f.Tag.Get("toml")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// Validate checks every field and returns ValidateErrors on failure.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := make(ValidateErrors, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Namespace()
		if i := strings.Index(field, "."); i >= 0 {
			field = field[i+1:]
		}
		out = append(out, ValidationError{Field: field, Message: ruleMessage(fe)})
	}
	return out
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_if":
		return "is required"
	case "url":
		return fmt.Sprintf("%q is not a valid URL", fe.Value())
	case "oneof":
		return fmt.Sprintf("%q must be one of: %s", fe.Value(), strings.ReplaceAll(fe.Param(), " ", ", "))
	case "gte":
		return "must be at least " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	default:
		return "failed rule " + fe.Tag()
	}
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies DIFFLY_* environment variables.
// Invalid numeric values are ignored.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("DIFFLY_SERVICE_URL"); v != "" {
		c.Service.URL = v
	}

	if v := os.Getenv("DIFFLY_EXPORT_DIR"); v != "" {
		c.Export.OutputDir = v
	}

	if v := os.Getenv("DIFFLY_LAYOUT"); v != "" {
		c.UI.Layout = v
	}

	if v := os.Getenv("DIFFLY_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}

	if v := os.Getenv("DIFFLY_CONTEXT_LINES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.UI.ContextLines = n
		}
	}

	if v := os.Getenv("DIFFLY_TIMEOUT_SECS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Service.TimeoutSecs = n
		}
	}
}
