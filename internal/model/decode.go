// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// ErrMalformedResult is returned when a response does not match the result schema.
var ErrMalformedResult = errors.New("malformed comparison result")

// ValidationError describes the first schema violation found in a response.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", ErrMalformedResult, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", ErrMalformedResult, e.Field, e.Message)
}

// Unwrap lets errors.Is match ErrMalformedResult.
func (e *ValidationError) Unwrap() error {
	return ErrMalformedResult
}

// =============================================================================
// WIRE SCHEMA
// =============================================================================

type wireResult struct {
	Diff      *wireDiff         `json:"diff" validate:"required"`
	Contents1 map[string]string `json:"contents1"`
	Contents2 map[string]string `json:"contents2"`
	Summary   string            `json:"summary"`
}

type wireDiff struct {
	Added    []string       `json:"added" validate:"dive,required"`
	Removed  []string       `json:"removed" validate:"dive,required"`
	Modified []wireModified `json:"modified" validate:"dive"`
}

type wireModified struct {
	File         string   `json:"file" validate:"required"`
	OldContent   *string  `json:"old_content"`
	NewContent   *string  `json:"new_content"`
	LinesChanged int      `json:"lines_changed" validate:"gte=0"`
	DiffPreview  []string `json:"diff_preview"`
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func schemaValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		// Report JSON field names instead of Go ones.
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// =============================================================================
// DECODE
// =============================================================================

// Decode parses and validates a service response body.
// Missing lists, maps and summary decode as empty values.
func Decode(data []byte) (*ComparisonResult, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, &ValidationError{Message: "response is not a JSON object"}
	}

	var wire wireResult
	if err := json.Unmarshal(trimmed, &wire); err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}
	if err := schemaValidator().Struct(&wire); err != nil {
		return nil, toValidationError(err)
	}

	var raw struct {
		Diff json.RawMessage `json:"diff"`
	}
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, &ValidationError{Field: "diff", Message: err.Error()}
	}

	result := &ComparisonResult{
		Diff: DiffSet{
			Added:    nonNil(wire.Diff.Added),
			Removed:  nonNil(wire.Diff.Removed),
			Modified: make([]ModifiedEntry, 0, len(wire.Diff.Modified)),
		},
		Contents1: wire.Contents1,
		Contents2: wire.Contents2,
		Summary:   wire.Summary,
		RawDiff:   raw.Diff,
	}
	if result.Contents1 == nil {
		result.Contents1 = map[string]string{}
	}
	if result.Contents2 == nil {
		result.Contents2 = map[string]string{}
	}
	for _, m := range wire.Diff.Modified {
		result.Diff.Modified = append(result.Diff.Modified, ModifiedEntry(m))
	}

	return result, nil
}

func toValidationError(err error) error {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return &ValidationError{Message: err.Error()}
	}

	fe := errs[0]
	// Drop the root struct name from the namespace.
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}

	msg := fmt.Sprintf("failed rule '%s'", fe.Tag())
	switch fe.Tag() {
	case "required":
		msg = "is required"
	case "gte":
		msg = fmt.Sprintf("must be at least %s", fe.Param())
	}
	return &ValidationError{Field: field, Message: msg}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
