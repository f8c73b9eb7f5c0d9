// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNilData is returned when there is nothing to encode.
var ErrNilData = errors.New("nothing to export")

// Indent is the indentation used for every artifact.
const Indent = "  "

// EncodeJSON renders data as two-space indented JSON.
// Strings are not HTML-escaped and no trailing newline is added.
func EncodeJSON(data any) ([]byte, error) {
	if data == nil {
		return nil, ErrNilData
	}
	if raw, ok := data.(json.RawMessage); ok && len(raw) == 0 {
		return nil, ErrNilData
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", Indent)
	if err := enc.Encode(data); err != nil {
		return nil, fmt.Errorf("encode json: %w", err)
	}

	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
