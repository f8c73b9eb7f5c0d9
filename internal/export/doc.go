// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes comparison artifacts to disk as indented JSON.
//
// Artifacts are written exactly as received, with two-space indentation and
// no HTML escaping, into the configured output directory.
//
// # Artifacts
//
//   - diff.json: the service's diff object
//   - summary.json: {"summary": "..."}
//
// # Usage
//
//	exp := export.New(&export.Options{OutputDir: "./out"})
//	path, err := exp.ExportDiff(result)
//	if err != nil {
//	    return err
//	}
//	fmt.Println("Saved", path)
package export
