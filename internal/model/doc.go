// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the comparison result schema and its normalization.
//
// A ComparisonResult is what the comparison service returns for two
// archives. Decode validates the wire shape once at the boundary; Normalize
// reconciles the added, removed and modified lists into one sorted list of
// FileEntry values for display.
//
// # Key Types
//
//   - ComparisonResult: Raw service response, immutable once received
//   - DiffSet: The added, removed and modified lists
//   - ModifiedEntry: Old and new content of a changed file
//   - FileEntry: One normalized path with its status and both contents
//   - Status: added, removed or modified
//
// # Usage
//
//	result, err := model.Decode(body)
//	if err != nil {
//	    return err
//	}
//	for _, entry := range model.Normalize(result) {
//	    fmt.Println(entry.Status, entry.Path)
//	}
package model
