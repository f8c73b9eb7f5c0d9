// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared by the viewer packages.
//
//   - AtomicWriteFile: temp file, fsync, rename
//   - TruncateWidth, PadWidth, FitWidth: display-width aware layout helpers
//   - ExpandTabs: tab expansion before width measurement
package util
