// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package compare

import (
	"fmt"
	"os"

	"github.com/klauspost/compress/zip"
)

// ArchiveInfo summarizes a local zip archive.
type ArchiveInfo struct {
	Path             string
	Entries          int
	Files            int
	CompressedSize   uint64
	UncompressedSize uint64
	FileSize         int64
}

// String returns a short description for notices and logs.
func (a ArchiveInfo) String() string {
	return fmt.Sprintf("%s (%d files, %d bytes)", a.Path, a.Files, a.UncompressedSize)
}

// ProbeArchive opens a zip archive and reads its central directory.
// Entry contents are not read.
func ProbeArchive(path string) (ArchiveInfo, error) {
	info := ArchiveInfo{Path: path}

	st, err := os.Stat(path)
	if err != nil {
		return info, &ClientError{Type: ErrTypeArchive, Message: "cannot access archive " + path, Cause: err}
	}
	if st.IsDir() {
		return info, &ClientError{Type: ErrTypeArchive, Message: path + " is a directory, not a zip archive"}
	}
	info.FileSize = st.Size()

	r, err := zip.OpenReader(path)
	if err != nil {
		return info, &ClientError{Type: ErrTypeArchive, Message: "not a readable zip archive: " + path, Cause: err}
	}
	defer r.Close()

	for _, f := range r.File {
		info.Entries++
		if f.FileInfo().IsDir() {
			continue
		}
		info.Files++
		info.CompressedSize += f.CompressedSize64
		info.UncompressedSize += f.UncompressedSize64
	}

	return info, nil
}
