// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package diff_test

import (
	"fmt"

	"github.com/jeranaias/diffly-tui/internal/diff"
)

func ExampleComputeDiff() {
	// Original file content
	oldContent := "package main\n\nfunc main() {\n\tfmt.Println(\"Hello\")\n}\n"

	// Modified file content
	newContent := "package main\n\nimport \"fmt\"\n\nfunc main() {\n\tfmt.Println(\"Hello, World!\")\n}\n"

	d, err := diff.ComputeDiff("main.go", oldContent, newContent, diff.DefaultContextLines)
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Println(d.Summary())

	// Output:
	// Modified +3 -1
}

func ExampleGeneratePatch() {
	oldLabel, newLabel := diff.Labels("file.txt")

	patch, err := diff.GeneratePatch(oldLabel, newLabel,
		"line1\nline2\nline3\n",
		"line1\nmodified\nline3\n",
		diff.DefaultContextLines)
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Print(patch)

	// Output:
	// --- old/file.txt
	// +++ new/file.txt
	// @@ -1,3 +1,3 @@
	//  line1
	// -line2
	// +modified
	//  line3
}

func ExampleGeneratePatch_unchanged() {
	patch, _ := diff.GeneratePatch("old/a.txt", "new/a.txt", "same\n", "same\n", 4)

	fmt.Print(patch)

	// Output:
	// --- old/a.txt
	// +++ new/a.txt
}

func ExampleDiff_Summary_newFile() {
	d, _ := diff.ComputeDiff("new.txt", "", "line1\nline2\nline3\n", diff.DefaultContextLines)

	fmt.Println(d.Summary())

	// Output:
	// New file +3
}

func ExampleDiff_Summary_deletedFile() {
	d, _ := diff.ComputeDiff("old.txt", "line1\nline2\n", "", diff.DefaultContextLines)

	fmt.Println(d.Summary())

	// Output:
	// File deleted -2
}

func ExampleDiffLineType_Prefix() {
	fmt.Printf("Context: '%s'\n", diff.DiffLineContext.Prefix())
	fmt.Printf("Added: '%s'\n", diff.DiffLineAdded.Prefix())
	fmt.Printf("Removed: '%s'\n", diff.DiffLineRemoved.Prefix())

	// Output:
	// Context: ' '
	// Added: '+'
	// Removed: '-'
}

func ExampleDiff_hunks() {
	oldContent := "line1\nline2\nline3\nline4\nline5\n"
	newContent := "line1\nmodified2\nline3\nmodified4\nline5\n"

	d, _ := diff.ComputeDiff("file.txt", oldContent, newContent, 0)

	fmt.Printf("Number of hunks: %d\n", d.HunkCount())
	for _, hunk := range d.Hunks {
		fmt.Println(hunk.Header)
	}

	// Output:
	// Number of hunks: 2
	// @@ -2 +2 @@
	// @@ -4 +4 @@
}
