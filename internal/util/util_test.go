// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"os"
	"path/filepath"
	"testing"
)

// =============================================================================
// ATOMIC WRITE TESTS
// =============================================================================

func TestAtomicWriteFile_Basic(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "test.txt")
	data := []byte("hello, world!")

	err := AtomicWriteFile(path, data, 0644)
	if err != nil {
		t.Fatalf("AtomicWriteFile failed: %v", err)
	}

	// Verify content
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file: %v", err)
	}
	if string(content) != string(data) {
		t.Errorf("Content mismatch: got %q, want %q", string(content), string(data))
	}
}

func TestAtomicWriteFile_CreatesParentDir(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "subdir", "deep", "test.txt")
	data := []byte("test data")

	err := AtomicWriteFile(path, data, 0644)
	if err != nil {
		t.Fatalf("AtomicWriteFile failed: %v", err)
	}

	// Verify file exists
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("File not created: %v", err)
	}
}

func TestAtomicWriteFile_Overwrites(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "test.txt")

	// Write initial content
	if err := AtomicWriteFile(path, []byte("initial"), 0644); err != nil {
		t.Fatalf("First write failed: %v", err)
	}

	// Overwrite
	if err := AtomicWriteFile(path, []byte("updated"), 0644); err != nil {
		t.Fatalf("Second write failed: %v", err)
	}

	// Verify new content
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file: %v", err)
	}
	if string(content) != "updated" {
		t.Errorf("Content not updated: got %q", string(content))
	}
}

func TestAtomicWriteFile_NoTempLeftovers(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "diff.json")

	for i := 0; i < 3; i++ {
		if err := AtomicWriteFile(path, []byte("{}"), 0644); err != nil {
			t.Fatalf("write %d failed: %v", i, err)
		}
	}

	entries, err := os.ReadDir(tempDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "diff.json" {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("Expected only diff.json, found %v", names)
	}
}

func TestAtomicWriteFileWithDir(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "newdir", "test.txt")

	err := AtomicWriteFileWithDir(path, []byte("test"), 0600, 0700)
	if err != nil {
		t.Fatalf("AtomicWriteFileWithDir failed: %v", err)
	}

	// Verify file exists
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("File not created: %v", err)
	}
}


// =============================================================================
// WIDTH TESTS
// =============================================================================

func TestStringWidth(t *testing.T) {
	testCases := []struct {
		input    string
		expected int
	}{
		{"", 0},
		{"hello", 5},
		{"日本語", 6},
		{"a日b", 4},
	}

	for _, tc := range testCases {
		if got := StringWidth(tc.input); got != tc.expected {
			t.Errorf("StringWidth(%q) = %d, want %d", tc.input, got, tc.expected)
		}
	}
}

func TestTruncateWidth(t *testing.T) {
	testCases := []struct {
		input    string
		maxWidth int
		expected string
	}{
		{"hello", 10, "hello"},
		{"hello", 5, "hello"},
		{"hello world", 8, "hello w…"},
		{"日本語テキスト", 5, "日本…"},
		{"hello", 1, "h"},
		{"hello", 0, ""},
		{"hello", -1, ""},
	}

	for _, tc := range testCases {
		got := TruncateWidth(tc.input, tc.maxWidth)
		if got != tc.expected {
			t.Errorf("TruncateWidth(%q, %d) = %q, want %q", tc.input, tc.maxWidth, got, tc.expected)
		}
		if tc.maxWidth > 0 && StringWidth(got) > tc.maxWidth {
			t.Errorf("TruncateWidth(%q, %d) too wide: %d", tc.input, tc.maxWidth, StringWidth(got))
		}
	}
}

func TestFitWidth(t *testing.T) {
	testCases := []struct {
		input    string
		width    int
		expected string
	}{
		{"ab", 5, "ab   "},
		{"hello world", 8, "hello w…"},
		{"日本", 5, "日本 "},
		{"x", 0, ""},
	}

	for _, tc := range testCases {
		if got := FitWidth(tc.input, tc.width); got != tc.expected {
			t.Errorf("FitWidth(%q, %d) = %q, want %q", tc.input, tc.width, got, tc.expected)
		}
	}
}

func TestPadWidth_WiderUnchanged(t *testing.T) {
	if got := PadWidth("abcdef", 3); got != "abcdef" {
		t.Errorf("PadWidth() = %q, want unchanged", got)
	}
}

func TestExpandTabs(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"no tabs", "no tabs"},
		{"\tx", "    x"},
		{"ab\tc", "ab  c"},
		{"abcd\te", "abcd    e"},
		{"\t\t", "        "},
	}

	for _, tc := range testCases {
		if got := ExpandTabs(tc.input); got != tc.expected {
			t.Errorf("ExpandTabs(%q) = %q, want %q", tc.input, got, tc.expected)
		}
	}
}
