// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides utility functions for the senseai-tui application.
package util

import (
	"os"
	"path/filepath"
	"testing"
)

// =============================================================================
// TRUNCATION TESTS
// =============================================================================

func TestTruncateRunes(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxRunes int
		want     string
	}{
		{"short string unchanged", "hello", 10, "hello"},
		{"exact length unchanged", "hello", 5, "hello"},
		{"truncated with ellipsis", "hello world", 8, "hello..."},
		{"zero max", "hello", 0, ""},
		{"negative max", "hello", -1, ""},
		{"tiny max no ellipsis", "hello", 2, "he"},
		{"unicode not split", "日本語のテキスト", 5, "日本..."},
		{"empty string", "", 5, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := TruncateRunes(tc.input, tc.maxRunes)
			if got != tc.want {
				t.Errorf("TruncateRunes(%q, %d) = %q, want %q", tc.input, tc.maxRunes, got, tc.want)
			}
		})
	}
}

func TestRuneLen(t *testing.T) {
	if got := RuneLen("hello"); got != 5 {
		t.Errorf("RuneLen(hello) = %d, want 5", got)
	}
	// 3 runes, 9 bytes
	if got := RuneLen("日本語"); got != 3 {
		t.Errorf("RuneLen(日本語) = %d, want 3", got)
	}
}

// =============================================================================
// CONVERSION TESTS
// =============================================================================

func TestFloatToString(t *testing.T) {
	if got := FloatToString(0.7); got != "0.70" {
		t.Errorf("FloatToString(0.7) = %q, want %q", got, "0.70")
	}
	if got := FloatToStringPrec(0.6666, 1); got != "0.7" {
		t.Errorf("FloatToStringPrec(0.6666, 1) = %q, want %q", got, "0.7")
	}
}

// =============================================================================
// ATOMIC WRITE TESTS
// =============================================================================

func TestAtomicWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.json")

	if err := AtomicWriteFile(path, []byte("first"), 0644); err != nil {
		t.Fatalf("AtomicWriteFile() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != "first" {
		t.Errorf("file content = %q, want %q", data, "first")
	}

	// Overwrite replaces content completely
	if err := AtomicWriteFile(path, []byte("second"), 0644); err != nil {
		t.Fatalf("AtomicWriteFile() overwrite error = %v", err)
	}
	data, _ = os.ReadFile(path)
	if string(data) != "second" {
		t.Errorf("file content after overwrite = %q, want %q", data, "second")
	}

	// No temp files left behind
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("directory has %d entries, want 1 (no temp files)", len(entries))
	}
}

func TestAtomicWriteFile_CreatesParentDir(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "deep", "out.json")

	if err := AtomicWriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatalf("AtomicWriteFile() error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file to exist: %v", err)
	}
}
