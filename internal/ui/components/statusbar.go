// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the senseai TUI.
package components

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/jeranaias/senseai-tui/internal/ui/styles"
	"github.com/jeranaias/senseai-tui/internal/util"
)

// =============================================================================
// STATUS BAR
// =============================================================================

// StatusBar renders the bottom status line: language tag, local model
// state, entry count, and key hints.
type StatusBar struct {
	Width       int
	Lang        string
	ModelReady  bool
	EntryCount  int
	StatusMsg   string
	theme       *styles.Theme
}

// NewStatusBar creates a status bar.
func NewStatusBar(theme *styles.Theme) StatusBar {
	return StatusBar{
		Width: 80,
		theme: theme,
	}
}

// SetWidth sets the bar width.
func (s *StatusBar) SetWidth(width int) {
	s.Width = width
}

// View renders the status bar.
func (s StatusBar) View() string {
	var left []string

	if s.Lang != "" {
		left = append(left, s.theme.LangTag.Render(s.Lang))
	}

	if s.ModelReady {
		left = append(left, s.theme.ModelReady.Render(styles.StatusIndicators.Active+" model"))
	} else {
		left = append(left, s.theme.ModelDown.Render(styles.StatusIndicators.Pending+" model"))
	}

	left = append(left, s.theme.ShortcutDesc.Render(
		util.IntToString(s.EntryCount)+" entries"))

	if s.StatusMsg != "" {
		left = append(left, s.theme.ShortcutDesc.Render(s.StatusMsg))
	}

	leftView := strings.Join(left, s.theme.ShortcutDesc.Render(" | "))

	rightView := s.theme.ShortcutKey.Render("ctrl+h") +
		s.theme.ShortcutDesc.Render(" hospitals  ") +
		s.theme.ShortcutKey.Render("ctrl+q") +
		s.theme.ShortcutDesc.Render(" quit")

	// Pad the middle so the hints stay right-aligned
	gap := s.Width - runewidth.StringWidth(stripANSI(leftView)) -
		runewidth.StringWidth(stripANSI(rightView)) - 2
	if gap < 1 {
		gap = 1
	}

	return s.theme.StatusBar.Width(s.Width).Render(
		leftView + strings.Repeat(" ", gap) + rightView)
}

// stripANSI removes ANSI escape sequences for width measurement.
func stripANSI(s string) string {
	var b strings.Builder
	inEscape := false
	for _, r := range s {
		if inEscape {
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
				inEscape = false
			}
			continue
		}
		if r == '\x1b' {
			inEscape = true
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
