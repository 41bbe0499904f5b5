// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the senseai TUI.
package components

import (
	"strings"
	"testing"
	"time"

	"github.com/jeranaias/senseai-tui/internal/indicator"
	"github.com/jeranaias/senseai-tui/internal/timeline"
	"github.com/jeranaias/senseai-tui/internal/ui/styles"
)

func testTheme() *styles.Theme {
	return styles.NewTheme("dark")
}

// =============================================================================
// ENTRY BUBBLE TESTS
// =============================================================================

func TestEntryBubbleUserText(t *testing.T) {
	store := timeline.NewStore()
	entry := store.Append(timeline.UserText("hello there"))

	b := NewEntryBubble(entry, testTheme())
	b.RenderMarkdown = false
	view := b.View()

	if !strings.Contains(view, "hello there") {
		t.Errorf("user bubble should contain the message text, got %q", view)
	}
	if !strings.Contains(view, "you") {
		t.Errorf("user bubble should carry the role indicator, got %q", view)
	}
}

func TestEntryBubbleAssistantText(t *testing.T) {
	store := timeline.NewStore()
	entry := store.Append(timeline.AssistantText("take two and rest"))

	b := NewEntryBubble(entry, testTheme())
	b.RenderMarkdown = false
	view := b.View()

	if !strings.Contains(view, "take two and rest") {
		t.Errorf("assistant bubble should contain the reply, got %q", view)
	}
	if !strings.Contains(view, "assistant") {
		t.Errorf("assistant bubble should carry the role indicator, got %q", view)
	}
}

func TestEntryBubbleImageTag(t *testing.T) {
	store := timeline.NewStore()
	entry := store.Append(timeline.UserImage("photo.png"))

	view := NewEntryBubble(entry, testTheme()).View()
	if !strings.Contains(view, "[image] photo.png") {
		t.Errorf("image entry should render a reference tag, got %q", view)
	}
}

func TestEntryBubbleClassification(t *testing.T) {
	store := timeline.NewStore()
	entry := store.Append(timeline.ClassificationResult(timeline.Classification{
		Label:      "rash",
		Confidence: 0.825,
		ImageRef:   "photo.png",
	}))

	b := NewEntryBubble(entry, testTheme())
	view := b.View()

	if !strings.Contains(view, "rash") {
		t.Errorf("classification card should contain the label, got %q", view)
	}
	if !strings.Contains(view, "82.5% confidence") {
		t.Errorf("classification card should show confidence, got %q", view)
	}
}

func TestEntryBubbleClassificationHidesConfidence(t *testing.T) {
	store := timeline.NewStore()
	entry := store.Append(timeline.ClassificationResult(timeline.Classification{
		Label:      "acne",
		Confidence: 0.5,
	}))

	b := NewEntryBubble(entry, testTheme())
	b.ShowConfidence = false
	view := b.View()

	if strings.Contains(view, "confidence") {
		t.Errorf("confidence should be hidden, got %q", view)
	}
}

func TestEntryBubbleNotice(t *testing.T) {
	store := timeline.NewStore()
	entry := store.Append(timeline.Notice("Image analysis is unavailable right now."))

	view := NewEntryBubble(entry, testTheme()).View()
	if !strings.Contains(view, "unavailable") {
		t.Errorf("notice bubble should contain the notice text, got %q", view)
	}
}

// =============================================================================
// WORD WRAP TESTS
// =============================================================================

func TestWordWrap(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		width    int
		maxWidth int
	}{
		{"short line untouched", "hello", 20, 5},
		{"long line wrapped", "one two three four five six seven eight", 12, 12},
		{"preserves newlines", "a\nb\nc", 10, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := wordWrap(tt.input, tt.width)
			if w := maxLineWidth(got); w > tt.width {
				t.Errorf("wordWrap produced line of width %d, limit %d: %q", w, tt.width, got)
			}
		})
	}
}

func TestWordWrapZeroWidth(t *testing.T) {
	if got := wordWrap("unchanged", 0); got != "unchanged" {
		t.Errorf("zero width should return input unchanged, got %q", got)
	}
}

// =============================================================================
// ACTIVITY SPINNER TESTS
// =============================================================================

func TestActivitySpinnerLifecycle(t *testing.T) {
	s := NewActivitySpinner()

	if s.IsActive() {
		t.Error("new spinner should be inactive")
	}
	if s.View() != "" {
		t.Error("inactive spinner should render nothing")
	}

	cmd := s.Start(indicator.KindSending)
	if cmd == nil {
		t.Error("Start should return a tick command")
	}
	if !s.IsActive() {
		t.Error("spinner should be active after Start")
	}

	view := s.View()
	if !strings.Contains(view, indicator.KindSending.Message()) {
		t.Errorf("spinner view should show the activity message, got %q", view)
	}

	s.Stop()
	if s.IsActive() {
		t.Error("spinner should be inactive after Stop")
	}
}

func TestActivitySpinnerKindSwitch(t *testing.T) {
	s := NewActivitySpinner()
	s.Start(indicator.KindSending)
	s.SetKind(indicator.KindClassifying)

	view := s.View()
	if !strings.Contains(view, indicator.KindClassifying.Message()) {
		t.Errorf("spinner should show the new activity, got %q", view)
	}
	if strings.Contains(view, indicator.KindSending.Message()) {
		t.Errorf("spinner should not show the old activity, got %q", view)
	}
}

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{5 * time.Second, "5s"},
		{59 * time.Second, "59s"},
		{60 * time.Second, "1m 0s"},
		{125 * time.Second, "2m 5s"},
	}

	for _, tt := range tests {
		if got := formatElapsed(tt.d); got != tt.want {
			t.Errorf("formatElapsed(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

// =============================================================================
// STATUS BAR TESTS
// =============================================================================

func TestStatusBarView(t *testing.T) {
	bar := NewStatusBar(testTheme())
	bar.SetWidth(100)
	bar.Lang = "de"
	bar.ModelReady = true
	bar.EntryCount = 4

	view := bar.View()
	if !strings.Contains(view, "de") {
		t.Errorf("status bar should show the language tag, got %q", view)
	}
	if !strings.Contains(view, "4 entries") {
		t.Errorf("status bar should show the entry count, got %q", view)
	}
	if !strings.Contains(view, "hospitals") {
		t.Errorf("status bar should show the hospital shortcut, got %q", view)
	}
}

func TestStatusBarModelState(t *testing.T) {
	bar := NewStatusBar(testTheme())
	bar.SetWidth(100)

	bar.ModelReady = true
	if !strings.Contains(bar.View(), styles.StatusIndicators.Active) {
		t.Error("ready model should use the active indicator")
	}

	bar.ModelReady = false
	if !strings.Contains(bar.View(), styles.StatusIndicators.Pending) {
		t.Error("unavailable model should use the pending indicator")
	}
}
