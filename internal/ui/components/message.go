// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the senseai TUI.
package components

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/jeranaias/senseai-tui/internal/timeline"
	"github.com/jeranaias/senseai-tui/internal/ui/styles"
	"github.com/jeranaias/senseai-tui/internal/util"
)

// =============================================================================
// MARKDOWN RENDERING
// =============================================================================

// markdownRenderer renders assistant replies, which may carry markdown.
// Falls back to plain text when the renderer cannot be initialized.
var markdownRenderer *glamour.TermRenderer

func init() {
	var err error
	markdownRenderer, err = glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(76),
	)
	if err != nil {
		markdownRenderer = nil
	}
}

// renderMarkdown renders markdown content for terminal display.
// Returns the original content if rendering fails or renderer is unavailable.
func renderMarkdown(content string) string {
	if markdownRenderer == nil {
		return content
	}
	rendered, err := markdownRenderer.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimRight(rendered, "\n")
}

// =============================================================================
// ENTRY BUBBLE COMPONENT
// =============================================================================

// EntryBubble renders one conversation timeline entry as a styled bubble.
type EntryBubble struct {
	Entry          timeline.Entry
	Width          int
	ShowTimestamp  bool
	ShowConfidence bool
	RenderMarkdown bool
	theme          *styles.Theme
}

// NewEntryBubble creates a bubble for the given entry.
func NewEntryBubble(entry timeline.Entry, theme *styles.Theme) *EntryBubble {
	return &EntryBubble{
		Entry:          entry,
		Width:          80,
		ShowTimestamp:  true,
		ShowConfidence: true,
		RenderMarkdown: true,
		theme:          theme,
	}
}

// SetWidth sets the bubble width.
func (b *EntryBubble) SetWidth(width int) {
	b.Width = width
}

// View renders the entry bubble.
func (b *EntryBubble) View() string {
	switch b.Entry.Kind {
	case timeline.KindImage:
		return b.renderImageTag()
	case timeline.KindClassification:
		return b.renderClassificationCard()
	case timeline.KindNotice:
		return b.renderNoticeBubble()
	default:
		if b.Entry.Origin == timeline.OriginUser {
			return b.renderUserBubble()
		}
		return b.renderAssistantBubble()
	}
}

// ==========================================================================
// USER BUBBLE - Blue tones, right-aligned feel
// ==========================================================================

func (b *EntryBubble) renderUserBubble() string {
	content := b.Entry.Text
	if content == "" {
		content = "..."
	}

	maxContentWidth := b.Width - 12
	if maxContentWidth < 20 {
		maxContentWidth = 20
	}
	wrapped := wordWrap(content, maxContentWidth)
	contentWidth := minInt(maxLineWidth(wrapped)+4, b.Width-8)

	bubble := b.theme.UserBubble.Width(contentWidth).Render(wrapped)

	role := lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Italic(true).
		Render("you")

	header := role
	if b.ShowTimestamp {
		header += " " + b.renderTimestamp()
	}

	block := lipgloss.JoinVertical(lipgloss.Right, header, bubble)
	return lipgloss.NewStyle().
		Width(b.Width).
		Align(lipgloss.Right).
		Render(block)
}

// ==========================================================================
// ASSISTANT BUBBLE - Purple tones, may carry markdown
// ==========================================================================

func (b *EntryBubble) renderAssistantBubble() string {
	content := b.Entry.Text
	if content == "" {
		content = "..."
	}
	if b.RenderMarkdown {
		content = renderMarkdown(content)
	} else {
		maxContentWidth := b.Width - 12
		if maxContentWidth < 20 {
			maxContentWidth = 20
		}
		content = wordWrap(content, maxContentWidth)
	}

	contentWidth := minInt(maxLineWidth(content)+4, b.Width-8)
	if contentWidth < 20 {
		contentWidth = 20
	}

	bubble := b.theme.AssistantBubble.Width(contentWidth).Render(content)

	role := lipgloss.NewStyle().
		Foreground(styles.Purple).
		Italic(true).
		Render("assistant")

	header := role
	if b.ShowTimestamp {
		header += " " + b.renderTimestamp()
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, bubble)
}

// ==========================================================================
// IMAGE TAG - Compact reference line for user-submitted images
// ==========================================================================

func (b *EntryBubble) renderImageTag() string {
	tag := b.theme.ImageTag.Render("[image] " + b.Entry.ImageRef)
	return lipgloss.NewStyle().
		Width(b.Width).
		Align(lipgloss.Right).
		Render(tag)
}

// ==========================================================================
// CLASSIFICATION CARD - Emerald left-border card for inference results
// ==========================================================================

func (b *EntryBubble) renderClassificationCard() string {
	label := b.Entry.Result.Label
	if label == "" {
		label = "(no result)"
	}

	line := label
	if b.ShowConfidence {
		pct := util.FloatToStringPrec(b.Entry.Result.Confidence*100, 1)
		line += "  " + lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Render(pct+"% confidence")
	}

	card := b.theme.ClassificationCard.Render(line)

	role := lipgloss.NewStyle().
		Foreground(styles.Emerald).
		Italic(true).
		Render("analysis")

	return lipgloss.JoinVertical(lipgloss.Left, role, card)
}

// ==========================================================================
// NOTICE BUBBLE - Amber centered bubble for degradation notices
// ==========================================================================

func (b *EntryBubble) renderNoticeBubble() string {
	content := b.Entry.Text
	maxContentWidth := b.Width - 8
	if maxContentWidth < 20 {
		maxContentWidth = 20
	}
	wrapped := wordWrap(content, maxContentWidth)

	bubble := b.theme.NoticeBubble.Render(wrapped)
	return lipgloss.NewStyle().
		Width(b.Width).
		Align(lipgloss.Center).
		Render(bubble)
}

// ==========================================================================
// HELPERS
// ==========================================================================

func (b *EntryBubble) renderTimestamp() string {
	return lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Render(b.Entry.CreatedAt.Format("15:04"))
}

// wordWrap wraps text at the given display width, preserving existing
// newlines. Uses go-runewidth so wide characters count correctly.
func wordWrap(text string, width int) string {
	if width <= 0 {
		return text
	}

	var out []string
	for _, line := range strings.Split(text, "\n") {
		if runewidth.StringWidth(line) <= width {
			out = append(out, line)
			continue
		}

		var current string
		for _, word := range strings.Fields(line) {
			if current == "" {
				current = word
				continue
			}
			if runewidth.StringWidth(current)+1+runewidth.StringWidth(word) > width {
				out = append(out, current)
				current = word
			} else {
				current += " " + word
			}
		}
		if current != "" {
			out = append(out, current)
		}
	}
	return strings.Join(out, "\n")
}

// maxLineWidth returns the widest display width among the lines of s.
func maxLineWidth(s string) int {
	max := 0
	for _, line := range strings.Split(s, "\n") {
		if w := runewidth.StringWidth(line); w > max {
			max = w
		}
	}
	return max
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
