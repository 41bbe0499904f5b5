// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides reusable UI components for the senseai TUI.

This package contains styled components built on top of the Bubble Tea
and Lip Gloss libraries, consistent with the senseai design language.

# Components

EntryBubble (message.go) - Styled bubbles for conversation timeline
entries: user messages, assistant replies (rendered as markdown via
Glamour), image references, classification result cards, and system
notices.

ActivitySpinner (spinner.go) - The single busy indicator for the
conversation view. Its message follows the active indicator kind
(Thinking, Classifying, Locating), so at most one activity is shown.

StatusBar (statusbar.go) - Bottom status line with language tag, local
model state, entry count, and key hints.

# Theme Integration

All components accept a *styles.Theme for consistent styling:

	theme := styles.NewTheme("auto")
	bubble := components.NewEntryBubble(entry, theme)
	bubble.SetWidth(80)
	view := bubble.View()
*/
package components
