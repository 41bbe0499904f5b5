// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the senseai TUI.

This package defines the color palette and theme used throughout the
application. All colors use Lip Gloss AdaptiveColor for automatic
light/dark terminal detection.

# Color System (colors.go)

Primary accents:

  - Purple - Primary accent for assistant messages and selections
  - Cyan - Brand color for info, commands, and user highlights
  - Emerald - Success states and the classification result card
  - Amber - Degradation notices and caution states
  - Rose - Errors and critical warnings

Message bubbles use semantic color tokens:

	UserBubbleBg      - Background for user messages
	AssistantBubbleBg - Background for assistant messages
	NoticeBubbleBg    - Background for system notices
	ClassificationBg  - Background for local inference results

# Theme System (theme.go)

The Theme struct provides runtime color adaptation:

	theme := styles.NewTheme("auto")
	if theme.IsDark {
		// Dark terminal detected
	}

The mode argument ("dark", "light", "auto") comes from the ui.theme
config key and can force a palette regardless of terminal detection.

# Accessibility

StatusIndicators provides ASCII shape indicators ([OK], [X], [!], [i])
alongside colors so status is legible for colorblind users, and the
Render* helpers pair them with high-contrast styles.
*/
package styles
