// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the TUI program and blocks until the user exits.
// When auto-save is enabled, the conversation is persisted on the way out.
func Run(app App) error {
	p := tea.NewProgram(app, tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	if final, ok := finalModel.(App); ok && final.cfg.Transcripts.AutoSave {
		// Best effort: an unsaved transcript should not fail shutdown
		_, _ = final.SaveTranscript()
	}

	return nil
}
