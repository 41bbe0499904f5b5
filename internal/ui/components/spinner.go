// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the senseai TUI.
package components

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/senseai-tui/internal/indicator"
	"github.com/jeranaias/senseai-tui/internal/ui/styles"
)

// =============================================================================
// ACTIVITY SPINNER
// =============================================================================

// ActivitySpinner is the single busy indicator for the conversation view.
// Its message follows the active indicator kind, so at most one activity
// is ever shown.
type ActivitySpinner struct {
	spinner   spinner.Model
	kind      indicator.Kind
	startTime time.Time
	isActive  bool
	showTimer bool
}

// NewActivitySpinner creates a spinner with ASCII-compatible frames.
func NewActivitySpinner() ActivitySpinner {
	s := spinner.New()
	s.Spinner = spinner.Spinner{
		Frames: []string{"|", "/", "-", "\\"},
		FPS:    time.Second / 10,
	}

	return ActivitySpinner{
		spinner:   s,
		showTimer: true,
	}
}

// SetShowTimer enables or disables the elapsed time display.
func (s *ActivitySpinner) SetShowTimer(show bool) {
	s.showTimer = show
}

// =============================================================================
// STATE MANAGEMENT
// =============================================================================

// Start activates the spinner for the given activity kind.
func (s *ActivitySpinner) Start(kind indicator.Kind) tea.Cmd {
	s.kind = kind
	s.isActive = true
	s.startTime = time.Now()
	return s.spinner.Tick
}

// SetKind updates the displayed activity without restarting the timer.
func (s *ActivitySpinner) SetKind(kind indicator.Kind) {
	s.kind = kind
}

// Stop deactivates the spinner.
func (s *ActivitySpinner) Stop() {
	s.isActive = false
}

// IsActive returns whether the spinner is currently running.
func (s *ActivitySpinner) IsActive() bool {
	return s.isActive
}

// Elapsed returns the duration since the spinner started.
func (s *ActivitySpinner) Elapsed() time.Duration {
	if s.startTime.IsZero() {
		return 0
	}
	return time.Since(s.startTime)
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Update handles messages for the spinner.
func (s ActivitySpinner) Update(msg tea.Msg) (ActivitySpinner, tea.Cmd) {
	if !s.isActive {
		return s, nil
	}

	var cmd tea.Cmd
	s.spinner, cmd = s.spinner.Update(msg)
	return s, cmd
}

// View renders the spinner with its activity message.
func (s ActivitySpinner) View() string {
	if !s.isActive {
		return ""
	}

	spinnerView := lipgloss.NewStyle().
		Foreground(styles.Purple).
		Render(s.spinner.View())

	messageView := lipgloss.NewStyle().
		Foreground(styles.TextSecondary).
		Render(s.kind.Message())

	dotsView := lipgloss.NewStyle().
		Foreground(styles.Purple).
		Render("...")

	result := spinnerView + " " + messageView + dotsView

	if s.showTimer && !s.startTime.IsZero() {
		elapsed := time.Since(s.startTime)
		timerView := lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Render(" (" + formatElapsed(elapsed) + ")")
		result += timerView
	}

	return result
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// formatElapsed formats a duration for display.
func formatElapsed(d time.Duration) string {
	seconds := int(d.Seconds())
	if seconds < 60 {
		return formatSpinnerInt(seconds) + "s"
	}
	minutes := seconds / 60
	secs := seconds % 60
	return formatSpinnerInt(minutes) + "m " + formatSpinnerInt(secs) + "s"
}

// formatSpinnerInt converts an int to string without fmt.
func formatSpinnerInt(n int) string {
	if n == 0 {
		return "0"
	}
	negative := n < 0
	if negative {
		n = -n
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	if negative {
		return "-" + string(digits)
	}
	return string(digits)
}
