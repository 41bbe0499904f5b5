// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ui contains the Bubble Tea application model for the senseai TUI.
package ui

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/senseai-tui/internal/config"
	"github.com/jeranaias/senseai-tui/internal/indicator"
	"github.com/jeranaias/senseai-tui/internal/inference"
	"github.com/jeranaias/senseai-tui/internal/orchestrator"
	"github.com/jeranaias/senseai-tui/internal/storage"
	"github.com/jeranaias/senseai-tui/internal/timeline"
	"github.com/jeranaias/senseai-tui/internal/ui/components"
	"github.com/jeranaias/senseai-tui/internal/ui/styles"
)

// =============================================================================
// MESSAGES
// =============================================================================

// actionDoneMsg signals that an orchestrated action (send or classify)
// has settled. The timeline already holds the outcome.
type actionDoneMsg struct {
	err error
}

// hospitalDoneMsg signals that a hospital lookup settled.
type hospitalDoneMsg struct {
	url string
	err error
}

// transcriptSavedMsg signals that the conversation was persisted.
type transcriptSavedMsg struct {
	id  string
	err error
}

// =============================================================================
// APP MODEL
// =============================================================================

// App is the Bubble Tea model for the assistant conversation view.
type App struct {
	cfg   *config.Config
	theme *styles.Theme

	orch        *orchestrator.Orchestrator
	entries     *timeline.Store
	indicators  *indicator.Manager
	engine      *inference.Engine
	transcripts *storage.TranscriptStore

	// UI components
	viewport  viewport.Model
	input     textinput.Model
	activity  components.ActivitySpinner
	statusBar components.StatusBar

	// Dimensions
	width  int
	height int
	ready  bool

	// State
	busy      bool
	statusMsg string
	showHelp  bool
}

// NewApp creates the application model. The transcripts store may be nil
// when persistence is disabled.
func NewApp(
	cfg *config.Config,
	theme *styles.Theme,
	orch *orchestrator.Orchestrator,
	entries *timeline.Store,
	indicators *indicator.Manager,
	engine *inference.Engine,
	transcripts *storage.TranscriptStore,
) App {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Describe your symptoms, or /help for commands..."
	ti.CharLimit = 4096
	ti.Focus()

	vp := viewport.New(80, 20)
	vp.SetContent("")

	bar := components.NewStatusBar(theme)
	bar.Lang = orch.Lang()

	return App{
		cfg:         cfg,
		theme:       theme,
		orch:        orch,
		entries:     entries,
		indicators:  indicators,
		engine:      engine,
		transcripts: transcripts,
		viewport:    vp,
		input:       ti,
		activity:    components.NewActivitySpinner(),
		statusBar:   bar,
	}
}

// Init initializes the model.
func (m App) Init() tea.Cmd {
	return textinput.Blink
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles messages and updates the model.
func (m App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case actionDoneMsg:
		return m.handleActionDone(msg.err)

	case hospitalDoneMsg:
		m.busy = false
		m.activity.Stop()
		m.statusMsg = ""
		if msg.err == nil && msg.url != "" {
			m.statusMsg = "Opened " + msg.url
		}
		m.refreshViewport()
		m.viewport.GotoBottom()
		m.input.Focus()
		return m, textinput.Blink

	case transcriptSavedMsg:
		if msg.err != nil {
			m.statusMsg = "Save failed: " + msg.err.Error()
		} else {
			m.statusMsg = "Saved " + msg.id
		}
		return m, nil

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		// Follow the currently active indicator kind
		if kind, active := m.indicators.Current(); active {
			m.activity.SetKind(kind)
		}
		var cmd tea.Cmd
		m.activity, cmd = m.activity.Update(msg)
		return m, cmd

	default:
		var cmds []tea.Cmd
		if !m.busy {
			var inputCmd tea.Cmd
			m.input, inputCmd = m.input.Update(msg)
			cmds = append(cmds, inputCmd)
		}
		var vpCmd tea.Cmd
		m.viewport, vpCmd = m.viewport.Update(msg)
		cmds = append(cmds, vpCmd)
		return m, tea.Batch(cmds...)
	}
}

func (m App) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.ready = true

	// Layout: header (1) + viewport + activity line (1) + input (3) + status (1).
	// Conservative estimates keep the viewport from overflowing.
	const reservedHeight = 7
	viewportHeight := m.height - reservedHeight
	if viewportHeight < 1 {
		viewportHeight = 1
	}
	viewportWidth := m.width
	if viewportWidth < 1 {
		viewportWidth = 1
	}

	m.viewport.Width = viewportWidth
	m.viewport.Height = viewportHeight

	inputWidth := m.width - 8
	if inputWidth < 10 {
		inputWidth = 10
	}
	m.input.Width = inputWidth

	m.theme.SetSize(m.width, m.height)
	m.statusBar.SetWidth(m.width)

	m.refreshViewport()

	var vpCmd tea.Cmd
	m.viewport, vpCmd = m.viewport.Update(msg)
	return m, vpCmd
}

func (m App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keyStr := msg.String()

	// Emergency exit works in any state
	if keyStr == "ctrl+q" || keyStr == "ctrl+c" {
		return m, tea.Quit
	}

	if m.showHelp {
		switch keyStr {
		case "?", "esc", "q", "enter":
			m.showHelp = false
		}
		return m, nil
	}

	switch keyStr {
	case "ctrl+h":
		return m.dispatchHospitalLookup()

	case "ctrl+s":
		return m, m.saveTranscriptCmd()

	case "pgup", "ctrl+u":
		m.viewport.HalfViewUp()
		return m, nil

	case "pgdown", "ctrl+d":
		m.viewport.HalfViewDown()
		return m, nil

	case "home":
		m.viewport.GotoTop()
		return m, nil

	case "end":
		m.viewport.GotoBottom()
		return m, nil

	case "enter":
		if m.busy {
			m.statusMsg = "Still working on the previous request"
			return m, nil
		}
		value := strings.TrimSpace(m.input.Value())
		if value == "" {
			return m, nil
		}
		m.input.Reset()
		if strings.HasPrefix(value, "/") {
			return m.handleCommand(value)
		}
		return m.dispatchSendText(value)
	}

	if !m.busy {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m App) handleActionDone(err error) (tea.Model, tea.Cmd) {
	m.busy = false
	m.activity.Stop()
	m.statusMsg = ""

	var conflict *indicator.ConflictError
	switch {
	case err == nil:
	case errors.Is(err, orchestrator.ErrEmptyMessage):
		m.statusMsg = "Nothing to send"
	case errors.As(err, &conflict):
		m.statusMsg = "Still working on the previous request"
	default:
		m.statusMsg = err.Error()
	}

	m.refreshViewport()
	m.viewport.GotoBottom()
	m.input.Focus()
	return m, textinput.Blink
}

// =============================================================================
// COMMANDS
// =============================================================================

func (m App) handleCommand(value string) (tea.Model, tea.Cmd) {
	fields := strings.Fields(value)
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "/help", "/?":
		m.showHelp = true
		return m, nil

	case "/image":
		if len(args) == 0 {
			m.statusMsg = "Usage: /image <path>"
			return m, nil
		}
		return m.dispatchClassifyImage(strings.Join(args, " "))

	case "/hospitals", "/nearby":
		return m.dispatchHospitalLookup()

	case "/lang":
		if len(args) == 0 {
			m.statusMsg = "Language: " + m.orch.Lang()
			return m, nil
		}
		m.orch.SetLang(args[0])
		m.statusBar.Lang = m.orch.Lang()
		m.statusMsg = "Language: " + m.orch.Lang()
		return m, nil

	case "/save":
		return m, m.saveTranscriptCmd()

	case "/quit", "/exit":
		return m, tea.Quit

	default:
		m.statusMsg = "Unknown command: " + cmd
		return m, nil
	}
}

func (m App) dispatchSendText(text string) (tea.Model, tea.Cmd) {
	m.busy = true
	m.statusMsg = ""
	orch := m.orch

	sendCmd := func() tea.Msg {
		return actionDoneMsg{err: orch.OnSendText(context.Background(), text)}
	}
	tickCmd := m.activity.Start(indicator.KindSending)
	m.refreshViewport()
	return m, tea.Batch(sendCmd, tickCmd)
}

func (m App) dispatchClassifyImage(path string) (tea.Model, tea.Cmd) {
	data, err := os.ReadFile(path)
	if err != nil {
		m.statusMsg = "Cannot read image: " + err.Error()
		return m, nil
	}

	m.busy = true
	m.statusMsg = ""
	orch := m.orch

	classifyCmd := func() tea.Msg {
		return actionDoneMsg{err: orch.OnImageSelected(context.Background(), data, path)}
	}
	tickCmd := m.activity.Start(indicator.KindClassifying)
	m.refreshViewport()
	return m, tea.Batch(classifyCmd, tickCmd)
}

func (m App) dispatchHospitalLookup() (tea.Model, tea.Cmd) {
	if m.busy {
		m.statusMsg = "Still working on the previous request"
		return m, nil
	}

	m.busy = true
	m.statusMsg = ""
	orch := m.orch

	lookupCmd := func() tea.Msg {
		url, err := orch.OnHospitalRequested(context.Background())
		return hospitalDoneMsg{url: url, err: err}
	}
	tickCmd := m.activity.Start(indicator.KindLocating)
	m.refreshViewport()
	return m, tea.Batch(lookupCmd, tickCmd)
}

func (m App) saveTranscriptCmd() tea.Cmd {
	if m.transcripts == nil {
		return func() tea.Msg {
			return transcriptSavedMsg{err: errors.New("transcript persistence is disabled")}
		}
	}

	store := m.transcripts
	tr := &storage.StoredTranscript{
		Lang:    m.orch.Lang(),
		Entries: m.entries.Snapshot(),
	}
	return func() tea.Msg {
		id, err := store.Save(tr)
		return transcriptSavedMsg{id: id, err: err}
	}
}

// SaveTranscript persists the current conversation synchronously.
// Used on shutdown when auto-save is enabled.
func (m *App) SaveTranscript() (string, error) {
	if m.transcripts == nil || m.entries.Len() == 0 {
		return "", nil
	}
	return m.transcripts.Save(&storage.StoredTranscript{
		Lang:    m.orch.Lang(),
		Entries: m.entries.Snapshot(),
	})
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the application.
func (m App) View() string {
	if !m.ready {
		return "Starting senseai..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	header := m.renderHeader()

	activityLine := ""
	if m.busy {
		activityLine = m.activity.View()
	}

	inputView := m.theme.InputContainer.Width(m.width - 2).Render(m.input.View())

	m.statusBar.ModelReady = m.engine != nil && m.engine.GetState() == inference.StateReady
	m.statusBar.EntryCount = m.entries.Len()
	m.statusBar.StatusMsg = m.statusMsg
	m.statusBar.Lang = m.orch.Lang()

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		m.viewport.View(),
		activityLine,
		inputView,
		m.statusBar.View(),
	)
}

func (m App) renderHeader() string {
	title := m.theme.HeaderTitle.Render("senseai")
	subtitle := m.theme.HeaderSubtitle.Render(" your health companion")
	return m.theme.Header.Width(m.width).Render(title + subtitle)
}

func (m App) renderHelp() string {
	help := strings.Join([]string{
		"senseai commands",
		"",
		"  /image <path>   analyze a photo with the local model",
		"  /hospitals      find hospitals near you (ctrl+h)",
		"  /lang <tag>     set the reply language (e.g. /lang de)",
		"  /save           save the conversation (ctrl+s)",
		"  /quit           exit",
		"",
		"  pgup/pgdn       scroll the conversation",
		"  ctrl+q          quit",
		"",
		"press esc to close",
	}, "\n")

	box := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.Purple).
		Padding(1, 3).
		Render(help)

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

// refreshViewport re-renders all timeline entries into the viewport.
func (m *App) refreshViewport() {
	entries := m.entries.Snapshot()
	if len(entries) == 0 {
		m.viewport.SetContent(m.theme.HeaderSubtitle.Render(
			"Tell me what's bothering you, or send a photo with /image."))
		return
	}

	width := m.viewport.Width
	if width <= 0 {
		width = 80
	}

	blocks := make([]string, 0, len(entries))
	for _, entry := range entries {
		bubble := components.NewEntryBubble(entry, m.theme)
		bubble.SetWidth(width)
		bubble.ShowConfidence = m.cfg.UI.ShowConfidence
		bubble.ShowTimestamp = !m.cfg.UI.CompactMode
		blocks = append(blocks, bubble.View())
	}

	m.viewport.SetContent(strings.Join(blocks, "\n\n"))
}
