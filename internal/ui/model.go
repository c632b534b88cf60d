// Package ui provides the terminal user interface for svist.
// This file defines the main application model and its core functionality.
package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/VarunSharma3520/svist/internal/backend"
	"github.com/VarunSharma3520/svist/internal/chat"
	"github.com/VarunSharma3520/svist/internal/config"
	"github.com/VarunSharma3520/svist/internal/logger"
	"github.com/VarunSharma3520/svist/internal/types"
)

// Option indexes on the options screen.
const (
	optProvider = iota
	optEndpoint
	optSave
	optBack
)

// Screen chrome around the transcript viewport: title, input, help, status.
const chromeHeight = 8

// Model represents the main application state.
// The conversation itself lives in Store; Model adds the widgets that
// display it and the options screen.
type Model struct {
	Store     *chat.Store
	Config    *config.Config
	TextInput textinput.Model
	Viewport  viewport.Model
	Spinner   spinner.Model

	ScreenMode types.ScreenMode

	// Options
	Options         []string
	SelectedOpt     int
	EndpointInput   textinput.Model
	EditingEndpoint bool

	// NewResponder rebuilds the backend after settings change.
	NewResponder func(*config.Config) (backend.Responder, error)

	StatusMsg string
	statusSeq int

	// selected is the assistant message Ctrl+Y copies; -1 means the newest.
	selected int

	width       int
	height      int
	lastContent string
	log         *logger.Logger
}

// statusExpiredMsg clears the status line set under seq.
type statusExpiredMsg struct{ seq int }

// InitialModel creates the application model around an existing store.
//
// Example:
//
//	store := chat.New(chat.Options{Responder: r})
//	p := tea.NewProgram(ui.InitialModel(store, cfg, log), tea.WithAltScreen())
func InitialModel(store *chat.Store, cfg *config.Config, log *logger.Logger) *Model {
	if log == nil {
		log = logger.Nop()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle

	m := &Model{
		Store:         store,
		Config:        cfg,
		TextInput:     NewTextInput(),
		EndpointInput: NewEndpointInput(),
		Viewport:      viewport.New(80, 20),
		Spinner:       sp,
		ScreenMode:    types.ModeChat,
		NewResponder:  backend.New,
		selected:      -1,
		width:         80,
		height:        20 + chromeHeight,
		log:           log,
	}
	m.refreshOptions()
	m.refresh()
	return m
}

func (m *Model) refreshOptions() {
	m.Options = []string{
		"Provider: " + m.Config.Provider,
		"Set Endpoint URL: " + m.Config.Endpoint.URL(),
		"Save Settings",
		"Back to Chat",
	}
}

// setStatus shows msg on the status line; a positive duration clears it
// afterwards.
func (m *Model) setStatus(msg string, duration time.Duration) tea.Cmd {
	m.StatusMsg = msg
	m.statusSeq++
	if duration <= 0 {
		return nil
	}
	seq := m.statusSeq
	return tea.Tick(duration, func(time.Time) tea.Msg { return statusExpiredMsg{seq: seq} })
}

// cycleProvider moves to the next known provider.
func (m *Model) cycleProvider() {
	for i, p := range config.Providers {
		if p == m.Config.Provider {
			m.Config.Provider = config.Providers[(i+1)%len(config.Providers)]
			m.refreshOptions()
			return
		}
	}
	m.Config.Provider = config.Providers[0]
	m.refreshOptions()
}

// applySettings validates the current settings and swaps the responder.
func (m *Model) applySettings() error {
	if err := m.Config.Validate(); err != nil {
		return err
	}
	r, err := m.NewResponder(m.Config)
	if err != nil {
		return fmt.Errorf("failed to build responder: %w", err)
	}
	m.Store.SetResponder(r)
	return nil
}

// selectResponse moves the copy selection by delta assistant messages,
// clamped to the first and the newest one.
func (m *Model) selectResponse(delta int) {
	var answers []int
	for i, msg := range m.Store.Messages() {
		if msg.Role == types.RoleAssistant {
			answers = append(answers, i)
		}
	}
	if len(answers) == 0 {
		return
	}

	pos := len(answers) - 1
	for i, idx := range answers {
		if idx == m.selected {
			pos = i
		}
	}
	pos = min(max(pos+delta, 0), len(answers)-1)
	if pos == len(answers)-1 {
		m.selected = -1
		return
	}
	m.selected = answers[pos]
}

// copyIndex returns the message Ctrl+Y copies when no reveal is running.
func (m *Model) copyIndex() int {
	if m.selected >= 0 {
		return m.selected
	}
	return m.Store.LastAssistant()
}

// resize fits the transcript viewport between the title and the input.
func (m *Model) resize(width, height int) {
	m.width = max(width, 20)
	m.height = max(height, chromeHeight+3)
	m.Viewport.Width = m.width
	m.Viewport.Height = m.height - chromeHeight
	m.TextInput.Width = max(m.width-16, 10)
	m.lastContent = ""
	m.refresh()
}

// refresh re-renders the transcript and scrolls to the bottom whenever the
// transcript or the reveal buffer changed.
func (m *Model) refresh() {
	content := m.renderTranscript()
	if content == m.lastContent {
		return
	}
	m.lastContent = content
	m.Viewport.SetContent(content)
	m.Viewport.GotoBottom()
}

// syncInput disables typing while a prompt is in flight.
func (m *Model) syncInput() {
	if m.Store.Busy() {
		m.TextInput.Blur()
	} else if m.ScreenMode == types.ModeChat && !m.TextInput.Focused() {
		m.TextInput.Focus()
	}
}
