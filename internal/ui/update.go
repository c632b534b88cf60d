// Package ui provides the terminal user interface for svist.
// This file handles the update loop and message handling for the Bubble Tea TUI.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/VarunSharma3520/svist/internal/chat"
	"github.com/VarunSharma3520/svist/internal/config"
	"github.com/VarunSharma3520/svist/internal/types"
)

// Init starts the cursor blinking.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update is the main update function that handles all messages and updates the model state.
//
// The function handles different types of messages including:
// - Key presses
// - Window resize events
// - Spinner ticks while waiting for the backend
// - Status line expiry
// - Everything else is conversation traffic and goes to the store
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case tea.KeyMsg:
		cmd = m.handleKeyMsg(msg)

	case spinner.TickMsg:
		// Let the spinner loop die once the answer is in.
		if m.Store.Awaiting() {
			m.Spinner, cmd = m.Spinner.Update(msg)
		}

	case statusExpiredMsg:
		if msg.seq == m.statusSeq {
			m.StatusMsg = ""
		}

	default:
		// Cursor blinks belong to the prompt field, the rest to the store.
		var inputCmd tea.Cmd
		m.TextInput, inputCmd = m.TextInput.Update(msg)
		cmd = tea.Batch(m.Store.Update(msg), inputCmd)
	}

	m.syncInput()
	m.refresh()
	return m, cmd
}

// handleKeyMsg processes keyboard input messages.
func (m *Model) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyCtrlW, tea.KeyCtrlC:
		return m.quit()
	}

	if m.ScreenMode == types.ModeOptions {
		if m.EditingEndpoint {
			return m.handleEndpointInput(msg)
		}
		return m.handleOptionsKeyPress(msg)
	}

	switch msg.Type {
	case tea.KeyEsc:
		switch {
		case m.Store.Revealing():
			m.Store.Stop()
			return nil
		case m.Store.Awaiting():
			// The request cannot be cancelled; wait for it.
			return nil
		}
		return m.quit()

	case tea.KeyEnter:
		return m.handleChatInput()

	case tea.KeyCtrlY:
		return m.copySelected()

	case tea.KeyShiftUp:
		m.selectResponse(-1)
		return nil

	case tea.KeyShiftDown:
		m.selectResponse(1)
		return nil

	case tea.KeyCtrlO:
		if !m.Store.Busy() {
			m.ScreenMode = types.ModeOptions
			m.SelectedOpt = 0
		}
		return nil

	case tea.KeyPgUp, tea.KeyPgDown, tea.KeyUp, tea.KeyDown:
		var cmd tea.Cmd
		m.Viewport, cmd = m.Viewport.Update(msg)
		return cmd
	}

	if m.Store.Busy() {
		return nil
	}
	var cmd tea.Cmd
	m.TextInput, cmd = m.TextInput.Update(msg)
	m.Store.SetDraft(m.TextInput.Value())
	return cmd
}

// handleChatInput submits the draft.
func (m *Model) handleChatInput() tea.Cmd {
	cmd := m.Store.Submit(m.TextInput.Value())
	if cmd == nil {
		return nil
	}
	m.TextInput.Reset()
	m.selected = -1
	return tea.Batch(cmd, m.Spinner.Tick)
}

// copySelected copies the reveal buffer while typing, else the selected
// answer.
func (m *Model) copySelected() tea.Cmd {
	if m.Store.Revealing() {
		return m.Store.RequestCopy(chat.RevealTarget())
	}
	if i := m.copyIndex(); i >= 0 {
		return m.Store.RequestCopy(chat.MessageTarget(i))
	}
	return nil
}

func (m *Model) quit() tea.Cmd {
	m.Store.Close()
	return tea.Quit
}

// handleOptionsKeyPress handles all key presses when in options mode.
func (m *Model) handleOptionsKeyPress(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		m.ScreenMode = types.ModeChat
		m.SelectedOpt = 0
		return nil

	case tea.KeyTab, tea.KeyDown:
		m.SelectedOpt = (m.SelectedOpt + 1) % len(m.Options)
		return nil

	case tea.KeyShiftTab, tea.KeyUp:
		m.SelectedOpt = (m.SelectedOpt - 1 + len(m.Options)) % len(m.Options)
		return nil

	case tea.KeyEnter:
		return m.handleOptionsSelection()
	}
	return nil
}

// handleEndpointInput handles input when editing the endpoint URL.
func (m *Model) handleEndpointInput(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		m.EditingEndpoint = false
		m.EndpointInput.Blur()
		m.EndpointInput.Reset()
		return m.setStatus("Endpoint change cancelled", 2*time.Second)

	case tea.KeyEnter:
		newURL := strings.TrimSpace(m.EndpointInput.Value())
		m.EditingEndpoint = false
		m.EndpointInput.Blur()
		m.EndpointInput.Reset()
		if newURL == "" {
			return nil
		}
		m.Config.Endpoint.BaseURL = strings.TrimSuffix(newURL, m.Config.Endpoint.Path)
		m.refreshOptions()
		if err := m.applySettings(); err != nil {
			m.log.Error("endpoint change rejected", err)
			return m.setStatus(fmt.Sprintf("Invalid endpoint: %v", err), 3*time.Second)
		}
		return m.setStatus("Endpoint updated", 2*time.Second)

	default:
		var cmd tea.Cmd
		m.EndpointInput, cmd = m.EndpointInput.Update(msg)
		return cmd
	}
}

// handleOptionsSelection handles option selection in the options menu.
func (m *Model) handleOptionsSelection() tea.Cmd {
	switch m.SelectedOpt {
	case optProvider:
		m.cycleProvider()
		if err := m.applySettings(); err != nil {
			m.log.Error("provider change rejected", err)
			return m.setStatus(fmt.Sprintf("Provider not usable: %v", err), 3*time.Second)
		}
		return m.setStatus("Provider set to "+m.Config.Provider, 2*time.Second)

	case optEndpoint:
		m.EditingEndpoint = true
		m.EndpointInput.SetValue(m.Config.Endpoint.URL())
		m.EndpointInput.Focus()
		return textinput.Blink

	case optSave:
		if err := config.Save(m.Config); err != nil {
			m.log.Error("failed to save settings", err)
			return m.setStatus(fmt.Sprintf("Failed to save settings: %v", err), 3*time.Second)
		}
		return m.setStatus("Settings saved successfully!", 2*time.Second)

	case optBack:
		m.ScreenMode = types.ModeChat
		m.SelectedOpt = 0
	}
	return nil
}
