// Package ui provides the terminal user interface components for svist.
// It uses the Bubble Tea framework for building interactive terminal applications.
package ui

import (
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	"github.com/VarunSharma3520/svist/internal/config"
)

// NewTextInput creates and configures the prompt field of the chat screen.
//
// Example:
//
//	input := NewTextInput()
//	// Use in your Bubble Tea model's Update method
func NewTextInput() textinput.Model {
	ti := textinput.New()

	ti.Placeholder = "Type your message..."
	ti.Focus()
	ti.CharLimit = 4096
	ti.Width = 64

	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(config.MainColorForeground))

	return ti
}

// NewEndpointInput creates the field used to edit the backend URL on the
// options screen. It starts blurred.
func NewEndpointInput() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = config.DefaultUpstream + config.DefaultChatPath
	ti.CharLimit = 512
	ti.Width = 64
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(config.MainColorForeground))
	return ti
}
