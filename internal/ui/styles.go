// Package ui provides the terminal user interface components for svist.
// This file contains style definitions for various UI elements using the lipgloss library.
package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/VarunSharma3520/svist/internal/config"
)

// Global style definitions for consistent theming across the application.
var (
	// titleStyle defines the styling for the application title/header.
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(config.MainColorBackground)).
			Background(lipgloss.Color(config.MainColorForeground)).
			PaddingRight(4).
			PaddingLeft(4).
			AlignVertical(lipgloss.Center)

	// helpStyle defines the styling for help/instruction text.
	helpStyle = lipgloss.NewStyle().
			Italic(true).
			Foreground(lipgloss.Color(config.MainColorBackgroundMute))

	// optionStyle is the style for the entries on the options screen.
	optionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			MarginLeft(2)

	// statusStyle is the style for status messages.
	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("170")).
			Italic(true)

	labelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(config.MainColorForeground))

	userBubbleStyle = lipgloss.NewStyle().
			PaddingLeft(2).
			Foreground(lipgloss.Color("252"))

	assistantBubbleStyle = lipgloss.NewStyle().
				PaddingLeft(2).
				BorderStyle(lipgloss.NormalBorder()).
				BorderLeft(true).
				BorderForeground(lipgloss.Color("63"))

	// revealBubbleStyle marks the bubble that is still being typed.
	revealBubbleStyle = assistantBubbleStyle.
				BorderForeground(lipgloss.Color("205"))

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))

	copiedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	copyHintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	spinnerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205"))
)
