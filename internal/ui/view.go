package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/VarunSharma3520/svist/internal/types"
)

const (
	appTitle       = "Chatbot SVIST"
	userLabel      = "Your message:"
	assistantLabel = "Response:"
	emptyHint      = "Enter a prompt to start the conversation"
	thinkingText   = "Thinking..."
	copiedText     = "✓ Copied"
	selectedText   = "◂ ctrl+y copies this"
)

// renderOptions renders the options screen with a list of selectable options
func (m *Model) renderOptions() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Options"))
	sb.WriteString("\n\n")

	if m.EditingEndpoint {
		sb.WriteString("Enter endpoint URL (press Enter to save, Esc to cancel):\n")
		sb.WriteString(m.EndpointInput.View())
		return sb.String()
	}

	for i, option := range m.Options {
		prefix := "  "
		if i == m.SelectedOpt {
			prefix = "➜ "
		}
		sb.WriteString(optionStyle.Render(prefix + option))
		sb.WriteString("\n")
	}
	return sb.String()
}

// renderTranscript draws the committed messages followed by the transient
// state: the waiting indicator, the bubble being typed and the error banner.
func (m *Model) renderTranscript() string {
	msgs := m.Store.Messages()
	revealing := m.Store.Revealing()
	if len(msgs) == 0 && !m.Store.Awaiting() && !revealing && m.Store.LastError() == "" {
		return helpStyle.Render(emptyHint)
	}

	copied := m.Store.CopyFeedback()
	width := max(m.Viewport.Width-4, 10)
	pick := -1
	if !revealing && len(msgs) > 0 {
		pick = m.copyIndex()
	}

	var blocks []string
	for i, msg := range msgs {
		switch msg.Role {
		case types.RoleUser:
			blocks = append(blocks, labelStyle.Render(userLabel)+"\n"+
				userBubbleStyle.Width(width).Render(msg.Content))
		case types.RoleAssistant:
			label := labelStyle.Render(assistantLabel)
			if idx, ok := copied.Message(); ok && idx == i {
				label += " " + copiedStyle.Render(copiedText)
			} else if i == pick && m.selected >= 0 {
				label += " " + copyHintStyle.Render(selectedText)
			}
			blocks = append(blocks, label+"\n"+
				assistantBubbleStyle.Width(width).Render(msg.Content))
		}
	}

	if m.Store.Awaiting() {
		blocks = append(blocks, m.Spinner.View()+" "+helpStyle.Render(thinkingText))
	}

	if revealing {
		label := labelStyle.Render(assistantLabel)
		if copied.IsReveal() {
			label += " " + copiedStyle.Render(copiedText)
		} else {
			label += " " + copyHintStyle.Render("esc stop · ctrl+y copy")
		}
		blocks = append(blocks, label+"\n"+
			revealBubbleStyle.Width(width).Render(m.Store.Revealed()+"▌"))
	}

	if e := m.Store.LastError(); e != "" {
		blocks = append(blocks, errorStyle.Render(e))
	}

	return strings.Join(blocks, "\n\n")
}

// renderInput draws the prompt field and the send indicator.
func (m *Model) renderInput() string {
	send := helpStyle.Render("[Send]")
	switch {
	case m.Store.Awaiting():
		send = helpStyle.Render("[Sending...]")
	case m.Store.Revealing():
		send = helpStyle.Render("[Typing...]")
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, m.TextInput.View(), " ", send)
}

func (m *Model) chatHelp() string {
	switch {
	case m.Store.Awaiting():
		return "Waiting for the server… Ctrl+W: Quit"
	case m.Store.Revealing():
		return "Esc: Stop • Ctrl+Y: Copy • Ctrl+W: Quit"
	case m.Store.LastAssistant() >= 0:
		return "Enter: Send • Ctrl+Y: Copy response • Shift+↑/↓: Pick response • PgUp/PgDn: Scroll • Ctrl+O: Options • Esc: Quit"
	default:
		return "Enter: Send • Ctrl+O: Options • Esc: Quit"
	}
}

// View renders the current state of the UI based on the current screen mode
func (m *Model) View() string {
	var content string
	var instructions string

	switch m.ScreenMode {
	case types.ModeChat:
		content = fmt.Sprintf("%s\n\n%s", m.Viewport.View(), m.renderInput())
		instructions = helpStyle.Render(m.chatHelp())

	case types.ModeOptions:
		content = m.renderOptions()
		instructions = helpStyle.Render("Tab: Navigate • Enter: Select • Esc: Back to Chat • Ctrl+W: Quit")

	default:
		content = "[Unknown Screen]"
	}

	statusBar := ""
	if m.StatusMsg != "" {
		statusBar = fmt.Sprintf("\n%s", statusStyle.Render(m.StatusMsg))
	}

	return fmt.Sprintf("%s\n\n%s\n\n%s%s\n",
		titleStyle.Render(appTitle),
		content,
		instructions,
		statusBar,
	)
}
