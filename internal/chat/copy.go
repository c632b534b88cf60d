package chat

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

type copyKind int

const (
	copyNone copyKind = iota
	copyMessage
	copyReveal
)

// CopyTarget names what a copy request refers to: a committed message by
// index or the in-progress reveal buffer. The zero value means nothing.
type CopyTarget struct {
	kind  copyKind
	index int
}

// MessageTarget refers to the committed message at index i.
func MessageTarget(i int) CopyTarget { return CopyTarget{kind: copyMessage, index: i} }

// RevealTarget refers to the in-progress reveal buffer.
func RevealTarget() CopyTarget { return CopyTarget{kind: copyReveal} }

func (t CopyTarget) IsZero() bool { return t.kind == copyNone }

// Message reports the message index when t refers to a committed message.
func (t CopyTarget) Message() (int, bool) { return t.index, t.kind == copyMessage }

func (t CopyTarget) IsReveal() bool { return t.kind == copyReveal }

func (t CopyTarget) String() string {
	switch t.kind {
	case copyMessage:
		return fmt.Sprintf("message[%d]", t.index)
	case copyReveal:
		return "in-progress"
	default:
		return "none"
	}
}

// RequestCopy writes the target's text to the clipboard and shows an
// acknowledgment for the configured feedback window. Clipboard failures
// are logged and otherwise ignored; unknown targets are ignored.
func (s *Store) RequestCopy(target CopyTarget) tea.Cmd {
	if s.closed {
		return nil
	}
	text, ok := s.copyText(target)
	if !ok {
		return nil
	}

	if err := s.clipboard.WriteAll(text); err != nil {
		s.log.Warn("failed to copy text", zap.Stringer("target", target), zap.Error(err))
		return nil
	}

	s.copySeq++
	s.copyTarget = target
	return s.schedule(s.copyFeedback, copyExpiredMsg{seq: s.copySeq})
}

func (s *Store) copyText(target CopyTarget) (string, bool) {
	switch target.kind {
	case copyMessage:
		if target.index < 0 || target.index >= len(s.messages) {
			return "", false
		}
		return s.messages[target.index].Content, true
	case copyReveal:
		if !s.animator.Revealing() {
			return "", false
		}
		return s.animator.Prefix(), true
	default:
		return "", false
	}
}
