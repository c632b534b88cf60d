// Package chat owns the conversation: the append-only transcript plus the
// transient state of the prompt currently in flight (draft input, awaiting
// response, typing reveal, error banner, copy acknowledgment).
//
// All mutation happens on the Bubble Tea event loop. Asynchronous work (the
// backend call) and timed work (reveal steps, copy feedback expiry) are
// returned as tea.Cmds whose messages come back through Update.
package chat

import (
	"context"
	"errors"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/VarunSharma3520/svist/internal/backend"
	"github.com/VarunSharma3520/svist/internal/clipboard"
	"github.com/VarunSharma3520/svist/internal/logger"
	"github.com/VarunSharma3520/svist/internal/reveal"
	"github.com/VarunSharma3520/svist/internal/types"
)

// ErrorMessage is the only backend failure text shown to the user.
const ErrorMessage = "Unable to get a response from the server. Please try again."

// DefaultCopyFeedback is how long a copy acknowledgment stays visible.
const DefaultCopyFeedback = 2 * time.Second

// Scheduler turns "deliver msg after d" into a command.
type Scheduler func(d time.Duration, msg tea.Msg) tea.Cmd

// TickScheduler schedules with tea.Tick.
func TickScheduler(d time.Duration, msg tea.Msg) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return msg })
}

// revealStepMsg fires one scheduled reveal step.
type revealStepMsg struct{ task *reveal.Task }

// copyExpiredMsg ends the copy acknowledgment identified by seq.
type copyExpiredMsg struct{ seq int }

// Options configures a Store. Zero values pick the defaults.
type Options struct {
	Responder    backend.Responder
	Clipboard    clipboard.Writer
	Animator     *reveal.Animator
	Scheduler    Scheduler
	CopyFeedback time.Duration
	Logger       *logger.Logger
}

// Store is the conversation state for one session.
type Store struct {
	messages  []types.Message
	draft     string
	awaiting  bool
	requestID string
	lastError string

	animator *reveal.Animator

	copyTarget   CopyTarget
	copySeq      int
	copyFeedback time.Duration

	responder backend.Responder
	clipboard clipboard.Writer
	schedule  Scheduler
	log       *logger.Logger

	ctx    context.Context
	cancel context.CancelFunc
	closed bool
}

// New creates an empty conversation.
func New(opts Options) *Store {
	if opts.Clipboard == nil {
		opts.Clipboard = clipboard.System{}
	}
	if opts.Animator == nil {
		opts.Animator = reveal.New()
	}
	if opts.Scheduler == nil {
		opts.Scheduler = TickScheduler
	}
	if opts.CopyFeedback <= 0 {
		opts.CopyFeedback = DefaultCopyFeedback
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Store{
		animator:     opts.Animator,
		copyFeedback: opts.CopyFeedback,
		responder:    opts.Responder,
		clipboard:    opts.Clipboard,
		schedule:     opts.Scheduler,
		log:          opts.Logger,
		ctx:          ctx,
		cancel:       cancel,
	}
}

// Messages returns a copy of the transcript.
func (s *Store) Messages() []types.Message {
	out := make([]types.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

func (s *Store) Len() int { return len(s.messages) }

func (s *Store) Draft() string { return s.draft }

func (s *Store) SetDraft(text string) { s.draft = text }

func (s *Store) Awaiting() bool { return s.awaiting }

func (s *Store) Revealing() bool { return s.animator.Revealing() }

func (s *Store) LastError() string { return s.lastError }

// CopyFeedback returns the target of the copy acknowledgment currently
// shown, or the zero CopyTarget.
func (s *Store) CopyFeedback() CopyTarget { return s.copyTarget }

// Revealed returns the reveal buffer: the text shown so far while a reveal
// is running, empty otherwise.
func (s *Store) Revealed() string {
	if !s.animator.Revealing() {
		return ""
	}
	return s.animator.Prefix()
}

// SetResponder switches the backend used by later submissions. A request
// already in flight completes against the old one.
func (s *Store) SetResponder(r backend.Responder) { s.responder = r }

// Busy reports whether a new prompt would be refused.
func (s *Store) Busy() bool { return s.awaiting || s.animator.Revealing() }

// LastAssistant returns the index of the newest assistant message, or -1.
func (s *Store) LastAssistant() int {
	for i := len(s.messages) - 1; i >= 0; i-- {
		if s.messages[i].Role == types.RoleAssistant {
			return i
		}
	}
	return -1
}

// Submit sends text as the next user turn. Blank text, a busy store and a
// closed store are ignored and yield no command.
func (s *Store) Submit(text string) tea.Cmd {
	prompt := strings.TrimSpace(text)
	if prompt == "" || s.Busy() || s.closed {
		return nil
	}
	if s.responder == nil {
		s.log.Error("no responder configured", errors.New("nil responder"))
		return nil
	}

	s.append(types.RoleUser, prompt)
	s.draft = ""
	s.lastError = ""
	s.awaiting = true
	s.requestID = backend.NewRequestID()

	s.log.Info("prompt submitted",
		zap.String("request_id", s.requestID),
		zap.Int("prompt_len", len(prompt)))
	return backend.AskCmd(s.ctx, s.responder, s.requestID, prompt)
}

// Stop interrupts the reveal and commits what has been shown so far. It
// reports whether a reveal was running.
func (s *Store) Stop() bool {
	prefix, err := s.animator.Stop()
	if err != nil {
		return false
	}
	s.append(types.RoleAssistant, prefix)
	s.log.Info("reveal stopped",
		zap.Stringer("cycle", s.animator.Cycle()),
		zap.Int("revealed", len(prefix)))
	return true
}

// Close tears the session down: the pending reveal step and copy expiry are
// cancelled, the in-flight request is abandoned and later messages are
// ignored.
func (s *Store) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.animator.Close()
	s.copySeq++
	s.cancel()
	s.awaiting = false
}

// Update applies messages produced by the commands this store returned.
func (s *Store) Update(msg tea.Msg) tea.Cmd {
	if s.closed {
		return nil
	}
	switch msg := msg.(type) {
	case types.ResponseMsg:
		return s.handleResponse(msg)
	case types.ResponseErrMsg:
		s.handleResponseErr(msg)
	case revealStepMsg:
		return s.handleStep(msg)
	case copyExpiredMsg:
		if msg.seq == s.copySeq {
			s.copyTarget = CopyTarget{}
		}
	}
	return nil
}

func (s *Store) handleResponse(msg types.ResponseMsg) tea.Cmd {
	if !s.awaiting || msg.RequestID != s.requestID {
		return nil
	}
	s.awaiting = false

	task, err := s.animator.Start(msg.Text)
	if err != nil {
		s.log.Error("reveal not started", err, zap.String("request_id", msg.RequestID))
		return nil
	}
	s.log.Debug("reveal started",
		zap.String("request_id", msg.RequestID),
		zap.Stringer("cycle", task.Cycle),
		zap.Int("response_len", len(msg.Text)))
	// The first character shows up together with the answer, so a stop
	// always commits at least one character of a non-empty response.
	return s.advance(task)
}

func (s *Store) handleResponseErr(msg types.ResponseErrMsg) {
	if !s.awaiting || msg.RequestID != s.requestID {
		return
	}
	s.awaiting = false
	s.lastError = ErrorMessage
	s.log.Error("backend request failed", msg.Err, zap.String("request_id", msg.RequestID))
}

func (s *Store) handleStep(msg revealStepMsg) tea.Cmd {
	return s.advance(msg.task)
}

// advance runs one reveal step and schedules the next.
func (s *Store) advance(t *reveal.Task) tea.Cmd {
	res := s.animator.Advance(t)
	switch {
	case !res.Applied:
		return nil
	case res.Done:
		s.append(types.RoleAssistant, res.Committed)
		s.log.Debug("reveal completed", zap.Stringer("cycle", t.Cycle))
		return nil
	default:
		return s.scheduleStep(res.Next)
	}
}

func (s *Store) scheduleStep(t *reveal.Task) tea.Cmd {
	if t == nil {
		return nil
	}
	return s.schedule(t.Delay, revealStepMsg{task: t})
}

func (s *Store) append(role types.Role, content string) {
	s.messages = append(s.messages, types.Message{Role: role, Content: content})
}
