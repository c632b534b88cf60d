// Package reveal implements the typing animation that discloses a fully
// received response one character at a time.
//
// The Animator never sleeps and never starts goroutines. Every step it wants
// to run is handed back to the caller as a Task carrying the delay to wait;
// the caller schedules it and passes it back to Advance when it fires. A Task
// can be cancelled, after which Advance ignores it, so a stop or a teardown
// deterministically prevents late steps.
package reveal

import (
	"errors"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/qmuntal/stateless"
)

// Default typing speed.
const (
	DefaultMinDelay = 15 * time.Millisecond
	DefaultMaxDelay = 30 * time.Millisecond
	// DefaultInitialDelay is kept for configuration compatibility only; the
	// first character is revealed without waiting.
	DefaultInitialDelay = 300 * time.Millisecond
)

var (
	ErrAlreadyRevealing = errors.New("reveal already in progress")
	ErrNotRevealing     = errors.New("no reveal in progress")
)

type state string

const (
	stateIdle      state = "Idle"
	stateRevealing state = "Revealing"
)

type trigger string

const (
	triggerStart    trigger = "Start"
	triggerComplete trigger = "Complete"
	triggerStop     trigger = "Stop"
	triggerClose    trigger = "Close"
)

// Task is the handle of one scheduled reveal step.
type Task struct {
	Cycle uuid.UUID
	Seq   int
	Delay time.Duration

	cancelled bool
}

// Cancel prevents the step from having any effect when it fires.
func (t *Task) Cancel() {
	if t != nil {
		t.cancelled = true
	}
}

func (t *Task) Cancelled() bool { return t == nil || t.cancelled }

// Result describes what a step did.
type Result struct {
	// Applied is false when the task was stale or cancelled.
	Applied bool
	// Next is the step to schedule, nil once the cycle ended.
	Next *Task
	// Done is set on natural completion; Committed then holds the full text.
	Done      bool
	Committed string
}

// Option configures an Animator.
type Option func(*Animator)

// WithDelays sets the inclusive range each inter-step delay is drawn from.
func WithDelays(min, max time.Duration) Option {
	return func(a *Animator) {
		if min < 0 {
			min = 0
		}
		if max < min {
			max = min
		}
		a.minDelay, a.maxDelay = min, max
	}
}

// WithRandom replaces the uniform [0,1) source used for delays.
func WithRandom(f func() float64) Option {
	return func(a *Animator) {
		if f != nil {
			a.random = f
		}
	}
}

// Animator owns one reveal cycle at a time.
type Animator struct {
	fsm *stateless.StateMachine

	minDelay time.Duration
	maxDelay time.Duration
	random   func() float64

	cycle    uuid.UUID
	full     []rune
	revealed int
	seq      int
	pending  *Task
}

// New returns an idle Animator.
func New(opts ...Option) *Animator {
	a := &Animator{
		minDelay: DefaultMinDelay,
		maxDelay: DefaultMaxDelay,
		random:   rand.Float64,
	}
	for _, opt := range opts {
		opt(a)
	}

	a.fsm = stateless.NewStateMachine(stateIdle)
	a.fsm.Configure(stateIdle).
		Permit(triggerStart, stateRevealing).
		Ignore(triggerClose)
	a.fsm.Configure(stateRevealing).
		Permit(triggerComplete, stateIdle).
		Permit(triggerStop, stateIdle).
		Permit(triggerClose, stateIdle)

	return a
}

// Revealing reports whether a cycle is active.
func (a *Animator) Revealing() bool {
	ok, _ := a.fsm.IsInState(stateRevealing)
	return ok
}

// Prefix returns the text revealed so far in the current cycle.
func (a *Animator) Prefix() string {
	return string(a.full[:a.revealed])
}

// Full returns the complete text of the current cycle.
func (a *Animator) Full() string { return string(a.full) }

// Cycle returns the identifier of the current or last cycle.
func (a *Animator) Cycle() uuid.UUID { return a.cycle }

// Start begins revealing full and returns the first step to schedule.
func (a *Animator) Start(full string) (*Task, error) {
	if ok, _ := a.fsm.CanFire(triggerStart); !ok {
		return nil, ErrAlreadyRevealing
	}
	if err := a.fsm.Fire(triggerStart); err != nil {
		return nil, err
	}

	a.cycle = uuid.New()
	a.full = []rune(full)
	a.revealed = 0
	a.seq = 0
	return a.schedule(0), nil
}

// Advance runs the step t. Stale or cancelled tasks are ignored.
func (a *Animator) Advance(t *Task) Result {
	if t.Cancelled() || t != a.pending || !a.Revealing() {
		return Result{}
	}
	a.pending = nil

	if a.revealed < len(a.full) {
		a.revealed++
	}
	if a.revealed < len(a.full) {
		return Result{Applied: true, Next: a.schedule(a.nextDelay())}
	}

	if err := a.fsm.Fire(triggerComplete); err != nil {
		return Result{}
	}
	return Result{Applied: true, Done: true, Committed: string(a.full)}
}

// Stop ends the cycle early and returns the prefix revealed so far, which
// the caller commits in place of the full text.
func (a *Animator) Stop() (string, error) {
	if ok, _ := a.fsm.CanFire(triggerStop); !ok {
		return "", ErrNotRevealing
	}
	a.cancelPending()
	if err := a.fsm.Fire(triggerStop); err != nil {
		return "", err
	}
	return a.Prefix(), nil
}

// Close cancels any pending step without committing anything.
func (a *Animator) Close() {
	a.cancelPending()
	_ = a.fsm.Fire(triggerClose)
}

func (a *Animator) cancelPending() {
	a.pending.Cancel()
	a.pending = nil
}

func (a *Animator) schedule(d time.Duration) *Task {
	a.seq++
	a.pending = &Task{Cycle: a.cycle, Seq: a.seq, Delay: d}
	return a.pending
}

func (a *Animator) nextDelay() time.Duration {
	span := a.maxDelay - a.minDelay
	return a.minDelay + time.Duration(a.random()*float64(span+1))
}
