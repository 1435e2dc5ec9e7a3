// Package session drives a single workout attempt from overview to completion.
package session

import "errors"

// ErrInvalidTransition is returned when an action is not allowed in the current phase.
var ErrInvalidTransition = errors.New("invalid session transition")

// Phase is the coarse position of a session.
type Phase int

const (
	Overview Phase = iota
	Active
	Resting
	Complete
)

// String names the phase for logs.
func (p Phase) String() string {
	switch p {
	case Overview:
		return "overview"
	case Active:
		return "active"
	case Resting:
		return "resting"
	case Complete:
		return "complete"
	default:
		return "unknown"
	}
}

// State is the session state machine. In Overview, Index is the selected slot;
// in Active and Resting it is the exercise being worked (or just finished).
//
// Transitions are pure: each returns the next state and leaves the receiver alone.
type State struct {
	Phase Phase
	Index int
	Rest  Countdown
}

// Select moves the overview cursor, clamped to the list.
func (s State) Select(index, count int) (State, error) {
	if s.Phase != Overview {
		return s, ErrInvalidTransition
	}
	s.Index = clamp(index, count)
	return s, nil
}

// Removed adjusts the overview cursor after a slot was removed, leaving count
// slots. When the cursor has no valid slot left it steps back by one, never below
// zero.
func (s State) Removed(count int) (State, error) {
	if s.Phase != Overview {
		return s, ErrInvalidTransition
	}
	if s.Index >= count {
		s.Index--
	}
	if s.Index < 0 {
		s.Index = 0
	}
	return s, nil
}

// Start enters the first exercise.
func (s State) Start() (State, error) {
	if s.Phase != Overview {
		return s, ErrInvalidTransition
	}
	return State{Phase: Active}, nil
}

// Finish completes the current exercise. The last exercise (or an empty list)
// completes the session; any other starts a running rest of restSeconds.
func (s State) Finish(count, restSeconds int) (State, error) {
	if s.Phase != Active {
		return s, ErrInvalidTransition
	}
	if s.Index >= count-1 {
		return State{Phase: Complete, Index: s.Index}, nil
	}
	rest := NewCountdown(restSeconds)
	if !rest.Start() {
		// Zero-length rest goes straight to the next exercise.
		return State{Phase: Active, Index: s.Index + 1}, nil
	}
	return State{Phase: Resting, Index: s.Index, Rest: rest}, nil
}

// Tick advances the rest countdown by one second. advanced is true on the single
// tick that moves the session to the next exercise.
func (s State) Tick() (next State, advanced bool) {
	if s.Phase != Resting {
		return s, false
	}
	if !s.Rest.Tick() {
		return s, false
	}
	return State{Phase: Active, Index: s.Index + 1}, true
}

// SkipRest ends the rest early.
func (s State) SkipRest() (State, error) {
	if s.Phase != Resting {
		return s, ErrInvalidTransition
	}
	return State{Phase: Active, Index: s.Index + 1}, nil
}

// Skip moves to the next exercise without resting. It is not allowed on the last one.
func (s State) Skip(count int) (State, error) {
	if s.Phase != Active || s.Index >= count-1 {
		return s, ErrInvalidTransition
	}
	return State{Phase: Active, Index: s.Index + 1}, nil
}

// Progress is (index+1)/max(1,count), clamped to [0,1]. Overview reports zero.
func (s State) Progress(count int) float64 {
	switch s.Phase {
	case Overview:
		return 0
	case Complete:
		return 1
	}
	denom := count
	if denom < 1 {
		denom = 1
	}
	p := float64(s.Index+1) / float64(denom)
	if p > 1 {
		return 1
	}
	if p < 0 {
		return 0
	}
	return p
}

func clamp(index, count int) int {
	if index >= count {
		index = count - 1
	}
	if index < 0 {
		index = 0
	}
	return index
}
