package session

// Signal is a cosmetic notification raised on state transitions.
type Signal int

const (
	SessionStarted Signal = iota
	ExerciseFinished
	RestSkipped
	RestFinished
	WorkoutCompleted
	TimerDone
)

// String names the signal for logs.
func (s Signal) String() string {
	switch s {
	case SessionStarted:
		return "session-started"
	case ExerciseFinished:
		return "exercise-finished"
	case RestSkipped:
		return "rest-skipped"
	case RestFinished:
		return "rest-finished"
	case WorkoutCompleted:
		return "workout-completed"
	case TimerDone:
		return "timer-done"
	default:
		return "unknown"
	}
}

// Feedback receives signals. Implementations must not block; nothing depends on
// delivery.
type Feedback interface {
	Signal(Signal)
}

// FeedbackFunc adapts a function to Feedback.
type FeedbackFunc func(Signal)

// Signal calls f(s).
func (f FeedbackFunc) Signal(s Signal) { f(s) }

type nopFeedback struct{}

func (nopFeedback) Signal(Signal) {}
