package session

import (
	"errors"
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/verte-zerg/tuifit/internal/metrics"
	"github.com/verte-zerg/tuifit/internal/model"
)

// DefaultRestSeconds seeds rests for exercises without a configured rest.
const DefaultRestSeconds = 60

// Defaults for exercises added from the overview.
const (
	addedSets = 3
	addedReps = "10"
	addedRest = 60
)

// Errors returned by overview edits.
var (
	ErrUnknownExercise = errors.New("unknown exercise")
	ErrAlreadyPresent  = errors.New("exercise already in routine")
	ErrIndexOutOfRange = errors.New("exercise index out of range")
)

// ExerciseLookup resolves exercise ids.
type ExerciseLookup interface {
	Get(id string) (model.Exercise, bool)
	All() []model.Exercise
}

// OverrideStore holds per-routine exercise lists.
type OverrideStore interface {
	EffectiveExercises(routineID string, defaults []model.WorkoutExercise) []model.WorkoutExercise
	SetEffectiveExercises(routineID string, exercises []model.WorkoutExercise)
}

// LogWriter records completed sessions.
type LogWriter interface {
	Add(routineID, routineName string, completedAt time.Time, durationMinutes, exercisesCompleted int) model.WorkoutLog
}

// Slot is one scheduled exercise with its resolved catalog entry. Resolved is
// false when the exercise id no longer exists; the slot still keeps its index.
type Slot struct {
	Index    int
	Item     model.WorkoutExercise
	Exercise model.Exercise
	Resolved bool
	// Rest is the rest that follows this exercise, with the session default
	// applied when none is configured.
	Rest int
}

// Engine runs one workout attempt. It owns the State and performs the side effects
// of each transition: override writes, the final log and feedback signals. An
// Engine is driven from a single goroutine.
type Engine struct {
	routine   model.WorkoutRoutine
	exercises ExerciseLookup
	overrides OverrideStore
	logs      LogWriter
	feedback  Feedback
	metrics   *metrics.Manager
	log       logrus.FieldLogger
	rest      int

	state     State
	items     []model.WorkoutExercise
	startedAt time.Time
	result    *model.WorkoutLog
}

// Option customizes an Engine.
type Option func(*Engine)

// WithFeedback sends transition signals to f. A nil f keeps the silent default.
func WithFeedback(f Feedback) Option {
	return func(e *Engine) {
		if f != nil {
			e.feedback = f
		}
	}
}

// WithMetrics records finished exercises and completed sessions into m.
func WithMetrics(m *metrics.Manager) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithLogger replaces the default logrus logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(e *Engine) { e.log = l }
}

// WithDefaultRest overrides the rest used for exercises without one.
func WithDefaultRest(seconds int) Option {
	return func(e *Engine) {
		if seconds > 0 {
			e.rest = seconds
		}
	}
}

// NewEngine loads the routine's effective exercise list and starts in Overview.
func NewEngine(routine model.WorkoutRoutine, exercises ExerciseLookup, overrides OverrideStore, logs LogWriter, opts ...Option) *Engine {
	e := &Engine{
		routine:   model.CloneRoutine(routine),
		exercises: exercises,
		overrides: overrides,
		logs:      logs,
		feedback:  nopFeedback{},
		log:       logrus.StandardLogger(),
		rest:      DefaultRestSeconds,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.items = model.CloneExercises(overrides.EffectiveExercises(routine.ID, routine.Exercises))
	return e
}

// Routine returns the routine this session runs.
func (e *Engine) Routine() model.WorkoutRoutine {
	return e.routine
}

// State returns the current FSM state.
func (e *Engine) State() State {
	return e.state
}

// Count is the length of the working list.
func (e *Engine) Count() int {
	return len(e.items)
}

// Slots returns every slot of the working list with its resolution.
func (e *Engine) Slots() []Slot {
	out := make([]Slot, 0, len(e.items))
	for i := range e.items {
		out = append(out, e.slot(i))
	}
	return out
}

// Current returns the slot at the current index. ok is false when there is no
// slot there (empty list or finished session).
func (e *Engine) Current() (Slot, bool) {
	if e.state.Phase == Complete || e.state.Index >= len(e.items) {
		return Slot{}, false
	}
	return e.slot(e.state.Index), true
}

// Next returns the slot after the current one, used to preview during rest.
func (e *Engine) Next() (Slot, bool) {
	i := e.state.Index + 1
	if e.state.Phase == Complete || i >= len(e.items) {
		return Slot{}, false
	}
	return e.slot(i), true
}

func (e *Engine) slot(i int) Slot {
	item := e.items[i]
	ex, ok := e.exercises.Get(item.ExerciseID)
	return Slot{Index: i, Item: item, Exercise: ex, Resolved: ok, Rest: item.RestOr(e.rest)}
}

// Available lists registry exercises not yet in the working list.
func (e *Engine) Available() []model.Exercise {
	present := make(map[string]struct{}, len(e.items))
	for _, it := range e.items {
		present[it.ExerciseID] = struct{}{}
	}

	all := e.exercises.All()
	out := make([]model.Exercise, 0, len(all))
	for _, ex := range all {
		if _, ok := present[ex.ID]; ok {
			continue
		}
		out = append(out, ex)
	}
	return out
}

// Select moves the overview cursor.
func (e *Engine) Select(index int) error {
	next, err := e.state.Select(index, len(e.items))
	if err != nil {
		return err
	}
	e.state = next
	return nil
}

// AddExercise appends exerciseID with default sets, reps and rest and saves the
// list as the routine's override.
func (e *Engine) AddExercise(exerciseID string) error {
	if e.state.Phase != Overview {
		return ErrInvalidTransition
	}
	if _, ok := e.exercises.Get(exerciseID); !ok {
		return ErrUnknownExercise
	}
	for _, it := range e.items {
		if it.ExerciseID == exerciseID {
			return ErrAlreadyPresent
		}
	}
	next := make([]model.WorkoutExercise, 0, len(e.items)+1)
	next = append(next, e.items...)
	next = append(next, model.WorkoutExercise{
		ExerciseID:  exerciseID,
		Sets:        addedSets,
		Reps:        addedReps,
		RestSeconds: model.Seconds(addedRest),
	})
	e.items = next
	e.save()
	return nil
}

// RemoveExercise drops the slot at index and saves the list as the routine's
// override. Removal is only possible from the overview.
func (e *Engine) RemoveExercise(index int) error {
	if e.state.Phase != Overview {
		return ErrInvalidTransition
	}
	if index < 0 || index >= len(e.items) {
		return ErrIndexOutOfRange
	}
	next := make([]model.WorkoutExercise, 0, len(e.items)-1)
	next = append(next, e.items[:index]...)
	next = append(next, e.items[index+1:]...)
	state, err := e.state.Removed(len(next))
	if err != nil {
		return err
	}
	e.items = next
	e.state = state
	e.save()
	return nil
}

func (e *Engine) save() {
	e.overrides.SetEffectiveExercises(e.routine.ID, e.items)
}

// Start records the start time and enters the first exercise. The working list is
// frozen from here on.
func (e *Engine) Start(now time.Time) error {
	next, err := e.state.Start()
	if err != nil {
		return err
	}
	e.state = next
	e.startedAt = now

	e.log.WithFields(logrus.Fields{
		"routine":   e.routine.ID,
		"exercises": len(e.items),
	}).Debug("session started")
	e.feedback.Signal(SessionStarted)
	return nil
}

// Finish marks the current exercise done. On the last exercise the session
// completes and exactly one workout log is written.
func (e *Engine) Finish(now time.Time) error {
	rest := e.rest
	if e.state.Phase == Active && e.state.Index < len(e.items) {
		rest = e.items[e.state.Index].RestOr(e.rest)
	}
	next, err := e.state.Finish(len(e.items), rest)
	if err != nil {
		return err
	}
	finished := e.state.Index < len(e.items)
	e.state = next
	if next.Phase != Complete {
		e.exerciseFinished(finished)
		e.feedback.Signal(ExerciseFinished)
		return nil
	}

	minutes := int(math.Round(now.Sub(e.startedAt).Minutes()))
	if minutes < 0 {
		minutes = 0
	}
	entry := e.logs.Add(e.routine.ID, e.routine.Name, now, minutes, len(e.items))
	e.result = &entry

	e.exerciseFinished(finished)
	if e.metrics != nil {
		e.metrics.CounterSessionsCompleted.Inc()
	}
	e.log.WithFields(logrus.Fields{
		"routine":  e.routine.ID,
		"log":      entry.ID,
		"duration": minutes,
	}).Info("workout completed")
	e.feedback.Signal(WorkoutCompleted)
	return nil
}

func (e *Engine) exerciseFinished(counted bool) {
	if counted && e.metrics != nil {
		e.metrics.CounterExercisesFinished.Inc()
	}
}

// Tick advances the rest countdown by one second. It reports whether this tick
// ended the rest.
func (e *Engine) Tick() bool {
	next, advanced := e.state.Tick()
	e.state = next
	if advanced {
		e.feedback.Signal(RestFinished)
	}
	return advanced
}

// SkipRest ends the current rest immediately.
func (e *Engine) SkipRest() error {
	next, err := e.state.SkipRest()
	if err != nil {
		return err
	}
	e.state = next
	e.feedback.Signal(RestSkipped)
	return nil
}

// Skip jumps to the next exercise without a rest.
func (e *Engine) Skip() error {
	next, err := e.state.Skip(len(e.items))
	if err != nil {
		return err
	}
	e.state = next
	return nil
}

// Progress is the share of the working list reached, in [0,1].
func (e *Engine) Progress() float64 {
	return e.state.Progress(len(e.items))
}

// Result returns the log written on completion.
func (e *Engine) Result() (model.WorkoutLog, bool) {
	if e.result == nil {
		return model.WorkoutLog{}, false
	}
	return *e.result, true
}
