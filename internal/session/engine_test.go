package session

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"

	"github.com/verte-zerg/tuifit/internal/metrics"
	"github.com/verte-zerg/tuifit/internal/model"
)

type fakeExercises map[string]model.Exercise

func (f fakeExercises) Get(id string) (model.Exercise, bool) {
	ex, ok := f[id]
	return ex, ok
}

func (f fakeExercises) All() []model.Exercise {
	out := make([]model.Exercise, 0, len(f))
	for _, id := range []string{"squat", "plank", "lunge", "row"} {
		if ex, ok := f[id]; ok {
			out = append(out, ex)
		}
	}
	return out
}

type fakeOverrides struct {
	lists map[string][]model.WorkoutExercise
	sets  int
}

func (f *fakeOverrides) EffectiveExercises(id string, defaults []model.WorkoutExercise) []model.WorkoutExercise {
	if list, ok := f.lists[id]; ok {
		return list
	}
	return defaults
}

func (f *fakeOverrides) SetEffectiveExercises(id string, list []model.WorkoutExercise) {
	f.lists[id] = model.CloneExercises(list)
	f.sets++
}

type fakeLogs struct {
	logs []model.WorkoutLog
}

func (f *fakeLogs) Add(routineID, routineName string, completedAt time.Time, duration, completed int) model.WorkoutLog {
	l := model.WorkoutLog{
		ID:                 "log",
		RoutineID:          routineID,
		RoutineName:        routineName,
		CompletedAt:        completedAt,
		Duration:           duration,
		ExercisesCompleted: completed,
	}
	f.logs = append([]model.WorkoutLog{l}, f.logs...)
	return l
}

func testExercises() fakeExercises {
	return fakeExercises{
		"squat": {ID: "squat", Name: "Squat"},
		"plank": {ID: "plank", Name: "Plank"},
		"lunge": {ID: "lunge", Name: "Lunge"},
		"row":   {ID: "row", Name: "Row"},
	}
}

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newTestEngine(t *testing.T, items []model.WorkoutExercise, opts ...Option) (*Engine, *fakeOverrides, *fakeLogs) {
	t.Helper()
	routine := model.WorkoutRoutine{ID: "r1", Name: "Routine One", Exercises: items}
	overrides := &fakeOverrides{lists: map[string][]model.WorkoutExercise{}}
	logs := &fakeLogs{}
	opts = append([]Option{WithLogger(quietLogger())}, opts...)
	return NewEngine(routine, testExercises(), overrides, logs, opts...), overrides, logs
}

func TestTwoExerciseSession(t *testing.T) {
	var signals []Signal
	m := metrics.NewManager()
	engine, _, logs := newTestEngine(t, []model.WorkoutExercise{
		{ExerciseID: "squat", Sets: 3, Reps: "10", RestSeconds: model.Seconds(30)},
		{ExerciseID: "plank", Sets: 2, Reps: "45s", RestSeconds: model.Seconds(45)},
	}, WithFeedback(FeedbackFunc(func(s Signal) { signals = append(signals, s) })), WithMetrics(m))

	start := time.Date(2026, 5, 4, 18, 0, 0, 0, time.UTC)
	if err := engine.Start(start); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := engine.Finish(start.Add(5 * time.Minute)); err != nil {
		t.Fatalf("finish first: %v", err)
	}
	st := engine.State()
	if st.Phase != Resting || st.Rest.Left() != 30 {
		t.Fatalf("expected 30s rest, got %v %d", st.Phase, st.Rest.Left())
	}
	for i := 0; i < 30; i++ {
		engine.Tick()
	}
	cur, ok := engine.Current()
	if !ok || engine.State().Phase != Active || cur.Item.ExerciseID != "plank" {
		t.Fatalf("expected plank active, got %v %+v", engine.State().Phase, cur)
	}
	if err := engine.Finish(start.Add(12*time.Minute + 40*time.Second)); err != nil {
		t.Fatalf("finish last: %v", err)
	}
	if engine.State().Phase != Complete {
		t.Fatalf("expected complete, got %v", engine.State().Phase)
	}
	if len(logs.logs) != 1 {
		t.Fatalf("expected one log, got %d", len(logs.logs))
	}
	got := logs.logs[0]
	if got.ExercisesCompleted != 2 || got.Duration != 13 || got.RoutineName != "Routine One" {
		t.Fatalf("unexpected log: %+v", got)
	}
	if err := engine.Finish(start.Add(time.Hour)); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected finish after completion to fail, got %v", err)
	}
	if len(logs.logs) != 1 {
		t.Fatalf("expected no second log")
	}
	if res, ok := engine.Result(); !ok || res.ID != got.ID {
		t.Fatalf("expected result to match log")
	}

	want := []Signal{SessionStarted, ExerciseFinished, RestFinished, WorkoutCompleted}
	if len(signals) != len(want) {
		t.Fatalf("signals = %v, want %v", signals, want)
	}
	for i := range want {
		if signals[i] != want[i] {
			t.Fatalf("signals = %v, want %v", signals, want)
		}
	}
	if v := testutil.ToFloat64(m.CounterSessionsCompleted); v != 1 {
		t.Fatalf("expected 1 completed session, got %v", v)
	}
	if v := testutil.ToFloat64(m.CounterExercisesFinished); v != 2 {
		t.Fatalf("expected 2 finished exercises, got %v", v)
	}
}

func TestEmptySessionCompletesWithZero(t *testing.T) {
	engine, overrides, logs := newTestEngine(t, []model.WorkoutExercise{
		{ExerciseID: "squat", Sets: 3},
		{ExerciseID: "plank", Sets: 3},
	})
	for engine.Count() > 0 {
		if err := engine.RemoveExercise(0); err != nil {
			t.Fatalf("remove: %v", err)
		}
	}
	if list, ok := overrides.lists["r1"]; !ok || len(list) != 0 {
		t.Fatalf("expected empty override to be saved, got %v %v", list, ok)
	}

	now := time.Now()
	if err := engine.Start(now); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, ok := engine.Current(); ok {
		t.Fatalf("expected no current exercise")
	}
	if p := engine.Progress(); p < 0 || p > 1 {
		t.Fatalf("progress out of range: %v", p)
	}
	if err := engine.Skip(); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected skip to fail, got %v", err)
	}
	if err := engine.Finish(now); err != nil {
		t.Fatalf("finish: %v", err)
	}
	if len(logs.logs) != 1 || logs.logs[0].ExercisesCompleted != 0 || logs.logs[0].Duration != 0 {
		t.Fatalf("unexpected logs: %+v", logs.logs)
	}
}

func TestAddExerciseDefaultsAndDuplicates(t *testing.T) {
	engine, overrides, _ := newTestEngine(t, []model.WorkoutExercise{{ExerciseID: "squat", Sets: 5}})

	if err := engine.AddExercise("lunge"); err != nil {
		t.Fatalf("add: %v", err)
	}
	slots := engine.Slots()
	if len(slots) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(slots))
	}
	added := slots[1].Item
	if added.Sets != 3 || added.Reps != "10" || added.RestOr(-1) != 60 || slots[1].Rest != 60 {
		t.Fatalf("unexpected defaults: %+v", added)
	}
	if len(overrides.lists["r1"]) != 2 || overrides.sets != 1 {
		t.Fatalf("expected override write, got %+v", overrides)
	}
	if err := engine.AddExercise("lunge"); !errors.Is(err, ErrAlreadyPresent) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
	if err := engine.AddExercise("nope"); !errors.Is(err, ErrUnknownExercise) {
		t.Fatalf("expected unknown error, got %v", err)
	}
	if overrides.sets != 1 {
		t.Fatalf("rejected adds must not write, got %d writes", overrides.sets)
	}

	avail := engine.Available()
	for _, ex := range avail {
		if ex.ID == "squat" || ex.ID == "lunge" {
			t.Fatalf("available must exclude present exercise %s", ex.ID)
		}
	}
	if len(avail) != 2 {
		t.Fatalf("expected 2 available, got %d", len(avail))
	}
}

func TestRemovalOnlyInOverview(t *testing.T) {
	engine, _, _ := newTestEngine(t, []model.WorkoutExercise{
		{ExerciseID: "squat"}, {ExerciseID: "plank"}, {ExerciseID: "row"},
	})
	if err := engine.Select(2); err != nil {
		t.Fatalf("select: %v", err)
	}
	if err := engine.RemoveExercise(2); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if engine.State().Index != 1 {
		t.Fatalf("expected cursor to step back to 1, got %d", engine.State().Index)
	}
	if err := engine.RemoveExercise(7); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("expected out of range, got %v", err)
	}

	if err := engine.Start(time.Now()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if engine.State().Index != 0 {
		t.Fatalf("expected start at 0")
	}
	if err := engine.RemoveExercise(0); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected removal while active to fail, got %v", err)
	}
	if err := engine.AddExercise("lunge"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected add while active to fail, got %v", err)
	}
}

func TestUnresolvedSlotKeepsIndex(t *testing.T) {
	engine, _, _ := newTestEngine(t, []model.WorkoutExercise{
		{ExerciseID: "squat"}, {ExerciseID: "deleted-custom"}, {ExerciseID: "plank"},
	})
	slots := engine.Slots()
	if len(slots) != 3 {
		t.Fatalf("expected 3 slots, got %d", len(slots))
	}
	if slots[1].Resolved || slots[1].Index != 1 {
		t.Fatalf("expected unresolved slot at 1, got %+v", slots[1])
	}
	if !slots[2].Resolved || slots[2].Index != 2 || slots[2].Exercise.Name != "Plank" {
		t.Fatalf("expected plank at 2, got %+v", slots[2])
	}

	engine.Start(time.Now())
	if err := engine.Skip(); err != nil {
		t.Fatalf("skip: %v", err)
	}
	cur, ok := engine.Current()
	if !ok || cur.Resolved || cur.Index != 1 {
		t.Fatalf("expected unresolved current slot, got %+v", cur)
	}
}

func TestSkipRestAndDefaultRest(t *testing.T) {
	var signals []Signal
	engine, _, _ := newTestEngine(t, []model.WorkoutExercise{
		{ExerciseID: "squat"}, {ExerciseID: "plank"},
	}, WithDefaultRest(75), WithFeedback(FeedbackFunc(func(s Signal) { signals = append(signals, s) })))

	now := time.Now()
	engine.Start(now)
	engine.Finish(now)
	if left := engine.State().Rest.Left(); left != 75 {
		t.Fatalf("expected default rest 75, got %d", left)
	}
	if next, ok := engine.Next(); !ok || next.Item.ExerciseID != "plank" {
		t.Fatalf("expected plank as next, got %+v", next)
	}
	if err := engine.SkipRest(); err != nil {
		t.Fatalf("skip rest: %v", err)
	}
	if st := engine.State(); st.Phase != Active || st.Index != 1 {
		t.Fatalf("expected Active[1], got %v[%d]", st.Phase, st.Index)
	}
	if signals[len(signals)-1] != RestSkipped {
		t.Fatalf("expected RestSkipped, got %v", signals)
	}
	if engine.Tick() {
		t.Fatalf("tick while active must not advance")
	}
}

func TestExplicitZeroRestSkipsResting(t *testing.T) {
	var signals []Signal
	engine, _, _ := newTestEngine(t, []model.WorkoutExercise{
		{ExerciseID: "squat", Sets: 3, RestSeconds: model.Seconds(0)},
		{ExerciseID: "plank", Sets: 2, RestSeconds: model.Seconds(45)},
	}, WithFeedback(FeedbackFunc(func(s Signal) { signals = append(signals, s) })))

	start := time.Date(2026, 5, 4, 18, 0, 0, 0, time.UTC)
	if err := engine.Start(start); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := engine.Finish(start.Add(time.Minute)); err != nil {
		t.Fatalf("finish: %v", err)
	}
	st := engine.State()
	if st.Phase != Active || st.Index != 1 {
		t.Fatalf("expected plank active without rest, got %v index %d", st.Phase, st.Index)
	}
	if signals[len(signals)-1] != ExerciseFinished {
		t.Fatalf("unexpected signals: %v", signals)
	}
}

func TestUnsetRestUsesSessionDefault(t *testing.T) {
	engine, _, _ := newTestEngine(t, []model.WorkoutExercise{
		{ExerciseID: "squat", Sets: 3},
		{ExerciseID: "plank", Sets: 2},
	}, WithDefaultRest(40))

	if slots := engine.Slots(); slots[0].Rest != 40 {
		t.Fatalf("expected default rest on slot, got %d", slots[0].Rest)
	}
	start := time.Date(2026, 5, 4, 18, 0, 0, 0, time.UTC)
	if err := engine.Start(start); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := engine.Finish(start.Add(time.Minute)); err != nil {
		t.Fatalf("finish: %v", err)
	}
	if st := engine.State(); st.Phase != Resting || st.Rest.Left() != 40 {
		t.Fatalf("expected 40s rest, got %v %d", st.Phase, st.Rest.Left())
	}
}
