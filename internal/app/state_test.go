package app

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"

	"github.com/verte-zerg/tuifit/internal/kv"
	"github.com/verte-zerg/tuifit/internal/kv/kvmock"
	"github.com/verte-zerg/tuifit/internal/model"
	"github.com/verte-zerg/tuifit/internal/session"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func openSQLite(t *testing.T, path string, opts Options) *State {
	t.Helper()
	logger, _ := logtest.NewNullLogger()
	opts.Storage = kv.Options{Backend: kv.BackendSQLite, Path: path}
	opts.Logger = logger
	st, err := Open(context.Background(), opts)
	require.NoError(t, err)
	return st
}

func TestWorkoutSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "tuifit.db")

	var signals []session.Signal
	st := openSQLite(t, path, Options{
		Feedback: session.FeedbackFunc(func(s session.Signal) { signals = append(signals, s) }),
	})
	custom := st.Exercises.AddCustom("Sled Push", "Legs", "Other", "")
	routineID := st.Routines.AddCustom(model.WorkoutRoutine{
		Name:       "Two Step",
		Difficulty: model.Beginner,
		Exercises: []model.WorkoutExercise{
			{ExerciseID: "squat", Sets: 3, Reps: "8", RestSeconds: model.Seconds(30)},
			{ExerciseID: "plank", Sets: 2, Reps: "45s", RestSeconds: model.Seconds(45)},
		},
	})

	engine, err := st.NewSession(routineID)
	require.NoError(t, err)
	require.NoError(t, engine.AddExercise(custom.ID))
	require.NoError(t, engine.RemoveExercise(2))

	start := time.Now()
	require.NoError(t, engine.Start(start))
	require.NoError(t, engine.Finish(start.Add(4*time.Minute)))
	require.Equal(t, session.Resting, engine.State().Phase)
	for i := 0; i < 30; i++ {
		engine.Tick()
	}
	require.Equal(t, session.Active, engine.State().Phase)
	require.NoError(t, engine.Finish(start.Add(9*time.Minute)))
	require.Equal(t, session.Complete, engine.State().Phase)

	assert.Equal(t, 1, st.Logs.TotalCount())
	assert.Equal(t, 1, st.Logs.ThisWeek(time.Now()))
	assert.Contains(t, signals, session.WorkoutCompleted)
	require.NoError(t, st.Close(ctx))

	again := openSQLite(t, path, Options{})
	defer func() {
		assert.NoError(t, again.Close(ctx))
	}()
	logs := again.Logs.All()
	require.Len(t, logs, 1)
	assert.Equal(t, routineID, logs[0].RoutineID)
	assert.Equal(t, "Two Step", logs[0].RoutineName)
	assert.Equal(t, 2, logs[0].ExercisesCompleted)
	assert.Equal(t, 9, logs[0].Duration)

	_, ok := again.Exercises.Get(custom.ID)
	assert.True(t, ok)
	assert.True(t, again.Routines.HasOverride(routineID))
	assert.Len(t, again.Routines.EffectiveExercises(routineID, nil), 2)

	report := again.Report(model.StatsConfig{}, time.Now())
	assert.Equal(t, 1, report.Summary.Total)
	assert.Equal(t, 9, report.Summary.TotalMinutes)
}

func TestNewSessionUnknownRoutine(t *testing.T) {
	st := openSQLite(t, filepath.Join(t.TempDir(), "tuifit.db"), Options{})
	defer func() {
		_ = st.Close(context.Background())
	}()
	_, err := st.NewSession("does-not-exist")
	assert.ErrorIs(t, err, ErrUnknownRoutine)
}

func TestEphemeralUsesMemory(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	st, err := Open(context.Background(), Options{
		Storage: kv.Options{Backend: "bogus"},
		Logger:  logger,
		Session: model.Config{Ephemeral: true, TimerSeconds: 90},
	})
	require.NoError(t, err)
	defer func() {
		_ = st.Close(context.Background())
	}()
	assert.Equal(t, 90, st.NewTimer().Total())
}

func TestOpenUnknownBackend(t *testing.T) {
	_, err := Open(context.Background(), Options{Storage: kv.Options{Backend: "bogus"}})
	assert.ErrorIs(t, err, kv.ErrUnknownBackend)
}

func TestCloseCombinesErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := kvmock.NewMockBackend(ctrl)
	backend.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, false, nil).Times(4)
	backend.EXPECT().Close().Return(errors.New("disk gone"))

	logger, _ := logtest.NewNullLogger()
	st, err := Open(context.Background(), Options{Backend: backend, Logger: logger})
	require.NoError(t, err)
	assert.Empty(t, st.Logs.All())

	err = st.Close(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk gone")
}

func TestLastSavedTracksWrittenRecords(t *testing.T) {
	ctx := context.Background()
	st := openSQLite(t, filepath.Join(t.TempDir(), "tuifit.db"), Options{})
	defer func() {
		assert.NoError(t, st.Close(ctx))
	}()

	saved, ok, err := st.LastSaved(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Empty(t, saved)

	before := time.Now().Add(-time.Second)
	st.Logs.Add("leg-day", "Leg Day", time.Now(), 40, 4)
	require.NoError(t, st.Flush(ctx))

	saved, ok, err = st.LastSaved(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Contains(t, saved, kv.KeyWorkoutLogs)
	assert.True(t, saved[kv.KeyWorkoutLogs].After(before))
	assert.NotContains(t, saved, kv.KeyCustomExercises)
}

func TestLastSavedWithoutTimestamps(t *testing.T) {
	ctx := context.Background()
	logger, _ := logtest.NewNullLogger()
	st, err := Open(ctx, Options{Backend: kv.NewMemory(0), Logger: logger})
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, st.Close(ctx))
	}()

	saved, ok, err := st.LastSaved(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, saved)
}
