package registry

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"

	"github.com/verte-zerg/tuifit/internal/catalog"
	"github.com/verte-zerg/tuifit/internal/ids"
	"github.com/verte-zerg/tuifit/internal/kv"
	"github.com/verte-zerg/tuifit/internal/kv/kvmock"
	"github.com/verte-zerg/tuifit/internal/model"
	"github.com/verte-zerg/tuifit/internal/persist"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newPersister(t *testing.T, backend kv.Backend) *persist.Persister {
	t.Helper()
	logger, _ := logtest.NewNullLogger()
	p := persist.New(backend, persist.WithLogger(logger))
	t.Cleanup(func() {
		_ = p.Close(context.Background())
	})
	return p
}

func TestAddCustomExerciseGrowsByOneWithDistinctIDs(t *testing.T) {
	reg := NewExercises(newPersister(t, kv.NewMemory(0)))
	base := len(reg.All())
	require.Equal(t, len(catalog.Exercises()), base)

	seen := map[string]struct{}{}
	for i := 0; i < 25; i++ {
		ex := reg.AddCustom("Band Pull-Apart", "Shoulders", "Bands", "")
		require.Len(t, reg.All(), base+i+1)
		_, dup := seen[ex.ID]
		require.False(t, dup, "duplicate id %s", ex.ID)
		seen[ex.ID] = struct{}{}
		assert.True(t, len(ex.ID) > len(ids.ExercisePrefix))
	}

	all := reg.All()
	assert.Equal(t, "bench-press", all[0].ID)
	assert.Equal(t, "Band Pull-Apart", all[len(all)-1].Name)
}

func TestGetExercise(t *testing.T) {
	reg := NewExercises(newPersister(t, kv.NewMemory(0)))

	ex := reg.AddCustom("Goblet Squat", "Legs", "Kettlebells", "Hold the bell at the chest.")
	got, ok := reg.Get(ex.ID)
	require.True(t, ok)
	assert.Equal(t, ex, got)

	builtin, ok := reg.Get("deadlift")
	require.True(t, ok)
	assert.Equal(t, "Deadlift", builtin.Name)

	_, ok = reg.Get("never-added")
	assert.False(t, ok)
}

func TestRemoveCustomExercise(t *testing.T) {
	reg := NewExercises(newPersister(t, kv.NewMemory(0)))
	a := reg.AddCustom("A", "Core", "Other", "")
	b := reg.AddCustom("B", "Core", "Other", "")

	assert.False(t, reg.RemoveCustom("missing"))
	assert.False(t, reg.RemoveCustom("plank"), "built-ins are not removable")
	assert.True(t, reg.RemoveCustom(a.ID))

	customs := reg.Customs()
	require.Len(t, customs, 1)
	assert.Equal(t, b.ID, customs[0].ID)
	_, ok := reg.Get(a.ID)
	assert.False(t, ok)
}

func TestExercisesSurviveRehydrate(t *testing.T) {
	backend := kv.NewMemory(0)
	ctx := context.Background()

	p := newPersister(t, backend)
	reg := NewExercises(p)
	added := reg.AddCustom("Cossack Squat", "Legs", "Bodyweight", "")
	require.NoError(t, p.Flush(ctx))

	again := NewExercises(newPersister(t, backend))
	again.Hydrate(ctx)
	got, ok := again.Get(added.ID)
	require.True(t, ok)
	assert.Equal(t, added, got)
}

func TestHydrateFallsBackToEmptyOnReadFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	backend := kvmock.NewMockBackend(ctrl)
	backend.EXPECT().Get(gomock.Any(), kv.KeyCustomExercises).Return(nil, false, errors.New("boom"))
	backend.EXPECT().Get(gomock.Any(), kv.KeyCustomRoutines).Return([]byte(`not json`), true, nil)
	backend.EXPECT().Get(gomock.Any(), kv.KeyRoutineExercises).Return(nil, false, errors.New("boom"))

	logger, hook := logtest.NewNullLogger()
	p := persist.New(backend, persist.WithLogger(logger))
	t.Cleanup(func() {
		_ = p.Close(context.Background())
	})

	ex := NewExercises(p)
	ex.Hydrate(context.Background())
	assert.Empty(t, ex.Customs())

	rt := NewRoutines(p)
	rt.Hydrate(context.Background())
	assert.Len(t, rt.All(), len(catalog.Routines()))
	assert.False(t, rt.HasOverride("full-body"))

	for _, e := range hook.AllEntries() {
		assert.Equal(t, logrus.WarnLevel, e.Level)
	}
	assert.Len(t, hook.AllEntries(), 3)
}

func TestEffectiveExercisesRoundTrip(t *testing.T) {
	reg := NewRoutines(newPersister(t, kv.NewMemory(0)))
	list := []model.WorkoutExercise{
		{ExerciseID: "plank", Sets: 2, Reps: "30s", RestSeconds: model.Seconds(30)},
		{ExerciseID: "push-ups", Sets: 3, Reps: model.AMRAP, RestSeconds: model.Seconds(60)},
	}
	reg.SetEffectiveExercises("full-body", list)

	for _, defaults := range [][]model.WorkoutExercise{
		nil,
		{},
		{{ExerciseID: "squat", Sets: 1, RestSeconds: model.Seconds(10)}},
	} {
		assert.Equal(t, list, reg.EffectiveExercises("full-body", defaults))
	}

	// Mutating the returned slice must not leak into the registry.
	got := reg.EffectiveExercises("full-body", nil)
	got[0].Sets = 42
	assert.Equal(t, 2, reg.EffectiveExercises("full-body", nil)[0].Sets)
}

func TestEffectiveExercisesFallsBackToDefaults(t *testing.T) {
	reg := NewRoutines(newPersister(t, kv.NewMemory(0)))
	defaults := []model.WorkoutExercise{{ExerciseID: "squat", Sets: 3, Reps: "5", RestSeconds: model.Seconds(120)}}

	got := reg.EffectiveExercises("unknown-routine", defaults)
	require.Len(t, got, 1)
	assert.Same(t, &defaults[0], &got[0])
}

func TestEmptyOverrideIsUsedVerbatim(t *testing.T) {
	backend := kv.NewMemory(0)
	ctx := context.Background()
	p := newPersister(t, backend)
	reg := NewRoutines(p)
	defaults := []model.WorkoutExercise{{ExerciseID: "squat", Sets: 3}}

	reg.SetEffectiveExercises("leg-day", nil)
	got := reg.EffectiveExercises("leg-day", defaults)
	require.NotNil(t, got)
	assert.Empty(t, got)
	require.NoError(t, p.Flush(ctx))

	again := NewRoutines(newPersister(t, backend))
	again.Hydrate(ctx)
	assert.True(t, again.HasOverride("leg-day"))
	assert.Empty(t, again.EffectiveExercises("leg-day", defaults))

	assert.True(t, again.ResetEffectiveExercises("leg-day"))
	assert.Equal(t, defaults, again.EffectiveExercises("leg-day", defaults))
	assert.False(t, again.ResetEffectiveExercises("leg-day"))
}

func TestAddCustomRoutine(t *testing.T) {
	backend := kv.NewMemory(0)
	ctx := context.Background()
	p := newPersister(t, backend)
	reg := NewRoutines(p)

	id := reg.AddCustom(model.WorkoutRoutine{
		ID:          "ignored",
		Name:        "Morning Mobility",
		Description: "Custom workout routine",
		Duration:    "20 min",
		Difficulty:  model.Beginner,
	})
	require.NotEqual(t, "ignored", id)
	assert.Contains(t, id, ids.RoutinePrefix)

	all := reg.All()
	assert.Equal(t, id, all[len(all)-1].ID)
	assert.Equal(t, "full-body", all[0].ID)

	got, ok := reg.Get(id)
	require.True(t, ok)
	assert.NotNil(t, got.Exercises)
	require.NoError(t, p.Flush(ctx))

	again := NewRoutines(newPersister(t, backend))
	again.Hydrate(ctx)
	_, ok = again.Get(id)
	assert.True(t, ok)
}

func TestMuscleGroupFilter(t *testing.T) {
	reg := NewExercises(newPersister(t, kv.NewMemory(0)))
	assert.Equal(t, []string{AllGroups, "Chest", "Back", "Legs", "Shoulders", "Arms", "Core"}, reg.MuscleGroups())

	reg.AddCustom("Neck Curl", "Neck", "Bodyweight", "")
	reg.AddCustom("Kettlebell Swing", "Legs", "Kettlebells", "")
	groups := reg.MuscleGroups()
	assert.Equal(t, "Neck", groups[len(groups)-1])
	assert.Len(t, groups, 8)

	assert.Len(t, reg.ByMuscleGroup(AllGroups), len(reg.All()))
	assert.Len(t, reg.ByMuscleGroup(""), len(reg.All()))

	legs := reg.ByMuscleGroup("Legs")
	require.NotEmpty(t, legs)
	for _, ex := range legs {
		assert.Equal(t, "Legs", ex.MuscleGroup)
	}
	assert.Equal(t, "Kettlebell Swing", legs[len(legs)-1].Name)
	assert.Empty(t, reg.ByMuscleGroup("Tail"))
}
