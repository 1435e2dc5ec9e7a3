package registry

import (
	"context"
	"sync"

	"github.com/verte-zerg/tuifit/internal/catalog"
	"github.com/verte-zerg/tuifit/internal/ids"
	"github.com/verte-zerg/tuifit/internal/kv"
	"github.com/verte-zerg/tuifit/internal/model"
)

// Routines is the routine registry. Besides custom routine definitions it owns the
// per-routine exercise overrides, which let a user edit a routine's exercise list
// without touching its definition.
type Routines struct {
	persist Persister
	newID   func() string

	mu        sync.RWMutex
	builtin   []model.WorkoutRoutine
	custom    []model.WorkoutRoutine
	overrides map[string][]model.WorkoutExercise
}

// NewRoutines creates a registry over the built-in routines.
func NewRoutines(p Persister) *Routines {
	return &Routines{
		persist:   p,
		newID:     ids.Routine,
		builtin:   catalog.Routines(),
		overrides: map[string][]model.WorkoutExercise{},
	}
}

// Hydrate loads custom routines and overrides. Each record is read on its own; a
// failure in one leaves the other intact.
func (r *Routines) Hydrate(ctx context.Context) {
	var custom []model.WorkoutRoutine
	if !r.persist.Load(ctx, kv.KeyCustomRoutines, &custom) {
		custom = nil
	}
	overrides := map[string][]model.WorkoutExercise{}
	if !r.persist.Load(ctx, kv.KeyRoutineExercises, &overrides) || overrides == nil {
		overrides = map[string][]model.WorkoutExercise{}
	}
	for id, list := range overrides {
		if list == nil {
			overrides[id] = []model.WorkoutExercise{}
		}
	}

	r.mu.Lock()
	r.custom = custom
	r.overrides = overrides
	r.mu.Unlock()
}

// All returns built-in routines followed by custom routines in creation order.
func (r *Routines) All() []model.WorkoutRoutine {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.WorkoutRoutine, 0, len(r.builtin)+len(r.custom))
	for _, rt := range r.builtin {
		out = append(out, model.CloneRoutine(rt))
	}
	for _, rt := range r.custom {
		out = append(out, model.CloneRoutine(rt))
	}
	return out
}

// Get looks up a routine by id.
func (r *Routines) Get(id string) (model.WorkoutRoutine, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, rt := range r.builtin {
		if rt.ID == id {
			return model.CloneRoutine(rt), true
		}
	}
	for _, rt := range r.custom {
		if rt.ID == id {
			return model.CloneRoutine(rt), true
		}
	}
	return model.WorkoutRoutine{}, false
}

// AddCustom stores def under a generated id and returns the id. Any id already set
// on def is ignored.
func (r *Routines) AddCustom(def model.WorkoutRoutine) string {
	def = model.CloneRoutine(def)
	def.ID = r.newID()
	if def.Exercises == nil {
		def.Exercises = []model.WorkoutExercise{}
	}
	r.mu.Lock()
	r.custom = append(r.custom, def)
	r.persist.ScheduleJSON(kv.KeyCustomRoutines, r.custom)
	r.mu.Unlock()
	return def.ID
}

// EffectiveExercises returns the override for routineID if one exists (even an
// empty one), otherwise defaults unchanged.
func (r *Routines) EffectiveExercises(routineID string, defaults []model.WorkoutExercise) []model.WorkoutExercise {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if list, ok := r.overrides[routineID]; ok {
		return model.CloneExercises(list)
	}
	return defaults
}

// HasOverride reports whether routineID has an override.
func (r *Routines) HasOverride(routineID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.overrides[routineID]
	return ok
}

// SetEffectiveExercises creates or overwrites the override for routineID.
func (r *Routines) SetEffectiveExercises(routineID string, exercises []model.WorkoutExercise) {
	list := model.CloneExercises(exercises)
	if list == nil {
		list = []model.WorkoutExercise{}
	}
	r.mu.Lock()
	r.overrides[routineID] = list
	r.persist.ScheduleJSON(kv.KeyRoutineExercises, r.overrides)
	r.mu.Unlock()
}

// ResetEffectiveExercises drops the override so the routine's defaults apply again.
func (r *Routines) ResetEffectiveExercises(routineID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.overrides[routineID]; !ok {
		return false
	}
	delete(r.overrides, routineID)
	r.persist.ScheduleJSON(kv.KeyRoutineExercises, r.overrides)
	return true
}
