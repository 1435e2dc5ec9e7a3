package registry

import (
	"context"
	"sync"

	"github.com/verte-zerg/tuifit/internal/catalog"
	"github.com/verte-zerg/tuifit/internal/ids"
	"github.com/verte-zerg/tuifit/internal/kv"
	"github.com/verte-zerg/tuifit/internal/model"
)

// Exercises is the exercise registry: built-ins followed by custom exercises.
type Exercises struct {
	persist Persister
	newID   func() string

	mu      sync.RWMutex
	builtin []model.Exercise
	custom  []model.Exercise
}

// NewExercises creates a registry over the built-in catalog.
func NewExercises(p Persister) *Exercises {
	return &Exercises{
		persist: p,
		newID:   ids.Exercise,
		builtin: catalog.Exercises(),
	}
}

// Hydrate replaces the custom exercises with the persisted ones. A missing or
// unreadable record leaves the registry with no custom exercises.
func (r *Exercises) Hydrate(ctx context.Context) {
	var stored []model.Exercise
	if !r.persist.Load(ctx, kv.KeyCustomExercises, &stored) {
		stored = nil
	}
	r.mu.Lock()
	r.custom = stored
	r.mu.Unlock()
}

// All returns built-in exercises in catalog order followed by custom exercises in
// creation order.
func (r *Exercises) All() []model.Exercise {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.Exercise, 0, len(r.builtin)+len(r.custom))
	out = append(out, r.builtin...)
	out = append(out, r.custom...)
	return out
}

// Customs returns only the user-created exercises.
func (r *Exercises) Customs() []model.Exercise {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.Exercise, len(r.custom))
	copy(out, r.custom)
	return out
}

// AddCustom stores a new exercise under a generated id. Name validation is the
// caller's job.
func (r *Exercises) AddCustom(name, muscleGroup, equipment, instructions string) model.Exercise {
	ex := model.Exercise{
		ID:           r.newID(),
		Name:         name,
		MuscleGroup:  muscleGroup,
		Equipment:    equipment,
		Instructions: instructions,
	}
	r.mu.Lock()
	r.custom = append(r.custom, ex)
	r.persist.ScheduleJSON(kv.KeyCustomExercises, r.custom)
	r.mu.Unlock()
	return ex
}

// RemoveCustom drops the custom exercise with id. Routines referring to it are left
// alone. It reports whether anything was removed.
func (r *Exercises) RemoveCustom(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, ex := range r.custom {
		if ex.ID != id {
			continue
		}
		next := make([]model.Exercise, 0, len(r.custom)-1)
		next = append(next, r.custom[:i]...)
		next = append(next, r.custom[i+1:]...)
		r.custom = next
		r.persist.ScheduleJSON(kv.KeyCustomExercises, r.custom)
		return true
	}
	return false
}

// Get looks up an exercise by id. A miss is a normal outcome.
func (r *Exercises) Get(id string) (model.Exercise, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, ex := range r.builtin {
		if ex.ID == id {
			return ex, true
		}
	}
	for i := len(r.custom) - 1; i >= 0; i-- {
		if r.custom[i].ID == id {
			return r.custom[i], true
		}
	}
	return model.Exercise{}, false
}

// AllGroups is the muscle group filter that matches every exercise.
const AllGroups = "All"

// MuscleGroups returns AllGroups followed by every distinct muscle group in
// All order.
func (r *Exercises) MuscleGroups() []string {
	groups := []string{AllGroups}
	seen := map[string]struct{}{}
	for _, ex := range r.All() {
		if _, ok := seen[ex.MuscleGroup]; ok {
			continue
		}
		seen[ex.MuscleGroup] = struct{}{}
		groups = append(groups, ex.MuscleGroup)
	}
	return groups
}

// ByMuscleGroup filters All by group. AllGroups or an empty group returns every
// exercise.
func (r *Exercises) ByMuscleGroup(group string) []model.Exercise {
	all := r.All()
	if group == "" || group == AllGroups {
		return all
	}
	out := make([]model.Exercise, 0, len(all))
	for _, ex := range all {
		if ex.MuscleGroup == group {
			out = append(out, ex)
		}
	}
	return out
}
