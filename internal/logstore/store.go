// Package logstore keeps the history of completed workouts, newest first.
package logstore

import (
	"context"
	"sync"
	"time"

	"github.com/verte-zerg/tuifit/internal/ids"
	"github.com/verte-zerg/tuifit/internal/kv"
	"github.com/verte-zerg/tuifit/internal/model"
)

const week = 7 * 24 * time.Hour

// Persister is the write-through mirror the store saves into.
type Persister interface {
	Load(ctx context.Context, key string, dst any) bool
	ScheduleJSON(key string, v any)
}

// Store owns the workout log collection.
type Store struct {
	persist Persister
	newID   func() string

	mu   sync.RWMutex
	logs []model.WorkoutLog
}

// New returns an empty store that saves through p.
func New(p Persister) *Store {
	return &Store{persist: p, newID: ids.Log}
}

// Hydrate replaces the in-memory logs with the persisted ones. A missing or
// unreadable record leaves the store empty.
func (s *Store) Hydrate(ctx context.Context) {
	var stored []model.WorkoutLog
	if !s.persist.Load(ctx, kv.KeyWorkoutLogs, &stored) {
		stored = nil
	}
	s.mu.Lock()
	s.logs = stored
	s.mu.Unlock()
}

// All returns the logs, most recent first.
func (s *Store) All() []model.WorkoutLog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.WorkoutLog, len(s.logs))
	copy(out, s.logs)
	return out
}

// Add records a completed workout and prepends it to the history.
func (s *Store) Add(routineID, routineName string, completedAt time.Time, durationMinutes, exercisesCompleted int) model.WorkoutLog {
	entry := model.WorkoutLog{
		ID:                 s.newID(),
		RoutineID:          routineID,
		RoutineName:        routineName,
		CompletedAt:        completedAt,
		Duration:           durationMinutes,
		ExercisesCompleted: exercisesCompleted,
	}
	s.mu.Lock()
	next := make([]model.WorkoutLog, 0, len(s.logs)+1)
	next = append(next, entry)
	next = append(next, s.logs...)
	s.logs = next
	s.persist.ScheduleJSON(kv.KeyWorkoutLogs, s.logs)
	s.mu.Unlock()
	return entry
}

// TotalCount is the number of logged workouts.
func (s *Store) TotalCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.logs)
}

// CountSince counts logs completed at or after cutoff.
func (s *Store) CountSince(cutoff time.Time) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, l := range s.logs {
		if !l.CompletedAt.Before(cutoff) {
			n++
		}
	}
	return n
}

// ThisWeek counts logs in the trailing 7x24h window ending at now.
func (s *Store) ThisWeek(now time.Time) int {
	return s.CountSince(now.Add(-week))
}

// TotalMinutes sums the recorded durations.
func (s *Store) TotalMinutes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := 0
	for _, l := range s.logs {
		total += l.Duration
	}
	return total
}
