// Package ids generates record identifiers.
package ids

import "github.com/google/uuid"

// Prefixes keep custom ids in a namespace disjoint from built-in slugs.
const (
	ExercisePrefix = "custom-"
	RoutinePrefix  = "custom-routine-"
)

// New returns a time-ordered identifier. UUIDv7 ids sort by creation time and are
// monotonic within the process.
func New() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// Exercise returns an id for a custom exercise.
func Exercise() string {
	return ExercisePrefix + New()
}

// Routine returns an id for a custom routine.
func Routine() string {
	return RoutinePrefix + New()
}

// Log returns an id for a workout log entry.
func Log() string {
	return New()
}
