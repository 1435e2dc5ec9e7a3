// Package model defines shared data structures.
package model

import "time"

// Difficulty grades a routine.
type Difficulty string

// Known difficulties.
const (
	Beginner     Difficulty = "beginner"
	Intermediate Difficulty = "intermediate"
	Advanced     Difficulty = "advanced"
)

// Valid reports whether d is one of the known difficulties.
func (d Difficulty) Valid() bool {
	switch d {
	case Beginner, Intermediate, Advanced:
		return true
	default:
		return false
	}
}

// AMRAP is the reps token meaning "as many reps as possible".
const AMRAP = "AMRAP"

// Exercise is a single movement from the built-in catalog or added by the user.
type Exercise struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	MuscleGroup  string `json:"muscleGroup"`
	Equipment    string `json:"equipment"`
	Instructions string `json:"instructions"`
	Image        string `json:"image,omitempty"`
}

// WorkoutExercise schedules an exercise inside a routine. A nil RestSeconds means
// no rest was configured; an explicit zero means no rest at all.
type WorkoutExercise struct {
	ExerciseID  string `json:"exerciseId"`
	Sets        int    `json:"sets"`
	Reps        string `json:"reps,omitempty"`
	RestSeconds *int   `json:"restSeconds,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

// Seconds returns a pointer to n for WorkoutExercise literals.
func Seconds(n int) *int {
	return &n
}

// RestOr returns the configured rest, or fallback when none is set.
func (w WorkoutExercise) RestOr(fallback int) int {
	if w.RestSeconds == nil || *w.RestSeconds < 0 {
		return fallback
	}
	return *w.RestSeconds
}

// WorkoutRoutine is an ordered list of exercises with display metadata.
type WorkoutRoutine struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Duration    string            `json:"duration"`
	Difficulty  Difficulty        `json:"difficulty"`
	Exercises   []WorkoutExercise `json:"exercises"`
	Icon        string            `json:"icon"`
	Color       string            `json:"color"`
}

// WorkoutLog records one completed session.
type WorkoutLog struct {
	ID                 string    `json:"id"`
	RoutineID          string    `json:"routineId"`
	RoutineName        string    `json:"routineName"`
	CompletedAt        time.Time `json:"completedAt"`
	Duration           int       `json:"duration"`
	ExercisesCompleted int       `json:"exercisesCompleted"`
}

// CloneExercises returns a copy of list that shares no backing array with it.
// A nil list stays nil so "no override" and "empty override" remain distinct.
func CloneExercises(list []WorkoutExercise) []WorkoutExercise {
	if list == nil {
		return nil
	}
	out := make([]WorkoutExercise, len(list))
	copy(out, list)
	for i := range out {
		if out[i].RestSeconds != nil {
			out[i].RestSeconds = Seconds(*out[i].RestSeconds)
		}
	}
	return out
}

// CloneRoutine returns a deep copy of r.
func CloneRoutine(r WorkoutRoutine) WorkoutRoutine {
	r.Exercises = CloneExercises(r.Exercises)
	return r
}

// Config defines session settings resolved from flags and the config file.
type Config struct {
	DefaultRest  int
	TimerSeconds int
	Ephemeral    bool
}

// StatsConfig defines filters and options for progress output.
type StatsConfig struct {
	Since   *time.Time
	Last    int
	Days    int
	Routine string
}
