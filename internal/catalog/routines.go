package catalog

import "github.com/verte-zerg/tuifit/internal/model"

var builtinRoutines = []model.WorkoutRoutine{
	{
		ID:          "full-body",
		Name:        "Full Body Strength",
		Description: "Compound lifts hitting every major muscle group.",
		Duration:    "50 min",
		Difficulty:  model.Intermediate,
		Icon:        "weight-lifter",
		Color:       "#00D4AA",
		Exercises: []model.WorkoutExercise{
			{ExerciseID: "squat", Sets: 4, Reps: "6-8", RestSeconds: model.Seconds(120)},
			{ExerciseID: "bench-press", Sets: 4, Reps: "6-8", RestSeconds: model.Seconds(120)},
			{ExerciseID: "barbell-row", Sets: 3, Reps: "8-10", RestSeconds: model.Seconds(90)},
			{ExerciseID: "overhead-press", Sets: 3, Reps: "8-10", RestSeconds: model.Seconds(90)},
			{ExerciseID: "plank", Sets: 3, Reps: "45s", RestSeconds: model.Seconds(45)},
		},
	},
	{
		ID:          "upper-push",
		Name:        "Upper Body Push",
		Description: "Chest, shoulders and triceps.",
		Duration:    "45 min",
		Difficulty:  model.Intermediate,
		Icon:        "arm-flex",
		Color:       "#7C3AED",
		Exercises: []model.WorkoutExercise{
			{ExerciseID: "bench-press", Sets: 4, Reps: "8", RestSeconds: model.Seconds(90)},
			{ExerciseID: "incline-dumbbell-press", Sets: 3, Reps: "10", RestSeconds: model.Seconds(75)},
			{ExerciseID: "lateral-raise", Sets: 3, Reps: "12-15", RestSeconds: model.Seconds(60)},
			{ExerciseID: "tricep-pushdown", Sets: 3, Reps: "12", RestSeconds: model.Seconds(60)},
			{ExerciseID: "push-ups", Sets: 2, Reps: model.AMRAP, RestSeconds: model.Seconds(60)},
		},
	},
	{
		ID:          "upper-pull",
		Name:        "Upper Body Pull",
		Description: "Back and biceps with a rear delt finisher.",
		Duration:    "45 min",
		Difficulty:  model.Intermediate,
		Icon:        "rowing",
		Color:       "#F59E0B",
		Exercises: []model.WorkoutExercise{
			{ExerciseID: "pull-ups", Sets: 4, Reps: model.AMRAP, RestSeconds: model.Seconds(120)},
			{ExerciseID: "lat-pulldown", Sets: 3, Reps: "10-12", RestSeconds: model.Seconds(75)},
			{ExerciseID: "barbell-row", Sets: 3, Reps: "8-10", RestSeconds: model.Seconds(90)},
			{ExerciseID: "face-pulls", Sets: 3, Reps: "15", RestSeconds: model.Seconds(60)},
			{ExerciseID: "hammer-curl", Sets: 3, Reps: "10-12", RestSeconds: model.Seconds(60)},
		},
	},
	{
		ID:          "leg-day",
		Name:        "Leg Day",
		Description: "Quads, hamstrings and glutes.",
		Duration:    "55 min",
		Difficulty:  model.Advanced,
		Icon:        "run",
		Color:       "#EC4899",
		Exercises: []model.WorkoutExercise{
			{ExerciseID: "squat", Sets: 5, Reps: "5", RestSeconds: model.Seconds(150)},
			{ExerciseID: "romanian-deadlift", Sets: 4, Reps: "8", RestSeconds: model.Seconds(120)},
			{ExerciseID: "leg-press", Sets: 3, Reps: "10-12", RestSeconds: model.Seconds(90)},
			{ExerciseID: "lunges", Sets: 3, Reps: "12", RestSeconds: model.Seconds(75)},
		},
	},
	{
		ID:          "quick-core",
		Name:        "Quick Core",
		Description: "A short bodyweight core circuit.",
		Duration:    "15 min",
		Difficulty:  model.Beginner,
		Icon:        "human",
		Color:       "#06B6D4",
		Exercises: []model.WorkoutExercise{
			{ExerciseID: "plank", Sets: 3, Reps: "30s", RestSeconds: model.Seconds(30)},
			{ExerciseID: "dead-bug", Sets: 3, Reps: "10", RestSeconds: model.Seconds(30)},
			{ExerciseID: "push-ups", Sets: 2, Reps: model.AMRAP, RestSeconds: model.Seconds(45)},
		},
	},
}

// Routines returns a deep copy of the built-in routines in catalog order.
func Routines() []model.WorkoutRoutine {
	out := make([]model.WorkoutRoutine, len(builtinRoutines))
	for i, r := range builtinRoutines {
		out[i] = model.CloneRoutine(r)
	}
	return out
}
