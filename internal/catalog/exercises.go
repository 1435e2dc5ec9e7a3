// Package catalog holds the built-in exercise and routine reference data.
package catalog

import "github.com/verte-zerg/tuifit/internal/model"

// Option lists offered by the add forms.
var (
	MuscleGroups = []string{"Chest", "Back", "Legs", "Shoulders", "Arms", "Core"}
	Equipment    = []string{"Bodyweight", "Dumbbells", "Barbell", "Cable", "Machine", "Kettlebells", "Bands", "Other"}
	Difficulties = []model.Difficulty{model.Beginner, model.Intermediate, model.Advanced}
	AccentColors = []string{"#00D4AA", "#7C3AED", "#F59E0B", "#EC4899", "#06B6D4", "#10B981", "#EF4444"}
)

var builtinExercises = []model.Exercise{
	// Chest
	{ID: "bench-press", Name: "Bench Press", MuscleGroup: "Chest", Equipment: "Barbell", Instructions: "Lie on bench, grip bar slightly wider than shoulders. Lower bar to mid-chest, then press up. Keep feet flat and core engaged."},
	{ID: "push-ups", Name: "Push-Ups", MuscleGroup: "Chest", Equipment: "Bodyweight", Instructions: "Hands shoulder-width apart, body in straight line. Lower chest to floor, then push back up. Keep core tight throughout."},
	{ID: "incline-dumbbell-press", Name: "Incline Dumbbell Press", MuscleGroup: "Chest", Equipment: "Dumbbells", Instructions: "Set bench to 30-45 degrees. Press dumbbells from shoulder level. Focus on upper chest contraction."},
	{ID: "cable-fly", Name: "Cable Fly", MuscleGroup: "Chest", Equipment: "Cable", Instructions: "Stand between cables, bring hands together in arc motion. Squeeze chest at center, control the return."},
	// Back
	{ID: "deadlift", Name: "Deadlift", MuscleGroup: "Back", Equipment: "Barbell", Instructions: "Hinge at hips, grip bar outside knees. Drive through heels, extend hips. Keep bar close to body."},
	{ID: "pull-ups", Name: "Pull-Ups", MuscleGroup: "Back", Equipment: "Pull-up Bar", Instructions: "Hang with overhand grip. Pull until chin over bar. Lower with control, avoid swinging."},
	{ID: "barbell-row", Name: "Barbell Row", MuscleGroup: "Back", Equipment: "Barbell", Instructions: "Hinge forward, row bar to lower chest. Squeeze shoulder blades. Keep core braced."},
	{ID: "lat-pulldown", Name: "Lat Pulldown", MuscleGroup: "Back", Equipment: "Cable", Instructions: "Wide grip, pull bar to upper chest. Control the eccentric. Engage lats throughout."},
	// Legs
	{ID: "squat", Name: "Barbell Squat", MuscleGroup: "Legs", Equipment: "Barbell", Instructions: "Bar on upper back, feet shoulder-width. Descend until thighs parallel. Drive through heels to stand."},
	{ID: "leg-press", Name: "Leg Press", MuscleGroup: "Legs", Equipment: "Machine", Instructions: "Feet shoulder-width on platform. Lower with control, press through full foot. Don't lock knees."},
	{ID: "romanian-deadlift", Name: "Romanian Deadlift", MuscleGroup: "Legs", Equipment: "Barbell", Instructions: "Slight knee bend, hinge at hips. Lower bar along legs. Feel hamstring stretch, drive hips forward."},
	{ID: "lunges", Name: "Walking Lunges", MuscleGroup: "Legs", Equipment: "Dumbbells", Instructions: "Step forward, lower back knee toward floor. Push through front heel to step. Alternate legs."},
	// Shoulders
	{ID: "overhead-press", Name: "Overhead Press", MuscleGroup: "Shoulders", Equipment: "Barbell", Instructions: "Bar at shoulders, press overhead. Lock out at top. Lower with control."},
	{ID: "lateral-raise", Name: "Lateral Raise", MuscleGroup: "Shoulders", Equipment: "Dumbbells", Instructions: "Slight forward lean, raise dumbbells to sides. Lead with elbows. Control the descent."},
	{ID: "face-pulls", Name: "Face Pulls", MuscleGroup: "Shoulders", Equipment: "Cable", Instructions: "Rope attachment, pull to face level. Externally rotate at end. Great for rear delts."},
	// Arms
	{ID: "barbell-curl", Name: "Barbell Curl", MuscleGroup: "Arms", Equipment: "Barbell", Instructions: "Elbows at sides, curl bar to shoulders. Control descent. No swinging."},
	{ID: "tricep-pushdown", Name: "Tricep Pushdown", MuscleGroup: "Arms", Equipment: "Cable", Instructions: "Elbows locked at sides. Push bar down, squeeze triceps. Control return."},
	{ID: "hammer-curl", Name: "Hammer Curl", MuscleGroup: "Arms", Equipment: "Dumbbells", Instructions: "Neutral grip, curl to shoulders. Alternating or both arms. Feel bicep and brachialis."},
	{ID: "skull-crushers", Name: "Skull Crushers", MuscleGroup: "Arms", Equipment: "Barbell", Instructions: "Lie down, bar over chest. Lower to forehead, extend arms. Keep elbows stable."},
	// Core
	{ID: "plank", Name: "Plank", MuscleGroup: "Core", Equipment: "Bodyweight", Instructions: "Forearms on floor, body straight. Hold position. Engage core and glutes."},
	{ID: "dead-bug", Name: "Dead Bug", MuscleGroup: "Core", Equipment: "Bodyweight", Instructions: "On back, extend opposite arm and leg. Lower slowly, keep lower back pressed down."},
}

// Exercises returns a copy of the built-in exercise catalog in catalog order.
func Exercises() []model.Exercise {
	out := make([]model.Exercise, len(builtinExercises))
	copy(out, builtinExercises)
	return out
}
