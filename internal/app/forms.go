package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/verte-zerg/tuifit/internal/catalog"
	"github.com/verte-zerg/tuifit/internal/model"
)

// Defaults applied by the add forms when a field is left blank.
const (
	DefaultRoutineDescription = "Custom workout routine"
	DefaultRoutineDuration    = "45 min"
	DefaultRoutineIcon        = "dumbbell"
	DefaultMuscleGroup        = "Chest"
	DefaultEquipment          = "Dumbbells"
)

// ErrEmptyName is returned when a form is submitted without a name.
var ErrEmptyName = errors.New("name is required")

// ExerciseInput is the raw content of the add-exercise form.
type ExerciseInput struct {
	Name         string
	MuscleGroup  string
	Equipment    string
	Instructions string
}

// RoutineInput is the raw content of the add-routine form.
type RoutineInput struct {
	Name        string
	Description string
	Duration    string
	Difficulty  model.Difficulty
	Color       string
}

// AddExercise validates in and stores it as a custom exercise.
func (s *State) AddExercise(in ExerciseInput) (model.Exercise, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return model.Exercise{}, ErrEmptyName
	}
	group := orDefault(in.MuscleGroup, DefaultMuscleGroup)
	equipment := orDefault(in.Equipment, DefaultEquipment)
	ex := s.Exercises.AddCustom(name, group, equipment, strings.TrimSpace(in.Instructions))
	s.log.WithField("exercise", ex.ID).Info("custom exercise added")
	return ex, nil
}

// AddRoutine validates in and stores it as a custom routine with no exercises.
func (s *State) AddRoutine(in RoutineInput) (model.WorkoutRoutine, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return model.WorkoutRoutine{}, ErrEmptyName
	}
	difficulty := in.Difficulty
	if difficulty == "" {
		difficulty = model.Beginner
	}
	if !difficulty.Valid() {
		return model.WorkoutRoutine{}, fmt.Errorf("unknown difficulty %q", in.Difficulty)
	}
	def := model.WorkoutRoutine{
		Name:        name,
		Description: orDefault(in.Description, DefaultRoutineDescription),
		Duration:    orDefault(in.Duration, DefaultRoutineDuration),
		Difficulty:  difficulty,
		Exercises:   []model.WorkoutExercise{},
		Icon:        DefaultRoutineIcon,
		Color:       orDefault(in.Color, catalog.AccentColors[0]),
	}
	def.ID = s.Routines.AddCustom(def)
	s.log.WithField("routine", def.ID).Info("custom routine added")
	return def, nil
}

func orDefault(v, fallback string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return fallback
}
