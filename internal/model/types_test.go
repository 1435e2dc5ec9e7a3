package model

import (
	"encoding/json"
	"testing"
)

func TestWorkoutExerciseRestDecoding(t *testing.T) {
	var list []WorkoutExercise
	raw := `[{"exerciseId":"squat","sets":3},{"exerciseId":"plank","sets":2,"restSeconds":0},{"exerciseId":"row","sets":3,"restSeconds":90}]`
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if list[0].RestSeconds != nil || list[0].RestOr(60) != 60 {
		t.Fatalf("expected unset rest, got %v", list[0].RestSeconds)
	}
	if list[1].RestSeconds == nil || list[1].RestOr(60) != 0 {
		t.Fatalf("expected explicit zero rest, got %v", list[1].RestSeconds)
	}
	if list[2].RestOr(60) != 90 {
		t.Fatalf("expected 90s rest, got %d", list[2].RestOr(60))
	}

	out, err := json.Marshal(list[:2])
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `[{"exerciseId":"squat","sets":3},{"exerciseId":"plank","sets":2,"restSeconds":0}]`
	if string(out) != want {
		t.Fatalf("unexpected encoding:\n%s", out)
	}
}

func TestCloneExercisesCopiesRest(t *testing.T) {
	list := []WorkoutExercise{{ExerciseID: "squat", RestSeconds: Seconds(30)}}
	clone := CloneExercises(list)
	*clone[0].RestSeconds = 5
	if *list[0].RestSeconds != 30 {
		t.Fatalf("clone shares rest with the original")
	}
	if CloneExercises(nil) != nil {
		t.Fatalf("nil list must stay nil")
	}
}
