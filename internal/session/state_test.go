package session

import (
	"errors"
	"testing"
)

func TestRestAdvancesExactlyOnce(t *testing.T) {
	s, err := State{}.Start()
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	s, err = s.Finish(3, 60)
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	if s.Phase != Resting || s.Rest.Left() != 60 {
		t.Fatalf("expected 60s rest, got %v %d", s.Phase, s.Rest.Left())
	}

	advances := 0
	for i := 0; i < 60; i++ {
		var advanced bool
		s, advanced = s.Tick()
		if advanced {
			advances++
		}
	}
	if advances != 1 || s.Phase != Active || s.Index != 1 {
		t.Fatalf("expected one advance to Active[1], got %d advances, %v[%d]", advances, s.Phase, s.Index)
	}
	for i := 0; i < 5; i++ {
		var advanced bool
		s, advanced = s.Tick()
		if advanced {
			t.Fatalf("unexpected second advance")
		}
	}
	if s.Index != 1 {
		t.Fatalf("expected index to stay 1, got %d", s.Index)
	}
}

func TestTransitionsAreRefusedOutOfPhase(t *testing.T) {
	if _, err := (State{}).Finish(2, 30); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected finish in overview to fail, got %v", err)
	}
	if _, err := (State{}).SkipRest(); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected skip rest in overview to fail, got %v", err)
	}
	active := State{Phase: Active, Index: 1}
	if _, err := active.Skip(2); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected skip on last exercise to fail, got %v", err)
	}
	if _, err := active.Start(); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected second start to fail, got %v", err)
	}
	if _, err := active.Removed(1); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected removal while active to fail, got %v", err)
	}
}

func TestFinishLastCompletes(t *testing.T) {
	s := State{Phase: Active, Index: 1}
	next, err := s.Finish(2, 45)
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	if next.Phase != Complete {
		t.Fatalf("expected complete, got %v", next.Phase)
	}
	if s.Phase != Active {
		t.Fatalf("expected receiver to be unchanged")
	}
}

func TestRemovedClampsBackward(t *testing.T) {
	cases := []struct {
		index, count, want int
	}{
		{index: 0, count: 2, want: 0},
		{index: 2, count: 2, want: 1},
		{index: 1, count: 2, want: 1},
		{index: 0, count: 0, want: 0},
	}
	for _, tc := range cases {
		got, err := State{Index: tc.index}.Removed(tc.count)
		if err != nil {
			t.Fatalf("removed: %v", err)
		}
		if got.Index != tc.want {
			t.Fatalf("index %d count %d: got %d, want %d", tc.index, tc.count, got.Index, tc.want)
		}
	}
}

func TestProgressFloorsDenominator(t *testing.T) {
	s := State{Phase: Active}
	if p := s.Progress(0); p != 1 {
		t.Fatalf("expected 1 for empty list, got %v", p)
	}
	if p := s.Progress(4); p != 0.25 {
		t.Fatalf("expected 0.25, got %v", p)
	}
	if p := (State{}).Progress(4); p != 0 {
		t.Fatalf("expected 0 in overview, got %v", p)
	}
}
