package analytics

import (
	"testing"
	"time"

	"github.com/verte-zerg/tuifit/internal/model"
)

var testNow = time.Date(2026, 6, 15, 20, 0, 0, 0, time.UTC)

func logAt(routine string, t time.Time, minutes int) model.WorkoutLog {
	return model.WorkoutLog{
		ID:          routine + t.Format(time.RFC3339),
		RoutineID:   routine,
		RoutineName: "Routine " + routine,
		CompletedAt: t,
		Duration:    minutes,
	}
}

func daysAgo(n int, hour int) time.Time {
	d := testNow.AddDate(0, 0, -n)
	return time.Date(d.Year(), d.Month(), d.Day(), hour, 0, 0, 0, time.UTC)
}

func TestStreaks(t *testing.T) {
	logs := []model.WorkoutLog{
		logAt("a", daysAgo(0, 7), 30),
		logAt("a", daysAgo(0, 18), 30),
		logAt("b", daysAgo(1, 7), 20),
		logAt("a", daysAgo(2, 7), 20),
		logAt("b", daysAgo(10, 7), 20),
		logAt("b", daysAgo(11, 7), 20),
		logAt("b", daysAgo(12, 7), 20),
		logAt("b", daysAgo(13, 7), 20),
	}
	current, longest := Streaks(logs, testNow)
	if current != 3 {
		t.Fatalf("expected current streak 3, got %d", current)
	}
	if longest != 4 {
		t.Fatalf("expected longest streak 4, got %d", longest)
	}
}

func TestCurrentStreakFromYesterday(t *testing.T) {
	logs := []model.WorkoutLog{
		logAt("a", daysAgo(1, 7), 30),
		logAt("a", daysAgo(2, 7), 30),
	}
	if current, _ := Streaks(logs, testNow); current != 2 {
		t.Fatalf("expected streak alive from yesterday, got %d", current)
	}
	stale := []model.WorkoutLog{logAt("a", daysAgo(2, 7), 30)}
	if current, longest := Streaks(stale, testNow); current != 0 || longest != 1 {
		t.Fatalf("expected broken streak, got current=%d longest=%d", current, longest)
	}
	if current, longest := Streaks(nil, testNow); current != 0 || longest != 0 {
		t.Fatalf("expected zero streaks for no logs")
	}
}

func TestDailyHistogramUsesLocalDays(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	now := time.Date(2026, 6, 15, 1, 0, 0, 0, loc)
	logs := []model.WorkoutLog{
		// 22:30 UTC on the 14th is already the 15th at UTC+3.
		logAt("a", time.Date(2026, 6, 14, 22, 30, 0, 0, time.UTC), 10),
		logAt("a", time.Date(2026, 6, 14, 12, 0, 0, 0, time.UTC), 25),
		logAt("a", time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC), 25),
	}
	hist := DailyHistogram(logs, now, 3)
	if len(hist) != 3 {
		t.Fatalf("expected 3 days, got %d", len(hist))
	}
	if hist[0].Day.Day() != 13 || hist[2].Day.Day() != 15 {
		t.Fatalf("expected days 13..15 oldest first, got %v..%v", hist[0].Day, hist[2].Day)
	}
	if hist[2].Count != 1 || hist[2].Minutes != 10 {
		t.Fatalf("unexpected today bucket: %+v", hist[2])
	}
	if hist[1].Count != 1 || hist[1].Minutes != 25 {
		t.Fatalf("unexpected yesterday bucket: %+v", hist[1])
	}
	if hist[0].Count != 0 {
		t.Fatalf("expected empty first bucket: %+v", hist[0])
	}
	if DailyHistogram(logs, now, 0) != nil {
		t.Fatalf("expected nil for zero days")
	}
}

func TestTopRoutineTieGoesToMostRecent(t *testing.T) {
	logs := []model.WorkoutLog{
		logAt("b", daysAgo(1, 7), 10),
		logAt("a", daysAgo(2, 7), 10),
		logAt("b", daysAgo(3, 7), 10),
		logAt("a", daysAgo(4, 7), 10),
	}
	top, ok := TopRoutine(logs)
	if !ok || top.RoutineID != "b" || top.Count != 2 {
		t.Fatalf("expected b as top routine, got %+v", top)
	}
	logs = append(logs, logAt("a", daysAgo(5, 7), 10))
	top, _ = TopRoutine(logs)
	if top.RoutineID != "a" || top.Count != 3 {
		t.Fatalf("expected a as top routine, got %+v", top)
	}
	if _, ok := TopRoutine(nil); ok {
		t.Fatalf("expected no top routine for empty history")
	}
}

func TestRelativeDay(t *testing.T) {
	cases := []struct {
		at   time.Time
		want string
	}{
		{testNow.Add(-time.Hour), "Today"},
		{testNow.Add(time.Hour), "Today"},
		{testNow.Add(-30 * time.Hour), "Yesterday"},
		{testNow.Add(-3 * 24 * time.Hour), "3 days ago"},
		{testNow.Add(-8 * 24 * time.Hour), "Jun 7, 2026"},
	}
	for _, tc := range cases {
		if got := RelativeDay(tc.at, testNow); got != tc.want {
			t.Fatalf("RelativeDay(%v) = %q, want %q", tc.at, got, tc.want)
		}
	}
}

func TestSummarize(t *testing.T) {
	logs := []model.WorkoutLog{
		logAt("a", daysAgo(0, 7), 30),
		logAt("b", daysAgo(6, 7), 20),
		logAt("a", daysAgo(9, 7), 15),
	}
	s := Summarize(logs, testNow)
	if s.Total != 3 || s.ThisWeek != 2 || s.TotalMinutes != 65 {
		t.Fatalf("unexpected summary: %+v", s)
	}
	if !s.HasTop || s.TopRoutine.RoutineID != "a" {
		t.Fatalf("expected top routine a, got %+v", s.TopRoutine)
	}
}

func TestFilter(t *testing.T) {
	logs := []model.WorkoutLog{
		logAt("a", daysAgo(0, 7), 30),
		logAt("b", daysAgo(1, 7), 20),
		logAt("a", daysAgo(5, 7), 15),
		logAt("a", daysAgo(20, 7), 15),
	}
	if got := Filter(logs, model.StatsConfig{Routine: "a"}, testNow); len(got) != 3 {
		t.Fatalf("expected 3 logs for routine a, got %d", len(got))
	}
	if got := Filter(logs, model.StatsConfig{Days: 2}, testNow); len(got) != 2 {
		t.Fatalf("expected 2 logs in 2 days, got %d", len(got))
	}
	if got := Filter(logs, model.StatsConfig{Last: 1}, testNow); len(got) != 1 || got[0].RoutineID != "a" {
		t.Fatalf("expected newest log only, got %+v", got)
	}
	since := daysAgo(5, 0)
	if got := Filter(logs, model.StatsConfig{Since: &since}, testNow); len(got) != 3 {
		t.Fatalf("expected 3 logs since cutoff, got %d", len(got))
	}
}

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{2, 4, 6, 8}, 2)
	want := []float64{2, 3, 5, 7}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("MovingAverage = %v, want %v", got, want)
		}
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline([]float64{0, 0, 0}); got != "   " {
		t.Fatalf("expected blank sparkline, got %q", got)
	}
	got := Sparkline([]float64{0, 1, 2})
	if len(got) != 3 || got[0] != ' ' || got[2] != '@' {
		t.Fatalf("unexpected sparkline %q", got)
	}
}
