package analytics

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/verte-zerg/tuifit/internal/model"
)

const (
	sparkChars        = " .:-=+*#%@"
	DefaultWindowDays = 28
	averageWindow     = 7
)

// Report contains precomputed data for progress rendering.
type Report struct {
	GeneratedAt time.Time
	Logs        []model.WorkoutLog
	Summary     Summary
	Days        []DayCount
	Routines    []RoutineCount
}

// BuildReport filters logs and derives everything the progress views show.
func BuildReport(logs []model.WorkoutLog, cfg model.StatsConfig, now time.Time) Report {
	filtered := Filter(logs, cfg, now)
	days := cfg.Days
	if days <= 0 {
		days = DefaultWindowDays
	}
	return Report{
		GeneratedAt: now,
		Logs:        filtered,
		Summary:     Summarize(filtered, now),
		Days:        DailyHistogram(filtered, now, days),
		Routines:    RoutineBreakdown(filtered),
	}
}

// Counts returns the per-day workout counts as plot values.
func (r Report) Counts() []float64 {
	out := make([]float64, len(r.Days))
	for i, d := range r.Days {
		out[i] = float64(d.Count)
	}
	return out
}

// Minutes returns the per-day training minutes as plot values.
func (r Report) Minutes() []float64 {
	out := make([]float64, len(r.Days))
	for i, d := range r.Days {
		out[i] = float64(d.Minutes)
	}
	return out
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 {
		copy(out, values)
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		out[i] = sum / float64(min(i+1, window))
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline scaled from zero.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	top := 0.0
	for _, v := range values {
		top = math.Max(top, v)
	}
	if top <= 0 {
		return strings.Repeat(string(sparkChars[0]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		idx := int(math.Round(v / top * float64(len(sparkChars)-1)))
		b.WriteByte(sparkChars[min(max(idx, 0), len(sparkChars)-1)])
	}
	return b.String()
}

// RenderSummary prints the headline numbers.
func RenderSummary(w io.Writer, s Summary) error {
	if s.Total == 0 {
		_, err := fmt.Fprintln(w, "No workouts yet. Complete a workout to see your history.")
		return err
	}
	lines := [][]string{
		{"Total workouts", strconv.Itoa(s.Total)},
		{"This week", strconv.Itoa(s.ThisWeek)},
		{"Total time", fmt.Sprintf("%d min", s.TotalMinutes)},
		{"Current streak", pluralDays(s.CurrentStreak)},
		{"Longest streak", pluralDays(s.LongestStreak)},
	}
	if s.HasTop {
		lines = append(lines, []string{"Top routine", fmt.Sprintf("%s (%d)", s.TopRoutine.Name, s.TopRoutine.Count)})
	}
	if _, err := fmt.Fprintln(w, "Summary"); err != nil {
		return err
	}
	for _, line := range formatTable(nil, lines, nil) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// HistoryLines formats logs as a table, newest first.
func HistoryLines(logs []model.WorkoutLog, now time.Time) []string {
	rows := make([][]string, 0, len(logs))
	for _, l := range logs {
		rows = append(rows, []string{
			RelativeDay(l.CompletedAt, now),
			l.RoutineName,
			fmt.Sprintf("%d min", l.Duration),
			strconv.Itoa(l.ExercisesCompleted),
		})
	}
	return formatTable([]string{"When", "Routine", "Duration", "Exercises"}, rows, map[int]bool{2: true, 3: true})
}

// RenderHistory prints the workout history table.
func RenderHistory(w io.Writer, logs []model.WorkoutLog, now time.Time) error {
	if len(logs) == 0 {
		_, err := fmt.Fprintln(w, "No workouts found.")
		return err
	}
	for _, line := range HistoryLines(logs, now) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// BreakdownLines formats the per-routine totals.
func BreakdownLines(routines []RoutineCount, now time.Time) []string {
	rows := make([][]string, 0, len(routines))
	for _, r := range routines {
		rows = append(rows, []string{
			r.Name,
			strconv.Itoa(r.Count),
			fmt.Sprintf("%d min", r.Minutes),
			RelativeDay(r.Last, now),
		})
	}
	return formatTable([]string{"Routine", "Count", "Time", "Last"}, rows, map[int]bool{1: true, 2: true})
}

// RenderActivity plots workouts per day with a rolling weekly average.
func RenderActivity(w io.Writer, r Report, width, height int, forceColor bool) error {
	if len(r.Days) == 0 {
		return nil
	}
	counts := r.Counts()
	title := fmt.Sprintf("Workouts per day, last %d days  %s", len(r.Days), Sparkline(counts))
	return PlotSeriesWithColor(w, title, []Series{
		{Name: "workouts", Values: counts},
		{Name: fmt.Sprintf("%d-day avg", averageWindow), Values: MovingAverage(counts, averageWindow)},
	}, width, height, forceColor)
}

// RenderText prints the full plain-text report.
func RenderText(w io.Writer, r Report) error {
	if err := RenderSummary(w, r.Summary); err != nil {
		return err
	}
	if r.Summary.Total == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	if err := RenderActivity(w, r, 0, 0, false); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	for _, line := range BreakdownLines(r.Routines, r.GeneratedAt) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func pluralDays(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}
