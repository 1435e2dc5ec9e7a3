// Package analytics derives progress statistics from the workout history.
package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/verte-zerg/tuifit/internal/model"
)

const day = 24 * time.Hour

// Summary is the headline numbers of the progress screen.
type Summary struct {
	Total         int
	ThisWeek      int
	TotalMinutes  int
	CurrentStreak int
	LongestStreak int
	TopRoutine    RoutineCount
	HasTop        bool
}

// RoutineCount aggregates the logs of one routine.
type RoutineCount struct {
	RoutineID string
	Name      string
	Count     int
	Minutes   int
	Last      time.Time
}

// DayCount is the activity of one local calendar day.
type DayCount struct {
	Day     time.Time
	Count   int
	Minutes int
}

// Summarize computes the summary for logs as seen at now.
func Summarize(logs []model.WorkoutLog, now time.Time) Summary {
	s := Summary{Total: len(logs)}
	cutoff := now.Add(-7 * day)
	for _, l := range logs {
		if !l.CompletedAt.Before(cutoff) {
			s.ThisWeek++
		}
		s.TotalMinutes += l.Duration
	}
	s.CurrentStreak, s.LongestStreak = Streaks(logs, now)
	s.TopRoutine, s.HasTop = TopRoutine(logs)
	return s
}

// DailyHistogram counts logs per local calendar day for the days ending today,
// oldest first. Days are taken in now's location.
func DailyHistogram(logs []model.WorkoutLog, now time.Time, days int) []DayCount {
	if days <= 0 {
		return nil
	}
	loc := now.Location()
	today := startOfDay(now, loc)
	first := today.AddDate(0, 0, -(days - 1))

	out := make([]DayCount, days)
	index := make(map[string]int, days)
	for i := range out {
		d := first.AddDate(0, 0, i)
		out[i].Day = d
		index[dayKey(d, loc)] = i
	}
	for _, l := range logs {
		i, ok := index[dayKey(l.CompletedAt, loc)]
		if !ok {
			continue
		}
		out[i].Count++
		out[i].Minutes += l.Duration
	}
	return out
}

// Streaks returns the current and longest runs of consecutive local days with at
// least one log. The current streak is alive if the latest active day is today or
// yesterday.
func Streaks(logs []model.WorkoutLog, now time.Time) (current, longest int) {
	if len(logs) == 0 {
		return 0, 0
	}
	loc := now.Location()
	active := make(map[string]struct{}, len(logs))
	daysList := make([]time.Time, 0, len(logs))
	for _, l := range logs {
		key := dayKey(l.CompletedAt, loc)
		if _, ok := active[key]; ok {
			continue
		}
		active[key] = struct{}{}
		daysList = append(daysList, startOfDay(l.CompletedAt, loc))
	}
	sort.Slice(daysList, func(i, j int) bool { return daysList[i].Before(daysList[j]) })

	run := 0
	var prev time.Time
	for i, d := range daysList {
		if i > 0 && prev.AddDate(0, 0, 1).Equal(d) {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
		prev = d
	}

	cursor := startOfDay(now, loc)
	if _, ok := active[dayKey(cursor, loc)]; !ok {
		cursor = cursor.AddDate(0, 0, -1)
	}
	for {
		if _, ok := active[dayKey(cursor, loc)]; !ok {
			break
		}
		current++
		cursor = cursor.AddDate(0, 0, -1)
	}
	return current, longest
}

// RoutineBreakdown groups logs by routine, most performed first. Ties go to the
// routine performed most recently.
func RoutineBreakdown(logs []model.WorkoutLog) []RoutineCount {
	byID := map[string]*RoutineCount{}
	order := make([]string, 0)
	for _, l := range logs {
		rc, ok := byID[l.RoutineID]
		if !ok {
			rc = &RoutineCount{RoutineID: l.RoutineID}
			byID[l.RoutineID] = rc
			order = append(order, l.RoutineID)
		}
		rc.Count++
		rc.Minutes += l.Duration
		if rc.Name == "" || l.CompletedAt.After(rc.Last) {
			rc.Last = l.CompletedAt
			rc.Name = l.RoutineName
		}
	}
	out := make([]RoutineCount, 0, len(order))
	for _, id := range order {
		out = append(out, *byID[id])
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Last.After(out[j].Last)
	})
	return out
}

// TopRoutine returns the most performed routine.
func TopRoutine(logs []model.WorkoutLog) (RoutineCount, bool) {
	breakdown := RoutineBreakdown(logs)
	if len(breakdown) == 0 {
		return RoutineCount{}, false
	}
	return breakdown[0], true
}

// RelativeDay labels t by whole 24h periods elapsed before now: "Today",
// "Yesterday", "N days ago" within a week, and the date beyond that.
func RelativeDay(t, now time.Time) string {
	days := int(now.Sub(t) / day)
	switch {
	case days <= 0:
		return "Today"
	case days == 1:
		return "Yesterday"
	case days < 7:
		return fmt.Sprintf("%d days ago", days)
	default:
		return t.In(now.Location()).Format("Jan 2, 2006")
	}
}

// Filter applies the stats filters. Logs stay newest first.
func Filter(logs []model.WorkoutLog, cfg model.StatsConfig, now time.Time) []model.WorkoutLog {
	var cutoff time.Time
	if cfg.Since != nil {
		cutoff = *cfg.Since
	}
	if cfg.Days > 0 {
		c := startOfDay(now, now.Location()).AddDate(0, 0, -(cfg.Days - 1))
		if c.After(cutoff) {
			cutoff = c
		}
	}
	out := make([]model.WorkoutLog, 0, len(logs))
	for _, l := range logs {
		if cfg.Routine != "" && l.RoutineID != cfg.Routine {
			continue
		}
		if !cutoff.IsZero() && l.CompletedAt.Before(cutoff) {
			continue
		}
		out = append(out, l)
		if cfg.Last > 0 && len(out) == cfg.Last {
			break
		}
	}
	return out
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

func dayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("2006-01-02")
}
