package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/tuifit/internal/analytics"
	"github.com/verte-zerg/tuifit/internal/app"
	"github.com/verte-zerg/tuifit/internal/model"
)

type pickerRow struct {
	routine   model.WorkoutRoutine
	exercises int
	edited    bool
}

type picker struct {
	rows    []pickerRow
	cursor  int
	summary analytics.Summary
}

func (p *picker) refresh(st *app.State, now time.Time) {
	routines := st.Routines.All()
	p.rows = make([]pickerRow, 0, len(routines))
	for _, rt := range routines {
		p.rows = append(p.rows, pickerRow{
			routine:   rt,
			exercises: len(st.Routines.EffectiveExercises(rt.ID, rt.Exercises)),
			edited:    st.Routines.HasOverride(rt.ID),
		})
	}
	p.cursor = clampIndex(p.cursor, len(p.rows))
	p.summary = analytics.Summarize(st.Logs.All(), now)
}

func (p *picker) move(delta int) {
	if len(p.rows) == 0 {
		return
	}
	p.cursor = (p.cursor + delta + len(p.rows)) % len(p.rows)
}

func (p *picker) selected() (model.WorkoutRoutine, bool) {
	if p.cursor < 0 || p.cursor >= len(p.rows) {
		return model.WorkoutRoutine{}, false
	}
	return p.rows[p.cursor].routine, true
}

func (m *Model) updatePicker(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q", "esc":
		return tea.Quit
	case "up", "k":
		m.picker.move(-1)
	case "down", "j":
		m.picker.move(1)
	case "g", "home":
		m.picker.cursor = 0
	case "G", "end":
		m.picker.cursor = max(0, len(m.picker.rows)-1)
	case "enter":
		rt, ok := m.picker.selected()
		if !ok {
			return nil
		}
		if err := m.openSession(rt.ID); err != nil {
			m.errMsg = err.Error()
		}
	case "t":
		m.openTimer()
	case "b":
		m.openBrowse()
	case "n":
		return m.openForm(screenRoutineForm)
	case "e":
		return m.openForm(screenExerciseForm)
	case "r":
		rt, ok := m.picker.selected()
		if !ok {
			return nil
		}
		if m.state.Routines.ResetEffectiveExercises(rt.ID) {
			m.status = fmt.Sprintf("Restored default exercises for %s", rt.Name)
			m.picker.refresh(m.state, m.now())
		}
	}
	return nil
}

func (m *Model) viewPicker() (string, string) {
	width := m.contentWidth()
	lines := []string{
		titleStyle.Render("Workouts"),
		renderSummaryLine(m.picker.summary),
		"",
	}
	if len(m.picker.rows) == 0 {
		lines = append(lines, mutedStyle.Render("No routines."))
	}
	for i, row := range m.picker.rows {
		selected := i == m.picker.cursor
		marker := accent(row.routine.Color).Render("●")
		name := row.routine.Name
		if row.edited {
			name += " *"
		}
		meta := fmt.Sprintf("%s · %s · %s", difficultyLabel(row.routine.Difficulty), row.routine.Duration, pluralExercises(row.exercises))
		lines = append(lines, marker+" "+cursorLine(selected, name))
		lines = append(lines, "    "+mutedStyle.Render(truncate(meta, width-4)))
		if selected && row.routine.Description != "" {
			for _, l := range wrapText(row.routine.Description, width-4) {
				lines = append(lines, "    "+mutedStyle.Render(l))
			}
		}
	}
	help := "Start: enter  Move: up/down  Timer: t  Exercises: b  New routine: n  New exercise: e  Reset edits: r  Quit: q"
	return strings.Join(lines, "\n"), help
}

func renderSummaryLine(s analytics.Summary) string {
	if s.Total == 0 {
		return mutedStyle.Render("No workouts yet. Complete a workout to see your history.")
	}
	parts := []string{
		fmt.Sprintf("%d total", s.Total),
		fmt.Sprintf("%d this week", s.ThisWeek),
		fmt.Sprintf("%d min", s.TotalMinutes),
	}
	if s.CurrentStreak > 0 {
		parts = append(parts, fmt.Sprintf("%d-day streak", s.CurrentStreak))
	}
	return mutedStyle.Render(strings.Join(parts, " · "))
}

func difficultyLabel(d model.Difficulty) string {
	s := string(d)
	if s == "" {
		return "-"
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func pluralExercises(n int) string {
	if n == 1 {
		return "1 exercise"
	}
	return fmt.Sprintf("%d exercises", n)
}

func clampIndex(i, n int) int {
	if n == 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

func truncate(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
