package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/tuifit/internal/model"
	"github.com/verte-zerg/tuifit/internal/session"
)

type sessionView struct {
	engine *session.Engine

	adding    bool
	available []model.Exercise
	addCursor int

	bar     progress.Model
	restBar progress.Model
	width   int
}

func newSessionView(engine *session.Engine, width int) *sessionView {
	v := &sessionView{
		engine:  engine,
		bar:     progress.New(progress.WithDefaultGradient()),
		restBar: progress.New(progress.WithSolidFill("#C89A3A"), progress.WithoutPercentage()),
	}
	v.resize(width)
	return v
}

func (v *sessionView) resize(width int) {
	v.width = width
	v.bar.Width = width
	v.restBar.Width = width
}

// tick advances the rest countdown and reports whether it is still running.
func (v *sessionView) tick() bool {
	v.engine.Tick()
	return v.engine.State().Phase == session.Resting
}

func (m *Model) openSession(routineID string) error {
	engine, err := m.state.NewSession(routineID)
	if err != nil {
		return err
	}
	m.stopTicking()
	m.session = newSessionView(engine, m.contentWidth())
	m.screen = screenSession
	m.status = ""
	return nil
}

func (m *Model) updateSession(msg tea.KeyMsg) tea.Cmd {
	v := m.session
	if v == nil {
		m.goPicker("")
		return nil
	}
	if v.adding {
		m.updateAddList(msg)
		return nil
	}

	st := v.engine.State()
	key := msg.String()
	if key == "esc" {
		if st.Phase == session.Active || st.Phase == session.Resting {
			m.log.WithField("routine", v.engine.Routine().ID).Debug("session abandoned")
			m.goPicker("Workout abandoned")
			return nil
		}
		m.goPicker("")
		return nil
	}

	var err error
	switch st.Phase {
	case session.Overview:
		switch key {
		case "up", "k":
			err = v.engine.Select(st.Index - 1)
		case "down", "j":
			err = v.engine.Select(st.Index + 1)
		case "a":
			v.adding = true
			v.available = v.engine.Available()
			v.addCursor = 0
		case "x", "d", "delete":
			if v.engine.Count() > 0 {
				err = v.engine.RemoveExercise(st.Index)
			}
		case "enter", "s":
			err = v.engine.Start(m.now())
		}
	case session.Active:
		switch key {
		case "enter", " ":
			if err = v.engine.Finish(m.now()); err == nil {
				return m.afterFinish()
			}
		case "n":
			if st.Index < v.engine.Count()-1 {
				err = v.engine.Skip()
			}
		}
	case session.Resting:
		switch key {
		case "enter", " ", "s":
			m.stopTicking()
			err = v.engine.SkipRest()
		}
	case session.Complete:
		switch key {
		case "enter", "q":
			m.goPicker("Workout saved")
		}
	}
	if err != nil {
		m.errMsg = err.Error()
	}
	return nil
}

func (m *Model) afterFinish() tea.Cmd {
	switch m.session.engine.State().Phase {
	case session.Resting:
		return m.startTicking()
	case session.Complete:
		m.stopTicking()
		m.picker.refresh(m.state, m.now())
	}
	return nil
}

func (m *Model) updateAddList(msg tea.KeyMsg) {
	v := m.session
	switch msg.String() {
	case "esc", "a":
		v.adding = false
	case "up", "k":
		if len(v.available) > 0 {
			v.addCursor = (v.addCursor - 1 + len(v.available)) % len(v.available)
		}
	case "down", "j":
		if len(v.available) > 0 {
			v.addCursor = (v.addCursor + 1) % len(v.available)
		}
	case "enter":
		if v.addCursor >= len(v.available) {
			return
		}
		ex := v.available[v.addCursor]
		if err := v.engine.AddExercise(ex.ID); err != nil {
			m.errMsg = err.Error()
			return
		}
		m.status = fmt.Sprintf("Added %s", ex.Name)
		v.available = v.engine.Available()
		v.addCursor = clampIndex(v.addCursor, len(v.available))
		if len(v.available) == 0 {
			v.adding = false
		}
	}
}

func (m *Model) viewSession() (string, string) {
	v := m.session
	if v == nil {
		return "", ""
	}
	if v.adding {
		return v.viewAddList(), "Add: enter  Move: up/down  Done: esc"
	}
	st := v.engine.State()
	switch st.Phase {
	case session.Active:
		return v.viewActive(), "Done: enter/space  Skip: n  Abandon: esc"
	case session.Resting:
		return v.viewResting(), "Skip rest: enter/space  Abandon: esc"
	case session.Complete:
		return v.viewComplete(), "Back: enter"
	default:
		return v.viewOverview(), "Start: enter  Move: up/down  Add: a  Remove: x  Back: esc"
	}
}

func (v *sessionView) header() string {
	rt := v.engine.Routine()
	title := accent(rt.Color).Render("●") + " " + titleStyle.Render(rt.Name)
	meta := mutedStyle.Render(fmt.Sprintf("%s · %s", difficultyLabel(rt.Difficulty), rt.Duration))
	return title + "\n" + meta
}

func (v *sessionView) viewOverview() string {
	lines := []string{v.header(), ""}
	slots := v.engine.Slots()
	if len(slots) == 0 {
		lines = append(lines, mutedStyle.Render("No exercises yet. Press a to add one."))
	}
	cursor := v.engine.State().Index
	for _, s := range slots {
		lines = append(lines, slotLine(s, s.Index == cursor))
	}
	return strings.Join(lines, "\n")
}

func slotLine(s session.Slot, selected bool) string {
	if !s.Resolved {
		return "  " + missingStyle.Render(fmt.Sprintf("%d. unknown exercise (%s)", s.Index+1, s.Item.ExerciseID))
	}
	line := fmt.Sprintf("%d. %s  %s", s.Index+1, s.Exercise.Name, setsLabel(s.Item))
	return cursorLine(selected, line)
}

func setsLabel(item model.WorkoutExercise) string {
	reps := item.Reps
	if reps == "" {
		return fmt.Sprintf("%d sets", item.Sets)
	}
	return fmt.Sprintf("%d × %s", item.Sets, reps)
}

func (v *sessionView) viewAddList() string {
	lines := []string{titleStyle.Render("Add exercise"), ""}
	if len(v.available) == 0 {
		lines = append(lines, mutedStyle.Render("Every exercise is already in this workout."))
	}
	for i, ex := range v.available {
		line := fmt.Sprintf("%s  %s", ex.Name, mutedStyle.Render(ex.MuscleGroup+" · "+ex.Equipment))
		lines = append(lines, cursorLine(i == v.addCursor, line))
	}
	return strings.Join(lines, "\n")
}

func (v *sessionView) viewActive() string {
	st := v.engine.State()
	lines := []string{
		v.header(),
		"",
		mutedStyle.Render(fmt.Sprintf("Exercise %d of %d", st.Index+1, v.engine.Count())),
		v.bar.ViewAs(v.engine.Progress()),
		"",
	}
	cur, ok := v.engine.Current()
	switch {
	case !ok:
		lines = append(lines, mutedStyle.Render("Nothing scheduled. Press enter to finish."))
	case !cur.Resolved:
		lines = append(lines, missingStyle.Render("Unknown exercise ("+cur.Item.ExerciseID+")"))
	default:
		lines = append(lines,
			titleStyle.Render(cur.Exercise.Name),
			accentStyle.Render(setsLabel(cur.Item)),
			mutedStyle.Render(cur.Exercise.MuscleGroup+" · "+cur.Exercise.Equipment),
		)
		if text := wrapText(cur.Exercise.Instructions, v.width); len(text) > 0 {
			lines = append(lines, "")
			for _, l := range text {
				lines = append(lines, textStyle.Render(l))
			}
		}
		if cur.Item.Notes != "" {
			lines = append(lines, "", mutedStyle.Render("Note: "+cur.Item.Notes))
		}
	}
	if next, ok := v.engine.Next(); ok {
		lines = append(lines, "", mutedStyle.Render("Up next: "+slotName(next)))
	}
	return strings.Join(lines, "\n")
}

func (v *sessionView) viewResting() string {
	rest := v.engine.State().Rest
	lines := []string{
		v.header(),
		"",
		mutedStyle.Render("Rest"),
		clockStyle.Render(session.FormatClock(rest.Left())),
		v.restBar.ViewAs(rest.Elapsed()),
	}
	if cur, ok := v.engine.Current(); ok {
		lines = append(lines, "", mutedStyle.Render("Up next: "+slotName(cur)+"  "+setsLabel(cur.Item)))
	}
	return strings.Join(lines, "\n")
}

func (v *sessionView) viewComplete() string {
	lines := []string{v.header(), "", titleStyle.Render("Workout complete!")}
	if res, ok := v.engine.Result(); ok {
		lines = append(lines,
			mutedStyle.Render(fmt.Sprintf("%d min · %s", res.Duration, pluralExercises(res.ExercisesCompleted))),
		)
	}
	lines = append(lines, v.bar.ViewAs(1))
	return strings.Join(lines, "\n")
}

func slotName(s session.Slot) string {
	if !s.Resolved {
		return "unknown exercise"
	}
	return s.Exercise.Name
}
