package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/tuifit/internal/app"
	"github.com/verte-zerg/tuifit/internal/model"
)

// browseRows is how many exercises the list shows around the cursor.
const browseRows = 12

// browseView lists exercises filtered by muscle group and shows one in detail.
type browseView struct {
	groups    []string
	group     int
	exercises []model.Exercise
	cursor    int
	detail    bool
}

func (v *browseView) refresh(st *app.State) {
	v.groups = st.Exercises.MuscleGroups()
	v.group = clampIndex(v.group, len(v.groups))
	v.exercises = st.Exercises.ByMuscleGroup(v.groups[v.group])
	v.cursor = clampIndex(v.cursor, len(v.exercises))
}

func (v *browseView) selected() (model.Exercise, bool) {
	if v.cursor < 0 || v.cursor >= len(v.exercises) {
		return model.Exercise{}, false
	}
	return v.exercises[v.cursor], true
}

func (m *Model) openBrowse() {
	m.stopTicking()
	m.browse = &browseView{}
	m.browse.refresh(m.state)
	m.screen = screenBrowse
	m.status = ""
}

func (m *Model) updateBrowse(msg tea.KeyMsg) tea.Cmd {
	v := m.browse
	if v == nil {
		m.goPicker("")
		return nil
	}
	key := msg.String()
	if v.detail {
		switch key {
		case "esc", "enter", "backspace", "q":
			v.detail = false
		}
		return nil
	}
	switch key {
	case "esc", "q":
		m.goPicker("")
	case "left", "h":
		v.group = (v.group - 1 + len(v.groups)) % len(v.groups)
		v.cursor = 0
		v.refresh(m.state)
	case "right", "l", "tab":
		v.group = (v.group + 1) % len(v.groups)
		v.cursor = 0
		v.refresh(m.state)
	case "up", "k":
		if len(v.exercises) > 0 {
			v.cursor = (v.cursor - 1 + len(v.exercises)) % len(v.exercises)
		}
	case "down", "j":
		if len(v.exercises) > 0 {
			v.cursor = (v.cursor + 1) % len(v.exercises)
		}
	case "enter":
		if _, ok := v.selected(); ok {
			v.detail = true
		}
	}
	return nil
}

func (m *Model) viewBrowse() (string, string) {
	v := m.browse
	width := m.contentWidth()
	if v.detail {
		if ex, ok := v.selected(); ok {
			return viewExerciseDetail(ex, width), "Back: esc"
		}
	}

	chips := make([]string, 0, len(v.groups))
	for i, g := range v.groups {
		if i == v.group {
			chips = append(chips, activeChipStyle.Render(g))
		} else {
			chips = append(chips, chipStyle.Render(g))
		}
	}
	lines := []string{
		titleStyle.Render("Exercises"),
		lipgloss.NewStyle().MaxWidth(width).Render(lipgloss.JoinHorizontal(lipgloss.Top, chips...)),
		"",
	}
	if len(v.exercises) == 0 {
		lines = append(lines, mutedStyle.Render("No exercises."))
	}
	start := max(0, min(v.cursor-browseRows/2, len(v.exercises)-browseRows))
	end := min(len(v.exercises), start+browseRows)
	for i := start; i < end; i++ {
		ex := v.exercises[i]
		name := truncate(ex.Name, width/2)
		meta := truncate(ex.MuscleGroup+" · "+ex.Equipment, width-width/2-4)
		lines = append(lines, cursorLine(i == v.cursor, name)+"  "+mutedStyle.Render(meta))
	}
	help := "Details: enter  Move: up/down  Muscle group: left/right  Back: esc"
	return strings.Join(lines, "\n"), help
}

func viewExerciseDetail(ex model.Exercise, width int) string {
	lines := []string{
		titleStyle.Render(ex.Name),
		chipStyle.Render(ex.MuscleGroup) + " " + chipStyle.Render(ex.Equipment),
		"",
		accentStyle.Render("Instructions"),
	}
	text := wrapText(ex.Instructions, width)
	if len(text) == 0 {
		lines = append(lines, mutedStyle.Render("No instructions."))
	}
	for _, l := range text {
		lines = append(lines, textStyle.Render(l))
	}
	return strings.Join(lines, "\n")
}
