package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/tuifit/internal/app"
	"github.com/verte-zerg/tuifit/internal/catalog"
	"github.com/verte-zerg/tuifit/internal/model"
)

// formField is either a free text input or a fixed choice cycled with left/right.
type formField struct {
	label   string
	input   textinput.Model
	choices []string
	choice  int
	swatch  bool
}

func (f *formField) isChoice() bool {
	return f.choices != nil
}

func (f *formField) value() string {
	if f.isChoice() {
		return f.choices[f.choice]
	}
	return f.input.Value()
}

type form struct {
	title  string
	fields []formField
	focus  int
	err    string
}

func newTextField(label, placeholder, value string) formField {
	input := textinput.New()
	input.Prompt = ""
	input.Placeholder = placeholder
	input.CharLimit = 120
	input.Cursor.SetMode(cursor.CursorBlink)
	input.SetValue(value)
	return formField{label: label, input: input}
}

func newChoiceField(label string, choices []string, selected string) formField {
	f := formField{label: label, choices: choices}
	for i, c := range choices {
		if c == selected {
			f.choice = i
		}
	}
	return f
}

func newExerciseForm() *form {
	return &form{
		title: "New exercise",
		fields: []formField{
			newTextField("Name", "e.g. Goblet Squat", ""),
			newChoiceField("Muscle group", catalog.MuscleGroups, app.DefaultMuscleGroup),
			newChoiceField("Equipment", catalog.Equipment, app.DefaultEquipment),
			newTextField("Instructions", "optional", ""),
		},
	}
}

func newRoutineForm() *form {
	difficulties := make([]string, len(catalog.Difficulties))
	for i, d := range catalog.Difficulties {
		difficulties[i] = string(d)
	}
	color := newChoiceField("Color", catalog.AccentColors, catalog.AccentColors[0])
	color.swatch = true
	return &form{
		title: "New routine",
		fields: []formField{
			newTextField("Name", "e.g. Morning Mobility", ""),
			newTextField("Description", app.DefaultRoutineDescription, ""),
			newTextField("Duration", app.DefaultRoutineDuration, app.DefaultRoutineDuration),
			newChoiceField("Difficulty", difficulties, string(model.Beginner)),
			color,
		},
	}
}

func (f *form) resize(width int) {
	for i := range f.fields {
		f.fields[i].input.Width = max(10, width-16)
	}
}

func (f *form) setFocus(idx int) tea.Cmd {
	n := len(f.fields)
	if n == 0 {
		return nil
	}
	f.focus = (idx + n) % n
	var cmd tea.Cmd
	for i := range f.fields {
		if f.fields[i].isChoice() {
			continue
		}
		if i == f.focus {
			cmd = f.fields[i].input.Focus()
		} else {
			f.fields[i].input.Blur()
		}
	}
	return cmd
}

func (f *form) values() []string {
	out := make([]string, len(f.fields))
	for i := range f.fields {
		out[i] = f.fields[i].value()
	}
	return out
}

func (m *Model) openForm(s screen) tea.Cmd {
	m.stopTicking()
	if s == screenRoutineForm {
		m.form = newRoutineForm()
	} else {
		m.form = newExerciseForm()
	}
	m.form.resize(m.contentWidth())
	m.screen = s
	m.status = ""
	return m.form.setFocus(0)
}

func (m *Model) updateForm(msg tea.KeyMsg) tea.Cmd {
	f := m.form
	switch msg.Type {
	case tea.KeyEsc:
		m.goPicker("")
		return nil
	case tea.KeyEnter:
		if err := m.submitForm(); err != nil {
			f.err = err.Error()
		}
		return nil
	case tea.KeyTab, tea.KeyDown:
		return f.setFocus(f.focus + 1)
	case tea.KeyShiftTab, tea.KeyUp:
		return f.setFocus(f.focus - 1)
	}
	field := &f.fields[f.focus]
	if field.isChoice() {
		switch msg.String() {
		case "left", "h":
			field.choice = (field.choice - 1 + len(field.choices)) % len(field.choices)
		case "right", "l", " ":
			field.choice = (field.choice + 1) % len(field.choices)
		}
		return nil
	}
	var cmd tea.Cmd
	field.input, cmd = field.input.Update(msg)
	if f.focus == 0 && strings.TrimSpace(field.input.Value()) != "" {
		f.err = ""
	}
	return cmd
}

func (m *Model) submitForm() error {
	v := m.form.values()
	switch m.screen {
	case screenExerciseForm:
		ex, err := m.state.AddExercise(app.ExerciseInput{
			Name:         v[0],
			MuscleGroup:  v[1],
			Equipment:    v[2],
			Instructions: v[3],
		})
		if err != nil {
			return err
		}
		m.goPicker(fmt.Sprintf("Added exercise %s", ex.Name))
	case screenRoutineForm:
		rt, err := m.state.AddRoutine(app.RoutineInput{
			Name:        v[0],
			Description: v[1],
			Duration:    v[2],
			Difficulty:  model.Difficulty(v[3]),
			Color:       v[4],
		})
		if err != nil {
			return err
		}
		m.form = nil
		m.picker.refresh(m.state, m.now())
		if err := m.openSession(rt.ID); err != nil {
			return err
		}
		m.status = fmt.Sprintf("Created %s. Press a to add exercises.", rt.Name)
	}
	return nil
}

func (f *form) view(width int) (string, string) {
	labelWidth := 0
	for _, field := range f.fields {
		labelWidth = max(labelWidth, lipgloss.Width(field.label))
	}
	label := lipgloss.NewStyle().Width(labelWidth + 2)

	lines := []string{titleStyle.Render(f.title), ""}
	for i, field := range f.fields {
		focused := i == f.focus
		name := mutedStyle.Render(field.label)
		if focused {
			name = accentStyle.Render(field.label)
		}
		var value string
		if field.isChoice() {
			value = renderChoice(field, focused)
		} else {
			value = field.input.View()
		}
		lines = append(lines, label.Render(name)+value)
	}
	if f.err != "" {
		lines = append(lines, "", errorStyle.Render(f.err))
	}
	content := lipgloss.NewStyle().Width(width).Render(strings.Join(lines, "\n"))
	return content, "Next: tab  Choose: left/right  Save: enter  Cancel: esc"
}

func renderChoice(field formField, focused bool) string {
	current := field.choices[field.choice]
	shown := current
	if field.swatch {
		shown = lipgloss.NewStyle().Foreground(lipgloss.Color(current)).Render("■■") + " " + current
	}
	if !focused {
		return textStyle.Render(shown)
	}
	return accentStyle.Render("‹ ") + textStyle.Render(shown) + accentStyle.Render(" ›")
}
