// Package tui provides the Bubble Tea workout interface.
package tui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/verte-zerg/tuifit/internal/app"
)

type screen int

const (
	screenPicker screen = iota
	screenSession
	screenTimer
	screenExerciseForm
	screenRoutineForm
	screenBrowse
)

// tickMsg drives the countdown of the active screen. Ticks whose generation does
// not match the model's are from a stopped countdown and are dropped.
type tickMsg struct {
	gen int
}

// Model implements the Bubble Tea workout UI: the routine picker, guided
// sessions, the quick timer, the exercise browser and the add forms.
type Model struct {
	state *app.State
	log   logrus.FieldLogger
	now   func() time.Time

	width  int
	height int

	screen  screen
	tickGen int
	status  string
	errMsg  string

	picker  picker
	session *sessionView
	timer   *timerView
	form    *form
	browse  *browseView
}

// Option configures a Model.
type Option func(*Model)

// WithClock replaces time.Now for session timing.
func WithClock(now func() time.Time) Option {
	return func(m *Model) { m.now = now }
}

// WithLogger replaces the default logrus logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(m *Model) { m.log = l }
}

// StartInTimer opens the quick timer instead of the picker.
func StartInTimer() Option {
	return func(m *Model) { m.openTimer() }
}

// StartInRoutine opens routineID's session overview instead of the picker.
func StartInRoutine(routineID string) Option {
	return func(m *Model) {
		if err := m.openSession(routineID); err != nil {
			m.errMsg = err.Error()
		}
	}
}

// NewModel constructs the workout TUI over st.
func NewModel(st *app.State, opts ...Option) *Model {
	m := &Model{
		state: st,
		log:   logrus.StandardLogger(),
		now:   time.Now,
	}
	m.picker.refresh(st, m.now())
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil
	case tickMsg:
		if msg.gen != m.tickGen {
			return m, nil
		}
		return m, m.onTick()
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		m.errMsg = ""
		switch m.screen {
		case screenSession:
			return m, m.updateSession(msg)
		case screenTimer:
			return m, m.updateTimer(msg)
		case screenExerciseForm, screenRoutineForm:
			return m, m.updateForm(msg)
		case screenBrowse:
			return m, m.updateBrowse(msg)
		default:
			return m, m.updatePicker(msg)
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	var content, help string
	switch m.screen {
	case screenSession:
		content, help = m.viewSession()
	case screenTimer:
		content, help = m.viewTimer()
	case screenExerciseForm, screenRoutineForm:
		content, help = m.form.view(m.contentWidth())
	case screenBrowse:
		content, help = m.viewBrowse()
	default:
		content, help = m.viewPicker()
	}
	footer := m.renderFooter(help)
	if m.width == 0 || m.height == 0 {
		return content + "\n\n" + footer
	}
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	footerHeight := lipgloss.Height(footer)
	body := lipgloss.Place(m.width, max(1, m.height-footerHeight), lipgloss.Center, lipgloss.Center, content)
	footerLines := lipgloss.PlaceHorizontal(m.width, lipgloss.Center, footer)
	return body + "\n" + footerLines
}

func (m *Model) renderFooter(help string) string {
	segments := []string{}
	if m.errMsg != "" {
		segments = append(segments, errorStyle.Render(m.errMsg))
	} else if m.status != "" {
		segments = append(segments, accentStyle.Render(m.status))
	}
	segments = append(segments, footerStyle.Render(help))
	return strings.Join(segments, "\n")
}

func (m *Model) contentWidth() int {
	if m.width <= 0 {
		return 60
	}
	return max(20, min(72, int(float64(m.width)*0.70)))
}

func (m *Model) resize() {
	width := m.contentWidth()
	if m.session != nil {
		m.session.resize(width)
	}
	if m.timer != nil {
		m.timer.resize(width)
	}
	if m.form != nil {
		m.form.resize(width)
	}
}

// startTicking begins a fresh tick chain and invalidates any in-flight tick.
func (m *Model) startTicking() tea.Cmd {
	m.tickGen++
	return m.tick()
}

func (m *Model) stopTicking() {
	m.tickGen++
}

func (m *Model) tick() tea.Cmd {
	gen := m.tickGen
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return tickMsg{gen: gen}
	})
}

func (m *Model) onTick() tea.Cmd {
	switch m.screen {
	case screenSession:
		if m.session == nil {
			return nil
		}
		if m.session.tick() {
			return m.tick()
		}
	case screenTimer:
		if m.timer == nil {
			return nil
		}
		if m.timer.tick() {
			return m.tick()
		}
	}
	return nil
}

func (m *Model) goPicker(status string) {
	m.stopTicking()
	m.screen = screenPicker
	m.session = nil
	m.form = nil
	m.browse = nil
	m.status = status
	m.picker.refresh(m.state, m.now())
}
