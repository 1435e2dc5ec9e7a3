package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/tuifit/internal/session"
)

type timerView struct {
	timer *session.Timer
	bar   progress.Model
}

func newTimerView(t *session.Timer, width int) *timerView {
	v := &timerView{
		timer: t,
		bar:   progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
	}
	v.resize(width)
	return v
}

func (v *timerView) resize(width int) {
	v.bar.Width = width
}

// tick advances the timer and reports whether it is still running.
func (v *timerView) tick() bool {
	v.timer.Tick()
	return v.timer.Running()
}

// openTimer shows the quick timer. The timer keeps its state across visits but
// stops counting while another screen is shown.
func (m *Model) openTimer() {
	m.stopTicking()
	if m.timer == nil {
		m.timer = newTimerView(m.state.NewTimer(), m.contentWidth())
	}
	m.timer.timer.Pause()
	m.screen = screenTimer
	m.status = ""
}

func (m *Model) updateTimer(msg tea.KeyMsg) tea.Cmd {
	t := m.timer.timer
	switch msg.String() {
	case "esc", "q":
		t.Pause()
		m.goPicker("")
	case " ", "enter":
		switch {
		case t.Running():
			t.Pause()
			m.stopTicking()
		case t.Done():
			if t.Restart() {
				return m.startTicking()
			}
		default:
			if t.Start() {
				return m.startTicking()
			}
		}
	case "r":
		t.Reset()
		m.stopTicking()
	case "R":
		if t.Restart() {
			return m.startTicking()
		}
	case "left", "h":
		m.stepPreset(-1)
	case "right", "l":
		m.stepPreset(1)
	default:
		if len(msg.Runes) == 1 && msg.Runes[0] >= '1' && msg.Runes[0] <= '9' {
			t.SelectPreset(int(msg.Runes[0] - '1'))
		}
	}
	return nil
}

func (m *Model) stepPreset(delta int) {
	t := m.timer.timer
	if t.Running() {
		return
	}
	i := t.PresetIndex()
	if i < 0 {
		i = 0
		if delta < 0 {
			i = len(session.Presets) - 1
		}
	} else {
		i = (i + delta + len(session.Presets)) % len(session.Presets)
	}
	t.SelectPreset(i)
}

func (m *Model) viewTimer() (string, string) {
	v := m.timer
	t := v.timer
	chips := make([]string, 0, len(session.Presets))
	current := t.PresetIndex()
	for i, p := range session.Presets {
		if i == current {
			chips = append(chips, activeChipStyle.Render(p.Label))
		} else {
			chips = append(chips, chipStyle.Render(p.Label))
		}
	}

	state := "Ready"
	switch {
	case t.Running():
		state = "Running"
	case t.Done():
		state = "Done!"
	case t.Left() < t.Total():
		state = "Paused"
	}

	panel := activePanelStyle
	if !t.Running() {
		panel = panelStyle
	}
	lines := []string{
		titleStyle.Render("Timer"),
		"",
		lipgloss.JoinHorizontal(lipgloss.Top, chips...),
		"",
		panel.Render(clockStyle.Render(t.Clock())),
		mutedStyle.Render(state),
		v.bar.ViewAs(t.Elapsed()),
	}
	help := "Start/pause: space  Reset: r  Restart: R  Preset: left/right or 1-6  Back: esc"
	return lipgloss.JoinVertical(lipgloss.Center, strings.Join(lines, "\n")), help
}
