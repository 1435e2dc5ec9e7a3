package session

// Preset is a quick timer length.
type Preset struct {
	Label   string
	Seconds int
}

// Presets offered by the quick timer.
var Presets = []Preset{
	{Label: "30s", Seconds: 30},
	{Label: "1m", Seconds: 60},
	{Label: "1:30", Seconds: 90},
	{Label: "2m", Seconds: 120},
	{Label: "3m", Seconds: 180},
	{Label: "5m", Seconds: 300},
}

// DefaultTimerSeconds is the quick timer length before a preset is chosen.
const DefaultTimerSeconds = 60

// Timer is the standalone quick timer. It shares the Countdown contract and raises
// TimerDone when it reaches zero.
type Timer struct {
	Countdown
	feedback Feedback
}

// NewTimer returns a stopped timer of seconds, or DefaultTimerSeconds when seconds
// is not positive.
func NewTimer(seconds int, feedback Feedback) *Timer {
	if seconds <= 0 {
		seconds = DefaultTimerSeconds
	}
	if feedback == nil {
		feedback = nopFeedback{}
	}
	return &Timer{Countdown: NewCountdown(seconds), feedback: feedback}
}

// SelectPreset sets the timer to Presets[i]. It is refused while running.
func (t *Timer) SelectPreset(i int) bool {
	if i < 0 || i >= len(Presets) {
		return false
	}
	return t.SetTotal(Presets[i].Seconds)
}

// PresetIndex returns the index of the preset matching the current length, or -1.
func (t *Timer) PresetIndex() int {
	for i, p := range Presets {
		if p.Seconds == t.Total() {
			return i
		}
	}
	return -1
}

// Tick advances the timer and signals completion once.
func (t *Timer) Tick() bool {
	if !t.Countdown.Tick() {
		return false
	}
	t.feedback.Signal(TimerDone)
	return true
}

// Clock renders the time left as M:SS.
func (t *Timer) Clock() string {
	return FormatClock(t.Left())
}
