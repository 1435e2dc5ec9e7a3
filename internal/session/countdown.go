package session

import "fmt"

// Countdown is a one-second-granularity timer. It is advanced by calling Tick once
// per elapsed second; the owner supplies the clock.
type Countdown struct {
	total   int
	left    int
	running bool
	done    bool
}

// NewCountdown returns a stopped countdown of seconds.
func NewCountdown(seconds int) Countdown {
	if seconds < 0 {
		seconds = 0
	}
	return Countdown{total: seconds, left: seconds}
}

// Total is the configured length in seconds.
func (c Countdown) Total() int { return c.total }

// Left is the remaining time in seconds.
func (c Countdown) Left() int { return c.left }

// Running reports whether ticks currently decrement the countdown.
func (c Countdown) Running() bool { return c.running }

// Done reports whether the countdown reached zero since the last reset.
func (c Countdown) Done() bool { return c.done }

// Elapsed is the fraction of the countdown already consumed, in [0,1].
func (c Countdown) Elapsed() float64 {
	if c.total <= 0 {
		return 1
	}
	return float64(c.total-c.left) / float64(c.total)
}

// Start resumes ticking. A finished countdown stays finished until Reset or Restart.
func (c *Countdown) Start() bool {
	if c.done || c.running {
		return false
	}
	if c.left <= 0 {
		c.done = true
		return false
	}
	c.running = true
	return true
}

// Pause stops ticking and keeps the remaining time.
func (c *Countdown) Pause() {
	c.running = false
}

// Reset stops the countdown and refills it.
func (c *Countdown) Reset() {
	c.left = c.total
	c.running = false
	c.done = false
}

// Restart is Reset followed by Start.
func (c *Countdown) Restart() bool {
	c.Reset()
	return c.Start()
}

// SetTotal changes the length. It is refused while the countdown is running.
func (c *Countdown) SetTotal(seconds int) bool {
	if c.running || seconds < 0 {
		return false
	}
	c.total = seconds
	c.Reset()
	return true
}

// Tick consumes one second. It returns true only on the tick that reaches zero.
func (c *Countdown) Tick() bool {
	if !c.running || c.done {
		return false
	}
	if c.left > 0 {
		c.left--
	}
	if c.left > 0 {
		return false
	}
	c.running = false
	c.done = true
	return true
}

// FormatClock renders seconds as M:SS.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
