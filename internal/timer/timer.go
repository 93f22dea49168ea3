package timer

import (
	"fmt"
	"time"
)

// Clock supplies the current time. Tests swap in a fake.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

// SystemClock reads the monotonic wall clock.
var SystemClock Clock = systemClock{}

// Option configures a Countdown.
type Option func(*Countdown)

// WithClock replaces the clock used to measure elapsed time.
func WithClock(c Clock) Option {
	return func(t *Countdown) {
		t.clock = c
	}
}

// Countdown tracks the time left against a configured period. Nothing
// ticks in the background: the remaining time is derived from the anchor
// captured at Start every time it is queried.
type Countdown struct {
	clock     Clock
	period    time.Duration
	remaining time.Duration
	anchor    time.Time
	running   bool
}

func New(period time.Duration, opts ...Option) *Countdown {
	t := &Countdown{clock: SystemClock}
	for _, opt := range opts {
		opt(t)
	}
	t.Set(period)
	return t
}

// Set stores a new period and resets. A zero period is an already
// expired countdown.
func (t *Countdown) Set(period time.Duration) {
	t.period = period
	t.Reset()
}

func (t *Countdown) Reset() {
	t.remaining = t.period
	t.anchor = time.Time{}
	t.running = false
}

// Start anchors the countdown at the current instant. Calling it while
// running re-anchors from the last frozen snapshot.
func (t *Countdown) Start() {
	t.anchor = t.clock.Now()
	t.running = true
}

// Stop freezes the remaining time. It is safe to call when stopped.
func (t *Countdown) Stop() {
	t.remaining = t.Remaining()
	t.running = false
}

func (t *Countdown) Remaining() time.Duration {
	if !t.running {
		return t.remaining
	}
	return t.anchor.Add(t.remaining).Sub(t.clock.Now())
}

func (t *Countdown) Elapsed() time.Duration {
	return t.period - t.Remaining()
}

// TimeUp reports whether the remaining time has crossed below zero.
// Exactly zero is not up yet.
func (t *Countdown) TimeUp() bool {
	return t.Remaining() < 0
}

func (t *Countdown) Running() bool {
	return t.running
}

func (t *Countdown) Period() time.Duration {
	return t.period
}

// Format renders d as MM:SS. Minutes are not clamped, so a hundred
// minutes or more spills past two digits.
func Format(d time.Duration) string {
	secs := d.Seconds()
	minutes := int(secs / 60)
	seconds := int(secs) - minutes*60
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}
