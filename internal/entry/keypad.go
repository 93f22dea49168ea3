package entry

import "time"

// Target is the countdown a keypad drives.
type Target interface {
	Stop()
	Reset()
	Set(period time.Duration)
	Period() time.Duration
}

// Keypad binds an entry to the countdown it configures.
type Keypad struct {
	state  State
	target Target
}

func NewKeypad(target Target) *Keypad {
	return &Keypad{target: target}
}

// OnDigitKey handles one keystroke. It returns false when r is not a
// digit so the caller can fall back to its help handling.
//
// A digit always leaves the target stopped and reset to the typed value.
// A value of zero is never applied; the previous period is kept instead.
func (k *Keypad) OnDigitKey(r rune) bool {
	if !isDigit(r) {
		return false
	}

	k.target.Stop()
	next, res := k.state.Apply(r)
	if res.Restarted {
		k.target.Reset()
	}
	k.state = next

	period := k.target.Period()
	if res.Accepted && res.Pending != 0 {
		period = res.Pending
	}
	k.target.Set(period)
	return true
}

// Reset discards any partial entry.
func (k *Keypad) Reset() {
	k.state = State{}
}

func (k *Keypad) State() State {
	return k.state
}

func (k *Keypad) Display() string {
	return k.state.Display()
}

func (k *Keypad) Active() bool {
	return k.state.Active()
}
