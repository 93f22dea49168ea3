// Package entry implements the four-slot MM:SS keypad used to type a new
// countdown duration straight into the display.
package entry

import (
	"time"
)

// Slots is the number of digit positions: tens of minutes, minutes, tens
// of seconds, seconds.
const Slots = 4

// secondsPerDigit holds the weight of each slot in seconds.
var secondsPerDigit = [Slots]int{600, 60, 10, 1}

// State is a partially typed duration. The zero value is an empty entry.
type State struct {
	slot    int
	digits  [Slots]byte // '0'..'9', 0 when empty
	pending int
}

// Result describes what a keystroke did.
type Result struct {
	// Accepted is false for non-digits and for a tens-of-seconds digit
	// above 5.
	Accepted bool
	// Restarted is set when the keystroke began a fresh entry.
	Restarted bool
	// Pending is the value typed so far.
	Pending time.Duration
}

// Apply feeds one keystroke to the entry and returns the next state.
func (s State) Apply(r rune) (State, Result) {
	if !isDigit(r) {
		return s, Result{Pending: s.Pending()}
	}
	d := int(r - '0')

	var res Result
	if s.slot == 0 {
		s = State{}
		res.Restarted = true
	}

	if s.slot == 2 && d > 5 {
		res.Pending = s.Pending()
		return s, res
	}

	s.digits[s.slot] = byte(r)
	if s.slot == 0 {
		s.pending = d * secondsPerDigit[0]
	} else {
		s.pending += d * secondsPerDigit[s.slot]
	}
	s.slot = (s.slot + 1) % Slots

	res.Accepted = true
	res.Pending = s.Pending()
	return s, res
}

// Slot returns the position the next digit fills.
func (s State) Slot() int {
	return s.slot
}

func (s State) Pending() time.Duration {
	return time.Duration(s.pending) * time.Second
}

// Digits returns the slots as displayed, '-' standing for an empty slot.
func (s State) Digits() [Slots]rune {
	var out [Slots]rune
	for i, d := range s.digits {
		if d == 0 {
			out[i] = '-'
			continue
		}
		out[i] = rune(d)
	}
	return out
}

// Display renders the entry as "M0M1:S0S1".
func (s State) Display() string {
	d := s.Digits()
	return string([]rune{d[0], d[1], ':', d[2], d[3]})
}

// Active reports whether any slot holds a digit.
func (s State) Active() bool {
	for _, d := range s.digits {
		if d != 0 {
			return true
		}
	}
	return false
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
