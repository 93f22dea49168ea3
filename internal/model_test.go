package internal

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"lightimer/internal/bar"
	"lightimer/internal/config"
	"lightimer/internal/timelog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) advance(d time.Duration) { c.now = c.now.Add(d) }

type fakeNotifier struct {
	calls int
	err   error
}

func (n *fakeNotifier) Notify(context.Context) error {
	n.calls++
	return n.err
}

type fakeRecorder struct {
	logs []timelog.TimeLog
	err  error
}

func (r *fakeRecorder) CreateLog(_ context.Context, l *timelog.TimeLog) error {
	if r.err != nil {
		return r.err
	}
	l.ID = int64(len(r.logs) + 1)
	r.logs = append(r.logs, *l)
	return nil
}

type harness struct {
	m        *Model
	clock    *fakeClock
	notifier *fakeNotifier
	history  *fakeRecorder
}

func newHarness(t *testing.T, period time.Duration) *harness {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Timer.Duration = period

	h := &harness{
		clock:    &fakeClock{now: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)},
		notifier: &fakeNotifier{},
		history:  &fakeRecorder{},
	}
	m, err := NewModel(Options{
		Config:   cfg,
		Notifier: h.notifier,
		History:  h.history,
		Clock:    h.clock,
	})
	require.NoError(t, err)
	h.m = m
	h.send(tea.WindowSizeMsg{Width: 40, Height: 102})
	return h
}

// send delivers msg and runs every command it produces except ticks, which
// the tests deliver by hand after moving the clock.
func (h *harness) send(msg tea.Msg) {
	_, cmd := h.m.Update(msg)
	for _, out := range collect(cmd) {
		if _, ok := out.(MsgTick); ok {
			continue
		}
		h.m.Update(out)
	}
}

func (h *harness) key(s string) {
	switch s {
	case " ":
		h.send(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	case "enter":
		h.send(tea.KeyMsg{Type: tea.KeyEnter})
	case "esc":
		h.send(tea.KeyMsg{Type: tea.KeyEsc})
	case "f1":
		h.send(tea.KeyMsg{Type: tea.KeyF1})
	default:
		h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	}
}

func (h *harness) rightClick() {
	h.send(tea.MouseMsg{Button: tea.MouseButtonRight, Action: tea.MouseActionPress})
}

func (h *harness) tick() {
	h.send(MsgTick{ID: h.m.tickID})
}

// collect runs cmd and flattens batches and sequences into their messages.
// Tick commands are skipped instead of waiting for the refresh interval.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	v := reflect.ValueOf(msg)
	if v.Kind() != reflect.Slice {
		return []tea.Msg{msg}
	}
	var out []tea.Msg
	for i := 0; i < v.Len(); i++ {
		if c, ok := v.Index(i).Interface().(tea.Cmd); ok {
			out = append(out, collect(c)...)
		}
	}
	return out
}

func TestNewModelDefaults(t *testing.T) {
	h := newHarness(t, 5*time.Minute)
	assert.Equal(t, "05:00", h.m.Label())
	assert.Equal(t, bar.Vertical, h.m.Orientation())
	assert.False(t, h.m.Countdown().Running())

	_, err := NewModel(Options{})
	assert.Error(t, err)
}

func TestSpaceStartsAndStops(t *testing.T) {
	h := newHarness(t, 100*time.Second)

	h.key(" ")
	require.True(t, h.m.Countdown().Running())
	assert.Empty(t, h.history.logs)

	h.clock.advance(30 * time.Second)
	h.tick()
	assert.Equal(t, "01:10", h.m.Label())

	h.key(" ")
	assert.False(t, h.m.Countdown().Running())
	require.Len(t, h.history.logs, 1)
	l := h.history.logs[0]
	assert.Equal(t, timelog.OutcomeStopped, l.Outcome)
	assert.Equal(t, 70*time.Second, l.Remaining)
	assert.Equal(t, 30*time.Second, l.Duration())

	h.clock.advance(time.Hour)
	assert.Equal(t, "01:10", h.m.Label(), "stopped countdown is frozen")
}

func TestEnterResets(t *testing.T) {
	h := newHarness(t, 100*time.Second)
	h.key(" ")
	h.clock.advance(20 * time.Second)

	h.key("enter")
	assert.False(t, h.m.Countdown().Running())
	assert.Equal(t, "01:40", h.m.Label())
	require.Len(t, h.history.logs, 1)
	assert.Equal(t, timelog.OutcomeReset, h.history.logs[0].Outcome)

	// Reset while stopped records nothing
	h.key("enter")
	assert.Len(t, h.history.logs, 1)
}

func TestEnterIgnoredForZeroDuration(t *testing.T) {
	h := newHarness(t, 0)
	h.key(" ")
	h.key("enter")
	assert.True(t, h.m.Countdown().Running())
	assert.Empty(t, h.history.logs)
}

func TestTimeUpNotifiesOnce(t *testing.T) {
	h := newHarness(t, 10*time.Second)
	h.key("0")
	assert.Equal(t, "0-:--", h.m.Label())
	assert.Equal(t, 10*time.Second, h.m.Countdown().Period(), "a leading zero keeps the period")

	h.key(" ")
	assert.False(t, h.m.keypad.Active(), "start clears the entry")

	h.clock.advance(10 * time.Second)
	h.tick()
	assert.True(t, h.m.Countdown().Running(), "exactly zero is not up")
	assert.Zero(t, h.notifier.calls)

	h.clock.advance(5 * time.Millisecond)
	h.tick()
	assert.False(t, h.m.Countdown().Running())
	assert.True(t, h.m.Countdown().TimeUp())
	assert.Equal(t, 1, h.notifier.calls)
	assert.Equal(t, "00:00", h.m.Label())
	assert.True(t, h.m.Frame().Drained)
	require.Len(t, h.history.logs, 1)
	assert.Equal(t, timelog.OutcomeTimeUp, h.history.logs[0].Outcome)

	h.clock.advance(time.Second)
	h.tick()
	h.key(" ")
	assert.Equal(t, 1, h.notifier.calls)
	assert.False(t, h.m.Countdown().Running(), "space is ignored once time is up")

	h.key("enter")
	assert.False(t, h.m.Countdown().TimeUp())
	assert.Equal(t, "00:10", h.m.Label())
}

func TestNotifyErrorIsNotFatal(t *testing.T) {
	h := newHarness(t, time.Second)
	h.notifier.err = errors.New("no device")
	h.history.err = errors.New("disk full")

	h.key(" ")
	h.clock.advance(2 * time.Second)
	h.tick()
	assert.Equal(t, 1, h.notifier.calls)
	assert.True(t, h.m.Countdown().TimeUp())
}

func TestStaleTicksAreDropped(t *testing.T) {
	h := newHarness(t, time.Minute)
	h.key(" ")
	stale := h.m.tickID
	h.key(" ")
	h.key(" ")
	require.NotEqual(t, stale, h.m.tickID)

	_, cmd := h.m.Update(MsgTick{ID: stale})
	assert.Nil(t, cmd)

	_, cmd = h.m.Update(MsgTick{ID: h.m.tickID})
	assert.NotNil(t, cmd, "current chain reschedules")

	h.key(" ")
	_, cmd = h.m.Update(MsgTick{ID: h.m.tickID})
	assert.Nil(t, cmd, "no ticks while stopped")
}

func TestDigitsSetDuration(t *testing.T) {
	h := newHarness(t, 5*time.Minute)

	h.key("1")
	assert.Equal(t, "1-:--", h.m.Label())
	h.key("2")
	h.key("7")
	assert.Equal(t, "12:--", h.m.Label(), "7 is rejected at the tens of seconds")
	h.key("3")
	h.key("4")
	assert.Equal(t, "12:34", h.m.Label())
	assert.Equal(t, 12*time.Minute+34*time.Second, h.m.Countdown().Period())
	assert.False(t, h.m.Countdown().Running())
}

func TestDigitInterruptsRun(t *testing.T) {
	h := newHarness(t, 5*time.Minute)
	h.key(" ")
	h.clock.advance(time.Minute)

	h.key("3")
	assert.False(t, h.m.Countdown().Running())
	assert.Equal(t, 30*time.Minute, h.m.Countdown().Period())
	require.Len(t, h.history.logs, 1)
	assert.Equal(t, timelog.OutcomeInterrupted, h.history.logs[0].Outcome)
	assert.Equal(t, 4*time.Minute, h.history.logs[0].Remaining)
}

func TestToggleKeepsPartialEntry(t *testing.T) {
	h := newHarness(t, 5*time.Minute)
	h.key("4")
	h.key("t")
	assert.Equal(t, bar.Horizontal, h.m.Orientation())
	assert.Equal(t, "4-:--", h.m.Label())

	h.key("t")
	assert.Equal(t, bar.Vertical, h.m.Orientation())
	assert.Equal(t, "4-:--", h.m.Label())
}

func TestOtherKeysChangeNothing(t *testing.T) {
	h := newHarness(t, 5*time.Minute)
	h.key("x")
	h.key("f1")
	assert.True(t, h.m.showHelp)
	h.key("?")
	assert.False(t, h.m.showHelp)
	assert.Equal(t, "05:00", h.m.Label())
	assert.Empty(t, h.history.logs)
}

func TestLeanToggle(t *testing.T) {
	h := newHarness(t, 5*time.Minute)
	w, hh := h.m.barSize()
	h.key("l")
	assert.True(t, h.m.lean)
	lw, lh := h.m.barSize()
	assert.Equal(t, w, lw, "vertical width is fixed")
	assert.Equal(t, hh-2, lh)
	assert.Contains(t, h.m.View(), "┌")
}

func TestRightClicks(t *testing.T) {
	h := newHarness(t, time.Minute)

	h.rightClick()
	assert.True(t, h.m.Countdown().Running())

	h.clock.advance(time.Second)
	h.rightClick()
	assert.False(t, h.m.Countdown().Running(), "slow second click toggles")

	h.clock.advance(time.Second)
	h.rightClick()
	require.True(t, h.m.Countdown().Running())
	h.clock.advance(200 * time.Millisecond)
	h.rightClick()
	assert.False(t, h.m.Countdown().Running(), "double click resets")
	assert.Equal(t, time.Minute, h.m.Countdown().Remaining())

	outcomes := make([]timelog.Outcome, 0, len(h.history.logs))
	for _, l := range h.history.logs {
		outcomes = append(outcomes, l.Outcome)
	}
	assert.Equal(t, []timelog.Outcome{timelog.OutcomeStopped, timelog.OutcomeReset}, outcomes)

	h.send(tea.MouseMsg{Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	assert.False(t, h.m.Countdown().Running())
}

func TestQuitRecordsRunningRun(t *testing.T) {
	h := newHarness(t, time.Minute)
	h.key(" ")
	h.clock.advance(10 * time.Second)

	_, cmd := h.m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	msgs := collect(cmd)
	require.Len(t, msgs, 2)
	assert.IsType(t, recordedMsg{}, msgs[0])
	assert.Equal(t, tea.QuitMsg{}, msgs[1])

	require.Len(t, h.history.logs, 1)
	assert.Equal(t, timelog.OutcomeInterrupted, h.history.logs[0].Outcome)
}

func TestFrameFollowsCountdown(t *testing.T) {
	h := newHarness(t, 100*time.Second)
	// 102 rows minus the label and help lines
	w, hh := h.m.barSize()
	require.Equal(t, 12, w)
	require.Equal(t, 100, hh)

	h.key(" ")
	h.clock.advance(50 * time.Second)
	f := h.m.Frame()
	assert.Equal(t, 50, f.Position)
	assert.Equal(t, bar.RGB{R: 255, G: 255}, f.Fill)
	assert.Equal(t, bar.Rect{X0: 0, Y0: 51, X1: 12, Y1: 100}, f.FillRect)
	assert.Equal(t, bar.Rect{X0: 0, Y0: 50, X1: 12, Y1: 51}, f.EdgeRect)

	h.key("t")
	f = h.m.Frame()
	assert.Equal(t, bar.Horizontal, f.Orientation)
	assert.Equal(t, 40, f.Width)
	assert.Equal(t, 3, f.Height)
	assert.Equal(t, 20, f.Position)
}

func TestZeroDurationIsDrained(t *testing.T) {
	h := newHarness(t, 0)
	assert.True(t, h.m.Frame().Drained)
	assert.Equal(t, "00:00", h.m.Label())
	assert.False(t, h.m.Countdown().TimeUp())
}

func TestViewShowsLabel(t *testing.T) {
	h := newHarness(t, 90*time.Second)
	view := h.m.View()
	assert.Contains(t, view, "01:30")
	assert.Contains(t, view, "help")
}
