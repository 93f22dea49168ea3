package internal

import (
	"context"
	"errors"
	"time"

	"lightimer/internal/bar"
	"lightimer/internal/config"
	"lightimer/internal/entry"
	"lightimer/internal/logger"
	"lightimer/internal/sound"
	"lightimer/internal/timelog"
	"lightimer/internal/timer"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	notifyTimeout = 10 * time.Second
	recordTimeout = 5 * time.Second
)

// MsgTick redraws a running countdown. Only the newest tick chain, the one
// whose ID matches the model, reschedules itself.
type MsgTick struct {
	ID int
}

type notifiedMsg struct {
	err error
}

type recordedMsg struct {
	log *timelog.TimeLog
	err error
}

// Recorder persists finished runs. *timelog.Repository implements it.
type Recorder interface {
	CreateLog(ctx context.Context, l *timelog.TimeLog) error
}

type Options struct {
	Config   *config.Config
	Log      *logger.Logger
	Notifier sound.Notifier
	History  Recorder    // nil disables history
	Clock    timer.Clock // nil uses the system clock
}

type Model struct {
	cfg      *config.Config
	log      *logger.Logger
	notifier sound.Notifier
	history  Recorder
	clock    timer.Clock

	countdown *timer.Countdown
	keypad    *entry.Keypad

	keys        KeyMap
	help        help.Model
	orientation bar.Orientation
	lean        bool
	showHelp    bool
	width       int
	height      int

	tickID         int
	runStart       time.Time
	lastRightClick time.Time
}

func NewModel(opts Options) (*Model, error) {
	if opts.Config == nil {
		return nil, errors.New("config is required")
	}
	if opts.Log == nil {
		opts.Log = logger.Discard()
	}
	if opts.Notifier == nil {
		opts.Notifier = sound.NoOp{}
	}
	if opts.Clock == nil {
		opts.Clock = timer.SystemClock
	}

	orientation, err := bar.ParseOrientation(opts.Config.Display.Orientation)
	if err != nil {
		return nil, err
	}

	countdown := timer.New(opts.Config.Timer.Duration, timer.WithClock(opts.Clock))

	m := &Model{
		cfg:         opts.Config,
		log:         opts.Log,
		notifier:    opts.Notifier,
		history:     opts.History,
		clock:       opts.Clock,
		countdown:   countdown,
		keypad:      entry.NewKeypad(countdown),
		keys:        DefaultKeyMap,
		help:        help.New(),
		orientation: orientation,
		lean:        opts.Config.Display.Lean,
	}

	return m, nil
}

func (m *Model) Init() tea.Cmd {
	return tea.SetWindowTitle("lightimer")
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case MsgTick:
		return m, m.handleTick(msg)
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	case tea.MouseMsg:
		return m, m.handleMouseMsg(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case notifiedMsg:
		if msg.err != nil {
			m.log.Warn("time-up notification failed: %v", msg.err)
		}
		return m, nil
	case recordedMsg:
		if msg.err != nil {
			m.log.Warn("failed to save %s run: %v", msg.log.Outcome, msg.err)
		} else {
			m.log.Debug("saved run %d (%s)", msg.log.ID, msg.log.Outcome)
		}
		return m, nil
	}
	return m, nil
}

// Countdown exposes the underlying countdown (read-only use).
func (m *Model) Countdown() *timer.Countdown {
	return m.countdown
}

func (m *Model) Orientation() bar.Orientation {
	return m.orientation
}

// Label is the text above the bar: the partial entry while the user is
// typing a duration, otherwise the remaining time.
func (m *Model) Label() string {
	if !m.countdown.Running() && m.keypad.Active() {
		return m.keypad.Display()
	}
	return timer.Format(m.countdown.Remaining())
}

// Frame computes what the bar looks like right now.
func (m *Model) Frame() bar.Frame {
	w, h := m.barSize()
	period := m.countdown.Period()
	if period == 0 || m.countdown.TimeUp() {
		return bar.Drained(m.orientation, w, h)
	}
	level := bar.Compute(m.countdown.Elapsed(), m.countdown.Remaining(), period, m.orientation.Axis(w, h))
	return bar.Layout(level, m.orientation, w, h)
}

func (m *Model) tick() tea.Cmd {
	id := m.tickID
	return tea.Tick(m.cfg.Timer.Refresh, func(time.Time) tea.Msg {
		return MsgTick{ID: id}
	})
}

func (m *Model) handleTick(msg MsgTick) tea.Cmd {
	if msg.ID != m.tickID || !m.countdown.Running() {
		return nil
	}
	if !m.countdown.TimeUp() {
		return m.tick()
	}

	m.countdown.Stop()
	m.keypad.Reset()
	m.log.Info("time is up (%s)", timer.Format(m.countdown.Period()))
	return tea.Batch(m.notify(), m.record(timelog.OutcomeTimeUp))
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.countdown.Running() {
			m.countdown.Stop()
			return m, tea.Sequence(m.record(timelog.OutcomeInterrupted), tea.Quit)
		}
		return m, tea.Quit
	case key.Matches(msg, m.keys.StartStop):
		return m, m.startStop()
	case key.Matches(msg, m.keys.Reset):
		return m, m.reset()
	case key.Matches(msg, m.keys.Orientation):
		m.orientation = m.orientation.Toggle()
		m.log.Debug("orientation: %s", m.orientation)
	case key.Matches(msg, m.keys.Lean):
		m.lean = !m.lean
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
	case key.Matches(msg, m.keys.Digits):
		return m, m.typeDigit(msg.Runes[0])
	default:
		m.log.Debug("help requested (%s)", msg)
	}
	return m, nil
}

func (m *Model) handleMouseMsg(msg tea.MouseMsg) tea.Cmd {
	if msg.Button != tea.MouseButtonRight || msg.Action != tea.MouseActionPress {
		return nil
	}

	now := m.clock.Now()
	if !m.lastRightClick.IsZero() && now.Sub(m.lastRightClick) <= m.cfg.Timer.DoubleClick {
		m.lastRightClick = time.Time{}
		return m.reset()
	}
	m.lastRightClick = now
	return m.startStop()
}

func (m *Model) startStop() tea.Cmd {
	if m.countdown.TimeUp() {
		return nil
	}
	if m.countdown.Running() {
		m.countdown.Stop()
		return m.record(timelog.OutcomeStopped)
	}

	m.keypad.Reset()
	m.countdown.Start()
	m.runStart = m.clock.Now()
	m.tickID++
	return m.tick()
}

func (m *Model) reset() tea.Cmd {
	if m.countdown.Period() == 0 {
		return nil
	}

	var cmd tea.Cmd
	if m.countdown.Running() {
		m.countdown.Stop()
		cmd = m.record(timelog.OutcomeReset)
	}
	m.countdown.Reset()
	m.keypad.Reset()
	return cmd
}

func (m *Model) typeDigit(r rune) tea.Cmd {
	var cmd tea.Cmd
	if m.countdown.Running() {
		m.countdown.Stop()
		cmd = m.record(timelog.OutcomeInterrupted)
	}
	m.keypad.OnDigitKey(r)
	return cmd
}

func (m *Model) notify() tea.Cmd {
	n := m.notifier
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		return notifiedMsg{err: n.Notify(ctx)}
	}
}

// record logs the run that just ended and, with history enabled, saves it.
// It must be called right after the countdown stopped.
func (m *Model) record(outcome timelog.Outcome) tea.Cmd {
	l := &timelog.TimeLog{
		StartedAt: m.runStart,
		StoppedAt: m.clock.Now(),
		Period:    m.countdown.Period(),
		Remaining: m.countdown.Remaining(),
		Outcome:   outcome,
	}
	m.log.Info("run %s after %s with %s left", outcome, l.Duration().Round(time.Second), timer.Format(l.Remaining))

	if m.history == nil {
		return nil
	}
	history := m.history
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		defer cancel()
		return recordedMsg{log: l, err: history.CreateLog(ctx, l)}
	}
}
