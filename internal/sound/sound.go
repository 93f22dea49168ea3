// Package sound plays the time-up notification. The backend is chosen once
// at startup; a backend that cannot be initialised falls back to the
// terminal bell.
package sound

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"lightimer/internal/logger"
)

// Backend names accepted by New.
const (
	Auto = "auto"
	Beep = "beep"
	Oto  = "oto"
	Bell = "bell"
	None = "none"
)

// Notifier signals that the countdown ran out. Notify may block until the
// sound finished playing or ctx is cancelled.
type Notifier interface {
	Notify(ctx context.Context) error
}

type Options struct {
	Backend string
	File    string  // WAV or MP3; empty plays the generated chime
	Volume  float64 // Gain in powers of two
	Out     io.Writer
}

// DefaultBackend is the backend used for "auto" on this platform.
func DefaultBackend() string {
	return defaultBackend
}

// New returns the notifier for opts.Backend. It never fails: when the
// backend cannot be set up the error is logged and the bell is used.
func New(opts Options, log *logger.Logger) Notifier {
	backend := opts.Backend
	if backend == "" || backend == Auto {
		backend = defaultBackend
	}

	var (
		n   Notifier
		err error
	)
	switch backend {
	case None:
		return NoOp{}
	case Bell:
		return NewBell(opts.Out)
	case Beep:
		n, err = NewBeepNotifier(opts.File, opts.Volume, log)
	case Oto:
		n, err = NewOtoNotifier(opts.File, log)
	default:
		err = fmt.Errorf("unknown backend %q", backend)
	}
	if err != nil {
		log.Warn("sound: %s unavailable, using the terminal bell: %v", backend, err)
		return NewBell(opts.Out)
	}

	log.Debug("sound: using %s backend", backend)
	return n
}

// BellNotifier rings the terminal bell.
type BellNotifier struct {
	mu  sync.Mutex
	out io.Writer
}

// NewBell writes BEL to out, or to stdout when out is nil.
func NewBell(out io.Writer) *BellNotifier {
	if out == nil {
		out = os.Stdout
	}
	return &BellNotifier{out: out}
}

func (b *BellNotifier) Notify(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	_, err := io.WriteString(b.out, "\a")
	return err
}

// NoOp stays silent.
type NoOp struct{}

func (NoOp) Notify(context.Context) error { return nil }
