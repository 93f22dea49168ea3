package sound

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/wav"

	"lightimer/internal/logger"
)

// BeepNotifier plays a buffered sound through the beep speaker.
type BeepNotifier struct {
	log    *logger.Logger
	buffer *beep.Buffer
	volume float64
}

// NewBeepNotifier decodes file (or renders the chime when file is empty)
// and initialises the speaker at the sound's sample rate.
func NewBeepNotifier(file string, volume float64, log *logger.Logger) (*BeepNotifier, error) {
	buf := chimeBuffer()
	if file != "" {
		var err error
		if buf, err = loadBuffer(file); err != nil {
			return nil, err
		}
	}

	sr := buf.Format().SampleRate
	if err := speaker.Init(sr, sr.N(time.Millisecond*100)); err != nil {
		return nil, fmt.Errorf("failed to init speaker: %w", err)
	}

	log.Debug("beep: %d samples at %d Hz ready", buf.Len(), sr)
	return &BeepNotifier{log: log, buffer: buf, volume: volume}, nil
}

// Notify plays the sound and waits for it to finish.
func (n *BeepNotifier) Notify(ctx context.Context) error {
	done := make(chan struct{})
	vol := &effects.Volume{
		Streamer: n.buffer.Streamer(0, n.buffer.Len()),
		Base:     2,
		Volume:   n.volume,
	}
	speaker.Play(beep.Seq(vol, beep.Callback(func() {
		close(done)
	})))

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		speaker.Clear()
		return ctx.Err()
	}
}

// loadBuffer decodes a WAV or MP3 file fully into memory.
func loadBuffer(path string) (*beep.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		streamer, format, err = wav.Decode(f)
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	default:
		f.Close()
		return nil, fmt.Errorf("unsupported sound file %s: want .wav or .mp3", path)
	}
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	defer streamer.Close()

	buf := beep.NewBuffer(format)
	buf.Append(streamer)
	if err := streamer.Err(); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return buf, nil
}
