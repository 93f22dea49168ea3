package sound

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ebitengine/oto/v3"

	"lightimer/internal/logger"
)

// OtoNotifier plays 16-bit PCM directly through an oto context.
type OtoNotifier struct {
	ctx *oto.Context
	log *logger.Logger
	pcm []byte
}

// NewOtoNotifier loads a 16-bit PCM WAV file, or renders the chime when
// file is empty, and opens the audio device for its format.
func NewOtoNotifier(file string, log *logger.Logger) (*OtoNotifier, error) {
	sound := &wavSound{
		SampleRate:    int(sampleRate),
		Channels:      2,
		BitsPerSample: 16,
		PCM:           renderPCM(newChime(sampleRate)),
	}
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, err
		}
		if sound, err = parseWAV(data); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", file, err)
		}
	}

	op := &oto.NewContextOptions{
		SampleRate:   sound.SampleRate,
		ChannelCount: sound.Channels,
		Format:       oto.FormatSignedInt16LE,
	}
	ctx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio device: %w", err)
	}
	<-readyChan

	log.Debug("oto: %d bytes of PCM ready (rate=%d, channels=%d)", len(sound.PCM), sound.SampleRate, sound.Channels)
	return &OtoNotifier{ctx: ctx, log: log, pcm: sound.PCM}, nil
}

// Notify plays the sound and waits until playback ends or ctx is done.
func (n *OtoNotifier) Notify(ctx context.Context) error {
	player := n.ctx.NewPlayer(bytes.NewReader(n.pcm))
	player.Play()

	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()
	for player.IsPlaying() {
		select {
		case <-ctx.Done():
			player.Pause()
			player.Close()
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return player.Close()
}

type wavSound struct {
	SampleRate    int
	Channels      int
	BitsPerSample int
	PCM           []byte
}

// parseWAV walks the RIFF chunks for the format and the sample data. Only
// uncompressed 16-bit PCM is accepted.
func parseWAV(wav []byte) (*wavSound, error) {
	if len(wav) < 12 {
		return nil, errors.New("wav data too short")
	}
	if string(wav[0:4]) != "RIFF" || string(wav[8:12]) != "WAVE" {
		return nil, errors.New("not a valid WAV file")
	}

	var (
		sound   wavSound
		haveFmt bool
	)
	pos := 12
	for pos+8 <= len(wav) {
		chunkID := string(wav[pos : pos+4])
		chunkSize := int(binary.LittleEndian.Uint32(wav[pos+4 : pos+8]))
		start := pos + 8
		end := min(start+chunkSize, len(wav))

		switch chunkID {
		case "fmt ":
			if end-start < 16 {
				return nil, errors.New("fmt chunk too short")
			}
			body := wav[start:end]
			if tag := binary.LittleEndian.Uint16(body[0:2]); tag != 1 {
				return nil, fmt.Errorf("unsupported WAV encoding %d, want PCM", tag)
			}
			sound.Channels = int(binary.LittleEndian.Uint16(body[2:4]))
			sound.SampleRate = int(binary.LittleEndian.Uint32(body[4:8]))
			sound.BitsPerSample = int(binary.LittleEndian.Uint16(body[14:16]))
			if sound.BitsPerSample != 16 {
				return nil, fmt.Errorf("unsupported sample size %d bits, want 16", sound.BitsPerSample)
			}
			haveFmt = true
		case "data":
			if !haveFmt {
				return nil, errors.New("data chunk before fmt chunk")
			}
			sound.PCM = wav[start:end]
			return &sound, nil
		}

		pos = start + chunkSize
		// Chunks are word-aligned.
		if chunkSize%2 != 0 {
			pos++
		}
	}

	return nil, errors.New("data chunk not found in WAV")
}
