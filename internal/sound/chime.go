package sound

import (
	"encoding/binary"
	"math"
	"time"

	"github.com/gopxl/beep"
)

const (
	sampleRate = beep.SampleRate(48000)
	noteLength = 280 * time.Millisecond
)

var chimeFormat = beep.Format{SampleRate: sampleRate, NumChannels: 2, Precision: 2}

// ToneGenerator produces a sine tone with a short attack and an
// exponential decay. It never ends; wrap it in beep.Take.
type ToneGenerator struct {
	sr   beep.SampleRate
	freq float64
	pos  int
}

func NewToneGenerator(sr beep.SampleRate, freq float64) *ToneGenerator {
	return &ToneGenerator{sr: sr, freq: freq}
}

func (g *ToneGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)

		attack := math.Min(t/0.01, 1.0)
		envelope := attack * math.Exp(-t*6)

		// Fundamental plus a soft octave for a bell-like timbre
		sample := 0.35 * math.Sin(2*math.Pi*g.freq*t)
		sample += 0.1 * math.Sin(2*math.Pi*g.freq*2*t)
		sample *= envelope

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *ToneGenerator) Err() error {
	return nil
}

// newChime returns the two-tone (high, then low) time-up signal.
func newChime(sr beep.SampleRate) beep.Streamer {
	return beep.Seq(
		beep.Take(sr.N(noteLength), NewToneGenerator(sr, 880)),
		beep.Take(sr.N(noteLength*2), NewToneGenerator(sr, 660)),
	)
}

// chimeBuffer renders the chime once so it can be replayed.
func chimeBuffer() *beep.Buffer {
	buf := beep.NewBuffer(chimeFormat)
	buf.Append(newChime(sampleRate))
	return buf
}

// renderPCM drains s into interleaved stereo signed 16-bit little endian
// samples.
func renderPCM(s beep.Streamer) []byte {
	var (
		out   []byte
		chunk = make([][2]float64, 512)
		frame [4]byte
	)
	for {
		n, ok := s.Stream(chunk)
		for _, smp := range chunk[:n] {
			binary.LittleEndian.PutUint16(frame[0:2], uint16(toInt16(smp[0])))
			binary.LittleEndian.PutUint16(frame[2:4], uint16(toInt16(smp[1])))
			out = append(out, frame[:]...)
		}
		if !ok {
			return out
		}
	}
}

func toInt16(v float64) int16 {
	v = math.Max(-1, math.Min(1, v))
	return int16(v * math.MaxInt16)
}
