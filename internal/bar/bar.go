// Package bar turns countdown progress into draw parameters for the
// level bar: where the fill boundary sits on the travel axis, the colors of
// the fill and of the one-cell leading edge that fades as the boundary
// approaches the next cell.
package bar

import (
	"fmt"
	"math"
	"time"
)

const rgbMax = 255

// RGB is a 24-bit color.
type RGB struct {
	R, G, B uint8
}

var Black = RGB{}

// Hex formats the color as #rrggbb.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Fade blends the color toward black. A factor of 0 keeps it, 1 gives
// black. Channels are truncated.
func (c RGB) Fade(factor float64) RGB {
	keep := 1.0 - factor
	return RGB{
		R: uint8(float64(c.R) * keep),
		G: uint8(float64(c.G) * keep),
		B: uint8(float64(c.B) * keep),
	}
}

// Level is the draw state of the bar for one frame.
type Level struct {
	Position int
	Fraction float64
	Fill     RGB
	Edge     RGB
}

// Compute derives the level for a countdown of the given duration spread
// over axis cells. duration must be positive; callers draw Drained for an
// empty or expired countdown instead.
//
// Red grows with elapsed time and reaches full intensity at half time,
// green fades over the second half. Both channels are rounded half to even.
func Compute(elapsed, remaining, duration time.Duration, axis int) Level {
	half := duration.Seconds() / 2
	e := elapsed.Seconds()
	r := remaining.Seconds()

	red := math.RoundToEven(math.Min(rgbMax, e/half*rgbMax))
	green := math.Max(0, math.RoundToEven(math.Min(rgbMax, r/half*rgbMax)))

	level := e * float64(axis) / duration.Seconds()
	pos := math.Floor(level)
	frac := level - pos

	fill := RGB{R: channel(red), G: channel(green)}
	return Level{
		Position: int(pos),
		Fraction: frac,
		Fill:     fill,
		Edge:     fill.Fade(frac),
	}
}

func channel(v float64) uint8 {
	if v < 0 {
		return 0
	}
	return uint8(v)
}
