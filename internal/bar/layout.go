package bar

import (
	"fmt"
	"strings"
)

// Orientation selects which dimension encodes time.
type Orientation int

const (
	Vertical Orientation = iota
	Horizontal
)

func (o Orientation) String() string {
	switch o {
	case Vertical:
		return "vertical"
	case Horizontal:
		return "horizontal"
	default:
		return "unknown"
	}
}

func (o Orientation) Toggle() Orientation {
	if o == Vertical {
		return Horizontal
	}
	return Vertical
}

// Axis returns the length of the travel axis for an area.
func (o Orientation) Axis(width, height int) int {
	if o == Horizontal {
		return width
	}
	return height
}

func ParseOrientation(s string) (Orientation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "vertical", "v":
		return Vertical, nil
	case "horizontal", "h":
		return Horizontal, nil
	}
	return Vertical, fmt.Errorf("unknown orientation %q", s)
}

// Rect is a half-open cell rectangle [X0,X1) x [Y0,Y1).
type Rect struct {
	X0, Y0, X1, Y1 int
}

func (r Rect) Empty() bool {
	return r.X0 >= r.X1 || r.Y0 >= r.Y1
}

func (r Rect) Contains(x, y int) bool {
	return x >= r.X0 && x < r.X1 && y >= r.Y0 && y < r.Y1
}

func (r Rect) clip(width, height int) Rect {
	r.X0 = max(r.X0, 0)
	r.Y0 = max(r.Y0, 0)
	r.X1 = min(r.X1, width)
	r.Y1 = min(r.Y1, height)
	return r
}

// Frame is a level laid out on an area: the fill rectangle and the
// leading edge as separate primitives.
type Frame struct {
	Level
	Orientation Orientation
	Width       int
	Height      int
	FillRect    Rect
	EdgeRect    Rect
	Drained     bool
}

// Layout positions a level. The drained part grows from the top in the
// vertical orientation and from the left in the horizontal one.
func Layout(l Level, o Orientation, width, height int) Frame {
	p := l.Position
	var fill, edge Rect
	if o == Vertical {
		fill = Rect{0, p + 1, width, height}
		edge = Rect{0, p, width, p + 1}
	} else {
		fill = Rect{p + 1, 0, width, height}
		edge = Rect{p, 0, p + 1, height}
	}
	return Frame{
		Level:       l,
		Orientation: o,
		Width:       width,
		Height:      height,
		FillRect:    fill.clip(width, height),
		EdgeRect:    edge.clip(width, height),
	}
}

// Drained is the terminal frame of an empty or expired countdown: the
// whole bar is black until the countdown is reset.
func Drained(o Orientation, width, height int) Frame {
	return Frame{
		Level:       Level{Fill: Black, Edge: Black},
		Orientation: o,
		Width:       width,
		Height:      height,
		FillRect:    Rect{0, 0, width, height},
		Drained:     true,
	}
}

// ColorAt resolves the color of a cell. Cells outside both rectangles
// show the black background.
func (f Frame) ColorAt(x, y int) RGB {
	switch {
	case f.EdgeRect.Contains(x, y):
		return f.Edge
	case f.FillRect.Contains(x, y):
		return f.Fill
	default:
		return Black
	}
}
