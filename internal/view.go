package internal

import (
	"strings"

	"lightimer/internal/bar"

	"github.com/charmbracelet/lipgloss"
)

const (
	defaultWidth  = 80
	defaultHeight = 24

	// Label line plus help line.
	chromeLines = 2
)

var helpStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("241"))

func (m *Model) View() string {
	frame := m.Frame()
	barView := paint(frame)
	width := frame.Width

	if m.lean {
		barView = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color(m.cfg.Display.TimeColor)).
			Render(barView)
		width += 2
	}

	labelColor := m.cfg.Display.TimeColor
	if m.countdown.TimeUp() {
		labelColor = m.cfg.Display.TimeUpColor
	}
	label := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(labelColor)).
		Render(m.Label())

	var sb strings.Builder
	sb.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, label))
	sb.WriteString("\n")
	sb.WriteString(barView)
	sb.WriteString("\n")
	sb.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return sb.String()
}

// barSize is the area of the bar in cells for the current terminal size,
// orientation and lean mode.
func (m *Model) barSize() (int, int) {
	w, h := m.width, m.height
	if w <= 0 || h <= 0 {
		w, h = defaultWidth, defaultHeight
	}
	h -= chromeLines
	if m.showHelp {
		h -= len(m.keys.FullHelp()[0]) - 1
	}
	if m.lean {
		w -= 2
		h -= 2
	}

	if m.orientation == bar.Vertical {
		w = min(w, m.cfg.Display.VerticalWidth)
	} else {
		h = min(h, m.cfg.Display.HorizontalHeight)
	}
	return max(w, 1), max(h, 1)
}

// paint renders a frame row by row, one background-colored run of spaces
// per stretch of equal cells.
func paint(f bar.Frame) string {
	var sb strings.Builder
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; {
			c := f.ColorAt(x, y)
			run := 1
			for x+run < f.Width && f.ColorAt(x+run, y) == c {
				run++
			}
			sb.WriteString(cellStyle(c).Render(strings.Repeat(" ", run)))
			x += run
		}
		if y < f.Height-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func cellStyle(c bar.RGB) lipgloss.Style {
	return lipgloss.NewStyle().Background(lipgloss.Color(c.Hex()))
}
