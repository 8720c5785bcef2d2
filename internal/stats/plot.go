package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

const (
	defaultPlotHeight   = 6
	minPlotWidth        = 10
	axisWidth           = 6
	terminalWidthBackup = 80
)

var curveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

// PlotWidthFor computes a plot width that fits within the total available width.
func PlotWidthFor(totalWidth int) int {
	if totalWidth <= 0 {
		return minPlotWidth
	}
	return max(minPlotWidth, totalWidth-axisWidth-3)
}

// TerminalWidth returns the width of stdout, or a fallback when it is not a terminal.
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

// RenderCurve draws values as a braille line chart. Each cell holds two
// samples horizontally and four dots vertically.
func RenderCurve(w io.Writer, title string, values []float64, width, height int) error {
	if len(values) == 0 {
		return nil
	}
	if width <= 0 {
		width = PlotWidthFor(TerminalWidth())
	}
	if height <= 0 {
		height = defaultPlotHeight
	}
	lo, hi := bounds(values)
	if math.Abs(hi-lo) < 1e-9 {
		lo--
		hi++
	}

	cells := make([][]rune, height)
	for y := range cells {
		cells[y] = []rune(strings.Repeat(string(rune(0x2800)), width))
	}
	samples := resample(values, width*2)
	dots := height * 4
	for x, v := range samples {
		row := int(math.Round((1 - (v-lo)/(hi-lo)) * float64(dots-1)))
		row = max(0, min(row, dots-1))
		cells[row/4][x/2] |= brailleDot(x%2, row%4)
	}

	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}
	for y, line := range cells {
		label := ""
		switch y {
		case 0:
			label = fmt.Sprintf("%.0f", hi)
		case height - 1:
			label = fmt.Sprintf("%.0f", lo)
		}
		if _, err := fmt.Fprintf(w, "%*s │ %s\n", axisWidth, label, curveStyle.Render(string(line))); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

func resample(values []float64, n int) []float64 {
	out := make([]float64, n)
	if len(values) == 1 {
		for i := range out {
			out[i] = values[0]
		}
		return out
	}
	for i := range out {
		pos := float64(i) * float64(len(values)-1) / float64(max(n-1, 1))
		idx := int(pos)
		if idx >= len(values)-1 {
			out[i] = values[len(values)-1]
			continue
		}
		frac := pos - float64(idx)
		out[i] = values[idx]*(1-frac) + values[idx+1]*frac
	}
	return out
}

func brailleDot(x, y int) rune {
	if y == 3 {
		return rune(0x40 << x)
	}
	return rune(1 << (y + 3*x))
}
