// Package chart renders the power history as a sparkline or a multi-row
// bar chart around the zero axis, plus the value formatting shared by the
// dashboard and the line printer.
package chart

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/luki/battop/internal/history"
)

var sparkBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

var (
	colorCharging    = lipgloss.Color("78")  // soft green
	colorIdle        = lipgloss.Color("240") // grey
	colorDischarging = lipgloss.Color("220") // yellow
	colorAxis        = lipgloss.Color("238")
	colorEmpty       = lipgloss.Color("236")
)

// PowerColor colors a signed power value: energy flowing in is green,
// flowing out is yellow.
func PowerColor(v float64) lipgloss.Color {
	switch {
	case v < 0:
		return colorCharging
	case v > 0:
		return colorDischarging
	default:
		return colorIdle
	}
}

// RenderSparkline renders the values on one line, scaled to [rangeMin,rangeMax].
// Missing history is padded on the left.
func RenderSparkline(values []float64, width int, rangeMin, rangeMax float64) string {
	if width <= 0 {
		return ""
	}

	dim := lipgloss.NewStyle().Foreground(colorEmpty)
	if len(values) == 0 {
		return dim.Render(strings.Repeat("╌", width))
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	span := rangeMax - rangeMin
	if span <= 0 {
		span = 1
	}

	var sb strings.Builder
	sb.WriteString(dim.Render(strings.Repeat("╌", width-len(values))))
	for _, v := range values {
		norm := (v - rangeMin) / span
		norm = math.Max(0, math.Min(1, norm))
		idx := int(norm * 7)
		style := lipgloss.NewStyle().Foreground(PowerColor(v))
		sb.WriteString(style.Render(string(sparkBlocks[idx])))
	}
	return sb.String()
}

// RenderChart draws the grid as vertical bars growing from zero, height
// rows tall and width columns wide. capacity is the number of x slots in
// the grid; each slot is stretched or squeezed onto the columns, and when
// several slots share a column the newest wins.
func RenderChart(grid []history.GridPoint, capacity, width, height int, lower, upper float64) string {
	if width <= 0 || height <= 0 || capacity <= 0 {
		return ""
	}

	span := upper - lower
	if span <= 0 {
		span = 1
	}

	cols := make([]float64, width)
	set := make([]bool, width)
	for _, p := range grid {
		c0, c1 := columns(int(p.X), capacity, width)
		for c := c0; c <= c1; c++ {
			if !set[c] {
				cols[c] = p.Y
				set[c] = true
			}
		}
	}

	zero := math.Max(lower, math.Min(upper, 0))
	band := span / float64(height)
	zeroRow := int((upper - zero) / band)
	if zeroRow >= height {
		zeroRow = height - 1
	}

	axis := lipgloss.NewStyle().Foreground(colorAxis)
	rows := make([]string, height)
	for r := 0; r < height; r++ {
		hi := upper - float64(r)*band
		lo := hi - band

		var sb strings.Builder
		for c := 0; c < width; c++ {
			ch := ' '
			if set[c] {
				ch = cell(cols[c], zero, lo, hi)
			}
			switch {
			case ch != ' ':
				sb.WriteString(lipgloss.NewStyle().Foreground(PowerColor(cols[c])).Render(string(ch)))
			case r == zeroRow:
				sb.WriteString(axis.Render("─"))
			default:
				sb.WriteByte(' ')
			}
		}
		rows[r] = sb.String()
	}
	return strings.Join(rows, "\n")
}

// columns maps grid slot x onto the inclusive column range it covers.
func columns(x, capacity, width int) (int, int) {
	c0 := x * width / capacity
	c1 := (x+1)*width/capacity - 1
	if c1 < c0 {
		c1 = c0
	}
	if c0 >= width {
		c0 = width - 1
	}
	if c1 >= width {
		c1 = width - 1
	}
	return c0, c1
}

// cell picks the glyph for the band [lo,hi] of a bar running from zero to v.
func cell(v, zero, lo, hi float64) rune {
	barLo, barHi := math.Min(v, zero), math.Max(v, zero)
	overlap := math.Min(hi, barHi) - math.Max(lo, barLo)
	if overlap <= 0 {
		return ' '
	}
	frac := overlap / (hi - lo)
	switch {
	case frac >= 0.75:
		return '█'
	case frac >= 0.25 && v >= zero:
		return '▄'
	case frac >= 0.25:
		return '▀'
	default:
		return ' '
	}
}

// AxisLabels returns the bottom, middle and top y labels.
func AxisLabels(lower, upper float64) (string, string, string) {
	return fmt.Sprintf("%.2f", lower), fmt.Sprintf("%.2f", (upper+lower)/2), fmt.Sprintf("%.2f", upper)
}

// RenderXLabels spreads the oldest value, the average and the current
// value across width.
func RenderXLabels(first, avg, cur float64, width int) string {
	bold := lipgloss.NewStyle().Bold(true)
	left := bold.Render(fmt.Sprintf("%.2f", first))
	mid := fmt.Sprintf("AVG:%.2f", avg)
	right := bold.Render(fmt.Sprintf("CUR:%.2f", cur))

	gap := width - lipgloss.Width(left) - lipgloss.Width(mid) - lipgloss.Width(right)
	if gap < 2 {
		return left + " " + mid + " " + right
	}
	lgap := gap / 2
	return left + strings.Repeat(" ", lgap) + mid + strings.Repeat(" ", gap-lgap) + right
}

// RenderWatts renders a signed power value with its flow color.
func RenderWatts(v float64) string {
	return lipgloss.NewStyle().Foreground(PowerColor(v)).Render(fmt.Sprintf("%+.2f W", v))
}

// Hours formats a duration as "1.50h(90.00m)".
func Hours(d time.Duration) string {
	return fmt.Sprintf("%.2fh(%.2fm)", d.Hours(), d.Minutes())
}
