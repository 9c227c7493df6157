package chart

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"

	"github.com/luki/battop/internal/history"
)

func TestSparkline(t *testing.T) {
	values := []float64{-10, -5, 0, 5, 10, 15, 20}
	result := RenderSparkline(values, 20, -10, 20)
	if len(result) == 0 {
		t.Error("sparkline should not be empty")
	}
	assert.Equal(t, 20, lipgloss.Width(result))
	assert.Contains(t, result, "▁")
	assert.Contains(t, result, "█")
	t.Logf("Sparkline: %s", result)
}

func TestSparklineEmpty(t *testing.T) {
	assert.Equal(t, 8, lipgloss.Width(RenderSparkline(nil, 8, 0, 1)))
	assert.Empty(t, RenderSparkline([]float64{1}, 0, 0, 1))
}

func TestColumns(t *testing.T) {
	tests := []struct {
		x, capacity, width int
		c0, c1             int
	}{
		{0, 5, 10, 0, 1},
		{4, 5, 10, 8, 9},
		{0, 100, 50, 0, 0},
		{1, 100, 50, 0, 0},
		{99, 100, 50, 49, 49},
		{0, 1, 7, 0, 6},
	}
	for _, tt := range tests {
		c0, c1 := columns(tt.x, tt.capacity, tt.width)
		assert.Equal(t, tt.c0, c0, "x=%d cap=%d width=%d", tt.x, tt.capacity, tt.width)
		assert.Equal(t, tt.c1, c1, "x=%d cap=%d width=%d", tt.x, tt.capacity, tt.width)
	}
}

func TestRenderChartPositive(t *testing.T) {
	grid := []history.GridPoint{{X: 4, Y: 4}, {X: 3, Y: 2}}
	out := RenderChart(grid, 5, 5, 4, 0, 4)
	rows := strings.Split(out, "\n")

	assert.Len(t, rows, 4)
	for _, r := range rows {
		assert.Equal(t, 5, lipgloss.Width(r))
	}
	// Newest (rightmost) bar reaches the top row, the older one only half way.
	assert.Equal(t, '█', []rune(rows[0])[4])
	assert.Equal(t, ' ', []rune(rows[0])[3])
	assert.Equal(t, '█', []rune(rows[3])[3])
	assert.Equal(t, '█', []rune(rows[2])[3])
}

func TestRenderChartNegative(t *testing.T) {
	grid := []history.GridPoint{{X: 1, Y: -3}}
	out := RenderChart(grid, 2, 2, 4, -4, 4)
	rows := strings.Split(out, "\n")

	assert.Len(t, rows, 4)
	// Bars below zero hang from the axis.
	assert.Equal(t, '█', []rune(rows[2])[1])
	assert.Equal(t, '▀', []rune(rows[3])[1])
	assert.Equal(t, ' ', []rune(rows[0])[1])
}

func TestRenderChartEmptyShowsAxis(t *testing.T) {
	out := RenderChart(nil, 10, 10, 3, -1, 1)
	assert.Contains(t, out, "─")
	assert.NotContains(t, out, "█")
}

func TestCell(t *testing.T) {
	assert.Equal(t, '█', cell(10, 0, 2, 4))
	assert.Equal(t, '▄', cell(3, 0, 2, 4))
	assert.Equal(t, ' ', cell(2.2, 0, 2, 4))
	assert.Equal(t, ' ', cell(1, 0, 2, 4))
	assert.Equal(t, '▀', cell(-3, 0, -4, -2))
}

func TestLabels(t *testing.T) {
	lo, mid, hi := AxisLabels(-2, 6)
	assert.Equal(t, "-2.00", lo)
	assert.Equal(t, "2.00", mid)
	assert.Equal(t, "6.00", hi)

	x := RenderXLabels(1, 2.5, -3, 40)
	assert.Equal(t, 40, lipgloss.Width(x))
	assert.Contains(t, x, "AVG:2.50")
	assert.Contains(t, x, "CUR:-3.00")
}

func TestHours(t *testing.T) {
	assert.Equal(t, "1.50h(90.00m)", Hours(90*time.Minute))
	assert.Equal(t, "0.00h(0.00m)", Hours(0))
}
