package monitor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/luki/battop/internal/chart"
	"github.com/luki/battop/internal/power"
)

// ── Color palette ────────────────────────────────────────────────────

var (
	colorTitleBg  = lipgloss.Color("17")
	colorTitleFg  = lipgloss.Color("51")
	colorBorder   = lipgloss.Color("62")
	colorLabel    = lipgloss.Color("252")
	colorValue    = lipgloss.Color("250")
	colorDim      = lipgloss.Color("240")
	colorFooterBg = lipgloss.Color("235")
	colorCrit     = lipgloss.Color("196")
)

const (
	title       = "Battery info. Press 'q' to quit"
	labelWidth  = 16
	yAxisWidth  = 8
	minChartRow = 4
)

// ── View ─────────────────────────────────────────────────────────────

func (m Model) View() string {
	if m.width == 0 {
		return "  Initializing..."
	}

	contentWidth := m.width - 2
	if contentWidth < 40 {
		contentWidth = 40
	}

	sections := []string{m.renderTitleBar(contentWidth)}

	if m.recErr != nil {
		sections = append(sections, lipgloss.NewStyle().
			Foreground(colorCrit).
			Bold(true).
			Width(contentWidth).
			Padding(0, 1).
			Render(fmt.Sprintf(" RECORD: %v", m.recErr)))
	}

	sections = append(sections, m.renderInfo(contentWidth))

	if m.state.Config().Graph() {
		used := lipgloss.Height(lipgloss.JoinVertical(lipgloss.Left, sections...)) + 1
		sections = append(sections, m.renderChart(contentWidth, m.height-used-5))
	}

	sections = append(sections, m.renderFooter(contentWidth))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderTitleBar(width int) string {
	logo := lipgloss.NewStyle().
		Bold(true).
		Foreground(colorTitleFg).
		Render(title)

	right := lipgloss.NewStyle().Foreground(colorDim).Render(m.host)

	gap := width - lipgloss.Width(logo) - lipgloss.Width(right) - 4
	if gap < 1 {
		gap = 1
	}

	return lipgloss.NewStyle().
		Background(colorTitleBg).
		Width(width).
		Padding(0, 1).
		Render(logo + strings.Repeat(" ", gap) + right)
}

func (m Model) renderInfo(width int) string {
	snap := m.state.Snapshot()

	left := []string{
		row("Source", snap.Source),
		row("Vendor", orDash(snap.Vendor)),
		row("Model", orDash(snap.Model)),
		row("Serial", snap.SerialNumber),
		row("Technology", snap.Technology.String()),
		row("State", snap.State.String()),
		row("Health", fmt.Sprintf("%.2f%%", snap.Health*100)),
		row("Cycles", fmt.Sprintf("%d", snap.CycleCount)),
	}
	right := []string{
		row("Power", chart.RenderWatts(snap.SignedPower())),
		row("Energy", fmt.Sprintf("%.2f Wh", snap.Energy)),
		row("Voltage", fmt.Sprintf("%.3f V", snap.Voltage)),
		row("Time to empty", chart.Hours(snap.TimeToEmpty)),
		row("Time to full", chart.Hours(snap.TimeToFull)),
		row("Temperature", temperature(snap)),
		row("Samples", fmt.Sprintf("%d", m.state.Samples())),
	}

	colWidth := (width - 6) / 2
	col := lipgloss.NewStyle().Width(colWidth)
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		col.Render(lipgloss.JoinVertical(lipgloss.Left, left...)),
		col.Render(lipgloss.JoinVertical(lipgloss.Left, right...)),
	)

	gaugeWidth := width - labelWidth - 14
	if gaugeWidth < 10 {
		gaugeWidth = 10
	}
	g := m.gauge
	g.Width = gaugeWidth
	charge := lipgloss.NewStyle().Foreground(colorLabel).Width(labelWidth).Render("Charge") +
		g.ViewAs(snap.Charge) +
		lipgloss.NewStyle().Bold(true).Render(fmt.Sprintf(" %6.2f%%", snap.Charge*100))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1).
		Width(width).
		Render(lipgloss.JoinVertical(lipgloss.Left, charge, "", body))
}

func (m Model) renderChart(width, height int) string {
	if height < minChartRow {
		height = minChartRow
	}
	plotWidth := width - yAxisWidth - 4
	if plotWidth < 10 {
		plotWidth = 10
	}

	h := m.state.History()
	lower, upper := m.state.YBounds()
	lo, mid, hi := chart.AxisLabels(lower, upper)

	labels := make([]string, height)
	labels[0] = hi
	labels[height/2] = mid
	labels[height-1] = lo
	dim := lipgloss.NewStyle().Foreground(colorDim).Width(yAxisWidth).Align(lipgloss.Right).PaddingRight(1)
	yAxis := dim.Render(strings.Join(labels, "\n"))

	plot := chart.RenderChart(m.state.Grid(), h.Cap(), plotWidth, height, lower, upper)
	xAxis := strings.Repeat(" ", yAxisWidth) + chart.RenderXLabels(h.First(), h.Avg(), h.Last(), plotWidth)

	heading := lipgloss.NewStyle().Foreground(colorLabel).Bold(true).Render("Power (W)")

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1).
		Width(width).
		Render(lipgloss.JoinVertical(lipgloss.Left,
			heading,
			lipgloss.JoinHorizontal(lipgloss.Top, yAxis, plot),
			xAxis,
		))
}

func (m Model) renderFooter(width int) string {
	dimS := lipgloss.NewStyle().Foreground(colorDim)
	interval := dimS.Render(fmt.Sprintf("every %s", m.sched.Interval()))
	keysView := m.help.View(m.keys)

	gap := width - lipgloss.Width(interval) - lipgloss.Width(keysView) - 4
	if gap < 1 {
		gap = 1
	}

	return lipgloss.NewStyle().
		Background(colorFooterBg).
		Width(width).
		Padding(0, 1).
		Render(interval + strings.Repeat(" ", gap) + keysView)
}

func row(label, value string) string {
	return lipgloss.NewStyle().Foreground(colorLabel).Width(labelWidth).Render(label) +
		lipgloss.NewStyle().Foreground(colorValue).Render(value)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func temperature(s power.Snapshot) string {
	if !s.HasTemperature {
		return "n/a"
	}
	return fmt.Sprintf("%.1f °C", s.Temperature)
}
