// Package plain is the line-oriented front end: a colored status line per
// sample on stdout and a stdin reader where a "q" line quits.
package plain

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/x/term"
	"github.com/fatih/color"

	"github.com/luki/battop/internal/app"
	"github.com/luki/battop/internal/chart"
	"github.com/luki/battop/internal/loop"
	"github.com/luki/battop/internal/power"
)

const defaultWidth = 80

// TerminalWidth is the width of stdout, or 80 when it is not a terminal.
func TerminalWidth() int {
	w, _, err := term.GetSize(os.Stdout.Fd())
	if err != nil || w <= 0 {
		return defaultWidth
	}
	return w
}

// Run drives the cooperative loop with a Printer on out and a LineInput on in.
func Run(ctx context.Context, st *app.State, sample loop.SampleFunc, in io.Reader, out io.Writer) error {
	s := loop.NewScheduler(st.Config().TickRate(), nil)
	lines := NewLineInput(in)
	defer lines.Close()
	return loop.Run(ctx, s, NewPrinter(out, st, TerminalWidth()), lines, sample)
}

// Printer renders the state as one line per new sample.
type Printer struct {
	out     io.Writer
	state   *app.State
	width   int
	printed uint64
	started bool
}

func NewPrinter(out io.Writer, st *app.State, width int) *Printer {
	return &Printer{out: out, state: st, width: width}
}

func (p *Printer) Render() error {
	if !p.started {
		p.started = true
		if _, err := fmt.Fprintln(p.out, bold("Battery info. Type 'q' and Enter to quit")); err != nil {
			return err
		}
	}
	if p.state.Samples() == p.printed {
		return nil
	}
	p.printed = p.state.Samples()
	_, err := fmt.Fprintln(p.out, p.line())
	return err
}

func (p *Printer) line() string {
	snap := p.state.Snapshot()
	h := p.state.History()

	spark := p.width - 60
	if spark > h.Cap() {
		spark = h.Cap()
	}
	if spark < 10 {
		spark = 10
	}

	return fmt.Sprintf("%s  %s  %s  %s  %s  %s",
		bold("%s", snap.Source),
		stateText(snap.State),
		bold("%6.2f%%", snap.Charge*100),
		watts(snap.SignedPower()),
		fmt.Sprintf("%.2f Wh", snap.Energy),
		chart.RenderSparkline(h.LastN(spark), spark, h.Min(), h.Max()),
	)
}

// StateColor is the terminal color of a power state, the same palette
// as the dashboard: charging green, discharging yellow, empty red.
func StateColor(s power.State) *color.Color {
	switch s {
	case power.StateCharging:
		return color.New(color.FgGreen)
	case power.StateDischarging:
		return color.New(color.FgYellow)
	case power.StateEmpty:
		return color.New(color.FgRed)
	default:
		return color.New(color.Reset)
	}
}

// PowerColor is the bold terminal color of a signed power value: green
// while charging, yellow while discharging.
func PowerColor(v float64) *color.Color {
	switch {
	case v < 0:
		return color.New(color.Bold, color.FgGreen)
	case v > 0:
		return color.New(color.Bold, color.FgYellow)
	default:
		return color.New(color.Bold)
	}
}

func stateText(s power.State) string {
	return StateColor(s).Sprintf("%-11s", s)
}

func watts(v float64) string {
	return PowerColor(v).Sprintf("%+7.2f W", v)
}

func bold(format string, a ...interface{}) string {
	return color.New(color.Bold).Sprintf(format, a...)
}
