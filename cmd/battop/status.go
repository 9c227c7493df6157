package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/spf13/cobra"

	"github.com/luki/battop/internal/chart"
	"github.com/luki/battop/internal/config"
	"github.com/luki/battop/internal/plain"
	"github.com/luki/battop/internal/power"
)

func NewStatusCommand(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print the battery status once and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, closer, err := g.prepare(func(*config.Config) bool { return false })
			if err != nil {
				return err
			}
			defer closer.Close()

			snap, err := power.Read(power.Select(cfg.Source(), cfg.SysfsRoot()))
			if err != nil {
				return err
			}
			hostname := ""
			if h, err := host.Info(); err == nil {
				hostname = h.Hostname
			}
			printStatus(cmd.OutOrStdout(), hostname, snap)
			return nil
		},
	}
}

func printStatus(w io.Writer, hostname string, snap power.Snapshot) {
	if hostname != "" {
		fmt.Fprintf(w, "%s %s\n", bold("Battery status:"), hostname)
	} else {
		fmt.Fprintln(w, bold("Battery status:"))
	}
	fmt.Fprintf(w, "  Source: %s\n", bold("%s", snap.Source))
	fmt.Fprintf(w, "  State: %s\n", bold("%s", stateText(snap.State)))
	fmt.Fprintf(w, "  Current charge: %s\n", bold("%.2f%%", snap.Charge*100))
	fmt.Fprintf(w, "  Power: %s\n", wattsText(snap.SignedPower()))
	fmt.Fprintf(w, "  Energy: %s\n", bold("%.2f Wh", snap.Energy))
	fmt.Fprintf(w, "  Voltage: %s\n", bold("%.3f V", snap.Voltage))
	switch snap.State {
	case power.StateDischarging:
		fmt.Fprintf(w, "  Time to empty: %s\n", bold("%s", chart.Hours(snap.TimeToEmpty)))
	case power.StateCharging:
		fmt.Fprintf(w, "  Time to full: %s\n", bold("%s", chart.Hours(snap.TimeToFull)))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, bold("Battery info:"))
	fmt.Fprintf(w, "  Vendor: %s\n", bold("%s", orUnknown(snap.Vendor)))
	fmt.Fprintf(w, "  Model: %s\n", bold("%s", orUnknown(snap.Model)))
	fmt.Fprintf(w, "  Serial: %s\n", bold("%s", snap.SerialNumber))
	fmt.Fprintf(w, "  Technology: %s\n", bold("%s", snap.Technology))
	fmt.Fprintf(w, "  Health: %s\n", bold("%.2f%%", snap.Health*100))
	fmt.Fprintf(w, "  Cycles: %s\n", bold("%d", snap.CycleCount))
	if snap.HasTemperature {
		fmt.Fprintf(w, "  Temperature: %s\n", bold("%.1f °C", snap.Temperature))
	} else {
		fmt.Fprintf(w, "  Temperature: %s\n", bold("n/a"))
	}
}

func stateText(s power.State) string {
	return plain.StateColor(s).Sprint(s.String())
}

func wattsText(v float64) string {
	return plain.PowerColor(v).Sprintf("%+.2f W", v)
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

func bold(format string, a ...interface{}) string {
	return color.New(color.Bold).Sprintf(format, a...)
}
