package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/luki/battop/internal/app"
	"github.com/luki/battop/internal/config"
	"github.com/luki/battop/internal/logging"
	"github.com/luki/battop/internal/monitor"
	"github.com/luki/battop/internal/plain"
	"github.com/luki/battop/internal/power"
	"github.com/luki/battop/internal/record"
)

var version = "dev"

func handleCmdError(err error) {
	switch {
	case errors.Is(err, power.ErrNoSources):
		fmt.Fprintln(os.Stderr, "\nError: no power sources found")
		fmt.Fprintln(os.Stderr, "  - battop needs at least one battery to monitor")
	case errors.Is(err, power.ErrProviderUnavailable):
		fmt.Fprintln(os.Stderr, "\nError: power sources could not be enumerated")
		fmt.Fprintln(os.Stderr, "  - Try another provider with '--source battery' or '--source sysfs'")
		fmt.Fprintln(os.Stderr, "  - For sysfs, check that '--sysfs-root' points at a power_supply directory")
	case errors.Is(err, config.ErrInvalidConfig):
		fmt.Fprintln(os.Stderr, "\nError: invalid configuration")
		fmt.Fprintln(os.Stderr, "  - Run 'battop --help' to see accepted values")
	}
}

func main() {
	cmd := NewCommand()
	if err := cmd.Execute(); err != nil {
		handleCmdError(err)
		os.Exit(1)
	}
}

// globals shared by every subcommand
type globals struct {
	v          *viper.Viper
	configFile string
}

// prepare loads the configuration and sets up logging. The returned
// closer releases the log file.
func (g *globals) prepare(tui func(*config.Config) bool) (*config.Config, io.Closer, error) {
	cfg, err := config.Load(g.v, g.configFile)
	if err != nil {
		return nil, nil, err
	}
	closer, err := logging.Setup(cfg.LogLevel(), cfg.LogFile(), tui(cfg))
	if err != nil {
		return nil, nil, err
	}
	logrus.WithFields(logrus.Fields{
		"tickRate": cfg.TickRate(),
		"capacity": cfg.BufCapacity(),
		"graph":    cfg.Graph(),
		"source":   cfg.Source(),
		"plain":    cfg.Plain(),
		"record":   cfg.RecordDir(),
	}).Debug("config loaded")
	return cfg, closer, nil
}

func NewCommand() *cobra.Command {
	g := &globals{v: config.NewViper()}

	cmd := &cobra.Command{
		Use:   "battop",
		Short: "battop shows battery charge and power draw in the terminal",
		Long: `battop samples the first battery of the host at a fixed interval and
shows its state, charge, and a history of the power flowing in or out.

Charging power is drawn below zero, discharging power above it.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, closer, err := g.prepare(func(c *config.Config) bool { return !c.Plain() })
			if err != nil {
				return err
			}
			defer closer.Close()
			return run(cmd.Context(), cfg)
		},
	}

	globalFlags := cmd.PersistentFlags()
	globalFlags.StringVar(&g.configFile, "config", "", "config file path")
	if err := config.BindFlags(globalFlags, g.v); err != nil {
		logrus.Fatal(err)
	}

	cmd.AddCommand(
		NewStatusCommand(g),
		NewVersionCommand(),
	)

	return cmd
}

func run(ctx context.Context, cfg *config.Config) error {
	p := power.Select(cfg.Source(), cfg.SysfsRoot())
	st := app.New(cfg)

	// Fail before taking over the terminal when there is nothing to show.
	if err := st.Update(p); err != nil {
		logrus.WithError(err).Error("initial sample failed")
		return err
	}
	logrus.Infof("monitoring %s", st.Snapshot().Source)

	var rec *record.DiskStore
	if dir := cfg.RecordDir(); dir != "" {
		var err error
		rec, err = record.New(dir)
		if err != nil {
			return err
		}
		defer rec.Close()
		if err := rec.Write(st.Snapshot(), time.Now()); err != nil {
			logrus.WithError(err).Warn("failed to record sample")
		}
		logrus.Infof("recording samples to %s", rec.Dir())
	}

	if cfg.Plain() {
		ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()

		sample := func() error {
			if err := st.Update(p); err != nil {
				return err
			}
			if rec != nil {
				if err := rec.Write(st.Snapshot(), time.Now()); err != nil {
					logrus.WithError(err).Warn("failed to record sample")
				}
			}
			return nil
		}
		return plain.Run(ctx, st, sample, os.Stdin, os.Stdout)
	}

	var opts []monitor.Option
	if rec != nil {
		opts = append(opts, monitor.WithRecorder(rec))
	}
	final, err := tea.NewProgram(monitor.New(st, p, opts...), tea.WithAltScreen()).Run()
	if err != nil {
		return errors.Wrap(err, "dashboard failed")
	}
	if m, ok := final.(monitor.Model); ok && m.Fatal() != nil {
		return m.Fatal()
	}
	return nil
}
