package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "BATTOP"

// BindFlags registers every option on fs and binds it to v.
func BindFlags(fs *pflag.FlagSet, v *viper.Viper) error {
	d := DefaultRaw()
	fs.IntP("tick-rate", "t", d.TickRate, "sampling interval in milliseconds")
	fs.IntP("buf-capacity", "b", d.BufCapacity, "number of power samples kept for the chart")
	fs.BoolP("graph", "g", d.Graph, "show the power chart")
	fs.Float64("clearance", d.Clearance, "vertical margin added around the plotted extrema (W)")
	fs.String("source", d.Source, "power source provider (auto, sysfs, battery)")
	fs.String("sysfs-root", d.SysfsRoot, "power_supply directory used by the sysfs provider")
	fs.Bool("plain", d.Plain, "print status lines instead of the full-screen dashboard")
	fs.String("record", d.Record, "append every sample to daily CSV files in this directory")
	fs.StringP("log-level", "l", d.LogLevel, "log level (trace, debug, info, warn, error, fatal, panic)")
	fs.String("log-file", d.LogFile, "write logs to this file")

	var err error
	fs.VisitAll(func(f *pflag.Flag) {
		if err != nil {
			return
		}
		err = v.BindPFlag(f.Name, f)
	})
	return errors.Wrap(err, "failed to bind flags")
}

// NewViper returns a viper instance preloaded with defaults and the
// BATTOP_ environment overlay.
func NewViper() *viper.Viper {
	v := viper.New()
	d := DefaultRaw()
	v.SetDefault("tick-rate", d.TickRate)
	v.SetDefault("buf-capacity", d.BufCapacity)
	v.SetDefault("graph", d.Graph)
	v.SetDefault("clearance", d.Clearance)
	v.SetDefault("source", d.Source)
	v.SetDefault("sysfs-root", d.SysfsRoot)
	v.SetDefault("plain", d.Plain)
	v.SetDefault("record", d.Record)
	v.SetDefault("log-level", d.LogLevel)
	v.SetDefault("log-file", d.LogFile)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the optional config file and returns the validated Config.
// An explicit file that cannot be read is an error; a missing default
// file is not.
func Load(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("battop")
		for _, dir := range searchPaths() {
			v.AddConfigPath(dir)
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "failed to read config file")
		}
	}

	raw := DefaultRaw()
	if err := v.Unmarshal(&raw); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	return New(raw)
}

func searchPaths() []string {
	var dirs []string
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		dirs = append(dirs, filepath.Join(xdg, "battop"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".config", "battop"))
	}
	return dirs
}
