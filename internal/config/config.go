// Package config holds the immutable run parameters of battop and loads
// them from flags, environment and an optional config file.
package config

import (
	"fmt"
	"math"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	DefaultTickRateMillis = 1500
	DefaultBufCapacity    = 100
	DefaultClearance      = 1.0
	DefaultSysfsRoot      = "/sys/class/power_supply"
	DefaultLogLevel       = "info"
)

// Source selects which power-source provider is queried.
type Source string

const (
	SourceAuto    Source = "auto"
	SourceSysfs   Source = "sysfs"
	SourceBattery Source = "battery"
)

func (s Source) valid() bool {
	switch s {
	case SourceAuto, SourceSysfs, SourceBattery:
		return true
	default:
		return false
	}
}

// ErrInvalidConfig is matched by every ValidationError.
var ErrInvalidConfig = errors.New("invalid configuration")

// ValidationError describes one rejected configuration value.
type ValidationError struct {
	Field  string
	Value  interface{}
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s %v: %s", ErrInvalidConfig, e.Field, e.Value, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidConfig
}

// Raw is the unvalidated form of Config as decoded by viper.
type Raw struct {
	TickRate    int     `mapstructure:"tick-rate"`
	BufCapacity int     `mapstructure:"buf-capacity"`
	Graph       bool    `mapstructure:"graph"`
	Clearance   float64 `mapstructure:"clearance"`
	Source      string  `mapstructure:"source"`
	SysfsRoot   string  `mapstructure:"sysfs-root"`
	Plain       bool    `mapstructure:"plain"`
	Record      string  `mapstructure:"record"`
	LogLevel    string  `mapstructure:"log-level"`
	LogFile     string  `mapstructure:"log-file"`
}

// DefaultRaw returns the raw configuration with every default applied.
func DefaultRaw() Raw {
	return Raw{
		TickRate:    DefaultTickRateMillis,
		BufCapacity: DefaultBufCapacity,
		Clearance:   DefaultClearance,
		Source:      string(SourceAuto),
		SysfsRoot:   DefaultSysfsRoot,
		LogLevel:    DefaultLogLevel,
	}
}

// Config is immutable once constructed by New.
type Config struct {
	tickRate    time.Duration
	bufCapacity int
	graph       bool
	clearance   float64
	source      Source
	sysfsRoot   string
	plain       bool
	recordDir   string
	logLevel    logrus.Level
	logFile     string
}

// New validates raw and returns the resulting Config.
func New(raw Raw) (*Config, error) {
	if raw.TickRate <= 0 {
		return nil, &ValidationError{Field: "tick-rate", Value: raw.TickRate, Reason: "must be a positive number of milliseconds"}
	}
	if raw.BufCapacity < 1 {
		return nil, &ValidationError{Field: "buf-capacity", Value: raw.BufCapacity, Reason: "must hold at least one sample"}
	}
	if math.IsNaN(raw.Clearance) || math.IsInf(raw.Clearance, 0) || raw.Clearance < 0 {
		return nil, &ValidationError{Field: "clearance", Value: raw.Clearance, Reason: "must be a finite non-negative number"}
	}
	src := Source(raw.Source)
	if src == "" {
		src = SourceAuto
	}
	if !src.valid() {
		return nil, &ValidationError{Field: "source", Value: raw.Source, Reason: "must be one of auto, sysfs, battery"}
	}
	lvl := raw.LogLevel
	if lvl == "" {
		lvl = DefaultLogLevel
	}
	level, err := logrus.ParseLevel(lvl)
	if err != nil {
		return nil, &ValidationError{Field: "log-level", Value: raw.LogLevel, Reason: err.Error()}
	}
	root := raw.SysfsRoot
	if root == "" {
		root = DefaultSysfsRoot
	}

	return &Config{
		tickRate:    time.Duration(raw.TickRate) * time.Millisecond,
		bufCapacity: raw.BufCapacity,
		graph:       raw.Graph,
		clearance:   raw.Clearance,
		source:      src,
		sysfsRoot:   root,
		plain:       raw.Plain,
		recordDir:   raw.Record,
		logLevel:    level,
		logFile:     raw.LogFile,
	}, nil
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	c, err := New(DefaultRaw())
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Config) TickRate() time.Duration { return c.tickRate }

func (c *Config) BufCapacity() int { return c.bufCapacity }

// UpperIndex is the largest valid index into the history buffer.
func (c *Config) UpperIndex() int { return c.bufCapacity - 1 }

func (c *Config) Graph() bool { return c.graph }

func (c *Config) GraphClearance() float64 { return c.clearance }

func (c *Config) Source() Source { return c.source }

func (c *Config) SysfsRoot() string { return c.sysfsRoot }

func (c *Config) Plain() bool { return c.plain }

// RecordDir is empty when recording is off.
func (c *Config) RecordDir() string { return c.recordDir }

func (c *Config) LogLevel() logrus.Level { return c.logLevel }

func (c *Config) LogFile() string { return c.logFile }
