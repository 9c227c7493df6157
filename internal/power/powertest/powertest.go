// Package powertest provides in-memory power providers for tests.
package powertest

import (
	"time"

	"github.com/luki/battop/internal/power"
)

// Provider returns List (or Err) and counts how often it was asked.
type Provider struct {
	List  []power.Source
	Err   error
	Calls int
}

func (p *Provider) Sources() ([]power.Source, error) {
	p.Calls++
	if p.Err != nil {
		return nil, p.Err
	}
	return p.List, nil
}

// Attribute names accepted in Source.Absent.
const (
	AttrCharge      = "charge"
	AttrVendor      = "vendor"
	AttrRate        = "rate"
	AttrEnergy      = "energy"
	AttrTimeToEmpty = "time_to_empty"
	AttrTimeToFull  = "time_to_full"
	AttrTemperature = "temperature"
	AttrVoltage     = "voltage"
	AttrCycles      = "cycles"
	AttrModel       = "model"
	AttrSerial      = "serial"
	AttrHealth      = "health"
)

// Source is a fixed reading. Attributes listed in Absent are reported as
// unknown regardless of their field value.
type Source struct {
	ID        string
	Charge    float64
	Make      string
	Rate      float64
	EnergyWh  float64
	Empty     time.Duration
	Full      time.Duration
	Celsius   float64
	Volts     float64
	Cycles    uint32
	ModelName string
	Serial    string
	Status    power.State
	Health    float64
	Chemistry power.Technology
	Absent    []string
}

func (s *Source) known(attr string) bool {
	for _, a := range s.Absent {
		if a == attr {
			return false
		}
	}
	return true
}

func (s *Source) Name() string                         { return s.ID }
func (s *Source) StateOfCharge() (float64, bool)       { return s.Charge, s.known(AttrCharge) }
func (s *Source) Vendor() (string, bool)               { return s.Make, s.known(AttrVendor) }
func (s *Source) EnergyRate() (float64, bool)          { return s.Rate, s.known(AttrRate) }
func (s *Source) Energy() (float64, bool)              { return s.EnergyWh, s.known(AttrEnergy) }
func (s *Source) TimeToEmpty() (time.Duration, bool)   { return s.Empty, s.known(AttrTimeToEmpty) }
func (s *Source) TimeToFull() (time.Duration, bool)    { return s.Full, s.known(AttrTimeToFull) }
func (s *Source) Temperature() (float64, bool)         { return s.Celsius, s.known(AttrTemperature) }
func (s *Source) Voltage() (float64, bool)             { return s.Volts, s.known(AttrVoltage) }
func (s *Source) CycleCount() (uint32, bool)           { return s.Cycles, s.known(AttrCycles) }
func (s *Source) Model() (string, bool)                { return s.ModelName, s.known(AttrModel) }
func (s *Source) SerialNumber() (string, bool)         { return s.Serial, s.known(AttrSerial) }
func (s *Source) State() power.State                   { return s.Status }
func (s *Source) StateOfHealth() (float64, bool)       { return s.Health, s.known(AttrHealth) }
func (s *Source) Technology() power.Technology         { return s.Chemistry }

// Sequence yields one Source per call, repeating the last one when
// exhausted. Useful to drive several ticks with changing readings.
type Sequence struct {
	Steps []*Source
	next  int
}

func (q *Sequence) Sources() ([]power.Source, error) {
	if len(q.Steps) == 0 {
		return nil, nil
	}
	i := q.next
	if i >= len(q.Steps) {
		i = len(q.Steps) - 1
	} else {
		q.next++
	}
	return []power.Source{q.Steps[i]}, nil
}
