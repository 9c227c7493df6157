package power

import (
	"fmt"
	"math"
	"time"

	"github.com/distatus/battery"
	"github.com/sirupsen/logrus"
)

// SystemProvider queries the operating system through distatus/battery.
// It only knows charge, energy, rate, voltage and state; the remaining
// attributes are reported as absent.
type SystemProvider struct {
	getAll func() ([]*battery.Battery, error)
}

func NewSystemProvider() *SystemProvider {
	return &SystemProvider{getAll: battery.GetAll}
}

func (p *SystemProvider) Sources() ([]Source, error) {
	bats, err := p.getAll()
	if err != nil {
		// Errors is returned when only some batteries (or some of their
		// fields) could not be read; whatever decoded is still usable.
		errs, partial := err.(battery.Errors)
		if !partial {
			return nil, &ProviderError{Err: err}
		}
		logrus.Debugf("partial battery enumeration: %v", errs)
	}

	var sources []Source
	for i, b := range bats {
		if b == nil {
			continue
		}
		sources = append(sources, &systemSource{name: fmt.Sprintf("BAT%d", i), b: b})
	}
	return sources, nil
}

type systemSource struct {
	name string
	b    *battery.Battery
}

func (s *systemSource) Name() string { return s.name }

func (s *systemSource) StateOfCharge() (float64, bool) {
	if s.b.Full <= 0 {
		return 0, false
	}
	return s.b.Current / s.b.Full, true
}

func (s *systemSource) Vendor() (string, bool) { return "", false }

// EnergyRate converts mW to W.
func (s *systemSource) EnergyRate() (float64, bool) {
	return math.Abs(s.b.ChargeRate) / 1000, true
}

// Energy converts mWh to Wh.
func (s *systemSource) Energy() (float64, bool) {
	return s.b.Current / 1000, true
}

func (s *systemSource) TimeToEmpty() (time.Duration, bool) {
	rate := math.Abs(s.b.ChargeRate)
	if s.b.State != battery.Discharging || rate == 0 {
		return 0, false
	}
	return hours(s.b.Current / rate), true
}

func (s *systemSource) TimeToFull() (time.Duration, bool) {
	rate := math.Abs(s.b.ChargeRate)
	if s.b.State != battery.Charging || rate == 0 || s.b.Full <= s.b.Current {
		return 0, false
	}
	return hours((s.b.Full - s.b.Current) / rate), true
}

func (s *systemSource) Temperature() (float64, bool) { return 0, false }

func (s *systemSource) Voltage() (float64, bool) {
	if s.b.Voltage <= 0 {
		return 0, false
	}
	return s.b.Voltage, true
}

func (s *systemSource) CycleCount() (uint32, bool) { return 0, false }

func (s *systemSource) Model() (string, bool) { return "", false }

func (s *systemSource) SerialNumber() (string, bool) { return "", false }

func (s *systemSource) State() State {
	switch s.b.State {
	case battery.Charging:
		return StateCharging
	case battery.Discharging:
		return StateDischarging
	case battery.Full:
		return StateFull
	case battery.Empty:
		return StateEmpty
	default:
		return StateUnknown
	}
}

func (s *systemSource) StateOfHealth() (float64, bool) {
	if s.b.Design <= 0 {
		return 0, false
	}
	return s.b.Full / s.b.Design, true
}

func (s *systemSource) Technology() Technology { return TechnologyUnknown }

func hours(h float64) time.Duration {
	return time.Duration(h * float64(time.Hour))
}
