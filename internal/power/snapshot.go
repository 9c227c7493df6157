package power

import (
	"math"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// UnknownSerial is shown when the provider does not report a serial number.
const UnknownSerial = "Unknown"

// Snapshot is one normalized reading of a power source. Unknown
// attributes hold their documented defaults, never a missing marker,
// except Temperature which is only meaningful when HasTemperature is set.
type Snapshot struct {
	Source         string
	Charge         float64 // ratio in [0,1]
	Vendor         string
	Model          string
	SerialNumber   string
	Power          float64 // W, magnitude
	Energy         float64 // Wh
	TimeToEmpty    time.Duration
	TimeToFull     time.Duration
	Temperature    float64 // °C
	HasTemperature bool
	Voltage        float64 // V
	CycleCount     uint32
	State          State
	Health         float64 // ratio in [0,1]
	Technology     Technology
}

// SignedPower returns the power with its flow direction: negative while
// energy flows into storage, positive otherwise.
func (s Snapshot) SignedPower() float64 {
	if s.State == StateCharging {
		return -s.Power
	}
	return s.Power
}

// Read samples the first source enumerated by p. Enumeration failure and
// an empty enumeration are fatal, see IsFatal.
func Read(p Provider) (Snapshot, error) {
	sources, err := p.Sources()
	if err != nil {
		var perr *ProviderError
		if errors.As(err, &perr) {
			return Snapshot{}, err
		}
		return Snapshot{}, &ProviderError{Err: err}
	}
	if len(sources) == 0 {
		return Snapshot{}, ErrNoSources
	}
	return Normalize(sources[0]), nil
}

// Normalize converts src into a Snapshot, substituting defaults for every
// attribute the provider does not know.
func Normalize(src Source) Snapshot {
	log := logrus.WithField("source", src.Name())
	missing := func(attr string) {
		log.Debugf("%s not reported, using default", attr)
	}

	snap := Snapshot{
		Source:     src.Name(),
		State:      src.State(),
		Technology: src.Technology(),
	}

	if v, ok := src.StateOfCharge(); ok {
		snap.Charge = ratio(v)
	} else {
		missing("state of charge")
	}
	if v, ok := src.Vendor(); ok {
		snap.Vendor = v
	} else {
		missing("vendor")
	}
	if v, ok := src.Model(); ok {
		snap.Model = v
	} else {
		missing("model")
	}
	snap.SerialNumber = UnknownSerial
	if v, ok := src.SerialNumber(); ok && v != "" {
		snap.SerialNumber = v
	} else {
		missing("serial number")
	}
	if v, ok := src.EnergyRate(); ok {
		snap.Power = nonNegative(math.Abs(v))
	} else {
		missing("energy rate")
	}
	if v, ok := src.Energy(); ok {
		snap.Energy = nonNegative(v)
	} else {
		missing("energy")
	}
	if v, ok := src.TimeToEmpty(); ok && v > 0 {
		snap.TimeToEmpty = v
	} else {
		missing("time to empty")
	}
	if v, ok := src.TimeToFull(); ok && v > 0 {
		snap.TimeToFull = v
	} else {
		missing("time to full")
	}
	if v, ok := src.Temperature(); ok && !math.IsNaN(v) {
		snap.Temperature = v
		snap.HasTemperature = true
	} else {
		missing("temperature")
	}
	if v, ok := src.Voltage(); ok {
		snap.Voltage = v
	} else {
		missing("voltage")
	}
	if v, ok := src.CycleCount(); ok {
		snap.CycleCount = v
	} else {
		missing("cycle count")
	}
	if v, ok := src.StateOfHealth(); ok {
		snap.Health = ratio(v)
	} else {
		missing("state of health")
	}

	return snap
}

func ratio(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func nonNegative(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
