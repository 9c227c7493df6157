// Package power reads the host's power sources and normalizes one of them
// into a Snapshot. Two providers are available: the cross-platform
// distatus/battery backend and a Linux sysfs reader that also exposes
// vendor, serial, cycle and temperature attributes.
package power

import (
	"strings"
	"time"

	"github.com/pkg/errors"
)

var (
	// ErrNoSources is returned when enumeration succeeds but yields nothing.
	ErrNoSources = errors.New("no power sources found")
	// ErrProviderUnavailable matches every ProviderError.
	ErrProviderUnavailable = errors.New("power source provider unavailable")
)

// ProviderError wraps the reason a provider could not enumerate sources.
type ProviderError struct {
	Err error
}

func (e *ProviderError) Error() string {
	return ErrProviderUnavailable.Error() + ": " + e.Err.Error()
}

func (e *ProviderError) Unwrap() error { return e.Err }

func (e *ProviderError) Is(target error) bool { return target == ErrProviderUnavailable }

// IsFatal reports whether err means no power source can be sampled at all.
func IsFatal(err error) bool {
	return errors.Is(err, ErrNoSources) || errors.Is(err, ErrProviderUnavailable)
}

// Provider enumerates the power sources of the host.
type Provider interface {
	Sources() ([]Source, error)
}

// Source is one power source handle. Every accessor reports false when the
// underlying provider does not know the attribute.
type Source interface {
	Name() string
	StateOfCharge() (float64, bool)
	Vendor() (string, bool)
	EnergyRate() (float64, bool)
	Energy() (float64, bool)
	TimeToEmpty() (time.Duration, bool)
	TimeToFull() (time.Duration, bool)
	Temperature() (float64, bool)
	Voltage() (float64, bool)
	CycleCount() (uint32, bool)
	Model() (string, bool)
	SerialNumber() (string, bool)
	State() State
	StateOfHealth() (float64, bool)
	Technology() Technology
}

// State is the charge state of a power source.
type State int

const (
	StateUnknown State = iota
	StateCharging
	StateDischarging
	StateEmpty
	StateFull
)

func (s State) String() string {
	switch s {
	case StateCharging:
		return "charging"
	case StateDischarging:
		return "discharging"
	case StateEmpty:
		return "empty"
	case StateFull:
		return "full"
	default:
		return "unknown"
	}
}

// ParseState maps a sysfs status string to a State.
func ParseState(s string) State {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "charging":
		return StateCharging
	case "discharging":
		return StateDischarging
	case "empty":
		return StateEmpty
	case "full":
		return StateFull
	default:
		return StateUnknown
	}
}

// Technology is the battery chemistry.
type Technology int

const (
	TechnologyUnknown Technology = iota
	TechnologyLithiumIon
	TechnologyLeadAcid
	TechnologyLithiumPolymer
	TechnologyNickelMetalHydride
	TechnologyNickelCadmium
	TechnologyNickelZinc
	TechnologyLithiumIronPhosphate
	TechnologyRechargeableAlkalineManganese
)

var technologyNames = map[Technology]string{
	TechnologyUnknown:                       "unknown",
	TechnologyLithiumIon:                    "lithium-ion",
	TechnologyLeadAcid:                      "lead-acid",
	TechnologyLithiumPolymer:                "lithium-polymer",
	TechnologyNickelMetalHydride:            "nickel-metal-hydride",
	TechnologyNickelCadmium:                 "nickel-cadmium",
	TechnologyNickelZinc:                    "nickel-zinc",
	TechnologyLithiumIronPhosphate:          "lithium-iron-phosphate",
	TechnologyRechargeableAlkalineManganese: "rechargeable-alkaline-manganese",
}

func (t Technology) String() string {
	if name, ok := technologyNames[t]; ok {
		return name
	}
	return technologyNames[TechnologyUnknown]
}

// technologyAliases maps the spellings used by kernels and firmware.
var technologyAliases = map[string]Technology{
	"li-ion":   TechnologyLithiumIon,
	"lion":     TechnologyLithiumIon,
	"pb":       TechnologyLeadAcid,
	"pbac":     TechnologyLeadAcid,
	"li-poly":  TechnologyLithiumPolymer,
	"lip":      TechnologyLithiumPolymer,
	"lipo":     TechnologyLithiumPolymer,
	"nimh":     TechnologyNickelMetalHydride,
	"nicd":     TechnologyNickelCadmium,
	"nizn":     TechnologyNickelZinc,
	"life":     TechnologyLithiumIronPhosphate,
	"lifepo4":  TechnologyLithiumIronPhosphate,
	"ram":      TechnologyRechargeableAlkalineManganese,
	"alkaline": TechnologyRechargeableAlkalineManganese,
}

// ParseTechnology maps a chemistry name to a Technology.
func ParseTechnology(s string) Technology {
	key := strings.ToLower(strings.TrimSpace(s))
	if t, ok := technologyAliases[key]; ok {
		return t
	}
	for t, name := range technologyNames {
		if name == key {
			return t
		}
	}
	return TechnologyUnknown
}
