package power

import (
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// SysfsProvider reads batteries from the Linux power_supply class.
// Values are exported in micro-units (µWh, µAh, µW, µA, µV), temperature
// in tenths of a degree and time estimates in seconds.
type SysfsProvider struct {
	root string
}

func NewSysfsProvider(root string) *SysfsProvider {
	return &SysfsProvider{root: root}
}

// Sources returns every supply whose type is Battery, sorted by name.
func (p *SysfsProvider) Sources() ([]Source, error) {
	matches, err := filepath.Glob(filepath.Join(p.root, "*", "type"))
	if err != nil {
		return nil, &ProviderError{Err: err}
	}
	if len(matches) == 0 {
		if _, err := os.Stat(p.root); err != nil {
			return nil, &ProviderError{Err: errors.Wrap(err, "cannot read power_supply class")}
		}
	}
	sort.Strings(matches)

	var sources []Source
	for _, typePath := range matches {
		dir := filepath.Dir(typePath)
		if t, ok := readString(dir, "type"); !ok || t != "Battery" {
			continue
		}
		// present=0 marks an empty bay on some laptops.
		if present, ok := readInt(dir, "present"); ok && present == 0 {
			continue
		}
		sources = append(sources, &sysfsSource{dir: dir})
	}
	return sources, nil
}

type sysfsSource struct {
	dir string
}

func (s *sysfsSource) Name() string { return filepath.Base(s.dir) }

func (s *sysfsSource) StateOfCharge() (float64, bool) {
	if now, full, ok := s.pair("energy_now", "energy_full"); ok {
		return now / full, true
	}
	if now, full, ok := s.pair("charge_now", "charge_full"); ok {
		return now / full, true
	}
	if pct, ok := readInt(s.dir, "capacity"); ok {
		return float64(pct) / 100, true
	}
	return 0, false
}

func (s *sysfsSource) Vendor() (string, bool) { return readString(s.dir, "manufacturer") }

func (s *sysfsSource) Model() (string, bool) { return readString(s.dir, "model_name") }

func (s *sysfsSource) SerialNumber() (string, bool) { return readString(s.dir, "serial_number") }

func (s *sysfsSource) EnergyRate() (float64, bool) {
	if uw, ok := readInt(s.dir, "power_now"); ok {
		return math.Abs(float64(uw)) / 1e6, true
	}
	ua, okA := readInt(s.dir, "current_now")
	uv, okV := readInt(s.dir, "voltage_now")
	if okA && okV {
		return math.Abs(float64(ua)) * float64(uv) / 1e12, true
	}
	return 0, false
}

func (s *sysfsSource) Energy() (float64, bool) {
	if uwh, ok := readInt(s.dir, "energy_now"); ok {
		return float64(uwh) / 1e6, true
	}
	uah, okC := readInt(s.dir, "charge_now")
	uv, okV := readInt(s.dir, "voltage_now")
	if okC && okV {
		return float64(uah) * float64(uv) / 1e12, true
	}
	return 0, false
}

func (s *sysfsSource) TimeToEmpty() (time.Duration, bool) {
	if secs, ok := readInt(s.dir, "time_to_empty_now"); ok {
		return time.Duration(secs) * time.Second, true
	}
	if s.State() != StateDischarging {
		return 0, false
	}
	energy, okE := s.Energy()
	rate, okR := s.EnergyRate()
	if !okE || !okR || rate == 0 {
		return 0, false
	}
	return hours(energy / rate), true
}

func (s *sysfsSource) TimeToFull() (time.Duration, bool) {
	if secs, ok := readInt(s.dir, "time_to_full_now"); ok {
		return time.Duration(secs) * time.Second, true
	}
	if s.State() != StateCharging {
		return 0, false
	}
	if now, full, ok := s.pair("energy_now", "energy_full"); ok {
		rate, okR := s.EnergyRate()
		if !okR || rate == 0 || full <= now {
			return 0, false
		}
		return hours((full - now) / 1e6 / rate), true
	}
	// µAh over µA needs no voltage.
	now, full, ok := s.pair("charge_now", "charge_full")
	ua, okA := readInt(s.dir, "current_now")
	if !ok || !okA || ua == 0 || full <= now {
		return 0, false
	}
	return hours((full - now) / math.Abs(float64(ua))), true
}

func (s *sysfsSource) Temperature() (float64, bool) {
	if t, ok := readInt(s.dir, "temp"); ok {
		return float64(t) / 10, true
	}
	return 0, false
}

func (s *sysfsSource) Voltage() (float64, bool) {
	if uv, ok := readInt(s.dir, "voltage_now"); ok {
		return float64(uv) / 1e6, true
	}
	return 0, false
}

func (s *sysfsSource) CycleCount() (uint32, bool) {
	n, ok := readInt(s.dir, "cycle_count")
	if !ok || n < 0 {
		return 0, false
	}
	return uint32(n), true
}

func (s *sysfsSource) State() State {
	status, _ := readString(s.dir, "status")
	return ParseState(status)
}

func (s *sysfsSource) StateOfHealth() (float64, bool) {
	if full, design, ok := s.pair("energy_full", "energy_full_design"); ok {
		return full / design, true
	}
	if full, design, ok := s.pair("charge_full", "charge_full_design"); ok {
		return full / design, true
	}
	return 0, false
}

func (s *sysfsSource) Technology() Technology {
	t, _ := readString(s.dir, "technology")
	return ParseTechnology(t)
}

// pair reads two attributes and reports ok only when the divisor is positive.
func (s *sysfsSource) pair(num, den string) (float64, float64, bool) {
	n, okN := readInt(s.dir, num)
	d, okD := readInt(s.dir, den)
	if !okN || !okD || d <= 0 {
		return 0, 0, false
	}
	return float64(n), float64(d), true
}

func readString(dir, name string) (string, bool) {
	b, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return "", false
	}
	v := strings.TrimSpace(string(b))
	return v, v != ""
}

func readInt(dir, name string) (int64, bool) {
	v, ok := readString(dir, name)
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
