package power

import (
	"github.com/sirupsen/logrus"

	"github.com/luki/battop/internal/config"
)

// Select returns the provider for the configured source. In auto mode the
// sysfs reader wins whenever it can see at least one battery, since it
// reports more attributes than the portable backend.
func Select(kind config.Source, sysfsRoot string) Provider {
	switch kind {
	case config.SourceSysfs:
		return NewSysfsProvider(sysfsRoot)
	case config.SourceBattery:
		return NewSystemProvider()
	}

	sysfs := NewSysfsProvider(sysfsRoot)
	if sources, err := sysfs.Sources(); err == nil && len(sources) > 0 {
		logrus.Debugf("using sysfs provider at %s", sysfsRoot)
		return sysfs
	}
	logrus.Debug("using system battery provider")
	return NewSystemProvider()
}
