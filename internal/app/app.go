// Package app owns the dashboard state: configuration, the latest power
// snapshot and the power history.
package app

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/luki/battop/internal/config"
	"github.com/luki/battop/internal/history"
	"github.com/luki/battop/internal/power"
)

// State is mutated only through Update. Renderers read it.
type State struct {
	config   *config.Config
	snapshot power.Snapshot
	history  *history.Buffer
	samples  uint64
}

func New(cfg *config.Config) *State {
	return &State{
		config:  cfg,
		history: history.NewBuffer(cfg.BufCapacity()),
	}
}

// Update samples p, replaces the snapshot and pushes the signed power into
// the history. On error nothing is modified.
func (s *State) Update(p power.Provider) error {
	snap, err := power.Read(p)
	if err != nil {
		return errors.Wrap(err, "failed to sample power source")
	}

	s.snapshot = snap
	signed := snap.SignedPower()
	s.history.Push(signed)
	s.samples++

	logrus.WithFields(logrus.Fields{
		"source": snap.Source,
		"state":  snap.State,
		"charge": snap.Charge,
		"power":  signed,
	}).Trace("sampled power source")
	return nil
}

func (s *State) Config() *config.Config { return s.config }

func (s *State) Snapshot() power.Snapshot { return s.snapshot }

// History is shared with renderers; they must not push into it.
func (s *State) History() *history.Buffer { return s.history }

// Samples counts successful updates.
func (s *State) Samples() uint64 { return s.samples }

// Grid is the chart projection of the history.
func (s *State) Grid() []history.GridPoint { return s.history.Grid() }

// YBounds returns the chart's vertical range: the clearance is added above
// the maximum, and below the minimum only when the history dips to or
// below zero; otherwise the axis starts at zero.
func (s *State) YBounds() (lower, upper float64) {
	clearance := s.config.GraphClearance()
	upper = s.history.Max() + clearance
	if s.history.Min() > 0 {
		lower = 0
	} else {
		lower = s.history.Min() - clearance
	}
	return lower, upper
}
