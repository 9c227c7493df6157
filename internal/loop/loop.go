// Package loop drives the render, wait-for-input, sample cycle on a single
// goroutine.
package loop

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// QuitKey is the only key the loop reacts to.
const QuitKey = "q"

// Phase is the scheduler state.
type Phase int

const (
	Running Phase = iota
	Cancelled
)

func (p Phase) String() string {
	if p == Cancelled {
		return "cancelled"
	}
	return "running"
}

// Scheduler decides when the next sample is due. The reference point is
// reset to the current instant after each sample, so the cadence drifts
// by however long rendering and sampling took.
type Scheduler struct {
	interval time.Duration
	now      func() time.Time
	lastTick time.Time
	phase    Phase
}

// NewScheduler starts the first interval at now(). A nil now uses time.Now.
func NewScheduler(interval time.Duration, now func() time.Time) *Scheduler {
	if now == nil {
		now = time.Now
	}
	return &Scheduler{interval: interval, now: now, lastTick: now()}
}

func (s *Scheduler) Interval() time.Duration { return s.interval }

// Remaining is how long to wait for input before the next sample; never negative.
func (s *Scheduler) Remaining() time.Duration {
	left := s.interval - s.now().Sub(s.lastTick)
	if left < 0 {
		return 0
	}
	return left
}

// Due reports whether a full interval has elapsed since the last tick.
func (s *Scheduler) Due() bool {
	return s.now().Sub(s.lastTick) >= s.interval
}

// Reset moves the reference point to now.
func (s *Scheduler) Reset() {
	s.lastTick = s.now()
}

func (s *Scheduler) Cancel() { s.phase = Cancelled }

func (s *Scheduler) Phase() Phase { return s.phase }

func (s *Scheduler) Cancelled() bool { return s.phase == Cancelled }

// Renderer draws the current state.
type Renderer interface {
	Render() error
}

// Input waits up to timeout for a key press. ok is false when the wait
// ended without one.
type Input interface {
	Poll(ctx context.Context, timeout time.Duration) (key string, ok bool, err error)
}

// SampleFunc performs one sample and history update.
type SampleFunc func() error

// Run loops until the quit key is pressed, ctx is done, or a render,
// input or sample step fails. Quitting is only observed during the input
// wait and skips any pending sample.
func Run(ctx context.Context, s *Scheduler, r Renderer, in Input, sample SampleFunc) error {
	for !s.Cancelled() {
		if err := r.Render(); err != nil {
			return errors.Wrap(err, "failed to render")
		}

		key, ok, err := in.Poll(ctx, s.Remaining())
		if err != nil {
			return errors.Wrap(err, "failed to read input")
		}
		if ok && key == QuitKey {
			logrus.Debug("quit requested")
			s.Cancel()
			return nil
		}
		if ctx.Err() != nil {
			logrus.Debugf("loop stopped: %v", ctx.Err())
			s.Cancel()
			return nil
		}

		if s.Due() {
			if err := sample(); err != nil {
				return err
			}
			s.Reset()
		}
	}
	return nil
}
