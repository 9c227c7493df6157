package loop

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

// poll is one scripted input wait: it consumes `after` of the offered
// timeout (or the whole timeout when after < 0) and optionally returns a key.
type poll struct {
	after time.Duration
	key   string
	err   error
}

type scriptedInput struct {
	clock    *fakeClock
	script   []poll
	timeouts []time.Duration
}

func (in *scriptedInput) Poll(_ context.Context, timeout time.Duration) (string, bool, error) {
	in.timeouts = append(in.timeouts, timeout)
	if len(in.script) == 0 {
		in.clock.Advance(timeout)
		return QuitKey, true, nil
	}
	p := in.script[0]
	in.script = in.script[1:]
	if p.after < 0 || p.after > timeout {
		in.clock.Advance(timeout)
	} else {
		in.clock.Advance(p.after)
	}
	if p.err != nil {
		return "", false, p.err
	}
	return p.key, p.key != "", nil
}

type countingRenderer struct {
	calls int
	err   error
}

func (r *countingRenderer) Render() error {
	r.calls++
	return r.err
}

func TestRemainingNeverNegative(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	s := NewScheduler(time.Second, clock.Now)

	assert.Equal(t, time.Second, s.Remaining())
	assert.False(t, s.Due())

	clock.Advance(300 * time.Millisecond)
	assert.Equal(t, 700*time.Millisecond, s.Remaining())

	clock.Advance(700 * time.Millisecond)
	assert.Zero(t, s.Remaining())
	assert.True(t, s.Due())

	clock.Advance(5 * time.Second)
	assert.Zero(t, s.Remaining())
	assert.True(t, s.Due())

	s.Reset()
	assert.Equal(t, time.Second, s.Remaining())
}

func TestRunQuitSkipsPendingSample(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	s := NewScheduler(1000*time.Millisecond, clock.Now)
	in := &scriptedInput{clock: clock, script: []poll{{after: 200 * time.Millisecond, key: QuitKey}}}
	r := &countingRenderer{}
	samples := 0

	err := Run(context.Background(), s, r, in, func() error {
		samples++
		return nil
	})

	require.NoError(t, err)
	assert.Zero(t, samples)
	assert.Equal(t, 1, r.calls)
	assert.Equal(t, Cancelled, s.Phase())
	assert.Equal(t, []time.Duration{time.Second}, in.timeouts)
}

func TestRunSamplesOnTimeout(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	s := NewScheduler(time.Second, clock.Now)
	in := &scriptedInput{clock: clock, script: []poll{
		{after: -1},
		{after: 400 * time.Millisecond, key: "x"},
		{after: -1},
		{after: 100 * time.Millisecond, key: QuitKey},
	}}
	r := &countingRenderer{}
	var sampledAt []time.Time

	err := Run(context.Background(), s, r, in, func() error {
		sampledAt = append(sampledAt, clock.Now())
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []time.Time{time.Unix(1, 0), time.Unix(2, 0)}, sampledAt)
	assert.Equal(t, 4, r.calls)
	// A non-quit key shortens the wait but does not trigger a sample.
	assert.Equal(t, []time.Duration{
		time.Second, time.Second, 600 * time.Millisecond, time.Second,
	}, in.timeouts)
}

func TestRunDriftsBySampleDuration(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	s := NewScheduler(time.Second, clock.Now)
	in := &scriptedInput{clock: clock, script: []poll{{after: -1}, {after: -1}}}

	err := Run(context.Background(), s, &countingRenderer{}, in, func() error {
		clock.Advance(250 * time.Millisecond)
		return nil
	})

	require.NoError(t, err)
	// The slow sample delays every later tick; nothing catches up.
	assert.Equal(t, time.Unix(3, 500*int64(time.Millisecond)), clock.Now())
}

func TestRunRenderError(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	boom := errors.New("terminal gone")

	err := Run(context.Background(), NewScheduler(time.Second, clock.Now),
		&countingRenderer{err: boom}, &scriptedInput{clock: clock}, func() error { return nil })

	assert.ErrorIs(t, err, boom)
}

func TestRunInputError(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	boom := errors.New("stdin closed badly")
	in := &scriptedInput{clock: clock, script: []poll{{after: 10 * time.Millisecond, err: boom}}}
	samples := 0

	err := Run(context.Background(), NewScheduler(time.Second, clock.Now), &countingRenderer{}, in,
		func() error { samples++; return nil })

	assert.ErrorIs(t, err, boom)
	assert.Zero(t, samples)
}

func TestRunSampleErrorStops(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	fatal := errors.New("no power sources found")
	in := &scriptedInput{clock: clock, script: []poll{{after: -1}, {after: -1}}}
	r := &countingRenderer{}

	err := Run(context.Background(), NewScheduler(time.Second, clock.Now), r, in, func() error { return fatal })

	assert.ErrorIs(t, err, fatal)
	assert.Equal(t, 1, r.calls)
}

func TestRunContextCancelled(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	in := &scriptedInput{clock: clock, script: []poll{{after: -1}}}
	s := NewScheduler(time.Second, clock.Now)
	samples := 0

	err := Run(ctx, s, &countingRenderer{}, in, func() error { samples++; return nil })

	require.NoError(t, err)
	assert.Zero(t, samples)
	assert.True(t, s.Cancelled())
}
