package history

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistory(t *testing.T) {
	h := NewBuffer(5)

	for i := 0; i < 7; i++ {
		h.Push(float64(30 + i))
	}

	if h.Len() != 5 {
		t.Errorf("expected 5 values, got %d", h.Len())
	}

	if h.Last() != 36.0 {
		t.Errorf("Last(): got %f, want 36.0", h.Last())
	}

	if h.Min() != 32.0 {
		t.Errorf("Min: got %f, want 32.0", h.Min())
	}

	if h.Max() != 36.0 {
		t.Errorf("Max: got %f, want 36.0", h.Max())
	}

	vals := h.LastN(3)
	if len(vals) != 3 {
		t.Errorf("LastN(3): got %d values, want 3", len(vals))
	}
}

func TestPushLength(t *testing.T) {
	const capacity = 4
	for n := 0; n <= 10; n++ {
		h := NewBuffer(capacity)
		for i := 1; i <= n; i++ {
			h.Push(float64(i))
		}

		want := n
		if want > capacity {
			want = capacity
		}
		require.Equal(t, want, h.Len(), "after %d pushes", n)

		var expect []float64
		for i := n - want + 1; i <= n; i++ {
			expect = append(expect, float64(i))
		}
		assert.Equal(t, expect, nilIfEmpty(h.Values()), "after %d pushes", n)
	}
}

func nilIfEmpty(v []float64) []float64 {
	if len(v) == 0 {
		return nil
	}
	return v
}

func TestEvictionScenario(t *testing.T) {
	h := NewBuffer(3)
	for _, v := range []float64{10, 20, 30, 40} {
		h.Push(v)
	}

	assert.Equal(t, []float64{20, 30, 40}, h.Values())
	assert.Equal(t, 40.0, h.Max())
	assert.Equal(t, 20.0, h.Min())
}

func TestExtremaTrackEviction(t *testing.T) {
	h := NewBuffer(2)
	h.Push(-50)
	h.Push(1)
	h.Push(2)

	// -50 was evicted, so the minimum must follow it out.
	assert.Equal(t, 1.0, h.Min())
	assert.Equal(t, 2.0, h.Max())
}

func TestEmptyAggregates(t *testing.T) {
	h := NewBuffer(10)

	assert.Zero(t, h.Max())
	assert.Zero(t, h.Min())
	assert.Zero(t, h.Avg())
	assert.Zero(t, h.First())
	assert.Zero(t, h.Last())
	assert.Empty(t, h.Grid())
	assert.Nil(t, h.LastN(3))
}

func TestSignedExtrema(t *testing.T) {
	h := NewBuffer(10)
	for _, v := range []float64{-12.5, 3, -1, 7.25} {
		h.Push(v)
	}

	assert.Equal(t, 7.25, h.Max())
	assert.Equal(t, -12.5, h.Min())
	assert.InDelta(t, -0.8125, h.Avg(), 1e-12)
}

func TestNaNDoesNotBreakExtrema(t *testing.T) {
	h := NewBuffer(5)
	h.Push(1)
	h.Push(math.NaN())
	h.Push(3)

	assert.Equal(t, 3.0, h.Max())
	assert.Equal(t, 1.0, h.Min())
}

func TestGrid(t *testing.T) {
	h := NewBuffer(5)
	for i := 1; i <= 5; i++ {
		h.Push(float64(i))
	}

	want := []GridPoint{{4, 5}, {3, 4}, {2, 3}, {1, 2}, {0, 1}}
	assert.Equal(t, want, h.Grid())
	// Recomputed on every call.
	assert.Equal(t, want, h.Grid())
}

func TestGridSparse(t *testing.T) {
	h := NewBuffer(100)
	h.Push(7)
	h.Push(8)

	assert.Equal(t, []GridPoint{{99, 8}, {98, 7}}, h.Grid())
}

func TestGridCapacityOne(t *testing.T) {
	h := NewBuffer(1)
	h.Push(1)
	h.Push(2)

	assert.Equal(t, []GridPoint{{0, 2}}, h.Grid())
	assert.Equal(t, 2.0, h.Min())
}

func TestNewBufferRejectsZero(t *testing.T) {
	assert.Panics(t, func() { NewBuffer(0) })
}

func TestValuesIsACopy(t *testing.T) {
	h := NewBuffer(3)
	h.Push(1)
	v := h.Values()
	v[0] = 99

	assert.Equal(t, 1.0, h.First())
}
