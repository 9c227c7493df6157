// Package history provides the fixed-capacity power history used by the
// chart, with extrema recomputed after every push.
package history

import "fmt"

// GridPoint is one chart coordinate.
type GridPoint struct {
	X float64
	Y float64
}

// Buffer stores the most recent signed power values, oldest first.
type Buffer struct {
	values   []float64
	capacity int
	max      float64
	min      float64
}

// NewBuffer creates an empty buffer. Capacity must be at least one;
// config.New rejects anything smaller.
func NewBuffer(capacity int) *Buffer {
	if capacity < 1 {
		panic(fmt.Sprintf("history: capacity must be positive, got %d", capacity))
	}
	return &Buffer{
		values:   make([]float64, 0, capacity),
		capacity: capacity,
	}
}

// Push appends v, evicting the oldest value once the buffer is full.
func (b *Buffer) Push(v float64) {
	if len(b.values) >= b.capacity {
		copy(b.values, b.values[1:])
		b.values[len(b.values)-1] = v
	} else {
		b.values = append(b.values, v)
	}
	b.recompute()
}

// recompute rescans the contents for max and min. Comparisons involving
// NaN count as equal: for max the newer value wins, for min the older one
// is kept.
func (b *Buffer) recompute() {
	if len(b.values) == 0 {
		b.max, b.min = 0, 0
		return
	}
	hi, lo := b.values[0], b.values[0]
	for _, v := range b.values[1:] {
		if !(hi > v) {
			hi = v
		}
		if lo > v {
			lo = v
		}
	}
	b.max, b.min = hi, lo
}

func (b *Buffer) Len() int { return len(b.values) }

func (b *Buffer) Cap() int { return b.capacity }

// Max returns the largest retained value, or 0 when empty.
func (b *Buffer) Max() float64 { return b.max }

// Min returns the smallest retained value, or 0 when empty.
func (b *Buffer) Min() float64 { return b.min }

// Values returns a copy of the contents, oldest first.
func (b *Buffer) Values() []float64 {
	out := make([]float64, len(b.values))
	copy(out, b.values)
	return out
}

// First returns the oldest retained value, or 0 if empty.
func (b *Buffer) First() float64 {
	if len(b.values) == 0 {
		return 0
	}
	return b.values[0]
}

// Last returns the most recent value, or 0 if empty.
func (b *Buffer) Last() float64 {
	if len(b.values) == 0 {
		return 0
	}
	return b.values[len(b.values)-1]
}

// Avg returns the mean of the retained values, or 0 if empty.
func (b *Buffer) Avg() float64 {
	if len(b.values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range b.values {
		sum += v
	}
	return sum / float64(len(b.values))
}

// LastN returns the last n values (for sparkline rendering).
func (b *Buffer) LastN(n int) []float64 {
	if n <= 0 || len(b.values) == 0 {
		return nil
	}
	start := len(b.values) - n
	if start < 0 {
		start = 0
	}
	out := make([]float64, len(b.values[start:]))
	copy(out, b.values[start:])
	return out
}

// Grid projects the contents onto chart coordinates, newest first. The
// k-th most recent value lands at x = capacity-1-k so the newest sample is
// always the rightmost point and older ones scroll left.
func (b *Buffer) Grid() []GridPoint {
	upper := b.capacity - 1
	out := make([]GridPoint, 0, len(b.values))
	for k := 0; k < len(b.values); k++ {
		y := b.values[len(b.values)-1-k]
		out = append(out, GridPoint{X: float64(upper - k), Y: y})
	}
	return out
}
