package trail

import "github.com/iburimskiy/phasescope/internal/phase"

// Buffer keeps the most recent points in a fixed-capacity ring.
// Points are visited oldest to newest so newer dots draw on top.
type Buffer struct {
	points   []phase.Point
	start    int // index of the oldest point
	length   int
	capacity int
}

// New returns an empty buffer holding at most capacity points.
// A capacity below 1 is clamped to 1.
func New(capacity int) *Buffer {
	capacity = clampCapacity(capacity)
	return &Buffer{
		points:   make([]phase.Point, capacity),
		capacity: capacity,
	}
}

func clampCapacity(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

func (b *Buffer) Len() int { return b.length }
func (b *Buffer) Cap() int { return b.capacity }

// Append inserts p at the newest end, evicting the oldest point when full.
func (b *Buffer) Append(p phase.Point) {
	if b.length < b.capacity {
		b.points[(b.start+b.length)%b.capacity] = p
		b.length++
		return
	}
	b.points[b.start] = p
	b.start++
	if b.start >= b.capacity {
		b.start = 0
	}
}

// AppendAll appends ps in order.
func (b *Buffer) AppendAll(ps []phase.Point) {
	for _, p := range ps {
		b.Append(p)
	}
}

// SetCapacity changes the capacity. Shrinking evicts the oldest points
// immediately; growing keeps everything and allows future growth.
// It returns the number of evicted points.
func (b *Buffer) SetCapacity(n int) int {
	n = clampCapacity(n)
	if n == b.capacity {
		return 0
	}

	evicted := 0
	if b.length > n {
		evicted = b.length - n
	}

	kept := make([]phase.Point, n)
	for i := 0; i < b.length-evicted; i++ {
		kept[i] = b.points[(b.start+evicted+i)%b.capacity]
	}

	b.points = kept
	b.start = 0
	b.length -= evicted
	b.capacity = n
	return evicted
}

// Each calls fn for every point from oldest to newest.
func (b *Buffer) Each(fn func(i int, p phase.Point)) {
	for i := 0; i < b.length; i++ {
		fn(i, b.points[(b.start+i)%b.capacity])
	}
}

// Points returns a copy of the contents in chronological order.
func (b *Buffer) Points() []phase.Point {
	out := make([]phase.Point, 0, b.length)
	b.Each(func(_ int, p phase.Point) {
		out = append(out, p)
	})
	return out
}
