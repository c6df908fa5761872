// ABOUTME: Lock-free single-producer single-consumer sample queue
// ABOUTME: Fixed-capacity ring carrying normalized samples between callbacks
package ring

import "sync/atomic"

// Ring is a fixed-capacity lock-free queue of normalized float32 samples.
//
// Exactly one thread may call TryPush (the capture side) and exactly one may
// call TryPop (the render side). The write cursor is advanced only by the
// producer and the read cursor only by the consumer; the atomic loads and
// stores on those two cursors are the only synchronization between them.
//
// Both operations return in bounded time regardless of what the other side
// is doing. A stalled consumer makes TryPush fail; a stalled producer makes
// TryPop fail; neither ever blocks, locks, or allocates.
type Ring struct {
	buf   []float32
	write atomic.Uint64 // total samples pushed, producer-owned
	read  atomic.Uint64 // total samples popped, consumer-owned
}

// New creates a ring holding up to capacity samples. The capacity is fixed
// for the life of the ring; a capacity of at least twice the expected
// per-callback frame count absorbs cadence jitter between the two sides.
func New(capacity int) *Ring {
	if capacity <= 0 {
		panic("ring: capacity must be positive")
	}
	return &Ring{buf: make([]float32, capacity)}
}

// Cap returns the fixed capacity in samples
func (r *Ring) Cap() int {
	return len(r.buf)
}

// Len returns the number of buffered samples. The value is exact when only
// one side is active and a point-in-time snapshot otherwise.
func (r *Ring) Len() int {
	return int(r.write.Load() - r.read.Load())
}

// TryPush appends one sample. It returns false without storing anything when
// the ring is full; the caller decides what to do with the dropped sample.
// Producer side only.
func (r *Ring) TryPush(s float32) bool {
	w := r.write.Load()
	if w-r.read.Load() == uint64(len(r.buf)) {
		return false
	}
	r.buf[w%uint64(len(r.buf))] = s
	r.write.Store(w + 1)
	return true
}

// TryPop removes and returns the oldest sample. It returns (0, false)
// without waiting when the ring is empty; the caller substitutes silence.
// Consumer side only.
func (r *Ring) TryPop() (float32, bool) {
	rd := r.read.Load()
	if rd == r.write.Load() {
		return 0, false
	}
	s := r.buf[rd%uint64(len(r.buf))]
	r.read.Store(rd + 1)
	return s, true
}
