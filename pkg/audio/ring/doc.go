// ABOUTME: SPSC ring buffer package for real-time audio
// ABOUTME: Provides the lock-free channel between capture and render threads
// Package ring provides a fixed-capacity, lock-free, single-producer
// single-consumer queue of normalized audio samples.
//
// One Ring carries one logical audio channel. The capture callback is the
// sole producer and the render callback the sole consumer; no mutex,
// condition variable, or blocking queue sits between them. When the ring is
// full TryPush fails and the sample is dropped (overrun); when it is empty
// TryPop fails and the caller substitutes silence (underrun). This bounded,
// non-blocking discipline keeps a stall on either device thread from ever
// propagating to the other.
//
// Example:
//
//	r := ring.New(2048)
//	r.TryPush(0.25)
//	s, ok := r.TryPop() // 0.25, true
package ring
