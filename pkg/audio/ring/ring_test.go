// ABOUTME: Tests for the SPSC sample ring
// ABOUTME: Covers ordering, full/empty behavior, wraparound and concurrency
package ring

import (
	"fmt"
	"runtime"
	"testing"
)

func TestPushPopOrder(t *testing.T) {
	r := New(8)

	for _, s := range []float32{0.1, -0.2, 0.3} {
		if !r.TryPush(s) {
			t.Fatalf("TryPush(%v) failed on ring with space", s)
		}
	}

	want := []float32{0.1, -0.2, 0.3}
	for i, w := range want {
		got, ok := r.TryPop()
		if !ok {
			t.Fatalf("pop %d: ring unexpectedly empty", i)
		}
		if got != w {
			t.Errorf("pop %d = %v, want %v", i, got, w)
		}
	}

	if _, ok := r.TryPop(); ok {
		t.Error("fourth pop succeeded on drained ring")
	}
}

func TestPushFullDropsSample(t *testing.T) {
	r := New(2)

	if !r.TryPush(0.5) {
		t.Fatal("first push failed")
	}
	if !r.TryPush(0.6) {
		t.Fatal("second push failed")
	}
	if r.TryPush(0.7) {
		t.Error("third push succeeded on full ring")
	}

	if got, _ := r.TryPop(); got != 0.5 {
		t.Errorf("first pop = %v, want 0.5", got)
	}
	if got, _ := r.TryPop(); got != 0.6 {
		t.Errorf("second pop = %v, want 0.6", got)
	}
	if _, ok := r.TryPop(); ok {
		t.Error("dropped sample 0.7 was stored")
	}
}

func TestPopEmptyNeverBlocks(t *testing.T) {
	r := New(4)
	for i := 0; i < 100; i++ {
		if s, ok := r.TryPop(); ok || s != 0 {
			t.Fatalf("TryPop on empty ring = (%v, %v)", s, ok)
		}
	}
}

func TestCapAndLen(t *testing.T) {
	r := New(3)
	if r.Cap() != 3 {
		t.Errorf("Cap() = %d, want 3", r.Cap())
	}
	if r.Len() != 0 {
		t.Errorf("Len() = %d, want 0", r.Len())
	}
	r.TryPush(1)
	r.TryPush(2)
	if r.Len() != 2 {
		t.Errorf("Len() after two pushes = %d, want 2", r.Len())
	}
	r.TryPop()
	if r.Len() != 1 {
		t.Errorf("Len() after pop = %d, want 1", r.Len())
	}
}

func TestZeroCapacityPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("New(0) did not panic")
		}
	}()
	New(0)
}

// Interleaved pushes and pops across many times the capacity exercise cursor
// wraparound and check the ring invariant: buffered count stays in [0, cap].
func TestWraparoundInvariant(t *testing.T) {
	r := New(4)
	next := float32(0)
	expect := float32(0)
	buffered := 0

	for i := 0; i < 1000; i++ {
		if i%3 != 0 {
			if r.TryPush(next) {
				next++
				buffered++
			} else if buffered != r.Cap() {
				t.Fatalf("push failed with %d buffered, cap %d", buffered, r.Cap())
			}
		} else {
			if got, ok := r.TryPop(); ok {
				if got != expect {
					t.Fatalf("pop = %v, want %v", got, expect)
				}
				expect++
				buffered--
			} else if buffered != 0 {
				t.Fatalf("pop failed with %d buffered", buffered)
			}
		}
		if buffered < 0 || buffered > r.Cap() {
			t.Fatalf("ring invariant violated: %d buffered, cap %d", buffered, r.Cap())
		}
		if r.Len() != buffered {
			t.Fatalf("Len() = %d, model says %d", r.Len(), buffered)
		}
	}
}

// One producer goroutine, one consumer goroutine, no other synchronization.
// Every value must arrive exactly once and in order.
func TestConcurrentProducerConsumer(t *testing.T) {
	const total = 100000
	r := New(64)
	done := make(chan error, 1)

	go func() {
		expect := float32(0)
		for n := 0; n < total; {
			s, ok := r.TryPop()
			if !ok {
				runtime.Gosched()
				continue
			}
			if s != expect {
				done <- fmt.Errorf("popped %v, want %v", s, expect)
				return
			}
			expect++
			n++
		}
		done <- nil
	}()

	for n := 0; n < total; {
		if r.TryPush(float32(n)) {
			n++
		} else {
			runtime.Gosched()
		}
	}

	if err := <-done; err != nil {
		t.Fatal(err)
	}
}
