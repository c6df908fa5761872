// ABOUTME: Tests for the capture and render callbacks
// ABOUTME: Conversion, ring traffic, overrun/underrun counting, block fill
package bridge

import (
	"testing"

	"github.com/loopline-audio/loopline-go/pkg/audio/ring"
)

func newRings(n, capacity int) []*ring.Ring {
	rings := make([]*ring.Ring, n)
	for i := range rings {
		rings[i] = ring.New(capacity)
	}
	return rings
}

func mustDemux(t *testing.T, device, logical int) *Mapper {
	t.Helper()
	m, err := NewDemux(device, logical)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func mustMux(t *testing.T, device, logical int) *Mapper {
	t.Helper()
	m, err := NewMux(device, logical)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestCaptureStereoFloat32(t *testing.T) {
	rings := newRings(2, 8)
	c := newCapture(rings, mustDemux(t, 2, 2))

	c.ProcessFloat32([]float32{0.1, 0.2, 0.3, 0.4})

	for i, want := range [][]float32{{0.1, 0.3}, {0.2, 0.4}} {
		for j, w := range want {
			got, ok := rings[i].TryPop()
			if !ok || got != w {
				t.Errorf("ring %d sample %d = (%v, %v), want %v", i, j, got, ok, w)
			}
		}
	}
}

func TestCaptureMonoBroadcast(t *testing.T) {
	rings := newRings(2, 8)
	c := newCapture(rings, mustDemux(t, 1, 2))

	c.ProcessFloat32([]float32{0.5, -0.5})

	for i := 0; i < 2; i++ {
		if got, _ := rings[i].TryPop(); got != 0.5 {
			t.Errorf("ring %d first sample = %v, want 0.5", i, got)
		}
		if got, _ := rings[i].TryPop(); got != -0.5 {
			t.Errorf("ring %d second sample = %v, want -0.5", i, got)
		}
	}
}

func TestCaptureInt16Converts(t *testing.T) {
	rings := newRings(1, 8)
	c := newCapture(rings, mustDemux(t, 1, 1))

	c.ProcessInt16([]int16{32767, -32767, 0})

	want := []float32{1.0, -1.0, 0.0}
	for i, w := range want {
		got, ok := rings[0].TryPop()
		if !ok || got != w {
			t.Errorf("sample %d = (%v, %v), want %v", i, got, ok, w)
		}
	}
}

func TestCaptureOverrunDropsAndCounts(t *testing.T) {
	rings := newRings(1, 2)
	c := newCapture(rings, mustDemux(t, 1, 1))

	c.ProcessFloat32([]float32{0.1, 0.2, 0.3, 0.4})

	if c.Overruns() != 2 {
		t.Errorf("Overruns() = %d, want 2", c.Overruns())
	}
	if got, _ := rings[0].TryPop(); got != 0.1 {
		t.Errorf("first kept sample = %v, want 0.1", got)
	}
	if got, _ := rings[0].TryPop(); got != 0.2 {
		t.Errorf("second kept sample = %v, want 0.2", got)
	}
	if _, ok := rings[0].TryPop(); ok {
		t.Error("dropped samples were stored")
	}
}

func TestRenderStereoFloat32(t *testing.T) {
	rings := newRings(2, 8)
	rings[0].TryPush(0.1)
	rings[0].TryPush(0.3)
	rings[1].TryPush(0.2)
	rings[1].TryPush(0.4)

	r := newRender(rings, mustMux(t, 2, 2))
	out := make([]float32, 4)
	r.ProcessFloat32(out)

	want := []float32{0.1, 0.2, 0.3, 0.4}
	for i, w := range want {
		if out[i] != w {
			t.Errorf("out[%d] = %v, want %v", i, out[i], w)
		}
	}
	if r.Underruns() != 0 {
		t.Errorf("Underruns() = %d, want 0", r.Underruns())
	}
}

func TestRenderUnderrunSubstitutesSilence(t *testing.T) {
	rings := newRings(2, 8)
	rings[0].TryPush(0.9)
	rings[1].TryPush(-0.9)

	r := newRender(rings, mustMux(t, 2, 2))
	out := []float32{7, 7, 7, 7, 7, 7}
	r.ProcessFloat32(out)

	want := []float32{0.9, -0.9, 0, 0, 0, 0}
	for i, w := range want {
		if out[i] != w {
			t.Errorf("out[%d] = %v, want %v", i, out[i], w)
		}
	}
	if r.Underruns() != 4 {
		t.Errorf("Underruns() = %d, want 4", r.Underruns())
	}
}

func TestRenderMonoConsumesAllLogicalChannels(t *testing.T) {
	rings := newRings(2, 8)
	rings[0].TryPush(0.1)
	rings[0].TryPush(0.3)
	rings[1].TryPush(0.2)
	rings[1].TryPush(0.4)

	r := newRender(rings, mustMux(t, 1, 2))
	out := make([]float32, 2)
	r.ProcessFloat32(out)

	if out[0] != 0.1 || out[1] != 0.3 {
		t.Errorf("mono out = %v, want [0.1 0.3]", out)
	}
	// The second logical channel advanced even though it was discarded.
	if rings[1].Len() != 0 {
		t.Errorf("right ring still holds %d samples", rings[1].Len())
	}
}

func TestRenderInt16Converts(t *testing.T) {
	rings := newRings(1, 8)
	rings[0].TryPush(1.0)
	rings[0].TryPush(-1.0)

	r := newRender(rings, mustMux(t, 1, 1))
	out := make([]int16, 3)
	r.ProcessInt16(out)

	if out[0] != 32767 || out[1] != -32767 || out[2] != 0 {
		t.Errorf("int16 out = %v, want [32767 -32767 0]", out)
	}
}

func TestRenderFillsTrailingPartialFrame(t *testing.T) {
	rings := newRings(2, 8)
	r := newRender(rings, mustMux(t, 2, 2))

	// 5 samples is two stereo frames plus one stray slot; the stray slot
	// must still come back as silence, never stale memory.
	out := []float32{9, 9, 9, 9, 9}
	r.ProcessFloat32(out)

	for i, s := range out {
		if s != 0 {
			t.Errorf("out[%d] = %v, want 0", i, s)
		}
	}
}
