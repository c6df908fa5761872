// ABOUTME: Tests for the Bridge state machine with fake device endpoints
// ABOUTME: Format rejection, lifecycle, end-to-end flow, async device errors
package bridge

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/loopline-audio/loopline-go/pkg/audio"
	"github.com/loopline-audio/loopline-go/pkg/audio/device"
)

// fakeStream records lifecycle calls and lets tests inject async errors.
type fakeStream struct {
	mu      sync.Mutex
	started bool
	stopped bool
	errs    chan error
}

func newFakeStream() *fakeStream {
	return &fakeStream{errs: make(chan error, 1)}
}

func (s *fakeStream) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.started = true
	return nil
}

func (s *fakeStream) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.stopped {
		s.stopped = true
		close(s.errs)
	}
	return nil
}

func (s *fakeStream) Errors() <-chan error {
	return s.errs
}

func (s *fakeStream) fail(err error) {
	s.errs <- err
}

// fakeEndpoint satisfies both endpoint interfaces and hands out the handler
// the bridge installed so tests can drive the callbacks directly.
type fakeEndpoint struct {
	format  audio.Format
	stream  *fakeStream
	capture device.CaptureHandler
	render  device.RenderHandler
}

func newFakeEndpoint(format audio.Format) *fakeEndpoint {
	return &fakeEndpoint{format: format, stream: newFakeStream()}
}

func (e *fakeEndpoint) Format() audio.Format {
	return e.format
}

func (e *fakeEndpoint) OpenCapture(h device.CaptureHandler) (device.Stream, error) {
	e.capture = h
	return e.stream, nil
}

func (e *fakeEndpoint) OpenRender(h device.RenderHandler) (device.Stream, error) {
	e.render = h
	return e.stream, nil
}

func stereoFloat(rate int) audio.Format {
	return audio.Format{SampleRate: rate, Channels: 2, Kind: audio.KindFloat32}
}

func TestStartRejectsSampleRateMismatch(t *testing.T) {
	b := New(Config{})
	in := newFakeEndpoint(stereoFloat(44100))
	out := newFakeEndpoint(stereoFloat(48000))

	err := b.Start(in, out)
	if !errors.Is(err, ErrSampleRateMismatch) {
		t.Fatalf("Start error = %v, want ErrSampleRateMismatch", err)
	}
	if b.State() != Stopped {
		t.Errorf("state after rejected Start = %v, want stopped", b.State())
	}
	if in.capture != nil || out.render != nil {
		t.Error("callbacks were installed despite the configuration error")
	}
}

func TestStartRejectsSampleKindMismatch(t *testing.T) {
	b := New(Config{})
	in := newFakeEndpoint(audio.Format{SampleRate: 48000, Channels: 2, Kind: audio.KindInt16})
	out := newFakeEndpoint(stereoFloat(48000))

	if err := b.Start(in, out); !errors.Is(err, ErrSampleKindMismatch) {
		t.Fatalf("Start error = %v, want ErrSampleKindMismatch", err)
	}
}

func TestStartRejectsChannelLayout(t *testing.T) {
	b := New(Config{})
	in := newFakeEndpoint(audio.Format{SampleRate: 48000, Channels: 6, Kind: audio.KindFloat32})
	out := newFakeEndpoint(stereoFloat(48000))

	if err := b.Start(in, out); !errors.Is(err, ErrChannelLayout) {
		t.Fatalf("Start error = %v, want ErrChannelLayout", err)
	}
	if b.State() != Stopped {
		t.Errorf("state = %v, want stopped", b.State())
	}
}

func TestBridgeLifecycle(t *testing.T) {
	b := New(Config{RingFrames: 16})
	in := newFakeEndpoint(stereoFloat(48000))
	out := newFakeEndpoint(stereoFloat(48000))

	if err := b.Start(in, out); err != nil {
		t.Fatal(err)
	}
	if b.State() != Running {
		t.Fatalf("state after Start = %v, want running", b.State())
	}
	if !in.stream.started || !out.stream.started {
		t.Error("streams not started")
	}

	if err := b.Start(in, out); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("second Start error = %v, want ErrAlreadyRunning", err)
	}

	if err := b.Stop(); err != nil {
		t.Fatal(err)
	}
	if b.State() != Stopped {
		t.Errorf("state after Stop = %v, want stopped", b.State())
	}
	if !in.stream.stopped || !out.stream.stopped {
		t.Error("streams not stopped")
	}

	// Idempotent: stopping a stopped bridge is a no-op.
	if err := b.Stop(); err != nil {
		t.Errorf("second Stop error = %v, want nil", err)
	}
}

func TestBridgeEndToEnd(t *testing.T) {
	b := New(Config{RingFrames: 16})
	in := newFakeEndpoint(stereoFloat(48000))
	out := newFakeEndpoint(stereoFloat(48000))

	if err := b.Start(in, out); err != nil {
		t.Fatal(err)
	}
	defer b.Stop()

	in.capture.ProcessFloat32([]float32{0.1, 0.2, 0.3, 0.4})

	block := make([]float32, 6)
	out.render.ProcessFloat32(block)

	want := []float32{0.1, 0.2, 0.3, 0.4, 0, 0}
	for i, w := range want {
		if block[i] != w {
			t.Errorf("block[%d] = %v, want %v", i, block[i], w)
		}
	}

	stats := b.Stats()
	if stats.Overruns != 0 {
		t.Errorf("Overruns = %d, want 0", stats.Overruns)
	}
	if stats.Underruns != 2 {
		t.Errorf("Underruns = %d, want 2", stats.Underruns)
	}
}

func TestBridgeStatsSurviveStop(t *testing.T) {
	b := New(Config{RingFrames: 2})
	in := newFakeEndpoint(stereoFloat(48000))
	out := newFakeEndpoint(stereoFloat(48000))

	if err := b.Start(in, out); err != nil {
		t.Fatal(err)
	}
	// Capacity 2 per ring: the third and fourth frames overrun.
	in.capture.ProcessFloat32(make([]float32, 8))
	b.Stop()

	if stats := b.Stats(); stats.Overruns != 4 {
		t.Errorf("final Overruns = %d, want 4", stats.Overruns)
	}
}

func TestDeviceErrorStopsBridge(t *testing.T) {
	failed := make(chan error, 1)
	b := New(Config{OnError: func(err error) { failed <- err }})
	in := newFakeEndpoint(stereoFloat(48000))
	out := newFakeEndpoint(stereoFloat(48000))

	if err := b.Start(in, out); err != nil {
		t.Fatal(err)
	}

	devErr := errors.New("device disconnected")
	out.stream.fail(devErr)

	select {
	case err := <-failed:
		if !errors.Is(err, devErr) {
			t.Errorf("OnError got %v, want %v", err, devErr)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("OnError never invoked after device failure")
	}

	if b.State() != Stopped {
		t.Errorf("state after device error = %v, want stopped", b.State())
	}
	if !in.stream.stopped {
		t.Error("capture stream left running after device error")
	}
}
