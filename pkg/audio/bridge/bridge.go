// ABOUTME: Bridge state machine owning the ring set and device streams
// ABOUTME: Start validates formats and wires callbacks; Stop tears down in order
package bridge

import (
	"fmt"
	"sync"

	"github.com/loopline-audio/loopline-go/pkg/audio/device"
	"github.com/loopline-audio/loopline-go/pkg/audio/ring"
)

// State is the bridge lifecycle state
type State int

const (
	// Stopped means no streams are open and no callbacks are installed.
	Stopped State = iota
	// Running means both device streams are live.
	Running
)

// String returns the state name
func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Running:
		return "running"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Config carries bridge tuning knobs
type Config struct {
	// LogicalChannels is the internal channel count, 2 for stereo bridging.
	// Defaults to 2.
	LogicalChannels int

	// RingFrames is the per-channel ring capacity in frames. Defaults to
	// twice FrameHint to absorb cadence jitter between the two callbacks.
	RingFrames int

	// FrameHint is the advisory per-callback block size passed to the
	// device layer; both callbacks still handle whatever block size the
	// driver actually delivers. Defaults to 1024.
	FrameHint int

	// OnError is invoked from a monitor goroutine after an asynchronous
	// device failure has stopped the bridge. Never invoked from a
	// real-time callback. Optional.
	OnError func(error)
}

func (c Config) withDefaults() Config {
	if c.LogicalChannels == 0 {
		c.LogicalChannels = 2
	}
	if c.FrameHint == 0 {
		c.FrameHint = 1024
	}
	if c.RingFrames == 0 {
		c.RingFrames = 2 * c.FrameHint
	}
	return c
}

// Stats is a snapshot of the recoverable-error counters
type Stats struct {
	Overruns  uint64 // capture-side samples dropped into full rings
	Underruns uint64 // render-side samples substituted with silence
}

// Bridge moves live audio from a capture stream to a render stream through
// one lock-free ring per logical channel. It is the sole owner of the rings
// and of both stream handles. All methods are safe for concurrent use; the
// mutex guards only the cold start/stop path, never the audio callbacks.
type Bridge struct {
	cfg Config

	mu      sync.Mutex
	state   State
	rings   []*ring.Ring
	capture *Capture
	render  *Render
	in, out device.Stream
	done    chan struct{}
	last    Stats
}

// New creates a stopped bridge
func New(cfg Config) *Bridge {
	return &Bridge{cfg: cfg.withDefaults()}
}

// State returns the current lifecycle state
func (b *Bridge) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Stats returns the overrun/underrun counters. After Stop it returns the
// final counts of the last run.
func (b *Bridge) Stats() Stats {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.capture == nil {
		return b.last
	}
	return Stats{Overruns: b.capture.Overruns(), Underruns: b.render.Underruns()}
}

// Start validates the two endpoint formats, builds the ring set, opens both
// streams, and begins callback invocation. On any configuration error the
// bridge stays Stopped and no callback is installed: the whole failure path
// runs outside the time-constrained region.
func (b *Bridge) Start(in device.CaptureEndpoint, out device.RenderEndpoint) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == Running {
		return ErrAlreadyRunning
	}

	inf, outf := in.Format(), out.Format()
	if err := inf.Validate(); err != nil {
		return fmt.Errorf("input format: %w", err)
	}
	if err := outf.Validate(); err != nil {
		return fmt.Errorf("output format: %w", err)
	}
	if inf.SampleRate != outf.SampleRate {
		return fmt.Errorf("%w: %d vs %d", ErrSampleRateMismatch, inf.SampleRate, outf.SampleRate)
	}
	if inf.Kind != outf.Kind {
		return fmt.Errorf("%w: %s vs %s", ErrSampleKindMismatch, inf.Kind, outf.Kind)
	}

	demux, err := NewDemux(inf.Channels, b.cfg.LogicalChannels)
	if err != nil {
		return err
	}
	mux, err := NewMux(outf.Channels, b.cfg.LogicalChannels)
	if err != nil {
		return err
	}

	rings := make([]*ring.Ring, b.cfg.LogicalChannels)
	for i := range rings {
		rings[i] = ring.New(b.cfg.RingFrames)
	}
	capture := newCapture(rings, demux)
	render := newRender(rings, mux)

	inStream, err := in.OpenCapture(capture)
	if err != nil {
		return fmt.Errorf("open capture: %w", err)
	}
	outStream, err := out.OpenRender(render)
	if err != nil {
		inStream.Stop()
		return fmt.Errorf("open render: %w", err)
	}

	if err := inStream.Start(); err != nil {
		inStream.Stop()
		outStream.Stop()
		return fmt.Errorf("start capture: %w", err)
	}
	if err := outStream.Start(); err != nil {
		inStream.Stop()
		outStream.Stop()
		return fmt.Errorf("start render: %w", err)
	}

	b.rings = rings
	b.capture = capture
	b.render = render
	b.in = inStream
	b.out = outStream
	b.done = make(chan struct{})
	b.state = Running

	go b.monitor(inStream, outStream, b.done, b.cfg.OnError)

	return nil
}

// monitor waits for an asynchronous stream failure and stops the bridge from
// outside the failing callback. It exits silently when Stop closes done.
func (b *Bridge) monitor(in, out device.Stream, done chan struct{}, onError func(error)) {
	var err error
	select {
	case err = <-in.Errors():
	case err = <-out.Errors():
	case <-done:
		return
	}
	if err == nil {
		// Channel closed during teardown.
		return
	}
	b.Stop()
	if onError != nil {
		onError(err)
	}
}

// Stop halts both streams before releasing the rings, so no callback ever
// touches a released ring. Calling Stop on a stopped bridge is a no-op.
func (b *Bridge) Stop() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == Stopped {
		return nil
	}

	// The stream-stop primitive completes synchronously, with no callback
	// in flight, before teardown proceeds.
	inErr := b.in.Stop()
	outErr := b.out.Stop()
	close(b.done)

	b.last = Stats{Overruns: b.capture.Overruns(), Underruns: b.render.Underruns()}
	b.rings = nil
	b.capture = nil
	b.render = nil
	b.in = nil
	b.out = nil
	b.state = Stopped

	if inErr != nil {
		return fmt.Errorf("stop capture: %w", inErr)
	}
	if outErr != nil {
		return fmt.Errorf("stop render: %w", outErr)
	}
	return nil
}
