// ABOUTME: File-playback player driving a render stream from a Source
// ABOUTME: Same render callback path as the bridge, without capture or rings
package bridge

import (
	"fmt"
	"sync"

	"github.com/loopline-audio/loopline-go/pkg/audio/device"
)

// Player streams a pre-decoded Source to a render endpoint. The render
// callback reads the source sequentially and emits silence once it is
// drained; the player keeps running until stopped so the owner decides when
// playback ends.
type Player struct {
	mu     sync.Mutex
	state  State
	src    *Source
	render *Render
	out    device.Stream
	done   chan struct{}

	// OnError is invoked from a monitor goroutine after an asynchronous
	// device failure has stopped the player. Optional.
	OnError func(error)
}

// NewPlayer creates a stopped player
func NewPlayer() *Player {
	return &Player{}
}

// State returns the current lifecycle state
func (p *Player) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Exhausted reports whether the source has been fully rendered. False when
// the player is stopped.
func (p *Player) Exhausted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.src != nil && p.src.Exhausted()
}

// Start validates the source against the endpoint format and begins
// rendering. The endpoint's sample rate must equal the source's; the player
// does not resample.
func (p *Player) Start(out device.RenderEndpoint, src *Source) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state == Running {
		return ErrAlreadyRunning
	}

	outf := out.Format()
	if err := outf.Validate(); err != nil {
		return fmt.Errorf("output format: %w", err)
	}
	if outf.SampleRate != src.Rate() {
		return fmt.Errorf("%w: source %d vs device %d",
			ErrSampleRateMismatch, src.Rate(), outf.SampleRate)
	}

	// The source's channels play the role of the logical channels.
	mux, err := NewMux(outf.Channels, src.Channels())
	if err != nil {
		return err
	}

	render := newPlaybackRender(src, mux)
	stream, err := out.OpenRender(render)
	if err != nil {
		return fmt.Errorf("open render: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Stop()
		return fmt.Errorf("start render: %w", err)
	}

	p.src = src
	p.render = render
	p.out = stream
	p.done = make(chan struct{})
	p.state = Running

	go p.monitor(stream, p.done, p.OnError)

	return nil
}

func (p *Player) monitor(out device.Stream, done chan struct{}, onError func(error)) {
	var err error
	select {
	case err = <-out.Errors():
	case <-done:
		return
	}
	if err == nil {
		return
	}
	p.Stop()
	if onError != nil {
		onError(err)
	}
}

// Stop halts the render stream. Idempotent.
func (p *Player) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state == Stopped {
		return nil
	}

	err := p.out.Stop()
	close(p.done)

	p.src = nil
	p.render = nil
	p.out = nil
	p.state = Stopped

	if err != nil {
		return fmt.Errorf("stop render: %w", err)
	}
	return nil
}
