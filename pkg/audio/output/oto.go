// ABOUTME: Oto-based pull-mode audio output
// ABOUTME: Plays a SampleSource as 16-bit PCM through the oto library
package output

import (
	"fmt"
	"io"
	"log"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/loopline-audio/loopline-go/pkg/audio"
)

// otoContext is the slice of *oto.Context the output drives, split out so
// the suspend/resume lifecycle is testable without audio hardware.
type otoContext interface {
	NewPlayer(r io.Reader) *oto.Player
	Suspend() error
	Resume() error
}

// Oto output implementation using the oto library. Oto pulls bytes from an
// io.Reader on its own thread, so playback here needs no device callback of
// our own.
type Oto struct {
	otoCtx     otoContext
	sampleRate int
	channels   int
	ready      bool
}

// NewOto creates a new Oto output
func NewOto() Output {
	return &Oto{}
}

// Open initializes the oto context. Oto allows only one context per process;
// reopening with the same format reuses it.
func (o *Oto) Open(format audio.Format) error {
	if o.otoCtx != nil {
		if o.sampleRate == format.SampleRate && o.channels == format.Channels {
			// Close suspended the context; bring it back before reuse.
			if err := o.otoCtx.Resume(); err != nil {
				return fmt.Errorf("failed to resume oto context: %w", err)
			}
			o.ready = true
			return nil
		}
		return fmt.Errorf("oto context already open at %dHz %dch, cannot reopen at %dHz %dch",
			o.sampleRate, o.channels, format.SampleRate, format.Channels)
	}

	op := &oto.NewContextOptions{
		SampleRate:   format.SampleRate,
		ChannelCount: format.Channels,
		Format:       oto.FormatSignedInt16LE,
	}

	ctx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return fmt.Errorf("failed to create oto context: %w", err)
	}
	<-readyChan

	o.otoCtx = ctx
	o.sampleRate = format.SampleRate
	o.channels = format.Channels
	o.ready = true

	log.Printf("Audio output initialized: %dHz, %d channels", format.SampleRate, format.Channels)
	return nil
}

// Play renders the source, blocking until oto has drained it
func (o *Oto) Play(src SampleSource) error {
	if !o.ready {
		return fmt.Errorf("output not opened")
	}
	if src.Rate() != o.sampleRate || src.Channels() != o.channels {
		return fmt.Errorf("source format %dHz %dch does not match output %dHz %dch",
			src.Rate(), src.Channels(), o.sampleRate, o.channels)
	}

	player := o.otoCtx.NewPlayer(newPCMReader(src))
	player.Play()
	for player.IsPlaying() {
		time.Sleep(20 * time.Millisecond)
	}
	return player.Close()
}

// Close releases resources. Oto has no teardown beyond suspending the
// context.
func (o *Oto) Close() error {
	if o.otoCtx != nil {
		o.ready = false
		return o.otoCtx.Suspend()
	}
	return nil
}
