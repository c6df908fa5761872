// ABOUTME: Pre-decoded playback source and test tone generator
// ABOUTME: Immutable sample sequence with a render-side read cursor
package bridge

import (
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"github.com/loopline-audio/loopline-go/pkg/audio"
)

// Source is a fully decoded, immutable sequence of normalized samples,
// interleaved by channel. The read cursor is advanced exclusively by the
// render path but published atomically, so Exhausted may be polled from any
// goroutine while the device thread reads. Once the cursor passes the end
// the source emits silence and never restarts.
type Source struct {
	samples  []float32
	channels int
	rate     int
	pos      atomic.Int64
}

// NewSource wraps decoded samples. The sample slice must not be modified
// after construction.
func NewSource(samples []float32, channels, rate int) (*Source, error) {
	if channels <= 0 {
		return nil, fmt.Errorf("invalid channel count: %d", channels)
	}
	if rate <= 0 {
		return nil, fmt.Errorf("invalid sample rate: %d", rate)
	}
	return &Source{samples: samples, channels: channels, rate: rate}, nil
}

// Channels returns the interleaved channel count
func (s *Source) Channels() int {
	return s.channels
}

// Rate returns the source sample rate
func (s *Source) Rate() int {
	return s.rate
}

// Frames returns the total frame count
func (s *Source) Frames() int {
	return len(s.samples) / s.channels
}

// Duration returns the playing time of the source
func (s *Source) Duration() time.Duration {
	return time.Duration(float64(s.Frames()) / float64(s.rate) * float64(time.Second))
}

// Format describes the source as a normalized float32 stream
func (s *Source) Format() audio.Format {
	return audio.Format{SampleRate: s.rate, Channels: s.channels, Kind: audio.KindFloat32}
}

// Exhausted reports whether the cursor has passed the last sample. Safe to
// call from any goroutine.
func (s *Source) Exhausted() bool {
	return s.pos.Load() >= int64(len(s.samples))
}

// ReadSamples copies up to len(dst) samples sequentially, returning how many
// were copied. Zero means the source is drained. Render side only.
func (s *Source) ReadSamples(dst []float32) int {
	pos := s.pos.Load()
	n := copy(dst, s.samples[pos:])
	s.pos.Store(pos + int64(n))
	return n
}

// readFrame fills one logical frame, padding with silence past the end.
func (s *Source) readFrame(logical []float32) {
	n := s.ReadSamples(logical)
	for i := n; i < len(logical); i++ {
		logical[i] = 0
	}
}

// Tone generates a mono sine source, half amplitude to leave headroom.
func Tone(freq float64, d time.Duration, rate int) *Source {
	n := int(d.Seconds() * float64(rate))
	samples := make([]float32, n)
	for i := range samples {
		t := float64(i) / float64(rate)
		samples[i] = float32(math.Sin(2*math.Pi*freq*t) * 0.5)
	}
	src, _ := NewSource(samples, 1, rate)
	return src
}
