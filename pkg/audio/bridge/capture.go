// ABOUTME: Capture-side real-time callback
// ABOUTME: Converts device input blocks and pushes them into the ring set
package bridge

import (
	"sync/atomic"

	"github.com/loopline-audio/loopline-go/pkg/audio"
	"github.com/loopline-audio/loopline-go/pkg/audio/ring"
)

// Capture is the handler installed on the input stream. The device's capture
// thread is the sole producer for every ring it holds. All scratch space is
// allocated up front; the Process methods never allocate, lock, or touch the
// console.
type Capture struct {
	rings    []*ring.Ring
	mapper   *Mapper
	channels int // device channel count

	frame   []float32
	logical []float32

	overruns atomic.Uint64
}

func newCapture(rings []*ring.Ring, mapper *Mapper) *Capture {
	return &Capture{
		rings:    rings,
		mapper:   mapper,
		channels: mapper.DeviceChannels(),
		frame:    make([]float32, mapper.DeviceChannels()),
		logical:  make([]float32, mapper.LogicalChannels()),
	}
}

// ProcessFloat32 consumes one float32 input block. The block length is
// whatever the device delivered; trailing samples short of a full frame are
// ignored.
func (c *Capture) ProcessFloat32(in []float32) {
	for off := 0; off+c.channels <= len(in); off += c.channels {
		for ch := 0; ch < c.channels; ch++ {
			c.frame[ch] = in[off+ch]
		}
		c.pushFrame()
	}
}

// ProcessInt16 consumes one int16 input block, converting each sample to the
// normalized domain.
func (c *Capture) ProcessInt16(in []int16) {
	for off := 0; off+c.channels <= len(in); off += c.channels {
		for ch := 0; ch < c.channels; ch++ {
			c.frame[ch] = audio.Int16ToSample(in[off+ch])
		}
		c.pushFrame()
	}
}

// pushFrame demuxes the scratch frame and offers one sample to each ring.
// A full ring drops the sample and bumps the overrun counter; it never
// waits for space.
func (c *Capture) pushFrame() {
	c.mapper.Demux(c.frame, c.logical)
	for i, r := range c.rings {
		if !r.TryPush(c.logical[i]) {
			c.overruns.Add(1)
		}
	}
}

// Overruns reports how many samples were dropped because a ring was full.
// Safe to read from any goroutine.
func (c *Capture) Overruns() uint64 {
	return c.overruns.Load()
}
