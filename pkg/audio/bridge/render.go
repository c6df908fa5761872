// ABOUTME: Render-side real-time callback
// ABOUTME: Pops from the ring set or a playback source and fills output blocks
package bridge

import (
	"sync/atomic"

	"github.com/loopline-audio/loopline-go/pkg/audio"
	"github.com/loopline-audio/loopline-go/pkg/audio/ring"
)

// Render is the handler installed on the output stream. In bridge mode it is
// the sole consumer of every ring it holds; in playback mode it reads
// sequentially from a Source instead. Every requested block is fully
// populated before returning, substituting silence wherever no sample is
// available.
type Render struct {
	rings    []*ring.Ring
	src      *Source
	mapper   *Mapper
	channels int // device channel count

	frame   []float32
	logical []float32

	underruns atomic.Uint64
}

func newRender(rings []*ring.Ring, mapper *Mapper) *Render {
	return &Render{
		rings:    rings,
		mapper:   mapper,
		channels: mapper.DeviceChannels(),
		frame:    make([]float32, mapper.DeviceChannels()),
		logical:  make([]float32, mapper.LogicalChannels()),
	}
}

func newPlaybackRender(src *Source, mapper *Mapper) *Render {
	r := newRender(nil, mapper)
	r.src = src
	return r
}

// ProcessFloat32 fills one float32 output block
func (r *Render) ProcessFloat32(out []float32) {
	off := 0
	for ; off+r.channels <= len(out); off += r.channels {
		r.fillFrame()
		for ch := 0; ch < r.channels; ch++ {
			out[off+ch] = r.frame[ch]
		}
	}
	// Never hand uninitialized samples back to the device.
	for ; off < len(out); off++ {
		out[off] = 0
	}
}

// ProcessInt16 fills one int16 output block, converting from the normalized
// domain.
func (r *Render) ProcessInt16(out []int16) {
	off := 0
	for ; off+r.channels <= len(out); off += r.channels {
		r.fillFrame()
		for ch := 0; ch < r.channels; ch++ {
			out[off+ch] = audio.SampleToInt16(r.frame[ch])
		}
	}
	for ; off < len(out); off++ {
		out[off] = 0
	}
}

// fillFrame gathers one logical frame and muxes it into the scratch device
// frame. An empty ring yields silence and bumps the underrun counter; it
// never waits for data. A drained playback source stays silent without
// restarting.
func (r *Render) fillFrame() {
	if r.src != nil {
		r.src.readFrame(r.logical)
	} else {
		for i, rg := range r.rings {
			s, ok := rg.TryPop()
			if !ok {
				r.underruns.Add(1)
				s = 0
			}
			r.logical[i] = s
		}
	}
	r.mapper.Mux(r.logical, r.frame)
}

// Underruns reports how many samples were substituted with silence because a
// ring was empty. Safe to read from any goroutine.
func (r *Render) Underruns() uint64 {
	return r.underruns.Load()
}
