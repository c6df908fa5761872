// ABOUTME: Audio output interface for pull-mode playback backends
// ABOUTME: Common interface plus the sample-to-byte adapter they consume
package output

import (
	"encoding/binary"
	"io"

	"github.com/loopline-audio/loopline-go/pkg/audio"
)

// SampleSource is a sequential reader of normalized samples, typically a
// bridge.Source. ReadSamples returns 0 when drained.
type SampleSource interface {
	ReadSamples(dst []float32) int
	Channels() int
	Rate() int
}

// Output represents a pull-mode audio output device
type Output interface {
	// Open initializes the output for the given stream format.
	Open(format audio.Format) error

	// Play renders the source to the device, blocking until it is drained.
	Play(src SampleSource) error

	// Close releases output resources.
	Close() error
}

// pcmReader adapts a SampleSource to the 16-bit little-endian byte stream a
// pull-mode backend consumes.
type pcmReader struct {
	src SampleSource
	buf []float32
}

func newPCMReader(src SampleSource) *pcmReader {
	return &pcmReader{src: src}
}

func (r *pcmReader) Read(p []byte) (int, error) {
	n := len(p) / 2
	if n == 0 {
		return 0, nil
	}
	if len(r.buf) < n {
		r.buf = make([]float32, n)
	}

	got := r.src.ReadSamples(r.buf[:n])
	if got == 0 {
		return 0, io.EOF
	}
	for i := 0; i < got; i++ {
		binary.LittleEndian.PutUint16(p[i*2:], uint16(audio.SampleToInt16(r.buf[i])))
	}
	return got * 2, nil
}
