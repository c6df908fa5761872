// ABOUTME: MP3 decoder built on go-mp3
// ABOUTME: Decodes to 16-bit stereo PCM and normalizes
package decode

import (
	"encoding/binary"
	"fmt"
	"io"

	mp3 "github.com/hajimehoshi/go-mp3"

	"github.com/loopline-audio/loopline-go/pkg/audio"
)

// MP3 decodes an MP3 stream to a normalized clip. go-mp3 always emits
// 16-bit little-endian stereo regardless of the encoded channel count.
func MP3(r io.Reader) (Clip, error) {
	d, err := mp3.NewDecoder(r)
	if err != nil {
		return Clip{}, fmt.Errorf("failed to create mp3 decoder: %w", err)
	}

	data, err := io.ReadAll(d)
	if err != nil {
		return Clip{}, fmt.Errorf("mp3 decode error: %w", err)
	}

	numSamples := len(data) / 2
	samples := make([]float32, numSamples)
	for i := 0; i < numSamples; i++ {
		samples[i] = audio.Int16ToSample(int16(binary.LittleEndian.Uint16(data[i*2:])))
	}

	return Clip{
		Samples: samples,
		Format: audio.Format{
			SampleRate: d.SampleRate(),
			Channels:   2,
			Kind:       audio.KindFloat32,
		},
	}, nil
}
