// ABOUTME: WAV decoder built on go-audio
// ABOUTME: Reads PCM WAV files and normalizes by the source bit depth
package decode

import (
	"fmt"
	"io"

	"github.com/go-audio/wav"

	"github.com/loopline-audio/loopline-go/pkg/audio"
)

// WAV decodes a PCM WAV stream to a normalized clip
func WAV(r io.ReadSeeker) (Clip, error) {
	d := wav.NewDecoder(r)
	if !d.IsValidFile() {
		return Clip{}, fmt.Errorf("not a valid WAV file")
	}

	buf, err := d.FullPCMBuffer()
	if err != nil {
		return Clip{}, fmt.Errorf("failed to decode WAV data: %w", err)
	}

	bitDepth := int(d.BitDepth)
	if buf.SourceBitDepth != 0 {
		bitDepth = buf.SourceBitDepth
	}
	if bitDepth <= 0 || bitDepth > 32 {
		return Clip{}, fmt.Errorf("unsupported WAV bit depth: %d", bitDepth)
	}

	scale := float32(int64(1) << (bitDepth - 1))
	samples := make([]float32, len(buf.Data))
	for i, v := range buf.Data {
		samples[i] = float32(v) / scale
	}

	return Clip{
		Samples: samples,
		Format: audio.Format{
			SampleRate: buf.Format.SampleRate,
			Channels:   buf.Format.NumChannels,
			Kind:       audio.KindFloat32,
		},
	}, nil
}
