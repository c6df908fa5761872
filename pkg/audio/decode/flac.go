// ABOUTME: FLAC decoder built on mewkiz/flac
// ABOUTME: Frame-by-frame decode, interleave and normalize
package decode

import (
	"errors"
	"fmt"
	"io"

	"github.com/mewkiz/flac"

	"github.com/loopline-audio/loopline-go/pkg/audio"
)

// FLAC decodes a FLAC stream to a normalized clip
func FLAC(r io.Reader) (Clip, error) {
	stream, err := flac.Parse(r)
	if err != nil {
		return Clip{}, fmt.Errorf("failed to parse FLAC stream: %w", err)
	}
	defer func() { _ = stream.Close() }()

	info := stream.Info
	channels := int(info.NChannels)
	if channels <= 0 {
		return Clip{}, fmt.Errorf("invalid FLAC channel count: %d", channels)
	}
	scale := float32(int64(1) << (info.BitsPerSample - 1))

	samples := make([]float32, 0, int(info.NSamples)*channels)
	for {
		frame, err := stream.ParseNext()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Clip{}, fmt.Errorf("FLAC frame decode error: %w", err)
		}

		n := len(frame.Subframes[0].Samples)
		for i := 0; i < n; i++ {
			for _, sub := range frame.Subframes {
				samples = append(samples, float32(sub.Samples[i])/scale)
			}
		}
	}

	return Clip{
		Samples: samples,
		Format: audio.Format{
			SampleRate: int(info.SampleRate),
			Channels:   channels,
			Kind:       audio.KindFloat32,
		},
	}, nil
}
