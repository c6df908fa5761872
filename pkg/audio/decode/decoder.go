// ABOUTME: File-source collaborator decoding audio files to normalized samples
// ABOUTME: Dispatches on extension to the WAV, MP3 and FLAC decoders
package decode

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/loopline-audio/loopline-go/pkg/audio"
)

// ErrUnsupportedFormat indicates a file extension no decoder handles.
var ErrUnsupportedFormat = errors.New("unsupported audio file format")

// Clip is a fully decoded audio file: interleaved normalized samples plus
// the file's original stream format. Kind is always KindFloat32.
type Clip struct {
	Samples []float32
	Format  audio.Format
}

// File decodes the file at path, choosing a decoder by extension.
// Supported: .wav, .mp3, .flac.
func File(path string) (Clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return Clip{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		return WAV(f)
	case ".mp3":
		return MP3(f)
	case ".flac":
		return FLAC(f)
	default:
		return Clip{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}
