// ABOUTME: Audio stream format and sample conversion
// ABOUTME: Defines wire sample kinds and the normalized float32 domain
package audio

import "fmt"

// SampleKind identifies the wire representation of a single sample.
type SampleKind int

const (
	// KindInt16 is signed 16-bit PCM.
	KindInt16 SampleKind = iota
	// KindFloat32 is 32-bit floating point PCM.
	KindFloat32
)

// String returns a human-readable name for the sample kind
func (k SampleKind) String() string {
	switch k {
	case KindInt16:
		return "int16"
	case KindFloat32:
		return "float32"
	default:
		return fmt.Sprintf("SampleKind(%d)", int(k))
	}
}

// Format describes a negotiated audio stream format
type Format struct {
	SampleRate int
	Channels   int
	Kind       SampleKind
}

// Validate checks that the format fields are usable
func (f Format) Validate() error {
	if f.SampleRate <= 0 {
		return fmt.Errorf("invalid sample rate: %d", f.SampleRate)
	}
	if f.Channels <= 0 {
		return fmt.Errorf("invalid channel count: %d", f.Channels)
	}
	if f.Kind != KindInt16 && f.Kind != KindFloat32 {
		return fmt.Errorf("invalid sample kind: %d", int(f.Kind))
	}
	return nil
}

// String returns a compact description like "48000Hz 2ch float32"
func (f Format) String() string {
	return fmt.Sprintf("%dHz %dch %s", f.SampleRate, f.Channels, f.Kind)
}

// maxInt16 is the maximum representable magnitude of a 16-bit sample.
const maxInt16 = 32767

// Int16ToSample converts a 16-bit PCM sample to the normalized float32
// domain, producing a value in [-1.0, 1.0].
func Int16ToSample(v int16) float32 {
	return float32(v) / maxInt16
}

// SampleToInt16 converts a normalized sample back to 16-bit PCM, truncating
// toward zero. Values outside [-1.0, 1.0] are not clamped here; they wrap or
// saturate at the int16 boundary, which is where clipping is allowed to
// occur. Float32 wire samples need no conversion in either direction.
func SampleToInt16(s float32) int16 {
	return int16(s * maxInt16)
}
