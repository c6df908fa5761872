// ABOUTME: Audio fundamentals package providing core types and utilities
// ABOUTME: Defines Format, SampleKind and normalized sample conversions
// Package audio provides fundamental audio types for the loopline bridge.
//
// This package defines the types shared by every other audio package:
//   - Format: a negotiated stream format (sample rate, channels, sample kind)
//   - SampleKind: the wire representation of a sample (int16 or float32)
//
// It also provides the conversions between wire samples and the normalized
// float32 domain that the bridge moves between callbacks:
//   - Int16ToSample: int16 → [-1.0, 1.0]
//   - SampleToInt16: [-1.0, 1.0] → int16 (truncating)
//
// Both conversions are pure and allocation-free so they may run inside a
// real-time audio callback.
//
// Example:
//
//	format := audio.Format{
//	    SampleRate: 48000,
//	    Channels:   2,
//	    Kind:       audio.KindFloat32,
//	}
package audio
