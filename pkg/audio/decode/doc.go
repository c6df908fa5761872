// ABOUTME: Audio file decoding package for playback sources
// ABOUTME: WAV, MP3 and FLAC to interleaved normalized float32
// Package decode turns audio files into fully decoded, normalized sample
// sequences for playback.
//
// Supports: WAV (PCM), MP3, FLAC. Every decoder outputs interleaved float32
// samples in [-1.0, 1.0] plus the file's original stream format; playback
// assumes the file's sample rate matches the output device's, since the
// player does not resample.
//
// Example:
//
//	clip, err := decode.File("track.wav")
//	src, err := bridge.NewSource(clip.Samples, clip.Format.Channels, clip.Format.SampleRate)
package decode
