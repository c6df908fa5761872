// ABOUTME: Pull-mode audio output package
// ABOUTME: Provides the Output interface and the oto implementation
// Package output provides pull-mode audio playback.
//
// This is the alternative to the callback-driven render path: a backend
// pulls 16-bit PCM bytes from a SampleSource at its own pace. File playback
// can use either path; live bridging always uses the callback path.
//
// Example:
//
//	out := output.NewOto()
//	err := out.Open(clipFormat)
//	err = out.Play(src)
package output
