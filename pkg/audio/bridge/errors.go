// ABOUTME: Error taxonomy for bridge construction and runtime
// ABOUTME: Sentinel configuration errors classified with errors.Is
package bridge

import "errors"

// Configuration errors, raised synchronously by Start before any real-time
// callback is installed. The bridge stays Stopped when one is returned.
var (
	// ErrSampleRateMismatch indicates the input and output streams were
	// negotiated at different sample rates; the bridge does not resample.
	ErrSampleRateMismatch = errors.New("input and output sample rates differ")

	// ErrSampleKindMismatch indicates the two streams use different wire
	// sample representations.
	ErrSampleKindMismatch = errors.New("input and output sample kinds differ")

	// ErrChannelLayout indicates a device channel count that cannot be
	// mapped onto the logical channels.
	ErrChannelLayout = errors.New("unsupported channel layout")

	// ErrAlreadyRunning indicates Start was called on a running bridge.
	ErrAlreadyRunning = errors.New("bridge already running")
)
