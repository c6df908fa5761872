// ABOUTME: Real-time audio bridge package
// ABOUTME: Channel mapping, capture/render callbacks and the Bridge machine
// Package bridge moves audio between real-time device callbacks without
// blocking, locking, or allocating on the hot path.
//
// A Bridge owns one lock-free ring per logical channel. The capture callback
// demuxes each input frame onto the logical channels, converts to the
// normalized float32 domain, and pushes into the rings; the render callback
// pops, converts back, and muxes into the output frame. A full ring drops
// the sample (overrun), an empty ring yields silence (underrun); both are
// counted atomically and never surfaced from inside a callback.
//
// A Player reuses the render path to stream a pre-decoded Source to an
// output device, emitting silence once the source is drained.
//
// Example:
//
//	b := bridge.New(bridge.Config{FrameHint: 1024})
//	if err := b.Start(in, out); err != nil {
//	    // configuration error: formats incompatible, bridge still stopped
//	}
//	defer b.Stop()
package bridge
