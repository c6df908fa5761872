// ABOUTME: Channel mapper between device layouts and logical channels
// ABOUTME: Validates layouts at construction, routes frames allocation-free
package bridge

import "fmt"

// Mapper routes samples between a device channel layout and the bridge's
// logical channels. Layout validation happens in the constructors so the
// per-frame Demux and Mux calls carry no error path into the callbacks.
type Mapper struct {
	device  int
	logical int
}

// NewDemux builds a capture-side mapper. Supported layouts: the device
// channel count equals the logical count (one-to-one), or a mono device
// broadcast onto every logical channel. Anything else is a configuration
// error.
func NewDemux(deviceChannels, logicalChannels int) (*Mapper, error) {
	if logicalChannels <= 0 || deviceChannels <= 0 {
		return nil, fmt.Errorf("%w: %d device, %d logical channels",
			ErrChannelLayout, deviceChannels, logicalChannels)
	}
	switch {
	case deviceChannels == logicalChannels:
	case deviceChannels == 1 && logicalChannels > 1:
	default:
		return nil, fmt.Errorf("%w: cannot map %d input channels onto %d logical channels",
			ErrChannelLayout, deviceChannels, logicalChannels)
	}
	return &Mapper{device: deviceChannels, logical: logicalChannels}, nil
}

// NewMux builds a render-side mapper. Supported layouts: one-to-one, or a
// mono device fed from the first logical channel while the remaining logical
// channels are still consumed so the ring cursors stay aligned.
func NewMux(deviceChannels, logicalChannels int) (*Mapper, error) {
	if logicalChannels <= 0 || deviceChannels <= 0 {
		return nil, fmt.Errorf("%w: %d device, %d logical channels",
			ErrChannelLayout, deviceChannels, logicalChannels)
	}
	switch {
	case deviceChannels == logicalChannels:
	case deviceChannels == 1 && logicalChannels > 1:
	default:
		return nil, fmt.Errorf("%w: cannot map %d logical channels onto %d output channels",
			ErrChannelLayout, logicalChannels, deviceChannels)
	}
	return &Mapper{device: deviceChannels, logical: logicalChannels}, nil
}

// DeviceChannels returns the device-side channel count
func (m *Mapper) DeviceChannels() int {
	return m.device
}

// LogicalChannels returns the logical channel count
func (m *Mapper) LogicalChannels() int {
	return m.logical
}

// Demux spreads one device frame across the logical channels. frame holds
// one normalized sample per device channel, logical one slot per logical
// channel. O(channels), no allocation.
func (m *Mapper) Demux(frame, logical []float32) {
	if m.device == 1 {
		for i := range logical {
			logical[i] = frame[0]
		}
		return
	}
	copy(logical, frame[:m.device])
}

// Mux writes the logical samples into one device frame. A mono device gets
// only the first logical channel; the rest were already popped by the caller
// and are simply discarded here.
func (m *Mapper) Mux(logical, frame []float32) {
	if m.device == 1 {
		frame[0] = logical[0]
		return
	}
	copy(frame, logical[:m.device])
}
