// ABOUTME: PortAudio-backed device collaborator
// ABOUTME: Host device enumeration and typed callback stream endpoints
package device

import (
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"

	"github.com/loopline-audio/loopline-go/pkg/audio"
)

// Initialize sets up the PortAudio host. Call once before any enumeration or
// stream use, and pair with Terminate.
func Initialize() error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize portaudio: %w", err)
	}
	return nil
}

// Terminate releases the PortAudio host
func Terminate() error {
	return portaudio.Terminate()
}

// Info describes one host audio device
type Info struct {
	Index             int
	Name              string
	MaxInputChannels  int
	MaxOutputChannels int
	DefaultSampleRate float64

	raw *portaudio.DeviceInfo
}

// Devices enumerates every host device
func Devices() ([]Info, error) {
	raw, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate devices: %w", err)
	}

	devices := make([]Info, len(raw))
	for i, d := range raw {
		devices[i] = Info{
			Index:             i,
			Name:              d.Name,
			MaxInputChannels:  d.MaxInputChannels,
			MaxOutputChannels: d.MaxOutputChannels,
			DefaultSampleRate: d.DefaultSampleRate,
			raw:               d,
		}
	}
	return devices, nil
}

// DefaultInput returns the host's default input device
func DefaultInput() (Info, error) {
	d, err := portaudio.DefaultInputDevice()
	if err != nil {
		return Info{}, fmt.Errorf("no default input device: %w", err)
	}
	return wrapDefault(d)
}

// DefaultOutput returns the host's default output device
func DefaultOutput() (Info, error) {
	d, err := portaudio.DefaultOutputDevice()
	if err != nil {
		return Info{}, fmt.Errorf("no default output device: %w", err)
	}
	return wrapDefault(d)
}

// wrapDefault matches a default device back to its enumeration index.
func wrapDefault(d *portaudio.DeviceInfo) (Info, error) {
	devices, err := Devices()
	if err != nil {
		return Info{}, err
	}
	for _, info := range devices {
		if info.raw == d {
			return info, nil
		}
	}
	return Info{
		Index:             -1,
		Name:              d.Name,
		MaxInputChannels:  d.MaxInputChannels,
		MaxOutputChannels: d.MaxOutputChannels,
		DefaultSampleRate: d.DefaultSampleRate,
		raw:               d,
	}, nil
}

// CaptureDevice binds an input device to a negotiated format
type CaptureDevice struct {
	dev    Info
	format audio.Format
	frames int
}

// NewCaptureDevice validates the requested format against the device's
// capabilities. frames is an advisory per-block frame count; zero lets the
// host choose.
func NewCaptureDevice(dev Info, format audio.Format, frames int) (*CaptureDevice, error) {
	if err := format.Validate(); err != nil {
		return nil, fmt.Errorf("capture format: %w", err)
	}
	if format.Channels > dev.MaxInputChannels {
		return nil, fmt.Errorf("device %q supports %d input channels, requested %d",
			dev.Name, dev.MaxInputChannels, format.Channels)
	}
	return &CaptureDevice{dev: dev, format: format, frames: frames}, nil
}

// Format returns the negotiated capture format
func (c *CaptureDevice) Format() audio.Format {
	return c.format
}

// OpenCapture opens an input-only stream delivering blocks to h. The stream
// is created stopped; call Start on the returned handle.
func (c *CaptureDevice) OpenCapture(h CaptureHandler) (Stream, error) {
	params := portaudio.HighLatencyParameters(c.dev.raw, nil)
	params.Input.Channels = c.format.Channels
	params.SampleRate = float64(c.format.SampleRate)
	params.FramesPerBuffer = c.frames

	var s *portaudio.Stream
	var err error
	switch c.format.Kind {
	case audio.KindFloat32:
		s, err = portaudio.OpenStream(params, func(in []float32) { h.ProcessFloat32(in) })
	case audio.KindInt16:
		s, err = portaudio.OpenStream(params, func(in []int16) { h.ProcessInt16(in) })
	default:
		return nil, fmt.Errorf("unsupported capture sample kind: %s", c.format.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open capture stream: %w", err)
	}
	return newPAStream(s), nil
}

// RenderDevice binds an output device to a negotiated format
type RenderDevice struct {
	dev    Info
	format audio.Format
	frames int
}

// NewRenderDevice validates the requested format against the device's
// capabilities
func NewRenderDevice(dev Info, format audio.Format, frames int) (*RenderDevice, error) {
	if err := format.Validate(); err != nil {
		return nil, fmt.Errorf("render format: %w", err)
	}
	if format.Channels > dev.MaxOutputChannels {
		return nil, fmt.Errorf("device %q supports %d output channels, requested %d",
			dev.Name, dev.MaxOutputChannels, format.Channels)
	}
	return &RenderDevice{dev: dev, format: format, frames: frames}, nil
}

// Format returns the negotiated render format
func (r *RenderDevice) Format() audio.Format {
	return r.format
}

// OpenRender opens an output-only stream pulling blocks from h
func (r *RenderDevice) OpenRender(h RenderHandler) (Stream, error) {
	params := portaudio.HighLatencyParameters(nil, r.dev.raw)
	params.Output.Channels = r.format.Channels
	params.SampleRate = float64(r.format.SampleRate)
	params.FramesPerBuffer = r.frames

	var s *portaudio.Stream
	var err error
	switch r.format.Kind {
	case audio.KindFloat32:
		s, err = portaudio.OpenStream(params, func(out []float32) { h.ProcessFloat32(out) })
	case audio.KindInt16:
		s, err = portaudio.OpenStream(params, func(out []int16) { h.ProcessInt16(out) })
	default:
		return nil, fmt.Errorf("unsupported render sample kind: %s", r.format.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open render stream: %w", err)
	}
	return newPAStream(s), nil
}

// paStream wraps a portaudio stream as a Stream handle.
type paStream struct {
	s    *portaudio.Stream
	errs chan error
	once sync.Once
}

func newPAStream(s *portaudio.Stream) *paStream {
	return &paStream{s: s, errs: make(chan error, 1)}
}

func (p *paStream) Start() error {
	if err := p.s.Start(); err != nil {
		return fmt.Errorf("failed to start stream: %w", err)
	}
	return nil
}

// Stop halts the stream and closes it. PortAudio's Stop waits for pending
// callbacks to finish, which gives the caller the teardown ordering it needs
// before releasing the handler's buffers.
func (p *paStream) Stop() error {
	stopErr := p.s.Stop()
	closeErr := p.s.Close()
	p.once.Do(func() { close(p.errs) })
	if stopErr != nil {
		return fmt.Errorf("failed to stop stream: %w", stopErr)
	}
	if closeErr != nil {
		return fmt.Errorf("failed to close stream: %w", closeErr)
	}
	return nil
}

func (p *paStream) Errors() <-chan error {
	return p.errs
}
