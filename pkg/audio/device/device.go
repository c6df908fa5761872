// ABOUTME: Device collaborator interfaces
// ABOUTME: Capture/render endpoints, stream handles and async error delivery
package device

import "github.com/loopline-audio/loopline-go/pkg/audio"

// CaptureHandler receives input blocks on the device's capture thread.
// Exactly one of the Process methods is invoked per block, chosen by the
// stream's sample kind. Implementations run inside a real-time callback and
// must not allocate, lock, or block.
type CaptureHandler interface {
	ProcessFloat32(in []float32)
	ProcessInt16(in []int16)
}

// RenderHandler fills output blocks on the device's render thread under the
// same real-time constraints. The handler must fully populate the block
// before returning.
type RenderHandler interface {
	ProcessFloat32(out []float32)
	ProcessInt16(out []int16)
}

// Stream is a running device stream handle.
type Stream interface {
	// Start begins callback invocation.
	Start() error
	// Stop halts callback invocation and returns only once no callback is
	// in flight, so the caller may release anything the handler references.
	Stop() error
	// Errors delivers asynchronous stream-level failures such as a device
	// disappearing. The channel is closed by Stop.
	Errors() <-chan error
}

// CaptureEndpoint is a selected input device bound to a negotiated format.
type CaptureEndpoint interface {
	Format() audio.Format
	OpenCapture(h CaptureHandler) (Stream, error)
}

// RenderEndpoint is a selected output device bound to a negotiated format.
type RenderEndpoint interface {
	Format() audio.Format
	OpenRender(h RenderHandler) (Stream, error)
}
