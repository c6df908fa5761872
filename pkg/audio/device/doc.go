// ABOUTME: Device collaborator package wrapping PortAudio
// ABOUTME: Enumeration plus capture/render endpoints with typed callbacks
// Package device supplies the audio hardware collaborator for the bridge.
//
// It wraps PortAudio behind two small endpoint types: a CaptureDevice opens
// an input-only stream that pushes blocks into a CaptureHandler, and a
// RenderDevice opens an output-only stream that pulls blocks from a
// RenderHandler. The handler method invoked per block matches the stream's
// negotiated sample kind, so no per-sample type switching happens on the hot
// path.
//
// PortAudio must be installed on the host:
//
//	macos:   brew install portaudio
//	debian:  sudo apt-get install portaudio19-dev
//	windows: pacman -S mingw-w64-x86_64-portaudio
package device
