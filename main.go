// ABOUTME: Entry point for the loopline audio bridge
// ABOUTME: Parses CLI flags, selects devices, runs loopback or file playback
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/loopline-audio/loopline-go/internal/ui"
	"github.com/loopline-audio/loopline-go/pkg/audio"
	"github.com/loopline-audio/loopline-go/pkg/audio/bridge"
	"github.com/loopline-audio/loopline-go/pkg/audio/decode"
	"github.com/loopline-audio/loopline-go/pkg/audio/device"
	"github.com/loopline-audio/loopline-go/pkg/audio/output"
)

var (
	listDevices = flag.Bool("list", false, "List audio devices and exit")
	inputIdx    = flag.Int("input", -1, "Input device index (skip the picker)")
	outputIdx   = flag.Int("output", -1, "Output device index (skip the picker)")
	playFile    = flag.String("play", "", "Play a WAV/MP3/FLAC file instead of bridging")
	toneHz      = flag.Float64("tone", 0, "Play a generated sine tone at the given frequency")
	toneSecs    = flag.Int("tone-seconds", 3, "Tone duration in seconds")
	backendName = flag.String("backend", "portaudio", "Playback backend: portaudio or oto")
	sampleKind  = flag.String("format", "float32", "Wire sample format: float32 or int16")
	frames      = flag.Int("frames", 1024, "Frames per device block (advisory)")
	ringFrames  = flag.Int("ring-frames", 0, "Per-channel ring capacity in frames (default 2x -frames)")
	noTUI       = flag.Bool("no-tui", false, "Use the default devices instead of the picker")
	logFile     = flag.String("log-file", "", "Also append logs to this file")
)

func main() {
	flag.Parse()

	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
		if err != nil {
			log.Fatalf("error opening log file: %v", err)
		}
		defer func() { _ = f.Close() }()
		log.SetOutput(io.MultiWriter(os.Stdout, f))
	}

	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	if err := device.Initialize(); err != nil {
		return err
	}
	defer func() { _ = device.Terminate() }()

	devices, err := device.Devices()
	if err != nil {
		return err
	}

	if *listDevices {
		ui.List(os.Stdout, devices)
		return nil
	}

	kind, err := parseKind(*sampleKind)
	if err != nil {
		return err
	}

	if *playFile != "" || *toneHz > 0 {
		return runPlayback(devices, kind)
	}
	return runLoopback(devices, kind)
}

func parseKind(name string) (audio.SampleKind, error) {
	switch name {
	case "float32":
		return audio.KindFloat32, nil
	case "int16":
		return audio.KindInt16, nil
	default:
		return 0, fmt.Errorf("unknown sample format %q (float32 or int16)", name)
	}
}

// selectDevices resolves the input and output devices from flags, defaults,
// or the interactive picker.
func selectDevices(devices []device.Info) (in, out device.Info, err error) {
	if *inputIdx >= 0 && *outputIdx >= 0 {
		if *inputIdx >= len(devices) || *outputIdx >= len(devices) {
			return in, out, fmt.Errorf("device index out of range (0-%d)", len(devices)-1)
		}
		return devices[*inputIdx], devices[*outputIdx], nil
	}

	if *noTUI {
		in, err = device.DefaultInput()
		if err != nil {
			return in, out, err
		}
		out, err = device.DefaultOutput()
		return in, out, err
	}

	sel, err := ui.Pick(devices)
	if err != nil {
		return in, out, err
	}
	return sel.Input, sel.Output, nil
}

func runLoopback(devices []device.Info, kind audio.SampleKind) error {
	inDev, outDev, err := selectDevices(devices)
	if err != nil {
		return err
	}
	log.Printf("Input device:  [%d] %s", inDev.Index, inDev.Name)
	log.Printf("Output device: [%d] %s", outDev.Index, outDev.Name)

	inFormat := audio.Format{
		SampleRate: int(inDev.DefaultSampleRate),
		Channels:   clampChannels(inDev.MaxInputChannels),
		Kind:       kind,
	}
	outFormat := audio.Format{
		SampleRate: int(outDev.DefaultSampleRate),
		Channels:   clampChannels(outDev.MaxOutputChannels),
		Kind:       kind,
	}

	in, err := device.NewCaptureDevice(inDev, inFormat, *frames)
	if err != nil {
		return err
	}
	out, err := device.NewRenderDevice(outDev, outFormat, *frames)
	if err != nil {
		return err
	}

	deviceFailed := make(chan error, 1)
	b := bridge.New(bridge.Config{
		RingFrames: *ringFrames,
		FrameHint:  *frames,
		OnError: func(err error) {
			deviceFailed <- err
		},
	})

	log.Printf("Stream config: input %s, output %s", inFormat, outFormat)
	if err := b.Start(in, out); err != nil {
		return fmt.Errorf("failed to start bridge: %w", err)
	}
	defer func() { _ = b.Stop() }()

	log.Printf("Streaming started. Press Enter or Ctrl+C to exit.")
	waitUntilDone(deviceFailed, func() string {
		stats := b.Stats()
		return fmt.Sprintf("overruns=%d underruns=%d", stats.Overruns, stats.Underruns)
	})

	stats := b.Stats()
	log.Printf("Final stats: overruns=%d underruns=%d", stats.Overruns, stats.Underruns)
	return b.Stop()
}

func runPlayback(devices []device.Info, kind audio.SampleKind) error {
	src, err := loadSource()
	if err != nil {
		return err
	}
	log.Printf("Source: %s, %v", src.Format(), src.Duration().Round(time.Millisecond))

	if *backendName == "oto" {
		out := output.NewOto()
		if err := out.Open(src.Format()); err != nil {
			return err
		}
		defer func() { _ = out.Close() }()
		return out.Play(src)
	}

	outDev, err := pickOutput(devices)
	if err != nil {
		return err
	}
	log.Printf("Output device: [%d] %s", outDev.Index, outDev.Name)

	outFormat := audio.Format{
		SampleRate: src.Rate(),
		Channels:   src.Channels(),
		Kind:       kind,
	}
	out, err := device.NewRenderDevice(outDev, outFormat, *frames)
	if err != nil {
		return err
	}

	deviceFailed := make(chan error, 1)
	p := bridge.NewPlayer()
	p.OnError = func(err error) {
		deviceFailed <- err
	}
	if err := p.Start(out, src); err != nil {
		return fmt.Errorf("failed to start playback: %w", err)
	}
	defer func() { _ = p.Stop() }()

	// Poll for the source draining; give the device one extra block of
	// lead-out so the tail is not clipped.
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sig)

	for {
		select {
		case err := <-deviceFailed:
			return fmt.Errorf("device failure during playback: %w", err)
		case <-sig:
			log.Printf("Interrupted.")
			return p.Stop()
		case <-ticker.C:
			if p.Exhausted() {
				time.Sleep(200 * time.Millisecond)
				return p.Stop()
			}
		}
	}
}

func loadSource() (*bridge.Source, error) {
	if *playFile != "" {
		clip, err := decode.File(*playFile)
		if err != nil {
			return nil, err
		}
		return bridge.NewSource(clip.Samples, clip.Format.Channels, clip.Format.SampleRate)
	}
	return bridge.Tone(*toneHz, time.Duration(*toneSecs)*time.Second, 48000), nil
}

// pickOutput resolves the playback device: an explicit index wins, otherwise
// the host default. Playback never needs the two-phase picker.
func pickOutput(devices []device.Info) (device.Info, error) {
	if *outputIdx >= 0 {
		if *outputIdx >= len(devices) {
			return device.Info{}, fmt.Errorf("device index out of range (0-%d)", len(devices)-1)
		}
		return devices[*outputIdx], nil
	}
	return device.DefaultOutput()
}

// clampChannels limits a device channel count to the stereo bridge's reach.
func clampChannels(max int) int {
	if max > 2 {
		return 2
	}
	return max
}

// waitUntilDone blocks until Enter, an interrupt, or a device failure,
// logging stats periodically.
func waitUntilDone(deviceFailed <-chan error, stats func() string) {
	enter := make(chan struct{})
	go func() {
		reader := bufio.NewReader(os.Stdin)
		_, _ = reader.ReadString('\n')
		close(enter)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sig)

	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-enter:
			return
		case <-sig:
			log.Printf("Interrupted.")
			return
		case err := <-deviceFailed:
			log.Printf("Device failure: %v", err)
			return
		case <-ticker.C:
			log.Printf("Stats: %s", stats())
		}
	}
}
