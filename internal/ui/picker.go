// ABOUTME: Picker entry point and plain-text device listing
// ABOUTME: Runs the bubbletea program and extracts the final selection
package ui

import (
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/loopline-audio/loopline-go/pkg/audio/device"
)

// Pick runs the interactive device picker and returns the chosen devices
func Pick(devices []device.Info) (Selection, error) {
	p := tea.NewProgram(NewModel(devices))
	final, err := p.Run()
	if err != nil {
		return Selection{}, fmt.Errorf("device picker failed: %w", err)
	}

	m, ok := final.(Model)
	if !ok {
		return Selection{}, fmt.Errorf("device picker returned unexpected model %T", final)
	}
	return m.Selection()
}

// List writes a plain device listing, one line per device
func List(w io.Writer, devices []device.Info) {
	if len(devices) == 0 {
		fmt.Fprintln(w, "No audio devices found.")
		return
	}

	fmt.Fprintf(w, "Available audio devices (%d found)\n\n", len(devices))
	for _, d := range devices {
		fmt.Fprintf(w, "[%d] %s (in: %d, out: %d, default rate: %.0f Hz)\n",
			d.Index, d.Name, d.MaxInputChannels, d.MaxOutputChannels, d.DefaultSampleRate)
	}
}
