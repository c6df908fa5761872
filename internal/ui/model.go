// ABOUTME: Bubbletea model for interactive device selection
// ABOUTME: Two-phase list: pick the input device, then the output device
package ui

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/loopline-audio/loopline-go/pkg/audio/device"
)

// ErrAborted indicates the user quit the picker without selecting.
var ErrAborted = errors.New("device selection aborted")

// Selection holds the chosen input and output devices
type Selection struct {
	Input  device.Info
	Output device.Info
}

type phase int

const (
	phaseInput phase = iota
	phaseOutput
	phaseDone
)

// Model represents the picker state
type Model struct {
	devices []device.Info
	inputs  []int // indexes into devices with input channels
	outputs []int // indexes into devices with output channels

	phase     phase
	cursor    int
	selection Selection
	aborted   bool
}

// NewModel builds a picker over the given device list
func NewModel(devices []device.Info) Model {
	m := Model{devices: devices}
	for i, d := range devices {
		if d.MaxInputChannels > 0 {
			m.inputs = append(m.inputs, i)
		}
		if d.MaxOutputChannels > 0 {
			m.outputs = append(m.outputs, i)
		}
	}
	return m
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "q", "esc":
		m.aborted = true
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.current())-1 {
			m.cursor++
		}
	case "enter":
		return m.choose()
	}
	return m, nil
}

// current returns the candidate list for the active phase.
func (m Model) current() []int {
	if m.phase == phaseInput {
		return m.inputs
	}
	return m.outputs
}

func (m Model) choose() (Model, tea.Cmd) {
	candidates := m.current()
	if len(candidates) == 0 {
		m.aborted = true
		return m, tea.Quit
	}
	picked := m.devices[candidates[m.cursor]]

	switch m.phase {
	case phaseInput:
		m.selection.Input = picked
		m.phase = phaseOutput
		m.cursor = 0
	case phaseOutput:
		m.selection.Output = picked
		m.phase = phaseDone
		return m, tea.Quit
	}
	return m, nil
}

// View renders the picker
func (m Model) View() string {
	if m.phase == phaseDone {
		return ""
	}

	var b strings.Builder
	if m.phase == phaseInput {
		b.WriteString("Select input device:\n\n")
	} else {
		fmt.Fprintf(&b, "Input: %s\n\nSelect output device:\n\n", m.selection.Input.Name)
	}

	candidates := m.current()
	if len(candidates) == 0 {
		b.WriteString("  (no devices available)\n")
	}
	for row, idx := range candidates {
		d := m.devices[idx]
		marker := "  "
		if row == m.cursor {
			marker = "> "
		}
		channels := d.MaxInputChannels
		if m.phase == phaseOutput {
			channels = d.MaxOutputChannels
		}
		fmt.Fprintf(&b, "%s[%d] %s (%dch, %.0f Hz)\n", marker, d.Index, d.Name, channels, d.DefaultSampleRate)
	}

	b.WriteString("\n↑/↓ move · enter select · q quit\n")
	return b.String()
}

// Selection returns the chosen devices, or ErrAborted if the picker was
// quit before both were chosen.
func (m Model) Selection() (Selection, error) {
	if m.aborted || m.phase != phaseDone {
		return Selection{}, ErrAborted
	}
	return m.selection, nil
}
