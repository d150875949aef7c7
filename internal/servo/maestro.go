package servo

import (
	"fmt"
	"io"
	"log"
	"time"

	"go.bug.st/serial"
)

// maestroSetTarget is the compact-protocol Set Target command.
const maestroSetTarget = 0x84

// DefaultMaestroBaud is the rate used when the Maestro is in USB dual-port mode.
const DefaultMaestroBaud = 9600

// Maestro drives servos from a Pololu Maestro over its command port.
type Maestro struct {
	port     io.WriteCloser
	channels [len(Axes)]int
	pulses   PulseRange

	attached [len(Axes)]bool
	errs     errorLog
}

// OpenMaestro opens the serial command port at path.
func OpenMaestro(path string, baud int, channels [len(Axes)]int, pulses PulseRange) (*Maestro, error) {
	if baud <= 0 {
		baud = DefaultMaestroBaud
	}
	port, err := serial.Open(path, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, fmt.Errorf("open maestro port %s: %w", path, err)
	}
	return NewMaestro(port, channels, pulses), nil
}

// NewMaestro wraps an already open command port.
func NewMaestro(port io.WriteCloser, channels [len(Axes)]int, pulses PulseRange) *Maestro {
	return &Maestro{port: port, channels: channels, pulses: pulses}
}

// Attach marks the axis as driven. Pulses resume on the next Write.
func (m *Maestro) Attach(axis Axis) {
	if validAxis(axis) {
		m.attached[axis] = true
	}
}

// Detach sends target 0, which makes the Maestro stop pulsing the channel.
func (m *Maestro) Detach(axis Axis) {
	if !validAxis(axis) {
		return
	}
	m.attached[axis] = false
	m.setTarget(axis, 0)
}

// Write sends the pulse width for angle. Writes to a detached axis are dropped.
func (m *Maestro) Write(axis Axis, angle int) {
	if !validAxis(axis) || !m.attached[axis] {
		return
	}
	m.setTarget(axis, quarterMicros(m.pulses.Width(angle)))
}

// Close detaches both axes and closes the port.
func (m *Maestro) Close() error {
	for _, axis := range Axes {
		m.Detach(axis)
	}
	return m.port.Close()
}

func (m *Maestro) setTarget(axis Axis, target uint16) {
	cmd := []byte{maestroSetTarget, byte(m.channels[axis]), byte(target & 0x7f), byte((target >> 7) & 0x7f)}
	if _, err := m.port.Write(cmd); err != nil && m.errs.shouldLog() {
		log.Printf("servo: maestro %s target=%d: %v (errors=%d)", axis, target, err, m.errs.count)
	}
}

// quarterMicros converts a pulse width into the Maestro's 0.25us target units.
func quarterMicros(width time.Duration) uint16 {
	return uint16(width * 4 / time.Microsecond)
}
