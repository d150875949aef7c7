// Package servo provides hobby-servo outputs with hardware abstraction.
// The real implementations drive a PCA9685 PWM board over I2C or a Pololu
// Maestro over USB serial. The fake implementation records writes for tests.
package servo

import "fmt"

// Axis identifies one rotational degree of freedom of the head.
type Axis int

const (
	Pan  Axis = iota // horizontal
	Tilt             // vertical
)

// Axes lists every axis in output order.
var Axes = [...]Axis{Pan, Tilt}

func (a Axis) String() string {
	switch a {
	case Pan:
		return "pan"
	case Tilt:
		return "tilt"
	default:
		return fmt.Sprintf("axis(%d)", int(a))
	}
}

// Angle limits accepted by every Sink.
const (
	MinAngle = 0
	MaxAngle = 180
)

// Sink receives commanded angles.
//
// Calls are synchronous and never fail from the caller's point of view:
// implementations log hardware errors and carry on, so the control loop is
// never interrupted by a flaky bus.
type Sink interface {
	// Attach starts driving the axis. Writes to a detached axis are remembered
	// but produce no pulses.
	Attach(axis Axis)

	// Detach stops the pulse train so the servo goes limp.
	Detach(axis Axis)

	// Write commands an absolute angle in degrees, clamped to [MinAngle, MaxAngle].
	Write(axis Axis, angle int)
}

// Closer is implemented by sinks that hold hardware resources.
type Closer interface {
	Close() error
}

func clampAngle(angle int) int {
	if angle < MinAngle {
		return MinAngle
	}
	if angle > MaxAngle {
		return MaxAngle
	}
	return angle
}
