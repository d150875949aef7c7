// Package gpio provides GPIO output lines with hardware abstraction.
// The real implementation uses the Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

// Line is a single digital output.
type Line interface {
	// Set drives the line to its active (true) or inactive (false) level.
	// Polarity is handled by the implementation, so callers think in
	// logical terms only.
	Set(active bool) error

	// Close releases the line.
	Close() error
}

// Default pin assignments (BCM numbering).
const (
	// DefaultPinServoOE drives the PCA9685 /OE input (active low).
	DefaultPinServoOE = 17

	// PinDisabled means no line is wired.
	PinDisabled = -1
)
