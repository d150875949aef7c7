//go:build !linux

package gpio

import "errors"

var errUnsupported = errors.New("gpio: output lines need the Linux GPIO character device")

// RealLine is a placeholder on platforms without gpiocdev.
type RealLine struct{}

// NewRealLine always fails off Linux. Pass PinDisabled to run without an
// output-enable line.
func NewRealLine(pin int, activeLow bool) (*RealLine, error) {
	return nil, errUnsupported
}

func (r *RealLine) Set(active bool) error { return errUnsupported }

func (r *RealLine) Close() error { return nil }
