package servo

import (
	"fmt"
	"strings"
)

// Driver names a Sink implementation selectable from the command line.
type Driver string

const (
	DriverPCA9685 Driver = "pca9685"
	DriverMaestro Driver = "maestro"
	DriverNone    Driver = "none"
)

// ParseDriver maps a flag value onto a Driver.
func ParseDriver(s string) (Driver, error) {
	switch d := Driver(strings.ToLower(strings.TrimSpace(s))); d {
	case DriverPCA9685, DriverMaestro, DriverNone:
		return d, nil
	case "":
		return DriverNone, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownDriver, s)
	}
}
