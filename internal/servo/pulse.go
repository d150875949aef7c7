package servo

import "time"

// PulseRange maps angles onto pulse widths.
type PulseRange struct {
	Min time.Duration // pulse at MinAngle
	Max time.Duration // pulse at MaxAngle
}

// DefaultPulseRange covers a typical 180 degree hobby servo.
var DefaultPulseRange = PulseRange{Min: 500 * time.Microsecond, Max: 2500 * time.Microsecond}

// Width returns the pulse width for angle (clamped to [MinAngle, MaxAngle]).
func (p PulseRange) Width(angle int) time.Duration {
	angle = clampAngle(angle)
	span := p.Max - p.Min
	return p.Min + span*time.Duration(angle)/MaxAngle
}

// errorLog throttles repeated hardware errors: the first one and every
// hundredth after that are logged.
type errorLog struct {
	count uint64
}

func (e *errorLog) shouldLog() bool {
	e.count++
	return e.count%100 == 1
}
