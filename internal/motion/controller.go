// Package motion moves the pan/tilt servos toward commanded targets at a
// constant rate, inside a calibratable safe range.
//
// The Controller is not safe for concurrent use. It is owned by the control
// loop, which calls Tick on every iteration; everything else reads copies.
package motion

import (
	"math"
	"time"

	"github.com/sweeney/robot-head/internal/servo"
	"github.com/sweeney/robot-head/internal/timing"
)

// AxisConfig is the start-up calibration of one axis.
type AxisConfig struct {
	Center  int `yaml:"center"`
	Offset  int `yaml:"offset"`  // half-width of the safe range
	Default int `yaml:"default"` // bring-up angle, clamped into the safe range
}

// Config holds the controller tuning.
type Config struct {
	Pan      AxisConfig    `yaml:"pan"`
	Tilt     AxisConfig    `yaml:"tilt"`
	Step     float64       `yaml:"step"`     // degrees per tick
	Interval time.Duration `yaml:"interval"` // minimum time between ticks
	Settle   time.Duration `yaml:"settle"`   // detached wait during Initialize
}

// DefaultConfig returns the tuning used when nothing is configured.
// Tilt starts a little below center, away from the back stop.
func DefaultConfig() Config {
	return Config{
		Pan:      AxisConfig{Center: 90, Offset: 20, Default: 90},
		Tilt:     AxisConfig{Center: 80, Offset: 15, Default: 70},
		Step:     1.0,
		Interval: 10 * time.Millisecond,
		Settle:   500 * time.Millisecond,
	}
}

// Calibration is the safe operating range of one axis.
type Calibration struct {
	Center int `json:"center"`
	Min    int `json:"min"`
	Max    int `json:"max"`
}

type axisState struct {
	current float64
	target  int
	center  int
	offset  int
	min     int
	max     int
	def     int

	// pinned is set by ForceAngle so the axis holds the forced angle
	// even when it lies outside [min, max].
	pinned bool
}

func (a *axisState) updateLimits() {
	a.min = a.center - a.offset
	a.max = a.center + a.offset
}

// Controller owns the commanded and current angle of each axis.
type Controller struct {
	sink      servo.Sink
	axes      [len(servo.Axes)]axisState
	step      float64
	ticker    timing.Deadline
	settle    time.Duration
	breathing int

	// sleep is used once by Initialize; tests replace it.
	sleep func(time.Duration)
}

// NewController creates a controller writing to sink. Nothing is written
// until Initialize is called.
func NewController(sink servo.Sink, cfg Config) *Controller {
	c := &Controller{
		sink:   sink,
		step:   cfg.Step,
		ticker: timing.NewDeadline(cfg.Interval),
		settle: cfg.Settle,
		sleep:  time.Sleep,
	}
	if !(c.step > 0) || math.IsInf(c.step, 0) {
		c.step = DefaultConfig().Step
	}
	for i, ac := range [...]AxisConfig{cfg.Pan, cfg.Tilt} {
		a := &c.axes[i]
		a.center = ac.Center
		a.offset = max(ac.Offset, 0)
		a.def = ac.Default
		a.updateLimits()
		a.def = timing.Clamp(a.def, a.min, a.max)
		a.current = float64(a.def)
		a.target = a.def
	}
	return c
}

// Initialize runs the safe bring-up sequence: release both servos, wait for
// the supply to settle, re-attach and command both axes straight to their
// default angle. It blocks for the settle interval and must be called before
// the control loop starts.
func (c *Controller) Initialize(now time.Time) {
	for _, axis := range servo.Axes {
		c.sink.Detach(axis)
	}
	if c.settle > 0 {
		c.sleep(c.settle)
	}
	for _, axis := range servo.Axes {
		c.sink.Attach(axis)
	}
	for i, axis := range servo.Axes {
		a := &c.axes[i]
		a.updateLimits()
		a.def = timing.Clamp(a.def, a.min, a.max)
		a.current = float64(a.def)
		a.target = a.def
		a.pinned = false
		c.sink.Write(axis, a.def)
	}
	c.ticker.Reset(now)
}

// SetTarget stores new targets, each clamped to its axis range.
// Motion happens on later ticks.
func (c *Controller) SetTarget(pan, tilt int) {
	for i, v := range [...]int{pan, tilt} {
		a := &c.axes[i]
		a.target = timing.Clamp(v, a.min, a.max)
		a.pinned = false
	}
}

// Center targets the calibrated center of both axes.
func (c *Controller) Center() {
	c.SetTarget(c.axes[servo.Pan].center, c.axes[servo.Tilt].center)
}

// ForceAngle writes both angles immediately, skipping interpolation and the
// calibration clamp. Only the sink's mechanical 0-180 limit still applies.
// Use it to abort a motion or to find the limits of a new head.
func (c *Controller) ForceAngle(pan, tilt int) {
	for i, v := range [...]int{pan, tilt} {
		a := &c.axes[i]
		c.sink.Write(servo.Axes[i], v)
		a.current = float64(v)
		a.target = v
		a.pinned = true
	}
}

// Trim shifts the calibrated centers and with them the safe ranges.
// Targets are re-clamped into the new ranges, except on axes pinned by
// ForceAngle. The servos do not move until the next Tick.
func (c *Controller) Trim(dPan, dTilt int) {
	for i, d := range [...]int{dPan, dTilt} {
		a := &c.axes[i]
		a.center += d
		a.updateLimits()
		if !a.pinned {
			a.target = timing.Clamp(a.target, a.min, a.max)
		}
	}
}

// SetSpeed sets the time between steps. Smaller is faster.
func (c *Controller) SetSpeed(interval time.Duration) {
	c.ticker.SetInterval(interval)
}

// Speed returns the time between steps.
func (c *Controller) Speed() time.Duration {
	return c.ticker.Interval()
}

// SetBreathing sets the offset added to the tilt target from the next tick on.
func (c *Controller) SetBreathing(offset int) {
	c.breathing = offset
}

// Breathing returns the current tilt offset.
func (c *Controller) Breathing() int {
	return c.breathing
}

// Tick advances each axis one step toward its effective target if the step
// interval has elapsed. It reports whether any servo was written.
func (c *Controller) Tick(now time.Time) bool {
	if !c.ticker.Fire(now) {
		return false
	}
	moved := false
	for i, axis := range servo.Axes {
		a := &c.axes[i]
		goal := a.target
		if axis == servo.Tilt && !a.pinned {
			goal = timing.Clamp(goal+c.breathing, a.min, a.max)
		}
		diff := float64(goal) - a.current
		if math.Abs(diff) <= c.step/2 {
			continue
		}
		a.current += math.Copysign(math.Min(c.step, math.Abs(diff)), diff)
		c.sink.Write(axis, round(a.current))
		moved = true
	}
	return moved
}

// Position returns the current commanded angles, rounded.
func (c *Controller) Position() (pan, tilt int) {
	return round(c.axes[servo.Pan].current), round(c.axes[servo.Tilt].current)
}

// Target returns the stored targets without the breathing offset.
func (c *Controller) Target() (pan, tilt int) {
	return c.axes[servo.Pan].target, c.axes[servo.Tilt].target
}

// Calibration returns the safe range of axis.
func (c *Controller) Calibration(axis servo.Axis) Calibration {
	if axis < 0 || int(axis) >= len(c.axes) {
		return Calibration{}
	}
	a := c.axes[axis]
	return Calibration{Center: a.center, Min: a.min, Max: a.max}
}

func round(v float64) int {
	return int(math.Round(v))
}
