// Package config loads the head's tuning from an optional YAML file.
//
// Compiled-in defaults are used for anything the file does not set. Gestures
// in the file are added to the default ones, replacing any with the same name.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sweeney/robot-head/internal/behavior"
	"github.com/sweeney/robot-head/internal/expression"
	"github.com/sweeney/robot-head/internal/motion"
	"github.com/sweeney/robot-head/internal/servo"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid config")

// maxChannel is the highest channel on a PCA9685 or a 24-channel Maestro.
const maxChannel = 23

// Config is the complete file-backed configuration.
type Config struct {
	Servo      Servo             `yaml:"servo"`
	Motion     motion.Config     `yaml:"motion"`
	Expression expression.Config `yaml:"expression"`
	Behavior   behavior.Config   `yaml:"behavior"`
}

// Servo maps axes to output channels and angles to pulse widths.
type Servo struct {
	PanChannel  int           `yaml:"pan_channel"`
	TiltChannel int           `yaml:"tilt_channel"`
	PulseMin    time.Duration `yaml:"pulse_min"`
	PulseMax    time.Duration `yaml:"pulse_max"`
}

// Channels returns the channel of each axis in servo.Axes order.
func (s Servo) Channels() [len(servo.Axes)]int {
	return [len(servo.Axes)]int{s.PanChannel, s.TiltChannel}
}

// Pulses returns the angle to pulse width mapping.
func (s Servo) Pulses() servo.PulseRange {
	return servo.PulseRange{Min: s.PulseMin, Max: s.PulseMax}
}

// Default returns the compiled-in configuration.
func Default() Config {
	return Config{
		Servo: Servo{
			PanChannel:  0,
			TiltChannel: 1,
			PulseMin:    servo.DefaultPulseRange.Min,
			PulseMax:    servo.DefaultPulseRange.Max,
		},
		Motion:     motion.DefaultConfig(),
		Expression: expression.DefaultConfig(),
		Behavior:   behavior.DefaultConfig(),
	}
}

// Load reads path on top of the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	cfg, err := Decode(f)
	if err != nil {
		return Config{}, fmt.Errorf("load %s: %w", path, err)
	}
	return cfg, nil
}

// Decode reads YAML from r on top of the defaults and validates the result.
// Unknown keys are rejected.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Marshal renders cfg as YAML.
func Marshal(cfg Config) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	return buf.Bytes(), nil
}

// Validate reports every problem found in cfg. Each error wraps ErrInvalid.
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
		}
	}

	s := c.Servo
	check(s.PanChannel >= 0 && s.PanChannel <= maxChannel, "servo.pan_channel %d out of range [0, %d]", s.PanChannel, maxChannel)
	check(s.TiltChannel >= 0 && s.TiltChannel <= maxChannel, "servo.tilt_channel %d out of range [0, %d]", s.TiltChannel, maxChannel)
	check(s.PanChannel != s.TiltChannel, "servo.pan_channel and servo.tilt_channel are both %d", s.PanChannel)
	check(s.PulseMin > 0 && s.PulseMin < s.PulseMax, "servo pulse range %v-%v", s.PulseMin, s.PulseMax)

	m := c.Motion
	for name, a := range map[string]motion.AxisConfig{"pan": m.Pan, "tilt": m.Tilt} {
		check(a.Center >= servo.MinAngle && a.Center <= servo.MaxAngle, "motion.%s.center %d out of range [0, 180]", name, a.Center)
		check(a.Offset >= 0 && a.Offset <= servo.MaxAngle/2, "motion.%s.offset %d out of range [0, 90]", name, a.Offset)
	}
	check(m.Step > 0 && m.Step <= servo.MaxAngle, "motion.step %v out of range (0, %d]", m.Step, servo.MaxAngle)
	check(m.Interval >= 0, "motion.interval must not be negative")
	check(m.Settle >= 0, "motion.settle must not be negative")

	e := c.Expression
	check(e.FrameInterval >= 0, "expression.frame_interval must not be negative")
	check(e.BlinkFirst >= 0, "expression.blink_first must not be negative")
	check(e.BlinkMin > 0 && e.BlinkMin <= e.BlinkMax, "expression blink range %v-%v", e.BlinkMin, e.BlinkMax)
	check(e.SleepFrame > 0, "expression.sleep_frame must be positive")

	b := c.Behavior
	check(b.Pause >= 0, "behavior.pause must not be negative")
	check(b.BreathAmplitude >= 0, "behavior.breath_amplitude must not be negative")
	check(b.BreathAmplitude == 0 || b.BreathPeriod > 0, "behavior.breath_period must be positive when breathing")
	check(b.IdleSleep >= 0, "behavior.idle_sleep must not be negative")
	for name, g := range b.Gestures {
		check(len(g.Steps) > 0, "gesture %q has no steps", name)
		for i, st := range g.Steps {
			check(st.Hold >= 0, "gesture %q step %d: hold must not be negative", name, i)
		}
		if g.Mood != nil {
			check(g.Mood.Valid(), "gesture %q: unknown mood", name)
		}
	}

	return errors.Join(errs...)
}
