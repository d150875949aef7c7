package servo

import (
	"errors"
	"fmt"
	"log"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/pca9685"
	"periph.io/x/host/v3"

	outputs "github.com/sweeney/robot-head/internal/gpio"
)

// DefaultPCA9685Addr is the board address with no solder jumpers set.
const DefaultPCA9685Addr uint16 = 0x40

const (
	pwmFrequency  = 50 * physic.Hertz
	pwmPeriod     = 20 * time.Millisecond
	pwmResolution = 4096
)

// PCA9685 drives servos from a PCA9685 16-channel PWM board.
type PCA9685 struct {
	dev      *pca9685.Dev
	channels [len(Axes)]int
	pulses   PulseRange
	enable   outputs.Line // optional /OE line, logical active = outputs on
	bus      i2c.BusCloser // set when the board owns its bus

	attached [len(Axes)]bool
	errs     errorLog
}

// OpenPCA9685 opens the named I2C bus ("" for the default) and configures the
// board on it. The bus and enable line are released by Close.
func OpenPCA9685(busName string, addr uint16, channels [len(Axes)]int, pulses PulseRange, enable outputs.Line) (*PCA9685, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init host drivers: %w", err)
	}
	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("open i2c bus %q: %w", busName, err)
	}
	p, err := NewPCA9685(bus, addr, channels, pulses, enable)
	if err != nil {
		bus.Close()
		return nil, err
	}
	p.bus = bus
	return p, nil
}

// NewPCA9685 configures the board at addr on bus for 50 Hz servo pulses.
// channels maps each axis to a board channel. enable may be nil.
func NewPCA9685(bus i2c.Bus, addr uint16, channels [len(Axes)]int, pulses PulseRange, enable outputs.Line) (*PCA9685, error) {
	dev, err := pca9685.NewI2C(bus, addr)
	if err != nil {
		return nil, fmt.Errorf("open pca9685 at %#x: %w", addr, err)
	}
	if err := dev.SetPwmFreq(pwmFrequency); err != nil {
		return nil, fmt.Errorf("set pwm frequency: %w", err)
	}
	return &PCA9685{
		dev:      dev,
		channels: channels,
		pulses:   pulses,
		enable:   enable,
	}, nil
}

// Attach marks the axis as driven and enables the board outputs.
func (p *PCA9685) Attach(axis Axis) {
	if !validAxis(axis) {
		return
	}
	p.attached[axis] = true
	p.updateEnable()
}

// Detach drops the pulse train on the axis channel. When no axis is left
// attached the board outputs are disabled as well.
func (p *PCA9685) Detach(axis Axis) {
	if !validAxis(axis) {
		return
	}
	p.attached[axis] = false
	if err := p.dev.SetPwm(p.channels[axis], 0, 0); err != nil && p.errs.shouldLog() {
		log.Printf("servo: detach %s: %v (errors=%d)", axis, err, p.errs.count)
	}
	p.updateEnable()
}

// Write sets the channel duty cycle for angle. Writes to a detached axis are dropped.
func (p *PCA9685) Write(axis Axis, angle int) {
	if !validAxis(axis) || !p.attached[axis] {
		return
	}
	off := dutyCounts(p.pulses.Width(angle))
	if err := p.dev.SetPwm(p.channels[axis], 0, off); err != nil && p.errs.shouldLog() {
		log.Printf("servo: write %s=%d: %v (errors=%d)", axis, angle, err, p.errs.count)
	}
}

// Close stops all channels, disables the outputs and releases the enable
// line and any owned bus.
func (p *PCA9685) Close() error {
	for _, axis := range Axes {
		p.Detach(axis)
	}
	var errs []error
	if p.enable != nil {
		errs = append(errs, p.enable.Close())
	}
	if p.bus != nil {
		errs = append(errs, p.bus.Close())
	}
	return errors.Join(errs...)
}

func (p *PCA9685) updateEnable() {
	if p.enable == nil {
		return
	}
	on := false
	for _, a := range p.attached {
		on = on || a
	}
	if err := p.enable.Set(on); err != nil && p.errs.shouldLog() {
		log.Printf("servo: output enable=%v: %v", on, err)
	}
}

// dutyCounts converts a pulse width into PCA9685 off-counts at 50 Hz.
func dutyCounts(width time.Duration) gpio.Duty {
	return gpio.Duty(int64(width) * pwmResolution / int64(pwmPeriod))
}

func validAxis(axis Axis) bool {
	return axis >= 0 && int(axis) < len(Axes)
}
