package display

import (
	"errors"
	"fmt"
	"image"
	"log"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/host/v3"
)

// PanelAddrs are the SSD1306 I2C addresses probed by OpenPanel, in order.
var PanelAddrs = []uint16{0x3C, 0x3D}

// busSpeed keeps transfers reliable next to noisy servo wiring.
const busSpeed = 100 * physic.KiloHertz

// OLED is an SSD1306 panel on an I2C bus.
type OLED struct {
	dev *ssd1306.Dev
	bus i2c.BusCloser
}

// OpenPanel opens the named I2C bus ("" for the default) and probes
// PanelAddrs for an SSD1306. The bus is closed if no panel answers.
func OpenPanel(busName string) (*OLED, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init host drivers: %w", err)
	}
	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("open i2c bus %q: %w", busName, err)
	}
	if err := bus.SetSpeed(busSpeed); err != nil {
		log.Printf("display: cannot set bus speed, using bus default: %v", err)
	}

	var errs []error
	for _, addr := range PanelAddrs {
		dev, err := ssd1306.NewI2C(fixedAddr{Bus: bus, addr: addr}, &ssd1306.Opts{W: Width, H: Height})
		if err != nil {
			log.Printf("display: no panel at %#x: %v", addr, err)
			errs = append(errs, fmt.Errorf("%#x: %w", addr, err))
			continue
		}
		log.Printf("display: ssd1306 found at %#x", addr)
		return &OLED{dev: dev, bus: bus}, nil
	}
	bus.Close()
	return nil, fmt.Errorf("open ssd1306: %w", errors.Join(errs...))
}

// Draw writes src to the panel.
func (o *OLED) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	return o.dev.Draw(r, src, sp)
}

// Halt blanks the panel and releases the bus.
func (o *OLED) Halt() error {
	return errors.Join(o.dev.Halt(), o.bus.Close())
}

// fixedAddr pins every transfer to one device address.
type fixedAddr struct {
	i2c.Bus
	addr uint16
}

func (b fixedAddr) Tx(_ uint16, w, r []byte) error {
	return b.Bus.Tx(b.addr, w, r)
}
