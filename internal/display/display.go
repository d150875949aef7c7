// Package display provides the face's drawing surface with hardware abstraction.
// The real implementation rasterizes into an in-memory frame and pushes it to
// an SSD1306 OLED over I2C. The Recorder implementation captures draw calls
// for tests.
package display

import "image/color"

// Panel geometry in pixels.
const (
	Width  = 128
	Height = 64
)

// Color is a monochrome pixel value.
type Color uint8

const (
	Black Color = iota
	White
)

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

func (c Color) rgba() color.Color {
	if c == White {
		return color.White
	}
	return color.Black
}

// Display receives primitive draw calls. A frame is Clear, any number of
// draw calls, then Present. Implementations must not block in Present.
type Display interface {
	Clear()
	FillCircle(x, y, r int, c Color)
	FillRect(x, y, w, h int, c Color)
	FillRoundRect(x, y, w, h, r int, c Color)
	Line(x0, y0, x1, y1 int, c Color)

	// Text draws s with its top-left corner at (x, y).
	Text(x, y int, s string, c Color)

	Present()
}
