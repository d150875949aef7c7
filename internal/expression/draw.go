package expression

import "github.com/sweeney/robot-head/internal/display"

// openness is the half-height of the eye drawn for a blink phase.
func openness(p BlinkPhase) int {
	switch p {
	case Closing:
		return 4
	case Closed:
		return 0
	case Opening:
		return EyeRadius / 2
	default:
		return EyeRadius
	}
}

// drawEye draws an eye of radius r squeezed to half-height h:
// a double line when closed, a circle when fully open and a
// rounded rectangle in between.
func drawEye(d display.Display, x, y, r, h int) {
	switch {
	case h <= 0:
		d.Line(x-r, y, x+r, y, display.White)
		d.Line(x-r, y+1, x+r, y+1, display.White)
	case h >= r:
		d.FillCircle(x, y, r, display.White)
	default:
		d.FillRoundRect(x-r, y-h, 2*r, 2*h, h, display.White)
	}
}

// drawHappyEye draws an upward arch: a circle with its lower part masked out.
func drawHappyEye(d display.Display, x, y int) {
	d.FillCircle(x, y, EyeRadius, display.White)
	d.FillCircle(x, y+5, EyeRadius-2, display.Black)
	d.FillRect(x-EyeRadius, y+5, 2*EyeRadius, EyeRadius, display.Black)
}
