// Package expression draws the robot's face: a mood selector, a gaze offset,
// a blink automaton and the sleep animation.
//
// The Engine is not safe for concurrent use. It is owned by the control loop.
package expression

import (
	"time"

	"github.com/sweeney/robot-head/internal/display"
	"github.com/sweeney/robot-head/internal/timing"
)

// Face layout in panel pixels.
const (
	EyeRadius  = 16
	EyeSpacing = 36
	CenterX    = display.Width / 2
	CenterY    = display.Height / 2
)

// Gaze limits accepted by LookAt.
const (
	MaxGazeX = 15
	MaxGazeY = 10
)

// Config holds the engine timing.
type Config struct {
	FrameInterval time.Duration `yaml:"frame_interval"` // minimum time between frames
	BlinkFirst    time.Duration `yaml:"blink_first"`    // wait before the first blink
	BlinkMin      time.Duration `yaml:"blink_min"`      // shortest gap between blinks
	BlinkMax      time.Duration `yaml:"blink_max"`      // longest gap between blinks (exclusive)
	SleepFrame    time.Duration `yaml:"sleep_frame"`    // period of the zzz animation
}

// DefaultConfig returns the timing used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		FrameInterval: 40 * time.Millisecond,
		BlinkFirst:    3 * time.Second,
		BlinkMin:      2 * time.Second,
		BlinkMax:      5 * time.Second,
		SleepFrame:    500 * time.Millisecond,
	}
}

// zzzFrames are the sleep cue glyphs and their positions, one per frame.
var zzzFrames = [...]struct {
	x, y  int
	glyph string
}{
	{100, 20, "z"},
	{108, 12, "Z"},
	{116, 4, "Z"},
}

// Engine renders the face for the current mood.
type Engine struct {
	disp  display.Display
	mood  Mood
	gazeX int
	gazeY int

	blink    Blink
	frame    timing.Deadline
	zzz      timing.Deadline
	zzzFrame int
}

// NewEngine creates an engine in the Normal mood with the eyes centered.
// now is the baseline for the first blink and the zzz animation.
func NewEngine(disp display.Display, cfg Config, rnd Rand, now time.Time) *Engine {
	e := &Engine{
		disp:  disp,
		blink: NewBlink(cfg.BlinkFirst, cfg.BlinkMin, cfg.BlinkMax, rnd),
		frame: timing.NewDeadline(cfg.FrameInterval),
		zzz:   timing.NewDeadline(cfg.SleepFrame),
	}
	e.blink.Reset(now)
	e.zzz.Reset(now)
	return e
}

// SetMood switches the mood. Setting Normal restarts the blink timer from now
// with the eyes open. Unknown values fall back to Normal.
func (e *Engine) SetMood(m Mood, now time.Time) {
	if !m.Valid() {
		m = Normal
	}
	e.mood = m
	if m == Normal {
		e.blink.Reset(now)
	}
}

// Mood returns the current mood.
func (e *Engine) Mood() Mood {
	return e.mood
}

// LookAt moves both eyes by (x, y) pixels, limited to ±MaxGazeX and ±MaxGazeY.
func (e *Engine) LookAt(x, y int) {
	e.gazeX = timing.Clamp(x, -MaxGazeX, MaxGazeX)
	e.gazeY = timing.Clamp(y, -MaxGazeY, MaxGazeY)
}

// Gaze returns the current gaze offset.
func (e *Engine) Gaze() (x, y int) {
	return e.gazeX, e.gazeY
}

// BlinkPhase returns the phase drawn in the last Normal frame.
func (e *Engine) BlinkPhase() BlinkPhase {
	return e.blink.Phase()
}

// SleepFrame returns the index of the zzz glyph currently shown.
func (e *Engine) SleepFrame() int {
	return e.zzzFrame
}

// Tick draws a frame if the frame interval has elapsed and reports whether it did.
func (e *Engine) Tick(now time.Time) bool {
	if !e.frame.Fire(now) {
		return false
	}

	lx := CenterX - EyeSpacing/2 + e.gazeX
	rx := CenterX + EyeSpacing/2 + e.gazeX
	y := CenterY + e.gazeY

	e.disp.Clear()
	switch e.mood {
	case Sleep:
		drawEye(e.disp, lx, y, EyeRadius, 0)
		drawEye(e.disp, rx, y, EyeRadius, 0)
		e.drawZzz(now)
	case Happy:
		drawHappyEye(e.disp, lx, y)
		drawHappyEye(e.disp, rx, y)
	case Confused:
		e.disp.FillCircle(lx, y, EyeRadius, display.White)
		e.disp.FillCircle(rx, y, EyeRadius/2, display.White)
		e.disp.Line(lx-10, y-20, lx+10, y-25, display.White)
	case Normal:
		h := openness(e.blink.Step(now))
		drawEye(e.disp, lx, y, EyeRadius, h)
		drawEye(e.disp, rx, y, EyeRadius, h)
	default:
		// SetMood never stores an invalid mood; draw plain open eyes.
		drawEye(e.disp, lx, y, EyeRadius, EyeRadius)
		drawEye(e.disp, rx, y, EyeRadius, EyeRadius)
	}
	e.disp.Present()
	return true
}

func (e *Engine) drawZzz(now time.Time) {
	if e.zzz.Fire(now) {
		e.zzzFrame = (e.zzzFrame + 1) % len(zzzFrames)
	}
	f := zzzFrames[e.zzzFrame]
	e.disp.Text(f.x, f.y, f.glyph, display.White)
}
