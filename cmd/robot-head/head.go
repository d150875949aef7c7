package main

import (
	"time"

	"github.com/sweeney/robot-head/internal/behavior"
	"github.com/sweeney/robot-head/internal/config"
	"github.com/sweeney/robot-head/internal/display"
	"github.com/sweeney/robot-head/internal/expression"
	"github.com/sweeney/robot-head/internal/motion"
	"github.com/sweeney/robot-head/internal/servo"
	"github.com/sweeney/robot-head/internal/status"
)

// frameStats is implemented by displays that count their output.
type frameStats interface {
	Stats() (presented, dropped, errs uint64)
	Headless() bool
}

// head bundles the per-tick components. Only the control loop touches it.
type head struct {
	sink     servo.Sink
	disp     display.Display
	motion   *motion.Controller
	face     *expression.Engine
	director *behavior.Director
}

// newHead initializes the servos (including the settle wait) and starts the
// face and behavior timers from the time initialization finished.
func newHead(sink servo.Sink, disp display.Display, cfg config.Config, rnd expression.Rand, now func() time.Time) *head {
	ctl := motion.NewController(sink, cfg.Motion)
	ctl.Initialize(now())

	t := now()
	face := expression.NewEngine(disp, cfg.Expression, rnd, t)
	return &head{
		sink:     sink,
		disp:     disp,
		motion:   ctl,
		face:     face,
		director: behavior.NewDirector(ctl, face, cfg.Behavior, t),
	}
}

// step runs one control loop iteration and returns the behavior events it produced.
func (h *head) step(t time.Time) []behavior.Event {
	events := h.director.Tick(t)
	h.motion.Tick(t)
	h.lookAhead()
	h.face.Tick(t)
	return events
}

// lookAhead points the eyes along the remaining travel of the head.
func (h *head) lookAhead() {
	pan, tilt := h.motion.Position()
	targetPan, targetTilt := h.motion.Target()
	h.face.LookAt(targetPan-pan, targetTilt-tilt)
}

// report copies the current state into the tracker.
func (h *head) report(tracker *status.Tracker) {
	pan, tilt := h.motion.Position()
	targetPan, targetTilt := h.motion.Target()
	gx, gy := h.face.Gaze()

	tracker.Update(status.Head{
		Pan:        pan,
		Tilt:       tilt,
		TargetPan:  targetPan,
		TargetTilt: targetTilt,
		PanRange:   h.motion.Calibration(servo.Pan),
		TiltRange:  h.motion.Calibration(servo.Tilt),
		Breathing:  h.motion.Breathing(),
	}, status.Face{
		Mood:    h.face.Mood(),
		Blink:   h.face.BlinkPhase(),
		GazeX:   gx,
		GazeY:   gy,
		Gesture: h.director.Active(),
		Asleep:  h.director.Asleep(),
	})

	if fs, ok := h.disp.(frameStats); ok {
		presented, dropped, errs := fs.Stats()
		tracker.SetDisplay(status.DisplayStats{
			Headless: fs.Headless(),
			Frames:   presented,
			Dropped:  dropped,
			Errors:   errs,
		})
	}
}

// park moves the head straight to its calibrated center, blanks the face and
// lets both servos go limp.
func (h *head) park() {
	h.motion.ForceAngle(h.motion.Calibration(servo.Pan).Center, h.motion.Calibration(servo.Tilt).Center)
	h.disp.Clear()
	h.disp.Present()
	for _, axis := range servo.Axes {
		h.sink.Detach(axis)
	}
}
