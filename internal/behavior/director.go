// Package behavior layers life-like behavior on top of the motion and
// expression cores: scripted gestures, idle breathing and falling asleep.
//
// Like the cores it drives, the Director is polled from the control loop
// and never blocks.
package behavior

import (
	"log"
	"math"
	"slices"
	"time"

	"github.com/sweeney/robot-head/internal/expression"
	"github.com/sweeney/robot-head/internal/motion"
	"github.com/sweeney/robot-head/internal/servo"
	"github.com/sweeney/robot-head/internal/timing"
)

// breathTick is how often the breathing offset is recomputed.
const breathTick = 100 * time.Millisecond

// Head is the part of the motion controller the Director drives.
type Head interface {
	SetTarget(pan, tilt int)
	Center()
	SetBreathing(offset int)
	Calibration(axis servo.Axis) motion.Calibration
}

// Face is the part of the expression engine the Director drives.
type Face interface {
	SetMood(m expression.Mood, now time.Time)
	Mood() expression.Mood
}

type play struct {
	name    string
	gesture Gesture
	step    int
	hold    timing.Deadline
	restore expression.Mood
}

// Director plays gestures, keeps the head breathing while idle and puts the
// face to sleep after a period without activity.
type Director struct {
	head Head
	face Face
	cfg  Config

	active *play
	pause  timing.Deadline

	breath      timing.Deadline
	breathStart time.Time
	breathing   int

	idle   timing.Deadline
	asleep bool
	awake  expression.Mood

	pending []Event
}

// NewDirector creates a Director. now is the baseline for breathing and idle sleep.
func NewDirector(head Head, face Face, cfg Config, now time.Time) *Director {
	d := &Director{
		head:        head,
		face:        face,
		cfg:         cfg,
		pause:       timing.NewDeadline(cfg.Pause),
		breath:      timing.NewDeadline(breathTick),
		breathStart: now,
		idle:        timing.NewDeadline(cfg.IdleSleep),
	}
	d.idle.Reset(now)
	return d
}

// Gestures returns the names of the configured gestures, sorted.
func (d *Director) Gestures() []string {
	names := make([]string, 0, len(d.cfg.Gestures))
	for name := range d.cfg.Gestures {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Busy reports whether a gesture is playing or its pause window is still open.
func (d *Director) Busy(now time.Time) bool {
	if d.active != nil {
		return true
	}
	return !d.pause.Last().IsZero() && !d.pause.Due(now)
}

// Active returns the name of the gesture being played, "" if none.
func (d *Director) Active() string {
	if d.active == nil {
		return ""
	}
	return d.active.name
}

// Asleep reports whether the idle timeout has put the face to sleep.
func (d *Director) Asleep() bool {
	return d.asleep
}

// Start begins the named gesture. It returns false, and does nothing, when the
// name is unknown or another gesture is still busy.
func (d *Director) Start(name string, now time.Time) bool {
	g, ok := d.cfg.Gestures[name]
	if !ok || len(g.Steps) == 0 {
		log.Printf("behavior: unknown gesture %q", name)
		return false
	}
	if d.Busy(now) {
		log.Printf("behavior: busy, ignoring gesture %q", name)
		return false
	}

	d.wake(now)
	p := &play{name: name, gesture: g, restore: d.face.Mood()}
	d.active = p
	d.setBreathing(0)
	d.emit(Event{Timestamp: now, Type: EventGestureStarted, Gesture: name, Mood: d.face.Mood()})
	if g.Mood != nil && *g.Mood != d.face.Mood() {
		d.setMood(*g.Mood, now)
	}
	d.applyStep(now)
	return true
}

// SetMood changes the face mood and counts as activity for the idle timer.
func (d *Director) SetMood(m expression.Mood, now time.Time) {
	d.asleep = false
	d.idle.Reset(now)
	d.setMood(m, now)
}

// Tick advances the current gesture, breathing and idle timers and returns
// the events produced since the last call.
func (d *Director) Tick(now time.Time) []Event {
	if d.active != nil {
		d.advance(now)
	}
	if d.active == nil && !d.asleep {
		d.updateBreathing(now)
		if d.cfg.IdleSleep > 0 && d.idle.Due(now) {
			d.sleep(now)
		}
	}

	events := d.pending
	d.pending = nil
	return events
}

func (d *Director) advance(now time.Time) {
	p := d.active
	if !p.hold.Due(now) {
		return
	}
	p.step++
	if p.step < len(p.gesture.Steps) {
		d.applyStep(now)
		return
	}

	d.head.Center()
	d.active = nil
	d.pause.Reset(now)
	d.idle.Reset(now)
	d.breathStart = now
	d.emit(Event{Timestamp: now, Type: EventGestureFinished, Gesture: p.name, Mood: d.face.Mood()})
	if d.face.Mood() != p.restore {
		d.setMood(p.restore, now)
	}
}

func (d *Director) applyStep(now time.Time) {
	p := d.active
	s := p.gesture.Steps[p.step]
	pan := d.head.Calibration(servo.Pan).Center + s.Pan
	tilt := d.head.Calibration(servo.Tilt).Center + s.Tilt
	d.head.SetTarget(pan, tilt)
	p.hold.SetInterval(s.Hold)
	p.hold.Reset(now)
}

func (d *Director) updateBreathing(now time.Time) {
	if !d.breath.Fire(now) {
		return
	}
	if d.cfg.BreathAmplitude == 0 || d.cfg.BreathPeriod <= 0 {
		d.setBreathing(0)
		return
	}
	phase := float64(now.Sub(d.breathStart)) / float64(d.cfg.BreathPeriod)
	offset := int(math.Round(float64(d.cfg.BreathAmplitude) * math.Sin(2*math.Pi*phase)))
	d.setBreathing(offset)
}

func (d *Director) setBreathing(offset int) {
	if offset == d.breathing {
		return
	}
	d.breathing = offset
	d.head.SetBreathing(offset)
}

func (d *Director) sleep(now time.Time) {
	d.asleep = true
	d.awake = d.face.Mood()
	d.setBreathing(0)
	d.setMood(expression.Sleep, now)
}

func (d *Director) wake(now time.Time) {
	d.idle.Reset(now)
	d.breathStart = now
	if !d.asleep {
		return
	}
	d.asleep = false
	m := d.awake
	if m == expression.Sleep {
		m = expression.Normal
	}
	d.setMood(m, now)
}

func (d *Director) setMood(m expression.Mood, now time.Time) {
	d.face.SetMood(m, now)
	d.emit(Event{Timestamp: now, Type: EventMoodChanged, Mood: m})
}

func (d *Director) emit(e Event) {
	d.pending = append(d.pending, e)
}
