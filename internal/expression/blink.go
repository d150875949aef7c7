package expression

import (
	"time"

	"github.com/sweeney/robot-head/internal/timing"
)

// Rand is the random source used to space blinks.
// *math/rand/v2.Rand satisfies it.
type Rand interface {
	// IntN returns a value in [0, n). n > 0.
	IntN(n int) int
}

// Blink is the blink automaton. A blink starts once the current interval has
// elapsed since the last one finished, then advances exactly one phase per
// Step until the eyes are open again.
type Blink struct {
	phase    BlinkPhase
	blinking bool
	due      timing.Deadline // interval: time between blinks, baseline: end of the last blink

	gapMin, gapMax time.Duration
	rand           Rand
}

// NewBlink creates an automaton that blinks for the first time `first` after the
// baseline set by Reset. Later intervals are drawn from [lo, hi).
func NewBlink(first, lo, hi time.Duration, rnd Rand) Blink {
	if hi < lo {
		lo, hi = hi, lo
	}
	return Blink{
		due:    timing.NewDeadline(first),
		gapMin: lo,
		gapMax: hi,
		rand:   rnd,
	}
}

// Reset opens the eyes and measures the next blink from now.
func (b *Blink) Reset(now time.Time) {
	b.phase = Open
	b.blinking = false
	b.due.Reset(now)
}

// Step advances the automaton and returns the phase to draw.
func (b *Blink) Step(now time.Time) BlinkPhase {
	if !b.blinking {
		if b.due.Due(now) {
			b.blinking = true
			b.phase = Closing
			b.due.SetInterval(b.nextInterval())
		}
		return b.phase
	}
	switch b.phase {
	case Closing:
		b.phase = Closed
	case Closed:
		b.phase = Opening
	default:
		b.phase = Open
		b.blinking = false
		b.due.Reset(now)
	}
	return b.phase
}

// Phase returns the current phase.
func (b *Blink) Phase() BlinkPhase {
	return b.phase
}

// Interval returns the wait before the next blink, measured from the end of the last one.
func (b *Blink) Interval() time.Duration {
	return b.due.Interval()
}

// Next returns when the next blink starts. It is only meaningful while the eyes are open.
func (b *Blink) Next() time.Time {
	return b.due.Next()
}

func (b *Blink) nextInterval() time.Duration {
	span := int((b.gapMax - b.gapMin) / time.Millisecond)
	if span <= 0 || b.rand == nil {
		return b.gapMin
	}
	return b.gapMin + time.Duration(b.rand.IntN(span))*time.Millisecond
}
