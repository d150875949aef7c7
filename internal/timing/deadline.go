// Package timing holds the small polling helpers shared by the control loop components.
// Nothing here sleeps: callers pass the current time in and decide what to do.
package timing

import "time"

// Deadline is a polled interval timer. It remembers when it last fired and
// reports whether at least Interval has elapsed since then.
//
// The zero value has no baseline and is due immediately.
type Deadline struct {
	interval time.Duration
	last     time.Time
}

// NewDeadline returns a Deadline with the given interval and no baseline.
func NewDeadline(interval time.Duration) Deadline {
	return Deadline{interval: nonNegative(interval)}
}

// Interval returns the current interval.
func (d *Deadline) Interval() time.Duration {
	return d.interval
}

// SetInterval changes the interval. Negative values are treated as zero.
// The baseline is kept, so the new interval applies to the pending wait.
func (d *Deadline) SetInterval(interval time.Duration) {
	d.interval = nonNegative(interval)
}

// Reset makes now the new baseline.
func (d *Deadline) Reset(now time.Time) {
	d.last = now
}

// Last returns the baseline, zero if the deadline has never fired or been reset.
func (d *Deadline) Last() time.Time {
	return d.last
}

// Due reports whether the interval has elapsed since the baseline.
func (d *Deadline) Due(now time.Time) bool {
	if d.last.IsZero() {
		return true
	}
	return now.Sub(d.last) >= d.interval
}

// Fire is Due followed by Reset(now) when due.
func (d *Deadline) Fire(now time.Time) bool {
	if !d.Due(now) {
		return false
	}
	d.last = now
	return true
}

// Next returns the time at which the deadline becomes due.
func (d *Deadline) Next() time.Time {
	return d.last.Add(d.interval)
}

func nonNegative(d time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	return d
}
