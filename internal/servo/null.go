package servo

import "sync"

// Null is a Sink with no hardware behind it. It keeps the last commanded
// angles so a headless head can still be observed.
type Null struct {
	mu       sync.Mutex
	angles   [len(Axes)]int
	attached [len(Axes)]bool
}

// NewNull creates a Null sink.
func NewNull() *Null {
	return &Null{}
}

// Attach marks the axis attached.
func (n *Null) Attach(axis Axis) {
	n.set(axis, func(i int) { n.attached[i] = true })
}

// Detach marks the axis detached.
func (n *Null) Detach(axis Axis) {
	n.set(axis, func(i int) { n.attached[i] = false })
}

// Write stores the clamped angle.
func (n *Null) Write(axis Axis, angle int) {
	angle = clampAngle(angle)
	n.set(axis, func(i int) { n.angles[i] = angle })
}

// Angle returns the last written angle and whether the axis is attached.
func (n *Null) Angle(axis Axis) (int, bool) {
	if axis < 0 || int(axis) >= len(Axes) {
		return 0, false
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.angles[axis], n.attached[axis]
}

func (n *Null) set(axis Axis, f func(i int)) {
	if axis < 0 || int(axis) >= len(Axes) {
		return
	}
	n.mu.Lock()
	f(int(axis))
	n.mu.Unlock()
}
