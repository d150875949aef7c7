package servo

// Op is one recorded call on a Fake.
type Op struct {
	Kind  string // "attach", "detach" or "write"
	Axis  Axis
	Angle int
}

// Fake is a test double that records every call.
type Fake struct {
	// Ops contains every call in order.
	Ops []Op

	// Attached tracks the attach state per axis.
	Attached map[Axis]bool

	// Angles holds the last written angle per axis.
	Angles map[Axis]int

	// Closed tracks if Close was called.
	Closed bool
}

// NewFake creates an empty Fake with both axes detached.
func NewFake() *Fake {
	return &Fake{
		Attached: make(map[Axis]bool),
		Angles:   make(map[Axis]int),
	}
}

// Attach records the call.
func (f *Fake) Attach(axis Axis) {
	f.Attached[axis] = true
	f.Ops = append(f.Ops, Op{Kind: "attach", Axis: axis})
}

// Detach records the call.
func (f *Fake) Detach(axis Axis) {
	f.Attached[axis] = false
	f.Ops = append(f.Ops, Op{Kind: "detach", Axis: axis})
}

// Write records the clamped angle.
func (f *Fake) Write(axis Axis, angle int) {
	angle = clampAngle(angle)
	f.Angles[axis] = angle
	f.Ops = append(f.Ops, Op{Kind: "write", Axis: axis, Angle: angle})
}

// Writes returns only the write operations for the given axis.
func (f *Fake) Writes(axis Axis) []int {
	var out []int
	for _, op := range f.Ops {
		if op.Kind == "write" && op.Axis == axis {
			out = append(out, op.Angle)
		}
	}
	return out
}

// Close marks the fake as closed.
func (f *Fake) Close() error {
	f.Closed = true
	return nil
}

// Reset clears recorded calls but keeps attach state and angles.
func (f *Fake) Reset() {
	f.Ops = nil
	f.Closed = false
}
