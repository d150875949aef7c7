package gpio

// FakeLine is a test double that records the levels it was driven to.
type FakeLine struct {
	// Levels contains every value passed to Set, in order.
	Levels []bool

	// Closed tracks if Close was called.
	Closed bool

	// SetError, if set, will be returned by Set (the level is not recorded).
	SetError error
}

// NewFakeLine creates a FakeLine.
func NewFakeLine() *FakeLine {
	return &FakeLine{}
}

// Set records the level.
func (f *FakeLine) Set(active bool) error {
	if f.SetError != nil {
		return f.SetError
	}
	f.Levels = append(f.Levels, active)
	return nil
}

// Active reports the last level set, false if never set.
func (f *FakeLine) Active() bool {
	if len(f.Levels) == 0 {
		return false
	}
	return f.Levels[len(f.Levels)-1]
}

// Close marks the line as closed.
func (f *FakeLine) Close() error {
	f.Closed = true
	return nil
}

// Reset clears recorded levels.
func (f *FakeLine) Reset() {
	f.Levels = nil
	f.Closed = false
	f.SetError = nil
}
