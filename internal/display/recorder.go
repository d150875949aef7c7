package display

// Op is one recorded draw call.
type Op struct {
	Kind  string // "clear", "fillCircle", "fillRect", "fillRoundRect", "line" or "text"
	Args  []int
	Text  string
	Color Color
}

// Recorder is a test double that records draw calls frame by frame.
type Recorder struct {
	pending []Op

	// Frames holds the ops of every presented frame in order.
	Frames [][]Op
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Clear() {
	r.pending = append(r.pending, Op{Kind: "clear"})
}

func (r *Recorder) FillCircle(x, y, rad int, c Color) {
	r.pending = append(r.pending, Op{Kind: "fillCircle", Args: []int{x, y, rad}, Color: c})
}

func (r *Recorder) FillRect(x, y, w, h int, c Color) {
	r.pending = append(r.pending, Op{Kind: "fillRect", Args: []int{x, y, w, h}, Color: c})
}

func (r *Recorder) FillRoundRect(x, y, w, h, rad int, c Color) {
	r.pending = append(r.pending, Op{Kind: "fillRoundRect", Args: []int{x, y, w, h, rad}, Color: c})
}

func (r *Recorder) Line(x0, y0, x1, y1 int, c Color) {
	r.pending = append(r.pending, Op{Kind: "line", Args: []int{x0, y0, x1, y1}, Color: c})
}

func (r *Recorder) Text(x, y int, s string, c Color) {
	r.pending = append(r.pending, Op{Kind: "text", Args: []int{x, y}, Text: s, Color: c})
}

// Present closes the current frame.
func (r *Recorder) Present() {
	r.Frames = append(r.Frames, r.pending)
	r.pending = nil
}

// LastFrame returns the ops of the most recent presented frame, nil if none.
func (r *Recorder) LastFrame() []Op {
	if len(r.Frames) == 0 {
		return nil
	}
	return r.Frames[len(r.Frames)-1]
}

// Reset drops all recorded frames.
func (r *Recorder) Reset() {
	r.pending = nil
	r.Frames = nil
}
