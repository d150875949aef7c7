package display

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"periph.io/x/conn/v3/physic"
)

func TestRecorderFrames(t *testing.T) {
	r := NewRecorder()
	r.Clear()
	r.FillCircle(46, 32, 16, White)
	r.Line(0, 1, 2, 3, White)
	r.Present()
	r.Clear()
	r.Text(100, 20, "z", White)
	r.FillRect(1, 2, 3, 4, Black)
	r.FillRoundRect(1, 2, 3, 4, 2, White)
	r.Present()

	if len(r.Frames) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(r.Frames))
	}
	want := []Op{
		{Kind: "clear"},
		{Kind: "fillCircle", Args: []int{46, 32, 16}, Color: White},
		{Kind: "line", Args: []int{0, 1, 2, 3}, Color: White},
	}
	if diff := cmp.Diff(want, r.Frames[0]); diff != "" {
		t.Errorf("frame 0 mismatch (-want +got):\n%s", diff)
	}
	want = []Op{
		{Kind: "clear"},
		{Kind: "text", Args: []int{100, 20}, Text: "z", Color: White},
		{Kind: "fillRect", Args: []int{1, 2, 3, 4}, Color: Black},
		{Kind: "fillRoundRect", Args: []int{1, 2, 3, 4, 2}, Color: White},
	}
	if diff := cmp.Diff(want, r.LastFrame()); diff != "" {
		t.Errorf("last frame mismatch (-want +got):\n%s", diff)
	}

	r.Reset()
	if r.LastFrame() != nil {
		t.Error("LastFrame after Reset should be nil")
	}
}

func TestColorString(t *testing.T) {
	if White.String() != "white" || Black.String() != "black" {
		t.Errorf("unexpected color names %q %q", White, Black)
	}
}

var (
	white = color.RGBA{255, 255, 255, 255}
	black = color.RGBA{0, 0, 0, 255}
)

func TestCanvasHeadlessRasterizes(t *testing.T) {
	c := NewCanvas(nil)
	if !c.Headless() {
		t.Fatal("canvas without panel should be headless")
	}
	if c.LastFrame() != nil {
		t.Fatal("no frame expected before Present")
	}

	c.Clear()
	c.FillCircle(64, 32, 16, White)
	c.FillRect(0, 60, 10, 4, White)
	c.Present()

	frame := c.LastFrame()
	if frame == nil {
		t.Fatal("expected a frame after Present")
	}
	if b := frame.Bounds(); b.Dx() != Width || b.Dy() != Height {
		t.Fatalf("frame size %v, want %dx%d", b, Width, Height)
	}
	tests := []struct {
		x, y int
		want color.RGBA
	}{
		{64, 32, white},
		{64, 20, white},
		{0, 0, black},
		{127, 0, black},
		{5, 62, white},
	}
	for _, tt := range tests {
		if got := frame.RGBAAt(tt.x, tt.y); got != tt.want {
			t.Errorf("pixel (%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}

	// Later drawing must not leak into the presented frame.
	c.Clear()
	if got := frame.RGBAAt(64, 32); got != white {
		t.Errorf("presented frame changed after Clear: %v", got)
	}

	presented, dropped, errs := c.Stats()
	if presented != 1 || dropped != 0 || errs != 0 {
		t.Errorf("Stats() = %d,%d,%d, want 1,0,0", presented, dropped, errs)
	}
	if err := c.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestCanvasEncodePNG(t *testing.T) {
	c := NewCanvas(nil)
	var buf bytes.Buffer
	if err := c.EncodePNG(&buf); !errors.Is(err, ErrNoFrame) {
		t.Fatalf("EncodePNG before Present: got %v, want ErrNoFrame", err)
	}

	c.Clear()
	c.Line(0, 10, 127, 10, White)
	c.Present()
	if err := c.EncodePNG(&buf); err != nil {
		t.Fatalf("EncodePNG: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if r, _, _, _ := img.At(64, 10).RGBA(); r == 0 {
		t.Error("expected line pixel to be lit")
	}
}

type fakePanel struct {
	mu     sync.Mutex
	frames []image.Image
	halted bool
	block  chan struct{}
	drawn  chan struct{}
	err    error
}

func newFakePanel() *fakePanel {
	return &fakePanel{drawn: make(chan struct{}, 64)}
}

func (p *fakePanel) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	if p.block != nil {
		<-p.block
	}
	p.mu.Lock()
	p.frames = append(p.frames, src)
	p.mu.Unlock()
	p.drawn <- struct{}{}
	return p.err
}

func (p *fakePanel) Halt() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.halted = true
	return nil
}

func TestCanvasFlushesToPanel(t *testing.T) {
	panel := newFakePanel()
	c := NewCanvas(panel)

	c.Clear()
	c.FillCircle(10, 10, 3, White)
	c.Present()
	<-panel.drawn

	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	panel.mu.Lock()
	defer panel.mu.Unlock()
	if len(panel.frames) != 1 {
		t.Fatalf("panel got %d frames, want 1", len(panel.frames))
	}
	if !panel.halted {
		t.Error("Close should halt the panel")
	}
}

func TestCanvasPresentDoesNotBlockOnSlowPanel(t *testing.T) {
	panel := newFakePanel()
	panel.block = make(chan struct{})
	c := NewCanvas(panel)

	for i := 0; i < 5; i++ {
		c.Clear()
		c.Present()
	}
	presented, dropped, _ := c.Stats()
	if presented != 5 {
		t.Errorf("presented = %d, want 5", presented)
	}
	if dropped < 3 {
		t.Errorf("dropped = %d, want at least 3", dropped)
	}

	close(panel.block)
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	panel.mu.Lock()
	defer panel.mu.Unlock()
	if n := len(panel.frames); n < 1 || n > 2 {
		t.Errorf("panel got %d frames, want 1 or 2", n)
	}
}

func TestCanvasCountsPanelErrors(t *testing.T) {
	panel := newFakePanel()
	panel.err = errors.New("nack")
	c := NewCanvas(panel)

	c.Clear()
	c.Present()
	<-panel.drawn
	c.Close()

	if _, _, errs := c.Stats(); errs != 1 {
		t.Errorf("errs = %d, want 1", errs)
	}
}

type fakeBus struct {
	addrs []uint16
}

func (b *fakeBus) String() string                  { return "fake" }
func (b *fakeBus) SetSpeed(physic.Frequency) error { return nil }

func (b *fakeBus) Tx(addr uint16, w, r []byte) error {
	b.addrs = append(b.addrs, addr)
	return nil
}

func TestFixedAddrRewritesAddress(t *testing.T) {
	bus := &fakeBus{}
	fixed := fixedAddr{Bus: bus, addr: 0x3D}
	if err := fixed.Tx(0x3C, []byte{0}, nil); err != nil {
		t.Fatalf("Tx: %v", err)
	}
	if diff := cmp.Diff([]uint16{0x3D}, bus.addrs); diff != "" {
		t.Errorf("addresses mismatch (-want +got):\n%s", diff)
	}
}
