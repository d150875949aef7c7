package display

import (
	"errors"
	"image"
	"image/png"
	"io"
	"log"
	"sync"
	"sync/atomic"

	"git.sr.ht/~sbinet/gg"
	"golang.org/x/image/font/basicfont"
)

// ErrNoFrame is returned by EncodePNG before the first Present.
var ErrNoFrame = errors.New("no frame presented yet")

// Panel is the physical screen a Canvas pushes frames to.
type Panel interface {
	Draw(r image.Rectangle, src image.Image, sp image.Point) error
	Halt() error
}

// Canvas rasterizes draw calls into a Width x Height frame.
//
// Present copies the frame and hands it to a background flusher that writes it
// to the panel. Only the newest frame is kept, so a slow bus drops frames
// instead of stalling the caller. Without a panel the canvas runs headless
// and frames are only kept for EncodePNG.
type Canvas struct {
	dc    *gg.Context
	panel Panel

	frames chan *image.RGBA
	done   chan struct{}
	wg     sync.WaitGroup

	mu   sync.RWMutex
	last *image.RGBA

	presented atomic.Uint64
	dropped   atomic.Uint64
	errs      atomic.Uint64
}

// NewCanvas creates a canvas. panel may be nil.
func NewCanvas(panel Panel) *Canvas {
	dc := gg.NewContext(Width, Height)
	dc.SetFontFace(basicfont.Face7x13)
	dc.SetLineWidth(1)
	c := &Canvas{
		dc:     dc,
		panel:  panel,
		frames: make(chan *image.RGBA, 1),
		done:   make(chan struct{}),
	}
	if panel != nil {
		c.wg.Add(1)
		go c.flush()
	}
	return c
}

// Headless reports whether the canvas has no panel attached.
func (c *Canvas) Headless() bool {
	return c.panel == nil
}

func (c *Canvas) Clear() {
	c.dc.SetColor(Black.rgba())
	c.dc.Clear()
}

func (c *Canvas) FillCircle(x, y, r int, col Color) {
	c.dc.SetColor(col.rgba())
	c.dc.DrawCircle(px(x), px(y), float64(r)+0.5)
	c.dc.Fill()
}

func (c *Canvas) FillRect(x, y, w, h int, col Color) {
	c.dc.SetColor(col.rgba())
	c.dc.DrawRectangle(float64(x), float64(y), float64(w), float64(h))
	c.dc.Fill()
}

func (c *Canvas) FillRoundRect(x, y, w, h, r int, col Color) {
	c.dc.SetColor(col.rgba())
	c.dc.DrawRoundedRectangle(float64(x), float64(y), float64(w), float64(h), float64(r))
	c.dc.Fill()
}

func (c *Canvas) Line(x0, y0, x1, y1 int, col Color) {
	c.dc.SetColor(col.rgba())
	c.dc.DrawLine(px(x0), px(y0), px(x1), px(y1))
	c.dc.Stroke()
}

func (c *Canvas) Text(x, y int, s string, col Color) {
	c.dc.SetColor(col.rgba())
	c.dc.DrawStringAnchored(s, float64(x), float64(y), 0, 1)
}

// Present snapshots the frame and queues it for the panel without blocking.
func (c *Canvas) Present() {
	src, ok := c.dc.Image().(*image.RGBA)
	if !ok {
		return
	}
	frame := image.NewRGBA(src.Bounds())
	copy(frame.Pix, src.Pix)

	c.mu.Lock()
	c.last = frame
	c.mu.Unlock()
	c.presented.Add(1)

	if c.panel == nil {
		return
	}
	select {
	case c.frames <- frame:
		return
	default:
	}
	// Replace the frame the flusher has not picked up yet.
	select {
	case <-c.frames:
		c.dropped.Add(1)
	default:
	}
	select {
	case c.frames <- frame:
	default:
		c.dropped.Add(1)
	}
}

// LastFrame returns the most recently presented frame, nil before the first Present.
// The returned image must not be modified.
func (c *Canvas) LastFrame() *image.RGBA {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.last
}

// EncodePNG writes the most recently presented frame as PNG.
func (c *Canvas) EncodePNG(w io.Writer) error {
	frame := c.LastFrame()
	if frame == nil {
		return ErrNoFrame
	}
	return png.Encode(w, frame)
}

// Stats returns counters for presented frames, frames replaced before they
// reached the panel, and panel write errors.
func (c *Canvas) Stats() (presented, dropped, errs uint64) {
	return c.presented.Load(), c.dropped.Load(), c.errs.Load()
}

// Close stops the flusher, writes any queued frame and halts the panel.
func (c *Canvas) Close() error {
	if c.panel == nil {
		return nil
	}
	close(c.done)
	c.wg.Wait()
	select {
	case frame := <-c.frames:
		c.write(frame)
	default:
	}
	return c.panel.Halt()
}

func (c *Canvas) flush() {
	defer c.wg.Done()
	for {
		select {
		case <-c.done:
			return
		case frame := <-c.frames:
			c.write(frame)
		}
	}
}

func (c *Canvas) write(frame *image.RGBA) {
	if err := c.panel.Draw(frame.Bounds(), frame, image.Point{}); err != nil {
		if n := c.errs.Add(1); n%100 == 1 {
			log.Printf("display: write frame: %v (errors=%d)", err, n)
		}
	}
}

// px maps an integer coordinate to the center of its pixel.
func px(v int) float64 {
	return float64(v) + 0.5
}
