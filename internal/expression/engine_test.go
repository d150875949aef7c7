package expression

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/sweeney/robot-head/internal/display"
)

const W, B = display.White, display.Black

func op(kind string, c display.Color, args ...int) display.Op {
	return display.Op{Kind: kind, Args: args, Color: c}
}

var (
	openEyes = []display.Op{
		{Kind: "clear"},
		op("fillCircle", W, 46, 32, 16),
		op("fillCircle", W, 82, 32, 16),
	}
	closingEyes = []display.Op{
		{Kind: "clear"},
		op("fillRoundRect", W, 30, 28, 32, 8, 4),
		op("fillRoundRect", W, 66, 28, 32, 8, 4),
	}
	closedEyes = []display.Op{
		{Kind: "clear"},
		op("line", W, 30, 32, 62, 32),
		op("line", W, 30, 33, 62, 33),
		op("line", W, 66, 32, 98, 32),
		op("line", W, 66, 33, 98, 33),
	}
	openingEyes = []display.Op{
		{Kind: "clear"},
		op("fillRoundRect", W, 30, 24, 32, 16, 8),
		op("fillRoundRect", W, 66, 24, 32, 16, 8),
	}
)

// everyTick renders on every call so tests control the cadence.
func everyTick() Config {
	cfg := DefaultConfig()
	cfg.FrameInterval = 0
	return cfg
}

func newTestEngine(cfg Config) (*Engine, *display.Recorder) {
	rec := display.NewRecorder()
	return NewEngine(rec, cfg, &fixedRand{v: 500}, t0), rec
}

func TestNormalMoodDrawsOpenEyes(t *testing.T) {
	e, rec := newTestEngine(everyTick())

	if !e.Tick(t0) {
		t.Fatal("first tick should render")
	}
	if diff := cmp.Diff(openEyes, rec.LastFrame()); diff != "" {
		t.Errorf("frame mismatch (-want +got):\n%s", diff)
	}
	if e.Mood() != Normal {
		t.Errorf("initial mood = %s, want normal", e.Mood())
	}
}

func TestFrameInterval(t *testing.T) {
	e, rec := newTestEngine(DefaultConfig())

	e.Tick(t0)
	e.Tick(t0.Add(10 * time.Millisecond))
	e.Tick(t0.Add(39 * time.Millisecond))
	if len(rec.Frames) != 1 {
		t.Errorf("expected 1 frame inside the frame interval, got %d", len(rec.Frames))
	}
	if !e.Tick(t0.Add(40 * time.Millisecond)) {
		t.Error("tick at the frame interval should render")
	}
	if len(rec.Frames) != 2 {
		t.Errorf("expected 2 frames, got %d", len(rec.Frames))
	}
}

func TestBlinkRendering(t *testing.T) {
	e, rec := newTestEngine(everyTick())

	start := t0.Add(3 * time.Second)
	for i := 0; i < 4; i++ {
		e.Tick(start.Add(time.Duration(i) * 40 * time.Millisecond))
	}

	want := [][]display.Op{closingEyes, closedEyes, openingEyes, openEyes}
	if diff := cmp.Diff(want, rec.Frames); diff != "" {
		t.Errorf("blink frames mismatch (-want +got):\n%s", diff)
	}
	if e.BlinkPhase() != Open {
		t.Errorf("phase after blink = %s, want open", e.BlinkPhase())
	}
}

func TestSleepSuppressesBlinkAtAnyPhase(t *testing.T) {
	for phaseTicks := 1; phaseTicks <= 3; phaseTicks++ {
		e, rec := newTestEngine(everyTick())
		now := t0.Add(3 * time.Second)
		for i := 0; i < phaseTicks; i++ {
			e.Tick(now)
			now = now.Add(40 * time.Millisecond)
		}
		if e.BlinkPhase() == Open {
			t.Fatalf("after %d ticks the blink should be in progress", phaseTicks)
		}

		e.SetMood(Sleep, now)
		rec.Reset()
		e.Tick(now)
		frame := rec.LastFrame()
		if diff := cmp.Diff(closedEyes, frame[:len(closedEyes)]); diff != "" {
			t.Errorf("phase %s: sleep frame mismatch (-want +got):\n%s", e.BlinkPhase(), diff)
		}

		e.SetMood(Normal, now)
		if e.BlinkPhase() != Open {
			t.Errorf("phase after returning to normal = %s, want open", e.BlinkPhase())
		}
		e.Tick(now.Add(40 * time.Millisecond))
		if diff := cmp.Diff(openEyes, rec.LastFrame()); diff != "" {
			t.Errorf("normal frame mismatch (-want +got):\n%s", diff)
		}

		// The next blink is measured from the switch back to Normal.
		gap := e.blink.Interval()
		for at := 80 * time.Millisecond; at < gap; at += 40 * time.Millisecond {
			e.Tick(now.Add(at))
			if e.BlinkPhase() != Open {
				t.Fatalf("phase %d: blink started %v after returning to normal, gap is %v", phaseTicks, at, gap)
			}
		}
		e.Tick(now.Add(gap))
		if e.BlinkPhase() != Closing {
			t.Errorf("phase %d: blink should start %v after returning to normal, got %s", phaseTicks, gap, e.BlinkPhase())
		}
	}
}

func TestInvalidMoodFallback(t *testing.T) {
	e, rec := newTestEngine(everyTick())
	e.SetMood(Mood(9), t0)
	if e.Mood() != Normal {
		t.Errorf("SetMood(invalid) stored %s, want normal", e.Mood())
	}

	e.mood = Mood(9)
	e.Tick(t0.Add(3 * time.Second))
	if diff := cmp.Diff(openEyes, rec.LastFrame()); diff != "" {
		t.Errorf("fallback frame mismatch (-want +got):\n%s", diff)
	}
	if e.BlinkPhase() != Open {
		t.Errorf("fallback should not blink, phase %s", e.BlinkPhase())
	}
}

func TestSleepAnimationCycles(t *testing.T) {
	e, rec := newTestEngine(everyTick())
	e.SetMood(Sleep, t0)

	tests := []struct {
		at   time.Duration
		want display.Op
	}{
		{100 * time.Millisecond, display.Op{Kind: "text", Args: []int{100, 20}, Text: "z", Color: W}},
		{400 * time.Millisecond, display.Op{Kind: "text", Args: []int{100, 20}, Text: "z", Color: W}},
		{500 * time.Millisecond, display.Op{Kind: "text", Args: []int{108, 12}, Text: "Z", Color: W}},
		{1000 * time.Millisecond, display.Op{Kind: "text", Args: []int{116, 4}, Text: "Z", Color: W}},
		{1500 * time.Millisecond, display.Op{Kind: "text", Args: []int{100, 20}, Text: "z", Color: W}},
	}
	for _, tt := range tests {
		e.Tick(t0.Add(tt.at))
		frame := rec.LastFrame()
		got := frame[len(frame)-1]
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("at %v: zzz mismatch (-want +got):\n%s", tt.at, diff)
		}
	}
}

func TestSleepCueIgnoresGaze(t *testing.T) {
	e, rec := newTestEngine(everyTick())
	e.SetMood(Sleep, t0)
	e.LookAt(10, 5)
	e.Tick(t0)

	frame := rec.LastFrame()
	want := []display.Op{
		{Kind: "clear"},
		op("line", W, 40, 37, 72, 37),
		op("line", W, 40, 38, 72, 38),
		op("line", W, 76, 37, 108, 37),
		op("line", W, 76, 38, 108, 38),
		{Kind: "text", Args: []int{100, 20}, Text: "z", Color: W},
	}
	if diff := cmp.Diff(want, frame); diff != "" {
		t.Errorf("frame mismatch (-want +got):\n%s", diff)
	}
}

func TestHappyMoodDrawsArches(t *testing.T) {
	e, rec := newTestEngine(everyTick())
	e.SetMood(Happy, t0)
	e.LookAt(5, -3)
	e.Tick(t0)

	want := []display.Op{
		{Kind: "clear"},
		op("fillCircle", W, 51, 29, 16),
		op("fillCircle", B, 51, 34, 14),
		op("fillRect", B, 35, 34, 32, 16),
		op("fillCircle", W, 87, 29, 16),
		op("fillCircle", B, 87, 34, 14),
		op("fillRect", B, 71, 34, 32, 16),
	}
	if diff := cmp.Diff(want, rec.LastFrame()); diff != "" {
		t.Errorf("frame mismatch (-want +got):\n%s", diff)
	}
}

func TestConfusedMoodIsStatic(t *testing.T) {
	e, rec := newTestEngine(everyTick())
	e.SetMood(Confused, t0)

	want := []display.Op{
		{Kind: "clear"},
		op("fillCircle", W, 46, 32, 16),
		op("fillCircle", W, 82, 32, 8),
		op("line", W, 36, 12, 56, 7),
	}
	for i := 0; i < 200; i++ {
		e.Tick(t0.Add(time.Duration(i) * 50 * time.Millisecond))
	}
	for i, frame := range rec.Frames {
		if diff := cmp.Diff(want, frame); diff != "" {
			t.Fatalf("frame %d mismatch (-want +got):\n%s", i, diff)
		}
	}
	if e.BlinkPhase() != Open {
		t.Errorf("blink advanced outside normal mood: %s", e.BlinkPhase())
	}
}

func TestLookAtClampsToSoftRange(t *testing.T) {
	e, _ := newTestEngine(everyTick())

	tests := []struct {
		x, y         int
		wantX, wantY int
	}{
		{3, -4, 3, -4},
		{40, -40, 15, -10},
		{-16, 11, -15, 10},
	}
	for _, tt := range tests {
		e.LookAt(tt.x, tt.y)
		if x, y := e.Gaze(); x != tt.wantX || y != tt.wantY {
			t.Errorf("LookAt(%d, %d): Gaze() = (%d, %d), want (%d, %d)", tt.x, tt.y, x, y, tt.wantX, tt.wantY)
		}
	}
}

func TestSetMoodInvalidFallsBackToNormal(t *testing.T) {
	e, _ := newTestEngine(everyTick())
	e.SetMood(Happy, t0)
	e.SetMood(Mood(42), t0)
	if e.Mood() != Normal {
		t.Errorf("mood = %s, want normal", e.Mood())
	}
}

func TestParseMood(t *testing.T) {
	tests := []struct {
		in      string
		want    Mood
		wantErr bool
	}{
		{"normal", Normal, false},
		{"HAPPY", Happy, false},
		{" sleep ", Sleep, false},
		{"confused", Confused, false},
		{"angry", Normal, true},
	}
	for _, tt := range tests {
		got, err := ParseMood(tt.in)
		if tt.wantErr != (err != nil) {
			t.Errorf("ParseMood(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, ErrUnknownMood) {
			t.Errorf("ParseMood(%q) error should wrap ErrUnknownMood", tt.in)
		}
		if got != tt.want {
			t.Errorf("ParseMood(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestMoodText(t *testing.T) {
	var m Mood
	if err := m.UnmarshalText([]byte("confused")); err != nil {
		t.Fatalf("UnmarshalText: %v", err)
	}
	if m != Confused {
		t.Errorf("mood = %s, want confused", m)
	}
	if err := m.UnmarshalText([]byte("bogus")); err == nil {
		t.Error("expected error for unknown mood")
	}
	if m != Confused {
		t.Error("failed UnmarshalText should leave the value unchanged")
	}
	if got := Mood(9).String(); got != "mood(9)" {
		t.Errorf("String() = %q", got)
	}
	if got := Opening.String(); got != "opening" {
		t.Errorf("Opening.String() = %q", got)
	}
}
