package gpio

import (
	"errors"
	"testing"
)

func TestFakeLineSet(t *testing.T) {
	f := NewFakeLine()

	if f.Active() {
		t.Error("should be inactive before any Set")
	}

	if err := f.Set(true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !f.Active() {
		t.Error("expected active after Set(true)")
	}

	if err := f.Set(false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Active() {
		t.Error("expected inactive after Set(false)")
	}

	if len(f.Levels) != 2 {
		t.Errorf("expected 2 recorded levels, got %d", len(f.Levels))
	}
}

func TestFakeLineError(t *testing.T) {
	f := NewFakeLine()
	f.SetError = errors.New("simulated error")

	err := f.Set(true)
	if err == nil {
		t.Fatal("expected error to be returned")
	}
	if err.Error() != "simulated error" {
		t.Errorf("unexpected error: %v", err)
	}
	if len(f.Levels) != 0 {
		t.Errorf("level should not be recorded on error, got %v", f.Levels)
	}
}

func TestFakeLineClose(t *testing.T) {
	f := NewFakeLine()

	if f.Closed {
		t.Error("should not be closed initially")
	}
	if err := f.Close(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if !f.Closed {
		t.Error("should be closed after Close()")
	}
}

func TestFakeLineReset(t *testing.T) {
	f := NewFakeLine()
	f.Set(true)
	f.Close()
	f.SetError = errors.New("error")

	f.Reset()

	if len(f.Levels) != 0 {
		t.Error("levels should be cleared")
	}
	if f.Closed {
		t.Error("closed should be reset")
	}
	if f.SetError != nil {
		t.Error("error should be cleared")
	}
}

func TestFakeLineImplementsLine(t *testing.T) {
	var _ Line = NewFakeLine()
}
