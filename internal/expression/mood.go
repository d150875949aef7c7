package expression

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownMood is returned by ParseMood for an unrecognized name.
var ErrUnknownMood = errors.New("unknown mood")

// Mood selects how the face is drawn.
type Mood uint8

const (
	Normal   Mood = iota // round eyes that blink
	Happy                // upward arches
	Sleep                // closed eyes and a zzz cue
	Confused             // one big eye, one small eye, a raised brow
)

// Moods lists every mood.
var Moods = [...]Mood{Normal, Happy, Sleep, Confused}

func (m Mood) String() string {
	switch m {
	case Normal:
		return "normal"
	case Happy:
		return "happy"
	case Sleep:
		return "sleep"
	case Confused:
		return "confused"
	default:
		return fmt.Sprintf("mood(%d)", uint8(m))
	}
}

// Valid reports whether m is one of the defined moods.
func (m Mood) Valid() bool {
	return m <= Confused
}

// ParseMood parses a mood name, ignoring case and surrounding space.
func ParseMood(s string) (Mood, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, m := range Moods {
		if m.String() == name {
			return m, nil
		}
	}
	return Normal, fmt.Errorf("%w: %q", ErrUnknownMood, s)
}

// MarshalText implements encoding.TextMarshaler.
func (m Mood) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mood) UnmarshalText(text []byte) error {
	v, err := ParseMood(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// BlinkPhase is one stage of a blink.
type BlinkPhase uint8

const (
	Open BlinkPhase = iota
	Closing
	Closed
	Opening
)

func (p BlinkPhase) String() string {
	switch p {
	case Open:
		return "open"
	case Closing:
		return "closing"
	case Closed:
		return "closed"
	case Opening:
		return "opening"
	default:
		return fmt.Sprintf("phase(%d)", uint8(p))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (p BlinkPhase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}
