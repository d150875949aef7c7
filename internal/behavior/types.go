package behavior

import (
	"time"

	"github.com/sweeney/robot-head/internal/expression"
)

// EventType identifies the kind of behavior event.
type EventType string

const (
	EventGestureStarted  EventType = "GESTURE_STARTED"
	EventGestureFinished EventType = "GESTURE_FINISHED"
	EventMoodChanged     EventType = "MOOD_CHANGED"
)

// Event is a behavior change worth reporting.
type Event struct {
	Timestamp time.Time
	Type      EventType
	Gesture   string          // set for gesture events
	Mood      expression.Mood // mood after the event
}

// Step is one pose of a gesture, as an offset from the calibrated center.
type Step struct {
	Pan  int           `yaml:"pan"`
	Tilt int           `yaml:"tilt"`
	Hold time.Duration `yaml:"hold"` // time before the next step
}

// Gesture is a named sequence of poses. The head re-centers after the last step.
type Gesture struct {
	Mood  *expression.Mood `yaml:"mood,omitempty"` // shown while playing, nil keeps the current mood
	Steps []Step           `yaml:"steps"`
}

// Config holds the behavior tuning.
type Config struct {
	Gestures        map[string]Gesture `yaml:"gestures"`
	Pause           time.Duration      `yaml:"pause"`            // gestures are refused for this long after one finishes
	BreathAmplitude int                `yaml:"breath_amplitude"` // tilt degrees, 0 disables breathing
	BreathPeriod    time.Duration      `yaml:"breath_period"`
	IdleSleep       time.Duration      `yaml:"idle_sleep"` // 0 disables falling asleep
}

// DefaultConfig returns the nod, shake and roll gestures and gentle breathing.
func DefaultConfig() Config {
	happy, confused := expression.Happy, expression.Confused
	ms := time.Millisecond
	return Config{
		Gestures: map[string]Gesture{
			"head_nod": {
				Mood: &happy,
				Steps: []Step{
					{Pan: 0, Tilt: -15, Hold: 200 * ms},
					{Pan: 0, Tilt: 15, Hold: 200 * ms},
					{Pan: 0, Tilt: 0, Hold: 100 * ms},
				},
			},
			"head_shake": {
				Mood: &confused,
				Steps: []Step{
					{Pan: -20, Tilt: 0, Hold: 200 * ms},
					{Pan: 20, Tilt: 0, Hold: 200 * ms},
					{Pan: 0, Tilt: 0, Hold: 100 * ms},
				},
			},
			"head_roll": {
				Steps: []Step{
					{Pan: -15, Tilt: -15, Hold: 200 * ms},
					{Pan: 15, Tilt: -15, Hold: 200 * ms},
					{Pan: 15, Tilt: 15, Hold: 200 * ms},
					{Pan: -15, Tilt: 15, Hold: 200 * ms},
					{Pan: 0, Tilt: 0, Hold: 100 * ms},
				},
			},
		},
		Pause:           3 * time.Second,
		BreathAmplitude: 2,
		BreathPeriod:    4 * time.Second,
		IdleSleep:       5 * time.Minute,
	}
}
