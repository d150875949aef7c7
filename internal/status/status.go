// Package status provides a thread-safe status tracker for the robot-head daemon.
// The control loop writes copies of its state here; HTTP handlers and MQTT
// heartbeats read snapshots.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/robot-head/internal/behavior"
	"github.com/sweeney/robot-head/internal/expression"
	"github.com/sweeney/robot-head/internal/motion"
)

// NetworkInfo contains network state. This is a local copy to avoid
// importing internal/mqtt from status.
type NetworkInfo struct {
	Type       string
	IP         string
	Status     string
	Gateway    string
	WifiStatus string
	SSID       string
}

// Config contains daemon configuration for display.
type Config struct {
	PollMs        int64
	HeartbeatMs   int64
	Broker        string
	HTTPAddr      string
	ServoDriver   string
	DisplayDriver string
	ConfigFile    string
}

// Head is the motion controller state.
type Head struct {
	Pan        int
	Tilt       int
	TargetPan  int
	TargetTilt int
	PanRange   motion.Calibration
	TiltRange  motion.Calibration
	Breathing  int
}

// Face is the expression and behavior state.
type Face struct {
	Mood    expression.Mood
	Blink   expression.BlinkPhase
	GazeX   int
	GazeY   int
	Gesture string // gesture being played, "" if none
	Asleep  bool
}

// DisplayStats describes the panel output.
type DisplayStats struct {
	Headless bool
	Frames   uint64
	Dropped  uint64
	Errors   uint64
}

// Counts tallies behavior events since start.
type Counts struct {
	Gestures    int
	MoodChanges int
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type and safe to use after the lock is released.
type Snapshot struct {
	Head          Head
	Face          Face
	Display       DisplayStats
	Counts        Counts
	Ready         bool
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Network       *NetworkInfo
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// Update sets the head and face state and marks the tracker ready.
// Called from runLoop on every tick.
func (t *Tracker) Update(head Head, face Face) {
	t.mu.Lock()
	t.snap.Head = head
	t.snap.Face = face
	t.snap.Ready = true
	t.mu.Unlock()
}

// CountEvents adds behavior events to the counters.
func (t *Tracker) CountEvents(events []behavior.Event) {
	if len(events) == 0 {
		return
	}
	t.mu.Lock()
	for _, e := range events {
		switch e.Type {
		case behavior.EventGestureStarted:
			t.snap.Counts.Gestures++
		case behavior.EventMoodChanged:
			t.snap.Counts.MoodChanges++
		}
	}
	t.mu.Unlock()
}

// SetDisplay sets the panel statistics.
func (t *Tracker) SetDisplay(d DisplayStats) {
	t.mu.Lock()
	t.snap.Display = d
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// SetNetwork sets the network info.
func (t *Tracker) SetNetwork(info *NetworkInfo) {
	t.mu.Lock()
	t.snap.Network = info
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
