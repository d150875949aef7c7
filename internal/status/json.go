package status

import (
	"encoding/json"
	"time"

	"github.com/sweeney/robot-head/internal/motion"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string       `json:"event,omitempty"`
	Reason        string       `json:"reason,omitempty"`
	Ready         bool         `json:"ready"`
	UptimeSeconds int64        `json:"uptime_seconds"`
	StartTime     string       `json:"start_time"`
	Timestamp     string       `json:"timestamp"`
	Head          HeadJSON     `json:"head"`
	Face          FaceJSON     `json:"face"`
	Display       DisplayJSON  `json:"display"`
	MQTT          MQTTStatus   `json:"mqtt"`
	Counts        CountsJSON   `json:"event_counts"`
	Network       *NetworkJSON `json:"network,omitempty"`
	Config        ConfigJSON   `json:"config"`
}

// HeadJSON is the JSON representation of the servo state.
type HeadJSON struct {
	Pan       AxisJSON `json:"pan"`
	Tilt      AxisJSON `json:"tilt"`
	Breathing int      `json:"breathing"`
}

// AxisJSON describes one servo axis.
type AxisJSON struct {
	Angle  int `json:"angle"`
	Target int `json:"target"`
	Center int `json:"center"`
	Min    int `json:"min"`
	Max    int `json:"max"`
}

// FaceJSON is the JSON representation of the expression state.
type FaceJSON struct {
	Mood    string `json:"mood"`
	Blink   string `json:"blink"`
	GazeX   int    `json:"gaze_x"`
	GazeY   int    `json:"gaze_y"`
	Gesture string `json:"gesture,omitempty"`
	Asleep  bool   `json:"asleep"`
}

// DisplayJSON reports panel output counters.
type DisplayJSON struct {
	Headless bool   `json:"headless"`
	Frames   uint64 `json:"frames"`
	Dropped  uint64 `json:"dropped"`
	Errors   uint64 `json:"errors"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of event counts.
type CountsJSON struct {
	Gestures    int `json:"gestures"`
	MoodChanges int `json:"mood_changes"`
}

// NetworkJSON is the JSON representation of network info.
type NetworkJSON struct {
	Type       string `json:"type"`
	IP         string `json:"ip"`
	Status     string `json:"status"`
	Gateway    string `json:"gateway"`
	WifiStatus string `json:"wifi_status"`
	SSID       string `json:"ssid"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	PollMs        int64  `json:"poll_ms"`
	HeartbeatMs   int64  `json:"heartbeat_ms"`
	Broker        string `json:"broker"`
	HTTPAddr      string `json:"http_addr"`
	ServoDriver   string `json:"servo_driver"`
	DisplayDriver string `json:"display_driver"`
	ConfigFile    string `json:"config_file,omitempty"`
}

func axisJSON(angle, target int, cal motion.Calibration) AxisJSON {
	return AxisJSON{Angle: angle, Target: target, Center: cal.Center, Min: cal.Min, Max: cal.Max}
}

func buildInner(snap Snapshot) StatusInner {
	h, f, d := snap.Head, snap.Face, snap.Display
	return StatusInner{
		Ready:         snap.Ready,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		Head: HeadJSON{
			Pan:       axisJSON(h.Pan, h.TargetPan, h.PanRange),
			Tilt:      axisJSON(h.Tilt, h.TargetTilt, h.TiltRange),
			Breathing: h.Breathing,
		},
		Face: FaceJSON{
			Mood:    f.Mood.String(),
			Blink:   f.Blink.String(),
			GazeX:   f.GazeX,
			GazeY:   f.GazeY,
			Gesture: f.Gesture,
			Asleep:  f.Asleep,
		},
		Display: DisplayJSON{Headless: d.Headless, Frames: d.Frames, Dropped: d.Dropped, Errors: d.Errors},
		MQTT:    MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts:  CountsJSON{Gestures: snap.Counts.Gestures, MoodChanges: snap.Counts.MoodChanges},
		Config: ConfigJSON{
			PollMs:        snap.Config.PollMs,
			HeartbeatMs:   snap.Config.HeartbeatMs,
			Broker:        snap.Config.Broker,
			HTTPAddr:      snap.Config.HTTPAddr,
			ServoDriver:   snap.Config.ServoDriver,
			DisplayDriver: snap.Config.DisplayDriver,
			ConfigFile:    snap.Config.ConfigFile,
		},
	}
}

func buildNetwork(snap Snapshot, inner *StatusInner) {
	if snap.Network != nil {
		inner.Network = &NetworkJSON{
			Type:       snap.Network.Type,
			IP:         snap.Network.IP,
			Status:     snap.Network.Status,
			Gateway:    snap.Network.Gateway,
			WifiStatus: snap.Network.WifiStatus,
			SSID:       snap.Network.SSID,
		}
	}
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	inner := buildInner(snap)
	buildNetwork(snap, &inner)

	data, _ := json.MarshalIndent(StatusJSON{Status: inner}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason
	buildNetwork(snap, &inner)

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
