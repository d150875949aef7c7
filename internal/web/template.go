package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/sweeney/robot-head/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
	"orNone": func(s string) string {
		if s == "" {
			return "none"
		}
		return s
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Robot Head</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.face { image-rendering: pixelated; width: 256px; height: 128px; background: #000; border: 1px solid #444; }
.asleep { color: #888; }
.connected { color: green; }
.disconnected { color: red; }
</style>
</head>
<body>
<h1>Robot Head</h1>

{{if .Face}}<p><img id="face" class="face" src="/face.png" alt="face"></p>{{end}}

<h2>Face</h2>
<table>
<tr><th>Mood</th><td{{if .Snap.Face.Asleep}} class="asleep"{{end}}>{{.Snap.Face.Mood}}</td></tr>
<tr><th>Blink</th><td>{{.Snap.Face.Blink}}</td></tr>
<tr><th>Gaze</th><td>{{.Snap.Face.GazeX}}, {{.Snap.Face.GazeY}}</td></tr>
<tr><th>Gesture</th><td>{{orNone .Snap.Face.Gesture}}</td></tr>
<tr><th>Ready</th><td>{{if .Snap.Ready}}yes{{else}}no{{end}}</td></tr>
</table>

<h2>Head</h2>
<table>
<tr><th>Pan</th><td>{{.Snap.Head.Pan}} &rarr; {{.Snap.Head.TargetPan}} ({{.Snap.Head.PanRange.Min}}-{{.Snap.Head.PanRange.Max}}, center {{.Snap.Head.PanRange.Center}})</td></tr>
<tr><th>Tilt</th><td>{{.Snap.Head.Tilt}} &rarr; {{.Snap.Head.TargetTilt}} ({{.Snap.Head.TiltRange.Min}}-{{.Snap.Head.TiltRange.Max}}, center {{.Snap.Head.TiltRange.Center}})</td></tr>
<tr><th>Breathing</th><td>{{.Snap.Head.Breathing}}</td></tr>
</table>

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .Snap.MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .Snap.MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{orNone .Snap.Config.Broker}}</td></tr>
{{if .Snap.Network}}<tr><th>Network</th><td>{{.Snap.Network.Status}} ({{.Snap.Network.Type}}{{if .Snap.Network.SSID}}, {{.Snap.Network.SSID}}{{end}})</td></tr>
<tr><th>IP</th><td>{{.Snap.Network.IP}}</td></tr>{{end}}
</table>

<h2>Event Counts</h2>
<table>
<tr><th>Gestures</th><td>{{.Snap.Counts.Gestures}}</td></tr>
<tr><th>Mood changes</th><td>{{.Snap.Counts.MoodChanges}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.Snap.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Servo driver</th><td>{{.Snap.Config.ServoDriver}}</td></tr>
<tr><th>Display</th><td>{{.Snap.Config.DisplayDriver}}{{if .Snap.Display.Headless}} (headless){{end}}, {{.Snap.Display.Frames}} frames, {{.Snap.Display.Dropped}} dropped, {{.Snap.Display.Errors}} errors</td></tr>
<tr><th>Poll</th><td>{{.Snap.Config.PollMs}}ms</td></tr>
<tr><th>Heartbeat</th><td>{{if eq .Snap.Config.HeartbeatMs 0}}disabled{{else}}{{.Snap.Config.HeartbeatMs}}ms{{end}}</td></tr>
<tr><th>HTTP</th><td>{{.Snap.Config.HTTPAddr}}</td></tr>
{{if .Snap.Config.ConfigFile}}<tr><th>Config file</th><td>{{.Snap.Config.ConfigFile}}</td></tr>{{end}}
</table>

<p><a href="/index.json">JSON</a></p>
{{if .Face}}
<script>
(function() {
  var img = document.getElementById("face");
  setInterval(function() { img.src = "/face.png?t=" + Date.now(); }, 500);
})();
</script>
{{end}}
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot, face bool) {
	data := struct {
		Snap   status.Snapshot
		Uptime time.Duration
		Face   bool
	}{
		Snap:   snap,
		Uptime: snap.Uptime(),
		Face:   face,
	}
	indexTmpl.Execute(w, data)
}
