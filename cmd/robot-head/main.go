// Command robot-head drives the pan/tilt servos and OLED face of an animatronic
// head and publishes its state to MQTT.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sweeney/robot-head/internal/config"
	"github.com/sweeney/robot-head/internal/display"
	"github.com/sweeney/robot-head/internal/expression"
	"github.com/sweeney/robot-head/internal/gpio"
	"github.com/sweeney/robot-head/internal/mqtt"
	"github.com/sweeney/robot-head/internal/servo"
	"github.com/sweeney/robot-head/internal/status"
	"github.com/sweeney/robot-head/internal/timing"
	"github.com/sweeney/robot-head/internal/web"
)

// Display drivers accepted by --display.
const (
	displaySSD1306 = "ssd1306"
	displayNone    = "none"
)

type options struct {
	poll        time.Duration
	configFile  string
	servo       string
	i2cBus      string
	pcaAddr     uint
	oePin       int
	serialPort  string
	baud        int
	display     string
	broker      string
	heartbeat   time.Duration
	httpAddr    string
	gesture     string
	mood        string
	printConfig bool
}

func main() {
	var o options
	flag.DurationVar(&o.poll, "poll", 10*time.Millisecond, "Control loop interval")
	flag.StringVar(&o.configFile, "config", "", "YAML config file (empty for built-in defaults)")
	flag.StringVar(&o.servo, "servo", string(servo.DriverPCA9685), "Servo driver: pca9685, maestro or none")
	flag.StringVar(&o.i2cBus, "i2c-bus", "", `I2C bus for the servo board and panel ("" for the default bus)`)
	flag.UintVar(&o.pcaAddr, "pca-addr", uint(servo.DefaultPCA9685Addr), "PCA9685 I2C address")
	flag.IntVar(&o.oePin, "oe-pin", gpio.DefaultPinServoOE, "BCM pin wired to the PCA9685 /OE input (-1 if not wired)")
	flag.StringVar(&o.serialPort, "serial", "/dev/ttyACM0", "Maestro command port")
	flag.IntVar(&o.baud, "baud", servo.DefaultMaestroBaud, "Maestro baud rate")
	flag.StringVar(&o.display, "display", displaySSD1306, "Display driver: ssd1306 or none")
	flag.StringVar(&o.broker, "broker", "tcp://192.168.1.200:1883", "MQTT broker address (empty to disable)")
	flag.DurationVar(&o.heartbeat, "heartbeat", 15*time.Minute, "Heartbeat interval (0 to disable)")
	flag.StringVar(&o.httpAddr, "http", ":80", "HTTP status address (empty to disable)")
	flag.StringVar(&o.gesture, "gesture", "", "Gesture to play once at startup")
	flag.StringVar(&o.mood, "mood", "normal", "Initial mood: normal, happy, sleep or confused")
	flag.BoolVar(&o.printConfig, "print-config", false, "Print the effective config as YAML and exit")

	flag.Parse()

	if err := run(o); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(o options) error {
	cfg, err := config.Load(o.configFile)
	if err != nil {
		return err
	}

	if o.printConfig {
		out, err := config.Marshal(cfg)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(out)
		return err
	}

	driver, err := servo.ParseDriver(o.servo)
	if err != nil {
		return err
	}
	mood, err := expression.ParseMood(o.mood)
	if err != nil {
		return err
	}
	if o.gesture != "" {
		if _, ok := cfg.Behavior.Gestures[o.gesture]; !ok {
			return fmt.Errorf("unknown gesture %q", o.gesture)
		}
	}

	// Initialize servos
	sink, err := openServo(driver, o, cfg.Servo)
	if err != nil {
		return fmt.Errorf("init servo: %w", err)
	}
	defer func() {
		if err := closeSink(sink); err != nil {
			log.Printf("servo close: %v", err)
		}
	}()

	// Initialize display; a missing panel leaves the face headless
	canvas := openDisplay(o.display, o.i2cBus)
	defer func() {
		if err := canvas.Close(); err != nil {
			log.Printf("display close: %v", err)
		}
	}()
	displayDriver := o.display
	if canvas.Headless() {
		displayDriver = displayNone
	}

	// Initialize MQTT
	var publisher interface {
		mqtt.Publisher
		mqtt.ConnectionStatus
	} = mqtt.NopPublisher{}
	if o.broker != "" {
		p, err := mqtt.NewRealPublisher(o.broker)
		if err != nil {
			log.Printf("mqtt disabled: %v", err)
		} else {
			publisher = p
		}
	}
	defer publisher.Close()

	// Initialize status tracker (before STARTUP so snapshot is available)
	tracker := status.NewTracker(time.Now(), status.Config{
		PollMs:        o.poll.Milliseconds(),
		HeartbeatMs:   o.heartbeat.Milliseconds(),
		Broker:        o.broker,
		HTTPAddr:      o.httpAddr,
		ServoDriver:   string(driver),
		DisplayDriver: displayDriver,
		ConfigFile:    o.configFile,
	})
	if net := readNetworkInfo(); net != nil {
		tracker.SetNetwork(net)
	}

	log.Printf("initializing servos (settle %v)", cfg.Motion.Settle)
	rnd := rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), rand.Uint64()))
	h := newHead(sink, canvas, cfg, rnd, time.Now)
	if mood != expression.Normal {
		h.director.SetMood(mood, time.Now())
	}
	if o.gesture != "" {
		h.director.Start(o.gesture, time.Now())
	}
	h.report(tracker)

	// Publish startup event with full status snapshot
	tracker.SetMQTTConnected(publisher.IsConnected())
	snap := tracker.Snapshot()
	startupEvent := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
	}
	if err := publisher.PublishSystem(startupEvent); err != nil {
		log.Printf("failed to publish startup event: %v", err)
	} else {
		log.Printf("published startup event")
	}

	// Start HTTP status server
	if o.httpAddr != "" {
		srv := web.New(o.httpAddr, tracker, canvas)
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", o.httpAddr)
	}

	log.Printf("started: poll=%v servo=%s display=%s broker=%q heartbeat=%v gestures=%v",
		o.poll, driver, displayDriver, o.broker, o.heartbeat, h.director.Gestures())

	ticker := time.NewTicker(o.poll)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return runLoop(h, publisher, publisher, tracker, o.heartbeat, time.Now, ticker.C, sigCh)
}

func runLoop(h *head, publisher mqtt.Publisher, mqttStatus mqtt.ConnectionStatus, tracker *status.Tracker, heartbeat time.Duration, now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal) error {
	hb := timing.NewDeadline(heartbeat)
	hb.Reset(now())

	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			signalName := "UNKNOWN"
			if s == syscall.SIGINT {
				signalName = "SIGINT"
			} else if s == syscall.SIGTERM {
				signalName = "SIGTERM"
			}

			h.park()

			event := mqtt.SystemEvent{
				Timestamp: now(),
				Event:     "SHUTDOWN",
				Reason:    signalName,
				Retained:  true,
			}
			if tracker != nil {
				h.report(tracker)
				if mqttStatus != nil {
					tracker.SetMQTTConnected(mqttStatus.IsConnected())
				}
				snap := tracker.Snapshot()
				event.RawPayload = status.FormatStatusEvent(snap, "SHUTDOWN", signalName)
			}
			if err := publisher.PublishSystem(event); err != nil {
				log.Printf("failed to publish shutdown event: %v", err)
			} else {
				log.Printf("published shutdown event")
			}
			return nil

		case <-tick:
			t := now()
			events := h.step(t)

			for _, event := range events {
				log.Printf("event: %s gesture=%q mood=%s", event.Type, event.Gesture, event.Mood)
				if err := publisher.Publish(event); err != nil {
					log.Printf("publish error: %v", err)
					// Don't crash on publish failure
				}
			}

			if tracker == nil {
				continue
			}

			// Update status tracker for HTTP/heartbeat consumers
			h.report(tracker)
			tracker.CountEvents(events)
			if mqttStatus != nil {
				tracker.SetMQTTConnected(mqttStatus.IsConnected())
			}

			if heartbeat > 0 && hb.Fire(t) {
				// Refresh network info for heartbeat
				if net := readNetworkInfo(); net != nil {
					tracker.SetNetwork(net)
				}
				snap := tracker.Snapshot()
				log.Printf("heartbeat: uptime=%v mood=%s gestures=%d",
					snap.Uptime().Truncate(time.Second), snap.Face.Mood, snap.Counts.Gestures)
				hbEvent := mqtt.SystemEvent{
					Timestamp:  t,
					Event:      "HEARTBEAT",
					RawPayload: status.FormatStatusEvent(snap, "HEARTBEAT", ""),
				}
				if err := publisher.PublishSystem(hbEvent); err != nil {
					log.Printf("heartbeat publish error: %v", err)
				}
			}
		}
	}
}

// openServo builds the sink for driver. Release it with closeSink.
func openServo(driver servo.Driver, o options, s config.Servo) (servo.Sink, error) {
	switch driver {
	case servo.DriverPCA9685:
		return openPCA9685(o, s)
	case servo.DriverMaestro:
		m, err := servo.OpenMaestro(o.serialPort, o.baud, s.Channels(), s.Pulses())
		if err != nil {
			return nil, err
		}
		return m, nil
	default:
		log.Printf("servo: no driver, running without servos")
		return servo.NewNull(), nil
	}
}

// closeSink releases the hardware behind sink, if it holds any.
func closeSink(sink servo.Sink) error {
	if c, ok := sink.(servo.Closer); ok {
		return c.Close()
	}
	return nil
}

func openPCA9685(o options, s config.Servo) (servo.Sink, error) {
	var oe gpio.Line
	if o.oePin != gpio.PinDisabled {
		line, err := gpio.NewRealLine(o.oePin, true)
		if err != nil {
			return nil, fmt.Errorf("output enable: %w", err)
		}
		oe = line
	}

	p, err := servo.OpenPCA9685(o.i2cBus, uint16(o.pcaAddr), s.Channels(), s.Pulses(), oe)
	if err != nil {
		if oe != nil {
			oe.Close()
		}
		return nil, err
	}
	return p, nil
}

// openDisplay returns a canvas bound to the panel, or a headless one when the
// panel is disabled or cannot be opened.
func openDisplay(driver, busName string) *display.Canvas {
	if driver != displaySSD1306 {
		log.Printf("display: %q selected, running headless", driver)
		return display.NewCanvas(nil)
	}
	panel, err := display.OpenPanel(busName)
	if err != nil {
		log.Printf("display: %v, running headless", err)
		return display.NewCanvas(nil)
	}
	return display.NewCanvas(panel)
}

// pi-helper env var names (written to /run/pi-helper.env).
const (
	envNetworkType       = "NETWORK_TYPE"
	envNetworkIP         = "NETWORK_IP"
	envNetworkStatus     = "NETWORK_STATUS"
	envNetworkGateway    = "NETWORK_GATEWAY"
	envNetworkWifiStatus = "NETWORK_WIFI_STATUS"
	envNetworkWifiSSID   = "NETWORK_WIFI_SSID"
)

func readNetworkInfo() *status.NetworkInfo {
	s := os.Getenv(envNetworkStatus)
	if s == "" {
		return nil
	}
	return &status.NetworkInfo{
		Type:       os.Getenv(envNetworkType),
		IP:         os.Getenv(envNetworkIP),
		Status:     s,
		Gateway:    os.Getenv(envNetworkGateway),
		WifiStatus: os.Getenv(envNetworkWifiStatus),
		SSID:       os.Getenv(envNetworkWifiSSID),
	}
}
