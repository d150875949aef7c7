package mqtt

import (
	"github.com/sweeney/robot-head/internal/behavior"
)

// Message is one publish as the broker would have seen it.
type Message struct {
	Topic    string
	Retained bool
	Payload  []byte
}

// FakePublisher records what would have been sent to the broker.
type FakePublisher struct {
	// Messages is every publish on either topic, in order.
	Messages []Message

	// Events and Payloads hold the behavior stream.
	Events   []behavior.Event
	Payloads [][]byte

	// SystemEvents and SystemPayloads hold the lifecycle stream.
	SystemEvents   []SystemEvent
	SystemPayloads [][]byte

	// PublishError and PublishSystemError fail the matching call; nothing is recorded.
	PublishError       error
	PublishSystemError error

	Closed    bool
	Connected bool // returned by IsConnected
}

// NewFakePublisher creates a FakePublisher for testing.
func NewFakePublisher() *FakePublisher {
	return &FakePublisher{}
}

// Publish records a behavior event.
func (f *FakePublisher) Publish(event behavior.Event) error {
	if f.PublishError != nil {
		return f.PublishError
	}
	payload, err := FormatPayload(event)
	if err != nil {
		return err
	}
	f.Events = append(f.Events, event)
	f.Payloads = append(f.Payloads, payload)
	f.Messages = append(f.Messages, Message{Topic: Topic, Payload: payload})
	return nil
}

// PublishSystem records a lifecycle event.
func (f *FakePublisher) PublishSystem(event SystemEvent) error {
	if f.PublishSystemError != nil {
		return f.PublishSystemError
	}
	payload, err := FormatSystemPayload(event)
	if err != nil {
		return err
	}
	f.SystemEvents = append(f.SystemEvents, event)
	f.SystemPayloads = append(f.SystemPayloads, payload)
	f.Messages = append(f.Messages, Message{Topic: TopicSystem, Retained: event.Retained, Payload: payload})
	return nil
}

func (f *FakePublisher) Close() error {
	f.Closed = true
	return nil
}

func (f *FakePublisher) IsConnected() bool {
	return f.Connected
}

// EventTypes returns the type of each recorded behavior event.
func (f *FakePublisher) EventTypes() []behavior.EventType {
	var types []behavior.EventType
	for _, e := range f.Events {
		types = append(types, e.Type)
	}
	return types
}

// SystemEventNames returns the Event field of each recorded system event.
func (f *FakePublisher) SystemEventNames() []string {
	var names []string
	for _, e := range f.SystemEvents {
		names = append(names, e.Event)
	}
	return names
}

// Reset returns the fake to its zero state.
func (f *FakePublisher) Reset() {
	*f = FakePublisher{}
}
