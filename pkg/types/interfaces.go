// Package types defines the vocabulary shared by worker handles, their hosts and their callers
package types

import (
	"time"

	"github.com/jzx17/offthread/pkg/codec"
)

// Handle is the caller-side view of a background execution unit.
// Both the concurrent and the inert implementation satisfy it; callers must not
// branch on which one they hold.
type Handle interface {
	// AddEventListener registers listener for events of the given type
	AddEventListener(event EventType, listener Listener)

	// PostMessage enqueues data for delivery into the worker's input channel.
	// It never blocks and returns only serialization failures.
	PostMessage(data any) error

	// Terminate stops the worker immediately; queued messages are discarded
	Terminate()
}

// EventType names an event category a Handle can deliver
type EventType string

const (
	// EventMessage is delivered for every message the worker posts back
	EventMessage EventType = "message"
	// EventError is delivered when the worker fails
	EventError EventType = "error"
)

// String returns the string representation of EventType
func (et EventType) String() string {
	return string(et)
}

// Listener receives events from a Handle
type Listener func(event *Event)

// Event is a single delivery from one side of a worker channel to the other
type Event struct {
	// Type is the event category
	Type EventType

	// Data is the decoded payload of a message event
	Data any

	// Err is the failure carried by an error event
	Err error

	// Time is when the event was produced
	Time time.Time

	raw []byte
}

// NewMessageEvent builds a message event from an encoded payload
func NewMessageEvent(raw []byte, at time.Time) (*Event, error) {
	data, err := codec.Decode(raw)
	if err != nil {
		return nil, err
	}
	return &Event{
		Type: EventMessage,
		Data: data,
		Time: at,
		raw:  raw,
	}, nil
}

// NewErrorEvent builds an error event
func NewErrorEvent(err error, at time.Time) *Event {
	return &Event{
		Type: EventError,
		Err:  err,
		Time: at,
	}
}

// Decode decodes the message payload into v, which must be a pointer
func (e *Event) Decode(v any) error {
	if e.Type != EventMessage {
		return NewWorkerError("", "", ErrNoPayload).WithContext("event", e.Type.String())
	}
	return codec.Unmarshal(e.raw, v)
}
