// Package testutils provides helpers for tests that observe worker handles
package testutils

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jzx17/offthread/pkg/types"
)

// Default timings for asynchronous assertions
const (
	WaitTimeout = 2 * time.Second
	WaitTick    = 5 * time.Millisecond
)

// Recorder collects events delivered to listeners
type Recorder struct {
	mu     sync.Mutex
	events []*types.Event
}

// NewRecorder creates an empty recorder
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Listener returns a listener that records every event it receives
func (r *Recorder) Listener() types.Listener {
	return func(ev *types.Event) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.events = append(r.events, ev)
	}
}

// Attach registers the recorder for the message and error categories of h
func (r *Recorder) Attach(h types.Handle) *Recorder {
	h.AddEventListener(types.EventMessage, r.Listener())
	h.AddEventListener(types.EventError, r.Listener())
	return r
}

// Events returns a snapshot of the recorded events
func (r *Recorder) Events() []*types.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*types.Event(nil), r.events...)
}

// Of returns the recorded events of one type
func (r *Recorder) Of(et types.EventType) []*types.Event {
	var out []*types.Event
	for _, ev := range r.Events() {
		if ev.Type == et {
			out = append(out, ev)
		}
	}
	return out
}

// Data returns the payloads of the recorded message events, in delivery order
func (r *Recorder) Data() []any {
	var out []any
	for _, ev := range r.Of(types.EventMessage) {
		out = append(out, ev.Data)
	}
	return out
}

// Len returns the number of recorded events
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

// WaitFor waits until at least n events of type et have been recorded
func (r *Recorder) WaitFor(t testing.TB, et types.EventType, n int, msgAndArgs ...interface{}) bool {
	t.Helper()
	return assert.Eventually(t, func() bool {
		return len(r.Of(et)) >= n
	}, WaitTimeout, WaitTick, msgAndArgs...)
}
