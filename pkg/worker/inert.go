package worker

import (
	"github.com/jzx17/offthread/pkg/types"
)

// inertHandle satisfies types.Handle without doing anything. It is what New
// returns in a render context: no goroutine, no resource, no serialization.
type inertHandle struct{}

func newInertHandle(Unit, *options) inertHandle {
	return inertHandle{}
}

// AddEventListener discards the registration
func (inertHandle) AddEventListener(types.EventType, types.Listener) {}

// PostMessage discards the payload
func (inertHandle) PostMessage(any) error {
	return nil
}

// Terminate does nothing
func (inertHandle) Terminate() {}
