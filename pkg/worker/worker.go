package worker

import (
	"github.com/jzx17/offthread/pkg/env"
	"github.com/jzx17/offthread/pkg/types"
)

// Handle is the uniform handle returned by New
type Handle = types.Handle

type constructor func(u Unit, o *options) Handle

// construct is chosen once, when the package is initialized
var construct constructor

func init() {
	construct = selectConstructor(env.Detect())
}

func selectConstructor(ctx env.Context) constructor {
	if ctx.Concurrent() {
		return func(u Unit, o *options) Handle {
			return newConcurrentHandle(u, o)
		}
	}
	return func(u Unit, o *options) Handle {
		return newInertHandle(u, o)
	}
}

// New builds a handle running u in the background.
//
// In an interactive context the unit starts on its own goroutine right away.
// In a render context the returned handle is inert and every operation on it
// is a no-op. Construction never fails: problems loading the unit, including
// an undefined unit name, are reported to error listeners.
func New(u Unit, opts ...Option) Handle {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return construct(u, o)
}

var (
	_ Handle = (*concurrentHandle)(nil)
	_ Handle = inertHandle{}
)
