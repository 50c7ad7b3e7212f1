package worker

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// UnitFunc is the body of a worker. It runs on its own goroutine and talks to
// its owner only through self. ctx is cancelled when the owner terminates the
// worker.
type UnitFunc func(ctx context.Context, self Scope) error

// Unit is a named reference to a UnitFunc. Only the name crosses into the
// worker, so a unit must not depend on state captured from where it was
// defined; define units as package-level variables.
type Unit struct {
	name string
}

// Name returns the unit name
func (u Unit) Name() string {
	return u.name
}

// String implements fmt.Stringer
func (u Unit) String() string {
	return u.name
}

var registry = struct {
	mu    sync.RWMutex
	units map[string]UnitFunc
}{
	units: make(map[string]UnitFunc),
}

// Define registers fn under name and returns a reference to it.
// It panics if name is empty, fn is nil or name is already defined.
func Define(name string, fn UnitFunc) Unit {
	if name == "" {
		panic("worker: Define with empty unit name")
	}
	if fn == nil {
		panic(fmt.Sprintf("worker: Define %q with nil function", name))
	}

	registry.mu.Lock()
	defer registry.mu.Unlock()

	if _, dup := registry.units[name]; dup {
		panic(fmt.Sprintf("worker: unit %q defined twice", name))
	}
	registry.units[name] = fn
	return Unit{name: name}
}

// Ref returns a reference to a unit by name without checking that it exists.
// A handle built from an undefined unit reports types.ErrUndefinedUnit through
// its error listeners once the worker starts.
func Ref(name string) Unit {
	return Unit{name: name}
}

// Units returns the names of all defined units, sorted
func Units() []string {
	registry.mu.RLock()
	defer registry.mu.RUnlock()

	names := make([]string, 0, len(registry.units))
	for name := range registry.units {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func lookup(name string) (UnitFunc, bool) {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	fn, ok := registry.units[name]
	return fn, ok
}
