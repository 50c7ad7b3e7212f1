//go:build js && wasm

package env

import (
	"syscall/js"
)

// probe checks for the globals a page exposes. Inside a web worker or a
// non-browser wasm host there is no document and workers cannot be spawned
// from here.
func probe() (Context, error) {
	global := js.Global()
	if global.IsUndefined() || global.IsNull() {
		return ContextRender, nil
	}
	if global.Get("document").IsUndefined() || global.Get("Worker").IsUndefined() {
		return ContextRender, nil
	}
	return ContextInteractive, nil
}
