// Package env detects, once per process, whether real background workers can run.
//
// An interactive context (a browser page, or a native process configured for it)
// supports concurrent workers. A render context (server-side or static rendering,
// or a wasm host without a document) does not, and worker handles built there
// are inert.
package env

import (
	"fmt"
	"strings"
	"sync"
)

// Context is the execution context a process runs in
type Context int

const (
	// ContextRender has no worker capability
	ContextRender Context = iota
	// ContextInteractive supports concurrent workers
	ContextInteractive
)

// String returns the string representation of Context
func (c Context) String() string {
	switch c {
	case ContextRender:
		return "render"
	case ContextInteractive:
		return "interactive"
	default:
		return "unknown"
	}
}

// Concurrent reports whether real workers can be spawned in this context
func (c Context) Concurrent() bool {
	return c == ContextInteractive
}

// ParseContext parses a configured context name. "auto" resolves to the
// platform default, which is reported through the second return value.
func ParseContext(name string) (ctx Context, auto bool, err error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "auto":
		return ContextRender, true, nil
	case "interactive", "browser", "concurrent":
		return ContextInteractive, false, nil
	case "render", "ssr", "inert":
		return ContextRender, false, nil
	default:
		return ContextRender, false, fmt.Errorf("unknown context %q", name)
	}
}

var (
	detected   Context
	detectErr  error
	detectOnce sync.Once
)

// Detect returns the process execution context. The probe runs on first call
// only; every later call returns the same value.
func Detect() Context {
	detectOnce.Do(func() {
		detected, detectErr = probe()
	})
	return detected
}

// DetectErr reports why Detect fell back to the render context, or nil when
// the context was resolved cleanly. Detect usually runs during package
// initialization, before a caller has installed a logger, so this is the
// place to look when every handle turns out inert.
func DetectErr() error {
	Detect()
	return detectErr
}
