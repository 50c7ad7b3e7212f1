/*
Package worker builds handles to background execution units that behave the
same way whether or not the process can actually run them.

# Overview

Code that schedules background work calls New and talks to the returned
Handle through three operations:

  - AddEventListener registers a callback for "message" or "error" events
  - PostMessage sends a payload to the worker
  - Terminate stops the worker

Which implementation New returns is decided once, when the package is
initialized, from env.Detect:

  - Interactive context: the unit runs on its own goroutine. Owner and worker
    share no memory; every payload is copied through the CBOR codec.
  - Render context: the handle is inert. Nothing is started, allocated or
    serialized, and every operation returns immediately.

Callers never branch on the variant.

# Units

A unit is a function registered under a name with Define. New compiles the
unit reference into a launch script, stores it as an executable resource and
starts the worker from the resource's locator. Only the name travels through
that resource, so a unit must be self-contained: define units as package-level
variables and pass everything they need as messages. A unit name that is not
defined on the worker side surfaces as a single error event carrying
types.ErrUndefinedUnit, never as a construction failure.

# Delivery

Messages posted to one worker arrive in post order, and messages posted back
reach listeners in order on a single dispatcher goroutine per handle. Nothing
is ordered across handles. PostMessage never blocks; the only error it can
return is a payload the codec cannot represent (types.ErrUnserializable).

Errors raised inside the worker, including panics, are delivered only to
"error" listeners. Without one they are dropped. Register listeners with
WithListener when the unit may report something before the caller gets a
chance to call AddEventListener.

# Termination

Terminate is hard: the unit's context is cancelled, queued messages in both
directions are discarded, the executable resource is revoked and no listener
starts after it returns. Calling it again has no effect. A unit that ignores
its context keeps running until it returns, but nothing it posts is delivered.

# Usage

	var Double = worker.Define("double", func(ctx context.Context, self worker.Scope) error {
		for {
			if _, err := self.Receive(ctx); err != nil {
				return err
			}
			if err := self.PostMessage(1 + 1); err != nil {
				return err
			}
		}
	})

Listeners passed to New with WithListener are in place before the unit
starts, so a load failure or an immediate reply cannot slip past them:

	h := worker.New(Double,
		worker.WithListener(types.EventMessage, func(ev *types.Event) {
			fmt.Println(ev.Data) // 2
		}),
		worker.WithListener(types.EventError, func(ev *types.Event) {
			log.Println(ev.Err)
		}),
	)
	defer h.Terminate()

	_ = h.PostMessage("go")

AddEventListener suits listeners added later in the handle's life, once the
events they care about can no longer have fired already.
*/
package worker
