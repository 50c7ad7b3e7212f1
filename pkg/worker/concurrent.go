package worker

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/jzx17/offthread/internal/metrics"
	"github.com/jzx17/offthread/pkg/codec"
	"github.com/jzx17/offthread/pkg/types"
)

// handleCounter numbers handles that were not given a name
var handleCounter int64

// concurrentHandle runs its unit on a dedicated goroutine. The owner and the
// worker exchange only encoded messages through two mailboxes.
type concurrentHandle struct {
	name    string
	unit    string
	locator string

	inbox  *mailbox
	outbox *mailbox

	listeners map[types.EventType][]types.Listener
	mu        sync.RWMutex

	ctx           context.Context
	cancel        context.CancelFunc
	terminated    atomic.Bool
	deliverMu     sync.Mutex
	terminateOnce sync.Once
	releaseOnce   sync.Once
	done          chan struct{}

	opts   *options
	clock  types.Clock
	logger *zap.Logger
}

func newConcurrentHandle(u Unit, o *options) *concurrentHandle {
	name := o.name
	if name == "" {
		name = fmt.Sprintf("%s-%d", u.Name(), atomic.AddInt64(&handleCounter, 1))
	}

	h := &concurrentHandle{
		name:      name,
		unit:      u.Name(),
		inbox:     newMailbox(),
		outbox:    newMailbox(),
		listeners: make(map[types.EventType][]types.Listener),
		done:      make(chan struct{}),
		opts:      o,
		clock:     o.clock,
		logger:    o.logger.With(zap.String("handle", name), zap.String("unit", u.Name())),
	}
	h.ctx, h.cancel = context.WithCancel(context.Background())
	for _, r := range o.listeners {
		h.listeners[r.event] = append(h.listeners[r.event], r.listener)
	}

	blob, err := compile(u)
	if err == nil {
		h.locator = o.store.CreateObjectURL(blob)
	}

	metrics.HandleCreated()
	h.logger.Debug("worker spawned", zap.String("locator", h.locator))

	go h.run(err)
	go h.dispatch()

	return h
}

// AddEventListener implements types.Handle
func (h *concurrentHandle) AddEventListener(event types.EventType, listener types.Listener) {
	if listener == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.listeners[event] = append(h.listeners[event], listener)
}

// PostMessage implements types.Handle. Encoding failures are returned to the
// caller; messages posted after termination are dropped.
func (h *concurrentHandle) PostMessage(data any) error {
	raw, err := codec.Marshal(data)
	if err != nil {
		return err
	}
	if h.inbox.push(delivery{raw: raw, at: h.clock.Now()}) {
		metrics.MessagePosted(metrics.DirectionInbound)
	}
	return nil
}

// Terminate implements types.Handle. No listener is invoked after it returns,
// except one that was already running when it was called.
func (h *concurrentHandle) Terminate() {
	h.terminateOnce.Do(func() {
		h.deliverMu.Lock()
		h.terminated.Store(true)
		h.deliverMu.Unlock()

		h.cancel()
		h.inbox.close()
		h.outbox.close()
		h.release()

		metrics.HandleTerminated()
		h.logger.Debug("worker terminated")
	})
}

// run loads the script behind the handle's locator and executes its unit
func (h *concurrentHandle) run(compileErr error) {
	defer close(h.done)
	defer h.release()
	defer h.outbox.seal()
	defer h.inbox.close()

	if compileErr != nil {
		h.fail(compileErr)
		return
	}

	fn, err := h.load()
	if err != nil {
		h.fail(err)
		return
	}

	if err := h.invoke(fn); err != nil {
		if h.terminated.Load() && (errors.Is(err, context.Canceled) || errors.Is(err, types.ErrTerminated)) {
			return
		}
		h.fail(err)
	}
}

func (h *concurrentHandle) load() (UnitFunc, error) {
	blob, err := h.opts.store.Resolve(h.locator)
	if err != nil {
		return nil, err
	}

	script, err := loadScript(blob)
	if err != nil {
		return nil, err
	}

	fn, ok := lookup(script.Unit)
	if !ok {
		return nil, fmt.Errorf("%w: %s", types.ErrUndefinedUnit, script.Unit)
	}
	return fn, nil
}

// invoke runs the unit with panic recovery
func (h *concurrentHandle) invoke(fn UnitFunc) (err error) {
	defer func() {
		if r := recover(); r != nil {
			var buf [4096]byte
			n := runtime.Stack(buf[:], false)

			var cause error
			switch v := r.(type) {
			case error:
				cause = fmt.Errorf("panic: %w", v)
			default:
				cause = fmt.Errorf("panic: %v", v)
			}

			werr := types.NewWorkerError(h.unit, h.name, cause)
			werr.WithContext("stack_trace", string(buf[:n]))
			err = werr
		}
	}()

	return fn(h.ctx, &scope{h: h})
}

// fail queues an error event for the owner
func (h *concurrentHandle) fail(err error) {
	var werr *types.WorkerError
	if !errors.As(err, &werr) {
		werr = types.NewWorkerError(h.unit, h.name, err)
	}

	if h.outbox.push(delivery{err: werr, at: h.clock.Now()}) {
		metrics.WorkerError()
	}
	h.logger.Debug("worker failed", zap.Error(err))
}

// dispatch delivers outbound deliveries to listeners, one at a time, in order
func (h *concurrentHandle) dispatch() {
	for {
		d, err := h.outbox.pop(h.ctx)
		if err != nil {
			return
		}
		if h.terminated.Load() {
			return
		}

		var ev *types.Event
		if d.err != nil {
			ev = types.NewErrorEvent(d.err, d.at)
		} else {
			ev, err = types.NewMessageEvent(d.raw, d.at)
			if err != nil {
				ev = types.NewErrorEvent(types.NewWorkerError(h.unit, h.name, err), d.at)
			}
		}

		h.mu.RLock()
		listeners := append([]types.Listener(nil), h.listeners[ev.Type]...)
		h.mu.RUnlock()

		if len(listeners) == 0 && ev.Type == types.EventError {
			h.logger.Debug("unhandled worker error", zap.Error(ev.Err))
		}

		for _, listener := range listeners {
			if !h.beginCall() {
				return
			}
			h.call(listener, ev)
		}

		if ev.Type == types.EventMessage {
			metrics.MessageDelivered(metrics.DirectionOutbound)
		}
	}
}

// beginCall reports whether a listener may still be started. Terminate flips
// the flag under the same lock, so no call starts after Terminate returns.
func (h *concurrentHandle) beginCall() bool {
	h.deliverMu.Lock()
	defer h.deliverMu.Unlock()
	return !h.terminated.Load()
}

// call invokes a listener; a panicking listener does not stop delivery to the others
func (h *concurrentHandle) call(listener types.Listener, ev *types.Event) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("event listener panicked",
				zap.String("event", ev.Type.String()),
				zap.Any("panic", r))
		}
	}()
	listener(ev)
}

// release revokes the executable resource
func (h *concurrentHandle) release() {
	h.releaseOnce.Do(func() {
		if h.locator != "" {
			h.opts.store.RevokeObjectURL(h.locator)
		}
	})
}
