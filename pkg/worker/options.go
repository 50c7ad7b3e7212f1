package worker

import (
	"go.uber.org/zap"

	"github.com/jzx17/offthread/pkg/resource"
	"github.com/jzx17/offthread/pkg/types"
)

// Option configures a handle built by New
type Option func(*options)

type options struct {
	name      string
	logger    *zap.Logger
	clock     types.Clock
	store     *resource.Store
	listeners []registration
}

type registration struct {
	event    types.EventType
	listener types.Listener
}

func defaultOptions() *options {
	return &options{
		logger: zap.NewNop(),
		clock:  types.NewRealClock(),
		store:  resource.Default(),
	}
}

// WithName sets the handle name used in logs and error reports
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithLogger sets the logger; nil keeps the no-op logger
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithClock sets the clock used to timestamp events
func WithClock(clock types.Clock) Option {
	return func(o *options) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// WithStore sets the store holding the worker's executable resource
func WithStore(store *resource.Store) Option {
	return func(o *options) {
		if store != nil {
			o.store = store
		}
	}
}

// WithListener registers listener before the worker starts, so it also sees
// events the unit produces immediately, such as a failure to load
func WithListener(event types.EventType, listener types.Listener) Option {
	return func(o *options) {
		if listener != nil {
			o.listeners = append(o.listeners, registration{event: event, listener: listener})
		}
	}
}
