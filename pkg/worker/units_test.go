package worker

import (
	"context"
	"errors"
	"testing"

	"github.com/jzx17/offthread/internal/testutils"
	"github.com/jzx17/offthread/pkg/env"
	"github.com/jzx17/offthread/pkg/resource"
	"github.com/jzx17/offthread/pkg/types"
)

// Units shared by the tests in this package
var (
	testDouble = Define("test.double", func(ctx context.Context, self Scope) error {
		for {
			if _, err := self.Receive(ctx); err != nil {
				return err
			}
			if err := self.PostMessage(1 + 1); err != nil {
				return err
			}
		}
	})

	testEcho = Define("test.echo", func(ctx context.Context, self Scope) error {
		for {
			ev, err := self.Receive(ctx)
			if err != nil {
				return err
			}
			if err := self.PostMessage(ev.Data); err != nil {
				return err
			}
		}
	})

	testFail = Define("test.fail", func(ctx context.Context, self Scope) error {
		return errors.New("boom")
	})

	testPanic = Define("test.panic", func(ctx context.Context, self Scope) error {
		panic("kaboom")
	})

	testGreetAndClose = Define("test.greet-and-close", func(ctx context.Context, self Scope) error {
		if err := self.PostMessage("hello"); err != nil {
			return err
		}
		if err := self.PostMessage(self.Name()); err != nil {
			return err
		}
		self.Close()
		_ = self.PostMessage("after close")
		return nil
	})

	testBlock = Define("test.block", func(ctx context.Context, self Scope) error {
		<-ctx.Done()
		return ctx.Err()
	})
)

// newTestHandle builds a concurrent handle on a private store
func newTestHandle(t *testing.T, u Unit, opts ...Option) (*concurrentHandle, *resource.Store) {
	t.Helper()

	store := resource.NewStore()
	o := defaultOptions()
	WithStore(store)(o)
	for _, opt := range opts {
		opt(o)
	}

	h := newConcurrentHandle(u, o)
	t.Cleanup(h.Terminate)
	return h, store
}

// useContext swaps the constructor New selects for the duration of the test
func useContext(t *testing.T, ctx env.Context) {
	t.Helper()
	prev := construct
	construct = selectConstructor(ctx)
	t.Cleanup(func() {
		construct = prev
	})
}

// recordTo registers rec for both event categories at construction time
func recordTo(rec *testutils.Recorder) []Option {
	return []Option{
		WithListener(types.EventMessage, rec.Listener()),
		WithListener(types.EventError, rec.Listener()),
	}
}
