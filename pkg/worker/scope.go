package worker

import (
	"context"
	"errors"

	"github.com/jzx17/offthread/internal/metrics"
	"github.com/jzx17/offthread/pkg/codec"
	"github.com/jzx17/offthread/pkg/types"
)

// Scope is the worker side of a handle
type Scope interface {
	// Name returns the name of the owning handle
	Name() string

	// Receive returns the next message posted by the owner, in post order.
	// It returns types.ErrTerminated once the worker is terminated or closed.
	Receive(ctx context.Context) (*types.Event, error)

	// PostMessage sends data back to the owner's message listeners
	PostMessage(data any) error

	// Close stops accepting input. Messages already posted are still delivered.
	Close()
}

type scope struct {
	h *concurrentHandle
}

func (s *scope) Name() string {
	return s.h.name
}

func (s *scope) Receive(ctx context.Context) (*types.Event, error) {
	d, err := s.h.inbox.pop(ctx)
	if err != nil {
		if errors.Is(err, errMailboxClosed) {
			return nil, types.ErrTerminated
		}
		return nil, err
	}

	ev, err := types.NewMessageEvent(d.raw, d.at)
	if err != nil {
		return nil, err
	}
	metrics.MessageDelivered(metrics.DirectionInbound)
	return ev, nil
}

func (s *scope) PostMessage(data any) error {
	raw, err := codec.Marshal(data)
	if err != nil {
		return err
	}
	if s.h.outbox.push(delivery{raw: raw, at: s.h.clock.Now()}) {
		metrics.MessagePosted(metrics.DirectionOutbound)
	}
	return nil
}

func (s *scope) Close() {
	s.h.inbox.close()
	s.h.outbox.seal()
}
