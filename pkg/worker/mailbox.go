package worker

import (
	"context"
	"errors"
	"sync"
	"time"
)

var errMailboxClosed = errors.New("mailbox closed")

// delivery is one queued item: an encoded message or a worker failure
type delivery struct {
	raw []byte
	err error
	at  time.Time
}

// mailbox is an unbounded FIFO queue. push never blocks; pop waits for an item.
type mailbox struct {
	mu     sync.Mutex
	queue  []delivery
	signal chan struct{}

	// sealed mailboxes refuse new items but still hand out queued ones
	sealed bool
	// closed mailboxes drop everything
	closed bool
}

func newMailbox() *mailbox {
	return &mailbox{
		signal: make(chan struct{}, 1),
	}
}

// push appends d and reports whether it was accepted
func (m *mailbox) push(d delivery) bool {
	m.mu.Lock()
	if m.sealed || m.closed {
		m.mu.Unlock()
		return false
	}
	m.queue = append(m.queue, d)
	m.mu.Unlock()

	m.notify()
	return true
}

// pop removes the oldest item, waiting until one is available
func (m *mailbox) pop(ctx context.Context) (delivery, error) {
	for {
		m.mu.Lock()
		if m.closed {
			m.mu.Unlock()
			m.notify()
			return delivery{}, errMailboxClosed
		}
		if len(m.queue) > 0 {
			d := m.queue[0]
			m.queue[0] = delivery{}
			m.queue = m.queue[1:]
			more := len(m.queue) > 0
			m.mu.Unlock()

			// hand the wakeup on in case another receiver is waiting
			if more {
				m.notify()
			}
			return d, nil
		}
		if m.sealed {
			m.mu.Unlock()
			m.notify()
			return delivery{}, errMailboxClosed
		}
		m.mu.Unlock()

		select {
		case <-ctx.Done():
			return delivery{}, ctx.Err()
		case <-m.signal:
		}
	}
}

// seal stops accepting items; queued items can still be popped
func (m *mailbox) seal() {
	m.mu.Lock()
	m.sealed = true
	m.mu.Unlock()
	m.notify()
}

// close discards queued items and wakes any waiter
func (m *mailbox) close() {
	m.mu.Lock()
	m.closed = true
	m.queue = nil
	m.mu.Unlock()
	m.notify()
}

func (m *mailbox) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}

func (m *mailbox) notify() {
	select {
	case m.signal <- struct{}{}:
	default:
	}
}
