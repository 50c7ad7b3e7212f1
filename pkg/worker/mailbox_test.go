package worker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMailbox_FIFO(t *testing.T) {
	m := newMailbox()
	for i := 0; i < 5; i++ {
		assert.True(t, m.push(delivery{raw: []byte{byte(i)}}))
	}
	assert.Equal(t, 5, m.len())

	for i := 0; i < 5; i++ {
		d, err := m.pop(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []byte{byte(i)}, d.raw)
	}
	assert.Equal(t, 0, m.len())
}

func TestMailbox_PopWaits(t *testing.T) {
	m := newMailbox()
	got := make(chan delivery, 1)

	go func() {
		d, err := m.pop(context.Background())
		if err == nil {
			got <- d
		}
	}()

	time.Sleep(10 * time.Millisecond)
	m.push(delivery{raw: []byte("x")})

	select {
	case d := <-got:
		assert.Equal(t, []byte("x"), d.raw)
	case <-time.After(time.Second):
		t.Fatal("pop did not wake up")
	}
}

func TestMailbox_PopContextCancel(t *testing.T) {
	m := newMailbox()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := m.pop(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestMailbox_Seal(t *testing.T) {
	m := newMailbox()
	m.push(delivery{raw: []byte("a")})
	m.seal()

	assert.False(t, m.push(delivery{raw: []byte("b")}))

	d, err := m.pop(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte("a"), d.raw)

	_, err = m.pop(context.Background())
	assert.ErrorIs(t, err, errMailboxClosed)
}

func TestMailbox_Close(t *testing.T) {
	m := newMailbox()
	m.push(delivery{raw: []byte("a")})
	m.close()

	assert.Equal(t, 0, m.len())
	assert.False(t, m.push(delivery{raw: []byte("b")}))

	_, err := m.pop(context.Background())
	assert.ErrorIs(t, err, errMailboxClosed)
}

func TestMailbox_CloseWakesAllWaiters(t *testing.T) {
	m := newMailbox()

	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := m.pop(context.Background())
			assert.ErrorIs(t, err, errMailboxClosed)
		}()
	}

	time.Sleep(10 * time.Millisecond)
	m.close()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("waiters were not released")
	}
}

func TestMailbox_ConcurrentProducers(t *testing.T) {
	m := newMailbox()
	const producers, each = 10, 100

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < each; i++ {
				m.push(delivery{})
			}
		}()
	}

	received := 0
	for received < producers*each {
		_, err := m.pop(context.Background())
		require.NoError(t, err)
		received++
	}
	wg.Wait()
	assert.Equal(t, 0, m.len())
}
