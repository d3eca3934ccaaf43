// internal/game/broadcast_test.go
package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcastFanOut(t *testing.T) {
	b := newBroadcaster()

	ch1, cancel1 := b.Subscribe()
	ch2, cancel2 := b.Subscribe()
	defer cancel1()
	defer cancel2()

	assert.Equal(t, 2, b.Subscribers())

	delivered, err := b.Publish(GapClaimedEvent{GapID: 3})
	require.NoError(t, err)
	assert.Equal(t, 2, delivered)

	for _, ch := range []<-chan []byte{ch1, ch2} {
		data := <-ch
		assert.JSONEq(t, `{"kind":"gap_claimed","value":{"gap_id":3}}`, string(data))
	}
}

func TestBroadcastNoSubscribers(t *testing.T) {
	b := newBroadcaster()
	delivered, err := b.Publish(GapFilledEvent{GapID: 0})
	require.NoError(t, err)
	assert.Zero(t, delivered)
}

func TestBroadcastDropsSlowSubscriber(t *testing.T) {
	b := newBroadcaster()

	slow, cancelSlow := b.Subscribe()
	defer cancelSlow()
	fast, cancelFast := b.Subscribe()
	defer cancelFast()

	// Fill the slow subscriber's backlog without reading; the fast one
	// drains as it goes.
	for i := 0; i <= subscriberBuffer; i++ {
		_, err := b.Publish(GapFilledEvent{GapID: i})
		require.NoError(t, err)
		<-fast
	}

	assert.Equal(t, 1, b.Subscribers(), "slow subscriber must be dropped, not block Publish")

	// The dropped channel holds its backlog and is then closed.
	received := 0
	for range slow {
		received++
	}
	assert.Equal(t, subscriberBuffer, received)
}

func TestBroadcastCancelIsIdempotent(t *testing.T) {
	b := newBroadcaster()
	_, cancel := b.Subscribe()
	cancel()
	cancel() // must not panic on double close
	assert.Zero(t, b.Subscribers())
}

func TestBroadcastClose(t *testing.T) {
	b := newBroadcaster()
	ch, cancel := b.Subscribe()
	defer cancel()

	b.Close()

	_, open := <-ch
	assert.False(t, open)

	// Subscriptions after Close come back already closed.
	late, _ := b.Subscribe()
	_, open = <-late
	assert.False(t, open)
	assert.Zero(t, b.Subscribers())
}
