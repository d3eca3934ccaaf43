// internal/game/broadcast.go
package game

import "sync"

// subscriberBuffer is the per-subscriber backlog of serialized events. A
// subscriber that falls further behind than this is dropped; a dropped
// client resynchronizes through the rejoin endpoint, not by replay.
const subscriberBuffer = 10

// Broadcaster is the per-lobby fan-out channel. Every mutating operation
// publishes exactly one serialized event after the state change is applied;
// connected websocket clients each hold one subscription.
//
// Events are not persisted: late subscribers miss everything published
// before they subscribed.
type Broadcaster struct {
	mu     sync.Mutex
	subs   map[int]chan []byte
	nextID int
	closed bool
}

func newBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[int]chan []byte)}
}

// Subscribe registers a new subscriber and returns its receive channel plus
// a cancel func. The channel is closed by cancel, by Close, or when the
// subscriber is dropped for falling behind.
func (b *Broadcaster) Subscribe() (<-chan []byte, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan []byte, subscriberBuffer)
	if b.closed {
		close(ch)
		return ch, func() {}
	}

	id := b.nextID
	b.nextID++
	b.subs[id] = ch

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		// The subscriber may already have been dropped by Publish or Close;
		// only close the channel if we still own it.
		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// Subscribers reports the current number of live subscriptions.
func (b *Broadcaster) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Publish serializes ev and sends it to every subscriber without blocking.
// Subscribers whose backlog is full are dropped on the spot. It returns the
// number of subscribers the event was actually delivered to.
func (b *Broadcaster) Publish(ev Event) (int, error) {
	data, err := EncodeEvent(ev)
	if err != nil {
		return 0, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	delivered := 0
	for id, ch := range b.subs {
		select {
		case ch <- data:
			delivered++
		default:
			delete(b.subs, id)
			close(ch)
		}
	}
	return delivered, nil
}

// Close drops all subscribers and closes their channels. Used when a lobby
// is removed from the registry.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}
