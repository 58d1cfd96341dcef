// Package eventbus is an in-process fan-out of events to subscribers.
package eventbus

import (
	"context"
	"sync"
	"sync/atomic"
)

// DefaultBuffer is the per-subscriber channel capacity used when Subscribe
// is given a non-positive size.
const DefaultBuffer = 64

// Bus delivers every published event to every current subscriber.
//
// Publish never blocks: a subscriber whose buffer is full misses the event
// and the drop is counted.
type Bus[T any] struct {
	mu      sync.RWMutex
	subs    map[uint64]*Subscription[T]
	nextID  uint64
	closed  bool
	dropped atomic.Uint64
}

// New creates an empty bus.
func New[T any]() *Bus[T] {
	return &Bus[T]{subs: make(map[uint64]*Subscription[T])}
}

// Subscription is one subscriber's view of the bus.
type Subscription[T any] struct {
	bus  *Bus[T]
	id   uint64
	ch   chan T
	once sync.Once
}

// Events returns the channel events arrive on. It is closed by Unsubscribe
// or when the bus is closed.
func (s *Subscription[T]) Events() <-chan T {
	return s.ch
}

// Unsubscribe detaches the subscription and closes its channel. It is safe to
// call more than once.
func (s *Subscription[T]) Unsubscribe() {
	s.bus.mu.Lock()
	defer s.bus.mu.Unlock()
	s.close()
}

// close requires bus.mu held for writing.
func (s *Subscription[T]) close() {
	s.once.Do(func() {
		delete(s.bus.subs, s.id)
		close(s.ch)
	})
}

// Subscribe registers a new subscriber. On a closed bus the returned
// subscription's channel is already closed.
func (b *Bus[T]) Subscribe(buffer int) *Subscription[T] {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	sub := &Subscription[T]{bus: b, id: b.nextID, ch: make(chan T, buffer)}

	if b.closed {
		sub.once.Do(func() { close(sub.ch) })
		return sub
	}

	b.subs[sub.id] = sub
	return sub
}

// Publish hands event to every subscriber that has room for it.
func (b *Bus[T]) Publish(_ context.Context, event T) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return
	}

	for _, sub := range b.subs {
		select {
		case sub.ch <- event:
		default:
			b.dropped.Add(1)
		}
	}
}

// Subscribers returns the number of live subscriptions.
func (b *Bus[T]) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Dropped returns how many deliveries were skipped because a subscriber was
// full.
func (b *Bus[T]) Dropped() uint64 {
	return b.dropped.Load()
}

// Close closes every subscription. Later publishes are ignored.
func (b *Bus[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true

	for _, sub := range b.subs {
		sub.close()
	}
}
