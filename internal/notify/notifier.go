// Package notify fans change events out to listeners and channel subscribers.
package notify

import (
	"sync"
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v4"
)

// DefaultBuffer is the channel capacity of a subscriber when none is configured.
const DefaultBuffer = 4

// Notifier delivers events of type T.
//
// Listeners registered with Watch are called synchronously, in no particular
// order, on the goroutine that calls Emit. Subscribers receive events through
// buffered channels; a full channel drops the event and calls the drop callback.
type Notifier[T any] struct {
	listeners   *xsync.Map[uint64, func(T)]
	subscribers *xsync.Map[uint64, *subscriber[T]]
	nextID      atomic.Uint64
	buffer      int
	onDrop      func()
}

// New creates a notifier.
//
// Parameters:
//   - buffer: Subscriber channel capacity (DefaultBuffer when <= 0)
//   - onDrop: Called for every event dropped for a slow subscriber (may be nil)
//
// Returns:
//   - *Notifier[T]: Ready to use notifier
func New[T any](buffer int, onDrop func()) *Notifier[T] {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	if onDrop == nil {
		onDrop = func() {}
	}

	return &Notifier[T]{
		listeners:   xsync.NewMap[uint64, func(T)](),
		subscribers: xsync.NewMap[uint64, *subscriber[T]](),
		buffer:      buffer,
		onDrop:      onDrop,
	}
}

// Watch registers fn and returns a function that removes it.
func (n *Notifier[T]) Watch(fn func(T)) func() {
	id := n.nextID.Add(1)
	n.listeners.Store(id, fn)

	var once sync.Once

	return func() {
		once.Do(func() { n.listeners.Delete(id) })
	}
}

// Subscribe returns a channel that receives events.
//
// The returned function unsubscribes and closes the channel. Slow subscribers
// miss events rather than blocking the publisher.
//
// Example:
//
//	ch, unsubscribe := n.Subscribe()
//	defer unsubscribe()
//	for ev := range ch { ... }
func (n *Notifier[T]) Subscribe() (<-chan T, func()) {
	id := n.nextID.Add(1)
	sub := &subscriber[T]{ch: make(chan T, n.buffer)}
	n.subscribers.Store(id, sub)

	return sub.ch, func() {
		if s, ok := n.subscribers.LoadAndDelete(id); ok {
			s.close()
		}
	}
}

// Emit delivers ev to all listeners and subscribers.
func (n *Notifier[T]) Emit(ev T) {
	n.listeners.Range(func(_ uint64, fn func(T)) bool {
		fn(ev)
		return true
	})
	n.subscribers.Range(func(_ uint64, sub *subscriber[T]) bool {
		if !sub.trySend(ev) {
			n.onDrop()
		}
		return true
	})
}

// Close closes every subscriber channel and removes all listeners.
func (n *Notifier[T]) Close() {
	n.subscribers.Range(func(id uint64, sub *subscriber[T]) bool {
		n.subscribers.Delete(id)
		sub.close()
		return true
	})
	n.listeners.Clear()
}

// Len returns the number of registered listeners and subscribers.
func (n *Notifier[T]) Len() int {
	return n.listeners.Size() + n.subscribers.Size()
}

type subscriber[T any] struct {
	ch     chan T
	mu     sync.Mutex
	closed bool
}

// trySend sends without blocking. It returns false when the event was dropped.
func (s *subscriber[T]) trySend(ev T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return true
	}

	select {
	case s.ch <- ev:
		return true
	default:
		// subscriber is slow; it will see the next event
		return false
	}
}

func (s *subscriber[T]) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.ch)
}
