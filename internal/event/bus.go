// Package event delivers graph refresh completion events to in-process
// subscribers.
package event

import (
	"sync"

	"github.com/pkordes/travel-graph/backend/internal/domain"
)

// Bus fans an UpdateEvent out to every subscriber, synchronously and in
// subscription order.
type Bus struct {
	mu   sync.RWMutex
	next int
	subs []subscription
}

type subscription struct {
	id int
	fn func(domain.UpdateEvent)
}

// NewBus returns an empty Bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers fn and returns a function that removes it.
func (b *Bus) Subscribe(fn func(domain.UpdateEvent)) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++
	b.subs = append(b.subs, subscription{id: id, fn: fn})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, s := range b.subs {
			if s.id == id {
				b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
				return
			}
		}
	}
}

// Publish delivers evt to every current subscriber.
func (b *Bus) Publish(evt domain.UpdateEvent) {
	b.mu.RLock()
	subs := b.subs
	b.mu.RUnlock()

	for _, s := range subs {
		s.fn(evt)
	}
}
