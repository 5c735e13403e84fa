package events

import (
	"sync"
)

// Event is a catalog change notification. It is a refresh signal, not a
// diff - subscribers are expected to re-fetch the affected aggregate.
type Event struct {
	Table  string `json:"table"`  // "products" or "product_variations"
	Action string `json:"action"` // "insert", "update", "delete"
	ID     uint   `json:"id"`
}

// Bus fans catalog changes out to every open storefront event stream.
// Slow subscribers drop events rather than block a write path.
type Bus struct {
	mu   sync.Mutex
	subs map[chan Event]struct{}
}

func NewBus() *Bus {
	return &Bus{subs: make(map[chan Event]struct{})}
}

// Subscribe returns a channel of future events and a cancel func that must
// be called when the consumer goes away.
func (b *Bus) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 16)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		if _, ok := b.subs[ch]; ok {
			delete(b.subs, ch)
			close(ch)
		}
		b.mu.Unlock()
	}
	return ch, cancel
}

// Publish delivers the event to every subscriber without blocking.
func (b *Bus) Publish(e Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		select {
		case ch <- e:
		default:
			// Subscriber is backed up; it will re-fetch on the next event.
		}
	}
}
