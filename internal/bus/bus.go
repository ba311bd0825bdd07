package bus

import (
	"strings"
	"sync"
)

// Bus fans client events out to in-process subscribers. Features publish
// under their namespace ("session.", "chat.", "feed.", ...) and consumers
// subscribe to the prefix they care about; the TUI shell subscribes to ""
// and sees everything.
type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]*subscriber
}

type subscriber struct {
	prefix string
	ch     chan Event
}

// New creates an empty bus.
func New() *Bus {
	return &Bus{subs: make(map[int]*subscriber)}
}

// Publish delivers evt to every subscriber whose prefix matches evt.Kind.
// Delivery is non-blocking: a subscriber with a full channel misses the
// event rather than stalling the publisher, so consumers that must not
// miss anything re-read state from the owning service instead.
func (b *Bus) Publish(evt Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, sub := range b.subs {
		if !strings.HasPrefix(evt.Kind, sub.prefix) {
			continue
		}
		select {
		case sub.ch <- evt:
		default:
		}
	}
}

// Subscribe registers interest in all event kinds starting with prefix and
// returns the receiving channel plus an unsubscribe function. bufSize is the
// channel buffer; events overflowing it are dropped.
func (b *Bus) Subscribe(prefix string, bufSize int) (<-chan Event, func()) {
	ch := make(chan Event, bufSize)

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = &subscriber{prefix: prefix, ch: ch}
	b.mu.Unlock()

	return ch, func() {
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
	}
}
