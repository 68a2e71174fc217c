// Package events carries in-process change notifications between views.
package events

import "sync"

// Topic names a notification channel.
type Topic string

// VendorsChanged is published after a vendor is created or deleted.
const VendorsChanged Topic = "vendors:changed"

// Bus delivers notifications synchronously, in subscription order.
type Bus struct {
	mu     sync.Mutex
	nextID int
	subs   map[Topic][]subscriber
}

type subscriber struct {
	id int
	fn func()
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[Topic][]subscriber)}
}

// Subscribe registers fn for topic and returns a func that removes it.
func (b *Bus) Subscribe(topic Topic, fn func()) func() {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[topic] = append(b.subs[topic], subscriber{id: id, fn: fn})
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		list := b.subs[topic]
		for i, s := range list {
			if s.id == id {
				b.subs[topic] = append(list[:i:i], list[i+1:]...)
				return
			}
		}
	}
}

// Publish calls every subscriber of topic. Subscribers may subscribe or
// unsubscribe from inside the callback; the change applies to the next
// Publish.
func (b *Bus) Publish(topic Topic) {
	b.mu.Lock()
	list := make([]subscriber, len(b.subs[topic]))
	copy(list, b.subs[topic])
	b.mu.Unlock()

	for _, s := range list {
		s.fn()
	}
}
