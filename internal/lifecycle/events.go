package lifecycle

import "sync"

// EventBus delivers named custom events to subscribers.
type EventBus struct {
	mu     sync.Mutex
	topics map[string]*Trigger
}

// NewEventBus returns an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{topics: make(map[string]*Trigger)}
}

func (b *EventBus) topic(name string) *Trigger {
	b.mu.Lock()
	defer b.mu.Unlock()
	t, ok := b.topics[name]
	if !ok {
		t = NewTrigger(name)
		b.topics[name] = t
	}
	return t
}

// Subscribe registers fn for events named name.
func (b *EventBus) Subscribe(name string, fn func()) (cancel func()) {
	return b.topic(name).Register(fn)
}

// Dispatch delivers an event named name to its current subscribers.
func (b *EventBus) Dispatch(name string) {
	b.topic(name).Fire()
}
