package lifecycle

import "sync"

type listener struct {
	id   uint64
	fn   func()
	late bool
}

// Trigger is a named list of listeners invoked when the trigger fires.
type Trigger struct {
	name string
	once bool

	mu        sync.Mutex
	nextID    uint64
	listeners []listener
	fired     int
}

// NewTrigger returns a trigger that may fire any number of times.
func NewTrigger(name string) *Trigger {
	return &Trigger{name: name}
}

// NewOnceTrigger returns a trigger that accepts a single occurrence.
func NewOnceTrigger(name string) *Trigger {
	return &Trigger{name: name, once: true}
}

// Name returns the trigger's name.
func (t *Trigger) Name() string {
	return t.name
}

// Register adds fn to the listener list. The returned cancel func removes it and is
// safe to call more than once.
func (t *Trigger) Register(fn func()) (cancel func()) {
	return t.register(fn, false)
}

// RegisterLate adds fn to run after every listener added with Register, whenever
// either was registered. Late listeners run in registration order among themselves.
func (t *Trigger) RegisterLate(fn func()) (cancel func()) {
	return t.register(fn, true)
}

func (t *Trigger) register(fn func(), late bool) (cancel func()) {
	t.mu.Lock()
	t.nextID++
	id := t.nextID
	t.listeners = append(t.listeners, listener{id: id, fn: fn, late: late})
	t.mu.Unlock()

	return func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		for i, l := range t.listeners {
			if l.id == id {
				t.listeners = append(t.listeners[:i:i], t.listeners[i+1:]...)
				return
			}
		}
	}
}

// Fire invokes the listeners registered at the time of the call, each once.
// It returns false, without invoking anything, when a once-trigger already fired.
func (t *Trigger) Fire() bool {
	t.mu.Lock()
	if t.once && t.fired > 0 {
		t.mu.Unlock()
		return false
	}
	t.fired++
	snapshot := append([]listener(nil), t.listeners...)
	t.mu.Unlock()

	for _, late := range []bool{false, true} {
		for _, l := range snapshot {
			if l.late == late {
				l.fn()
			}
		}
	}
	return true
}

// Fired returns how many occurrences have been fired.
func (t *Trigger) Fired() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.fired
}

// Listeners returns the number of registered listeners.
func (t *Trigger) Listeners() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.listeners)
}
