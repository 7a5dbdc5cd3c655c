package mark

import "sync"

// Mark is a named instant.
type Mark struct {
	Name      string
	StartTime float64
}

// Registry holds marks keyed by name. It is safe for concurrent use.
type Registry struct {
	mu    sync.Mutex
	clock Clock
	marks map[string]Mark
}

// NewRegistry creates an empty registry reading time from clock.
// A nil clock falls back to NewClock.
func NewRegistry(clock Clock) *Registry {
	if clock == nil {
		clock = NewClock()
	}
	return &Registry{
		clock: clock,
		marks: make(map[string]Mark),
	}
}

// SetMark records the current time under name, replacing any existing mark.
func (r *Registry) SetMark(name string) Mark {
	m := Mark{Name: name, StartTime: r.clock.Now()}
	r.mu.Lock()
	r.marks[name] = m
	r.mu.Unlock()
	return m
}

// GetMark returns the mark stored under name.
func (r *Registry) GetMark(name string) (Mark, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.marks[name]
	return m, ok
}

// HasMark reports whether a mark named name exists.
func (r *Registry) HasMark(name string) bool {
	_, ok := r.GetMark(name)
	return ok
}

// ClearMark removes the mark. Missing names are ignored.
func (r *Registry) ClearMark(name string) {
	r.mu.Lock()
	delete(r.marks, name)
	r.mu.Unlock()
}

// Len returns the number of marks held.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.marks)
}
