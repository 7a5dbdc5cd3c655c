package lifecycle

import "sync"

// Entry types recorded on a Timeline.
const (
	EntryPaint        = "paint"
	EntryLargestPaint = "largest-contentful-paint"
	EntryFirstInput   = "first-input"
	EntryLayoutShift  = "layout-shift"
	EntryResource     = "resource"
)

// Entry is a single performance timeline entry. Times are milliseconds since the
// page's clock origin.
type Entry struct {
	Type            string
	Name            string
	StartTime       float64
	Duration        float64
	ProcessingStart float64
	Value           float64
	Size            float64
	TransferSize    float64
	HadRecentInput  bool
}

type observer struct {
	id        uint64
	entryType string
	fn        func(Entry)
}

// Timeline records performance entries and forwards them to observers.
type Timeline struct {
	mu        sync.Mutex
	nextID    uint64
	entries   []Entry
	observers []observer
}

// NewTimeline returns an empty timeline.
func NewTimeline() *Timeline {
	return &Timeline{}
}

// Record appends an entry and delivers it to observers of its type.
func (t *Timeline) Record(e Entry) {
	t.mu.Lock()
	t.entries = append(t.entries, e)
	var targets []func(Entry)
	for _, o := range t.observers {
		if o.entryType == e.Type {
			targets = append(targets, o.fn)
		}
	}
	t.mu.Unlock()

	for _, fn := range targets {
		fn(e)
	}
}

// Observe subscribes fn to entries of entryType. With buffered set, entries already
// recorded are replayed first.
func (t *Timeline) Observe(entryType string, buffered bool, fn func(Entry)) (cancel func()) {
	t.mu.Lock()
	t.nextID++
	id := t.nextID
	t.observers = append(t.observers, observer{id: id, entryType: entryType, fn: fn})
	var replay []Entry
	if buffered {
		for _, e := range t.entries {
			if e.Type == entryType {
				replay = append(replay, e)
			}
		}
	}
	t.mu.Unlock()

	for _, e := range replay {
		fn(e)
	}

	return func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		for i, o := range t.observers {
			if o.id == id {
				t.observers = append(t.observers[:i:i], t.observers[i+1:]...)
				return
			}
		}
	}
}

// Entries returns the recorded entries of entryType.
func (t *Timeline) Entries(entryType string) []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()
	var out []Entry
	for _, e := range t.entries {
		if e.Type == entryType {
			out = append(out, e)
		}
	}
	return out
}
