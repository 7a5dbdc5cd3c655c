package metrics

import "sync"

// Store accumulates the session's metric records.
type Store struct {
	mu      sync.Mutex
	names   []string
	records map[string]Record
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{records: make(map[string]Record)}
}

// Set upserts record under name. An existing name keeps its position.
func (s *Store) Set(name string, record Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[name]; !ok {
		s.names = append(s.names, name)
	}
	s.records[name] = record.clone()
}

// Get returns the record stored under name.
func (s *Store) Get(name string) (Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[name]
	return r.clone(), ok
}

// Len returns the number of records held.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.names)
}

// Values returns a point-in-time copy of all records.
func (s *Store) Values() Values {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Clear removes all records.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearLocked()
}

// Flush passes a snapshot to send and clears the store when send returns true.
// An empty store is never passed to send. The return value reports whether a
// snapshot was dispatched.
func (s *Store) Flush(send func(Values) bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.names) == 0 {
		return false
	}
	if !send(s.snapshotLocked()) {
		return false
	}
	s.clearLocked()
	return true
}

func (s *Store) snapshotLocked() Values {
	v := Values{
		names:   append([]string(nil), s.names...),
		records: make(map[string]Record, len(s.records)),
	}
	for name, r := range s.records {
		v.records[name] = r.clone()
	}
	return v
}

func (s *Store) clearLocked() {
	s.names = nil
	s.records = make(map[string]Record)
}
