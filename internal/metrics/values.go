package metrics

import (
	"bytes"
	"encoding/json"
)

// Values is an insertion-ordered snapshot of records keyed by name.
type Values struct {
	names   []string
	records map[string]Record
}

// Len returns the number of records.
func (v Values) Len() int {
	return len(v.names)
}

// Names returns the metric names in insertion order.
func (v Values) Names() []string {
	return append([]string(nil), v.names...)
}

// Get returns the record stored under name.
func (v Values) Get(name string) (Record, bool) {
	r, ok := v.records[name]
	return r, ok
}

// Records returns the records in insertion order.
func (v Values) Records() []Record {
	out := make([]Record, 0, len(v.names))
	for _, name := range v.names {
		out = append(out, v.records[name])
	}
	return out
}

// Map returns an unordered copy of the records.
func (v Values) Map() map[string]Record {
	out := make(map[string]Record, len(v.records))
	for name, r := range v.records {
		out[name] = r.clone()
	}
	return out
}

// MarshalJSON encodes the snapshot as an object mapping name to record,
// preserving insertion order.
func (v Values) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range v.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		rec, err := json.Marshal(v.records[name])
		if err != nil {
			return nil, err
		}
		buf.Write(rec)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
