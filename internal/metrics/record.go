package metrics

import "strconv"

// Record is a named measurement. Value is nil when no number could be produced.
type Record struct {
	Name  string   `json:"name" yaml:"name"`
	Value *float64 `json:"value,omitempty" yaml:"value,omitempty"`
}

// NewRecord builds a record with a concrete value.
func NewRecord(name string, value float64) Record {
	return Record{Name: name, Value: Float(value)}
}

// Float returns a pointer to v.
func Float(v float64) *float64 {
	return &v
}

// HasValue reports whether the record carries a number.
func (r Record) HasValue() bool {
	return r.Value != nil
}

// String renders the value, or "undefined" when absent.
func (r Record) String() string {
	if r.Value == nil {
		return "undefined"
	}
	return strconv.FormatFloat(*r.Value, 'f', -1, 64)
}

func (r Record) clone() Record {
	if r.Value != nil {
		r.Value = Float(*r.Value)
	}
	return r
}
