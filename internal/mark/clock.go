package mark

import "time"

// Clock supplies high-resolution timestamps in milliseconds since an origin.
type Clock interface {
	Now() float64
}

type monotonicClock struct {
	origin time.Time
}

// NewClock returns a monotonic Clock whose origin is the moment it was created.
func NewClock() Clock {
	return &monotonicClock{origin: time.Now()}
}

func (c *monotonicClock) Now() float64 {
	return float64(time.Since(c.origin)) / float64(time.Millisecond)
}
