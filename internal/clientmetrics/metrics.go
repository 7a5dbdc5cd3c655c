// Package clientmetrics tracks delivery statistics for beacon transports.
package clientmetrics

import (
	"sync"
	"time"
)

// ClientMetrics counts what a transport accepted, delivered and lost.
type ClientMetrics struct {
	mu          sync.Mutex
	connectTime time.Time
	queued      int64
	refused     int64
	delivered   int64
	bytesSent   int64
	errors      int64
}

// New creates a new ClientMetrics instance.
func New() *ClientMetrics {
	return &ClientMetrics{}
}

// MarkConnected records the connection time.
func (m *ClientMetrics) MarkConnected() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connectTime = time.Now()
}

// Reset clears the connection time (used when disconnecting).
func (m *ClientMetrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connectTime = time.Time{}
}

// IncrementQueued counts a payload accepted for delivery.
func (m *ClientMetrics) IncrementQueued() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queued++
}

// IncrementRefused counts a payload turned away by a full or closed queue.
func (m *ClientMetrics) IncrementRefused() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refused++
}

// IncrementDelivered counts a delivered payload of the given size.
func (m *ClientMetrics) IncrementDelivered(bytes int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delivered++
	m.bytesSent += bytes
}

// IncrementErrors increments the error counter.
func (m *ClientMetrics) IncrementErrors() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors++
}

// Snapshot holds the counters at a point in time.
type Snapshot struct {
	ConnectionDuration time.Duration
	Queued             int64
	Refused            int64
	Delivered          int64
	BytesSent          int64
	Errors             int64
}

// Snapshot returns a consistent snapshot of all metrics.
func (m *ClientMetrics) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	duration := time.Duration(0)
	if !m.connectTime.IsZero() {
		duration = time.Since(m.connectTime)
	}

	return Snapshot{
		ConnectionDuration: duration,
		Queued:             m.queued,
		Refused:            m.refused,
		Delivered:          m.delivered,
		BytesSent:          m.bytesSent,
		Errors:             m.errors,
	}
}
