package lifecycle

import (
	"sync"

	"github.com/torosent/webvitals/internal/schedule"
)

// Barrier holds callbacks until it is released, then runs them on later scheduler
// turns. Callbacks added after release are deferred straight away.
type Barrier struct {
	sched schedule.Scheduler

	mu       sync.Mutex
	released bool
	waiters  []func()
}

// NewBarrier returns a closed barrier that defers work on sched.
func NewBarrier(sched schedule.Scheduler) *Barrier {
	return &Barrier{sched: sched}
}

// Wait runs fn after the barrier is released.
func (b *Barrier) Wait(fn func()) {
	b.mu.Lock()
	if !b.released {
		b.waiters = append(b.waiters, fn)
		b.mu.Unlock()
		return
	}
	b.mu.Unlock()
	b.sched.Defer(fn)
}

// Release opens the barrier. Only the first call has an effect.
func (b *Barrier) Release() bool {
	b.mu.Lock()
	if b.released {
		b.mu.Unlock()
		return false
	}
	b.released = true
	waiters := b.waiters
	b.waiters = nil
	b.mu.Unlock()

	for _, fn := range waiters {
		b.sched.Defer(fn)
	}
	return true
}

// Released reports whether Release has been called.
func (b *Barrier) Released() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.released
}
