// Package schedule defines the "next turn" deferral used between an action and the
// measurement that has to observe its effect.
package schedule

import (
	"context"
	"sync"
	"time"
)

// Scheduler runs fn on a later turn, never inside the calling frame.
type Scheduler interface {
	Defer(fn func())
}

// Async defers work to a timer goroutine. Wait blocks until deferred work is done.
type Async struct {
	mu      sync.Mutex
	pending int
	idle    chan struct{} // closed when pending drops to zero
}

// NewAsync returns a goroutine-backed Scheduler.
func NewAsync() *Async {
	return &Async{}
}

// Defer schedules fn to run on its own goroutine as soon as possible. It is safe to
// call while Wait is blocked.
func (a *Async) Defer(fn func()) {
	a.mu.Lock()
	if a.pending == 0 {
		a.idle = make(chan struct{})
	}
	a.pending++
	a.mu.Unlock()

	time.AfterFunc(0, func() {
		defer a.done()
		fn()
	})
}

func (a *Async) done() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pending--
	if a.pending == 0 {
		close(a.idle)
		a.idle = nil
	}
}

// Wait blocks until no deferred function is pending or ctx is done. Work deferred by
// a pending function is waited for too; work deferred after Wait returns is not.
func (a *Async) Wait(ctx context.Context) error {
	a.mu.Lock()
	idle := a.idle
	a.mu.Unlock()
	if idle == nil {
		return nil
	}
	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Manual queues deferred work until RunPending is called. It is meant for tests and
// hosts that own their event loop.
type Manual struct {
	mu    sync.Mutex
	queue []func()
}

// NewManual returns an empty Manual scheduler.
func NewManual() *Manual {
	return &Manual{}
}

// Defer queues fn.
func (m *Manual) Defer(fn func()) {
	m.mu.Lock()
	m.queue = append(m.queue, fn)
	m.mu.Unlock()
}

// Pending returns the number of queued functions.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}

// RunPending runs queued functions until the queue is empty, including work queued
// by the functions themselves. It returns how many ran.
func (m *Manual) RunPending() int {
	ran := 0
	for {
		m.mu.Lock()
		if len(m.queue) == 0 {
			m.mu.Unlock()
			return ran
		}
		fn := m.queue[0]
		m.queue = m.queue[1:]
		m.mu.Unlock()

		fn()
		ran++
	}
}
