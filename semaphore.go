package wakelist

import (
	"sync/atomic"
)

// Semaphore is a counting semaphore whose waiters park in a Registry.
//
// It is zero-value usable (starts with 0 permits). Like the runtime
// semaphore it is built from, it has no owner: any goroutine may Release.
//
// Implementation:
// permits is a Dijkstra counter. A negative value is the number of
// goroutines that have claimed a future permit and will park. Release
// that observes such a claim hands its permit over by WakeOne; since
// every claimant registers exactly once, a failed WakeOne only means the
// claimant has not registered yet, and Release retries.
type Semaphore struct {
	_       noCopy
	permits atomic.Int64
	waiters Registry
}

// NewSemaphore creates a new Semaphore with a given number of initial permits.
func NewSemaphore(permits int64) *Semaphore {
	s := &Semaphore{}
	s.permits.Store(permits)
	return s
}

// Acquire acquires one permit, blocking until one is available.
func (s *Semaphore) Acquire() {
	if s.permits.Add(-1) >= 0 {
		return
	}
	var p Parker
	h := s.waiters.Register(&p)
	p.Park()
	// h is registered only here and unregistered once, so it cannot be stale.
	_ = s.waiters.Unregister(h)
}

// TryAcquire attempts to acquire one permit without blocking.
// Returns true on success.
func (s *Semaphore) TryAcquire() bool {
	for {
		p := s.permits.Load()
		if p <= 0 {
			return false
		}
		if s.permits.CompareAndSwap(p, p-1) {
			return true
		}
	}
}

// Release releases n permits, handing them to parked goroutines first.
func (s *Semaphore) Release(n int64) {
	if n <= 0 {
		return
	}
	v := s.permits.Add(n)
	// Waiters existed if the value before the add was negative.
	toWake := min(max(-(v-n), 0), n)
	for range toWake {
		var spins int
		for !s.waiters.WakeOne() {
			delay(&spins)
		}
	}
}

// Waiters returns the number of goroutines currently parked (or about to
// park) on the semaphore.
func (s *Semaphore) Waiters() int {
	return s.waiters.Len()
}
