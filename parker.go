package wakelist

import (
	"sync/atomic"

	"github.com/llxisdsh/wakelist/internal/opt"
)

// Parker is a Waker that resumes a parked goroutine.
//
// It holds at most one wake-up token:
//   - Wake(): Deposits the token, releasing the parked goroutine if any.
//     Extra calls while a token is already held are no-ops.
//   - Park(): Consumes the token, blocking until one is available.
//
// A Wake that arrives before Park is not lost. Only one goroutine may Park
// at a time; any number may Wake.
//
// Usage:
//
//	var p Parker
//	h := r.Register(&p)
//	p.Park() // returns after r.WakeOne() picks h
//	_ = r.Unregister(h)
type Parker struct {
	_     noCopy
	state atomic.Uint32
	sema  opt.Sema
}

const (
	parkerIdle = iota
	parkerNotified
	parkerParked
)

// Wake deposits the token. It implements Waker.
func (p *Parker) Wake() {
	for {
		switch s := p.state.Load(); s {
		case parkerNotified:
			return
		case parkerIdle:
			if p.state.CompareAndSwap(s, parkerNotified) {
				return
			}
		case parkerParked:
			if p.state.CompareAndSwap(s, parkerIdle) {
				p.sema.Release()
				return
			}
		}
	}
}

// Park blocks until the token is available and consumes it.
func (p *Parker) Park() {
	for {
		if p.state.CompareAndSwap(parkerNotified, parkerIdle) {
			return
		}
		if p.state.CompareAndSwap(parkerIdle, parkerParked) {
			// Wake moves parked -> idle before releasing.
			p.sema.Acquire()
			return
		}
	}
}

// TryPark consumes the token if one is held, without blocking.
func (p *Parker) TryPark() bool {
	return p.state.CompareAndSwap(parkerNotified, parkerIdle)
}
