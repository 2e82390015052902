package wakelist

import (
	"fmt"
	"sync/atomic"

	"github.com/llxisdsh/wakelist/internal/opt"
)

// Waker is a notification capability handed to a Registry.
//
// Wake must be safe to call from any goroutine, safe to call more than
// once, and safe to call after the party it resumes has already moved on.
// The Registry never interprets a Waker beyond calling Wake.
type Waker interface {
	Wake()
}

// WakerFunc adapts an ordinary function to the Waker interface.
type WakerFunc func()

// Wake calls f().
func (f WakerFunc) Wake() { f() }

// Handle names one registration in a Registry.
//
// A Handle is a slot index plus the slot's generation at registration time.
// Once Unregister succeeds the generation moves on and every copy of the
// Handle is rejected with ErrStaleHandle, even after the slot is reused.
// The zero Handle is invalid. A Handle is only meaningful to the Registry
// that returned it.
type Handle struct {
	index uint64
	gen   uint64
}

// Index returns the slot index. Indices are dense, start at 0, and are
// reused after Unregister.
func (h Handle) Index() uint64 {
	return h.index
}

// String implements fmt.Stringer.
func (h Handle) String() string {
	return fmt.Sprintf("wakelist.Handle{%d@%d}", h.index, h.gen)
}

const (
	slotPending  = 1 << 0
	slotLive     = 1 << 1
	slotGenShift = 2
)

// slot is a registry cell.
//
// state 64-bit:
//
//	bit 0: pending (notified, not yet rearmed)
//	bit 1: live (owned by a registration)
//	bits 2-63: generation
type slot struct {
	state atomic.Uint64
	waker atomic.Pointer[wakerCell]
}

// wakerCell binds a waker to the generation that installed it. A nil cell
// means the slot is free.
type wakerCell struct {
	w   Waker
	gen uint64
}

// Registry is a lock-free collection of wakers.
//
// Goroutines Register a Waker and get a Handle back; later they may
// Reregister a different Waker or Unregister. Any goroutine may call
// WakeOne to deliver a single notification to one registration that has
// not been notified yet.
//
// Implementation:
// Slots live in an append-only List and are addressed by index in O(1).
// Unregistered indices are published to a second List of garbage markers
// (0 = empty, index+1 = reusable) and claimed by Register with an atomic
// swap, so each freed slot is handed out exactly once. Slot storage is
// never released; memory is bounded by the peak number of concurrent
// registrations.
//
// The zero value is ready for use and scans NewestFirst.
type Registry struct {
	_       noCopy
	slots   List[slot]
	garbage List[atomic.Uint64]
	live    opt.PaddedUint64_
	order   ScanOrder
}

// NewRegistry creates a Registry configured by options.
func NewRegistry(options ...func(*RegistryConfig)) *Registry {
	var c RegistryConfig
	for _, o := range options {
		o(&c)
	}
	r := &Registry{order: c.order}
	r.slots.nodes.reserve(c.capacity)
	r.garbage.nodes.reserve(c.capacity)
	return r
}

// Register stores w and returns a Handle for it. w may be nil, in which
// case a notification is recorded for the slot but nothing is called.
//
// A slot freed by Unregister is reused when one is available; otherwise a
// new slot is appended. Concurrent Register calls never share a slot.
func (r *Registry) Register(w Waker) Handle {
	if i, ok := r.reclaim(); ok {
		s := r.slots.At(i)
		gen := s.state.Load() >> slotGenShift
		s.waker.Store(&wakerCell{w: w, gen: gen})
		s.state.Store(gen<<slotGenShift | slotLive)
		r.live.Add(1)
		return Handle{index: i, gen: gen}
	}

	const gen = 1
	i := r.slots.PushFunc(func(s *slot) {
		s.waker.Store(&wakerCell{w: w, gen: gen})
		s.state.Store(gen<<slotGenShift | slotLive)
	})
	r.live.Add(1)
	return Handle{index: i, gen: gen}
}

// Reregister replaces the waker of h's registration with w.
// The notified state of the slot is left as is; see Rearm.
func (r *Registry) Reregister(h Handle, w Waker) error {
	s, err := r.lookup(h)
	if err != nil {
		return err
	}
	next := &wakerCell{w: w, gen: h.gen}
	for {
		c := s.waker.Load()
		if c == nil || c.gen != h.gen {
			return staleHandle(h)
		}
		if s.waker.CompareAndSwap(c, next) {
			return nil
		}
	}
}

// Rearm makes h's registration eligible for WakeOne again after it has
// been notified. It is a no-op for a registration that was not notified.
func (r *Registry) Rearm(h Handle) error {
	s, err := r.lookup(h)
	if err != nil {
		return err
	}
	for {
		st := s.state.Load()
		if st&slotLive == 0 || st>>slotGenShift != h.gen {
			return staleHandle(h)
		}
		if st&slotPending == 0 ||
			s.state.CompareAndSwap(st, st&^slotPending) {
			return nil
		}
	}
}

// Notified reports whether h's registration has been picked by WakeOne
// since it was registered or last rearmed.
func (r *Registry) Notified(h Handle) (bool, error) {
	s, err := r.lookup(h)
	if err != nil {
		return false, err
	}
	st := s.state.Load()
	if st&slotLive == 0 || st>>slotGenShift != h.gen {
		return false, staleHandle(h)
	}
	return st&slotPending != 0, nil
}

// Unregister removes h's registration and frees its slot for reuse.
// Exactly one Unregister per registration succeeds; later calls with any
// copy of h return ErrStaleHandle.
func (r *Registry) Unregister(h Handle) error {
	s, err := r.lookup(h)
	if err != nil {
		return err
	}
	for {
		st := s.state.Load()
		if st&slotLive == 0 || st>>slotGenShift != h.gen {
			return staleHandle(h)
		}
		// Next generation, not live, not pending.
		if s.state.CompareAndSwap(st, (h.gen+1)<<slotGenShift) {
			break
		}
	}
	s.waker.Store(nil)
	r.live.Add(^uint64(0))
	r.release(h.index)
	return nil
}

// WakeOne notifies one registration that has not been notified since it
// was registered or rearmed, and reports whether it found one.
//
// The chosen slot is marked notified with a CAS before its waker runs, so
// concurrent WakeOne calls never pick the same registration. Wake is
// called on the caller's goroutine.
func (r *Registry) WakeOne() bool {
	if r.order == OldestFirst {
		n := r.slots.Len()
		for i := range n {
			if s := r.slots.At(i); s != nil && tryWake(s) {
				return true
			}
		}
		return false
	}
	for s := range r.slots.All() {
		if tryWake(s) {
			return true
		}
	}
	return false
}

// Len returns the number of live registrations.
func (r *Registry) Len() int {
	return int(r.live.Load())
}

// Size returns the number of slots ever allocated. It never decreases.
func (r *Registry) Size() uint64 {
	return r.slots.Len()
}

func tryWake(s *slot) bool {
	for {
		st := s.state.Load()
		if st&(slotLive|slotPending) != slotLive {
			return false
		}
		if s.state.CompareAndSwap(st, st|slotPending) {
			// The waker may already belong to a later generation if the
			// registration was dropped in between; leave that one alone.
			if c := s.waker.Load(); c != nil && c.w != nil &&
				c.gen == st>>slotGenShift {
				c.w.Wake()
			}
			return true
		}
	}
}

func (r *Registry) lookup(h Handle) (*slot, error) {
	if h.gen == 0 {
		return nil, ErrInvalidHandle
	}
	s := r.slots.At(h.index)
	if s == nil {
		return nil, fmt.Errorf("%w: index %d", ErrInvalidHandle, h.index)
	}
	return s, nil
}

func staleHandle(h Handle) error {
	return fmt.Errorf("%w: index %d generation %d", ErrStaleHandle, h.index, h.gen)
}

// reclaim claims a garbage marker and returns the slot index it names.
func (r *Registry) reclaim() (uint64, bool) {
	for m := range r.garbage.All() {
		if m.Load() == 0 {
			continue
		}
		if v := m.Swap(0); v != 0 {
			return v - 1, true
		}
	}
	return 0, false
}

// release publishes slot i for reuse, filling an empty marker before
// growing the garbage list.
func (r *Registry) release(i uint64) {
	for m := range r.garbage.All() {
		if m.CompareAndSwap(0, i+1) {
			return
		}
	}
	r.garbage.PushFunc(func(m *atomic.Uint64) {
		m.Store(i + 1)
	})
}
