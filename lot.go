package wakelist

import (
	"fmt"

	"github.com/llxisdsh/pb"
)

// Lot is a parking lot: a set of Registries addressed by key.
//
// Each key gets its own Registry the first time it is used, so waiters on
// different keys (one per mutex, channel, address, ...) never scan each
// other's slots. Like slots, per-key Registries are never removed.
//
// The zero value is ready for use with default Registry options.
type Lot[K comparable] struct {
	_       noCopy
	m       pb.MapOf[K, *Registry]
	options []func(*RegistryConfig)
}

// LotHandle names one registration in a Lot.
type LotHandle[K comparable] struct {
	key K
	h   Handle
}

// Key returns the key the registration was made under.
func (h LotHandle[K]) Key() K {
	return h.key
}

// Handle returns the handle within the key's Registry.
func (h LotHandle[K]) Handle() Handle {
	return h.h
}

// String implements fmt.Stringer.
func (h LotHandle[K]) String() string {
	return fmt.Sprintf("%v/%v", h.key, h.h)
}

// NewLot creates a Lot whose Registries are built with options.
func NewLot[K comparable](options ...func(*RegistryConfig)) *Lot[K] {
	return &Lot[K]{options: options}
}

// Registry returns the Registry for key, creating it if needed.
func (l *Lot[K]) Registry(key K) *Registry {
	r, _ := l.m.ProcessEntry(
		key,
		func(e *pb.EntryOf[K, *Registry]) (*pb.EntryOf[K, *Registry], *Registry, bool) {
			if e != nil {
				return e, e.Value, true
			}
			r := NewRegistry(l.options...)
			return &pb.EntryOf[K, *Registry]{Value: r}, r, false
		},
	)
	return r
}

// Register stores w under key. See Registry.Register.
func (l *Lot[K]) Register(key K, w Waker) LotHandle[K] {
	return LotHandle[K]{key: key, h: l.Registry(key).Register(w)}
}

// Reregister replaces the waker of h's registration. See Registry.Reregister.
func (l *Lot[K]) Reregister(h LotHandle[K], w Waker) error {
	r, err := l.lookup(h)
	if err != nil {
		return err
	}
	return r.Reregister(h.h, w)
}

// Rearm makes h's registration eligible for WakeOne again.
func (l *Lot[K]) Rearm(h LotHandle[K]) error {
	r, err := l.lookup(h)
	if err != nil {
		return err
	}
	return r.Rearm(h.h)
}

// Unregister removes h's registration. See Registry.Unregister.
func (l *Lot[K]) Unregister(h LotHandle[K]) error {
	r, err := l.lookup(h)
	if err != nil {
		return err
	}
	return r.Unregister(h.h)
}

// WakeOne notifies one registration under key and reports whether there
// was one to notify.
func (l *Lot[K]) WakeOne(key K) bool {
	r, ok := l.load(key)
	return ok && r.WakeOne()
}

// Len returns the number of live registrations under key.
func (l *Lot[K]) Len(key K) int {
	if r, ok := l.load(key); ok {
		return r.Len()
	}
	return 0
}

// Range calls f for each key that has a Registry, until f returns false.
func (l *Lot[K]) Range(f func(key K, r *Registry) bool) {
	l.m.Range(f)
}

func (l *Lot[K]) lookup(h LotHandle[K]) (*Registry, error) {
	r, ok := l.load(h.key)
	if !ok {
		return nil, fmt.Errorf("%w: unknown key %v", ErrInvalidHandle, h.key)
	}
	return r, nil
}

// load returns the Registry for key without creating one.
// Load must not be used here: it races with the lazy init of a zero-value map.
func (l *Lot[K]) load(key K) (*Registry, bool) {
	return l.m.ProcessEntry(
		key,
		func(e *pb.EntryOf[K, *Registry]) (*pb.EntryOf[K, *Registry], *Registry, bool) {
			if e != nil {
				return e, e.Value, true
			}
			return nil, nil, false
		},
	)
}
