package wakelist

import (
	"iter"
	"sync/atomic"

	"github.com/llxisdsh/wakelist/internal/opt"
)

// List is a lock-free, append-only singly linked list.
//
// Push prepends at the head; iteration walks from the most recently pushed
// element to the oldest. Nodes live in an arena and are linked by stable
// index, so a node is never moved, mutated after publication, or freed.
// Any number of goroutines may Push and iterate concurrently.
//
// The zero value is an empty list ready for use.
//
// Usage:
//
//	var l List[int]
//	l.Push(1)
//	l.Push(2)
//	for v := range l.All() {
//		println(*v) // 2, then 1
//	}
type List[T any] struct {
	_ noCopy
	// head is index+1 of the newest node; 0 means empty.
	head  opt.PaddedUint64_
	nodes arena[listNode[T]]
}

type listNode[T any] struct {
	value T
	// next is index+1 of the node that was head when this one was pushed.
	// Written only before the node is published.
	next atomic.Uint64
}

// Push prepends v and returns the stable index of its node.
func (l *List[T]) Push(v T) uint64 {
	return l.PushFunc(func(p *T) { *p = v })
}

// PushFunc prepends a node whose value is initialised in place by init.
// It is the form to use for values holding atomics, which must not be
// copied. init runs exactly once, before the node becomes visible.
func (l *List[T]) PushFunc(init func(*T)) uint64 {
	i, n := l.nodes.alloc()
	if init != nil {
		init(&n.value)
	}
	self := i + 1
	h := l.head.Load()
	n.next.Store(h)
	for !l.head.CompareAndSwap(h, self) {
		h = l.head.Load()
		n.next.Store(h)
	}
	return i
}

// At returns the value stored at index i, or nil if i was never allocated.
// i should come from a Push that has returned; a value still being
// initialised by a concurrent Push may be observed otherwise.
// The pointer stays valid for the life of the list.
func (l *List[T]) At(i uint64) *T {
	if n := l.nodes.at(i); n != nil {
		return &n.value
	}
	return nil
}

// Len returns the number of nodes ever allocated. Once N pushes have
// returned, Len is at least N.
func (l *List[T]) Len() uint64 {
	return l.nodes.len()
}

// Iter returns an iterator over a snapshot of the list taken now.
// Pushes that happen after Iter returns are never observed.
func (l *List[T]) Iter() Iterator[T] {
	return Iterator[T]{nodes: &l.nodes, next: l.head.Load()}
}

// All returns a snapshot sequence of the list, newest first.
func (l *List[T]) All() iter.Seq[*T] {
	return func(yield func(*T) bool) {
		it := l.Iter()
		for v, ok := it.Next(); ok; v, ok = it.Next() {
			if !yield(v) {
				return
			}
		}
	}
}

// Iterator walks a List snapshot from newest to oldest.
// It is not safe for use by multiple goroutines; create one per goroutine.
type Iterator[T any] struct {
	nodes *arena[listNode[T]]
	next  uint64
}

// Next returns the next value and true, or nil and false at the end.
func (it *Iterator[T]) Next() (*T, bool) {
	if it.next == 0 {
		return nil, false
	}
	n := it.nodes.at(it.next - 1)
	it.next = n.next.Load()
	return &n.value, true
}
