package wakelist

import (
	"math/bits"
	"sync/atomic"
)

const (
	// arenaBlockShift sizes the first block: block b holds
	// arenaBaseBlock<<b elements, so the block count grows with
	// the logarithm of the number of elements.
	arenaBlockShift = 5
	arenaBaseBlock  = 1 << arenaBlockShift
	arenaMaxBlocks  = 64 - arenaBlockShift + 1
)

// arena is a lock-free growable array of fixed-size blocks.
//
// Elements are addressed by a stable index handed out by alloc. Blocks are
// published once with a CAS and never replaced, so an element never moves
// and is never freed while the arena is reachable. Lookup by index is O(1).
type arena[T any] struct {
	n      atomic.Uint64
	blocks [arenaMaxBlocks]atomic.Pointer[[]T]
}

// arenaLocate maps an element index to its block and the offset inside it.
//
//go:nosplit
func arenaLocate(i uint64) (b int, off uint64) {
	b = bits.Len64(i>>arenaBlockShift+1) - 1
	off = i - (arenaBaseBlock<<b - arenaBaseBlock)
	return b, off
}

// block returns block b, publishing it first if needed. Concurrent callers
// race on a single CAS; losers drop their allocation and use the winner's.
func (a *arena[T]) block(b int) []T {
	if p := a.blocks[b].Load(); p != nil {
		return *p
	}
	s := make([]T, arenaBaseBlock<<b)
	if a.blocks[b].CompareAndSwap(nil, &s) {
		return s
	}
	return *a.blocks[b].Load()
}

// alloc reserves a fresh element and returns its index and address.
// The element is zero-valued; no other alloc call ever returns it.
func (a *arena[T]) alloc() (uint64, *T) {
	i := a.n.Add(1) - 1
	b, off := arenaLocate(i)
	return i, &a.block(b)[off]
}

// at returns the element at index i, or nil if i was never allocated
// or its block is still being published.
func (a *arena[T]) at(i uint64) *T {
	if i >= a.n.Load() {
		return nil
	}
	b, off := arenaLocate(i)
	p := a.blocks[b].Load()
	if p == nil {
		return nil
	}
	return &(*p)[off]
}

// len returns the number of indices handed out so far.
func (a *arena[T]) len() uint64 {
	return a.n.Load()
}

// reserve publishes every block needed to hold n elements.
func (a *arena[T]) reserve(n int) {
	if n <= 0 {
		return
	}
	last, _ := arenaLocate(uint64(n) - 1)
	for b := 0; b <= last; b++ {
		a.block(b)
	}
}
