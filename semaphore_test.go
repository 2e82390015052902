package wakelist

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSemaphore_Simple(t *testing.T) {
	s := NewSemaphore(1)

	s.Acquire()

	if s.TryAcquire() {
		t.Error("TryAcquire succeeded when empty")
	}

	s.Release(1)

	s.Acquire()
}

func TestSemaphore_Ordering(t *testing.T) {
	s := NewSemaphore(0)

	var wg sync.WaitGroup
	wg.Add(2)
	for range 2 {
		go func() {
			defer wg.Done()
			s.Acquire()
		}()
	}

	time.Sleep(10 * time.Millisecond) // Wait for them to block
	if w := s.Waiters(); w != 2 {
		t.Errorf("Waiters = %d, want 2", w)
	}

	s.Release(2)
	wg.Wait()
	if w := s.Waiters(); w != 0 {
		t.Errorf("Waiters after release = %d, want 0", w)
	}
}

func TestSemaphore_ReleaseBeforeRegister(t *testing.T) {
	var s Semaphore

	done := make(chan struct{})
	go func() {
		s.Acquire()
		close(done)
	}()
	// May run before or after the waiter registers; both must hand over.
	s.Release(1)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Acquire did not return after Release")
	}
}

func TestSemaphore_SurplusPermits(t *testing.T) {
	s := NewSemaphore(0)
	done := make(chan struct{})
	go func() {
		s.Acquire()
		close(done)
	}()
	time.Sleep(10 * time.Millisecond)

	s.Release(5)
	<-done
	for i := range 4 {
		if !s.TryAcquire() {
			t.Fatalf("TryAcquire #%d failed, want 4 surplus permits", i+1)
		}
	}
	if s.TryAcquire() {
		t.Fatal("more than 4 surplus permits")
	}
}

func TestSemaphore_Race(t *testing.T) {
	s := NewSemaphore(0)
	const N = 100
	var inside, maxInside atomic.Int32
	var wg sync.WaitGroup
	wg.Add(N)

	for range N {
		go func() {
			defer wg.Done()
			s.Acquire()
			n := inside.Add(1)
			for {
				m := maxInside.Load()
				if n <= m || maxInside.CompareAndSwap(m, n) {
					break
				}
			}
			inside.Add(-1)
			s.Release(1)
		}()
	}

	s.Release(1) // Start the chain
	wg.Wait()

	if m := maxInside.Load(); m != 1 {
		t.Errorf("%d goroutines held the only permit at once", m)
	}
	// Should have 1 permit left
	if !s.TryAcquire() {
		t.Error("Race finished but semaphore empty")
	}
}
