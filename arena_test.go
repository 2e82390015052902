package wakelist

import (
	"sync"
	"testing"
)

func TestArenaLocate(t *testing.T) {
	cases := []struct {
		i    uint64
		b    int
		off  uint64
		desc string
	}{
		{0, 0, 0, "first"},
		{31, 0, 31, "end of block 0"},
		{32, 1, 0, "start of block 1"},
		{95, 1, 63, "end of block 1"},
		{96, 2, 0, "start of block 2"},
		{223, 2, 127, "end of block 2"},
		{224, 3, 0, "start of block 3"},
	}
	for _, c := range cases {
		b, off := arenaLocate(c.i)
		if b != c.b || off != c.off {
			t.Fatalf("%s: arenaLocate(%d) = (%d, %d), want (%d, %d)",
				c.desc, c.i, b, off, c.b, c.off)
		}
	}
}

func TestArenaLocateDense(t *testing.T) {
	prevB, prevOff := arenaLocate(0)
	for i := uint64(1); i < 1<<16; i++ {
		b, off := arenaLocate(i)
		if off >= arenaBaseBlock<<b {
			t.Fatalf("i=%d: offset %d outside block %d", i, off, b)
		}
		switch {
		case b == prevB && off == prevOff+1:
		case b == prevB+1 && off == 0 && prevOff == arenaBaseBlock<<prevB-1:
		default:
			t.Fatalf("i=%d: (%d, %d) does not follow (%d, %d)", i, b, off, prevB, prevOff)
		}
		prevB, prevOff = b, off
	}
}

func TestArenaAtUnallocated(t *testing.T) {
	var a arena[int]
	if a.at(0) != nil {
		t.Fatal("at(0) on empty arena should be nil")
	}
	a.reserve(10)
	if a.at(0) != nil {
		t.Fatal("reserve must not allocate indices")
	}
	i, p := a.alloc()
	if i != 0 || p == nil {
		t.Fatalf("alloc = (%d, %v), want index 0", i, p)
	}
	*p = 7
	if got := a.at(0); got != p || *got != 7 {
		t.Fatalf("at(0) = %v, want %v", got, p)
	}
	if a.at(1) != nil {
		t.Fatal("at(1) should be nil")
	}
}

func TestArenaReserve(t *testing.T) {
	var a arena[int]
	a.reserve(100)
	for b := 0; b <= 2; b++ {
		if a.blocks[b].Load() == nil {
			t.Fatalf("block %d not published", b)
		}
	}
	if a.blocks[3].Load() != nil {
		t.Fatal("block 3 published beyond the reservation")
	}
	if a.len() != 0 {
		t.Fatalf("len = %d, want 0", a.len())
	}
}

func TestArenaConcurrentAlloc(t *testing.T) {
	var a arena[uint64]
	const goroutines = 8
	const perG = 2000
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for range goroutines {
		go func() {
			defer wg.Done()
			for range perG {
				i, p := a.alloc()
				*p = i + 1
			}
		}()
	}
	wg.Wait()

	if n := a.len(); n != goroutines*perG {
		t.Fatalf("len = %d, want %d", n, goroutines*perG)
	}
	for i := range uint64(goroutines * perG) {
		p := a.at(i)
		if p == nil {
			t.Fatalf("at(%d) = nil", i)
		}
		if *p != i+1 {
			t.Fatalf("at(%d) = %d: element handed out twice or moved", i, *p)
		}
	}
}
