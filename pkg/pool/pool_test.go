package pool

import (
	"testing"
	"unsafe"

	"github.com/kressler/fast-containers/internal/debug"
)

func TestPoolAllocateIsAligned(t *testing.T) {
	p, err := New(1<<16, false, 1<<16)
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	for _, align := range []int{8, 16, 32, 64} {
		ptr, err := p.Allocate(align, align)
		if err != nil {
			t.Fatal(err)
		}
		if uintptr(ptr)%uintptr(align) != 0 {
			t.Errorf("pointer %v is not aligned to %d", ptr, align)
		}
	}
}

func TestPoolFreeListReuseBeforeBumping(t *testing.T) {
	p, err := New(1<<16, false, 1<<16)
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	a, err := p.Allocate(64, 8)
	if err != nil {
		t.Fatal(err)
	}
	cursorBefore := p.nextFree

	p.Deallocate(a, 64)

	b, err := p.Allocate(64, 8)
	if err != nil {
		t.Fatal(err)
	}
	if b != a {
		t.Errorf("expected Allocate to reuse freed block %v, got %v", a, b)
	}
	if p.nextFree != cursorBefore {
		t.Errorf("expected the bump cursor to stay put when satisfied from the free list")
	}
}

func TestPoolGrowPreservesEarlierAllocations(t *testing.T) {
	p, err := New(hugePageSize, false, hugePageSize)
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	first, err := p.Allocate(64, 8)
	if err != nil {
		t.Fatal(err)
	}
	*(*byte)(first) = 0xAB

	// Exhaust the current region to force a Grow on the next allocation.
	for p.bytesLeft >= 64 {
		if _, err := p.Allocate(64, 8); err != nil {
			t.Fatal(err)
		}
	}
	growthsBefore := p.stats.Growths
	if _, err := p.Allocate(64, 8); err != nil {
		t.Fatal(err)
	}
	if p.stats.Growths <= growthsBefore {
		t.Fatal("expected Allocate to have triggered a Grow")
	}

	if *(*byte)(first) != 0xAB {
		t.Fatal("expected memory from the original region to remain valid and unchanged after Grow")
	}
}

func TestPoolDeallocateRequiresPointerSizedBlock(t *testing.T) {
	if !debug.Enabled {
		t.Skip("assertion only enforced in debug builds (-tags debug)")
	}

	p, err := New(1<<16, false, 1<<16)
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	defer func() {
		if recover() == nil {
			t.Fatal("expected Deallocate to assert on a block too small to hold a free-list link")
		}
	}()
	p.Deallocate(unsafe.Pointer(&struct{ b byte }{}), 1)
}

func TestPoolStatsTrackUsage(t *testing.T) {
	p, err := New(1<<16, false, 1<<16)
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	a, _ := p.Allocate(64, 8)
	s := p.Stats()
	if s.Allocations != 1 || s.BytesInUse != 64 {
		t.Fatalf("unexpected stats after one allocation: %+v", s)
	}

	p.Deallocate(a, 64)
	s = p.Stats()
	if s.Deallocations != 1 || s.BytesInUse != 0 {
		t.Fatalf("unexpected stats after one deallocation: %+v", s)
	}
}
