// Package pool provides hugepage-aware region allocation for the containers
// in this module.
//
// A [Pool] serves same-size blocks out of one or more mmap'd regions: it
// bump-allocates out of the current region and, on deallocation, threads the
// freed block onto an intrusive free list that later allocations drain
// before ever bumping the cursor again. This is the same two-tier design as
// an arena allocator with a recycling free list, generalized so the backing
// region is hugepage-backed where the kernel allows it.
//
// [MultiSizePool] builds size-class routing for heterogeneous allocation
// sizes on top of one [Pool] per class, and [PolicyAllocator] builds a
// generic, per-type allocator on top of that, so that types marked as
// [LeafNode] or [InternalNode] can be routed to distinct pools without any
// runtime type switch on the hot path.
package pool

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/kressler/fast-containers/internal/debug"
	"github.com/kressler/fast-containers/pkg/xerrors"
	"github.com/kressler/fast-containers/pkg/xunsafe"
	"github.com/kressler/fast-containers/pkg/xunsafe/layout"
)

// hugePageSize is the region-alignment granularity used when rounding up
// requested sizes, matching the common x86-64 transparent-hugepage size.
const hugePageSize = 2 << 20

// OutOfMemoryError is returned when a region mapping fails, both for the
// initial region and for every subsequent Grow.
type OutOfMemoryError struct {
	Size int
	Err  error
}

func (e *OutOfMemoryError) Error() string {
	return fmt.Sprintf("pool: failed to map %d bytes: %v", e.Size, e.Err)
}

func (e *OutOfMemoryError) Unwrap() error { return e.Err }

// IsOutOfMemory reports whether err is, or wraps, an *OutOfMemoryError —
// the condition every Grow and mapRegion failure surfaces as.
func IsOutOfMemory(err error) bool {
	_, ok := xerrors.AsA[*OutOfMemoryError](err)
	return ok
}

// Stats holds the cumulative counters described in §4.3's "Statistics"
// section. They are always collected; a single-threaded counter increment
// costs too little to justify maintaining two code paths for it.
type Stats struct {
	Allocations   uint64
	Deallocations uint64
	Growths       uint64
	BytesMapped   uint64
	BytesInUse    uint64
	PeakBytesUsed uint64
}

// region is one mmap'd block of memory owned by a Pool.
type region struct {
	mem []byte
}

// Pool is a same-size-block bump allocator backed by one or more
// hugepage-preferred mmap regions, with an intrusive free list for reuse.
//
// A Pool must be constructed with New; the zero value is not usable.
type Pool struct {
	_ xunsafe.NoCopy

	useHugepages bool
	growthSize   int

	regions []region

	nextFree     uintptr // cursor into regions[len(regions)-1].mem
	bytesLeft    int
	freeListHead uintptr // 0 means empty

	stats Stats
}

// New constructs a Pool with an initial region of at least initialSize
// bytes. If useHugepages is true, the pool attempts a MAP_HUGETLB mapping
// first and falls back to a plain anonymous mapping hinted with
// MADV_HUGEPAGE on failure, per §4.3 step 1. growthSize is the size of every
// region allocated by a later Grow.
func New(initialSize int, useHugepages bool, growthSize int) (*Pool, error) {
	p := &Pool{useHugepages: useHugepages, growthSize: growthSize}
	if err := p.mapRegion(initialSize); err != nil {
		return nil, err
	}
	return p, nil
}

func roundUpHugePage(n int) int {
	if n <= 0 {
		return hugePageSize
	}
	return layout.RoundUp(n, hugePageSize)
}

// mapRegion maps a new region of at least size bytes, pre-faults it, and
// makes it the active region that subsequent bump-allocations draw from.
func (p *Pool) mapRegion(size int) error {
	n := roundUpHugePage(size)

	mem, err := mapHugepageRegion(n, p.useHugepages)
	if err != nil {
		return &OutOfMemoryError{Size: n, Err: err}
	}

	// Pre-fault every page by writing one zero byte per hugepage-sized page;
	// this realizes the mapping eagerly and binds it via first-touch.
	for off := 0; off < n; off += hugePageSize {
		mem[off] = 0
	}

	p.regions = append(p.regions, region{mem: mem})
	p.nextFree = uintptr(unsafe.Pointer(&mem[0]))
	p.bytesLeft = n
	p.stats.BytesMapped += uint64(n)
	p.stats.Growths++

	debug.Log(nil, "pool.grow", "region=%d size=%d hugepages=%v", len(p.regions), n, p.useHugepages)

	return nil
}

// mapHugepageRegion issues the raw mmap/madvise syscalls described in
// §4.3: a MAP_HUGETLB mapping first when requested, falling back to a plain
// anonymous mapping hinted with MADV_HUGEPAGE when the kernel refuses
// (commonly ENOMEM/EINVAL when no hugepages are reserved).
func mapHugepageRegion(size int, useHugepages bool) ([]byte, error) {
	prot := unix.PROT_READ | unix.PROT_WRITE
	base := unix.MAP_PRIVATE | unix.MAP_ANONYMOUS

	if useHugepages {
		mem, err := unix.Mmap(-1, 0, size, prot, base|unix.MAP_HUGETLB)
		if err == nil {
			return mem, nil
		}
	}

	mem, err := unix.Mmap(-1, 0, size, prot, base)
	if err != nil {
		return nil, err
	}

	if useHugepages {
		// Best effort only: a madvise failure does not invalidate the mapping.
		_ = unix.Madvise(mem, unix.MADV_HUGEPAGE)
	}

	return mem, nil
}

// Grow maps an additional region of at least p.growthSize bytes. Memory
// allocated out of prior regions remains valid — a Pool never compacts or
// moves existing allocations.
func (p *Pool) Grow() error {
	return p.mapRegion(p.growthSize)
}

// Allocate returns a pointer to size bytes aligned to alignment, preferring
// a block popped from the free list over a fresh bump allocation.
//
// Every block served by a single Pool must be the same size; callers that
// need heterogeneous sizes should go through [MultiSizePool], which
// guarantees this by routing requests of different size classes to
// different underlying Pools.
func (p *Pool) Allocate(size, alignment int) (unsafe.Pointer, error) {
	debug.Assert(size >= 0, "pool: negative allocation size %d", size)
	debug.Assert(alignment > 0 && alignment&(alignment-1) == 0, "pool: alignment %d is not a power of two", alignment)

	if p.freeListHead != 0 {
		head := p.freeListHead
		p.freeListHead = *(*uintptr)(unsafe.Pointer(head))
		p.stats.Allocations++
		p.stats.BytesInUse += uint64(size)
		if p.stats.BytesInUse > p.stats.PeakBytesUsed {
			p.stats.PeakBytesUsed = p.stats.BytesInUse
		}
		return unsafe.Pointer(head), nil
	}

	aligned := layout.RoundUp(p.nextFree, uintptr(alignment))
	padding := int(aligned - p.nextFree)

	if padding+size > p.bytesLeft {
		if err := p.Grow(); err != nil {
			return nil, err
		}
		aligned = layout.RoundUp(p.nextFree, uintptr(alignment))
		padding = int(aligned - p.nextFree)
	}

	p.nextFree = aligned + uintptr(size)
	p.bytesLeft -= padding + size

	p.stats.Allocations++
	p.stats.BytesInUse += uint64(size)
	if p.stats.BytesInUse > p.stats.PeakBytesUsed {
		p.stats.PeakBytesUsed = p.stats.BytesInUse
	}

	return unsafe.Pointer(aligned), nil
}

// Deallocate returns ptr to the free list for reuse by a future Allocate of
// the same size. size must be at least the width of a pointer, since the
// first machine word of a freed block is overwritten with the free-list
// link.
func (p *Pool) Deallocate(ptr unsafe.Pointer, size int) {
	debug.Assert(size >= int(unsafe.Sizeof(uintptr(0))), "pool: deallocated block of size %d is too small to hold a free-list link", size)

	*(*uintptr)(ptr) = p.freeListHead
	p.freeListHead = uintptr(ptr)

	p.stats.Deallocations++
	if uint64(size) <= p.stats.BytesInUse {
		p.stats.BytesInUse -= uint64(size)
	}
}

// Stats returns a snapshot of the pool's cumulative counters.
func (p *Pool) Stats() Stats { return p.stats }

// Close unmaps every region owned by this pool. The pool must not be used
// after Close.
func (p *Pool) Close() error {
	var firstErr error
	for i := range p.regions {
		if err := unix.Munmap(p.regions[i].mem); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	p.regions = nil
	return firstErr
}
