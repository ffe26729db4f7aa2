package pool

import "unsafe"

// sizeClass rounds b up to the size class that serves it, per §4.4's
// tabulated rule: a request of 0 needs no allocation, requests up to 512
// bytes round up to a multiple of 64, requests up to 2048 round up to a
// multiple of 256, and everything above rounds up to the next power of two.
func sizeClass(b int) int {
	switch {
	case b == 0:
		return 0
	case b <= 512:
		return roundUpMultiple(b, 64)
	case b <= 2048:
		return roundUpMultiple(b, 256)
	default:
		return nextPowerOfTwo(b)
	}
}

func roundUpMultiple(b, m int) int {
	return (b + m - 1) / m * m
}

func nextPowerOfTwo(b int) int {
	n := 1
	for n < b {
		n <<= 1
	}
	return n
}

// MultiSizePool routes allocations of arbitrary size to a per-size-class
// [Pool], lazily created on first use of that class. Every block handed out
// by a given underlying Pool is therefore uniform in size, which is what
// makes that Pool's free list correct.
type MultiSizePool struct {
	initialSizePerPool int
	growthSizePerPool  int
	useHugepages       bool

	pools map[int]*Pool
}

// NewMultiSizePool constructs a MultiSizePool. Each size-class Pool, once
// created, is initialized with initialSizePerPool, growthSizePerPool, and
// useHugepages.
func NewMultiSizePool(initialSizePerPool, growthSizePerPool int, useHugepages bool) *MultiSizePool {
	return &MultiSizePool{
		initialSizePerPool: initialSizePerPool,
		growthSizePerPool:  growthSizePerPool,
		useHugepages:       useHugepages,
		pools:              make(map[int]*Pool),
	}
}

// Allocate routes b to its size class's Pool, creating that Pool on first
// use, and asks it to allocate the size-class size — not the raw request —
// so every block in that Pool is the same size.
func (m *MultiSizePool) Allocate(b, align int) (unsafe.Pointer, error) {
	class := sizeClass(b)
	if class == 0 {
		return nil, nil
	}

	p, err := m.poolFor(class)
	if err != nil {
		return nil, err
	}
	return p.Allocate(class, align)
}

// Deallocate routes b to the same Pool that served the matching Allocate
// call, identified by its size class.
func (m *MultiSizePool) Deallocate(ptr unsafe.Pointer, b int) {
	class := sizeClass(b)
	if class == 0 {
		return
	}
	if p, ok := m.pools[class]; ok {
		p.Deallocate(ptr, class)
	}
}

func (m *MultiSizePool) poolFor(class int) (*Pool, error) {
	if p, ok := m.pools[class]; ok {
		return p, nil
	}
	p, err := New(m.initialSizePerPool, m.useHugepages, m.growthSizePerPool)
	if err != nil {
		return nil, err
	}
	m.pools[class] = p
	return p, nil
}

// Close closes every size-class Pool created so far.
func (m *MultiSizePool) Close() error {
	var firstErr error
	for _, p := range m.pools {
		if err := p.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
