package pool

import (
	"unsafe"

	"github.com/kressler/fast-containers/pkg/xunsafe/layout"
)

const cacheLineSize = 64

// LeafNode is the marker interface a leaf node type implements so a
// [TwoPoolPolicy] can route it to the leaf pool without any runtime string
// matching or reflection. Its method is unexported, so only types declared
// in package pool can implement it; package btree's node types do not.
type LeafNode interface {
	fastContainersLeafNode()
}

// InternalNode is the marker interface an internal node type implements so
// a [TwoPoolPolicy] can route it to the internal pool. Like [LeafNode], it
// can only be implemented by types declared in package pool.
type InternalNode interface {
	fastContainersInternalNode()
}

// Pooler is the shared handle a Policy resolves for a given type: something
// that can allocate and deallocate uniformly-sized blocks.
type Pooler interface {
	Allocate(size, alignment int) (unsafe.Pointer, error)
	Deallocate(ptr unsafe.Pointer, size int)
}

// Policy selects, for a given allocatee type, which [Pooler] should serve
// its allocations. A Policy value is copied on rebind to a different type
// parameter, matching §4.5's "policy value (copied on rebind)".
type Policy interface {
	// poolFor returns the handle to use for a zero value of the type being
	// allocated. kind distinguishes leaf nodes, internal nodes, and
	// everything else (e.g. the container's own value_type) using the
	// marker-interface checks performed once by PolicyAllocator's
	// constructor, not per call.
	poolFor(kind nodeKind) Pooler
}

type nodeKind int

const (
	kindOther nodeKind = iota
	kindLeaf
	kindInternal
)

// classify determines which marker interface, if any, a zero value of T
// implements. It is resolved once, at PolicyAllocator construction time —
// never per-allocation — via a single type switch, which is the idiomatic
// Go analogue of compile-time member-presence trait detection.
func classify[T any]() nodeKind {
	var zero T
	switch any(zero).(type) {
	case LeafNode:
		return kindLeaf
	case InternalNode:
		return kindInternal
	default:
		// Pointer receivers are the common case for node types; check the
		// pointer form too before falling back to "other".
	}
	switch any(&zero).(type) {
	case LeafNode:
		return kindLeaf
	case InternalNode:
		return kindInternal
	default:
		return kindOther
	}
}

// TwoPoolPolicy is the Policy described in §4.5: it routes leaf node
// allocations to leafPool, internal node allocations to internalPool, and
// anything else (such as the value type the container reports) to
// leafPool as well.
type TwoPoolPolicy struct {
	LeafPool     Pooler
	InternalPool Pooler
}

func (p TwoPoolPolicy) poolFor(kind nodeKind) Pooler {
	if kind == kindInternal {
		return p.InternalPool
	}
	return p.LeafPool
}

// PolicyAllocator is a generic, per-type allocator built on top of a
// [Policy]. It supports only single-object allocation (n == 1); requesting
// any other count is a precondition violation, matching §4.5's contract for
// the target language's allocator interface.
type PolicyAllocator[T any] struct {
	policy Policy
	kind   nodeKind
	size   int
	align  int
}

// NewPolicyAllocator builds a PolicyAllocator[T] bound to policy, resolving
// T's node kind once at construction time.
func NewPolicyAllocator[T any](policy Policy) *PolicyAllocator[T] {
	l := layout.Of[T]().Max(layout.Layout{Align: cacheLineSize})
	return &PolicyAllocator[T]{
		policy: policy,
		kind:   classify[T](),
		size:   l.Size,
		align:  l.Align,
	}
}

// Allocate allocates exactly one T. n must be 1.
func (a *PolicyAllocator[T]) Allocate(n int) (*T, error) {
	if n != 1 {
		panic("pool: PolicyAllocator only supports allocating one object at a time")
	}
	p, err := a.policy.poolFor(a.kind).Allocate(a.size, a.align)
	if err != nil {
		return nil, err
	}
	return (*T)(p), nil
}

// Deallocate releases a single T previously returned by Allocate.
func (a *PolicyAllocator[T]) Deallocate(p *T, n int) {
	if n != 1 {
		panic("pool: PolicyAllocator only supports deallocating one object at a time")
	}
	a.policy.poolFor(a.kind).Deallocate(unsafe.Pointer(p), a.size)
}
