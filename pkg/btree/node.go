// Package btree implements an ordered B+ tree keyed map built on top of
// package densemap: every leaf is a DenseMap holding the tree's actual
// key/value pairs, and every internal node is a DenseMap mapping a child's
// minimum key to that child.
//
// Node identity follows object references managed by the Go garbage
// collector rather than the pool/arena family in package pool: pool memory
// is not scanned by the collector, so it cannot safely hold the Go pointers
// (slice headers, sibling links) that live inside a node. That is exactly
// the "object references in a GC language" option the design notes this
// package implements call out for node ownership; see DESIGN.md.
package btree

import "github.com/kressler/fast-containers/pkg/densemap"

// leafNode is a doubly-linked leaf in the tree's leaf chain. Its DenseMap
// holds the caller's actual key/value pairs.
type leafNode[K any, V any] struct {
	data   *densemap.Map[K, V]
	next   *leafNode[K, V]
	prev   *leafNode[K, V]
	parent *internalNode[K, V]
}

// fastContainersLeafNode has the name of pool.LeafNode's marker method, but
// that method is unexported, so *leafNode[K, V] does not satisfy
// pool.LeafNode and a pool.TwoPoolPolicy classifies it as neither a leaf nor
// an internal node.
func (*leafNode[K, V]) fastContainersLeafNode() {}

func newLeaf[K any, V any](cap int, less func(a, b K) bool, mode densemap.SearchMode) *leafNode[K, V] {
	return &leafNode[K, V]{data: densemap.New[K, V](cap, less, mode)}
}

// internalNode is a tagged union: exactly one of leafChildren or
// internalChildren is populated, discriminated by childrenAreLeaves. Every
// access to an internal node reads that tag exactly once and then commits
// to one branch, as required of the sum-type design this mirrors.
type internalNode[K any, V any] struct {
	childrenAreLeaves bool
	leafChildren      *densemap.Map[K, *leafNode[K, V]]
	internalChildren  *densemap.Map[K, *internalNode[K, V]]
	parent            *internalNode[K, V]
}

// fastContainersInternalNode has the name of pool.InternalNode's marker
// method; for the same reason as above, *internalNode[K, V] does not satisfy
// pool.InternalNode.
func (*internalNode[K, V]) fastContainersInternalNode() {}

func newInternalOverLeaves[K any, V any](cap int, less func(a, b K) bool, mode densemap.SearchMode) *internalNode[K, V] {
	return &internalNode[K, V]{
		childrenAreLeaves: true,
		leafChildren:      densemap.New[K, *leafNode[K, V]](cap, less, mode),
	}
}

func newInternalOverInternals[K any, V any](cap int, less func(a, b K) bool, mode densemap.SearchMode) *internalNode[K, V] {
	return &internalNode[K, V]{
		childrenAreLeaves: false,
		internalChildren:  densemap.New[K, *internalNode[K, V]](cap, less, mode),
	}
}

// size returns the number of children this internal node currently holds,
// reading the tag once.
func (n *internalNode[K, V]) size() int {
	if n.childrenAreLeaves {
		return n.leafChildren.Size()
	}
	return n.internalChildren.Size()
}
