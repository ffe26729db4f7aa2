package btree

import (
	"iter"

	"github.com/kressler/fast-containers/internal/debug"
	"github.com/kressler/fast-containers/pkg/densemap"
)

const minCap = 8

// Tree is an ordered B+ tree keyed map. Leaves hold the actual key/value
// pairs in a DenseMap; internal nodes hold a DenseMap from a child's
// minimum key to that child. The tree always owns a root — an empty tree
// is a single empty leaf root.
//
// A Tree must be constructed with New; the zero value is not usable.
type Tree[K any, V any] struct {
	rootIsLeaf   bool
	rootLeaf     *leafNode[K, V]
	rootInternal *internalNode[K, V]

	leftmost, rightmost *leafNode[K, V]

	less func(a, b K) bool
	mode densemap.SearchMode

	leafCap, internalCap                           int
	leafMin, leafHyst, leafUnderflow               int
	internalMin, internalHyst, internalUnderflow   int

	count int
}

// New constructs an empty Tree with the given per-node capacities,
// strict-less comparator, and DenseMap search mode. Both capacities must be
// at least 8, per §4.2's compile-time guard.
func New[K any, V any](leafCap, internalCap int, less func(a, b K) bool, mode densemap.SearchMode) *Tree[K, V] {
	debug.Assert(leafCap >= minCap, "btree: leaf capacity %d is below the minimum of %d", leafCap, minCap)
	debug.Assert(internalCap >= minCap, "btree: internal capacity %d is below the minimum of %d", internalCap, minCap)

	t := &Tree[K, V]{
		less:        less,
		mode:        mode,
		leafCap:     leafCap,
		internalCap: internalCap,
	}
	t.computeThresholds()

	root := newLeaf[K, V](leafCap, less, mode)
	t.rootIsLeaf = true
	t.rootLeaf = root
	t.leftmost = root
	t.rightmost = root

	return t
}

// computeThresholds derives the hysteresis-damped underflow thresholds from
// §4.2: min = ceil(cap/2), hyst = min/4, underflow = max(min-hyst, 0).
func (t *Tree[K, V]) computeThresholds() {
	t.leafMin = ceilDiv(t.leafCap, 2)
	t.leafHyst = t.leafMin / 4
	t.leafUnderflow = max(t.leafMin-t.leafHyst, 0)

	t.internalMin = ceilDiv(t.internalCap, 2)
	t.internalHyst = t.internalMin / 4
	t.internalUnderflow = max(t.internalMin-t.internalHyst, 0)
}

func ceilDiv(a, b int) int { return (a + b - 1) / b }

// Size returns the number of key/value pairs stored.
func (t *Tree[K, V]) Size() int { return t.count }

// Empty reports whether Size() == 0.
func (t *Tree[K, V]) Empty() bool { return t.count == 0 }

// Count returns 1 if k is present, 0 otherwise.
func (t *Tree[K, V]) Count(k K) int {
	if t.Contains(k) {
		return 1
	}
	return 0
}

// Contains reports whether k is present.
func (t *Tree[K, V]) Contains(k K) bool { return t.Find(k) != t.End() }

// KeyNotFoundError is returned by At when the key is absent.
type KeyNotFoundError[K any] struct {
	Key K
}

func (e *KeyNotFoundError[K]) Error() string { return "btree: key not found" }

// At returns the value for k, or a *KeyNotFoundError if k is absent.
func (t *Tree[K, V]) At(k K) (V, error) {
	it := t.Find(k)
	if it == t.End() {
		var zero V
		return zero, &KeyNotFoundError[K]{Key: k}
	}
	return it.Value(), nil
}

// Find returns the iterator to k, or End() if absent.
func (t *Tree[K, V]) Find(k K) Iter[K, V] {
	leaf := t.descendToLeaf(k)
	pos := leaf.data.LowerBound(k)
	if pos != leaf.data.End() && !t.less(k, leaf.data.Key(pos)) {
		return Iter[K, V]{leaf: leaf, idx: int(pos)}
	}
	return t.End()
}

// EqualRange implements §4.2's "one descent" equal_range: if k is present at
// the lower-bound position, the range is [lb, lb+1); otherwise it is the
// empty range [lb, lb).
func (t *Tree[K, V]) EqualRange(k K) (Iter[K, V], Iter[K, V]) {
	leaf := t.descendToLeaf(k)
	pos := leaf.data.LowerBound(k)
	lb := Iter[K, V]{leaf: leaf, idx: int(pos)}
	if pos != leaf.data.End() && !t.less(k, leaf.data.Key(pos)) {
		return lb, t.next(lb)
	}
	return lb, lb
}

// LowerBound returns the iterator to the first entry whose key is not
// ordered before k, or End() if every entry is ordered before k — the
// single-descent tree-level lower_bound from §2's BTree API.
func (t *Tree[K, V]) LowerBound(k K) Iter[K, V] {
	leaf := t.descendToLeaf(k)
	pos := leaf.data.LowerBound(k)
	return t.leafPosIter(leaf, int(pos))
}

// UpperBound returns the iterator to the first entry whose key is ordered
// after k, or End() if no entry is.
func (t *Tree[K, V]) UpperBound(k K) Iter[K, V] {
	leaf := t.descendToLeaf(k)
	pos := leaf.data.UpperBound(k)
	return t.leafPosIter(leaf, int(pos))
}

// leafPosIter turns a position within leaf into a tree iterator, crossing
// into the next leaf when pos lands past leaf's last entry so the result is
// always dereferenceable (or the tree's own End()), the same normalization
// next() applies when it steps off the end of a leaf.
func (t *Tree[K, V]) leafPosIter(leaf *leafNode[K, V], pos int) Iter[K, V] {
	if pos < leaf.data.Size() {
		return Iter[K, V]{leaf: leaf, idx: pos}
	}
	if leaf.next != nil {
		return Iter[K, V]{leaf: leaf.next, idx: 0}
	}
	return Iter[K, V]{leaf: leaf, idx: pos}
}

// Begin returns the iterator to the smallest key, from the cached leftmost
// leaf.
func (t *Tree[K, V]) Begin() Iter[K, V] { return Iter[K, V]{leaf: t.leftmost, idx: 0} }

// End returns the sentinel iterator: the rightmost leaf at its own size.
func (t *Tree[K, V]) End() Iter[K, V] {
	return Iter[K, V]{leaf: t.rightmost, idx: t.rightmost.data.Size()}
}

// RBegin returns the iterator to the largest key, for reverse iteration.
func (t *Tree[K, V]) RBegin() Iter[K, V] {
	return Iter[K, V]{leaf: t.rightmost, idx: t.rightmost.data.Size() - 1}
}

// REnd returns the reverse sentinel: decrementing it lands on Begin().
func (t *Tree[K, V]) REnd() Iter[K, V] { return Iter[K, V]{leaf: t.leftmost, idx: -1} }

// Seq returns an iter.Seq2 over the tree's entries in ascending key order,
// additive sugar over the index-based iterators above for range-over-func
// loops; it does not change the iterator contract they implement.
func (t *Tree[K, V]) Seq() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		end := t.End()
		for it := t.Begin(); it != end; it = t.next(it) {
			if !yield(it.Key(), it.Value()) {
				return
			}
		}
	}
}

// Clear empties the tree. If the root is a leaf it is cleared in place;
// otherwise the whole internal subtree is discarded and a fresh empty leaf
// root is installed.
func (t *Tree[K, V]) Clear() {
	if t.rootIsLeaf {
		t.rootLeaf.data.Clear()
		t.rootLeaf.next = nil
		t.rootLeaf.prev = nil
		t.leftmost = t.rootLeaf
		t.rightmost = t.rootLeaf
		t.count = 0
		return
	}

	root := newLeaf[K, V](t.leafCap, t.less, t.mode)
	t.rootIsLeaf = true
	t.rootLeaf = root
	t.rootInternal = nil
	t.leftmost = root
	t.rightmost = root
	t.count = 0
}
