package btree

import (
	"github.com/kressler/fast-containers/internal/debug"
	"github.com/kressler/fast-containers/pkg/densemap"
)

// Iter is a btree iterator: a weak reference to the containing leaf and an
// index into it. It does not extend the leaf's lifetime and is invalidated
// by any mutation that moves the entry it points at.
type Iter[K any, V any] struct {
	leaf *leafNode[K, V]
	idx  int
}

// Key returns the key this iterator points at. it must not be an end
// sentinel.
func (it Iter[K, V]) Key() K { return it.leaf.data.Key(densemap.Iter(it.idx)) }

// Value returns the value this iterator points at.
func (it Iter[K, V]) Value() V { return it.leaf.data.Value(densemap.Iter(it.idx)) }

// next advances it by one position, following the leaf chain on overflow.
// Incrementing End() is a no-op (it stays at End()).
func (t *Tree[K, V]) next(it Iter[K, V]) Iter[K, V] {
	next := it.idx + 1
	if next < it.leaf.data.Size() {
		return Iter[K, V]{leaf: it.leaf, idx: next}
	}
	if it.leaf.next != nil {
		return Iter[K, V]{leaf: it.leaf.next, idx: 0}
	}
	return Iter[K, V]{leaf: it.leaf, idx: min(next, it.leaf.data.Size())}
}

// prev steps it back by one position, following the leaf chain backward.
// Decrementing Begin() yields REnd(), the reverse sentinel; decrementing
// REnd() itself is a programming error.
func (t *Tree[K, V]) prev(it Iter[K, V]) Iter[K, V] {
	if it.idx > 0 {
		return Iter[K, V]{leaf: it.leaf, idx: it.idx - 1}
	}
	if it.leaf.prev != nil {
		return Iter[K, V]{leaf: it.leaf.prev, idx: it.leaf.prev.data.Size() - 1}
	}
	debug.Assert(it.idx == 0, "btree: decremented an iterator past rend()")
	return Iter[K, V]{leaf: it.leaf, idx: -1}
}

// Next is the exported form of next, for callers walking the tree manually.
func (t *Tree[K, V]) Next(it Iter[K, V]) Iter[K, V] { return t.next(it) }

// Prev is the exported form of prev.
func (t *Tree[K, V]) Prev(it Iter[K, V]) Iter[K, V] { return t.prev(it) }
