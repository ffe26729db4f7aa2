// Package densemap provides DenseMap, a cache-friendly sorted array of
// key/value pairs held in two parallel columns, used as the node storage
// for package btree.
//
// The two-column layout and the move-instead-of-copy discipline below are
// grounded in the arena package's split-arena-chunk bookkeeping in this
// module's lineage: the same "shift a contiguous run, then zero the
// vacated slots" pattern [Recycled.Release]/[Recycled.Alloc] use for
// tracking freed blocks is what DenseMap's insert/erase/split/transfer
// operations do for whole key/value pairs.
package densemap

import (
	"github.com/kressler/fast-containers/internal/debug"
)

// SearchMode selects the algorithm DenseMap uses for Find, LowerBound, and
// UpperBound, per §4.1's "Search algorithms".
type SearchMode int

const (
	// Linear scans the key column until the comparator says the needle is
	// no longer ordered after the current key.
	Linear SearchMode = iota
	// Binary performs a classical binary lower-bound search, written as an
	// ordinary branching loop rather than a branchless one.
	Binary
	// SIMD vectorizes the search over the key column for the scalar key
	// types pkg/simd accelerates, falling back to Binary for every other
	// key type (composite byte-array keys included) — see DESIGN.md for
	// why a hard compile-time restriction to SIMD-eligible K, as the
	// distilled spec requires, is not expressible in Go's generics.
	SIMD
)

// minCapacity is the N ≥ 8 compile-time guard from §4.1, enforced here as a
// runtime assertion since Go generics have no value (non-type) parameters.
const minCapacity = 8

// Iter is a DenseMap iterator: a plain index into the key/value columns.
// Iterators are invalidated by any Insert, Erase, SplitAt, or transfer that
// moves the element they point at, exactly as for a C++ vector iterator —
// no value is retained across calls that could re-point it.
type Iter int

// Map is a sorted array of key/value pairs held in two parallel columns:
// keys and values never interleave, so a scan over just the key column
// touches no value memory.
//
// A Map must be constructed with New; the zero value is not usable.
type Map[K any, V any] struct {
	keys     []K
	values   []V
	capacity int
	less     func(a, b K) bool
	mode     SearchMode
}

// New constructs a Map with the given fixed capacity, strict-less
// comparator, and search mode.
func New[K any, V any](capacity int, less func(a, b K) bool, mode SearchMode) *Map[K, V] {
	debug.Assert(capacity >= minCapacity, "densemap: capacity %d is below the minimum of %d", capacity, minCapacity)
	return &Map[K, V]{
		keys:     make([]K, 0, capacity),
		values:   make([]V, 0, capacity),
		capacity: capacity,
		less:     less,
		mode:     mode,
	}
}

// Size returns the number of entries currently stored.
func (m *Map[K, V]) Size() int { return len(m.keys) }

// Empty reports whether Size() == 0.
func (m *Map[K, V]) Empty() bool { return len(m.keys) == 0 }

// Full reports whether Size() == Capacity().
func (m *Map[K, V]) Full() bool { return len(m.keys) == m.capacity }

// Capacity returns N, the fixed capacity given at construction.
func (m *Map[K, V]) Capacity() int { return m.capacity }

// Clear removes every entry and resets Size() to 0.
//
// Go generics have no "trivially destructible" trait, so this always zeroes
// the vacated backing arrays (O(N)) rather than skipping that work for
// scalar key/value types the way the distilled spec's O(1) fast path does;
// see DESIGN.md's pkg/densemap notes.
func (m *Map[K, V]) Clear() {
	clear(m.keys[:cap(m.keys)])
	clear(m.values[:cap(m.values)])
	m.keys = m.keys[:0]
	m.values = m.values[:0]
}

// Begin returns the iterator to the first entry.
func (m *Map[K, V]) Begin() Iter { return 0 }

// End returns the iterator one past the last entry.
func (m *Map[K, V]) End() Iter { return Iter(len(m.keys)) }

// RBegin returns the iterator to the last entry, for reverse iteration.
func (m *Map[K, V]) RBegin() Iter { return Iter(len(m.keys) - 1) }

// REnd returns the sentinel one before the first entry, for reverse
// iteration.
func (m *Map[K, V]) REnd() Iter { return -1 }

// Key returns the key at it. it must be in [Begin(), End()).
func (m *Map[K, V]) Key(it Iter) K { return m.keys[it] }

// Value returns the value at it. it must be in [Begin(), End()).
func (m *Map[K, V]) Value(it Iter) V { return m.values[it] }

// ValuePtr returns a pointer to the value at it, letting a caller mutate it
// in place. The pointer is invalidated by any operation that shifts the
// value column.
func (m *Map[K, V]) ValuePtr(it Iter) *V { return &m.values[it] }

// SetValue overwrites the value at it without touching the key column.
func (m *Map[K, V]) SetValue(it Iter, v V) { m.values[it] = v }

// UnsafeUpdateKey overwrites the key at it in place. The caller is
// responsible for ensuring this preserves sort order; this is used only by
// the tree's parent-key maintenance, never by ordinary mutation paths.
func (m *Map[K, V]) UnsafeUpdateKey(it Iter, newKey K) {
	debug.Assert(int(it) >= 0 && int(it) < len(m.keys), "densemap: UnsafeUpdateKey iterator %d out of range [0, %d)", it, len(m.keys))
	m.keys[it] = newKey
}
