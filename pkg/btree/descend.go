package btree

import "github.com/kressler/fast-containers/pkg/densemap"

// descendToLeaf implements §4.2's descent algorithm: from the root, at each
// internal level, find the child whose key range contains k and follow it,
// exploiting the invariant that each child's key equals its subtree
// minimum.
func (t *Tree[K, V]) descendToLeaf(k K) *leafNode[K, V] {
	if t.rootIsLeaf {
		return t.rootLeaf
	}

	node := t.rootInternal
	for {
		if node.childrenAreLeaves {
			return stepChild(node.leafChildren, k, t.less)
		}
		node = stepChild(node.internalChildren, k, t.less)
	}
}

// stepChild finds the child whose key range contains k in a children map:
// compute lower_bound(k); if the result points past the first child and
// either it is end or its key doesn't equal k, step back one.
func stepChild[K any, C any](m *densemap.Map[K, C], k K, less func(a, b K) bool) C {
	it := m.LowerBound(k)
	if it > m.Begin() {
		if it == m.End() || !keysEqual(less, k, m.Key(it)) {
			it--
		}
	}
	return m.Value(it)
}

func keysEqual[K any](less func(a, b K) bool, a, b K) bool {
	return !less(a, b) && !less(b, a)
}
