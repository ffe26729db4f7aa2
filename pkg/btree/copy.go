package btree

// Clone returns a new tree with the same entries as t, built by iterating t
// and inserting one by one — O(m log m), as accepted for copy semantics.
// The clone uses t's capacities, comparator, and search mode, so it behaves
// identically to t under further mutation.
func (t *Tree[K, V]) Clone() *Tree[K, V] {
	out := New[K, V](t.leafCap, t.internalCap, t.less, t.mode)
	end := t.End()
	for it := t.Begin(); it != end; it = t.next(it) {
		_, _, err := out.Insert(it.Key(), it.Value())
		if err != nil {
			panic(err)
		}
	}
	return out
}

// Swap exchanges the complete contents of t and other, including whichever
// side of the root tagged union each currently occupies. It goes through a
// plain local temporary so that a leaf-rooted tree and an internal-rooted
// tree swap cleanly — the "full three-way swap through the tagged union"
// the suspicious legacy cross-assignment pattern this replaces should have
// done.
func (t *Tree[K, V]) Swap(other *Tree[K, V]) {
	tmp := *t
	*t = *other
	*other = tmp
}
