package densemap

// Insert inserts (k, v) if absent, shifting the key and value columns to
// keep both sorted. If k is already present, it returns the existing
// iterator and false without modifying the map.
func (m *Map[K, V]) Insert(k K, v V) (Iter, bool, error) {
	idx := m.lowerBoundIndex(k)
	if idx < len(m.keys) && !m.less(k, m.keys[idx]) {
		return Iter(idx), false, nil
	}
	return m.insertHintAt(idx, k, v)
}

// InsertHint is Insert, but assumes pos == LowerBound(k) and skips the
// re-search. Passing an incorrect pos breaks the sort invariant; callers
// that are not certain pos is correct should use Insert instead.
func (m *Map[K, V]) InsertHint(pos Iter, k K, v V) (Iter, bool, error) {
	idx := int(pos)
	if idx < len(m.keys) && !m.less(k, m.keys[idx]) && !m.less(m.keys[idx], k) {
		return Iter(idx), false, nil
	}
	return m.insertHintAt(idx, k, v)
}

func (m *Map[K, V]) insertHintAt(idx int, k K, v V) (Iter, bool, error) {
	if len(m.keys) >= m.capacity {
		return 0, false, &FullError{Capacity: m.capacity}
	}

	var zeroK K
	var zeroV V
	m.keys = append(m.keys, zeroK)
	m.values = append(m.values, zeroV)
	copy(m.keys[idx+1:], m.keys[idx:len(m.keys)-1])
	copy(m.values[idx+1:], m.values[idx:len(m.values)-1])
	m.keys[idx] = k
	m.values[idx] = v

	return Iter(idx), true, nil
}

// EraseKey removes the entry with key k, if any, shifting the columns left.
// It returns 1 if an entry was removed, 0 otherwise.
func (m *Map[K, V]) EraseKey(k K) int {
	it := m.Find(k)
	if it == m.End() {
		return 0
	}
	m.EraseIter(it)
	return 1
}

// EraseIter erases the entry at it and returns an iterator to the entry
// that took its place (or End() if it pointed at the last entry).
func (m *Map[K, V]) EraseIter(it Iter) Iter {
	idx := int(it)
	copy(m.keys[idx:], m.keys[idx+1:])
	copy(m.values[idx:], m.values[idx+1:])

	var zeroK K
	var zeroV V
	m.keys[len(m.keys)-1] = zeroK
	m.values[len(m.values)-1] = zeroV
	m.keys = m.keys[:len(m.keys)-1]
	m.values = m.values[:len(m.values)-1]

	return it
}

// GetOrInsert returns a pointer to the value for k, inserting the zero
// value of V first if k is absent. This is DenseMap's operator[].
func (m *Map[K, V]) GetOrInsert(k K) (*V, error) {
	idx := m.lowerBoundIndex(k)
	if idx < len(m.keys) && !m.less(k, m.keys[idx]) {
		return &m.values[idx], nil
	}
	var zeroV V
	it, _, err := m.insertHintAt(idx, k, zeroV)
	if err != nil {
		return nil, err
	}
	return &m.values[it], nil
}
