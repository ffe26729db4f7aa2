package densemap

// SplitAt moves every entry from splitIter to End() into other, which must
// be empty and have enough capacity to hold them. This is how a B+ tree
// node split hands its upper half to a freshly allocated sibling.
func (m *Map[K, V]) SplitAt(splitIter Iter, other *Map[K, V]) error {
	start := int(splitIter)
	moved := len(m.keys) - start

	if !other.Empty() || other.capacity < moved {
		return &BadSplitTargetError{OtherSize: other.Size(), OtherCapacity: other.capacity, Moved: moved}
	}

	other.keys = append(other.keys[:0], m.keys[start:]...)
	other.values = append(other.values[:0], m.values[start:]...)

	var zeroK K
	var zeroV V
	for i := start; i < len(m.keys); i++ {
		m.keys[i] = zeroK
		m.values[i] = zeroV
	}
	m.keys = m.keys[:start]
	m.values = m.values[:start]

	return nil
}

// TransferPrefixFrom appends the first count entries of source to m and
// removes them from source. count must not exceed source.Size(), and
// m.Size()+count must not exceed m.Capacity().
func (m *Map[K, V]) TransferPrefixFrom(source *Map[K, V], count int) error {
	if count > len(source.keys) || len(m.keys)+count > m.capacity {
		return &BadTransferError{Count: count, SourceSize: source.Size(), DestSize: m.Size(), DestCapacity: m.capacity}
	}
	if count == 0 {
		return nil
	}

	m.keys = append(m.keys, source.keys[:count]...)
	m.values = append(m.values, source.values[:count]...)

	source.removePrefix(count)
	return nil
}

// TransferSuffixFrom prepends the last count entries of source to m and
// removes them from source. Preconditions match TransferPrefixFrom.
func (m *Map[K, V]) TransferSuffixFrom(source *Map[K, V], count int) error {
	if count > len(source.keys) || len(m.keys)+count > m.capacity {
		return &BadTransferError{Count: count, SourceSize: source.Size(), DestSize: m.Size(), DestCapacity: m.capacity}
	}
	if count == 0 {
		return nil
	}

	n := len(source.keys)
	suffixKeys := append([]K(nil), source.keys[n-count:]...)
	suffixValues := append([]V(nil), source.values[n-count:]...)

	oldLen := len(m.keys)
	m.keys = append(m.keys, make([]K, count)...)
	m.values = append(m.values, make([]V, count)...)
	copy(m.keys[count:], m.keys[:oldLen])
	copy(m.values[count:], m.values[:oldLen])
	copy(m.keys[:count], suffixKeys)
	copy(m.values[:count], suffixValues)

	source.removeSuffix(count)
	return nil
}

// removePrefix deletes the first count entries, shifting the remainder left
// and zeroing the vacated tail.
func (m *Map[K, V]) removePrefix(count int) {
	n := len(m.keys)
	copy(m.keys, m.keys[count:])
	copy(m.values, m.values[count:])

	var zeroK K
	var zeroV V
	for i := n - count; i < n; i++ {
		m.keys[i] = zeroK
		m.values[i] = zeroV
	}
	m.keys = m.keys[:n-count]
	m.values = m.values[:n-count]
}

// removeSuffix deletes the last count entries and zeroes their slots.
func (m *Map[K, V]) removeSuffix(count int) {
	n := len(m.keys)
	var zeroK K
	var zeroV V
	for i := n - count; i < n; i++ {
		m.keys[i] = zeroK
		m.values[i] = zeroV
	}
	m.keys = m.keys[:n-count]
	m.values = m.values[:n-count]
}
