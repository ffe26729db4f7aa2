package densemap

import "github.com/kressler/fast-containers/pkg/simd"

// Find returns the iterator to the unique entry with key equal to k under
// the map's comparator, or End() if no such entry exists.
func (m *Map[K, V]) Find(k K) Iter {
	idx := m.lowerBoundIndex(k)
	if idx < len(m.keys) && !m.less(k, m.keys[idx]) {
		return Iter(idx)
	}
	return m.End()
}

// LowerBound returns the first iterator whose key is not ordered before k.
func (m *Map[K, V]) LowerBound(k K) Iter { return Iter(m.lowerBoundIndex(k)) }

// UpperBound returns the first iterator whose key is ordered after k.
func (m *Map[K, V]) UpperBound(k K) Iter { return Iter(m.upperBoundIndex(k)) }

func (m *Map[K, V]) lowerBoundIndex(k K) int {
	switch m.mode {
	case Linear:
		for i, kk := range m.keys {
			if !m.less(kk, k) {
				return i
			}
		}
		return len(m.keys)
	case SIMD:
		if idx, ok := simdLowerBound(m.keys, k); ok {
			return idx
		}
		fallthrough
	default: // Binary, and SIMD's fallback for unaccelerated key types
		lo, hi := 0, len(m.keys)
		for lo < hi {
			mid := int(uint(lo+hi) >> 1)
			if m.less(m.keys[mid], k) {
				lo = mid + 1
			} else {
				hi = mid
			}
		}
		return lo
	}
}

// upperBoundIndex has no vector kernel — pkg/simd only accelerates
// lower_bound, per §4.1 — so SIMD mode shares the Binary path here.
func (m *Map[K, V]) upperBoundIndex(k K) int {
	if m.mode == Linear {
		for i, kk := range m.keys {
			if m.less(k, kk) {
				return i
			}
		}
		return len(m.keys)
	}
	lo, hi := 0, len(m.keys)
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		if !m.less(k, m.keys[mid]) {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

// simdLowerBound dispatches to pkg/simd's vector kernels for the scalar key
// types it accelerates. ok is false for every other K — including fixed-size
// byte-array keys, which pkg/simd does not vectorize (see package doc) —
// telling the caller to fall back to the binary-search path.
func simdLowerBound[K any](keys []K, needle K) (idx int, ok bool) {
	switch ks := any(keys).(type) {
	case []int32:
		return simd.LowerBound(ks, any(needle).(int32)), true
	case []uint32:
		return simd.LowerBound(ks, any(needle).(uint32)), true
	case []int64:
		return simd.LowerBound(ks, any(needle).(int64)), true
	case []uint64:
		return simd.LowerBound(ks, any(needle).(uint64)), true
	case []float32:
		return simd.LowerBound(ks, any(needle).(float32)), true
	case []float64:
		return simd.LowerBound(ks, any(needle).(float64)), true
	default:
		return 0, false
	}
}
