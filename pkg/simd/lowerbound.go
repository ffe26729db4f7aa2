package simd

// LowerBound returns the index of the first element of keys that is not
// ordered before needle, or len(keys) if every element is ordered before
// needle. keys must already be sorted ascending under the natural ordering
// of T.
//
// This is the vectorized counterpart to a classical binary-search
// lower_bound. Per §8 ("SIMD fallback"), it is guaranteed to return the same
// index as LowerBoundScalar for every input; pkg/simd's tests check exactly
// that, for every supported key width.
func LowerBound[T Ordered](keys []T, needle T) int {
	switch k := any(keys).(type) {
	case []int32:
		return LowerBoundInt32(k, any(needle).(int32))
	case []uint32:
		return LowerBoundUint32(k, any(needle).(uint32))
	case []float32:
		return LowerBoundFloat32(k, any(needle).(float32))
	case []int64:
		return LowerBoundInt64(k, any(needle).(int64))
	case []uint64:
		return LowerBoundUint64(k, any(needle).(uint64))
	case []float64:
		return LowerBoundFloat64(k, any(needle).(float64))
	default:
		panic("simd: unsupported key type for LowerBound")
	}
}

// LowerBoundScalar is the reference (non-SIMD) binary-search lower_bound,
// used on architectures without a vector kernel and as the ground truth
// that LowerBound is cross-checked against in tests.
func LowerBoundScalar[T Ordered](keys []T, needle T) int {
	lo, hi := 0, len(keys)
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		if keys[mid] < needle {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

// scalarLowerBound is the linear scan that the amd64 search uses for the
// sub-vector-width tail of the progressive search and for the whole search
// over the float32/float64 families (which never get a vector kernel, see
// lowerbound_amd64.go). Other architectures use LowerBoundScalar instead
// (see lowerbound_fallback.go). A linear scan is used rather
// than a binary search for the tail because the tail is by construction
// shorter than one vector register's worth of lanes (at most 7 elements for
// the 32-bit kernels, 3 for the 64-bit ones), where a linear scan has no
// binary-search branch-misprediction cost to amortize.
func scalarLowerBound[T Ordered](keys []T, needle T) int {
	for i, k := range keys {
		if !(k < needle) {
			return i
		}
	}
	return len(keys)
}
