//go:build !amd64

package simd

// On architectures without a vector kernel, every key family falls back to
// the scalar binary search — there is no progressive width stepdown because
// there is no vector width to step down from.

// LowerBoundInt32 searches a sorted []int32 column.
func LowerBoundInt32(keys []int32, needle int32) int { return LowerBoundScalar(keys, needle) }

// LowerBoundUint32 searches a sorted []uint32 column.
func LowerBoundUint32(keys []uint32, needle uint32) int { return LowerBoundScalar(keys, needle) }

// LowerBoundFloat32 searches a sorted []float32 column.
func LowerBoundFloat32(keys []float32, needle float32) int { return LowerBoundScalar(keys, needle) }

// LowerBoundInt64 searches a sorted []int64 column.
func LowerBoundInt64(keys []int64, needle int64) int { return LowerBoundScalar(keys, needle) }

// LowerBoundUint64 searches a sorted []uint64 column.
func LowerBoundUint64(keys []uint64, needle uint64) int { return LowerBoundScalar(keys, needle) }

// LowerBoundFloat64 searches a sorted []float64 column.
func LowerBoundFloat64(keys []float64, needle float64) int { return LowerBoundScalar(keys, needle) }
