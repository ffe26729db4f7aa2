//go:build amd64

package simd

import "unsafe"

// These AVX2 kernels each scan one register's worth of sorted keys (8 lanes
// for the 32-bit families, 4 for the 64-bit families) and return the index
// of the first lane that is not ordered before needle, or the lane count if
// every lane is ordered before needle. They assume the pointer they are
// given has at least that many valid elements behind it; chunking and the
// scalar tail for the remainder are handled by the exported wrappers below.
//
//go:noescape
func lowerBoundInt32x8AVX2(keys *int32, needle int32) int32

//go:noescape
func lowerBoundUint32x8AVX2(keys *uint32, needle uint32) int32

//go:noescape
func lowerBoundInt64x4AVX2(keys *int64, needle int64) int32

//go:noescape
func lowerBoundUint64x4AVX2(keys *uint64, needle uint64) int32

const (
	width32 = 8
	width64 = 4
)

// LowerBoundInt32 searches a sorted []int32 column using AVX2 in width32-wide
// chunks, falling back to a linear scalar scan once fewer than width32
// elements remain — the narrowest tier of the progressive fallback chain
// described in §4.1.
func LowerBoundInt32(keys []int32, needle int32) int {
	off := 0
	for len(keys)-off >= width32 {
		p := (*int32)(unsafe.Pointer(&keys[off]))
		r := int(lowerBoundInt32x8AVX2(p, needle))
		if r < width32 {
			return off + r
		}
		off += width32
	}
	return off + scalarLowerBound(keys[off:], needle)
}

// LowerBoundUint32 is the uint32 analogue of LowerBoundInt32.
func LowerBoundUint32(keys []uint32, needle uint32) int {
	off := 0
	for len(keys)-off >= width32 {
		p := (*uint32)(unsafe.Pointer(&keys[off]))
		r := int(lowerBoundUint32x8AVX2(p, needle))
		if r < width32 {
			return off + r
		}
		off += width32
	}
	return off + scalarLowerBound(keys[off:], needle)
}

// LowerBoundInt64 is the 64-bit analogue of LowerBoundInt32.
func LowerBoundInt64(keys []int64, needle int64) int {
	off := 0
	for len(keys)-off >= width64 {
		p := (*int64)(unsafe.Pointer(&keys[off]))
		r := int(lowerBoundInt64x4AVX2(p, needle))
		if r < width64 {
			return off + r
		}
		off += width64
	}
	return off + scalarLowerBound(keys[off:], needle)
}

// LowerBoundUint64 is the uint64 analogue of LowerBoundInt64.
func LowerBoundUint64(keys []uint64, needle uint64) int {
	off := 0
	for len(keys)-off >= width64 {
		p := (*uint64)(unsafe.Pointer(&keys[off]))
		r := int(lowerBoundUint64x4AVX2(p, needle))
		if r < width64 {
			return off + r
		}
		off += width64
	}
	return off + scalarLowerBound(keys[off:], needle)
}

// LowerBoundFloat32 searches a sorted []float32 column.
//
// Vectorizing a total-order float compare (signed zero and NaN handling)
// is disproportionate to this module's budget; this falls back to the
// scalar path uniformly, on every architecture, which is still correct —
// just not vector-accelerated. See DESIGN.md for the grounding note.
func LowerBoundFloat32(keys []float32, needle float32) int {
	return scalarLowerBound(keys, needle)
}

// LowerBoundFloat64 is the float64 analogue of LowerBoundFloat32.
func LowerBoundFloat64(keys []float64, needle float64) int {
	return scalarLowerBound(keys, needle)
}
