package simd_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kressler/fast-containers/pkg/simd"
)

func TestEncodeInt64RoundTrip(t *testing.T) {
	for _, v := range []int64{0, 1, -1, 42, -42, 1 << 40, -(1 << 40)} {
		b := simd.EncodeInt64(v)
		assert.Equal(t, v, simd.DecodeInt64(b))
	}
}

func TestEncodeInt64PreservesOrder(t *testing.T) {
	values := []int64{-1000, -1, 0, 1, 1000}
	for i := 1; i < len(values); i++ {
		a, b := simd.EncodeInt64(values[i-1]), simd.EncodeInt64(values[i])
		assert.True(t, lexLess(a[:], b[:]), "expected Encode(%d) < Encode(%d)", values[i-1], values[i])
	}
}

func TestEncodeUint64RoundTrip(t *testing.T) {
	for _, v := range []uint64{0, 1, 42, 1 << 40, ^uint64(0)} {
		b := simd.EncodeUint64(v)
		assert.Equal(t, v, simd.DecodeUint64(b))
	}
}

func TestEncodeInt32RoundTrip(t *testing.T) {
	for _, v := range []int32{0, 1, -1, 1 << 20, -(1 << 20)} {
		b := simd.EncodeInt32(v)
		assert.Equal(t, v, simd.DecodeInt32(b))
	}
}

func TestConcat16AndConcat32(t *testing.T) {
	a := simd.EncodeInt64(1)
	b := simd.EncodeInt64(2)
	c := simd.EncodeInt64(3)
	d := simd.EncodeInt64(4)

	c16 := simd.Concat16(a, b)
	assert.Equal(t, a[:], c16[:8])
	assert.Equal(t, b[:], c16[8:])

	c32 := simd.Concat32(a, b, c, d)
	assert.Equal(t, a[:], c32[0:8])
	assert.Equal(t, b[:], c32[8:16])
	assert.Equal(t, c[:], c32[16:24])
	assert.Equal(t, d[:], c32[24:32])
}

func lexLess(a, b []byte) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}
