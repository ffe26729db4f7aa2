package btree_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kressler/fast-containers/pkg/btree"
	"github.com/kressler/fast-containers/pkg/densemap"
)

func lessI32(a, b int32) bool { return a < b }

func newTree8() *btree.Tree[int32, int32] {
	return btree.New[int32, int32](8, 8, lessI32, densemap.Binary)
}

func insertRange(t *testing.T, tr *btree.Tree[int32, int32], lo, hi int32) {
	t.Helper()
	for k := lo; k <= hi; k++ {
		_, inserted, err := tr.Insert(k, k*10)
		require.NoError(t, err)
		require.True(t, inserted)
	}
}

func collect(tr *btree.Tree[int32, int32]) []int32 {
	var keys []int32
	for k := range tr.Seq() {
		keys = append(keys, k)
	}
	return keys
}

// Scenario A.
func TestScenarioA(t *testing.T) {
	tr := newTree8()
	insertRange(t, tr, 1, 5)

	var got []int32
	for k, v := range tr.Seq() {
		assert.Equal(t, k*10, v)
		got = append(got, k)
	}
	assert.Equal(t, []int32{1, 2, 3, 4, 5}, got)
	assert.Equal(t, 5, tr.Size())
	require.NoError(t, tr.Validate())
}

// Scenario B.
func TestScenarioB(t *testing.T) {
	tr := newTree8()
	insertRange(t, tr, 1, 10)

	assert.Equal(t, 1, tr.EraseKey(5))
	assert.Equal(t, 9, tr.Size())
	assert.Equal(t, tr.End(), tr.Find(5))

	for k := int32(1); k <= 10; k++ {
		if k == 5 {
			continue
		}
		v, err := tr.At(k)
		require.NoError(t, err)
		assert.Equal(t, k*10, v)
	}
	require.NoError(t, tr.Validate())
}

// Scenario C.
func TestScenarioC(t *testing.T) {
	tr := newTree8()
	insertRange(t, tr, 1, 18)

	it := tr.Find(9)
	require.NotEqual(t, tr.End(), it)
	next := tr.EraseIter(it)

	require.NotEqual(t, tr.End(), next)
	assert.Equal(t, int32(10), next.Key())
	assert.Equal(t, 17, tr.Size())
	assert.Equal(t, 17, len(collect(tr)))
	require.NoError(t, tr.Validate())
}

// Scenario D.
func TestScenarioD(t *testing.T) {
	tr := newTree8()
	insertRange(t, tr, 1, 30)

	removed := tr.EraseRange(tr.Find(10), tr.Find(20))
	assert.Equal(t, 10, removed)
	assert.Equal(t, 20, tr.Size())

	var want []int32
	for k := int32(1); k <= 9; k++ {
		want = append(want, k)
	}
	for k := int32(20); k <= 30; k++ {
		want = append(want, k)
	}
	assert.Equal(t, want, collect(tr))
	require.NoError(t, tr.Validate())
}

// Scenario E.
func TestScenarioE(t *testing.T) {
	tr := newTree8()
	insertRange(t, tr, 1, 70)

	statsBefore := tr.Stats()

	for k := int32(1); k <= 62; k++ {
		assert.Equal(t, 1, tr.EraseKey(k))
	}

	assert.Equal(t, 8, tr.Size())
	var want []int32
	for k := int32(63); k <= 70; k++ {
		want = append(want, k)
	}
	assert.Equal(t, want, collect(tr))

	statsAfter := tr.Stats()
	assert.Less(t, statsAfter.Height, statsBefore.Height)
	require.NoError(t, tr.Validate())
}

func TestEmptyTree(t *testing.T) {
	tr := newTree8()
	assert.Equal(t, tr.Begin(), tr.End())
	assert.Equal(t, tr.End(), tr.Find(1))
	assert.True(t, tr.Empty())
	require.NoError(t, tr.Validate())
}

func TestSingleElementTree(t *testing.T) {
	tr := newTree8()
	_, inserted, err := tr.Insert(1, 10)
	require.NoError(t, err)
	require.True(t, inserted)

	assert.Equal(t, []int32{1}, collect(tr))
	assert.Equal(t, 1, tr.EraseKey(1))
	assert.True(t, tr.Empty())
	assert.Equal(t, tr.Begin(), tr.End())
	require.NoError(t, tr.Validate())
}

func TestBulkInsertThenEraseToEmpty(t *testing.T) {
	tr := newTree8()
	insertRange(t, tr, 1, 200)
	for k := int32(1); k <= 200; k++ {
		assert.Equal(t, 1, tr.EraseKey(k))
	}

	assert.Equal(t, 0, tr.Size())
	assert.Equal(t, tr.Begin(), tr.End())
	stats := tr.Stats()
	assert.Equal(t, 1, stats.Height)
	assert.Equal(t, 1, stats.NodeCount)
	require.NoError(t, tr.Validate())
}

func TestForcesInternalSplit(t *testing.T) {
	tr := newTree8()
	insertRange(t, tr, 1, 100)

	stats := tr.Stats()
	assert.Greater(t, stats.Height, 2)
	assert.Equal(t, 100, tr.Size())
	require.NoError(t, tr.Validate())
}

func TestContainsAndCount(t *testing.T) {
	tr := newTree8()
	insertRange(t, tr, 1, 5)
	assert.True(t, tr.Contains(3))
	assert.False(t, tr.Contains(99))
	assert.Equal(t, 1, tr.Count(3))
	assert.Equal(t, 0, tr.Count(99))
}

func TestAtMissingKey(t *testing.T) {
	tr := newTree8()
	_, err := tr.At(1)
	require.Error(t, err)
	var notFound *btree.KeyNotFoundError[int32]
	assert.ErrorAs(t, err, &notFound)
}

func TestInsertExistingKeyIsIdempotent(t *testing.T) {
	tr := newTree8()
	_, inserted, err := tr.Insert(1, 100)
	require.NoError(t, err)
	require.True(t, inserted)

	_, inserted, err = tr.Insert(1, 999)
	require.NoError(t, err)
	require.False(t, inserted)

	v, err := tr.At(1)
	require.NoError(t, err)
	assert.Equal(t, int32(100), v)
}

func TestInsertOrAssign(t *testing.T) {
	tr := newTree8()
	_, _, err := tr.Insert(1, 100)
	require.NoError(t, err)

	_, inserted, err := tr.InsertOrAssign(1, 999)
	require.NoError(t, err)
	assert.False(t, inserted)

	v, err := tr.At(1)
	require.NoError(t, err)
	assert.Equal(t, int32(999), v)
}

func TestGetOrInsert(t *testing.T) {
	tr := newTree8()
	p, err := tr.GetOrInsert(7)
	require.NoError(t, err)
	assert.Equal(t, int32(0), *p)
	*p = 42

	v, err := tr.At(7)
	require.NoError(t, err)
	assert.Equal(t, int32(42), v)
}

func TestTryEmplaceSkipsConstructionWhenPresent(t *testing.T) {
	tr := newTree8()
	_, _, err := tr.Insert(1, 100)
	require.NoError(t, err)

	called := false
	_, inserted, err := tr.TryEmplace(1, func() int32 {
		called = true
		return 999
	})
	require.NoError(t, err)
	assert.False(t, inserted)
	assert.False(t, called)
}

func TestEraseInsertRoundTrip(t *testing.T) {
	tr := newTree8()
	insertRange(t, tr, 1, 20)
	sizeBefore := tr.Size()
	keysBefore := collect(tr)

	_, _, err := tr.Insert(1000, 10000)
	require.NoError(t, err)
	assert.Equal(t, 1, tr.EraseKey(1000))

	assert.Equal(t, sizeBefore, tr.Size())
	assert.Equal(t, keysBefore, collect(tr))
}

func TestReverseIteration(t *testing.T) {
	tr := newTree8()
	insertRange(t, tr, 1, 25)

	var got []int32
	end := tr.REnd()
	for it := tr.RBegin(); it != end; it = tr.Prev(it) {
		got = append(got, it.Key())
	}
	var want []int32
	for k := int32(25); k >= 1; k-- {
		want = append(want, k)
	}
	assert.Equal(t, want, got)
}

func TestClearRestoresEmptyLeafRoot(t *testing.T) {
	tr := newTree8()
	insertRange(t, tr, 1, 100)
	tr.Clear()

	assert.Equal(t, 0, tr.Size())
	assert.Equal(t, tr.Begin(), tr.End())
	stats := tr.Stats()
	assert.Equal(t, 1, stats.Height)
	require.NoError(t, tr.Validate())
}

func TestCloneIsIndependentCopy(t *testing.T) {
	tr := newTree8()
	insertRange(t, tr, 1, 50)

	clone := tr.Clone()
	assert.Equal(t, collect(tr), collect(clone))

	assert.Equal(t, 1, clone.EraseKey(1))
	assert.True(t, tr.Contains(1))
	require.NoError(t, clone.Validate())
}

func TestSwapLeafRootWithInternalRoot(t *testing.T) {
	small := newTree8()
	insertRange(t, small, 1, 3)

	large := newTree8()
	insertRange(t, large, 1, 100)

	smallKeysBefore := collect(small)
	largeKeysBefore := collect(large)

	small.Swap(large)

	assert.Equal(t, largeKeysBefore, collect(small))
	assert.Equal(t, smallKeysBefore, collect(large))
	require.NoError(t, small.Validate())
	require.NoError(t, large.Validate())
}

func TestEqualRange(t *testing.T) {
	tr := newTree8()
	insertRange(t, tr, 1, 10)

	lo, hi := tr.EqualRange(5)
	require.NotEqual(t, tr.End(), lo)
	assert.Equal(t, int32(5), lo.Key())
	assert.Equal(t, int32(6), hi.Key())

	lo, hi = tr.EqualRange(999)
	assert.Equal(t, lo, hi)
}

func TestLowerBoundAndUpperBound(t *testing.T) {
	tr := newTree8()
	for _, k := range []int32{10, 20, 30, 40} {
		_, _, err := tr.Insert(k, k*10)
		require.NoError(t, err)
	}

	assert.Equal(t, int32(10), tr.LowerBound(5).Key())
	assert.Equal(t, int32(20), tr.LowerBound(11).Key())
	assert.Equal(t, int32(20), tr.LowerBound(20).Key())
	assert.Equal(t, tr.End(), tr.LowerBound(50))

	assert.Equal(t, int32(10), tr.UpperBound(5).Key())
	assert.Equal(t, int32(30), tr.UpperBound(20).Key())
	assert.Equal(t, tr.End(), tr.UpperBound(40))
}

func TestLowerBoundCrossesLeafBoundary(t *testing.T) {
	tr := newTree8()
	insertRange(t, tr, 1, 100)

	for k := int32(1); k <= 100; k++ {
		assert.Equal(t, k, tr.LowerBound(k).Key())
		assert.Equal(t, k, tr.UpperBound(k-1).Key())
	}
	assert.Equal(t, tr.End(), tr.LowerBound(101))
	assert.Equal(t, tr.End(), tr.UpperBound(100))
}

func TestSIMDFallbackBoundarySizes(t *testing.T) {
	for _, n := range []int32{1, 3, 7, 15, 31, 63} {
		tr := btree.New[int32, int32](8, 8, lessI32, densemap.SIMD)
		insertRange(t, tr, 1, n)
		for k := int32(1); k <= n; k++ {
			v, err := tr.At(k)
			require.NoError(t, err)
			assert.Equal(t, k*10, v)
		}
		require.NoError(t, tr.Validate())
	}
}
