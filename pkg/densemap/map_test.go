package densemap_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kressler/fast-containers/pkg/densemap"
)

func lessInt(a, b int) bool { return a < b }

func newIntMap(mode densemap.SearchMode) *densemap.Map[int, string] {
	return densemap.New[int, string](8, lessInt, mode)
}

func TestBasicInsertFindErase(t *testing.T) {
	for _, mode := range []densemap.SearchMode{densemap.Linear, densemap.Binary, densemap.SIMD} {
		m := newIntMap(mode)

		_, inserted, err := m.Insert(5, "five")
		require.NoError(t, err)
		assert.True(t, inserted)

		_, inserted, err = m.Insert(5, "five-again")
		require.NoError(t, err)
		assert.False(t, inserted, "mode=%v", mode)

		it := m.Find(5)
		require.NotEqual(t, m.End(), it)
		assert.Equal(t, "five", m.Value(it))

		assert.Equal(t, m.End(), m.Find(999))

		assert.Equal(t, 1, m.EraseKey(5))
		assert.Equal(t, 0, m.EraseKey(5))
		assert.True(t, m.Empty())
	}
}

func TestInsertKeepsSortedOrder(t *testing.T) {
	m := newIntMap(densemap.Binary)
	for _, k := range []int{5, 1, 4, 2, 3} {
		_, _, err := m.Insert(k, "")
		require.NoError(t, err)
	}
	for i := 0; i < m.Size()-1; i++ {
		assert.Less(t, m.Key(densemap.Iter(i)), m.Key(densemap.Iter(i+1)))
	}
}

func TestFullError(t *testing.T) {
	m := newIntMap(densemap.Binary)
	for i := 0; i < 8; i++ {
		_, _, err := m.Insert(i, "")
		require.NoError(t, err)
	}
	_, _, err := m.Insert(100, "")
	require.Error(t, err)
	var fullErr *densemap.FullError
	assert.ErrorAs(t, err, &fullErr)
}

func TestLowerBoundAndUpperBound(t *testing.T) {
	for _, mode := range []densemap.SearchMode{densemap.Linear, densemap.Binary, densemap.SIMD} {
		m := newIntMap(mode)
		for _, k := range []int{10, 20, 30, 40} {
			_, _, err := m.Insert(k, "")
			require.NoError(t, err)
		}
		assert.Equal(t, densemap.Iter(0), m.LowerBound(5))
		assert.Equal(t, densemap.Iter(1), m.LowerBound(11))
		assert.Equal(t, densemap.Iter(1), m.LowerBound(20))
		assert.Equal(t, m.End(), m.LowerBound(50))

		assert.Equal(t, densemap.Iter(0), m.UpperBound(5))
		assert.Equal(t, densemap.Iter(2), m.UpperBound(20))
		assert.Equal(t, m.End(), m.UpperBound(40))
	}
}

func TestGetOrInsert(t *testing.T) {
	m := newIntMap(densemap.Binary)
	p := mustGetOrInsert(t, m, 7)
	*p = "seven"

	p2 := mustGetOrInsert(t, m, 7)
	assert.Equal(t, "seven", *p2)
	assert.Equal(t, 1, m.Size())
}

func mustGetOrInsert(t *testing.T, m *densemap.Map[int, string], k int) *string {
	t.Helper()
	p, err := m.GetOrInsert(k)
	require.NoError(t, err)
	return p
}

func TestClearResetsSize(t *testing.T) {
	m := newIntMap(densemap.Binary)
	for i := 0; i < 5; i++ {
		_, _, err := m.Insert(i, "x")
		require.NoError(t, err)
	}
	m.Clear()
	assert.True(t, m.Empty())
	assert.Equal(t, 0, m.Size())
	_, _, err := m.Insert(1, "y")
	require.NoError(t, err)
	assert.Equal(t, 1, m.Size())
}

func TestEraseIterReturnsNextIterator(t *testing.T) {
	m := newIntMap(densemap.Binary)
	for _, k := range []int{1, 2, 3} {
		_, _, err := m.Insert(k, "")
		require.NoError(t, err)
	}
	it := m.Find(2)
	next := m.EraseIter(it)
	assert.Equal(t, 3, m.Key(next))
}

// Scenario F.
func TestScenarioF(t *testing.T) {
	m := densemap.New[int32, int32](10, lessI32, densemap.Binary)
	for _, kv := range [][2]int32{{3, 30}, {1, 10}, {5, 50}, {2, 20}, {4, 40}} {
		_, _, err := m.Insert(kv[0], kv[1])
		require.NoError(t, err)
	}

	it := m.LowerBound(3)
	assert.Equal(t, int32(3), m.Key(it))
	assert.Equal(t, int32(30), m.Value(it))
}

func TestSplitAtThenTransferPrefixFromRestoresOriginal(t *testing.T) {
	src := densemap.New[int32, int](8, lessI32, densemap.Binary)
	fill(t, src, []int32{1, 2, 3, 4, 5, 6})

	other := densemap.New[int32, int](8, lessI32, densemap.Binary)
	splitIter := src.Find(4)
	moved := src.Size() - int(splitIter)
	require.NoError(t, src.SplitAt(splitIter, other))

	require.NoError(t, src.TransferPrefixFrom(other, moved))

	assert.Equal(t, []int32{1, 2, 3, 4, 5, 6}, keysOf(src))
	assert.True(t, other.Empty())
}

func keysOf(m *densemap.Map[int32, int]) []int32 {
	keys := make([]int32, 0, m.Size())
	for i := m.Begin(); i != m.End(); i++ {
		keys = append(keys, m.Key(i))
	}
	return keys
}

func TestUnsafeUpdateKey(t *testing.T) {
	m := newIntMap(densemap.Binary)
	_, _, err := m.Insert(5, "five")
	require.NoError(t, err)
	it := m.Find(5)
	m.UnsafeUpdateKey(it, 6)
	assert.Equal(t, 6, m.Key(it))
}
