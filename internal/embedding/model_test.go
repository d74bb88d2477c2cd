package embedding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestModel(t *testing.T) *Model {
	t.Helper()
	m, err := New(
		[]string{"C", "G", "Am", "F", "Dm"},
		[][]float32{
			{1, 0, 0},
			{0.9, 0.1, 0},
			{0.8, 0, 0.2},
			{0, 1, 0},
			{-1, 0, 0},
		},
	)
	require.NoError(t, err)
	return m
}

func TestMostSimilarOrdersByScore(t *testing.T) {
	m := newTestModel(t)

	got, err := m.MostSimilar("C", 3)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, []string{"G", "Am", "F"}, []string{got[0].Token, got[1].Token, got[2].Token})
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Score, got[i].Score)
	}
	assert.InDelta(t, 0.9939, got[0].Score, 1e-3)
}

func TestMostSimilarExcludesQuery(t *testing.T) {
	m := newTestModel(t)

	got, err := m.MostSimilar("C", 100)
	require.NoError(t, err)
	assert.Len(t, got, m.Len()-1)
	for _, n := range got {
		assert.NotEqual(t, "C", n.Token)
	}
	assert.Equal(t, "Dm", got[len(got)-1].Token)
}

func TestMostSimilarNonPositiveCount(t *testing.T) {
	m := newTestModel(t)

	for _, n := range []int{0, -3} {
		got, err := m.MostSimilar("G", n)
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	}
}

func TestMostSimilarTiesKeepVocabularyOrder(t *testing.T) {
	m, err := New(
		[]string{"C", "E7", "A7", "B7"},
		[][]float32{{1, 0}, {0, 1}, {0, 1}, {0, 1}},
	)
	require.NoError(t, err)

	got, err := m.MostSimilar("C", 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "E7", got[0].Token)
	assert.Equal(t, "A7", got[1].Token)
}

func TestUnknownToken(t *testing.T) {
	m := newTestModel(t)

	_, err := m.MostSimilar("H#", 5)
	require.ErrorIs(t, err, ErrUnknownToken)
	assert.Contains(t, err.Error(), "H#")

	_, err = m.Similarity("C", "H#")
	require.ErrorIs(t, err, ErrUnknownToken)

	_, err = m.Vector("H#")
	require.ErrorIs(t, err, ErrUnknownToken)
	assert.False(t, m.Contains("H#"))
}

func TestSimilaritySymmetricAndBounded(t *testing.T) {
	m := newTestModel(t)
	tokens := m.Tokens(-1)

	for _, a := range tokens {
		for _, b := range tokens {
			ab, err := m.Similarity(a, b)
			require.NoError(t, err)
			ba, err := m.Similarity(b, a)
			require.NoError(t, err)

			assert.Equal(t, ab, ba, "%s/%s", a, b)
			assert.GreaterOrEqual(t, ab, -1.0)
			assert.LessOrEqual(t, ab, 1.0)
		}
	}

	opposite, err := m.Similarity("C", "Dm")
	require.NoError(t, err)
	assert.InDelta(t, -1.0, opposite, 1e-6)

	self, err := m.Similarity("Am", "Am")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, self, 1e-6)
}

func TestZeroVectorHasZeroSimilarity(t *testing.T) {
	m, err := New([]string{"C", "N.C."}, [][]float32{{1, 2}, {0, 0}})
	require.NoError(t, err)

	sim, err := m.Similarity("C", "N.C.")
	require.NoError(t, err)
	assert.Equal(t, 0.0, sim)
}

func TestTokensKeepsStoredOrder(t *testing.T) {
	m := newTestModel(t)

	assert.Equal(t, []string{"C", "G"}, m.Tokens(2))
	assert.Equal(t, []string{"C", "G", "Am", "F", "Dm"}, m.Tokens(10))
	assert.Equal(t, 5, m.Len())
	assert.Equal(t, 3, m.Dim())
}

func TestVectorReturnsCopy(t *testing.T) {
	m := newTestModel(t)

	v, err := m.Vector("G")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.9, 0.1, 0}, v)

	v[0] = 42
	again, err := m.Vector("G")
	require.NoError(t, err)
	assert.Equal(t, float32(0.9), again[0])
}

func TestNewRejectsBadInput(t *testing.T) {
	_, err := New([]string{"C", "C"}, [][]float32{{1}, {2}})
	assert.ErrorContains(t, err, "duplicate token")

	_, err = New([]string{"C", "G"}, [][]float32{{1, 0}, {1}})
	assert.ErrorContains(t, err, "dimensions")

	_, err = New([]string{"C"}, nil)
	assert.Error(t, err)
}
