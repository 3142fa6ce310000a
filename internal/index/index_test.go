package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCorpus = []string{
	"cuidado de la herida vendaje limpiar curación",
	"dolor remedio analgésico paracetamol tomar",
	"cuándo puedo caminar apoyo muletas carga pisar",
}

func TestBuildRejectsEmptyCorpus(t *testing.T) {
	_, err := Build(nil, DefaultConfig())
	assert.ErrorIs(t, err, ErrEmptyCorpus)
}

func TestBuildRejectsUnknownMode(t *testing.T) {
	_, err := Build(testCorpus, Config{Mode: "bigram"})
	assert.Error(t, err)
}

func TestQueryFindsNearestEntry(t *testing.T) {
	ix, err := Build(testCorpus, DefaultConfig())
	require.NoError(t, err)

	m, err := ix.Query("puedo caminar")
	require.NoError(t, err)
	assert.Equal(t, 2, m.Pos)
	assert.Greater(t, m.Score, 0.0)

	m, err = ix.Query("vendaje de la herida")
	require.NoError(t, err)
	assert.Equal(t, 0, m.Pos)
}

func TestQueryTypoTolerance(t *testing.T) {
	ix, err := Build(testCorpus, DefaultConfig())
	require.NoError(t, err)

	// Character spans keep misspellings close to their intended entry.
	m, err := ix.Query("caminr con mulets")
	require.NoError(t, err)
	assert.Equal(t, 2, m.Pos)
	assert.Greater(t, m.Score, 0.0)
}

func TestQueryEmpty(t *testing.T) {
	ix, err := Build(testCorpus, DefaultConfig())
	require.NoError(t, err)

	_, err = ix.Query("")
	assert.ErrorIs(t, err, ErrEmptyQuery)

	_, err = ix.Query("   ")
	assert.ErrorIs(t, err, ErrEmptyQuery)
}

func TestQueryUnknownTermsScoreZero(t *testing.T) {
	ix, err := Build(testCorpus, DefaultConfig())
	require.NoError(t, err)

	m, err := ix.Query("zzzzzz")
	require.NoError(t, err)
	assert.Equal(t, 0.0, m.Score)
	assert.Equal(t, 0, m.Pos)
}

func TestQueryDeterministic(t *testing.T) {
	ix, err := Build(testCorpus, DefaultConfig())
	require.NoError(t, err)

	first, err := ix.Query("cuándo puedo caminar")
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		m, err := ix.Query("cuándo puedo caminar")
		require.NoError(t, err)
		require.Equal(t, first, m)
	}
}

func TestQueryTieBreaksOnLowestPosition(t *testing.T) {
	corpus := []string{
		"dolor remedio analgésico",
		"dolor remedio analgésico",
	}
	ix, err := Build(corpus, DefaultConfig())
	require.NoError(t, err)

	m, err := ix.Query("remedio para el dolor")
	require.NoError(t, err)
	assert.Equal(t, 0, m.Pos)
}

func TestWordMode(t *testing.T) {
	ix, err := Build(testCorpus, Config{Mode: ModeWord})
	require.NoError(t, err)

	m, err := ix.Query("caminar")
	require.NoError(t, err)
	assert.Equal(t, 2, m.Pos)
	assert.Greater(t, m.Score, 0.0)
}

func TestLen(t *testing.T) {
	ix, err := Build(testCorpus, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, 3, ix.Len())
}
