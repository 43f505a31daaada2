package memory

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docqa/internal/domain"
)

func seg(id string) domain.Segment {
	return domain.Segment{ID: id, DocumentID: "doc", FileName: "doc.pdf", Page: 1, Text: "text " + id}
}

func TestSearch_EmptyIndex(t *testing.T) {
	s := NewStorage()
	require.NoError(t, s.Init(3))

	_, err := s.Search([]float64{1, 0, 0}, 5)
	assert.ErrorIs(t, err, domain.ErrEmptyIndex)
}

func TestSearch_NeverExceedsTopK(t *testing.T) {
	s := NewStorage()
	require.NoError(t, s.Init(2))
	require.NoError(t, s.Upsert(
		[]domain.Segment{seg("a"), seg("b"), seg("c")},
		[][]float64{{1, 0}, {0, 1}, {0.5, 0.5}},
	))

	results, err := s.Search([]float64{1, 0}, 2)
	require.NoError(t, err)
	assert.Len(t, results, 2)

	results, err = s.Search([]float64{1, 0}, 10)
	require.NoError(t, err)
	assert.Len(t, results, 3)
}

func TestSearch_ReturnsOnlyIndexedEntries(t *testing.T) {
	s := NewStorage()
	require.NoError(t, s.Init(2))
	require.NoError(t, s.Upsert(
		[]domain.Segment{seg("a"), seg("b")},
		[][]float64{{1, 0}, {0, 1}},
	))

	results, err := s.Search([]float64{0.9, 0.1}, 5)
	require.NoError(t, err)
	known := map[string]bool{"a": true, "b": true}
	for _, r := range results {
		assert.True(t, known[r.Segment.ID], "unexpected segment %s", r.Segment.ID)
	}
}

func TestSearch_RanksByCosineSimilarity(t *testing.T) {
	s := NewStorage()
	require.NoError(t, s.Init(2))
	require.NoError(t, s.Upsert(
		[]domain.Segment{seg("far"), seg("near")},
		[][]float64{{0, 1}, {1, 0}},
	))

	results, err := s.Search([]float64{1, 0}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "near", results[0].Segment.ID)
	assert.Equal(t, "far", results[1].Segment.ID)
	assert.Greater(t, results[0].Score, results[1].Score)
}

func TestSearch_TiesBreakByInsertionOrder(t *testing.T) {
	s := NewStorage()
	require.NoError(t, s.Init(2))
	require.NoError(t, s.Upsert(
		[]domain.Segment{seg("first"), seg("second"), seg("third")},
		[][]float64{{1, 0}, {1, 0}, {1, 0}},
	))

	results, err := s.Search([]float64{1, 0}, 3)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "first", results[0].Segment.ID)
	assert.Equal(t, "second", results[1].Segment.ID)
	assert.Equal(t, "third", results[2].Segment.ID)
}

func TestUpsert_DimensionMismatch(t *testing.T) {
	s := NewStorage()
	require.NoError(t, s.Init(3))

	err := s.Upsert([]domain.Segment{seg("a")}, [][]float64{{1, 0}})
	assert.Error(t, err)
	assert.Equal(t, 0, s.Count())
}

func TestUpsert_LengthMismatch(t *testing.T) {
	s := NewStorage()
	require.NoError(t, s.Init(2))

	err := s.Upsert([]domain.Segment{seg("a"), seg("b")}, [][]float64{{1, 0}})
	assert.Error(t, err)
}

func TestInit_InvalidDimension(t *testing.T) {
	s := NewStorage()
	assert.Error(t, s.Init(0))
	assert.Error(t, s.Init(-1))
}

func TestInit_ResetsEntries(t *testing.T) {
	s := NewStorage()
	require.NoError(t, s.Init(2))
	require.NoError(t, s.Upsert([]domain.Segment{seg("a")}, [][]float64{{1, 0}}))
	require.Equal(t, 1, s.Count())

	require.NoError(t, s.Init(2))
	assert.Equal(t, 0, s.Count())
}

func TestClear(t *testing.T) {
	s := NewStorage()
	require.NoError(t, s.Init(2))
	require.NoError(t, s.Upsert([]domain.Segment{seg("a")}, [][]float64{{1, 0}}))

	require.NoError(t, s.Clear())
	assert.Equal(t, 0, s.Count())
	_, err := s.Search([]float64{1, 0}, 1)
	assert.ErrorIs(t, err, domain.ErrEmptyIndex)
}

func TestSnapshot_Roundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store", "index.json")

	s := NewStorage()
	require.NoError(t, s.Init(2))
	require.NoError(t, s.Upsert(
		[]domain.Segment{seg("a"), seg("b")},
		[][]float64{{1, 0}, {0, 1}},
	))
	require.NoError(t, s.SaveSnapshot(path))

	restored := NewStorage()
	require.NoError(t, restored.LoadSnapshot(path))
	assert.Equal(t, 2, restored.Count())

	results, err := restored.Search([]float64{1, 0}, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "a", results[0].Segment.ID)
	assert.Equal(t, "doc.pdf", results[0].Segment.FileName)
}

func TestLoadSnapshot_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	s := NewStorage()
	assert.Error(t, s.LoadSnapshot(path))
}
