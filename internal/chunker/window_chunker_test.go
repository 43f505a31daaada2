package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docqa/internal/domain"
)

func testDocument(pages ...string) domain.Document {
	doc := domain.Document{ID: "doc1", Name: "manual.pdf", Path: "/tmp/manual.pdf"}
	for i, text := range pages {
		doc.Pages = append(doc.Pages, domain.Page{Number: i + 1, Text: text})
	}
	return doc
}

func TestChunk_ShortPageYieldsSingleSegment(t *testing.T) {
	c := NewWindowChunker(50, 10)
	doc := testDocument("The reset button is on the back.")

	segments, err := c.Chunk(doc)
	require.NoError(t, err)
	require.Len(t, segments, 1)

	seg := segments[0]
	assert.Equal(t, "The reset button is on the back.", seg.Text)
	assert.Equal(t, "manual.pdf", seg.FileName)
	assert.Equal(t, 1, seg.Page)
	assert.Equal(t, 0, seg.Index)
	assert.Equal(t, "doc1:0", seg.ID)
}

func TestChunk_Deterministic(t *testing.T) {
	c := NewWindowChunker(80, 20)
	doc := testDocument(strings.Repeat("Some sentences about nothing in particular. ", 40))

	first, err := c.Chunk(doc)
	require.NoError(t, err)
	second, err := c.Chunk(doc)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestChunk_OverlapReconstruction(t *testing.T) {
	const overlap = 20
	c := NewWindowChunker(100, overlap)
	text := strings.TrimSpace(strings.Repeat("The quick brown fox jumps over the lazy dog. ", 50))
	doc := testDocument(text)

	segments, err := c.Chunk(doc)
	require.NoError(t, err)
	require.Greater(t, len(segments), 1)

	var b strings.Builder
	for i, seg := range segments {
		runes := []rune(seg.Text)
		if i == 0 {
			b.WriteString(seg.Text)
			continue
		}
		require.Greater(t, len(runes), overlap)
		b.WriteString(string(runes[overlap:]))
	}
	assert.Equal(t, text, b.String())
}

func TestChunk_TailShorterThanWindowIsKept(t *testing.T) {
	c := NewWindowChunker(100, 10)
	text := strings.Repeat("x", 230)
	doc := testDocument(text)

	segments, err := c.Chunk(doc)
	require.NoError(t, err)
	require.NotEmpty(t, segments)
	last := segments[len(segments)-1]
	assert.Less(t, len(last.Text), 100)
	assert.NotEmpty(t, last.Text)
}

func TestChunk_PreferredBreakAtSentenceBoundary(t *testing.T) {
	c := NewWindowChunker(60, 10)
	text := "First sentence here. Second sentence follows along. Third sentence closes the paragraph with more words."
	doc := testDocument(text)

	segments, err := c.Chunk(doc)
	require.NoError(t, err)
	require.Greater(t, len(segments), 1)
	// The first window of 60 runes covers both sentence ends; the break
	// should land after one of them rather than mid-word.
	assert.True(t, strings.HasSuffix(segments[0].Text, ". "), "got %q", segments[0].Text)
}

func TestChunk_PageProvenance(t *testing.T) {
	c := NewWindowChunker(500, 200)
	doc := testDocument("Page one text.", "Page two text.")

	segments, err := c.Chunk(doc)
	require.NoError(t, err)
	require.Len(t, segments, 2)
	assert.Equal(t, 1, segments[0].Page)
	assert.Equal(t, 2, segments[1].Page)
	// Indices stay continuous across pages.
	assert.Equal(t, 0, segments[0].Index)
	assert.Equal(t, 1, segments[1].Index)
}

func TestChunk_EmptyDocument(t *testing.T) {
	c := NewWindowChunker(500, 200)
	segments, err := c.Chunk(domain.Document{ID: "empty"})
	require.NoError(t, err)
	assert.Empty(t, segments)
}

func TestNewWindowChunker_Defaults(t *testing.T) {
	c := NewWindowChunker(0, -5)
	assert.Equal(t, 500, c.chunkSize)
	assert.Equal(t, 0, c.overlap)

	c = NewWindowChunker(100, 100)
	assert.Equal(t, 50, c.overlap)
}
