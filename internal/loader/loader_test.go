package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docqa/internal/domain"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_MissingFile(t *testing.T) {
	l := New()
	_, err := l.Load("/nonexistent/file.pdf")
	assert.ErrorIs(t, err, domain.ErrUnreadableDocument)
}

func TestLoad_UnsupportedExtension(t *testing.T) {
	l := New()
	path := writeTemp(t, "data.csv", "a,b,c")
	_, err := l.Load(path)
	assert.ErrorIs(t, err, domain.ErrUnreadableDocument)
	assert.Contains(t, err.Error(), ".csv")
}

func TestLoad_CorruptPDF(t *testing.T) {
	l := New()
	path := writeTemp(t, "broken.pdf", "this is not a pdf at all")
	_, err := l.Load(path)
	assert.ErrorIs(t, err, domain.ErrUnreadableDocument)
}

func TestLoad_PlainText(t *testing.T) {
	l := New()
	path := writeTemp(t, "notes.txt", "The reset button is on the back.\n")

	doc, err := l.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "notes.txt", doc.Name)
	assert.Equal(t, path, doc.Path)
	assert.NotEmpty(t, doc.ID)
	require.Len(t, doc.Pages, 1)
	assert.Equal(t, 1, doc.Pages[0].Number)
	assert.Equal(t, "The reset button is on the back.", doc.Pages[0].Text)
}

func TestLoad_Markdown(t *testing.T) {
	l := New()
	path := writeTemp(t, "readme.md", "# Setup\n\nPlug it in first.")

	doc, err := l.Load(path)
	require.NoError(t, err)
	require.Len(t, doc.Pages, 1)
	assert.Contains(t, doc.Pages[0].Text, "Plug it in first.")
}

func TestLoad_EmptyTextFile(t *testing.T) {
	l := New()
	path := writeTemp(t, "empty.txt", "   \n\t\n")
	_, err := l.Load(path)
	assert.ErrorIs(t, err, domain.ErrUnreadableDocument)
}

func TestLoad_SizeCap(t *testing.T) {
	l := &FileLoader{maxSize: 16}
	path := writeTemp(t, "big.txt", "this file is larger than sixteen bytes")
	_, err := l.Load(path)
	assert.ErrorIs(t, err, domain.ErrUnreadableDocument)
	assert.Contains(t, err.Error(), "exceeds")
}

func TestLoad_StableDocumentID(t *testing.T) {
	l := New()
	path := writeTemp(t, "notes.txt", "stable content")

	first, err := l.Load(path)
	require.NoError(t, err)
	second, err := l.Load(path)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}
