package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 500, cfg.Chunker.ChunkSize)
	assert.Equal(t, 200, cfg.Chunker.Overlap)
	assert.Equal(t, "tfidf", cfg.Embedder.Type)
	assert.Equal(t, "memory", cfg.VectorStore.Type)
	assert.Equal(t, "gemini", cfg.Generator.Type)
	assert.Equal(t, 0, cfg.Retrieval.TopK)
}

func TestLoad_ParsesAndFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
embedder:
  type: gemini
  gemini:
    model: text-embedding-004
vector_store:
  type: memory
  persist_path: /tmp/index.json
retrieval:
  top_k: 5
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "gemini", cfg.Embedder.Type)
	require.NotNil(t, cfg.Embedder.Gemini)
	assert.Equal(t, "text-embedding-004", cfg.Embedder.Gemini.Model)
	assert.Equal(t, "/tmp/index.json", cfg.VectorStore.PersistPath)
	assert.Equal(t, 5, cfg.Retrieval.TopK)
	// Unset sections still get defaults.
	assert.Equal(t, 500, cfg.Chunker.ChunkSize)
	assert.Equal(t, 200, cfg.Chunker.Overlap)
	assert.Equal(t, "gemini", cfg.Generator.Type)
}

func TestLoad_ChunkSizeWithoutOverlap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
chunker:
  chunk_size: 300
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 300, cfg.Chunker.ChunkSize)
	// Overlap defaults proportionally, not to zero.
	assert.Equal(t, 120, cfg.Chunker.Overlap)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("chunker: ["), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSave_Roundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "config.yaml")
	cfg := &AppConfig{
		Chunker:  ChunkerConfig{ChunkSize: 300, Overlap: 50},
		Embedder: EmbedderConfig{Type: "openai", OpenAI: &OpenAIEmbedderConfig{Model: "text-embedding-3-small"}},
		VectorStore: VectorStoreConfig{
			Type:   "qdrant",
			Qdrant: &QdrantConfig{URL: "http://localhost:6333", Collection: "docs"},
		},
		Generator: GeneratorConfig{Type: "openai"},
		Retrieval: RetrievalConfig{TopK: 7},
	}
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
