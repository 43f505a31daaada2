package domain

// Loader extracts page-level text from a document file.
type Loader interface {
	Load(path string) (Document, error)
}

// Chunker splits documents into segments suitable for retrieval indexing.
type Chunker interface {
	Chunk(document Document) ([]Segment, error)
}

// Embedder converts free text into a numeric vector representation.
// Implementations may require a preparation phase over the corpus.
type Embedder interface {
	Name() string
	Prepare(corpus []string) error
	Dimension() int
	Embed(text string) ([]float64, error)
}

// VectorStore persists vectors and supports similarity search.
type VectorStore interface {
	Init(dimension int) error
	Upsert(segments []Segment, vectors [][]float64) error
	Search(vector []float64, topK int) ([]SearchResult, error)
	Count() int
	Clear() error
}

// Generator produces an answer to a question from retrieved context.
type Generator interface {
	Generate(question string, context []SearchResult) (string, error)
}
