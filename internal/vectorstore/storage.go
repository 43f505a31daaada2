package vectorstore

import "docqa/internal/domain"

// Storage persists segment vectors and supports similarity search.
type Storage interface {
	Init(dimension int) error
	Upsert(segments []domain.Segment, vectors [][]float64) error
	Search(vector []float64, topK int) ([]domain.SearchResult, error)
	Count() int
	Clear() error
}
