package memory

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"docqa/internal/domain"
)

// Storage is an in-memory vector index using brute-force cosine similarity.
// Entries are append-only; equal scores rank by insertion order.
type Storage struct {
	mu        sync.RWMutex
	dimension int
	vectors   [][]float64
	segments  []domain.Segment
}

// NewStorage creates an empty in-memory store.
func NewStorage() *Storage { return &Storage{} }

// Init sets the vector dimension and drops any existing entries.
func (s *Storage) Init(dimension int) error {
	if dimension <= 0 {
		return errors.New("invalid dimension")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dimension = dimension
	s.vectors = nil
	s.segments = nil
	return nil
}

// Upsert appends segment/vector pairs. Vectors are not mutated after
// insertion.
func (s *Storage) Upsert(segments []domain.Segment, vectors [][]float64) error {
	if len(segments) != len(vectors) {
		return errors.New("segments and vectors length mismatch")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range vectors {
		if len(v) != s.dimension {
			return fmt.Errorf("vector dimension %d does not match index dimension %d", len(v), s.dimension)
		}
	}
	s.segments = append(s.segments, segments...)
	s.vectors = append(s.vectors, vectors...)
	return nil
}

// Search returns up to topK entries closest to vector by cosine similarity.
// Vectors are assumed L2-normalized, so the dot product is the score.
// Searching an empty index fails with domain.ErrEmptyIndex.
func (s *Storage) Search(vector []float64, topK int) ([]domain.SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.vectors) == 0 {
		return nil, domain.ErrEmptyIndex
	}
	if topK <= 0 {
		topK = 5
	}
	scores := make([]float64, len(s.vectors))
	for i := range s.vectors {
		scores[i] = dot(s.vectors[i], vector)
	}
	idxs := make([]int, len(scores))
	for i := range idxs {
		idxs[i] = i
	}
	// Stable sort keeps insertion order among equal scores.
	sort.SliceStable(idxs, func(a, b int) bool { return scores[idxs[a]] > scores[idxs[b]] })
	if topK > len(idxs) {
		topK = len(idxs)
	}
	results := make([]domain.SearchResult, 0, topK)
	for i := 0; i < topK; i++ {
		j := idxs[i]
		results = append(results, domain.SearchResult{Segment: s.segments[j], Score: scores[j]})
	}
	return results, nil
}

// Count returns the number of indexed entries.
func (s *Storage) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.vectors)
}

// Clear removes all entries but keeps the dimension.
func (s *Storage) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vectors = nil
	s.segments = nil
	return nil
}

type snapshot struct {
	Dimension int              `json:"dimension"`
	Segments  []domain.Segment `json:"segments"`
	Vectors   [][]float64      `json:"vectors"`
}

// SaveSnapshot writes the index contents to path as JSON. Nothing is saved
// implicitly; sessions persist only through an explicit call.
func (s *Storage) SaveSnapshot(path string) error {
	s.mu.RLock()
	snap := snapshot{Dimension: s.dimension, Segments: s.segments, Vectors: s.vectors}
	s.mu.RUnlock()

	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// LoadSnapshot replaces the index contents with a previously saved snapshot.
func (s *Storage) LoadSnapshot(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return err
	}
	if snap.Dimension <= 0 || len(snap.Segments) != len(snap.Vectors) {
		return errors.New("corrupt index snapshot")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dimension = snap.Dimension
	s.segments = snap.Segments
	s.vectors = snap.Vectors
	return nil
}

func dot(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
