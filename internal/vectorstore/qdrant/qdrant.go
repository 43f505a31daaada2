package qdrant

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"docqa/internal/domain"
)

// Storage is a minimal REST client to Qdrant. It uses cosine distance and
// creates the collection on Init if missing.
type Storage struct {
	url        string
	apiKey     string
	collection string
	dimension  int
	client     *http.Client

	mu    sync.Mutex
	count int
}

// Config contains connection details for a Qdrant instance.
type Config struct {
	URL        string
	APIKey     string
	Collection string
	Timeout    time.Duration
}

// NewStorage creates a Qdrant-backed store.
func NewStorage(cfg Config) *Storage {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Storage{
		url:        cfg.URL,
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
		client:     &http.Client{Timeout: timeout},
	}
}

// Init creates the collection with cosine distance if it does not exist.
func (s *Storage) Init(dimension int) error {
	if dimension <= 0 {
		return errors.New("invalid dimension")
	}
	s.dimension = dimension
	body := map[string]any{
		"vectors": map[string]any{
			"size":     dimension,
			"distance": "Cosine",
		},
	}
	if err := s.putJSON(fmt.Sprintf("%s/collections/%s", s.url, s.collection), body); err != nil {
		return err
	}
	s.mu.Lock()
	s.count = 0
	s.mu.Unlock()
	return nil
}

// Upsert inserts segment vectors with their provenance payload.
func (s *Storage) Upsert(segments []domain.Segment, vectors [][]float64) error {
	if len(segments) != len(vectors) {
		return errors.New("segments and vectors length mismatch")
	}
	points := make([]map[string]any, len(segments))
	for i, seg := range segments {
		points[i] = map[string]any{
			"id":     uuid.New().String(),
			"vector": vectors[i],
			"payload": map[string]any{
				"segment_id":  seg.ID,
				"document_id": seg.DocumentID,
				"file_name":   seg.FileName,
				"page":        seg.Page,
				"index":       seg.Index,
				"text":        seg.Text,
			},
		}
	}
	body := map[string]any{"points": points}
	if err := s.putJSON(fmt.Sprintf("%s/collections/%s/points?wait=true", s.url, s.collection), body); err != nil {
		return err
	}
	s.mu.Lock()
	s.count += len(segments)
	s.mu.Unlock()
	return nil
}

// Search returns the topK nearest points with their payloads.
func (s *Storage) Search(vector []float64, topK int) ([]domain.SearchResult, error) {
	if s.Count() == 0 {
		return nil, domain.ErrEmptyIndex
	}
	if topK <= 0 {
		topK = 5
	}
	req := map[string]any{
		"vector":       vector,
		"limit":        topK,
		"with_payload": true,
	}
	var resp struct {
		Result []struct {
			Score   float64        `json:"score"`
			Payload map[string]any `json:"payload"`
		} `json:"result"`
	}
	if err := s.postJSON(fmt.Sprintf("%s/collections/%s/points/search", s.url, s.collection), req, &resp); err != nil {
		return nil, err
	}
	results := make([]domain.SearchResult, 0, len(resp.Result))
	for _, r := range resp.Result {
		results = append(results, domain.SearchResult{Segment: segmentFromPayload(r.Payload), Score: r.Score})
	}
	return results, nil
}

// Count returns the number of points inserted since Init.
func (s *Storage) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

// Clear drops the collection. Best-effort; a rebuild recreates it.
func (s *Storage) Clear() error {
	req, _ := http.NewRequest(http.MethodDelete, fmt.Sprintf("%s/collections/%s", s.url, s.collection), nil)
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}
	_, _ = s.client.Do(req)
	s.mu.Lock()
	s.count = 0
	s.mu.Unlock()
	return nil
}

func segmentFromPayload(payload map[string]any) domain.Segment {
	seg := domain.Segment{}
	if v, ok := payload["segment_id"].(string); ok {
		seg.ID = v
	}
	if v, ok := payload["document_id"].(string); ok {
		seg.DocumentID = v
	}
	if v, ok := payload["file_name"].(string); ok {
		seg.FileName = v
	}
	if v, ok := payload["page"].(float64); ok {
		seg.Page = int(v)
	}
	if v, ok := payload["index"].(float64); ok {
		seg.Index = int(v)
	}
	if v, ok := payload["text"].(string); ok {
		seg.Text = v
	}
	return seg
}

func (s *Storage) putJSON(url string, body any) error {
	data, _ := json.Marshal(body)
	req, _ := http.NewRequest(http.MethodPut, url, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("qdrant PUT %s failed: %s", url, resp.Status)
	}
	return nil
}

func (s *Storage) postJSON(url string, body any, out any) error {
	data, _ := json.Marshal(body)
	req, _ := http.NewRequest(http.MethodPost, url, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("qdrant POST %s failed: %s", url, resp.Status)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
