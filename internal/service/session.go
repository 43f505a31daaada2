package service

import (
	"fmt"
	"path/filepath"

	"docqa/internal/citation"
	"docqa/internal/domain"
	"docqa/internal/logger"
	"docqa/internal/retriever"
)

// State is the lifecycle position of a session.
type State int

const (
	// StateEmpty means no documents have been loaded.
	StateEmpty State = iota
	// StateDocumentsLoaded means documents are loaded but not indexed.
	StateDocumentsLoaded
	// StateIndexed means the index was just built; transient within BuildIndex.
	StateIndexed
	// StateReady means questions can be asked.
	StateReady
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateDocumentsLoaded:
		return "documents loaded"
	case StateIndexed:
		return "indexed"
	case StateReady:
		return "ready"
	default:
		return "unknown"
	}
}

// LoadReport records the outcome of one AddDocuments batch. A failed file
// never aborts the batch; it is reported here instead.
type LoadReport struct {
	Loaded []string
	Failed map[string]error
}

// Stats summarizes the session contents for display.
type Stats struct {
	Documents int
	Segments  int
	IndexSize int
}

// Session owns one user's documents, index and conversation. It sequences
// upload -> load -> chunk -> embed -> index, then question -> retrieve ->
// generate. Not safe for concurrent use; one session serves one user.
type Session struct {
	loader    domain.Loader
	chunker   domain.Chunker
	embedder  domain.Embedder
	store     domain.VectorStore
	generator domain.Generator
	topK      int

	state     State
	documents []domain.Document
	segments  []domain.Segment
	history   []domain.Exchange
}

// NewSession assembles a session from its collaborators. topK <= 0 lets the
// retriever pick an adaptive count per question.
func NewSession(loader domain.Loader, chunker domain.Chunker, embedder domain.Embedder, store domain.VectorStore, generator domain.Generator, topK int) *Session {
	return &Session{
		loader:    loader,
		chunker:   chunker,
		embedder:  embedder,
		store:     store,
		generator: generator,
		topK:      topK,
		state:     StateEmpty,
	}
}

// State returns the current lifecycle state.
func (s *Session) State() State { return s.state }

// AddDocuments loads the given paths (glob patterns allowed) into the
// session. Unreadable files are reported per path without aborting the
// batch; paths already loaded are skipped. If at least one document was
// loaded the session moves to StateDocumentsLoaded, requiring a BuildIndex
// before further questions. With nothing loaded and nothing already present
// it fails with domain.ErrNoDocuments.
func (s *Session) AddDocuments(paths []string) (LoadReport, error) {
	report := LoadReport{Failed: make(map[string]error)}
	for _, p := range paths {
		matches, _ := filepath.Glob(p)
		if matches == nil {
			matches = []string{p}
		}
		for _, m := range matches {
			if s.hasDocument(m) {
				logger.Info("skipping already loaded document %s", m)
				continue
			}
			doc, err := s.loader.Load(m)
			if err != nil {
				logger.Error("failed to load %s: %v", m, err)
				report.Failed[m] = err
				continue
			}
			s.documents = append(s.documents, doc)
			report.Loaded = append(report.Loaded, m)
		}
	}
	if len(report.Loaded) > 0 {
		s.state = StateDocumentsLoaded
	} else if len(s.documents) == 0 {
		return report, domain.ErrNoDocuments
	}
	return report, nil
}

// BuildIndex chunks all loaded documents, embeds every segment and rebuilds
// the vector index from scratch. On success the session becomes StateReady;
// on failure the loaded documents and the previous state are kept intact.
func (s *Session) BuildIndex() error {
	if len(s.documents) == 0 {
		return domain.ErrNoDocuments
	}

	var segments []domain.Segment
	var corpus []string
	for _, d := range s.documents {
		segs, err := s.chunker.Chunk(d)
		if err != nil {
			return fmt.Errorf("chunking %s: %w", d.Name, err)
		}
		segments = append(segments, segs...)
		for _, seg := range segs {
			corpus = append(corpus, seg.Text)
		}
	}
	if len(segments) == 0 {
		return fmt.Errorf("%w: documents contain no indexable text", domain.ErrNoDocuments)
	}

	if err := s.embedder.Prepare(corpus); err != nil {
		return fmt.Errorf("preparing embedder: %w", err)
	}
	vectors := make([][]float64, len(segments))
	for i := range segments {
		vec, err := s.embedder.Embed(segments[i].Text)
		if err != nil {
			return fmt.Errorf("embedding segment %s: %w", segments[i].ID, err)
		}
		vectors[i] = vec
	}
	// Remote embedders only report their dimension after the first call.
	dimension := s.embedder.Dimension()
	if dimension == 0 && len(vectors) > 0 {
		dimension = len(vectors[0])
	}

	if err := s.store.Clear(); err != nil {
		return fmt.Errorf("clearing index: %w", err)
	}
	if err := s.store.Init(dimension); err != nil {
		return fmt.Errorf("initializing index: %w", err)
	}
	if err := s.store.Upsert(segments, vectors); err != nil {
		return fmt.Errorf("indexing segments: %w", err)
	}
	s.segments = segments
	s.state = StateIndexed
	logger.Info("indexed %d segments from %d documents", len(segments), len(s.documents))

	s.state = StateReady
	return nil
}

// Ask answers a question from the indexed documents. It requires StateReady
// and does not change state; the exchange is appended to the history.
func (s *Session) Ask(question string) (domain.Answer, error) {
	if s.state != StateReady {
		return domain.Answer{}, domain.ErrNotReady
	}
	r := retriever.New(s.embedder, s.store)
	results, query, err := r.Retrieve(question, s.topK)
	if err != nil {
		return domain.Answer{}, err
	}
	text, err := s.generator.Generate(question, results)
	if err != nil {
		return domain.Answer{}, fmt.Errorf("%w: %v", domain.ErrGeneration, err)
	}
	answer := domain.Answer{
		Text:           text,
		Citations:      citation.Build(results, query, text),
		RetrievalCount: len(results),
		ProcessedQuery: query,
	}
	s.history = append(s.history, domain.Exchange{Question: question, Answer: answer})
	return answer, nil
}

// Stats reports document, segment and index entry counts.
func (s *Session) Stats() Stats {
	return Stats{
		Documents: len(s.documents),
		Segments:  len(s.segments),
		IndexSize: s.store.Count(),
	}
}

// History returns the conversation so far, oldest first.
func (s *Session) History() []domain.Exchange {
	return s.history
}

// Clear drops all documents, the index and the history, returning the
// session to StateEmpty.
func (s *Session) Clear() error {
	if err := s.store.Clear(); err != nil {
		return err
	}
	s.documents = nil
	s.segments = nil
	s.history = nil
	s.state = StateEmpty
	return nil
}

func (s *Session) hasDocument(path string) bool {
	for _, d := range s.documents {
		if d.Path == path {
			return true
		}
	}
	return false
}
