package retriever

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"docqa/internal/domain"
)

var punctRe = regexp.MustCompile(`[^\p{L}\p{N}\s]`)

const (
	// minSimilarity drops weakly matching segments before prompt assembly.
	minSimilarity = 0.6
	// fallbackResults keeps the best few segments when nothing clears the bar.
	fallbackResults = 3
)

// Retriever embeds a question and looks up the nearest segments.
type Retriever struct {
	embedder domain.Embedder
	store    domain.VectorStore
}

// New creates a retriever over the given embedder and store.
func New(embedder domain.Embedder, store domain.VectorStore) *Retriever {
	return &Retriever{embedder: embedder, store: store}
}

// Retrieve returns the topK segments nearest to the question, along with the
// preprocessed query used for embedding. topK <= 0 picks an adaptive count
// from the question length. Results below the similarity floor are dropped,
// keeping the best few when nothing clears it. Embedding and search failures
// wrap domain.ErrRetrieval, as does a question that embeds to the zero
// vector; an unbuilt index surfaces domain.ErrEmptyIndex as is.
func (r *Retriever) Retrieve(question string, topK int) ([]domain.SearchResult, string, error) {
	query := PreprocessQuery(question)
	if topK <= 0 {
		topK = OptimalTopK(question)
	}
	vec, err := r.embedder.Embed(query)
	if err != nil {
		return nil, query, fmt.Errorf("%w: %v", domain.ErrRetrieval, err)
	}
	if isZero(vec) {
		return nil, query, fmt.Errorf("%w: question shares no terms with the indexed documents", domain.ErrRetrieval)
	}
	results, err := r.store.Search(vec, topK)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyIndex) {
			return nil, query, err
		}
		return nil, query, fmt.Errorf("%w: %v", domain.ErrRetrieval, err)
	}
	return filterRelevant(results), query, nil
}

// filterRelevant keeps results at or above the similarity floor. When none
// qualify the best fallbackResults survive, so the answer still has context.
func filterRelevant(results []domain.SearchResult) []domain.SearchResult {
	kept := make([]domain.SearchResult, 0, len(results))
	for _, res := range results {
		if res.Score >= minSimilarity {
			kept = append(kept, res)
		}
	}
	if len(kept) > 0 {
		return kept
	}
	if len(results) > fallbackResults {
		results = results[:fallbackResults]
	}
	return results
}

func isZero(vec []float64) bool {
	for _, v := range vec {
		if v != 0 {
			return false
		}
	}
	return true
}

// Query stopwords; shorter than the indexing stopword list on purpose.
// Only listed words of three runes or fewer drop, so "with" and other
// longer function words still anchor the query.
var queryStopwords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {}, "in": {},
	"on": {}, "at": {}, "to": {}, "for": {}, "of": {}, "with": {}, "by": {},
}

// PreprocessQuery lowercases the question, strips punctuation and drops
// short stopwords. If filtering removes too much of the question, the
// lowercased original is used instead.
func PreprocessQuery(question string) string {
	original := strings.TrimSpace(question)
	query := strings.ToLower(original)
	query = punctRe.ReplaceAllString(query, " ")
	query = strings.Join(strings.Fields(query), " ")

	var kept []string
	for _, w := range strings.Fields(query) {
		if _, stop := queryStopwords[w]; stop && len(w) <= 3 {
			continue
		}
		kept = append(kept, w)
	}
	processed := strings.Join(kept, " ")
	if len(processed) < len(original)*3/10 {
		return strings.ToLower(original)
	}
	return processed
}

// OptimalTopK scales the retrieval count with question length: short
// questions need fewer segments, long ones more context.
func OptimalTopK(question string) int {
	switch words := len(strings.Fields(question)); {
	case words <= 3:
		return 3
	case words <= 8:
		return 5
	default:
		return 7
	}
}
