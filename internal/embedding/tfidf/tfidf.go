package tfidf

import (
	"errors"
	"math"
	"sort"

	"docqa/internal/textutil"
)

// Embedder is a local TF-IDF vectorizer. It builds its vocabulary from the
// segment corpus during Prepare, so vectors are only comparable within one
// prepared corpus. Used as the offline embedding mode.
type Embedder struct {
	vocabulary map[string]int
	idf        []float64
	dimension  int
	prepared   bool
}

// NewEmbedder creates an unprepared TF-IDF embedder.
func NewEmbedder() *Embedder {
	return &Embedder{vocabulary: make(map[string]int)}
}

// Name returns the identifier of this embedder implementation.
func (e *Embedder) Name() string { return "tfidf" }

// Dimension returns the vocabulary size after Prepare, 0 before.
func (e *Embedder) Dimension() int { return e.dimension }

// Prepare builds the vocabulary and smoothed IDF weights from the corpus.
func (e *Embedder) Prepare(corpus []string) error {
	if len(corpus) == 0 {
		return errors.New("empty corpus for tf-idf prepare")
	}
	df := make(map[string]int)
	for _, text := range corpus {
		for tok := range termSet(text) {
			df[tok]++
		}
	}
	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	if len(terms) == 0 {
		return errors.New("no tokens found in corpus")
	}
	// Sorted terms give a stable vocabulary ordering across runs.
	sort.Strings(terms)

	e.vocabulary = make(map[string]int, len(terms))
	e.idf = make([]float64, len(terms))
	n := float64(len(corpus))
	for i, term := range terms {
		e.vocabulary[term] = i
		e.idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1.0
	}
	e.dimension = len(terms)
	e.prepared = true
	return nil
}

// Embed computes the L2-normalized TF-IDF vector for text. Tokens outside
// the prepared vocabulary are ignored; a text with no known tokens embeds
// to the zero vector.
func (e *Embedder) Embed(text string) ([]float64, error) {
	if !e.prepared {
		return nil, errors.New("tf-idf embedder not prepared")
	}
	vec := make([]float64, e.dimension)
	tf := make(map[int]int)
	total := 0
	for _, tok := range textutil.Tokens(text) {
		if textutil.IsStopword(tok) {
			continue
		}
		if idx, ok := e.vocabulary[tok]; ok {
			tf[idx]++
			total++
		}
	}
	if total == 0 {
		return vec, nil
	}
	for idx, count := range tf {
		vec[idx] = float64(count) / float64(total) * e.idf[idx]
	}
	norm := 0.0
	for _, v := range vec {
		norm += v * v
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec, nil
}

func termSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range textutil.Tokens(text) {
		if textutil.IsStopword(tok) {
			continue
		}
		set[tok] = struct{}{}
	}
	return set
}
