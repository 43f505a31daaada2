package citation

import (
	"sort"
	"strings"

	"docqa/internal/domain"
	"docqa/internal/textutil"
)

const (
	// minTokenLen filters noise words out of relevance scoring.
	minTokenLen = 3
	// minRelevance drops citations that barely touch the answer.
	minRelevance = 0.3
	// maxCitations caps the citations shown per answer.
	maxCitations = 5
	// maxExcerptSentences caps the supporting excerpt length.
	maxExcerptSentences = 3
)

// Build ranks the retrieved segments by how much they support the generated
// answer and returns them as citations. Segments scoring below the relevance
// floor are dropped; at most maxCitations survive.
func Build(results []domain.SearchResult, query, answer string) []domain.Citation {
	citations := make([]domain.Citation, 0, len(results))
	for _, r := range results {
		citations = append(citations, domain.Citation{
			FileName:  r.Segment.FileName,
			Page:      r.Segment.Page,
			SegmentID: r.Segment.ID,
			Relevance: Relevance(r.Segment.Text, query, answer),
			Excerpt:   Excerpt(r.Segment.Text, query, answer),
		})
	}
	sort.SliceStable(citations, func(i, j int) bool {
		return citations[i].Relevance > citations[j].Relevance
	})
	kept := citations[:0]
	for _, c := range citations {
		if c.Relevance > minRelevance {
			kept = append(kept, c)
		}
	}
	if len(kept) > maxCitations {
		kept = kept[:maxCitations]
	}
	return kept
}

// Relevance scores how well content supports the answer to query.
// Answer overlap dominates query overlap; exact query words found in the
// content add a small bonus. Scores are capped at 1.0.
func Relevance(content, query, answer string) float64 {
	queryWords := textutil.ContentTokenSet(query, minTokenLen)
	answerWords := textutil.ContentTokenSet(answer, minTokenLen)
	contentWords := textutil.ContentTokenSet(content, minTokenLen)

	queryOverlap := overlapRatio(queryWords, contentWords)
	answerOverlap := overlapRatio(answerWords, contentWords)
	score := queryOverlap*0.3 + answerOverlap*0.7

	contentLower := strings.ToLower(content)
	for w := range queryWords {
		if len(w) > minTokenLen && strings.Contains(contentLower, w) {
			score += 0.1
		}
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}

// Excerpt picks the sentences of content that best support the answer,
// keeping them in relevance order. Falls back to the leading sentences, then
// to a flat truncation for unstructured content.
func Excerpt(content, query, answer string) string {
	sentences := textutil.Sentences(content)
	usable := sentences[:0]
	for _, s := range sentences {
		if len(s) > 10 {
			usable = append(usable, s)
		}
	}
	if len(usable) == 0 {
		if len(content) > 200 {
			return content[:200] + "..."
		}
		return content
	}

	important := textutil.ContentTokenSet(query, minTokenLen)
	for w := range textutil.ContentTokenSet(answer, minTokenLen) {
		important[w] = struct{}{}
	}

	type scored struct {
		sentence string
		score    int
	}
	var ranked []scored
	for _, s := range usable {
		n := 0
		for w := range textutil.ContentTokenSet(s, minTokenLen) {
			if _, ok := important[w]; ok {
				n++
			}
		}
		if n > 0 {
			ranked = append(ranked, scored{s, n})
		}
	}
	if len(ranked) == 0 {
		if len(usable) >= 2 {
			return usable[0] + " " + usable[1]
		}
		return usable[0]
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })
	if len(ranked) > maxExcerptSentences {
		ranked = ranked[:maxExcerptSentences]
	}
	parts := make([]string, len(ranked))
	for i, r := range ranked {
		parts[i] = r.sentence
	}
	return strings.Join(parts, " ")
}

func overlapRatio(a, b map[string]struct{}) float64 {
	if len(a) == 0 {
		return 0
	}
	inter := 0
	for w := range a {
		if _, ok := b[w]; ok {
			inter++
		}
	}
	return float64(inter) / float64(len(a))
}
