package textutil

import (
	"regexp"
	"strings"
)

var (
	wordRe     = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`)
	sentenceRe = regexp.MustCompile(`(?m)(?U)([^.!?]+[.!?])`)
)

// Tokens returns the lowercased word tokens of s.
func Tokens(s string) []string {
	return wordRe.FindAllString(strings.ToLower(s), -1)
}

// TokenSet returns the distinct lowercased word tokens of s.
func TokenSet(s string) map[string]struct{} {
	tokens := Tokens(s)
	m := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		m[t] = struct{}{}
	}
	return m
}

// ContentTokenSet returns distinct tokens of at least minLen runes,
// the token shape used for citation relevance scoring.
func ContentTokenSet(s string, minLen int) map[string]struct{} {
	m := make(map[string]struct{})
	for _, t := range Tokens(s) {
		if len([]rune(t)) >= minLen {
			m[t] = struct{}{}
		}
	}
	return m
}

// Sentences splits s into trimmed sentences ending in . ! or ?.
// Text without terminal punctuation comes back as a single sentence.
func Sentences(s string) []string {
	raw := sentenceRe.FindAllString(s, -1)
	if len(raw) == 0 {
		trimmed := strings.TrimSpace(s)
		if trimmed == "" {
			return nil
		}
		return []string{trimmed}
	}
	out := make([]string, 0, len(raw))
	for _, sent := range raw {
		if t := strings.TrimSpace(sent); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// IsStopword reports whether the lowercased token is an English stopword.
func IsStopword(tok string) bool {
	_, ok := stopwords[tok]
	return ok
}

var stopwords = func() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for", "to", "of", "in", "on", "at", "by", "with", "as", "is", "are", "was", "were", "be", "been", "being", "it", "this", "that", "these", "those", "from", "up", "down", "over", "under", "again", "further", "than", "so", "such", "into", "about", "between", "through", "during", "before", "after", "above", "below", "out", "off", "own", "same", "too", "very", "can", "will", "just", "don", "should", "now",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}()
