package domain

// Document represents a single source file loaded into the session.
type Document struct {
	ID    string
	Name  string
	Path  string
	Pages []Page
}

// Page is one page of extracted text, numbered from 1.
type Page struct {
	Number int
	Text   string
}

// Segment is the unit of retrieval: a span of page text with provenance
// back to its source document and page. Immutable after creation.
type Segment struct {
	ID         string
	DocumentID string
	FileName   string
	Page       int
	Index      int
	Text       string
}

// SearchResult is a retrieved segment with its similarity score.
type SearchResult struct {
	Segment Segment
	Score   float64
}

// Citation ties part of an answer back to a source segment.
type Citation struct {
	FileName  string
	Page      int
	SegmentID string
	Relevance float64
	Excerpt   string
}

// Answer is a generated answer with ranked citations.
type Answer struct {
	Text           string
	Citations      []Citation
	RetrievalCount int
	ProcessedQuery string
}

// Exchange is one question/answer pair in the conversation history.
type Exchange struct {
	Question string
	Answer   Answer
}
