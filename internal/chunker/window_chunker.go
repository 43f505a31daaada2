package chunker

import (
	"strconv"

	"docqa/internal/domain"
)

// Break preference, strongest separator first.
var separators = []string{"\n\n", "\n", ". ", "! ", "? ", "; ", " "}

// WindowChunker splits page text into overlapping fixed-size character
// windows, preferring to break at paragraph and sentence boundaries.
// Segmentation is deterministic for a given input and configuration.
type WindowChunker struct {
	chunkSize int
	overlap   int
}

// NewWindowChunker creates a chunker with the given window size and overlap,
// both measured in runes.
func NewWindowChunker(chunkSize, overlap int) *WindowChunker {
	if chunkSize <= 0 {
		chunkSize = 500
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= chunkSize {
		overlap = chunkSize / 2
	}
	return &WindowChunker{chunkSize: chunkSize, overlap: overlap}
}

// Chunk splits every page of the document into segments. Segment indices are
// continuous across pages; each segment keeps its source page for citation.
func (c *WindowChunker) Chunk(document domain.Document) ([]domain.Segment, error) {
	var segments []domain.Segment
	idx := 0
	for _, page := range document.Pages {
		for _, text := range c.split(page.Text) {
			segments = append(segments, domain.Segment{
				ID:         document.ID + ":" + strconv.Itoa(idx),
				DocumentID: document.ID,
				FileName:   document.Name,
				Page:       page.Number,
				Index:      idx,
				Text:       text,
			})
			idx++
		}
	}
	return segments, nil
}

// split produces windows so that each window after the first begins with the
// last overlap runes of its predecessor. Tail windows shorter than the
// target size are kept rather than dropped.
func (c *WindowChunker) split(text string) []string {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}
	if len(runes) <= c.chunkSize {
		return []string{string(runes)}
	}
	var out []string
	start := 0
	for {
		end := start + c.chunkSize
		if end >= len(runes) {
			out = append(out, string(runes[start:]))
			break
		}
		end = c.breakPoint(runes, start, end)
		out = append(out, string(runes[start:end]))
		start = end - c.overlap
	}
	return out
}

// breakPoint pulls end back to the nearest separator boundary inside the
// window. It never moves below the point that guarantees forward progress
// of the sliding start.
func (c *WindowChunker) breakPoint(runes []rune, start, end int) int {
	low := start + c.chunkSize/2
	if low <= start+c.overlap {
		low = start + c.overlap + 1
	}
	for _, sep := range separators {
		s := []rune(sep)
		for i := end - len(s); i >= low; i-- {
			if matchAt(runes, i, s) {
				return i + len(s)
			}
		}
	}
	return end
}

func matchAt(runes []rune, pos int, sep []rune) bool {
	if pos < 0 || pos+len(sep) > len(runes) {
		return false
	}
	for j := range sep {
		if runes[pos+j] != sep[j] {
			return false
		}
	}
	return true
}
