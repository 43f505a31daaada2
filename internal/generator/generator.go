package generator

import (
	"fmt"
	"strings"

	"docqa/internal/domain"
)

// Generator produces an answer to a question from retrieved context.
type Generator interface {
	Generate(question string, context []domain.SearchResult) (string, error)
}

// BuildPrompt assembles the grounding prompt sent to the hosted model. The
// instructions keep citations out of the answer body; citation ranking is
// done locally from the retrieved segments.
func BuildPrompt(question string, context []domain.SearchResult) string {
	var ctx strings.Builder
	for i, r := range context {
		if i > 0 {
			ctx.WriteString("\n\n---\n\n")
		}
		ctx.WriteString(r.Segment.Text)
	}
	return fmt.Sprintf(`You are a helpful AI assistant that answers questions based on the provided context from PDF documents.

Context information:
%s

Question: %s

Instructions:
1. Answer the question based ONLY on the provided context
2. If the context doesn't contain enough information to answer the question, say "I don't have enough information to answer this question based on the provided documents."
3. DO NOT include any citations, source references, document names, or page numbers in your answer
4. Provide a clean, direct answer without mentioning where the information came from
5. Be accurate and concise in your responses
6. If you're unsure about something, acknowledge the uncertainty
7. Focus on the most relevant information from the context
8. If multiple sources provide conflicting information, mention this but do not cite the specific sources

Answer:`, ctx.String(), question)
}
