package rag

import (
	"fmt"
	"strings"

	"github.com/lakkakula-saidev/smartdocs-ai/internal/models"
)

// noAnswerMessage is returned without calling the model when retrieval
// produces no usable context.
const noAnswerMessage = "I couldn't find relevant information in the document to answer your question."

// buildContext assembles the prompt context from retrieved chunks, best
// first. Chunks are included whole; the first chunk that would push the
// running total past maxContextChars stops assembly.
func buildContext(chunks []models.ScoredChunk, maxContextChars int) string {
	if len(chunks) == 0 {
		return ""
	}

	var parts []string
	totalChars := 0

	for i, chunk := range chunks {
		content := strings.TrimSpace(chunk.Content)
		if content == "" {
			continue
		}
		if totalChars+len(content) > maxContextChars {
			break
		}

		separator := fmt.Sprintf("\n\n--- Document Section %d ---\n", i+1)
		parts = append(parts, separator+content)
		totalChars += len(separator) + len(content)
	}

	return strings.Join(parts, "\n")
}
