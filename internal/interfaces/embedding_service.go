package interfaces

import (
	"context"

	"github.com/lakkakula-saidev/smartdocs-ai/internal/models"
)

// EmbeddingService converts text into fixed-width numeric vectors.
// Implementations are stateless per invocation beyond the network call.
type EmbeddingService interface {
	// EmbedTexts generates embeddings for a batch of texts. Empty and
	// whitespace-only inputs are filtered out before the provider is
	// called; if nothing remains the result is empty and no network call
	// is made.
	EmbedTexts(ctx context.Context, texts []string) (*models.EmbeddingResult, error)

	// EmbedQuery generates a single embedding for a search query.
	EmbedQuery(ctx context.Context, query string) ([]float32, error)

	// CountTokens counts tokens in text. Falls back to a rough len/4
	// estimate when the precise tokenizer is unavailable.
	CountTokens(ctx context.Context, text string) int

	// Get model information
	ModelName() string
	Dimension() int

	// Close releases resources and performs cleanup operations.
	Close() error
}
