package llm

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/lakkakula-saidev/smartdocs-ai/internal/common"
	"github.com/lakkakula-saidev/smartdocs-ai/internal/interfaces"
)

// NewProviders creates the generation and embedding services from
// configuration. Both providers are required; a missing API key fails
// startup rather than surfacing on the first request.
func NewProviders(ctx context.Context, cfg *common.Config, logger arbor.ILogger) (interfaces.GenerationService, interfaces.EmbeddingService, error) {
	logger.Info().
		Str("generation_model", cfg.Claude.Model).
		Str("embed_model", cfg.Gemini.EmbedModel).
		Msg("Initializing AI providers")

	generation, err := NewClaudeService(&cfg.Claude, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create generation service: %w", err)
	}

	embedding, err := NewGeminiService(ctx, &cfg.Gemini, logger)
	if err != nil {
		generation.Close()
		return nil, nil, fmt.Errorf("failed to create embedding service: %w", err)
	}

	return generation, embedding, nil
}
