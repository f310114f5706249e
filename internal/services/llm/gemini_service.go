package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/lakkakula-saidev/smartdocs-ai/internal/common"
	"github.com/lakkakula-saidev/smartdocs-ai/internal/interfaces"
	"github.com/lakkakula-saidev/smartdocs-ai/internal/models"
)

// embedBatchSize is the maximum number of contents per EmbedContent call.
const embedBatchSize = 100

var _ interfaces.EmbeddingService = (*GeminiService)(nil)

// GeminiService implements the EmbeddingService interface using the Google
// Gemini API. Requests are rate limited to the configured requests-per-minute
// so bulk ingestion does not trip provider quotas.
type GeminiService struct {
	config  *common.GeminiConfig
	logger  arbor.ILogger
	client  *genai.Client
	limiter *rate.Limiter
	timeout time.Duration
}

// NewGeminiService creates a new Gemini embedding service instance.
func NewGeminiService(ctx context.Context, geminiConfig *common.GeminiConfig, logger arbor.ILogger) (*GeminiService, error) {
	if geminiConfig.APIKey == "" {
		return nil, &common.ConfigurationError{
			Code:    "missing_api_key",
			Message: "Gemini API key is required (set GEMINI_API_KEY or gemini.api_key in config)",
		}
	}

	if geminiConfig.EmbedModel == "" {
		geminiConfig.EmbedModel = "gemini-embedding-001"
	}

	timeout, err := time.ParseDuration(geminiConfig.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid timeout duration '%s': %w", geminiConfig.Timeout, err)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  geminiConfig.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize genai client: %w", err)
	}

	rpm := geminiConfig.RequestsPerMinute
	if rpm <= 0 {
		rpm = 60
	}
	limiter := rate.NewLimiter(rate.Limit(float64(rpm)/60.0), rpm)

	service := &GeminiService{
		config:  geminiConfig,
		logger:  logger,
		client:  client,
		limiter: limiter,
		timeout: timeout,
	}

	logger.Debug().
		Str("embed_model", geminiConfig.EmbedModel).
		Int("embed_dimension", geminiConfig.EmbedDimension).
		Int("requests_per_minute", rpm).
		Dur("timeout", timeout).
		Msg("Gemini embedding service initialized successfully")

	return service, nil
}

// EmbedTexts generates embeddings for a batch of texts. Empty and
// whitespace-only texts are dropped before sending; when nothing remains the
// call returns an empty result without touching the API. The returned
// embeddings are positionally aligned with the retained texts. Texts are sent
// in provider-sized batches; a failure in any batch fails the whole call.
func (s *GeminiService) EmbedTexts(ctx context.Context, texts []string) (*models.EmbeddingResult, error) {
	retained := make([]string, 0, len(texts))
	for _, text := range texts {
		if strings.TrimSpace(text) != "" {
			retained = append(retained, text)
		}
	}
	if len(retained) == 0 {
		return &models.EmbeddingResult{
			Embeddings: [][]float32{},
			Model:      s.config.EmbedModel,
		}, nil
	}
	texts = retained

	startTime := time.Now()
	embeddings := make([][]float32, 0, len(texts))

	for start := 0; start < len(texts); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(texts) {
			end = len(texts)
		}

		batch, err := s.embedBatch(ctx, texts[start:end])
		if err != nil {
			return nil, &common.AIServiceError{
				Code:      "embedding_failed",
				Model:     s.config.EmbedModel,
				TextCount: len(texts),
				Retryable: true,
				Err:       err,
			}
		}
		embeddings = append(embeddings, batch...)
	}

	// The count is informational; the estimate avoids one extra API round
	// trip per text during bulk ingestion.
	tokenCount := 0
	for _, text := range texts {
		tokenCount += estimateTokens(text)
	}

	s.logger.Debug().
		Int("text_count", len(texts)).
		Int("token_count", tokenCount).
		Dur("duration", time.Since(startTime)).
		Msg("Generated embeddings")

	return &models.EmbeddingResult{
		Embeddings: embeddings,
		TokenCount: tokenCount,
		Model:      s.config.EmbedModel,
	}, nil
}

// EmbedQuery generates a single embedding for a search query.
func (s *GeminiService) EmbedQuery(ctx context.Context, query string) ([]float32, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("query cannot be empty")
	}

	result, err := s.EmbedTexts(ctx, []string{query})
	if err != nil {
		return nil, err
	}
	return result.Embeddings[0], nil
}

// CountTokens returns the token count for text using the provider's
// tokenizer, falling back to a characters/4 estimate when the API call
// fails. The count is informational so the fallback is silent.
func (s *GeminiService) CountTokens(ctx context.Context, text string) int {
	if text == "" {
		return 0
	}

	resp, err := s.client.Models.CountTokens(ctx, s.config.EmbedModel,
		[]*genai.Content{genai.NewContentFromText(text, genai.RoleUser)}, nil)
	if err != nil || resp == nil {
		s.logger.Debug().Err(err).Msg("Token count API unavailable, using estimate")
		return estimateTokens(text)
	}

	return int(resp.TotalTokens)
}

// estimateTokens approximates the token count as characters/4, the usual
// rule of thumb for English prose.
func estimateTokens(text string) int {
	return len(text) / 4
}

// ModelName returns the configured embedding model identifier.
func (s *GeminiService) ModelName() string {
	return s.config.EmbedModel
}

// Dimension returns the configured output dimensionality.
func (s *GeminiService) Dimension() int {
	return s.config.EmbedDimension
}

// Close releases resources. The genai client requires no explicit cleanup.
func (s *GeminiService) Close() error {
	s.logger.Debug().Msg("Closing Gemini embedding service")
	s.client = nil
	return nil
}

func (s *GeminiService) embedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait cancelled: %w", err)
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	contents := make([]*genai.Content, 0, len(texts))
	for _, text := range texts {
		contents = append(contents, genai.NewContentFromText(text, genai.RoleUser))
	}

	outputDim := int32(s.config.EmbedDimension)
	embeddingConfig := &genai.EmbedContentConfig{
		OutputDimensionality: &outputDim,
	}

	result, err := s.client.Models.EmbedContent(timeoutCtx, s.config.EmbedModel, contents, embeddingConfig)
	if err != nil {
		return nil, fmt.Errorf("embedding generation failed: %w", err)
	}
	if result == nil || len(result.Embeddings) != len(texts) {
		got := 0
		if result != nil {
			got = len(result.Embeddings)
		}
		return nil, fmt.Errorf("embedding count mismatch: expected %d, got %d", len(texts), got)
	}

	embeddings := make([][]float32, 0, len(texts))
	for i, emb := range result.Embeddings {
		if emb == nil || len(emb.Values) == 0 {
			return nil, fmt.Errorf("no embedding returned for text %d", i)
		}
		if len(emb.Values) != s.config.EmbedDimension {
			return nil, fmt.Errorf("embedding dimension mismatch: expected %d, got %d", s.config.EmbedDimension, len(emb.Values))
		}
		embeddings = append(embeddings, emb.Values)
	}

	return embeddings, nil
}
