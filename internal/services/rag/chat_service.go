package rag

import (
	"context"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/ternarybob/arbor"

	"github.com/lakkakula-saidev/smartdocs-ai/internal/common"
	"github.com/lakkakula-saidev/smartdocs-ai/internal/interfaces"
	"github.com/lakkakula-saidev/smartdocs-ai/internal/models"
	"github.com/lakkakula-saidev/smartdocs-ai/internal/services/enhancer"
)

// Service implements the ChatService interface. It orchestrates the QA
// pipeline: request validation, retrieval, context assembly, generation and
// markdown enhancement.
type Service struct {
	config     *common.Config
	registry   interfaces.DocumentRegistry
	generation interfaces.GenerationService
	enhancer   *enhancer.Service
	selector   *strategySelector
	logger     arbor.ILogger

	statsMu           sync.Mutex
	totalQueries      int64
	totalResponseTime int64
	lastQueryAt       *time.Time
}

// NewService creates a new chat service.
func NewService(
	config *common.Config,
	registry interfaces.DocumentRegistry,
	generation interfaces.GenerationService,
	enhance *enhancer.Service,
	logger arbor.ILogger,
) interfaces.ChatService {
	return &Service{
		config:     config,
		registry:   registry,
		generation: generation,
		enhancer:   enhance,
		selector:   newStrategySelector(generation, logger),
		logger:     logger,
	}
}

// Ask answers a question about one document. An empty document ID targets
// the most recently uploaded document. Questions that retrieval cannot
// ground get a fixed "no relevant information" answer instead of a model
// call.
func (s *Service) Ask(ctx context.Context, req *models.AskRequest) (*models.AskResponse, error) {
	startTime := time.Now()

	if err := validateRequest(req); err != nil {
		return nil, err
	}

	query := strings.TrimSpace(req.Query)

	s.logger.Info().
		Str("document_id", req.DocumentID).
		Int("query_length", len(query)).
		Msg("Processing chat question")

	retriever, err := s.registry.Retriever(ctx, req.DocumentID, s.config.Retrieval.K)
	if err != nil {
		return nil, err
	}
	documentID := retriever.DocumentID()

	chunks, err := retriever.Retrieve(ctx, query)
	if err != nil {
		return nil, err
	}

	answer := ""
	docContext := buildContext(chunks, s.config.Retrieval.MaxContextChars)
	if strings.TrimSpace(docContext) == "" {
		answer = noAnswerMessage
	} else {
		raw, err := s.selector.generate(ctx, query, docContext)
		if err != nil {
			s.logger.Error().
				Err(err).
				Str("document_id", documentID).
				Msg("Answer generation failed")
			return nil, err
		}
		answer = s.enhancer.Enhance(strings.TrimSpace(raw))
	}

	processingTime := time.Since(startTime).Milliseconds()
	s.recordQuery(processingTime)

	s.logger.Info().
		Str("document_id", documentID).
		Int64("processing_time_ms", processingTime).
		Int("response_length", len(answer)).
		Int("source_chunks", len(chunks)).
		Msg("Chat question processed successfully")

	return &models.AskResponse{
		Answer:            answer,
		DocumentID:        documentID,
		ProcessingTimeMs:  processingTime,
		SourceChunksCount: len(chunks),
	}, nil
}

// Stats returns aggregate question-answering activity for this process.
func (s *Service) Stats() *models.SessionStats {
	s.statsMu.Lock()
	defer s.statsMu.Unlock()

	avg := 0.0
	if s.totalQueries > 0 {
		avg = float64(s.totalResponseTime) / float64(s.totalQueries)
	}

	return &models.SessionStats{
		TotalQueries:          s.totalQueries,
		AverageResponseTimeMs: avg,
		LastQueryAt:           s.lastQueryAt,
	}
}

// HealthCheck verifies the generation provider is reachable.
func (s *Service) HealthCheck(ctx context.Context) error {
	return s.generation.HealthCheck(ctx)
}

func (s *Service) recordQuery(processingTimeMs int64) {
	now := time.Now().UTC()

	s.statsMu.Lock()
	s.totalQueries++
	s.totalResponseTime += processingTimeMs
	s.lastQueryAt = &now
	s.statsMu.Unlock()
}

// validateRequest enforces the query rules: non-empty after trimming, at
// least 3 characters (runes, not bytes), and a well-formed document ID when
// one is given.
func validateRequest(req *models.AskRequest) error {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return &common.ValidationError{
			Code:    "empty_query",
			Message: "query cannot be empty or only whitespace",
		}
	}
	if utf8.RuneCountInString(query) < 3 {
		return &common.ValidationError{
			Code:    "query_too_short",
			Message: "query must be at least 3 characters long",
		}
	}
	if req.DocumentID != "" && !common.IsDocumentID(req.DocumentID) {
		return &common.ValidationError{
			Code:    "invalid_document_id",
			Message: "invalid document ID format",
		}
	}
	return nil
}
