package rag

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/lakkakula-saidev/smartdocs-ai/internal/interfaces"
)

const systemPrompt = "You are a helpful assistant that answers questions based on provided document context. " +
	"Use the following guidelines:\n" +
	"- Answer based only on the provided context\n" +
	"- If the answer is not in the context, say you don't know\n" +
	"- Be concise but comprehensive\n" +
	"- Use markdown formatting for better readability\n" +
	"- Include relevant details and examples from the context"

// strategySelector picks between the structured generation path, which
// separates the system prompt from the user turn, and a plain single-message
// fallback. The capability probe runs once per process; its outcome is
// memoized so concurrent first requests cannot race the decision.
type strategySelector struct {
	generation interfaces.GenerationService
	logger     arbor.ILogger

	probeOnce sync.Once
	useChain  bool
}

func newStrategySelector(generation interfaces.GenerationService, logger arbor.ILogger) *strategySelector {
	return &strategySelector{
		generation: generation,
		logger:     logger,
	}
}

// generate produces an answer for the query grounded in docContext.
func (s *strategySelector) generate(ctx context.Context, query, docContext string) (string, error) {
	s.probeOnce.Do(func() {
		probeCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		if err := s.generation.HealthCheck(probeCtx); err != nil {
			s.logger.Warn().Err(err).Msg("Generation capability probe failed, using direct prompt path")
			return
		}
		s.useChain = true
		s.logger.Debug().Msg("Generation capability probe passed, using structured prompt path")
	})

	var messages []interfaces.Message
	if s.useChain {
		messages = chainMessages(query, docContext)
	} else {
		messages = directMessages(query, docContext)
	}

	return s.generation.Chat(ctx, messages)
}

// chainMessages is the structured path: instructions in the system turn,
// context and question in the user turn.
func chainMessages(query, docContext string) []interfaces.Message {
	return []interfaces.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: fmt.Sprintf("Context:\n%s\n\nQuestion: %s", docContext, query)},
	}
}

// directMessages folds everything into one user turn for providers where the
// structured path is unavailable.
func directMessages(query, docContext string) []interfaces.Message {
	return []interfaces.Message{
		{Role: "user", Content: fmt.Sprintf("%s\n\nContext:\n%s\n\nQuestion: %s", systemPrompt, docContext, query)},
	}
}
