package registry

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/lakkakula-saidev/smartdocs-ai/internal/interfaces"
	"github.com/lakkakula-saidev/smartdocs-ai/internal/models"
)

// retriever is a cheap handle bound to one document and one k.
type retriever struct {
	documentID  string
	k           int
	vectorIndex interfaces.VectorIndex
	embedding   interfaces.EmbeddingService
	logger      arbor.ILogger
}

// Retrieve embeds the query and returns up to k scored chunks, most similar
// first.
func (r *retriever) Retrieve(ctx context.Context, query string) ([]models.ScoredChunk, error) {
	queryVector, err := r.embedding.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	chunks, err := r.vectorIndex.Query(ctx, r.documentID, queryVector, r.k)
	if err != nil {
		return nil, err
	}

	r.logger.Debug().
		Str("document_id", r.documentID).
		Int("chunk_count", len(chunks)).
		Msg("Retrieved chunks for query")

	return chunks, nil
}

// DocumentID returns the document this retriever is bound to.
func (r *retriever) DocumentID() string {
	return r.documentID
}
