package interfaces

import (
	"context"

	"github.com/lakkakula-saidev/smartdocs-ai/internal/models"
)

// Retriever fetches the chunks most relevant to a query from one document's
// collection. Handles are cheap and scoped to a single document and k.
type Retriever interface {
	// Retrieve embeds the query and returns up to k scored chunks, most
	// similar first. Fewer than k chunks is not an error.
	Retrieve(ctx context.Context, query string) ([]models.ScoredChunk, error)

	// DocumentID returns the document this retriever is bound to.
	DocumentID() string
}

// DocumentRegistry maps document IDs to their collections, chunk counts and
// display metadata. It is the single source of truth for "does this document
// exist". Safe for concurrent use; a delete racing a register for the same
// ID resolves last-writer-wins.
type DocumentRegistry interface {
	// Register records a processed document and marks it as the most
	// recently uploaded.
	Register(ctx context.Context, doc *models.DocumentInfo) error

	// Get returns document info. When the ID is not in memory it
	// reconciles once against the vector index's persisted collections
	// before returning a NotFoundError.
	Get(ctx context.Context, documentID string) (*models.DocumentInfo, error)

	// List returns all registered documents.
	List(ctx context.Context) ([]*models.DocumentInfo, error)

	// Delete removes the document's vector collection and registry entry.
	// Two-phase: vector deletion first; the registry entry is kept when
	// vector deletion fails so no orphaned vector data is left behind.
	Delete(ctx context.Context, documentID string) (bool, error)

	// Rename updates the display name only; the vector index is not
	// touched.
	Rename(ctx context.Context, documentID, displayName string) (*models.DocumentInfo, error)

	// Retriever returns a retrieval handle for the document. An empty
	// documentID selects the most recently uploaded document.
	Retriever(ctx context.Context, documentID string, k int) (Retriever, error)

	// LastDocumentID returns the most recently registered document ID, or
	// empty when no documents remain.
	LastDocumentID() string

	// Count returns the number of registered documents.
	Count() int
}
