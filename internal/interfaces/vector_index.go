package interfaces

import (
	"context"

	"github.com/lakkakula-saidev/smartdocs-ai/internal/models"
)

// VectorIndex stores chunk text, embeddings and metadata per document and
// answers nearest-neighbor queries. Each document's collection persists to a
// dedicated sub-path derived from its ID so a process restart can rediscover
// collections lazily.
type VectorIndex interface {
	// CreateCollection stores the full chunk set for a document. Atomic
	// from the caller's perspective: either every chunk is queryable
	// afterward or the collection does not exist. Creating a collection
	// for a document that already has one overwrites it. Returns the
	// collection name.
	CreateCollection(ctx context.Context, documentID string, chunks []models.Chunk, vectors [][]float32) (string, error)

	// Query returns up to k chunks ordered by ascending distance (most
	// similar first). If k exceeds the collection size, all available
	// chunks are returned without error. A query against a non-existent
	// collection returns a NotFoundError, not a silent empty result.
	Query(ctx context.Context, documentID string, queryVector []float32, k int) ([]models.ScoredChunk, error)

	// DeleteCollection removes all persisted chunk/vector data for the
	// document. Idempotent: deleting a non-existent collection is not an
	// error and returns false.
	DeleteCollection(ctx context.Context, documentID string) (bool, error)

	// ListCollections returns the document IDs of collections present on
	// persistent storage, including ones not yet loaded in memory.
	ListCollections(ctx context.Context) ([]string, error)

	// CollectionSize returns the number of chunks stored for a document.
	CollectionSize(ctx context.Context, documentID string) (int, error)

	// Close releases all open collection handles.
	Close() error
}
