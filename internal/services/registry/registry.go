package registry

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/lakkakula-saidev/smartdocs-ai/internal/common"
	"github.com/lakkakula-saidev/smartdocs-ai/internal/interfaces"
	"github.com/lakkakula-saidev/smartdocs-ai/internal/models"
)

// Service implements the DocumentRegistry interface. Registry state lives in
// memory; the vector index on disk is the durable source, so a restart
// rediscovers documents lazily on first access.
type Service struct {
	vectorIndex interfaces.VectorIndex
	embedding   interfaces.EmbeddingService
	logger      arbor.ILogger

	mu             sync.RWMutex
	documents      map[string]*models.DocumentInfo
	lastDocumentID string
}

// NewService creates a new document registry.
func NewService(vectorIndex interfaces.VectorIndex, embedding interfaces.EmbeddingService, logger arbor.ILogger) interfaces.DocumentRegistry {
	return &Service{
		vectorIndex: vectorIndex,
		embedding:   embedding,
		logger:      logger,
		documents:   make(map[string]*models.DocumentInfo),
	}
}

// Register records a processed document and marks it as the most recently
// uploaded. Registering an ID twice overwrites the earlier entry.
func (s *Service) Register(ctx context.Context, doc *models.DocumentInfo) error {
	if doc == nil || !common.IsDocumentID(doc.DocumentID) {
		return &common.ValidationError{Code: "invalid_document_id", Message: "document ID must be a 32-character hex string"}
	}

	if doc.CollectionName == "" {
		doc.CollectionName = common.CollectionName(doc.DocumentID)
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}
	if doc.Status == "" {
		doc.Status = models.StatusReady
	}

	s.mu.Lock()
	stored := *doc
	s.documents[doc.DocumentID] = &stored
	s.lastDocumentID = doc.DocumentID
	s.mu.Unlock()

	s.logger.Info().
		Str("document_id", doc.DocumentID).
		Str("filename", doc.Filename).
		Int("chunk_count", doc.ChunkCount).
		Msg("Registered document")

	return nil
}

// Get returns document info, reconciling once against the vector index when
// the ID is unknown in memory. A collection found on disk without a registry
// entry yields a minimal recovered record. The returned struct is a private
// copy; later renames do not show through it.
func (s *Service) Get(ctx context.Context, documentID string) (*models.DocumentInfo, error) {
	s.mu.RLock()
	doc, ok := s.documents[documentID]
	if ok {
		copied := *doc
		s.mu.RUnlock()
		return &copied, nil
	}
	s.mu.RUnlock()

	recovered, err := s.recover(ctx, documentID)
	if err != nil {
		return nil, err
	}
	return recovered, nil
}

// List returns copies of all registered documents.
func (s *Service) List(ctx context.Context) ([]*models.DocumentInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make([]*models.DocumentInfo, 0, len(s.documents))
	for _, doc := range s.documents {
		copied := *doc
		docs = append(docs, &copied)
	}
	return docs, nil
}

// Delete removes the document's vector collection first, then its registry
// entry. When vector deletion fails the entry is kept so the document stays
// visible and the orphaned data reachable for a retry.
func (s *Service) Delete(ctx context.Context, documentID string) (bool, error) {
	deleted, err := s.vectorIndex.DeleteCollection(ctx, documentID)
	if err != nil {
		return false, fmt.Errorf("failed to delete vector collection: %w", err)
	}

	s.mu.Lock()
	if _, ok := s.documents[documentID]; ok {
		delete(s.documents, documentID)
		deleted = true
	}
	if s.lastDocumentID == documentID {
		s.lastDocumentID = s.mostRecentLocked()
	}
	s.mu.Unlock()

	if deleted {
		s.logger.Info().Str("document_id", documentID).Msg("Deleted document")
	}
	return deleted, nil
}

// Rename updates the display name only and returns a copy of the updated
// record.
func (s *Service) Rename(ctx context.Context, documentID, displayName string) (*models.DocumentInfo, error) {
	// Get triggers recovery from the vector index for unknown IDs.
	if _, err := s.Get(ctx, documentID); err != nil {
		return nil, err
	}

	s.mu.Lock()
	doc, ok := s.documents[documentID]
	if !ok {
		s.mu.Unlock()
		return nil, &common.NotFoundError{DocumentID: documentID}
	}
	doc.DisplayName = displayName
	renamed := *doc
	s.mu.Unlock()

	s.logger.Info().
		Str("document_id", documentID).
		Str("display_name", displayName).
		Msg("Renamed document")

	return &renamed, nil
}

// Retriever returns a retrieval handle for the document. An empty documentID
// selects the most recently uploaded document; with no documents at all the
// result is a NotFoundError.
func (s *Service) Retriever(ctx context.Context, documentID string, k int) (interfaces.Retriever, error) {
	if documentID == "" {
		s.mu.RLock()
		documentID = s.lastDocumentID
		s.mu.RUnlock()
	}
	if documentID == "" {
		return nil, &common.NotFoundError{}
	}

	if _, err := s.Get(ctx, documentID); err != nil {
		return nil, err
	}

	return &retriever{
		documentID:  documentID,
		k:           k,
		vectorIndex: s.vectorIndex,
		embedding:   s.embedding,
		logger:      s.logger,
	}, nil
}

// LastDocumentID returns the most recently registered document ID.
func (s *Service) LastDocumentID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastDocumentID
}

// Count returns the number of registered documents.
func (s *Service) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.documents)
}

// recover rebuilds a minimal registry entry for a collection that exists on
// disk but not in memory, which happens after a restart.
func (s *Service) recover(ctx context.Context, documentID string) (*models.DocumentInfo, error) {
	if !common.IsDocumentID(documentID) {
		return nil, &common.NotFoundError{DocumentID: documentID}
	}

	collections, err := s.vectorIndex.ListCollections(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list vector collections: %w", err)
	}

	found := false
	for _, id := range collections {
		if id == documentID {
			found = true
			break
		}
	}
	if !found {
		return nil, &common.NotFoundError{DocumentID: documentID}
	}

	chunkCount := 0
	if size, err := s.vectorIndex.CollectionSize(ctx, documentID); err == nil {
		chunkCount = size
	}

	doc := &models.DocumentInfo{
		DocumentID:     documentID,
		ChunkCount:     chunkCount,
		Status:         models.StatusReady,
		CollectionName: common.CollectionName(documentID),
		CreatedAt:      time.Now().UTC(),
	}

	s.mu.Lock()
	// Another request may have recovered it concurrently; keep the first.
	if existing, ok := s.documents[documentID]; ok {
		copied := *existing
		s.mu.Unlock()
		return &copied, nil
	}
	s.documents[documentID] = doc
	recovered := *doc
	s.mu.Unlock()

	s.logger.Info().
		Str("document_id", documentID).
		Int("chunk_count", chunkCount).
		Msg("Recovered document from vector storage")

	return &recovered, nil
}

// mostRecentLocked returns the ID of the newest remaining document by
// created_at. Caller holds the write lock.
func (s *Service) mostRecentLocked() string {
	newest := ""
	var newestAt time.Time
	for id, doc := range s.documents {
		if newest == "" || doc.CreatedAt.After(newestAt) {
			newest = id
			newestAt = doc.CreatedAt
		}
	}
	return newest
}
