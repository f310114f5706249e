package badger

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	badgerdb "github.com/dgraph-io/badger/v4"
	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/lakkakula-saidev/smartdocs-ai/internal/common"
	"github.com/lakkakula-saidev/smartdocs-ai/internal/interfaces"
	"github.com/lakkakula-saidev/smartdocs-ai/internal/models"
)

// storedChunk is the persisted record for one chunk of one document.
type storedChunk struct {
	ChunkID string `badgerhold:"key"`
	Index   int
	Content string
	Vector  []float32
	Meta    map[string]interface{}
}

// VectorIndex stores each document's chunks and embeddings in a dedicated
// Badger database under baseDir/<document_id>. Collections are opened lazily
// and rediscovered from the directory listing after a restart.
const (
	gcInterval     = 10 * time.Minute
	gcDiscardRatio = 0.5
)

type VectorIndex struct {
	baseDir string
	logger  arbor.ILogger

	mu     sync.Mutex
	stores map[string]*badgerhold.Store

	stopGC   chan struct{}
	stopOnce sync.Once
}

// NewVectorIndex creates the vector index rooted at baseDir.
func NewVectorIndex(baseDir string, logger arbor.ILogger) (interfaces.VectorIndex, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create vector storage directory: %w", err)
	}

	logger.Debug().Str("base_dir", baseDir).Msg("Vector index initialized")

	v := &VectorIndex{
		baseDir: baseDir,
		logger:  logger,
		stores:  make(map[string]*badgerhold.Store),
		stopGC:  make(chan struct{}),
	}
	go v.gcLoop()

	return v, nil
}

// CreateCollection stores the full chunk set for a document. An existing
// collection for the same ID is replaced. On any partial failure the
// half-written collection is removed so it never becomes queryable.
func (v *VectorIndex) CreateCollection(ctx context.Context, documentID string, chunks []models.Chunk, vectors [][]float32) (string, error) {
	if !common.IsDocumentID(documentID) {
		return "", &common.ValidationError{Code: "invalid_document_id", Message: fmt.Sprintf("invalid document ID: %s", documentID)}
	}
	if len(chunks) == 0 {
		return "", &common.ValidationError{Code: "empty_chunks", Message: "cannot create a collection with no chunks"}
	}
	if len(chunks) != len(vectors) {
		return "", &common.ValidationError{
			Code:    "chunk_vector_mismatch",
			Message: fmt.Sprintf("chunk count %d does not match vector count %d", len(chunks), len(vectors)),
		}
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	// Replace any existing collection for this document.
	if err := v.removeLocked(documentID); err != nil {
		return "", &common.VectorStoreError{Op: "create", DocumentID: documentID, Err: err}
	}

	store, err := v.openLocked(documentID)
	if err != nil {
		return "", &common.VectorStoreError{Op: "create", DocumentID: documentID, Err: err}
	}

	for i, chunk := range chunks {
		chunkID := chunk.ChunkID
		if chunkID == "" {
			chunkID = fmt.Sprintf("chunk_%d", i)
		}
		record := &storedChunk{
			ChunkID: chunkID,
			Index:   i,
			Content: chunk.Content,
			Vector:  vectors[i],
			Meta:    chunk.Metadata,
		}
		if err := store.Insert(record.ChunkID, record); err != nil {
			if removeErr := v.removeLocked(documentID); removeErr != nil {
				v.logger.Warn().Err(removeErr).Str("document_id", documentID).Msg("Failed to clean up partial collection")
			}
			return "", &common.VectorStoreError{
				Op:         "create",
				DocumentID: documentID,
				Err:        fmt.Errorf("failed to store chunk %d: %w", i, err),
			}
		}
	}

	v.logger.Info().
		Str("document_id", documentID).
		Int("chunk_count", len(chunks)).
		Msg("Vector collection created")

	return common.CollectionName(documentID), nil
}

// Query returns up to k chunks ordered by ascending cosine distance. A k
// larger than the collection is capped silently; a missing collection is a
// NotFoundError.
func (v *VectorIndex) Query(ctx context.Context, documentID string, queryVector []float32, k int) ([]models.ScoredChunk, error) {
	if k <= 0 {
		return []models.ScoredChunk{}, nil
	}

	v.mu.Lock()
	store, err := v.ensureLocked(documentID)
	v.mu.Unlock()
	if err != nil {
		return nil, err
	}

	var records []storedChunk
	if err := store.Find(&records, nil); err != nil {
		return nil, &common.VectorStoreError{Op: "query", DocumentID: documentID, Err: err}
	}

	scored := make([]models.ScoredChunk, 0, len(records))
	for _, record := range records {
		distance, err := cosineDistance(queryVector, record.Vector)
		if err != nil {
			return nil, &common.VectorStoreError{Op: "query", DocumentID: documentID, Err: err}
		}
		scored = append(scored, models.ScoredChunk{
			Chunk: models.Chunk{
				ChunkID:  record.ChunkID,
				Content:  record.Content,
				Metadata: record.Meta,
			},
			Distance: distance,
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Distance < scored[j].Distance
	})

	if k < len(scored) {
		scored = scored[:k]
	}

	v.logger.Debug().
		Str("document_id", documentID).
		Int("result_count", len(scored)).
		Msg("Vector query completed")

	return scored, nil
}

// DeleteCollection removes all persisted data for the document. Deleting a
// collection that does not exist returns false without error.
func (v *VectorIndex) DeleteCollection(ctx context.Context, documentID string) (bool, error) {
	if !common.IsDocumentID(documentID) {
		return false, nil
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	path := v.collectionPath(documentID)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return false, nil
	}

	if err := v.removeLocked(documentID); err != nil {
		return false, &common.VectorStoreError{Op: "delete", DocumentID: documentID, Err: err}
	}

	v.logger.Info().Str("document_id", documentID).Msg("Vector collection deleted")
	return true, nil
}

// ListCollections returns the document IDs of collections present on disk.
func (v *VectorIndex) ListCollections(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(v.baseDir)
	if err != nil {
		return nil, &common.VectorStoreError{Op: "list", Err: err}
	}

	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() && common.IsDocumentID(entry.Name()) {
			ids = append(ids, entry.Name())
		}
	}
	return ids, nil
}

// CollectionSize returns the number of chunks stored for the document.
func (v *VectorIndex) CollectionSize(ctx context.Context, documentID string) (int, error) {
	v.mu.Lock()
	store, err := v.ensureLocked(documentID)
	v.mu.Unlock()
	if err != nil {
		return 0, err
	}

	count, err := store.Count(&storedChunk{}, nil)
	if err != nil {
		return 0, &common.VectorStoreError{Op: "count", DocumentID: documentID, Err: err}
	}
	return int(count), nil
}

// Close stops maintenance and releases all open collection handles.
func (v *VectorIndex) Close() error {
	v.stopOnce.Do(func() { close(v.stopGC) })

	v.mu.Lock()
	defer v.mu.Unlock()

	var firstErr error
	for id, store := range v.stores {
		if err := store.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to close collection %s: %w", id, err)
		}
		delete(v.stores, id)
	}
	return firstErr
}

func (v *VectorIndex) gcLoop() {
	ticker := time.NewTicker(gcInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			v.runGC()
		case <-v.stopGC:
			return
		}
	}
}

// runGC runs one value log GC pass over every open collection. Badger only
// reclaims value log space on explicit GC; ErrNoRewrite means there was
// nothing to collect.
func (v *VectorIndex) runGC() {
	v.mu.Lock()
	open := make(map[string]*badgerdb.DB, len(v.stores))
	for id, store := range v.stores {
		open[id] = store.Badger()
	}
	v.mu.Unlock()

	for id, db := range open {
		if err := db.RunValueLogGC(gcDiscardRatio); err != nil && err != badgerdb.ErrNoRewrite {
			v.logger.Warn().Err(err).Str("document_id", id).Msg("Value log GC failed")
		}
	}
}

func (v *VectorIndex) collectionPath(documentID string) string {
	return filepath.Join(v.baseDir, documentID)
}

// ensureLocked returns an open store for an existing collection, loading it
// from disk when it is not yet in memory.
func (v *VectorIndex) ensureLocked(documentID string) (*badgerhold.Store, error) {
	if store, ok := v.stores[documentID]; ok {
		return store, nil
	}
	if !common.IsDocumentID(documentID) {
		return nil, &common.NotFoundError{DocumentID: documentID}
	}
	if _, err := os.Stat(v.collectionPath(documentID)); os.IsNotExist(err) {
		return nil, &common.NotFoundError{DocumentID: documentID}
	}
	return v.openLocked(documentID)
}

func (v *VectorIndex) openLocked(documentID string) (*badgerhold.Store, error) {
	path := v.collectionPath(documentID)
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create collection directory: %w", err)
	}

	options := badgerhold.DefaultOptions
	options.Dir = path
	options.ValueDir = path
	options.Logger = nil

	store, err := badgerhold.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to open collection store: %w", err)
	}

	v.stores[documentID] = store
	return store, nil
}

func (v *VectorIndex) removeLocked(documentID string) error {
	if store, ok := v.stores[documentID]; ok {
		if err := store.Close(); err != nil {
			return fmt.Errorf("failed to close collection store: %w", err)
		}
		delete(v.stores, documentID)
	}
	if err := os.RemoveAll(v.collectionPath(documentID)); err != nil {
		return fmt.Errorf("failed to remove collection directory: %w", err)
	}
	return nil
}

// cosineDistance returns 1 - cosine similarity. Vectors of mismatched
// dimension or zero magnitude cannot be compared.
func cosineDistance(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("vector dimension mismatch: %d vs %d", len(a), len(b))
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0, fmt.Errorf("cannot compare zero-magnitude vectors")
	}

	return 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB)), nil
}
