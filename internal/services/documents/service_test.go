package documents

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/lakkakula-saidev/smartdocs-ai/internal/common"
	"github.com/lakkakula-saidev/smartdocs-ai/internal/interfaces"
	"github.com/lakkakula-saidev/smartdocs-ai/internal/models"
	"github.com/lakkakula-saidev/smartdocs-ai/internal/services/chunker"
	"github.com/lakkakula-saidev/smartdocs-ai/internal/services/registry"
)

// fakeExtractor returns canned text instead of parsing a real PDF.
type fakeExtractor struct {
	text string
	err  error
}

func (f *fakeExtractor) ExtractText(ctx context.Context, path string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

type fakeEmbedding struct {
	err error
}

func (f *fakeEmbedding) EmbedTexts(ctx context.Context, texts []string) (*models.EmbeddingResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	embeddings := make([][]float32, len(texts))
	for i := range texts {
		embeddings[i] = []float32{float32(i), 1, 0}
	}
	return &models.EmbeddingResult{Embeddings: embeddings, TokenCount: len(texts) * 10, Model: "fake"}, nil
}

func (f *fakeEmbedding) EmbedQuery(ctx context.Context, query string) ([]float32, error) {
	return []float32{0, 1, 0}, nil
}

func (f *fakeEmbedding) CountTokens(ctx context.Context, text string) int { return len(text) / 4 }
func (f *fakeEmbedding) ModelName() string                                { return "fake" }
func (f *fakeEmbedding) Dimension() int                                   { return 3 }
func (f *fakeEmbedding) Close() error                                     { return nil }

type fakeVectorIndex struct {
	collections map[string]int
	createErr   error
}

func newFakeVectorIndex() *fakeVectorIndex {
	return &fakeVectorIndex{collections: make(map[string]int)}
}

func (f *fakeVectorIndex) CreateCollection(ctx context.Context, documentID string, chunks []models.Chunk, vectors [][]float32) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	f.collections[documentID] = len(chunks)
	return common.CollectionName(documentID), nil
}

func (f *fakeVectorIndex) Query(ctx context.Context, documentID string, queryVector []float32, k int) ([]models.ScoredChunk, error) {
	return nil, &common.NotFoundError{DocumentID: documentID}
}

func (f *fakeVectorIndex) DeleteCollection(ctx context.Context, documentID string) (bool, error) {
	_, ok := f.collections[documentID]
	delete(f.collections, documentID)
	return ok, nil
}

func (f *fakeVectorIndex) ListCollections(ctx context.Context) ([]string, error) {
	ids := make([]string, 0, len(f.collections))
	for id := range f.collections {
		ids = append(ids, id)
	}
	return ids, nil
}

func (f *fakeVectorIndex) CollectionSize(ctx context.Context, documentID string) (int, error) {
	size, ok := f.collections[documentID]
	if !ok {
		return 0, &common.NotFoundError{DocumentID: documentID}
	}
	return size, nil
}

func (f *fakeVectorIndex) Close() error { return nil }

func newTestService(t *testing.T, extractor *fakeExtractor, index *fakeVectorIndex) interfaces.DocumentService {
	t.Helper()

	cfg := common.NewDefaultConfig()
	cfg.Storage.UploadDir = t.TempDir()
	cfg.Upload.MaxFileSizeBytes = 1024

	logger := arbor.NewLogger()
	embedding := &fakeEmbedding{}
	reg := registry.NewService(index, embedding, logger)
	textChunker := chunker.NewChunker(cfg.Chunking, logger)

	return NewService(cfg, extractor, textChunker, embedding, index, reg, logger)
}

func TestProcessUpload(t *testing.T) {
	index := newFakeVectorIndex()
	extractor := &fakeExtractor{text: "First sentence of the document. Second sentence with more detail."}
	svc := newTestService(t, extractor, index)

	resp, err := svc.ProcessUpload(context.Background(), "annual_report-2024.pdf", 512, strings.NewReader("%PDF-fake"))
	require.NoError(t, err)

	assert.True(t, common.IsDocumentID(resp.DocumentID))
	assert.Equal(t, 1, resp.Chunks)
	assert.Equal(t, len(extractor.text), resp.Bytes)
	assert.Equal(t, "annual_report-2024.pdf", resp.Filename)
	assert.Equal(t, "Annual Report 2024", resp.DisplayName)

	// Registered and queryable through the service.
	doc, err := svc.Get(context.Background(), resp.DocumentID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusReady, doc.Status)
	assert.Equal(t, "doc_"+resp.DocumentID, doc.CollectionName)
	assert.Equal(t, 1, index.collections[resp.DocumentID])
}

func TestProcessUploadRejectsNonPDF(t *testing.T) {
	svc := newTestService(t, &fakeExtractor{text: "x"}, newFakeVectorIndex())

	_, err := svc.ProcessUpload(context.Background(), "notes.txt", 100, strings.NewReader("hello"))
	assert.True(t, common.IsValidation(err))

	_, err = svc.ProcessUpload(context.Background(), "", 100, strings.NewReader("hello"))
	assert.True(t, common.IsValidation(err))
}

func TestProcessUploadRejectsOversizedFile(t *testing.T) {
	svc := newTestService(t, &fakeExtractor{text: "x"}, newFakeVectorIndex())

	_, err := svc.ProcessUpload(context.Background(), "big.pdf", 10_000_000, strings.NewReader("x"))
	assert.True(t, common.IsValidation(err))

	_, err = svc.ProcessUpload(context.Background(), "empty.pdf", 0, strings.NewReader(""))
	assert.True(t, common.IsValidation(err))
}

func TestProcessUploadExtractionFailure(t *testing.T) {
	index := newFakeVectorIndex()
	extractor := &fakeExtractor{err: &common.ValidationError{Code: "no_extractable_text", Message: "no extractable text found in PDF"}}
	svc := newTestService(t, extractor, index)

	_, err := svc.ProcessUpload(context.Background(), "scan.pdf", 512, strings.NewReader("%PDF-fake"))
	assert.True(t, common.IsValidation(err))
	assert.Empty(t, index.collections)
}

func TestProcessUploadEmbeddingFailureLeavesNoDocument(t *testing.T) {
	index := newFakeVectorIndex()
	extractor := &fakeExtractor{text: "Some document text."}

	cfg := common.NewDefaultConfig()
	cfg.Storage.UploadDir = t.TempDir()

	logger := arbor.NewLogger()
	embedding := &fakeEmbedding{err: fmt.Errorf("quota exceeded")}
	reg := registry.NewService(index, embedding, logger)
	svc := NewService(cfg, extractor, chunker.NewChunker(cfg.Chunking, logger), embedding, index, reg, logger)

	_, err := svc.ProcessUpload(context.Background(), "doc.pdf", 512, strings.NewReader("%PDF-fake"))
	require.Error(t, err)
	assert.Empty(t, index.collections)
	assert.Equal(t, 0, reg.Count())
}

func TestDeleteAndRename(t *testing.T) {
	index := newFakeVectorIndex()
	extractor := &fakeExtractor{text: "Some document text."}
	svc := newTestService(t, extractor, index)
	ctx := context.Background()

	resp, err := svc.ProcessUpload(ctx, "guide.pdf", 256, strings.NewReader("%PDF-fake"))
	require.NoError(t, err)

	doc, err := svc.Rename(ctx, resp.DocumentID, "User Guide v2")
	require.NoError(t, err)
	assert.Equal(t, "User Guide v2", doc.DisplayName)

	_, err = svc.Rename(ctx, resp.DocumentID, "   ")
	assert.True(t, common.IsValidation(err))

	deleted, err := svc.Delete(ctx, resp.DocumentID)
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = svc.Get(ctx, resp.DocumentID)
	assert.True(t, common.IsNotFound(err))
}
