package documents

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/lakkakula-saidev/smartdocs-ai/internal/common"
	"github.com/lakkakula-saidev/smartdocs-ai/internal/interfaces"
	"github.com/lakkakula-saidev/smartdocs-ai/internal/models"
	"github.com/lakkakula-saidev/smartdocs-ai/internal/services/chunker"
)

// Service implements the DocumentService interface. It owns the upload
// pipeline: validation, temp-file staging, text extraction, chunking,
// embedding, vector storage and registration.
type Service struct {
	config      *common.Config
	extractor   interfaces.PDFExtractor
	chunker     *chunker.Chunker
	embedding   interfaces.EmbeddingService
	vectorIndex interfaces.VectorIndex
	registry    interfaces.DocumentRegistry
	logger      arbor.ILogger
}

// NewService creates a new document service.
func NewService(
	config *common.Config,
	extractor interfaces.PDFExtractor,
	textChunker *chunker.Chunker,
	embedding interfaces.EmbeddingService,
	vectorIndex interfaces.VectorIndex,
	registry interfaces.DocumentRegistry,
	logger arbor.ILogger,
) interfaces.DocumentService {
	return &Service{
		config:      config,
		extractor:   extractor,
		chunker:     textChunker,
		embedding:   embedding,
		vectorIndex: vectorIndex,
		registry:    registry,
		logger:      logger,
	}
}

// ProcessUpload runs the full pipeline for one uploaded PDF. The staged temp
// file is removed on every exit path; the stale-file janitor catches
// anything a crash leaves behind.
func (s *Service) ProcessUpload(ctx context.Context, filename string, size int64, content io.Reader) (*models.UploadResponse, error) {
	startTime := time.Now()
	documentID := common.NewDocumentID()

	s.logger.Info().
		Str("document_id", documentID).
		Str("filename", filename).
		Int64("size", size).
		Msg("Starting document processing")

	if err := s.validateUpload(filename, size); err != nil {
		return nil, err
	}

	tempDir, tempPath, err := s.saveUploadedFile(documentID, filename, content)
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(tempDir)

	extractedText, err := s.extractor.ExtractText(ctx, tempPath)
	if err != nil {
		return nil, fmt.Errorf("failed to extract text from PDF: %w", err)
	}

	displayName := models.DisplayNameFromFilename(filename)
	if displayName == "" {
		displayName = "Untitled Document"
	}

	chunks := s.chunker.Chunk(extractedText, map[string]interface{}{
		"document_id": documentID,
	})
	if len(chunks) == 0 {
		return nil, &common.ValidationError{
			Code:    "no_extractable_text",
			Message: "no extractable text found in PDF",
		}
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Content
	}

	embedResult, err := s.embedding.EmbedTexts(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to embed document chunks: %w", err)
	}

	collectionName, err := s.vectorIndex.CreateCollection(ctx, documentID, chunks, embedResult.Embeddings)
	if err != nil {
		return nil, fmt.Errorf("failed to store document vectors: %w", err)
	}

	processingTime := time.Since(startTime).Milliseconds()
	doc := &models.DocumentInfo{
		DocumentID:       documentID,
		Filename:         filename,
		DisplayName:      displayName,
		FileSizeBytes:    size,
		TextSizeBytes:    len(extractedText),
		ChunkCount:       len(chunks),
		Status:           models.StatusReady,
		CollectionName:   collectionName,
		ProcessingTimeMs: processingTime,
		CreatedAt:        time.Now().UTC(),
	}
	if err := s.registry.Register(ctx, doc); err != nil {
		// Roll back the collection so no unqueryable orphan remains.
		if _, delErr := s.vectorIndex.DeleteCollection(ctx, documentID); delErr != nil {
			s.logger.Warn().Err(delErr).Str("document_id", documentID).Msg("Failed to roll back vector collection")
		}
		return nil, fmt.Errorf("failed to register document: %w", err)
	}

	s.logger.Info().
		Str("document_id", documentID).
		Str("filename", filename).
		Int("chunk_count", len(chunks)).
		Int("token_count", embedResult.TokenCount).
		Int64("processing_time_ms", processingTime).
		Msg("Document processing completed successfully")

	return &models.UploadResponse{
		DocumentID:       documentID,
		Chunks:           len(chunks),
		Bytes:            len(extractedText),
		Filename:         filename,
		DisplayName:      displayName,
		ProcessingTimeMs: processingTime,
	}, nil
}

// Get returns document info by ID.
func (s *Service) Get(ctx context.Context, documentID string) (*models.DocumentInfo, error) {
	return s.registry.Get(ctx, documentID)
}

// List returns all documents.
func (s *Service) List(ctx context.Context) ([]*models.DocumentInfo, error) {
	return s.registry.List(ctx)
}

// Delete removes the document and its vectors.
func (s *Service) Delete(ctx context.Context, documentID string) (bool, error) {
	return s.registry.Delete(ctx, documentID)
}

// Rename updates the display name.
func (s *Service) Rename(ctx context.Context, documentID, displayName string) (*models.DocumentInfo, error) {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return nil, &common.ValidationError{
			Code:    "empty_display_name",
			Message: "display name cannot be empty",
		}
	}
	return s.registry.Rename(ctx, documentID, displayName)
}

// validateUpload rejects non-PDF files and files over the configured size
// limit before any processing happens.
func (s *Service) validateUpload(filename string, size int64) error {
	if filename == "" || !strings.EqualFold(filepath.Ext(filename), ".pdf") {
		return &common.ValidationError{
			Code:    "invalid_file_type",
			Message: "only PDF files are supported",
		}
	}
	if size <= 0 {
		return &common.ValidationError{
			Code:    "empty_file",
			Message: "uploaded file is empty",
		}
	}
	if maxSize := s.config.Upload.MaxFileSizeBytes; maxSize > 0 && size > maxSize {
		return &common.ValidationError{
			Code:    "file_too_large",
			Message: fmt.Sprintf("file size %d exceeds limit of %d bytes", size, maxSize),
		}
	}
	return nil
}

// saveUploadedFile stages the upload in its own temp directory under the
// configured upload dir. The directory name carries the document ID so the
// janitor can tell staged uploads apart from anything else.
func (s *Service) saveUploadedFile(documentID, filename string, content io.Reader) (string, string, error) {
	tempDir := filepath.Join(s.config.Storage.UploadDir, "upload_"+documentID)
	if err := os.MkdirAll(tempDir, 0755); err != nil {
		return "", "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	tempPath := filepath.Join(tempDir, sanitizeFilename(filename))
	file, err := os.Create(tempPath)
	if err != nil {
		os.RemoveAll(tempDir)
		return "", "", fmt.Errorf("failed to create temp file: %w", err)
	}

	written, err := io.Copy(file, content)
	closeErr := file.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.RemoveAll(tempDir)
		return "", "", fmt.Errorf("failed to write uploaded file: %w", err)
	}

	if maxSize := s.config.Upload.MaxFileSizeBytes; maxSize > 0 && written > maxSize {
		os.RemoveAll(tempDir)
		return "", "", &common.ValidationError{
			Code:    "file_too_large",
			Message: fmt.Sprintf("file size %d exceeds limit of %d bytes", written, maxSize),
		}
	}

	s.logger.Debug().
		Str("document_id", documentID).
		Str("temp_path", tempPath).
		Int64("file_size", written).
		Msg("File saved to temporary location")

	return tempDir, tempPath, nil
}

// sanitizeFilename strips any path components from a client-supplied
// filename.
func sanitizeFilename(filename string) string {
	base := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	if base == "." || base == string(filepath.Separator) || base == "" {
		return "document.pdf"
	}
	return base
}
