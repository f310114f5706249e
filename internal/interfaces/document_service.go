package interfaces

import (
	"context"
	"io"

	"github.com/lakkakula-saidev/smartdocs-ai/internal/models"
)

// DocumentService handles the upload pipeline: extraction, chunking,
// embedding, vector storage and registration.
type DocumentService interface {
	// ProcessUpload runs the full pipeline for one uploaded PDF. The
	// reader supplies the raw file content; filename is the original
	// client filename.
	ProcessUpload(ctx context.Context, filename string, size int64, content io.Reader) (*models.UploadResponse, error)

	// Get returns document info by ID.
	Get(ctx context.Context, documentID string) (*models.DocumentInfo, error)

	// List returns all documents.
	List(ctx context.Context) ([]*models.DocumentInfo, error)

	// Delete removes the document and its vectors.
	Delete(ctx context.Context, documentID string) (bool, error)

	// Rename updates the display name.
	Rename(ctx context.Context, documentID, displayName string) (*models.DocumentInfo, error)
}
