package interfaces

import (
	"context"

	"github.com/lakkakula-saidev/smartdocs-ai/internal/models"
)

// ChatService answers natural-language questions about uploaded documents
// using retrieval-augmented generation.
type ChatService interface {
	// Ask validates the request, retrieves relevant chunks, generates a
	// grounded answer and applies best-effort markdown enhancement.
	Ask(ctx context.Context, req *models.AskRequest) (*models.AskResponse, error)

	// Stats returns aggregate question-answering activity.
	Stats() *models.SessionStats

	// HealthCheck verifies the generation provider is reachable.
	HealthCheck(ctx context.Context) error
}
