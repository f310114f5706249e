package models

import "time"

// AskRequest is the question-answering request schema.
type AskRequest struct {
	Query string `json:"query" validate:"required"`
	// DocumentID may be empty, in which case the most recently uploaded
	// document is used.
	DocumentID string `json:"document_id"`
}

// AskResponse is returned for a successfully answered question.
type AskResponse struct {
	Answer            string `json:"answer"`
	DocumentID        string `json:"document_id"`
	ProcessingTimeMs  int64  `json:"processing_time_ms"`
	SourceChunksCount int    `json:"source_chunks_count"`
}

// UploadResponse is returned after a successful PDF upload.
type UploadResponse struct {
	DocumentID       string `json:"document_id"`
	Chunks           int    `json:"chunks"`
	Bytes            int    `json:"bytes"`
	Filename         string `json:"filename"`
	DisplayName      string `json:"display_name"`
	ProcessingTimeMs int64  `json:"processing_time_ms"`
}

// RenameRequest updates a document's display name.
type RenameRequest struct {
	DisplayName string `json:"display_name" validate:"required,min=1,max=200"`
}

// SessionStats aggregates question-answering activity for the process.
type SessionStats struct {
	TotalQueries          int64      `json:"total_queries"`
	AverageResponseTimeMs float64    `json:"average_response_time_ms"`
	LastQueryAt           *time.Time `json:"last_query_at,omitempty"`
}
