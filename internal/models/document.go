package models

import (
	"path/filepath"
	"strings"
	"time"
)

// DocumentStatus represents the lifecycle state of an uploaded document
type DocumentStatus string

const (
	StatusUploaded   DocumentStatus = "uploaded"
	StatusProcessing DocumentStatus = "processing"
	StatusReady      DocumentStatus = "ready"
	StatusError      DocumentStatus = "error"
)

// DocumentInfo represents one uploaded, processed PDF in the registry.
// A document with StatusReady always has a corresponding non-empty
// collection in the vector index.
type DocumentInfo struct {
	DocumentID       string         `json:"document_id"`
	Filename         string         `json:"filename,omitempty"`
	DisplayName      string         `json:"display_name"`
	FileSizeBytes    int64          `json:"file_size_bytes"`
	TextSizeBytes    int            `json:"text_size_bytes"`
	ChunkCount       int            `json:"chunk_count"`
	Status           DocumentStatus `json:"status"`
	CollectionName   string         `json:"collection_name"`
	ProcessingTimeMs int64          `json:"processing_time_ms,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
}

// GetDisplayName returns the display name, deriving one from the filename
// when it has not been set or renamed.
func (d *DocumentInfo) GetDisplayName() string {
	if d.DisplayName != "" {
		return d.DisplayName
	}
	if d.Filename != "" {
		return DisplayNameFromFilename(d.Filename)
	}
	return d.DocumentID
}

// DisplayNameFromFilename derives a human-readable display name: extension
// stripped, underscores and dashes replaced with spaces, title-cased.
func DisplayNameFromFilename(filename string) string {
	base := strings.TrimSuffix(filename, filepath.Ext(filename))
	base = strings.ReplaceAll(base, "_", " ")
	base = strings.ReplaceAll(base, "-", " ")

	words := strings.Fields(base)
	for i, w := range words {
		r := []rune(w)
		if len(r) > 0 {
			words[i] = strings.ToUpper(string(r[0])) + string(r[1:])
		}
	}
	return strings.Join(words, " ")
}
