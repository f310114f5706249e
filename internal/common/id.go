package common

import (
	"encoding/hex"
	"regexp"

	"github.com/google/uuid"
)

// Document IDs are 32 lowercase hex characters, generated server-side at
// upload time. Collection names derive deterministically from the ID.

var documentIDPattern = regexp.MustCompile(`^[a-f0-9]{32}$`)

// NewDocumentID generates a globally unique 32-character lowercase hex
// document identifier.
func NewDocumentID() string {
	id := uuid.New()
	return hex.EncodeToString(id[:])
}

// IsDocumentID reports whether s is a well-formed document identifier.
func IsDocumentID(s string) bool {
	return documentIDPattern.MatchString(s)
}

// CollectionName returns the vector collection name for a document.
func CollectionName(documentID string) string {
	return "doc_" + documentID
}
