package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorPredicates(t *testing.T) {
	validation := NewValidationError("query_too_short", "query must be at least 3 characters")
	notFound := NewNotFoundError("0123456789abcdef0123456789abcdef")
	aiErr := &AIServiceError{Code: "api_error", Model: "test-model", Retryable: true, Err: errors.New("timeout")}
	storeErr := &VectorStoreError{Op: "query", DocumentID: "abc", Err: errors.New("disk full")}
	configErr := &ConfigurationError{Code: "missing_api_key", Message: "ANTHROPIC_API_KEY is not set"}

	assert.True(t, IsValidation(validation))
	assert.True(t, IsNotFound(notFound))
	assert.True(t, IsAIService(aiErr))
	assert.True(t, IsVectorStore(storeErr))
	assert.True(t, IsConfiguration(configErr))

	// Kinds do not overlap.
	assert.False(t, IsNotFound(validation))
	assert.False(t, IsValidation(notFound))
	assert.False(t, IsAIService(storeErr))
}

func TestErrorPredicates_SurviveWrapping(t *testing.T) {
	inner := &AIServiceError{Code: "embedding_failed", TextCount: 12, Retryable: true}
	wrapped := fmt.Errorf("processing upload: %w", inner)

	assert.True(t, IsAIService(wrapped))

	var ae *AIServiceError
	assert.True(t, errors.As(wrapped, &ae))
	assert.Equal(t, "embedding_failed", ae.Code)
	assert.Equal(t, 12, ae.TextCount)
}

func TestNotFoundError_EmptyRegistryMessage(t *testing.T) {
	assert.Equal(t, "no documents have been uploaded yet", NewNotFoundError("").Error())
	assert.Contains(t, NewNotFoundError("abc123").Error(), "abc123")
}

func TestAIServiceError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := &AIServiceError{Code: "api_error", Err: cause}

	assert.ErrorIs(t, err, cause)
}
