package common

import (
	"errors"
	"fmt"
)

// Error kinds used across the service. Lower layers return the most specific
// kind; upper layers may wrap with fmt.Errorf("...: %w", err) but must not
// change the kind, so handlers can branch on it with errors.As.

// ValidationError reports malformed caller input. It is terminal and never
// retried; no side effects have been performed when it is returned.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed (%s): %s", e.Code, e.Message)
}

// NewValidationError creates a ValidationError with a stable code.
func NewValidationError(code, message string) *ValidationError {
	return &ValidationError{Code: code, Message: message}
}

// NotFoundError reports a well-formed but unknown document ID. Distinct from
// ValidationError so callers can render "upload first" vs "fix your input".
type NotFoundError struct {
	DocumentID string
}

func (e *NotFoundError) Error() string {
	if e.DocumentID == "" {
		return "no documents have been uploaded yet"
	}
	return fmt.Sprintf("document not found: %s", e.DocumentID)
}

// NewNotFoundError creates a NotFoundError for the given document ID.
func NewNotFoundError(documentID string) *NotFoundError {
	return &NotFoundError{DocumentID: documentID}
}

// AIServiceError reports a failure in the embedding or generation provider
// path, including empty-output detection. Carries enough context to debug
// without leaking provider internals to callers.
type AIServiceError struct {
	Code      string
	Model     string
	TextCount int
	Retryable bool
	Err       error
}

func (e *AIServiceError) Error() string {
	msg := fmt.Sprintf("ai service error (%s)", e.Code)
	if e.Model != "" {
		msg += " model=" + e.Model
	}
	if e.TextCount > 0 {
		msg += fmt.Sprintf(" texts=%d", e.TextCount)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *AIServiceError) Unwrap() error { return e.Err }

// VectorStoreError reports a storage layer failure. Partial collection state
// must never be left queryable when one of these is returned.
type VectorStoreError struct {
	Op         string
	DocumentID string
	Err        error
}

func (e *VectorStoreError) Error() string {
	return fmt.Sprintf("vector store %s failed for document %s: %v", e.Op, e.DocumentID, e.Err)
}

func (e *VectorStoreError) Unwrap() error { return e.Err }

// ConfigurationError reports missing or invalid required configuration. It
// fails fast at the first operation needing the value.
type ConfigurationError struct {
	Code    string
	Message string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error (%s): %s", e.Code, e.Message)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var nfe *NotFoundError
	return errors.As(err, &nfe)
}

// IsAIService reports whether err is (or wraps) an AIServiceError.
func IsAIService(err error) bool {
	var ae *AIServiceError
	return errors.As(err, &ae)
}

// IsVectorStore reports whether err is (or wraps) a VectorStoreError.
func IsVectorStore(err error) bool {
	var se *VectorStoreError
	return errors.As(err, &se)
}

// IsConfiguration reports whether err is (or wraps) a ConfigurationError.
func IsConfiguration(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}
