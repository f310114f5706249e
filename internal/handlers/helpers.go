package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/lakkakula-saidev/smartdocs-ai/internal/common"
)

// RequireMethod validates that the HTTP request uses the specified method.
// Returns true if the method matches, false otherwise (and writes error response).
func RequireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return false
	}
	return true
}

// WriteJSON writes a JSON response with the specified status code and data.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

// WriteError writes a standard error JSON response.
func WriteError(w http.ResponseWriter, statusCode int, message string) error {
	return WriteJSON(w, statusCode, map[string]string{
		"status": "error",
		"error":  message,
	})
}

// WriteServiceError maps a service error onto an HTTP status. Validation
// problems are the caller's fault; missing documents are 404; everything
// involving providers or storage surfaces as 503 with a generic message so
// provider details never leak to clients.
func WriteServiceError(w http.ResponseWriter, logger arbor.ILogger, err error) {
	switch {
	case common.IsValidation(err):
		WriteError(w, http.StatusBadRequest, err.Error())
	case common.IsNotFound(err):
		WriteError(w, http.StatusNotFound, err.Error())
	case common.IsAIService(err):
		logger.Error().Err(err).Msg("AI provider error")
		WriteError(w, http.StatusServiceUnavailable, "AI service is temporarily unavailable")
	case common.IsVectorStore(err):
		logger.Error().Err(err).Msg("Vector storage error")
		WriteError(w, http.StatusServiceUnavailable, "Document storage is temporarily unavailable")
	case common.IsConfiguration(err):
		logger.Error().Err(err).Msg("Configuration error")
		WriteError(w, http.StatusServiceUnavailable, "Service is not configured correctly")
	default:
		logger.Error().Err(err).Msg("Unhandled service error")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
	}
}
