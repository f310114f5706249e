package handlers

import (
	"net/http"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/lakkakula-saidev/smartdocs-ai/internal/common"
	"github.com/lakkakula-saidev/smartdocs-ai/internal/interfaces"
)

// APIHandler handles system-level HTTP requests.
type APIHandler struct {
	registry  interfaces.DocumentRegistry
	startTime time.Time
	logger    arbor.ILogger
}

// NewAPIHandler creates a new API handler with dependencies.
func NewAPIHandler(registry interfaces.DocumentRegistry, logger arbor.ILogger) *APIHandler {
	return &APIHandler{
		registry:  registry,
		startTime: time.Now(),
		logger:    logger,
	}
}

// HealthHandler handles GET /api/health requests.
func (h *APIHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	lastDocumentID := h.registry.LastDocumentID()
	payload := map[string]interface{}{
		"status":         "healthy",
		"uptime_seconds": int64(time.Since(h.startTime).Seconds()),
		"document_count": h.registry.Count(),
	}
	if lastDocumentID != "" {
		payload["last_document_id"] = lastDocumentID
	}

	WriteJSON(w, http.StatusOK, payload)
}

// VersionHandler handles GET /api/version requests.
func (h *APIHandler) VersionHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetFullVersion(),
	})
}
