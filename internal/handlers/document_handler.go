package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"

	"github.com/lakkakula-saidev/smartdocs-ai/internal/interfaces"
	"github.com/lakkakula-saidev/smartdocs-ai/internal/models"
)

// maxMultipartMemory bounds the in-memory portion of multipart parsing;
// larger uploads spill to disk.
const maxMultipartMemory = 10 << 20

var validate = validator.New()

// DocumentHandler handles document upload and management HTTP requests.
type DocumentHandler struct {
	documentService interfaces.DocumentService
	logger          arbor.ILogger
}

// NewDocumentHandler creates a new document handler with dependencies.
func NewDocumentHandler(documentService interfaces.DocumentService, logger arbor.ILogger) *DocumentHandler {
	return &DocumentHandler{
		documentService: documentService,
		logger:          logger,
	}
}

// UploadHandler handles POST /api/upload requests with a multipart "file"
// field.
func (h *DocumentHandler) UploadHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Missing 'file' field in upload")
		return
	}
	defer file.Close()

	resp, err := h.documentService.ProcessUpload(r.Context(), header.Filename, header.Size, file)
	if err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}

	WriteJSON(w, http.StatusOK, resp)
}

// ListHandler handles GET /api/documents requests.
func (h *DocumentHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	docs, err := h.documentService.List(r.Context())
	if err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"documents": docs,
		"count":     len(docs),
	})
}

// DocumentRoutes dispatches /api/documents/{id} and
// /api/documents/{id}/rename.
func (h *DocumentHandler) DocumentRoutes(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/documents/")
	parts := strings.Split(strings.Trim(rest, "/"), "/")

	if len(parts) == 0 || parts[0] == "" {
		WriteError(w, http.StatusNotFound, "Document ID required")
		return
	}
	documentID := parts[0]

	switch {
	case len(parts) == 1 && r.Method == http.MethodGet:
		h.getDocument(w, r, documentID)
	case len(parts) == 1 && r.Method == http.MethodDelete:
		h.deleteDocument(w, r, documentID)
	case len(parts) == 2 && parts[1] == "rename" && r.Method == http.MethodPut:
		h.renameDocument(w, r, documentID)
	default:
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (h *DocumentHandler) getDocument(w http.ResponseWriter, r *http.Request, documentID string) {
	doc, err := h.documentService.Get(r.Context(), documentID)
	if err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, doc)
}

func (h *DocumentHandler) deleteDocument(w http.ResponseWriter, r *http.Request, documentID string) {
	deleted, err := h.documentService.Delete(r.Context(), documentID)
	if err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"document_id": documentID,
		"deleted":     deleted,
	})
}

func (h *DocumentHandler) renameDocument(w http.ResponseWriter, r *http.Request, documentID string) {
	var req models.RenameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "display_name must be between 1 and 200 characters")
		return
	}

	doc, err := h.documentService.Rename(r.Context(), documentID, req.DisplayName)
	if err != nil {
		WriteServiceError(w, h.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, doc)
}
