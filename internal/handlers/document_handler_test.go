package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/lakkakula-saidev/smartdocs-ai/internal/common"
	"github.com/lakkakula-saidev/smartdocs-ai/internal/models"
)

type fakeDocumentService struct {
	uploadResp   *models.UploadResponse
	uploadErr    error
	lastFilename string
	lastSize     int64
	lastContent  []byte

	docs      map[string]*models.DocumentInfo
	deleteErr error
}

func (f *fakeDocumentService) ProcessUpload(ctx context.Context, filename string, size int64, content io.Reader) (*models.UploadResponse, error) {
	f.lastFilename = filename
	f.lastSize = size
	f.lastContent, _ = io.ReadAll(content)
	return f.uploadResp, f.uploadErr
}

func (f *fakeDocumentService) Get(ctx context.Context, documentID string) (*models.DocumentInfo, error) {
	if doc, ok := f.docs[documentID]; ok {
		return doc, nil
	}
	return nil, common.NewNotFoundError(documentID)
}

func (f *fakeDocumentService) List(ctx context.Context) ([]*models.DocumentInfo, error) {
	docs := make([]*models.DocumentInfo, 0, len(f.docs))
	for _, doc := range f.docs {
		docs = append(docs, doc)
	}
	return docs, nil
}

func (f *fakeDocumentService) Delete(ctx context.Context, documentID string) (bool, error) {
	if f.deleteErr != nil {
		return false, f.deleteErr
	}
	if _, ok := f.docs[documentID]; !ok {
		return false, common.NewNotFoundError(documentID)
	}
	delete(f.docs, documentID)
	return true, nil
}

func (f *fakeDocumentService) Rename(ctx context.Context, documentID, displayName string) (*models.DocumentInfo, error) {
	doc, ok := f.docs[documentID]
	if !ok {
		return nil, common.NewNotFoundError(documentID)
	}
	doc.DisplayName = displayName
	return doc, nil
}

func multipartBody(t *testing.T, fieldName, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(fieldName, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	return &buf, writer.FormDataContentType()
}

func TestUploadHandler_Success(t *testing.T) {
	svc := &fakeDocumentService{
		uploadResp: &models.UploadResponse{
			DocumentID:  "0123456789abcdef0123456789abcdef",
			Chunks:      3,
			Filename:    "report.pdf",
			DisplayName: "Report",
		},
	}
	handler := NewDocumentHandler(svc, arbor.NewLogger())

	body, contentType := multipartBody(t, "file", "report.pdf", []byte("%PDF-1.4 fake"))
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler.UploadHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "report.pdf", svc.lastFilename)
	assert.Equal(t, []byte("%PDF-1.4 fake"), svc.lastContent)

	var resp models.UploadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "0123456789abcdef0123456789abcdef", resp.DocumentID)
	assert.Equal(t, 3, resp.Chunks)
}

func TestUploadHandler_MissingFileField(t *testing.T) {
	handler := NewDocumentHandler(&fakeDocumentService{}, arbor.NewLogger())

	body, contentType := multipartBody(t, "attachment", "report.pdf", []byte("data"))
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler.UploadHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadHandler_MethodNotAllowed(t *testing.T) {
	handler := NewDocumentHandler(&fakeDocumentService{}, arbor.NewLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/upload", nil)
	rec := httptest.NewRecorder()

	handler.UploadHandler(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestUploadHandler_ValidationErrorMapsTo400(t *testing.T) {
	svc := &fakeDocumentService{
		uploadErr: common.NewValidationError("unsupported_file_type", "only PDF files are supported"),
	}
	handler := NewDocumentHandler(svc, arbor.NewLogger())

	body, contentType := multipartBody(t, "file", "report.txt", []byte("plain text"))
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler.UploadHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "only PDF files are supported")
}

func TestUploadHandler_ProviderErrorMapsTo503(t *testing.T) {
	svc := &fakeDocumentService{
		uploadErr: &common.AIServiceError{Code: "embedding_failed", Retryable: true},
	}
	handler := NewDocumentHandler(svc, arbor.NewLogger())

	body, contentType := multipartBody(t, "file", "report.pdf", []byte("%PDF-1.4"))
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler.UploadHandler(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	// Provider details must not leak to clients.
	assert.NotContains(t, rec.Body.String(), "embedding_failed")
}

func TestListHandler(t *testing.T) {
	svc := &fakeDocumentService{
		docs: map[string]*models.DocumentInfo{
			"0123456789abcdef0123456789abcdef": {
				DocumentID:  "0123456789abcdef0123456789abcdef",
				Filename:    "report.pdf",
				DisplayName: "Report",
				Status:      models.StatusReady,
				CreatedAt:   time.Now(),
			},
		},
	}
	handler := NewDocumentHandler(svc, arbor.NewLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/documents", nil)
	rec := httptest.NewRecorder()

	handler.ListHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Documents []*models.DocumentInfo `json:"documents"`
		Count     int                    `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Count)
	require.Len(t, resp.Documents, 1)
	assert.Equal(t, "Report", resp.Documents[0].DisplayName)
}

func TestDocumentRoutes_GetAndDelete(t *testing.T) {
	docID := "0123456789abcdef0123456789abcdef"
	svc := &fakeDocumentService{
		docs: map[string]*models.DocumentInfo{
			docID: {DocumentID: docID, Filename: "report.pdf", Status: models.StatusReady},
		},
	}
	handler := NewDocumentHandler(svc, arbor.NewLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/documents/"+docID, nil)
	rec := httptest.NewRecorder()
	handler.DocumentRoutes(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodDelete, "/api/documents/"+docID, nil)
	rec = httptest.NewRecorder()
	handler.DocumentRoutes(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"deleted":true`)

	// Second delete finds nothing.
	req = httptest.NewRequest(http.MethodDelete, "/api/documents/"+docID, nil)
	rec = httptest.NewRecorder()
	handler.DocumentRoutes(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDocumentRoutes_Rename(t *testing.T) {
	docID := "0123456789abcdef0123456789abcdef"
	svc := &fakeDocumentService{
		docs: map[string]*models.DocumentInfo{
			docID: {DocumentID: docID, Filename: "report.pdf", DisplayName: "Report"},
		},
	}
	handler := NewDocumentHandler(svc, arbor.NewLogger())

	req := httptest.NewRequest(http.MethodPut, "/api/documents/"+docID+"/rename",
		strings.NewReader(`{"display_name": "Q3 Report"}`))
	rec := httptest.NewRecorder()
	handler.DocumentRoutes(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Q3 Report", svc.docs[docID].DisplayName)
}

func TestDocumentRoutes_RenameEmptyName(t *testing.T) {
	docID := "0123456789abcdef0123456789abcdef"
	svc := &fakeDocumentService{
		docs: map[string]*models.DocumentInfo{
			docID: {DocumentID: docID, DisplayName: "Report"},
		},
	}
	handler := NewDocumentHandler(svc, arbor.NewLogger())

	req := httptest.NewRequest(http.MethodPut, "/api/documents/"+docID+"/rename",
		strings.NewReader(`{"display_name": ""}`))
	rec := httptest.NewRecorder()
	handler.DocumentRoutes(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Report", svc.docs[docID].DisplayName)
}

func TestDocumentRoutes_UnknownSubpath(t *testing.T) {
	handler := NewDocumentHandler(&fakeDocumentService{}, arbor.NewLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/documents/abc/chunks", nil)
	rec := httptest.NewRecorder()
	handler.DocumentRoutes(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
