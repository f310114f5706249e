package server

import (
	"net/http"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// API routes - Documents
	mux.HandleFunc("/api/upload", s.app.DocumentHandler.UploadHandler)     // POST - upload a PDF
	mux.HandleFunc("/api/documents", s.app.DocumentHandler.ListHandler)    // GET - list documents
	mux.HandleFunc("/api/documents/", s.app.DocumentHandler.DocumentRoutes) // GET/DELETE /{id}, PUT /{id}/rename

	// API routes - Question answering
	mux.HandleFunc("/api/ask", s.app.ChatHandler.AskHandler)           // POST - ask a question
	mux.HandleFunc("/api/ask/stats", s.app.ChatHandler.StatsHandler)   // GET - session stats
	mux.HandleFunc("/api/ask/health", s.app.ChatHandler.HealthHandler) // GET - provider probe

	// API routes - System
	mux.HandleFunc("/api/health", s.app.APIHandler.HealthHandler)
	mux.HandleFunc("/api/version", s.app.APIHandler.VersionHandler)

	return mux
}
