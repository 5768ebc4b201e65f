package server

import (
	"net/http"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// WebSocket route (run-status events)
	mux.HandleFunc("/ws", s.app.WSHandler.HandleWebSocket)

	// API routes - Scraping
	mux.HandleFunc("/api/scrape", s.app.ScrapeHandler.ScrapeHandler)    // POST - run a scrape end to end
	mux.HandleFunc("/api/suggest", s.app.SuggestHandler.SuggestHandler) // POST - AI selector suggestion
	mux.HandleFunc("/api/clean", s.app.CleanHandler.CleanHandler)       // POST - AI data cleaning

	// API routes - Export. The exact /email pattern wins over the format
	// prefix route.
	mux.HandleFunc("/api/export/email", s.app.ExportHandler.EmailExportHandler)
	mux.HandleFunc("/api/export/", s.app.ExportHandler.ExportHandler) // POST /{csv|json|text|pdf}

	// API routes - Settings (API keys, SMTP credentials)
	mux.HandleFunc("/api/kv", s.handleKVCollection)
	mux.HandleFunc("/api/kv/", s.handleKVItem)

	// API routes - System
	mux.HandleFunc("/api/status", s.app.StatusHandler.GetStatusHandler)
	mux.HandleFunc("/api/version", s.app.StatusHandler.VersionHandler)
	mux.HandleFunc("/api/shutdown", s.ShutdownHandler)

	// 404 handler for unmatched API routes
	mux.HandleFunc("/api/", s.app.StatusHandler.NotFoundHandler)

	return mux
}

// handleKVCollection routes /api/kv by method: GET lists, PUT upserts.
func (s *Server) handleKVCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case "GET":
		s.app.KVHandler.ListKVHandler(w, r)
	case "PUT":
		s.app.KVHandler.SetKVHandler(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleKVItem routes /api/kv/{key} by method.
func (s *Server) handleKVItem(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case "GET":
		s.app.KVHandler.GetKVHandler(w, r)
	case "DELETE":
		s.app.KVHandler.DeleteKVHandler(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}
