// Package testutil provides a fake spreadsheet export endpoint for source
// adapter tests.
package testutil

import (
	"net/http"
	"net/http/httptest"
	"sync"
)

// Export is one sheet served by an ExportServer.
type Export struct {
	Body   string
	Status int    // 0 means 200
	Token  string // when set, requests must carry "Bearer <Token>"
}

// RecordedRequest captures a request made to the server.
type RecordedRequest struct {
	Path    string
	Query   string
	Headers http.Header
}

// ExportServer serves CSV sheets by path, the way a published spreadsheet
// export URL does, and records every request.
type ExportServer struct {
	*httptest.Server

	mu       sync.Mutex
	exports  map[string]Export
	requests []RecordedRequest
}

// NewExportServer starts a server with no sheets.
func NewExportServer() *ExportServer {
	s := &ExportServer{exports: make(map[string]Export)}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	return s
}

// Sheet publishes body as CSV on path.
func (s *ExportServer) Sheet(path, body string) {
	s.Publish(path, Export{Body: body})
}

// Publish configures the export served on path.
func (s *ExportServer) Publish(path string, e Export) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.exports[path] = e
}

func (s *ExportServer) serve(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.requests = append(s.requests, RecordedRequest{
		Path:    r.URL.Path,
		Query:   r.URL.RawQuery,
		Headers: r.Header.Clone(),
	})
	e, ok := s.exports[r.URL.Path]
	s.mu.Unlock()

	switch {
	case r.Method != http.MethodGet:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	case !ok:
		http.Error(w, "sheet not found", http.StatusNotFound)
	case e.Token != "" && r.Header.Get("Authorization") != "Bearer "+e.Token:
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	case e.Status != 0 && e.Status != http.StatusOK:
		http.Error(w, e.Body, e.Status)
	default:
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		_, _ = w.Write([]byte(e.Body))
	}
}

// RequestCount returns the number of requests received.
func (s *ExportServer) RequestCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

// LastRequest returns the most recent request, or nil if none.
func (s *ExportServer) LastRequest() *RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.requests) == 0 {
		return nil
	}
	req := s.requests[len(s.requests)-1]
	return &req
}
