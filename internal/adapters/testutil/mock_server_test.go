package testutil

import (
	"io"
	"net/http"
	"testing"
)

func get(t *testing.T, url, token string) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		t.Fatal(err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp, string(body)
}

func TestExportServerSheet(t *testing.T) {
	server := NewExportServer()
	defer server.Close()

	server.Sheet("/export", "A,B\n1,2\n")

	resp, body := get(t, server.URL+"/export?format=csv", "")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "text/csv; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
	if body != "A,B\n1,2\n" {
		t.Errorf("body = %q", body)
	}

	last := server.LastRequest()
	if last == nil || last.Query != "format=csv" || last.Path != "/export" {
		t.Errorf("LastRequest = %+v", last)
	}
}

func TestExportServerResponses(t *testing.T) {
	server := NewExportServer()
	defer server.Close()

	server.Publish("/private", Export{Body: "A\n1\n", Token: "secret"})
	server.Publish("/broken", Export{Body: "quota exceeded", Status: http.StatusTooManyRequests})

	tests := []struct {
		name   string
		path   string
		token  string
		status int
	}{
		{"missing sheet", "/missing", "", http.StatusNotFound},
		{"no token", "/private", "", http.StatusUnauthorized},
		{"wrong token", "/private", "nope", http.StatusUnauthorized},
		{"token", "/private", "secret", http.StatusOK},
		{"failure", "/broken", "", http.StatusTooManyRequests},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, _ := get(t, server.URL+tt.path, tt.token)
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
		})
	}

	if server.RequestCount() != len(tests) {
		t.Errorf("RequestCount = %d, want %d", server.RequestCount(), len(tests))
	}
}
