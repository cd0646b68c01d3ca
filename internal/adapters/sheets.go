package adapters

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/icon-pbg/icon-go/internal/config"
	"github.com/icon-pbg/icon-go/internal/database"
)

// sheetsExportBase is the Google Sheets CSV export endpoint.
const sheetsExportBase = "https://docs.google.com/spreadsheets/d/"

// maxErrorBody bounds how much of an error response is echoed.
const maxErrorBody = 512

// SheetsSource downloads the monitoring sheet as CSV over HTTP.
type SheetsSource struct {
	url    string
	token  string
	client HTTPClient
}

// NewSheetsSource creates a source for a Google Sheets export or any CSV URL.
func NewSheetsSource(cfg config.SourceConfig, opts ...AdapterOption) (*SheetsSource, error) {
	options := applyOptions(opts)

	exportURL, err := SheetsExportURL(cfg)
	if err != nil {
		return nil, err
	}

	return &SheetsSource{
		url:    exportURL,
		token:  lookupToken(options.getEnv, cfg.TokenEnv),
		client: options.httpClient,
	}, nil
}

// SheetsExportURL returns cfg.URL when set, otherwise the CSV export URL of
// the configured spreadsheet and tab.
func SheetsExportURL(cfg config.SourceConfig) (string, error) {
	if cfg.URL != "" {
		if _, err := url.ParseRequestURI(cfg.URL); err != nil {
			return "", fmt.Errorf("invalid sheet URL: %w", err)
		}
		return cfg.URL, nil
	}
	if cfg.SpreadsheetID == "" {
		return "", fmt.Errorf("sheets source needs a url or spreadsheet_id")
	}

	gid := cfg.GID
	if gid == "" {
		gid = "0"
	}
	q := url.Values{}
	q.Set("format", "csv")
	q.Set("gid", gid)
	return sheetsExportBase + url.PathEscape(cfg.SpreadsheetID) + "/export?" + q.Encode(), nil
}

// Name returns the export URL.
func (s *SheetsSource) Name() string {
	return s.url
}

// Fetch downloads and parses the sheet.
func (s *SheetsSource) Fetch(ctx context.Context) ([][]string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "text/csv")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		msg := strings.TrimSpace(string(body))
		if msg == "" {
			return nil, fmt.Errorf("sheet export failed: HTTP %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("sheet export failed: HTTP %d: %s", resp.StatusCode, msg)
	}

	rows, err := database.ReadRows(resp.Body)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet export is empty")
	}
	return rows, nil
}
