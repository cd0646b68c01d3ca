// Package adapters provides the data sources the monitoring sheet can be
// read from: local files, Google Sheets exports and SQLite tables.
package adapters

import (
	"context"
	"errors"
	"fmt"

	"github.com/icon-pbg/icon-go/internal/config"
	"github.com/icon-pbg/icon-go/internal/database"
)

// ErrUnsupportedSource is returned for unknown source kinds or file types.
var ErrUnsupportedSource = errors.New("unsupported source")

// Source yields the raw rows of the monitoring sheet.
type Source interface {
	// Name describes the source for logs and health output.
	Name() string

	// Fetch returns all rows; the first row is the header.
	Fetch(ctx context.Context) ([][]string, error)
}

// NewSource creates the source selected by cfg.Source.Kind. Relative paths
// are resolved against baseDir.
func NewSource(cfg *config.Config, baseDir string, opts ...AdapterOption) (Source, error) {
	src := cfg.ICON.Source
	switch src.Kind {
	case config.SourceFile, "":
		return NewFileSource(cfg.SourcePath(baseDir), src.Sheet), nil
	case config.SourceSheets:
		return NewSheetsSource(src, opts...)
	case config.SourceSQLite:
		return NewSQLiteSource(cfg.SourcePath(baseDir), src.Table)
	default:
		return nil, fmt.Errorf("%w: kind %q", ErrUnsupportedSource, src.Kind)
	}
}

// Load fetches rows from src and builds a snapshot.
func Load(ctx context.Context, src Source, opts database.LoadOptions) (*database.Database, error) {
	rows, err := src.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", src.Name(), err)
	}
	if opts.Source == "" {
		opts.Source = src.Name()
	}
	db, err := database.FromRows(rows, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", src.Name(), err)
	}
	return db, nil
}

// TestConnection fetches from the source and reports the row count.
func TestConnection(ctx context.Context, src Source) (success bool, message string) {
	rows, err := src.Fetch(ctx)
	if err != nil {
		return false, fmt.Sprintf("Connection failed: %v", err)
	}
	if len(rows) == 0 {
		return false, fmt.Sprintf("%s returned no rows", src.Name())
	}
	return true, fmt.Sprintf("Read %d rows from %s", len(rows)-1, src.Name())
}
