package adapters

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteSource reads the monitoring sheet from a SQLite table whose columns
// carry the sheet's header names.
type SQLiteSource struct {
	path  string
	table string
}

// NewSQLiteSource creates a SQLite source.
func NewSQLiteSource(path, table string) (*SQLiteSource, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite source needs a path")
	}
	if strings.TrimSpace(table) == "" {
		return nil, fmt.Errorf("sqlite source needs a table")
	}
	return &SQLiteSource{path: path, table: table}, nil
}

// Name returns path#table.
func (s *SQLiteSource) Name() string {
	return s.path + "#" + s.table
}

// Fetch selects every row of the table. NULL becomes an empty cell and
// date-typed values are rendered day-first.
func (s *SQLiteSource) Fetch(ctx context.Context) ([][]string, error) {
	dsn := fmt.Sprintf("file:%s?mode=ro", s.path)
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	defer conn.Close()

	rows, err := conn.QueryContext(ctx, "SELECT * FROM "+quoteIdent(s.table))
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", s.table, err)
	}
	defer rows.Close()

	header, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	result := [][]string{header}

	values := make([]any, len(header))
	ptrs := make([]any, len(header))
	for i := range values {
		ptrs[i] = &values[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row %d: %w", len(result), err)
		}
		record := make([]string, len(values))
		for i, v := range values {
			record[i] = formatValue(v)
		}
		result = append(result, record)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		if x.Hour() == 0 && x.Minute() == 0 && x.Second() == 0 {
			return x.Format("02/01/2006")
		}
		return x.Format("02/01/2006 15:04:05")
	default:
		return fmt.Sprint(x)
	}
}

// quoteIdent quotes a SQLite identifier.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
