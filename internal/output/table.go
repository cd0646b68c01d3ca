package output

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Render formats.
const (
	FormatText     = "text"
	FormatMarkdown = "markdown"
	FormatHTML     = "html"
)

// Table collects rows for terminal, markdown or HTML output.
type Table struct {
	w    table.Writer
	cols int
	rows int
}

// NewTable creates a new table with the given headers.
func NewTable(headers ...string) *Table {
	style := table.StyleDefault
	style.Format.Header = text.FormatDefault
	w := table.NewWriter()
	w.SetStyle(style)
	header := make(table.Row, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	w.AppendHeader(header)
	return &Table{w: w, cols: len(headers)}
}

// AddRow adds a row to the table. Missing cells are left blank and extra
// cells are dropped.
func (t *Table) AddRow(cells ...string) {
	row := make(table.Row, t.cols)
	for i := range row {
		if i < len(cells) {
			row[i] = cells[i]
		} else {
			row[i] = ""
		}
	}
	t.w.AppendRow(row)
	t.rows++
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return t.rows
}

// Render returns the table with a separator between every row.
func (t *Table) Render() string {
	if t.cols == 0 {
		return ""
	}
	t.w.Style().Options.SeparateRows = true
	return t.w.Render() + "\n"
}

// RenderCompact returns the table without row separators (only header separator).
func (t *Table) RenderCompact() string {
	if t.cols == 0 {
		return ""
	}
	t.w.Style().Options.SeparateRows = false
	return t.w.Render() + "\n"
}

// RenderMarkdown returns the table as a GitHub-flavored markdown table.
func (t *Table) RenderMarkdown() string {
	if t.cols == 0 {
		return ""
	}
	return t.w.RenderMarkdown() + "\n"
}

// RenderHTML returns the table as an HTML fragment. Cell text is emitted
// as-is; callers escape untrusted values.
func (t *Table) RenderHTML() string {
	if t.cols == 0 {
		return ""
	}
	t.w.Style().HTML.EscapeText = false
	t.w.Style().HTML.CSSClass = "icon-table"
	return t.w.RenderHTML() + "\n"
}

// RenderFormat renders in one of text, markdown or html.
func (t *Table) RenderFormat(format string) (string, error) {
	switch strings.ToLower(format) {
	case "", FormatText:
		return t.RenderCompact(), nil
	case FormatMarkdown, "md":
		return t.RenderMarkdown(), nil
	case FormatHTML:
		return t.RenderHTML(), nil
	default:
		return "", fmt.Errorf("invalid format: %q (want text, markdown or html)", format)
	}
}
