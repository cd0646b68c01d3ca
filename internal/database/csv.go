package database

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/icon-pbg/icon-go/pkg/sop"
)

// Export column names appended by WriteCSV.
const (
	StatusColumn    = "STATUS"
	TotalDaysColumn = "TOTAL HARI"
)

// LoadOptions configures how rows become applications.
type LoadOptions struct {
	Engine  *sop.Engine
	Columns Columns
	// Recompute ignores the sheet's status column.
	Recompute bool
	// Source describes where the rows came from (file path, URL).
	Source string
}

// ReadCSV reads applications from a CSV reader.
func ReadCSV(r io.Reader, opts LoadOptions) (*Database, error) {
	rows, err := ReadRows(r)
	if err != nil {
		return nil, err
	}
	return FromRows(rows, opts)
}

// ReadRows reads raw CSV records, tolerating ragged rows and stray quotes
// as produced by spreadsheet exports.
func ReadRows(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // Allow variable fields
	reader.LazyQuotes = true

	var rows [][]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row %d: %w", len(rows)+1, err)
		}
		rows = append(rows, record)
	}
	return rows, nil
}

// FromRows builds a database from a header row followed by data rows.
func FromRows(rows [][]string, opts LoadOptions) (*Database, error) {
	if opts.Engine == nil {
		return nil, fmt.Errorf("no engine configured")
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("failed to read header: no rows")
	}

	cols, err := NewColumnMap(rows[0], opts.Columns, opts.Engine.Schedule())
	if err != nil {
		return nil, err
	}

	db := newDatabase(opts.Engine, cols, opts.Source)
	for i, record := range rows[1:] {
		if isBlankRow(record) {
			continue
		}
		db.add(parseRow(record, i+1, cols, opts))
	}

	return db, nil
}

// parseRow parses a data row into an Application and settles its status.
func parseRow(record []string, row int, cols *ColumnMap, opts LoadOptions) *Application {
	app := NewApplication(cell(record, cols.regNo))
	app.Row = row
	app.raw = append([]string(nil), record...)
	app.Applicant = cell(record, cols.applicant)
	app.Registration = cell(record, cols.regDate)
	app.Verifier = cell(record, cols.verifier)
	app.SurveyOfficer = cell(record, cols.surveyor)
	app.TechnicalAssessor = cell(record, cols.assessor)
	app.SheetStatus = cell(record, cols.status)

	schedule := opts.Engine.Schedule()
	for i, idx := range cols.stages {
		app.Stages[schedule.At(i).Name] = cell(record, idx)
	}

	// Sheet status is kept when it is recognisable; blank or unknown values
	// are recomputed.
	if status, err := sop.ParseStatus(app.SheetStatus); err == nil && !opts.Recompute {
		app.Status = status
	} else {
		app.Status = opts.Engine.Classify(app)
		app.Computed = true
	}

	return app
}

// WriteCSV writes applications with the sheet's original columns followed
// by the effective status and total processing days.
func (db *Database) WriteCSV(w io.Writer, apps []*Application) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	header := db.columns.Header()
	statusIdx := db.columns.StatusIndex()
	if statusIdx < 0 {
		statusIdx = len(header)
		header = append(header, StatusColumn)
	}
	totalIdx := db.columns.Index(TotalDaysColumn)
	if totalIdx < 0 {
		totalIdx = len(header)
		header = append(header, TotalDaysColumn)
	}

	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, app := range apps {
		row := formatRow(app, len(header))
		row[statusIdx] = app.Status.Label()
		row[totalIdx] = ""
		if a := db.engine.Assess(app); a.TotalDays != nil {
			row[totalIdx] = strconv.Itoa(*a.TotalDays)
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row for %s: %w", app.RegNo, err)
		}
	}

	return writer.Error()
}

// formatRow pads the original cells to width.
func formatRow(app *Application, width int) []string {
	row := make([]string, width)
	copy(row, app.raw)
	return row
}

func isBlankRow(record []string) bool {
	for _, c := range record {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
