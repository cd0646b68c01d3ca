// Package testutil provides test utilities and fixtures for i-CON testing.
package testutil

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/icon-pbg/icon-go/internal/config"
	"github.com/icon-pbg/icon-go/internal/database"
	"github.com/icon-pbg/icon-go/pkg/sop"
)

// Row is one line of the PBG monitoring sheet.
type Row struct {
	RegNo             string
	Applicant         string
	Registered        string
	Verifier          string
	SurveyOfficer     string
	TechnicalAssessor string
	Stages            map[string]string
	Status            string
}

// RowOption configures a test row.
type RowOption func(*Row)

// NewTestRow creates a sheet row for testing with optional configuration.
func NewTestRow(regNo string, opts ...RowOption) Row {
	r := Row{
		RegNo:     regNo,
		Applicant: "Pemohon " + regNo,
		Stages:    make(map[string]string),
	}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// WithApplicant sets the applicant name.
func WithApplicant(name string) RowOption {
	return func(r *Row) {
		r.Applicant = name
	}
}

// WithRegistered sets the registration date cell.
func WithRegistered(value string) RowOption {
	return func(r *Row) {
		r.Registered = value
	}
}

// WithStage sets the cell of one stage.
func WithStage(stage, value string) RowOption {
	return func(r *Row) {
		r.Stages[stage] = value
	}
}

// WithSheetStatus sets the STATUS cell.
func WithSheetStatus(status string) RowOption {
	return func(r *Row) {
		r.Status = status
	}
}

// WithOfficers sets the verifier, survey officer and technical assessor.
func WithOfficers(verifier, surveyor, assessor string) RowOption {
	return func(r *Row) {
		r.Verifier = verifier
		r.SurveyOfficer = surveyor
		r.TechnicalAssessor = assessor
	}
}

// SheetHeader returns the header row of the default sheet layout.
func SheetHeader() []string {
	cols := database.DefaultColumns()
	header := []string{
		cols.RegistrationNumber, cols.Applicant, cols.RegistrationDate,
		cols.Verifier, cols.SurveyOfficer, cols.TechnicalAssessor,
	}
	for _, st := range sop.DefaultStages() {
		header = append(header, cols.StageColumn(st.Name))
	}
	return append(header, cols.Status)
}

// Cells returns the row in SheetHeader order.
func (r Row) Cells() []string {
	cells := []string{r.RegNo, r.Applicant, r.Registered, r.Verifier, r.SurveyOfficer, r.TechnicalAssessor}
	for _, st := range sop.DefaultStages() {
		cells = append(cells, r.Stages[st.Name])
	}
	return append(cells, r.Status)
}

// SheetRows returns the header followed by the given rows.
func SheetRows(rows ...Row) [][]string {
	out := [][]string{SheetHeader()}
	for _, r := range rows {
		out = append(out, r.Cells())
	}
	return out
}

// SheetCSV renders rows as a CSV document with the default header.
func SheetCSV(t *testing.T, rows ...Row) string {
	t.Helper()

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(SheetRows(rows...)); err != nil {
		t.Fatalf("Failed to write sheet: %v", err)
	}
	return buf.String()
}

// SampleRows returns one row per status path:
//
//	REG-001 on time (14 days)
//	REG-002 late (29 days)
//	REG-003 in progress
//	REG-004 on time through an earlier stage, final marked "-"
//	REG-005 late according to the sheet
//	REG-006 in progress, registration date unparseable
func SampleRows() []Row {
	return []Row{
		NewTestRow("REG-001", WithApplicant("Budi"), WithRegistered("01/01/2024"),
			WithOfficers("Ani", "Rudi", "Sari"),
			WithStage(sop.StageDocumentVerification, "02/01/2024"),
			WithStage(sop.StageFinalSignOff, "15/01/2024")),
		NewTestRow("REG-002", WithApplicant("Citra"), WithRegistered("01/02/2024"),
			WithOfficers("Ani", "", ""),
			WithStage(sop.StageFinalSignOff, "01/03/2024")),
		NewTestRow("REG-003", WithApplicant("Dewi"), WithRegistered("10/02/2024")),
		NewTestRow("REG-004", WithApplicant("Eko"), WithRegistered("05/03/2024"),
			WithStage(sop.StageConsultationFeeInput, "20/03/2024"),
			WithStage(sop.StageFinalSignOff, "-")),
		NewTestRow("REG-005", WithApplicant("Fajar"), WithRegistered("20/03/2024"),
			WithSheetStatus("Terlambat")),
		NewTestRow("REG-006", WithApplicant("Gita"), WithRegistered("belum"),
			WithStage(sop.StageFinalSignOff, "01/04/2024")),
	}
}

// NewTestDatabase loads rows through the default engine.
func NewTestDatabase(t *testing.T, rows ...Row) *database.Database {
	t.Helper()

	opts, err := config.DefaultConfig().LoadOptions(false)
	if err != nil {
		t.Fatalf("Failed to build load options: %v", err)
	}
	opts.Source = "test"
	db, err := database.ReadCSV(strings.NewReader(SheetCSV(t, rows...)), opts)
	if err != nil {
		t.Fatalf("Failed to load test sheet: %v", err)
	}
	return db
}

// ConfigOption configures a test config.
type ConfigOption func(*config.Config)

// NewTestConfig creates a config for testing with optional configuration.
func NewTestConfig(t *testing.T, opts ...ConfigOption) *config.Config {
	t.Helper()

	cfg := config.DefaultConfig()

	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

// WithSourcePath points the file source at path.
func WithSourcePath(path string) ConfigOption {
	return func(c *config.Config) {
		c.ICON.Source.Kind = config.SourceFile
		c.ICON.Source.Path = path
	}
}

// WithThreshold sets the configured compliance threshold.
func WithThreshold(days int) ConfigOption {
	return func(c *config.Config) {
		c.ICON.ThresholdDays = days
	}
}

// TempProject creates a temporary directory with the .icon structure.
func TempProject(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, ".icon"), 0755); err != nil {
		t.Fatalf("Failed to create .icon directory: %v", err)
	}
	return dir
}

// TempProjectWithSheet creates a temp project holding cfg and a sheet with
// rows at the configured source path.
func TempProjectWithSheet(t *testing.T, cfg *config.Config, rows ...Row) string {
	t.Helper()

	dir := TempProject(t)

	if err := cfg.Save(filepath.Join(dir, ".icon", "config.yaml")); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	sheetPath := cfg.SourcePath(dir)
	if err := os.MkdirAll(filepath.Dir(sheetPath), 0755); err != nil {
		t.Fatalf("Failed to create sheet directory: %v", err)
	}
	if err := os.WriteFile(sheetPath, []byte(SheetCSV(t, rows...)), 0644); err != nil {
		t.Fatalf("Failed to write sheet: %v", err)
	}

	return dir
}
