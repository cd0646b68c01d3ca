// Package database provides the application snapshot loaded from the PBG
// monitoring sheet and the queries the CLI and API run against it.
package database

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/icon-pbg/icon-go/pkg/sop"
)

// Database is an immutable snapshot of the monitoring sheet.
type Database struct {
	id       string
	loadedAt time.Time

	// apps stores all rows in source order.
	apps []*Application

	// byRegNo indexes the first row of each registration number.
	byRegNo map[string]*Application

	// duplicates lists registration numbers seen more than once.
	duplicates []string

	engine  *sop.Engine
	columns *ColumnMap
	source  string
}

func newDatabase(engine *sop.Engine, columns *ColumnMap, source string) *Database {
	return &Database{
		id:       uuid.NewString(),
		loadedAt: time.Now().UTC(),
		byRegNo:  make(map[string]*Application),
		engine:   engine,
		columns:  columns,
		source:   source,
	}
}

func (db *Database) add(app *Application) {
	if app.RegNo == "" {
		app.RegNo = fmt.Sprintf("ROW-%d", app.Row)
	}
	key := strings.ToUpper(app.RegNo)
	if _, dup := db.byRegNo[key]; dup {
		db.duplicates = append(db.duplicates, app.RegNo)
	} else {
		db.byRegNo[key] = app
	}
	db.apps = append(db.apps, app)
}

// ID returns the unique snapshot identifier.
func (db *Database) ID() string {
	return db.id
}

// LoadedAt returns when the snapshot was built.
func (db *Database) LoadedAt() time.Time {
	return db.loadedAt
}

// Source returns where the snapshot was loaded from.
func (db *Database) Source() string {
	return db.source
}

// Engine returns the engine used to classify the rows.
func (db *Database) Engine() *sop.Engine {
	return db.engine
}

// Columns returns the resolved column map.
func (db *Database) Columns() *ColumnMap {
	return db.columns
}

// Len returns the number of applications.
func (db *Database) Len() int {
	return len(db.apps)
}

// Get retrieves an application by registration number (case-insensitive).
func (db *Database) Get(regNo string) *Application {
	return db.byRegNo[strings.ToUpper(strings.TrimSpace(regNo))]
}

// Exists checks if a registration number is present.
func (db *Database) Exists(regNo string) bool {
	return db.Get(regNo) != nil
}

// All returns all applications in source order.
func (db *Database) All() []*Application {
	return append([]*Application(nil), db.apps...)
}

// Duplicates returns registration numbers that appear on more than one row.
// Lookups by number return the first row.
func (db *Database) Duplicates() []string {
	return append([]string(nil), db.duplicates...)
}

// Assess runs the full engine assessment for an application.
func (db *Database) Assess(app *Application) sop.Assessment {
	a := db.engine.Assess(app)
	// Keep the effective status consistent with the list views.
	a.Status = app.Status
	return a
}

// SearchField selects which column a keyword search looks at.
type SearchField string

const (
	FieldAny               SearchField = ""
	FieldRegNo             SearchField = "registration_number"
	FieldApplicant         SearchField = "applicant"
	FieldVerifier          SearchField = "verifier"
	FieldSurveyOfficer     SearchField = "survey_officer"
	FieldTechnicalAssessor SearchField = "technical_assessor"
	FieldStatus            SearchField = "status"
)

// SearchFields returns the searchable fields in display order.
func SearchFields() []SearchField {
	return []SearchField{
		FieldRegNo, FieldApplicant, FieldVerifier,
		FieldSurveyOfficer, FieldTechnicalAssessor, FieldStatus,
	}
}

// ParseSearchField parses a field name; "" and "any" search every field.
func ParseSearchField(s string) (SearchField, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.ReplaceAll(key, "-", "_")
	switch key {
	case "", "any", "all":
		return FieldAny, nil
	case "reg", "regno", "registration", "registration_number":
		return FieldRegNo, nil
	}
	for _, f := range SearchFields() {
		if string(f) == key {
			return f, nil
		}
	}
	return FieldAny, fmt.Errorf("invalid search field: %q", s)
}

// value returns the application's value for a field.
func (f SearchField) value(app *Application) []string {
	switch f {
	case FieldRegNo:
		return []string{app.RegNo}
	case FieldApplicant:
		return []string{app.Applicant}
	case FieldVerifier:
		return []string{app.Verifier}
	case FieldSurveyOfficer:
		return []string{app.SurveyOfficer}
	case FieldTechnicalAssessor:
		return []string{app.TechnicalAssessor}
	case FieldStatus:
		return []string{app.Status.String(), app.Status.Label()}
	default:
		return []string{
			app.RegNo, app.Applicant, app.Verifier,
			app.SurveyOfficer, app.TechnicalAssessor,
		}
	}
}

// SearchOptions specifies criteria for searching applications.
type SearchOptions struct {
	Field   SearchField
	Keyword string
	// Statuses restricts results; empty means all statuses.
	Statuses []sop.Status
}

// Search returns applications matching the given criteria in source order.
func (db *Database) Search(opts SearchOptions) []*Application {
	keyword := strings.ToLower(strings.TrimSpace(opts.Keyword))
	allowed := make(map[sop.Status]bool, len(opts.Statuses))
	for _, s := range opts.Statuses {
		allowed[s] = true
	}

	results := make([]*Application, 0)
	for _, app := range db.apps {
		if len(allowed) > 0 && !allowed[app.Status] {
			continue
		}
		if keyword != "" && !matches(opts.Field.value(app), keyword) {
			continue
		}
		results = append(results, app)
	}
	return results
}

func matches(values []string, keyword string) bool {
	for _, v := range values {
		if strings.Contains(strings.ToLower(v), keyword) {
			return true
		}
	}
	return false
}
