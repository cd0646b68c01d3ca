package database

import (
	"time"

	"github.com/icon-pbg/icon-go/pkg/sop"
)

// Application is one permit application row of the monitoring sheet.
type Application struct {
	// Core identification
	RegNo     string `json:"registration_number"`
	Applicant string `json:"applicant"`

	// Registration is the raw registration date cell.
	Registration string `json:"registration_date"`

	// Stages maps stage name to the raw cell value.
	Stages map[string]string `json:"stages"`

	// Staff
	Verifier          string `json:"verifier,omitempty"`
	SurveyOfficer     string `json:"survey_officer,omitempty"`
	TechnicalAssessor string `json:"technical_assessor,omitempty"`

	// SheetStatus is the status cell as typed in the sheet; Status is the
	// effective status (sheet value when recognised, computed otherwise).
	SheetStatus string     `json:"sheet_status,omitempty"`
	Status      sop.Status `json:"status"`
	Computed    bool       `json:"status_computed"`

	// Row is the 1-based data row number in the source (header excluded).
	Row int `json:"row"`

	// raw keeps the original cells for export.
	raw []string
}

// NewApplication creates an application with defaults.
func NewApplication(regNo string) *Application {
	return &Application{
		RegNo:  regNo,
		Stages: make(map[string]string),
		Status: sop.StatusInProgress,
	}
}

// RegistrationDate implements sop.Record.
func (a *Application) RegistrationDate() string {
	return a.Registration
}

// StageValue implements sop.Record.
func (a *Application) StageValue(stage sop.Stage) string {
	return a.Stages[stage.Name]
}

// RegisteredAt returns the parsed registration date.
func (a *Application) RegisteredAt() (time.Time, bool) {
	return sop.ParseDate(a.Registration)
}

// Raw returns a copy of the original row cells.
func (a *Application) Raw() []string {
	return append([]string(nil), a.raw...)
}

// Clone creates a deep copy of the application.
func (a *Application) Clone() *Application {
	clone := *a
	clone.Stages = make(map[string]string, len(a.Stages))
	for k, v := range a.Stages {
		clone.Stages[k] = v
	}
	clone.raw = append([]string(nil), a.raw...)
	return &clone
}
