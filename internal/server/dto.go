package server

import (
	"time"

	"github.com/icon-pbg/icon-go/internal/database"
	"github.com/icon-pbg/icon-go/pkg/sop"
)

type healthBody struct {
	Status   string `json:"status" example:"ok"`
	Snapshot string `json:"snapshot_id,omitempty"`
	Stale    bool   `json:"stale"`
}

type scheduleBody struct {
	Stages    []sop.Stage `json:"stages"`
	Budget    int         `json:"budget_days"`
	Threshold int         `json:"threshold_days"`
}

type statisticsBody struct {
	SnapshotID string              `json:"snapshot_id"`
	LoadedAt   time.Time           `json:"loaded_at"`
	Statistics database.Statistics `json:"statistics"`
}

// applicationView is one row of a list response.
type applicationView struct {
	RegNo        string     `json:"registration_number"`
	Applicant    string     `json:"applicant"`
	Registration string     `json:"registration_date"`
	Status       sop.Status `json:"status"`
	StatusLabel  string     `json:"status_label"`
	Computed     bool       `json:"status_computed"`
	TotalDays    *int       `json:"total_days,omitempty"`
	Breaches     []bool     `json:"breaches"`
	BreachCount  int        `json:"breach_count"`
}

func newApplicationView(db *database.Database, app *database.Application) applicationView {
	a := db.Assess(app)
	breaches := a.Breaches()
	return applicationView{
		RegNo:        app.RegNo,
		Applicant:    app.Applicant,
		Registration: app.Registration,
		Status:       app.Status,
		StatusLabel:  app.Status.Label(),
		Computed:     app.Computed,
		TotalDays:    a.TotalDays,
		Breaches:     []bool(breaches),
		BreachCount:  breaches.Count(),
	}
}

func newApplicationViews(db *database.Database, apps []*database.Application) []applicationView {
	views := make([]applicationView, 0, len(apps))
	for _, app := range apps {
		views = append(views, newApplicationView(db, app))
	}
	return views
}

type applicationListBody struct {
	Total        int               `json:"total"`
	Applications []applicationView `json:"applications"`
}

type applicationDetailBody struct {
	Application *database.Application `json:"application"`
	Assessment  sop.Assessment        `json:"assessment"`
}

type monitoringBody struct {
	Years      []int               `json:"years"`
	Monitoring database.Monitoring `json:"monitoring"`
}

type reportBody struct {
	From         string              `json:"from"`
	To           string              `json:"to"`
	FileName     string              `json:"file_name"`
	Summary      database.Statistics `json:"summary"`
	Applications []applicationView   `json:"applications"`
}
