package server

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/icon-pbg/icon-go/internal/database"
	"github.com/icon-pbg/icon-go/pkg/sop"
)

const reportDateLayout = "2006-01-02"

func registerHealth(api huma.API, h *handlers) {
	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body healthBody `json:"body"`
	}, error) {
		st := h.store.Status()
		return &struct {
			Body healthBody `json:"body"`
		}{Body: healthBody{Status: "ok", Snapshot: st.SnapshotID, Stale: st.Stale}}, nil
	})
}

func registerSchedule(api huma.API, h *handlers) {
	huma.Register(api, huma.Operation{
		OperationID: "schedule",
		Method:      http.MethodGet,
		Path:        "/schedule",
		Summary:     "SOP stage schedule",
		Errors:      []int{http.StatusServiceUnavailable},
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body scheduleBody `json:"body"`
	}, error) {
		db, err := h.snapshot(ctx)
		if err != nil {
			return nil, err
		}
		engine := db.Engine()
		return &struct {
			Body scheduleBody `json:"body"`
		}{Body: scheduleBody{
			Stages:    engine.Schedule().Stages(),
			Budget:    engine.Schedule().Budget(),
			Threshold: engine.Threshold(),
		}}, nil
	})
}

func registerStatistics(api huma.API, h *handlers) {
	huma.Register(api, huma.Operation{
		OperationID: "statistics",
		Method:      http.MethodGet,
		Path:        "/statistics",
		Summary:     "Status counts",
		Errors:      []int{http.StatusServiceUnavailable},
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body statisticsBody `json:"body"`
	}, error) {
		db, err := h.snapshot(ctx)
		if err != nil {
			return nil, err
		}
		return &struct {
			Body statisticsBody `json:"body"`
		}{Body: statisticsBody{
			SnapshotID: db.ID(),
			LoadedAt:   db.LoadedAt(),
			Statistics: db.Statistics(),
		}}, nil
	})
}

func registerApplications(api huma.API, h *handlers) {
	type searchInput struct {
		Field  string `query:"field" doc:"Column to search: any, registration_number, applicant, verifier, survey_officer, technical_assessor, status"`
		Query  string `query:"q" doc:"Case-insensitive keyword"`
		Status string `query:"status" doc:"Comma-separated statuses to keep"`
	}
	huma.Register(api, huma.Operation{
		OperationID: "search-applications",
		Method:      http.MethodGet,
		Path:        "/applications",
		Summary:     "Search applications",
		Errors:      []int{http.StatusBadRequest, http.StatusServiceUnavailable},
	}, func(ctx context.Context, input *searchInput) (*struct {
		Body applicationListBody `json:"body"`
	}, error) {
		field, err := database.ParseSearchField(input.Field)
		if err != nil {
			return nil, newAPIError(http.StatusBadRequest, "bad_request", err.Error(), nil)
		}
		statuses, err := parseStatuses(input.Status)
		if err != nil {
			return nil, newAPIError(http.StatusBadRequest, "bad_request", err.Error(), nil)
		}
		db, err := h.snapshot(ctx)
		if err != nil {
			return nil, err
		}
		apps := db.Search(database.SearchOptions{Field: field, Keyword: input.Query, Statuses: statuses})
		return &struct {
			Body applicationListBody `json:"body"`
		}{Body: applicationListBody{Total: len(apps), Applications: newApplicationViews(db, apps)}}, nil
	})

	type regNoPath struct {
		RegNo string `path:"reg_no"`
	}
	huma.Register(api, huma.Operation{
		OperationID: "get-application",
		Method:      http.MethodGet,
		Path:        "/applications/{reg_no}",
		Summary:     "Assess one application",
		Errors:      []int{http.StatusNotFound, http.StatusServiceUnavailable},
	}, func(ctx context.Context, input *regNoPath) (*struct {
		Body applicationDetailBody `json:"body"`
	}, error) {
		db, err := h.snapshot(ctx)
		if err != nil {
			return nil, err
		}
		// Registration numbers often contain slashes, sent as %2F.
		regNo := input.RegNo
		if unescaped, err := url.PathUnescape(regNo); err == nil {
			regNo = unescaped
		}
		app := db.Get(regNo)
		if app == nil {
			return nil, handleError(fmt.Errorf("application %q: %w", regNo, errNotFound))
		}
		return &struct {
			Body applicationDetailBody `json:"body"`
		}{Body: applicationDetailBody{Application: app, Assessment: db.Assess(app)}}, nil
	})
}

func registerPriority(api huma.API, h *handlers) {
	type priorityInput struct {
		Limit int `query:"limit" default:"5" minimum:"1" maximum:"1000"`
	}
	huma.Register(api, huma.Operation{
		OperationID: "priority",
		Method:      http.MethodGet,
		Path:        "/priority",
		Summary:     "Applications needing attention",
		Errors:      []int{http.StatusBadRequest, http.StatusServiceUnavailable},
	}, func(ctx context.Context, input *priorityInput) (*struct {
		Body applicationListBody `json:"body"`
	}, error) {
		db, err := h.snapshot(ctx)
		if err != nil {
			return nil, err
		}
		apps := db.Priority(input.Limit)
		return &struct {
			Body applicationListBody `json:"body"`
		}{Body: applicationListBody{Total: len(apps), Applications: newApplicationViews(db, apps)}}, nil
	})
}

func registerMonitoring(api huma.API, h *handlers) {
	type monitoringInput struct {
		Year int `query:"year" minimum:"0" doc:"Registration year; 0 for all years"`
	}
	huma.Register(api, huma.Operation{
		OperationID: "monitoring",
		Method:      http.MethodGet,
		Path:        "/monitoring",
		Summary:     "Monthly status counts",
		Errors:      []int{http.StatusBadRequest, http.StatusServiceUnavailable},
	}, func(ctx context.Context, input *monitoringInput) (*struct {
		Body monitoringBody `json:"body"`
	}, error) {
		db, err := h.snapshot(ctx)
		if err != nil {
			return nil, err
		}
		return &struct {
			Body monitoringBody `json:"body"`
		}{Body: monitoringBody{Years: db.Years(), Monitoring: db.Monthly(input.Year)}}, nil
	})
}

type reportInput struct {
	From string `query:"from" required:"true" doc:"First registration day, YYYY-MM-DD"`
	To   string `query:"to" required:"true" doc:"Last registration day, YYYY-MM-DD"`
}

func (in *reportInput) parse() (time.Time, time.Time, error) {
	from, err := time.Parse(reportDateLayout, strings.TrimSpace(in.From))
	if err != nil {
		return time.Time{}, time.Time{}, newAPIError(http.StatusBadRequest, "bad_request",
			fmt.Sprintf("invalid from date %q (want YYYY-MM-DD)", in.From), nil)
	}
	to, err := time.Parse(reportDateLayout, strings.TrimSpace(in.To))
	if err != nil {
		return time.Time{}, time.Time{}, newAPIError(http.StatusBadRequest, "bad_request",
			fmt.Sprintf("invalid to date %q (want YYYY-MM-DD)", in.To), nil)
	}
	if from.After(to) {
		return time.Time{}, time.Time{}, newAPIError(http.StatusBadRequest, "bad_request",
			"from date is after to date", map[string]any{"from": in.From, "to": in.To})
	}
	return from, to, nil
}

func registerReport(api huma.API, h *handlers) {
	huma.Register(api, huma.Operation{
		OperationID: "report",
		Method:      http.MethodGet,
		Path:        "/report",
		Summary:     "Applications registered in a date range",
		Errors:      []int{http.StatusBadRequest, http.StatusServiceUnavailable},
	}, func(ctx context.Context, input *reportInput) (*struct {
		Body reportBody `json:"body"`
	}, error) {
		from, to, err := input.parse()
		if err != nil {
			return nil, err
		}
		db, err := h.snapshot(ctx)
		if err != nil {
			return nil, err
		}
		rep := db.Report(from, to)
		return &struct {
			Body reportBody `json:"body"`
		}{Body: reportBody{
			From:         rep.From.Format(reportDateLayout),
			To:           rep.To.Format(reportDateLayout),
			FileName:     rep.FileName(),
			Summary:      rep.Summary,
			Applications: newApplicationViews(db, rep.Applications),
		}}, nil
	})

	type csvOutput struct {
		ContentType        string `header:"Content-Type"`
		ContentDisposition string `header:"Content-Disposition"`
		Body               []byte
	}
	huma.Register(api, huma.Operation{
		OperationID: "report-csv",
		Method:      http.MethodGet,
		Path:        "/report.csv",
		Summary:     "Export a date range as CSV",
		Errors:      []int{http.StatusBadRequest, http.StatusServiceUnavailable},
	}, func(ctx context.Context, input *reportInput) (*csvOutput, error) {
		from, to, err := input.parse()
		if err != nil {
			return nil, err
		}
		db, err := h.snapshot(ctx)
		if err != nil {
			return nil, err
		}
		rep := db.Report(from, to)
		var buf bytes.Buffer
		if err := db.WriteCSV(&buf, rep.Applications); err != nil {
			return nil, handleError(err)
		}
		return &csvOutput{
			ContentType:        "text/csv; charset=utf-8",
			ContentDisposition: fmt.Sprintf("attachment; filename=%q", rep.FileName()),
			Body:               buf.Bytes(),
		}, nil
	})
}

func parseStatuses(s string) ([]sop.Status, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var statuses []sop.Status
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		st, err := sop.ParseStatus(part)
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, st)
	}
	return statuses, nil
}
