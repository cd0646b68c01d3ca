package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/icon-pbg/icon-go/internal/database"
	"github.com/icon-pbg/icon-go/internal/output"
	"github.com/icon-pbg/icon-go/pkg/sop"
)

var healthJSON bool

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the data quality of the monitoring sheet",
	Long: `Run data quality checks on the configured source.

Checks:
  config          configuration is valid
  source          the source can be read and has the required columns
  duplicates      registration numbers appear once
  registration    registration dates parse
  stage_dates     stage cells hold dates or placeholders
  sheet_status    STATUS cells agree with the computed classification

Exit codes:
  0  All checks passed
  1  Warnings present (non-blocking issues)
  2  Errors present (blocking issues)

Use --json for machine-readable output in CI/CD pipelines.`,
	RunE: runHealth,
}

func init() {
	healthCmd.Flags().BoolVar(&healthJSON, "json", false, "output as JSON")
}

// Check result levels.
const (
	checkPass  = "pass"
	checkWarn  = "warn"
	checkError = "error"
)

// maxDetails caps the rows listed per check.
const maxDetails = 10

type healthCheck struct {
	Name    string   `json:"name"`
	Status  string   `json:"status"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

type healthReport struct {
	Status   string        `json:"status"`
	Source   string        `json:"source,omitempty"`
	Checks   []healthCheck `json:"checks"`
	Errors   int           `json:"errors"`
	Warnings int           `json:"warnings"`
}

func (r *healthReport) add(c healthCheck) {
	if len(c.Details) > maxDetails {
		more := len(c.Details) - maxDetails
		c.Details = append(c.Details[:maxDetails:maxDetails], fmt.Sprintf("... and %d more", more))
	}
	r.Checks = append(r.Checks, c)
	switch c.Status {
	case checkError:
		r.Errors++
	case checkWarn:
		r.Warnings++
	}
}

func (r *healthReport) finish() {
	switch {
	case r.Errors > 0:
		r.Status = "error"
	case r.Warnings > 0:
		r.Status = "warning"
	default:
		r.Status = "ok"
	}
}

func (r *healthReport) exitCode() int {
	switch {
	case r.Errors > 0:
		return 2
	case r.Warnings > 0:
		return 1
	default:
		return 0
	}
}

func runHealth(cmd *cobra.Command, args []string) error {
	applyColor()
	rep := &healthReport{}

	p, err := loadProject()
	if err != nil {
		rep.add(healthCheck{Name: "config", Status: checkError, Message: err.Error()})
		return finishHealth(cmd, rep)
	}
	if err := p.cfg.Validate(); err != nil {
		rep.add(healthCheck{Name: "config", Status: checkError, Message: "configuration is invalid",
			Details: strings.Split(err.Error(), "\n")})
		return finishHealth(cmd, rep)
	}
	rep.add(healthCheck{Name: "config", Status: checkPass, Message: "configuration is valid"})

	src, err := p.source()
	if err != nil {
		rep.add(healthCheck{Name: "source", Status: checkError, Message: err.Error()})
		return finishHealth(cmd, rep)
	}
	rep.Source = src.Name()

	db, err := p.load(cmd.Context())
	if err != nil {
		msg := err.Error()
		if errors.Is(err, database.ErrMissingColumns) {
			msg = "sheet is missing required columns: " + msg
		}
		rep.add(healthCheck{Name: "source", Status: checkError, Message: msg})
		return finishHealth(cmd, rep)
	}
	rep.add(healthCheck{Name: "source", Status: checkPass, Message: fmt.Sprintf("read %d applications", db.Len())})

	for _, check := range []func(*database.Database) healthCheck{
		checkDuplicates,
		checkRegistrationDates,
		checkStageDates,
		checkSheetStatus,
	} {
		rep.add(check(db))
	}
	return finishHealth(cmd, rep)
}

func checkDuplicates(db *database.Database) healthCheck {
	dups := db.Duplicates()
	if len(dups) == 0 {
		return healthCheck{Name: "duplicates", Status: checkPass, Message: "registration numbers are unique"}
	}
	return healthCheck{Name: "duplicates", Status: checkWarn,
		Message: fmt.Sprintf("%d duplicate registration number(s); the first row of each is used", len(dups)),
		Details: dups}
}

func checkRegistrationDates(db *database.Database) healthCheck {
	var bad []string
	for _, app := range db.All() {
		if _, ok := app.RegisteredAt(); !ok {
			bad = append(bad, fmt.Sprintf("row %d %s: %q", app.Row, app.RegNo, app.Registration))
		}
	}
	if len(bad) == 0 {
		return healthCheck{Name: "registration", Status: checkPass, Message: "all registration dates parse"}
	}
	return healthCheck{Name: "registration", Status: checkWarn,
		Message: fmt.Sprintf("%d application(s) have no valid registration date and stay in progress", len(bad)),
		Details: bad}
}

func checkStageDates(db *database.Database) healthCheck {
	engine := db.Engine()
	var bad []string
	for _, app := range db.All() {
		for _, st := range engine.Schedule().Stages() {
			value := app.StageValue(st)
			if engine.Kind(value) == sop.KindInvalid {
				bad = append(bad, fmt.Sprintf("row %d %s, %s: %q", app.Row, app.RegNo, st.Name, value))
			}
		}
	}
	if len(bad) == 0 {
		return healthCheck{Name: "stage_dates", Status: checkPass, Message: "all stage cells are dates, placeholders or empty"}
	}
	return healthCheck{Name: "stage_dates", Status: checkWarn,
		Message: fmt.Sprintf("%d stage cell(s) could not be read as dates", len(bad)),
		Details: bad}
}

func checkSheetStatus(db *database.Database) healthCheck {
	engine := db.Engine()
	var bad []string
	for _, app := range db.All() {
		if app.Computed {
			continue
		}
		if computed := engine.Classify(app); computed != app.Status {
			bad = append(bad, fmt.Sprintf("%s: sheet %q, computed %q", app.RegNo, app.SheetStatus, computed.Label()))
		}
	}
	if len(bad) == 0 {
		return healthCheck{Name: "sheet_status", Status: checkPass, Message: "sheet statuses agree with the schedule"}
	}
	return healthCheck{Name: "sheet_status", Status: checkWarn,
		Message: fmt.Sprintf("%d sheet status(es) disagree with the schedule (use --recompute)", len(bad)),
		Details: bad}
}

func finishHealth(cmd *cobra.Command, rep *healthReport) error {
	rep.finish()

	if healthJSON {
		data, err := json.MarshalIndent(rep, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal health report: %w", err)
		}
		cmd.Println(string(data))
	} else {
		displayHealth(cmd, rep)
	}

	if code := rep.exitCode(); code != 0 {
		return NewExitError(code, "")
	}
	return nil
}

func displayHealth(cmd *cobra.Command, rep *healthReport) {
	width := 80
	cmd.Println(output.Header("Health Check", width))
	cmd.Println()
	if rep.Source != "" {
		cmd.Printf("Source: %s\n\n", rep.Source)
	}

	for _, c := range rep.Checks {
		var tag string
		switch c.Status {
		case checkPass:
			tag = output.Color("[PASS]", output.Green)
		case checkWarn:
			tag = output.Color("[WARN]", output.Yellow)
		default:
			tag = output.Color("[FAIL]", output.Red)
		}
		cmd.Printf("  %s %-13s %s\n", tag, c.Name, c.Message)
		for _, d := range c.Details {
			cmd.Printf("         %s\n", d)
		}
	}
	cmd.Println()

	switch rep.Status {
	case "error":
		cmd.Printf("Status: %s (%d errors, %d warnings)\n", output.Color("ERROR", output.Red), rep.Errors, rep.Warnings)
	case "warning":
		cmd.Printf("Status: %s (%d warnings)\n", output.Color("WARNING", output.Yellow), rep.Warnings)
	default:
		cmd.Printf("Status: %s\n", output.Color("OK", output.Green))
	}
}
