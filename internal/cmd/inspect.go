package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/icon-pbg/icon-go/internal/output"
)

var inspectFormat string

var inspectCmd = &cobra.Command{
	Use:   "inspect <reg-no>",
	Short: "Show the per-stage breach grid of one application",
	Long: `Show every SOP stage of one application: the recorded date, the days
elapsed since the previous dated stage, the accumulated allowance and
whether the stage breached it.

Examples:
    icon inspect 640/PBG/2024
    icon inspect REG-001 --format markdown`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().StringVar(&inspectFormat, "format", output.FormatText, "output format: text, markdown, html")
}

func runInspect(cmd *cobra.Command, args []string) error {
	db, _, err := loadSnapshot(cmd.Context())
	if err != nil {
		return err
	}

	app := db.Get(args[0])
	if app == nil {
		return NewExitError(1, fmt.Sprintf("application %q not found", args[0]))
	}

	a := db.Assess(app)
	grid, err := output.BreachGrid(a, inspectFormat)
	if err != nil {
		return err
	}

	if inspectFormat == output.FormatText {
		cmd.Println(output.StatusSummary(app.RegNo, a))
		cmd.Printf("Applicant: %s  Registered: %s\n", app.Applicant, app.Registration)
		if !app.Computed && app.SheetStatus != "" {
			cmd.Printf("Status taken from sheet: %q\n", app.SheetStatus)
		}
		cmd.Println()
	}
	cmd.Print(grid)
	return nil
}
