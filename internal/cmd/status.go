package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/icon-pbg/icon-go/internal/database"
	"github.com/icon-pbg/icon-go/internal/output"
	"github.com/icon-pbg/icon-go/pkg/sop"
)

var statusLimit int

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the compliance dashboard",
	Long: `Display overall SOP compliance: how many applications finished on time,
are still in progress or finished late, followed by the priority list of
applications that need attention (in progress first, then late, newest
registrations first).`,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().IntVarP(&statusLimit, "limit", "n", database.DefaultPriorityLimit, "number of priority applications to show")
}

func runStatus(cmd *cobra.Command, args []string) error {
	db, _, err := loadSnapshot(cmd.Context())
	if err != nil {
		return err
	}

	width := 80
	st := db.Statistics()

	cmd.Println(output.Header("i-CON Status", width))
	cmd.Println()
	cmd.Printf("Source: %s (%d applications)\n", db.Source(), st.Total)
	cmd.Println()

	cmd.Printf("On time: %s  %s\n", output.ProgressBar(st.OnTimePct, 50), output.FormatPercent(st.OnTimePct))
	cmd.Printf("%s %d %s  %s %d %s  %s %d %s\n",
		output.StatusIcon(sop.StatusOnTime), st.OnTime, sop.StatusOnTime.Label(),
		output.StatusIcon(sop.StatusInProgress), st.InProgress, sop.StatusInProgress.Label(),
		output.StatusIcon(sop.StatusLate), st.Late, sop.StatusLate.Label())
	cmd.Println()

	priority := db.Priority(statusLimit)
	cmd.Println(output.SubHeader("Priority", width))
	if len(priority) == 0 {
		cmd.Println("No applications need attention.")
		return nil
	}
	cmd.Print(applicationTable(db, priority).RenderCompact())
	return nil
}

// applicationTable renders applications with their status and total days.
func applicationTable(db *database.Database, apps []*database.Application) *output.Table {
	t := output.NewTable("#", "No. Registrasi", "Pemohon", "Tgl Registrasi", "Status", "Breaches", "Total Hari")
	for i, app := range apps {
		a := db.Assess(app)
		t.AddRow(
			fmt.Sprintf("%d", i+1),
			app.RegNo,
			output.Truncate(app.Applicant, 30),
			app.Registration,
			output.StatusIcon(app.Status)+" "+app.Status.Label(),
			fmt.Sprintf("%d", a.Breaches().Count()),
			output.FormatDays(a.TotalDays),
		)
	}
	return t
}
