package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/icon-pbg/icon-go/internal/output"
	"github.com/icon-pbg/icon-go/pkg/sop"
)

var (
	monitorYear int
	monitorAll  bool
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Show monthly status counts",
	Long: `Group applications by registration month and count each status.

Without --year the newest registration year in the data is shown.`,
	RunE: runMonitor,
}

func init() {
	monitorCmd.Flags().IntVar(&monitorYear, "year", 0, "registration year")
	monitorCmd.Flags().BoolVar(&monitorAll, "all", false, "include every year")
}

func runMonitor(cmd *cobra.Command, args []string) error {
	db, _, err := loadSnapshot(cmd.Context())
	if err != nil {
		return err
	}

	year := monitorYear
	if monitorAll {
		year = 0
	} else if year == 0 {
		if years := db.Years(); len(years) > 0 {
			year = years[0]
		}
	}
	m := db.Monthly(year)

	width := 80
	title := "Monitoring (all years)"
	if year != 0 {
		title = fmt.Sprintf("Monitoring %d", year)
	}
	cmd.Println(output.Header(title, width))
	cmd.Println()

	if len(m.Months) == 0 {
		cmd.Println("No registrations in this period.")
	} else {
		t := output.NewTable("Bulan", sop.StatusOnTime.Label(), sop.StatusInProgress.Label(), sop.StatusLate.Label(), "Total")
		for _, mc := range m.Months {
			t.AddRow(mc.Month,
				fmt.Sprintf("%d", mc.OnTime),
				fmt.Sprintf("%d", mc.InProgress),
				fmt.Sprintf("%d", mc.Late),
				fmt.Sprintf("%d", mc.Total()))
		}
		cmd.Print(t.RenderCompact())
	}
	cmd.Println()

	st := m.Totals
	cmd.Printf("Total %d: %s %d (%s)  %s %d  %s %d (%s)\n", st.Total,
		output.StatusIcon(sop.StatusOnTime), st.OnTime, output.FormatPercent(st.OnTimePct),
		output.StatusIcon(sop.StatusInProgress), st.InProgress,
		output.StatusIcon(sop.StatusLate), st.Late, output.FormatPercent(st.LatePct))
	if m.Undated > 0 {
		cmd.Printf("%d application(s) without a valid registration date are not counted.\n", m.Undated)
	}
	return nil
}
