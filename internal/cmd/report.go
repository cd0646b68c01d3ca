package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/icon-pbg/icon-go/internal/output"
	"github.com/icon-pbg/icon-go/pkg/sop"
)

var (
	reportFrom   string
	reportTo     string
	reportExport string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Report applications registered in a date range",
	Long: `List the applications registered between --from and --to (both inclusive)
with a status summary. Dates are YYYY-MM-DD or DD/MM/YYYY.

--export writes the rows as CSV with the computed STATUS and TOTAL HARI
columns. When the target is a directory the file is named
Laporan_PBG_<from>_to_<to>.csv.

Examples:
    icon report --from 2024-01-01 --to 2024-03-31
    icon report --from 01/01/2024 --to 31/03/2024 --export reports/`,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportFrom, "from", "", "first registration day")
	reportCmd.Flags().StringVar(&reportTo, "to", "", "last registration day")
	reportCmd.Flags().StringVar(&reportExport, "export", "", "write the report as CSV to this file or directory")
}

// parseReportDate accepts ISO dates and the sheet's day-first formats.
func parseReportDate(flag, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("--%s is required", flag)
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	if t, ok := sop.ParseDate(value); ok {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid --%s date %q (want YYYY-MM-DD or DD/MM/YYYY)", flag, value)
}

func runReport(cmd *cobra.Command, args []string) error {
	from, err := parseReportDate("from", reportFrom)
	if err != nil {
		return err
	}
	to, err := parseReportDate("to", reportTo)
	if err != nil {
		return err
	}
	if from.After(to) {
		return fmt.Errorf("--from %s is after --to %s", from.Format("2006-01-02"), to.Format("2006-01-02"))
	}

	db, _, err := loadSnapshot(cmd.Context())
	if err != nil {
		return err
	}
	rep := db.Report(from, to)

	width := 80
	cmd.Println(output.Header(fmt.Sprintf("Laporan PBG %s to %s", rep.From.Format("2006-01-02"), rep.To.Format("2006-01-02")), width))
	cmd.Println()

	st := rep.Summary
	cmd.Printf("%d applications: %s %d %s  %s %d %s  %s %d %s\n", st.Total,
		output.StatusIcon(sop.StatusOnTime), st.OnTime, sop.StatusOnTime.Label(),
		output.StatusIcon(sop.StatusInProgress), st.InProgress, sop.StatusInProgress.Label(),
		output.StatusIcon(sop.StatusLate), st.Late, sop.StatusLate.Label())
	cmd.Printf("On time: %s  Late: %s\n", output.FormatPercent(st.OnTimePct), output.FormatPercent(st.LatePct))
	cmd.Println()

	if len(rep.Applications) > 0 {
		cmd.Print(applicationTable(db, rep.Applications).RenderCompact())
	}

	if reportExport == "" {
		return nil
	}
	path := reportExport
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, rep.FileName())
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	if err := db.WriteCSV(f, rep.Applications); err != nil {
		f.Close()
		return fmt.Errorf("failed to write export: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	cmd.Printf("\n%s Exported %d rows to %s\n", output.Checkmark(true), len(rep.Applications), path)
	return nil
}
