package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/icon-pbg/icon-go/internal/config"
	"github.com/icon-pbg/icon-go/internal/database"
	"github.com/icon-pbg/icon-go/internal/output"
	"github.com/icon-pbg/icon-go/pkg/sop"
)

var docsOutput string

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Generate reference documentation for the sheet and the SOP",
	Long: `Generate markdown reference documentation from the effective configuration.

Examples:
    icon docs sheet                 # Generate sheet.md
    icon docs sop                   # Generate sop.md
    icon docs sop -o docs/          # Custom output location`,
}

var docsSheetCmd = &cobra.Command{
	Use:   "sheet",
	Short: "Generate the monitoring sheet column reference",
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeDoc(cmd, "sheet.md", generateSheetDoc)
	},
}

var docsSOPCmd = &cobra.Command{
	Use:   "sop",
	Short: "Generate the SOP schedule and classification reference",
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeDoc(cmd, "sop.md", generateSOPDoc)
	},
}

func init() {
	docsCmd.PersistentFlags().StringVarP(&docsOutput, "output", "o", "", "output directory or file")

	docsCmd.AddCommand(docsSheetCmd)
	docsCmd.AddCommand(docsSOPCmd)
	rootCmd.AddCommand(docsCmd)
}

func writeDoc(cmd *cobra.Command, name string, generate func(*config.Config) (string, error)) error {
	p, err := loadProject()
	if err != nil {
		return err
	}
	content, err := generate(p.cfg)
	if err != nil {
		return err
	}

	if docsOutput != "" {
		outPath := docsOutput
		if info, err := os.Stat(docsOutput); err == nil && info.IsDir() {
			outPath = filepath.Join(docsOutput, name)
		}
		if err := os.WriteFile(outPath, []byte(content), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
		cmd.Printf("Written to %s\n", outPath)
		return nil
	}

	cmd.Print(content)
	return nil
}

func generateSheetDoc(cfg *config.Config) (string, error) {
	var sb strings.Builder
	cols := cfg.ColumnSet()

	sb.WriteString("# PBG Monitoring Sheet\n\n")
	sb.WriteString("Column names are matched case-insensitively, ignoring surrounding spaces.\n\n")

	sb.WriteString("## Application Columns\n\n")
	t := output.NewTable("Column", "Required", "Description")
	t.AddRow(cols.RegistrationNumber, "Yes", "Registration number, unique per application")
	t.AddRow(cols.Applicant, "No", "Applicant name")
	t.AddRow(cols.RegistrationDate, "Yes", "Registration date (DD/MM/YYYY)")
	t.AddRow(cols.Verifier, "No", "Document verifier")
	t.AddRow(cols.SurveyOfficer, "No", "Survey officer")
	t.AddRow(cols.TechnicalAssessor, "No", "Technical assessor (TPT/TPA)")
	t.AddRow(cols.Status, "No", "Recorded status; computed when blank or unknown")
	sb.WriteString(t.RenderMarkdown())
	sb.WriteString("\n")

	sb.WriteString("## Stage Columns\n\n")
	stages := output.NewTable("#", "Column", "Stage", "SOP Days")
	for i, st := range cfg.ICON.Stages {
		stages.AddRow(fmt.Sprintf("%d", i+1), cols.StageColumn(st.Name), st.Name, fmt.Sprintf("%d", st.SOPDays))
	}
	sb.WriteString(stages.RenderMarkdown())
	sb.WriteString("\n")

	sb.WriteString("## Cell Values\n\n")
	sb.WriteString("- Dates are day-first: `DD/MM/YYYY`, `DD-MM-YYYY`, `DD/MM/YY`, `YYYY-MM-DD` and Excel serial numbers.\n")
	sb.WriteString(fmt.Sprintf("- Placeholders mark a stage as not applicable: %s.\n", quoteList(cfg.ICON.Placeholders)))
	sb.WriteString("- Empty cells mean the stage has not happened yet.\n\n")

	sb.WriteString("## Export Columns\n\n")
	sb.WriteString(fmt.Sprintf("Exports keep every source column and add `%s` (when absent) and `%s`.\n",
		database.StatusColumn, database.TotalDaysColumn))
	return sb.String(), nil
}

func generateSOPDoc(cfg *config.Config) (string, error) {
	engine, err := cfg.Engine()
	if err != nil {
		return "", fmt.Errorf("invalid configuration: %w", err)
	}
	schedule := engine.Schedule()

	var sb strings.Builder
	sb.WriteString("# PBG Standard Operating Procedure\n\n")
	sb.WriteString(fmt.Sprintf("%d stages, %d days in total.\n\n", schedule.Len(), schedule.Budget()))

	t := output.NewTable("#", "Stage", "SOP Days", "Cumulative")
	cumulative := 0
	for i, st := range schedule.Stages() {
		cumulative += st.SOPDays
		t.AddRow(fmt.Sprintf("%d", i+1), st.Name, fmt.Sprintf("%d", st.SOPDays), fmt.Sprintf("%d", cumulative))
	}
	sb.WriteString(t.RenderMarkdown())
	sb.WriteString("\n")

	sb.WriteString("## Status\n\n")
	status := output.NewTable("Status", "Label", "Rule")
	status.AddRow(string(sop.StatusOnTime), sop.StatusOnTime.Label(),
		fmt.Sprintf("completed within %d days of registration", engine.Threshold()))
	status.AddRow(string(sop.StatusLate), sop.StatusLate.Label(),
		fmt.Sprintf("completed more than %d days after registration", engine.Threshold()))
	status.AddRow(string(sop.StatusInProgress), sop.StatusInProgress.Label(),
		"no completion date, or no valid registration date")
	sb.WriteString(status.RenderMarkdown())
	sb.WriteString("\n")
	sb.WriteString("The completion date is the final stage's date. When the final stage is a placeholder, ")
	sb.WriteString("the latest dated stage before it is used instead.\n\n")

	sb.WriteString("## Stage Breaches\n\n")
	sb.WriteString("Each dated stage is compared with the previous dated stage (or the registration date). ")
	sb.WriteString("The allowance is the stage's SOP days plus those of any undated stages skipped since. ")
	sb.WriteString("A stage breaches when the days elapsed exceed its allowance.\n")
	return sb.String(), nil
}

func quoteList(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = fmt.Sprintf("`%s`", s)
	}
	return strings.Join(quoted, ", ")
}
