package cmd

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/icon-pbg/icon-go/internal/config"
	"github.com/icon-pbg/icon-go/internal/database"
	"github.com/icon-pbg/icon-go/internal/output"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize i-CON in the current directory",
	Long: `Create a default configuration and an empty monitoring sheet:

  .icon/
  └── config.yaml         # Source, columns and SOP schedule
  data/
  └── permohonan.csv      # Monitoring sheet with the expected header

Existing files are kept unless --force is given.`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite existing files")

	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	applyColor()

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}

	cfg := config.DefaultConfig()
	configPath := filepath.Join(cwd, ".icon", "config.yaml")
	sheetPath := cfg.SourcePath(cwd)

	if !initForce {
		var existing []string
		for _, path := range []string{configPath, sheetPath} {
			if _, err := os.Stat(path); err == nil {
				existing = append(existing, path)
			}
		}
		if len(existing) > 0 {
			cmd.Printf("%s The following already exist:\n", output.Color("Warning:", output.Yellow))
			for _, path := range existing {
				cmd.Printf("  %s\n", path)
			}
			cmd.Printf("\n%s\n", output.Color("Use --force to overwrite", output.Dim))
			return NewExitError(1, "")
		}
	}

	cmd.Printf("Creating i-CON project in %s\n\n", cwd)

	if err := cfg.Save(configPath); err != nil {
		return err
	}
	cmd.Printf("  %s %s\n", output.Checkmark(true), configPath)

	if err := writeEmptySheet(sheetPath, cfg); err != nil {
		return err
	}
	cmd.Printf("  %s %s\n", output.Checkmark(true), sheetPath)

	cmd.Println()
	cmd.Println("Next steps:")
	cmd.Println("  1. Fill in data/permohonan.csv or point source.path at your sheet")
	cmd.Println("  2. Run 'icon health' to check the data")
	cmd.Println("  3. Run 'icon status' to see the dashboard")
	return nil
}

// writeEmptySheet writes the header row the configured columns expect.
func writeEmptySheet(path string, cfg *config.Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	cols := cfg.ColumnSet()
	header := []string{
		cols.RegistrationNumber, cols.Applicant, cols.RegistrationDate,
		cols.Verifier, cols.SurveyOfficer, cols.TechnicalAssessor,
	}
	for _, st := range cfg.ICON.Stages {
		header = append(header, cols.StageColumn(st.Name))
	}
	header = append(header, database.StatusColumn)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		f.Close()
		return fmt.Errorf("failed to write sheet: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("failed to write sheet: %w", err)
	}
	return f.Close()
}
