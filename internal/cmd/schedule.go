package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/icon-pbg/icon-go/internal/output"
	"github.com/icon-pbg/icon-go/pkg/sop"
)

var scheduleJSON bool

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Print the SOP stage schedule",
	Long:  `Print the configured processing stages, their SOP days and the total budget.`,
	RunE:  runSchedule,
}

func init() {
	scheduleCmd.Flags().BoolVar(&scheduleJSON, "json", false, "output as JSON")
}

type scheduleView struct {
	Stages    []sop.Stage `json:"stages"`
	Budget    int         `json:"budget_days"`
	Threshold int         `json:"threshold_days"`
}

func runSchedule(cmd *cobra.Command, args []string) error {
	applyColor()
	p, err := loadProject()
	if err != nil {
		return err
	}
	engine, err := p.cfg.Engine()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	schedule := engine.Schedule()

	if scheduleJSON {
		data, err := json.MarshalIndent(scheduleView{
			Stages:    schedule.Stages(),
			Budget:    schedule.Budget(),
			Threshold: engine.Threshold(),
		}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal schedule: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cols := p.cfg.ColumnSet()
	t := output.NewTable("#", "Stage", "Column", "SOP Days", "Cumulative")
	cumulative := 0
	for i, st := range schedule.Stages() {
		cumulative += st.SOPDays
		t.AddRow(
			fmt.Sprintf("%d", i+1),
			st.Name,
			cols.StageColumn(st.Name),
			fmt.Sprintf("%d", st.SOPDays),
			fmt.Sprintf("%d", cumulative),
		)
	}
	cmd.Print(t.RenderCompact())
	cmd.Printf("Budget: %d days. Completed applications within %d days are on time.\n", schedule.Budget(), engine.Threshold())
	return nil
}
