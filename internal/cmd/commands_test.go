package cmd

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/icon-pbg/icon-go/internal/testutil"
)

func TestStatusCommand(t *testing.T) {
	sampleProject(t)

	out, err := executeCommand(rootCmd, "status", "--no-color")
	if err != nil {
		t.Fatalf("status failed: %v\n%s", err, out)
	}
	for _, want := range []string{"i-CON Status", "(6 applications)", "Priority", "REG-003", "REG-002", "REG-005", "REG-006"} {
		if !strings.Contains(out, want) {
			t.Errorf("status output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "REG-001") || strings.Contains(out, "REG-004") {
		t.Errorf("on-time applications should not be in the priority list:\n%s", out)
	}
}

func TestStatusLimit(t *testing.T) {
	sampleProject(t)

	out, err := executeCommand(rootCmd, "status", "-n", "1")
	if err != nil {
		t.Fatalf("status failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "REG-003") {
		t.Errorf("newest in-progress application should come first:\n%s", out)
	}
	for _, other := range []string{"REG-002", "REG-005", "REG-006"} {
		if strings.Contains(out, other) {
			t.Errorf("-n 1 should show one application, found %s:\n%s", other, out)
		}
	}
}

func TestStatusNothingPending(t *testing.T) {
	dir := testutil.TempProjectWithSheet(t, testutil.NewTestConfig(t), testutil.SampleRows()[0])
	chdir(t, dir)

	out, err := executeCommand(rootCmd, "status")
	if err != nil {
		t.Fatalf("status failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "No applications need attention.") {
		t.Errorf("expected empty priority message:\n%s", out)
	}
}

func TestSearchCommand(t *testing.T) {
	sampleProject(t)

	tests := []struct {
		name    string
		args    []string
		want    []string
		notWant []string
	}{
		{
			name:    "keyword",
			args:    []string{"search", "budi"},
			want:    []string{"REG-001", "1 of 6 applications", `matching "budi"`},
			notWant: []string{"REG-002"},
		},
		{
			name:    "field",
			args:    []string{"search", "--field", "verifier", "-q", "ani"},
			want:    []string{"REG-001", "REG-002", "2 of 6 applications"},
			notWant: []string{"REG-003"},
		},
		{
			name:    "status",
			args:    []string{"search", "--status", "late"},
			want:    []string{"REG-002", "REG-005", "2 of 6 applications"},
			notWant: []string{"REG-001", "REG-003"},
		},
		{
			name: "no match",
			args: []string{"search", "zzz"},
			want: []string{"No applications found."},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := executeCommand(rootCmd, tt.args...)
			if err != nil {
				t.Fatalf("search failed: %v\n%s", err, out)
			}
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %q:\n%s", want, out)
				}
			}
			for _, nw := range tt.notWant {
				if strings.Contains(out, nw) {
					t.Errorf("output should not contain %q:\n%s", nw, out)
				}
			}
		})
	}
}

func TestSearchInvalidInput(t *testing.T) {
	sampleProject(t)

	if _, err := executeCommand(rootCmd, "search", "--field", "nope", "x"); err == nil {
		t.Error("expected error for unknown field")
	}
	if _, err := executeCommand(rootCmd, "search", "--status", "done"); err == nil {
		t.Error("expected error for unknown status")
	}
}

func TestRecomputeFlag(t *testing.T) {
	sampleProject(t)

	out, err := executeCommand(rootCmd, "--recompute", "search", "--status", "late")
	if err != nil {
		t.Fatalf("search failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "REG-002") || strings.Contains(out, "REG-005") {
		t.Errorf("--recompute should ignore the sheet's Terlambat:\n%s", out)
	}
}

func TestInspectCommand(t *testing.T) {
	sampleProject(t)

	out, err := executeCommand(rootCmd, "inspect", "REG-002")
	if err != nil {
		t.Fatalf("inspect failed: %v\n%s", err, out)
	}
	for _, want := range []string{"REG-002", "Applicant: Citra", "Registered: 01/02/2024", "01/03/2024"} {
		if !strings.Contains(out, want) {
			t.Errorf("inspect output missing %q:\n%s", want, out)
		}
	}

	out, err = executeCommand(rootCmd, "inspect", "REG-005")
	if err != nil {
		t.Fatalf("inspect failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, `Status taken from sheet: "Terlambat"`) {
		t.Errorf("sheet status not reported:\n%s", out)
	}
}

func TestInspectMarkdown(t *testing.T) {
	sampleProject(t)

	out, err := executeCommand(rootCmd, "inspect", "REG-001", "--format", "markdown")
	if err != nil {
		t.Fatalf("inspect failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "|") || strings.Contains(out, "Applicant:") {
		t.Errorf("markdown output should hold only the grid:\n%s", out)
	}
}

func TestInspectNotFound(t *testing.T) {
	sampleProject(t)

	_, err := executeCommand(rootCmd, "inspect", "NOPE")
	if exitCode(err) != 1 {
		t.Fatalf("exit code = %d, want 1 (err %v)", exitCode(err), err)
	}
	if !strings.Contains(err.Error(), `"NOPE" not found`) {
		t.Errorf("err = %v", err)
	}
}

func TestMonitorCommand(t *testing.T) {
	sampleProject(t)

	out, err := executeCommand(rootCmd, "monitor")
	if err != nil {
		t.Fatalf("monitor failed: %v\n%s", err, out)
	}
	for _, want := range []string{"Monitoring 2024", "2024-01", "2024-02", "2024-03", "Total 5",
		"1 application(s) without a valid registration date are not counted."} {
		if !strings.Contains(out, want) {
			t.Errorf("monitor output missing %q:\n%s", want, out)
		}
	}
}

func TestMonitorEmptyYear(t *testing.T) {
	sampleProject(t)

	out, err := executeCommand(rootCmd, "monitor", "--year", "2019")
	if err != nil {
		t.Fatalf("monitor failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Monitoring 2019") || !strings.Contains(out, "No registrations in this period.") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestReportCommand(t *testing.T) {
	sampleProject(t)

	out, err := executeCommand(rootCmd, "report", "--from", "2024-02-01", "--to", "29/02/2024")
	if err != nil {
		t.Fatalf("report failed: %v\n%s", err, out)
	}
	for _, want := range []string{"Laporan PBG 2024-02-01 to 2024-02-29", "2 applications", "REG-002", "REG-003"} {
		if !strings.Contains(out, want) {
			t.Errorf("report output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "REG-001") {
		t.Errorf("REG-001 is outside the range:\n%s", out)
	}
}

func TestReportExport(t *testing.T) {
	dir := sampleProject(t)
	exportDir := filepath.Join(dir, "reports")
	if err := os.Mkdir(exportDir, 0755); err != nil {
		t.Fatal(err)
	}

	out, err := executeCommand(rootCmd, "report", "--from", "2024-01-01", "--to", "2024-01-31", "--export", exportDir)
	if err != nil {
		t.Fatalf("report failed: %v\n%s", err, out)
	}

	path := filepath.Join(exportDir, "Laporan_PBG_2024-01-01_to_2024-01-31.csv")
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("export not written: %v\n%s", err, out)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("export is not CSV: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want header plus one row", len(records))
	}
	header := records[0]
	if header[len(header)-1] != "TOTAL HARI" {
		t.Errorf("last column = %q, want TOTAL HARI", header[len(header)-1])
	}
	if records[1][0] != "REG-001" || records[1][len(header)-1] != "14" {
		t.Errorf("row = %v", records[1])
	}
}

func TestReportInvalidRange(t *testing.T) {
	sampleProject(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing to", []string{"report", "--from", "2024-01-01"}, "--to is required"},
		{"bad date", []string{"report", "--from", "2024", "--to", "2024-01-31"}, "invalid --from"},
		{"reversed", []string{"report", "--from", "2024-02-01", "--to", "2024-01-01"}, "is after"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := executeCommand(rootCmd, tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestScheduleCommand(t *testing.T) {
	chdir(t, t.TempDir())

	out, err := executeCommand(rootCmd, "schedule")
	if err != nil {
		t.Fatalf("schedule failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Budget: 23 days") {
		t.Errorf("schedule output:\n%s", out)
	}

	out, err = executeCommand(rootCmd, "schedule", "--json")
	if err != nil {
		t.Fatalf("schedule --json failed: %v", err)
	}
	var view struct {
		Stages    []json.RawMessage `json:"stages"`
		Budget    int               `json:"budget_days"`
		Threshold int               `json:"threshold_days"`
	}
	if err := json.Unmarshal([]byte(out), &view); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if len(view.Stages) != 10 || view.Budget != 23 || view.Threshold != 23 {
		t.Errorf("view = %d stages, budget %d, threshold %d", len(view.Stages), view.Budget, view.Threshold)
	}
}

func TestScheduleInvalidThreshold(t *testing.T) {
	dir := testutil.TempProjectWithSheet(t, testutil.NewTestConfig(t, testutil.WithThreshold(30)))
	chdir(t, dir)

	_, err := executeCommand(rootCmd, "schedule")
	if err == nil || !strings.Contains(err.Error(), "invalid configuration") {
		t.Errorf("err = %v, want invalid configuration", err)
	}
}
