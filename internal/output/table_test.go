package output

import (
	"strings"
	"testing"

	"github.com/icon-pbg/icon-go/pkg/sop"
)

func TestNewTable(t *testing.T) {
	table := NewTable("A", "B", "C")
	if table == nil {
		t.Fatal("NewTable returned nil")
	}
	if table.cols != 3 {
		t.Errorf("Expected 3 columns, got %d", table.cols)
	}
}

func TestTableAddRow(t *testing.T) {
	table := NewTable("Name", "Value")
	table.AddRow("foo", "bar")
	table.AddRow("longer name")
	table.AddRow("a", "b", "dropped")

	if table.Len() != 3 {
		t.Errorf("Expected 3 rows, got %d", table.Len())
	}
	if out := table.RenderCompact(); strings.Contains(out, "dropped") {
		t.Errorf("extra cells should be dropped:\n%s", out)
	}
}

func TestTableRender(t *testing.T) {
	table := NewTable("#", "Status", "No. Registrasi")
	table.AddRow("1", "✓", "REG-001")
	table.AddRow("2", "✗", "REG-002")

	output := table.Render()

	expectedElements := []string{
		"+---+",          // Column separator
		"| # |",          // Header cell
		"No. Registrasi", // Header keeps its case
		"| 1 |",          // Data cell
		"| 2 |",          // Data cell
		"REG-001",        // Cell content
	}

	for _, element := range expectedElements {
		if !strings.Contains(output, element) {
			t.Errorf("Expected %q in output:\n%s", element, output)
		}
	}

	// Separated rows: top, header, between rows, bottom
	if n := strings.Count(output, "+---+"); n != 4 {
		t.Errorf("Render separators = %d, want 4:\n%s", n, output)
	}
}

func TestTableRenderCompact(t *testing.T) {
	table := NewTable("A", "B")
	table.AddRow("1", "2")
	table.AddRow("3", "4")

	output := table.RenderCompact()

	// Compact should have top border, header separator, and bottom border
	if n := strings.Count(output, "+---+---+"); n != 3 {
		t.Errorf("RenderCompact separators = %d, want 3:\n%s", n, output)
	}
}

func TestTableRenderFormats(t *testing.T) {
	table := NewTable("A", "B")
	table.AddRow("<x>", "2")

	md, err := table.RenderFormat("markdown")
	if err != nil {
		t.Fatalf("RenderFormat(markdown) failed: %v", err)
	}
	if !strings.Contains(md, "| A | B |") {
		t.Errorf("markdown output:\n%s", md)
	}

	html, err := table.RenderFormat("html")
	if err != nil {
		t.Fatalf("RenderFormat(html) failed: %v", err)
	}
	if !strings.Contains(html, "<table") || !strings.Contains(html, `class="icon-table"`) {
		t.Errorf("html output:\n%s", html)
	}

	if _, err := table.RenderFormat("pdf"); err == nil {
		t.Error("expected error for unknown format")
	}

	if NewTable().Render() != "" {
		t.Error("table without headers should render empty")
	}
}

func gridAssessment() sop.Assessment {
	nine, four := 9, 4
	total := 19
	return sop.Assessment{
		Status: sop.StatusOnTime,
		Stages: []sop.StageCheck{
			{Stage: sop.Stage{Name: "Verifikasi", SOPDays: 1}, Kind: sop.KindAbsent, Allowance: 1},
			{Stage: sop.Stage{Name: "Survey <Lokasi>", SOPDays: 2}, Value: "10/01/2024", Kind: sop.KindDated, Elapsed: &nine, Allowance: 3, Breached: true},
			{Stage: sop.Stage{Name: "SPPST", SOPDays: 5}, Value: "14/01/2024", Kind: sop.KindDated, Elapsed: &four, Allowance: 5},
			{Stage: sop.Stage{Name: "Extra", SOPDays: 1}, Value: "-", Kind: sop.KindPlaceholder, Allowance: 1},
			{Stage: sop.Stage{Name: "Typo", SOPDays: 1}, Value: "31/02/2024", Kind: sop.KindInvalid, Allowance: 1},
		},
		TotalDays: &total,
	}
}

func TestBreachGrid(t *testing.T) {
	DisableColor()
	defer EnableColor()

	a := gridAssessment()

	text, err := BreachGrid(a, "text")
	if err != nil {
		t.Fatalf("BreachGrid(text) failed: %v", err)
	}
	for _, want := range []string{"✗ BREACH", "✓ ok", "n/a", "31/02/2024 (?)", "Survey <Lokasi>"} {
		if !strings.Contains(text, want) {
			t.Errorf("text grid missing %q:\n%s", want, text)
		}
	}

	md, _ := BreachGrid(a, "md")
	if !strings.Contains(md, "**BREACH**") {
		t.Errorf("markdown grid should bold breaches:\n%s", md)
	}

	html, _ := BreachGrid(a, "html")
	if !strings.Contains(html, `<span class="breach">BREACH</span>`) {
		t.Errorf("html grid should mark breaches:\n%s", html)
	}
	if !strings.Contains(html, "Survey &lt;Lokasi&gt;") {
		t.Errorf("html grid should escape stage names:\n%s", html)
	}

	if _, err := BreachGrid(a, "xml"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestStatusSummary(t *testing.T) {
	DisableColor()
	defer EnableColor()

	got := StatusSummary("REG-001", gridAssessment())
	for _, want := range []string{"REG-001", "Tepat waktu", "total 19 days", "1 stage breach"} {
		if !strings.Contains(got, want) {
			t.Errorf("StatusSummary = %q, missing %q", got, want)
		}
	}

	open := sop.Assessment{Status: sop.StatusInProgress}
	if got := StatusSummary("REG-2", open); !strings.Contains(got, "not completed") {
		t.Errorf("StatusSummary = %q", got)
	}
}
