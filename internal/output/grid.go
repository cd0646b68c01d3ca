package output

import (
	"fmt"
	"html"
	"strings"

	"github.com/icon-pbg/icon-go/pkg/sop"
)

// BreachGrid renders the per-stage checks of one assessment as a table in
// the given format (text, markdown or html). Breached stages are
// highlighted.
func BreachGrid(a sop.Assessment, format string) (string, error) {
	format = strings.ToLower(format)
	if format == "md" {
		format = FormatMarkdown
	}

	t := NewTable("#", "Stage", "SOP", "Value", "Elapsed", "Allowance", "Result")
	for i, c := range a.Stages {
		t.AddRow(
			fmt.Sprintf("%d", i+1),
			escape(c.Stage.Name, format),
			fmt.Sprintf("%d", c.Stage.SOPDays),
			escape(displayValue(c), format),
			FormatDays(c.Elapsed),
			fmt.Sprintf("%d", c.Allowance),
			resultCell(c, format),
		)
	}
	return t.RenderFormat(format)
}

// displayValue shows what the engine saw in the cell.
func displayValue(c sop.StageCheck) string {
	switch c.Kind {
	case sop.KindAbsent:
		return ""
	case sop.KindInvalid:
		return c.Value + " (?)"
	default:
		return c.Value
	}
}

func resultCell(c sop.StageCheck, format string) string {
	switch {
	case c.Breached:
		switch format {
		case FormatMarkdown:
			return "**BREACH**"
		case FormatHTML:
			return `<span class="breach">BREACH</span>`
		default:
			return Color("✗ BREACH", BoldRed)
		}
	case c.Kind == sop.KindDated:
		if format == FormatText || format == "" {
			return Color("✓ ok", Green)
		}
		return "ok"
	case c.Kind == sop.KindPlaceholder:
		return "n/a"
	default:
		return "-"
	}
}

func escape(s, format string) string {
	if format == FormatHTML {
		return html.EscapeString(s)
	}
	return s
}

// StatusSummary renders the one-line verdict shown above a breach grid.
func StatusSummary(regNo string, a sop.Assessment) string {
	total := "total " + FormatDays(a.TotalDays) + " days"
	if a.TotalDays == nil {
		total = "not completed"
	}
	breaches := a.Breaches().Count()
	return fmt.Sprintf("%s %s  %s  %s, %d stage breach(es)",
		StatusIcon(a.Status), regNo, StatusLabel(a.Status), total, breaches)
}
