package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/icon-pbg/icon-go/internal/database"
	"github.com/icon-pbg/icon-go/pkg/sop"
)

var (
	searchField    string
	searchQuery    string
	searchStatuses []string
)

var searchCmd = &cobra.Command{
	Use:   "search [keyword]",
	Short: "Search applications",
	Long: `Search applications by keyword, optionally restricted to one column and
to a set of statuses. Matching is case-insensitive.

Fields: any, registration_number, applicant, verifier, survey_officer,
technical_assessor, status.

Examples:
    icon search budi
    icon search --field verifier --query ani
    icon search --status late --status in_progress`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVar(&searchField, "field", "any", "column to search")
	searchCmd.Flags().StringVarP(&searchQuery, "query", "q", "", "keyword")
	searchCmd.Flags().StringSliceVar(&searchStatuses, "status", nil, "only show these statuses (on_time, in_progress, late)")
}

func runSearch(cmd *cobra.Command, args []string) error {
	field, err := database.ParseSearchField(searchField)
	if err != nil {
		return err
	}
	keyword := searchQuery
	if len(args) == 1 {
		keyword = args[0]
	}
	var statuses []sop.Status
	for _, s := range searchStatuses {
		st, err := sop.ParseStatus(s)
		if err != nil {
			return err
		}
		statuses = append(statuses, st)
	}

	db, _, err := loadSnapshot(cmd.Context())
	if err != nil {
		return err
	}

	results := db.Search(database.SearchOptions{Field: field, Keyword: keyword, Statuses: statuses})
	if len(results) == 0 {
		cmd.Println("No applications found.")
		return nil
	}
	cmd.Print(applicationTable(db, results).RenderCompact())
	cmd.Printf("%d of %d applications%s\n", len(results), db.Len(), describeSearch(field, keyword, statuses))
	return nil
}

func describeSearch(field database.SearchField, keyword string, statuses []sop.Status) string {
	var parts []string
	if keyword != "" {
		if field == database.FieldAny {
			parts = append(parts, fmt.Sprintf("matching %q", keyword))
		} else {
			parts = append(parts, fmt.Sprintf("with %s matching %q", field, keyword))
		}
	}
	if len(statuses) > 0 {
		labels := make([]string, len(statuses))
		for i, st := range statuses {
			labels[i] = st.Label()
		}
		parts = append(parts, "status "+strings.Join(labels, "/"))
	}
	if len(parts) == 0 {
		return ""
	}
	return " " + strings.Join(parts, ", ")
}
