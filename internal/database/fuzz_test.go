package database

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/icon-pbg/icon-go/pkg/sop"
)

// FuzzReadCSV tests sheet parsing with arbitrary input.
// It ensures that malformed sheets don't cause panics.
func FuzzReadCSV(f *testing.F) {
	header := strings.Join(sheetHeader(), ",")

	// Seed corpus with valid sheets
	f.Add(header + "\nREG-001,Budi,01/01/2024,,,,,,,,,,,,,15/01/2024,\n")
	f.Add(header + "\nREG-002,Citra,01/02/2024,,,,-,-,-,-,-,-,-,-,20/02/2024,-,Terlambat\n")
	f.Add(header + "\n,,,,,,,,,,,,,,,,\n")

	// Edge cases
	f.Add(header + "\n")
	f.Add(header + "\nREG-003,\"Nama, dengan \"\"kutip\"\"\",45301,,,,,,,,,,,,,45320,\n")
	f.Add(header + "\nREG-004,X," + strings.Repeat("9", 500) + "\n")

	// Malformed inputs
	f.Add(`invalid header only`)
	f.Add(``)
	f.Add("\x00\x00\x00")
	f.Add(header + "\n\"unclosed quote")
	f.Add(header + "\nREG-005,too,many,fields,,,,,,,,,,,,,,,,,,,,,,,\n")

	engine, err := sop.NewEngine(sop.DefaultSchedule())
	if err != nil {
		f.Fatalf("NewEngine failed: %v", err)
	}

	f.Fuzz(func(t *testing.T, data string) {
		// The function should not panic on any input
		db, err := ReadCSV(strings.NewReader(data), LoadOptions{Engine: engine, Columns: DefaultColumns()})

		// If parsing succeeded, the database should be usable
		if err == nil && db != nil {
			_ = db.Len()
			_ = db.StatusCounts()
			_ = db.Statistics()
			_ = db.Priority(0)
			_ = db.Monthly(0)
			_ = db.Report(time.Time{}, time.Now())
			_ = db.Search(SearchOptions{Keyword: "a"})

			for _, app := range db.All() {
				if len(db.Assess(app).Stages) != engine.Schedule().Len() {
					t.Fatalf("assessment length mismatch for %s", app.RegNo)
				}
			}

			var buf bytes.Buffer
			if err := db.WriteCSV(&buf, db.All()); err != nil {
				t.Errorf("WriteCSV failed: %v", err)
			}
		}
	})
}
