package database

import (
	"sort"
	"time"

	"github.com/icon-pbg/icon-go/pkg/sop"
)

// Statistics summarises a set of applications.
type Statistics struct {
	Total      int     `json:"total"`
	OnTime     int     `json:"on_time"`
	InProgress int     `json:"in_progress"`
	Late       int     `json:"late"`
	OnTimePct  float64 `json:"on_time_pct"`
	LatePct    float64 `json:"late_pct"`
}

// Summarize computes statistics over apps.
func Summarize(apps []*Application) Statistics {
	var s Statistics
	for _, app := range apps {
		s.Total++
		switch app.Status {
		case sop.StatusOnTime:
			s.OnTime++
		case sop.StatusLate:
			s.Late++
		default:
			s.InProgress++
		}
	}
	s.OnTimePct = Percent(s.OnTime, s.Total)
	s.LatePct = Percent(s.Late, s.Total)
	return s
}

// Count returns the count for a status.
func (s Statistics) Count(status sop.Status) int {
	switch status {
	case sop.StatusOnTime:
		return s.OnTime
	case sop.StatusLate:
		return s.Late
	default:
		return s.InProgress
	}
}

// Percent returns part/total as a percentage, 0 when total is 0.
func Percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) * 100 / float64(total)
}

// StatusCounts returns a map of status to count.
func (db *Database) StatusCounts() map[sop.Status]int {
	counts := make(map[sop.Status]int)
	for _, app := range db.apps {
		counts[app.Status]++
	}
	return counts
}

// Statistics returns the summary over the whole snapshot.
func (db *Database) Statistics() Statistics {
	return Summarize(db.apps)
}

// MonthCount is the per-status count for one registration month.
type MonthCount struct {
	Month      string `json:"month"` // YYYY-MM
	OnTime     int    `json:"on_time"`
	InProgress int    `json:"in_progress"`
	Late       int    `json:"late"`
}

// Total returns the number of applications in the month.
func (m MonthCount) Total() int {
	return m.OnTime + m.InProgress + m.Late
}

// Monitoring is the monthly breakdown of registrations.
type Monitoring struct {
	Year   int          `json:"year,omitempty"`
	Months []MonthCount `json:"months"`
	Totals Statistics   `json:"totals"`
	// Undated counts rows without a parseable registration date; they are
	// excluded from the breakdown.
	Undated int `json:"undated"`
}

// Monthly groups applications with a valid registration date by month.
// Year 0 includes every year.
func (db *Database) Monthly(year int) Monitoring {
	result := Monitoring{Year: year, Months: make([]MonthCount, 0)}
	byMonth := make(map[string]*MonthCount)
	var included []*Application

	for _, app := range db.apps {
		at, ok := app.RegisteredAt()
		if !ok {
			result.Undated++
			continue
		}
		if year != 0 && at.Year() != year {
			continue
		}
		key := at.Format("2006-01")
		mc := byMonth[key]
		if mc == nil {
			mc = &MonthCount{Month: key}
			byMonth[key] = mc
		}
		switch app.Status {
		case sop.StatusOnTime:
			mc.OnTime++
		case sop.StatusLate:
			mc.Late++
		default:
			mc.InProgress++
		}
		included = append(included, app)
	}

	for _, mc := range byMonth {
		result.Months = append(result.Months, *mc)
	}
	sort.Slice(result.Months, func(i, j int) bool {
		return result.Months[i].Month < result.Months[j].Month
	})
	result.Totals = Summarize(included)
	return result
}

// Years returns the distinct registration years, newest first.
func (db *Database) Years() []int {
	seen := make(map[int]bool)
	var years []int
	for _, app := range db.apps {
		at, ok := app.RegisteredAt()
		if !ok || seen[at.Year()] {
			continue
		}
		seen[at.Year()] = true
		years = append(years, at.Year())
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years
}

// Report is the set of applications registered within a date range.
type Report struct {
	From         time.Time      `json:"from"`
	To           time.Time      `json:"to"`
	Applications []*Application `json:"applications"`
	Summary      Statistics     `json:"summary"`
}

// Report returns applications registered between from and to, both
// inclusive, compared at day granularity.
func (db *Database) Report(from, to time.Time) Report {
	from, to = truncateDay(from), truncateDay(to)
	if to.Before(from) {
		from, to = to, from
	}

	rep := Report{From: from, To: to, Applications: make([]*Application, 0)}
	for _, app := range db.apps {
		at, ok := app.RegisteredAt()
		if !ok {
			continue
		}
		day := truncateDay(at)
		if day.Before(from) || day.After(to) {
			continue
		}
		rep.Applications = append(rep.Applications, app)
	}
	rep.Summary = Summarize(rep.Applications)
	return rep
}

// FileName returns the export file name for the report.
func (r Report) FileName() string {
	return "Laporan_PBG_" + r.From.Format("2006-01-02") + "_to_" + r.To.Format("2006-01-02") + ".csv"
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
