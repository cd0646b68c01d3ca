package sop

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Excel serial numbers outside this range are more likely plain numbers
// (years, counters) than dates.
const (
	minExcelSerial = 20000
	maxExcelSerial = 80000
)

// dayFirstLayouts lists accepted layouts, most common first. Numeric forms
// are read day-before-month.
var dayFirstLayouts = []string{
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"2-1-2006",
	"02.01.2006",
	"2.1.2006",
	"02/01/06",
	"2/1/06",
	"02-01-06",
	"2-1-06",
	"2006-01-02",
	"2006/01/02",
	"2 January 2006",
	"2 Jan 2006",
	"02-Jan-2006",
	"2-Jan-2006",
	"January 2, 2006",
	"Jan 2, 2006",
}

// timeSuffixes are tried after each date layout.
var timeSuffixes = []string{
	"",
	" 15:04",
	" 15:04:05",
	"T15:04:05",
	"T15:04:05Z07:00",
}

// ParseDate parses a day-first date string. The second result is false when
// the value is blank or not a date; it never panics.
func ParseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}

	if serial, err := strconv.ParseFloat(value, 64); err == nil {
		if serial >= minExcelSerial && serial <= maxExcelSerial {
			if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
				return t.UTC(), true
			}
		}
		return time.Time{}, false
	}

	for _, layout := range dayFirstLayouts {
		for _, suffix := range timeSuffixes {
			if t, err := time.Parse(layout+suffix, value); err == nil {
				return t.UTC(), true
			}
		}
	}
	return time.Time{}, false
}

// DaysBetween returns the whole number of days from start to end, floored
// like a timedelta's day component (22 days 23 hours is 22, minus one hour
// is -1).
func DaysBetween(start, end time.Time) int {
	return int(math.Floor(end.Sub(start).Hours() / 24))
}
