package sop

import (
	"fmt"
	"strings"
)

// Status is the overall SOP outcome of an application.
type Status string

const (
	StatusOnTime     Status = "ON_TIME"
	StatusLate       Status = "LATE"
	StatusInProgress Status = "IN_PROGRESS"
)

// AllStatuses returns all valid status values.
func AllStatuses() []Status {
	return []Status{StatusOnTime, StatusInProgress, StatusLate}
}

// ParseStatus parses a status, case-insensitive. Both the wire names and the
// labels used in the source spreadsheet are accepted.
func ParseStatus(s string) (Status, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ON_TIME", "ONTIME", "TEPAT WAKTU", "COMPLETED ON TIME":
		return StatusOnTime, nil
	case "LATE", "TERLAMBAT", "COMPLETED LATE":
		return StatusLate, nil
	case "IN_PROGRESS", "INPROGRESS", "DIPROSES", "IN PROGRESS":
		return StatusInProgress, nil
	default:
		return StatusInProgress, fmt.Errorf("invalid status: %q", s)
	}
}

// String returns the wire name of the status.
func (s Status) String() string {
	return string(s)
}

// Label returns the label used in the source spreadsheet.
func (s Status) Label() string {
	switch s {
	case StatusOnTime:
		return "Tepat waktu"
	case StatusLate:
		return "Terlambat"
	default:
		return "Diproses"
	}
}

// IsCompleted returns true once the application reached its final stage.
func (s Status) IsCompleted() bool {
	return s == StatusOnTime || s == StatusLate
}

// NeedsAttention returns true for statuses shown in the priority list.
func (s Status) NeedsAttention() bool {
	return s == StatusLate || s == StatusInProgress
}

// Weight returns a numeric weight for sorting the priority list
// (0=IN_PROGRESS, 1=LATE, 2=ON_TIME).
func (s Status) Weight() int {
	switch s {
	case StatusInProgress:
		return 0
	case StatusLate:
		return 1
	case StatusOnTime:
		return 2
	default:
		return 3
	}
}
