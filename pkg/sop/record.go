package sop

import "strings"

// Record is one application as seen by the engine.
type Record interface {
	// RegistrationDate returns the raw registration date value.
	RegistrationDate() string
	// StageValue returns the raw value recorded for a stage: blank when the
	// stage has not been reached, a placeholder when it was skipped, or a
	// completion date.
	StageValue(stage Stage) string
}

// MapRecord is a Record backed by a map of stage name to raw value.
type MapRecord struct {
	Registration string
	Values       map[string]string
}

// RegistrationDate implements Record.
func (r MapRecord) RegistrationDate() string {
	return r.Registration
}

// StageValue implements Record.
func (r MapRecord) StageValue(stage Stage) string {
	return r.Values[stage.Name]
}

// ValueKind classifies a raw stage value.
type ValueKind string

const (
	KindAbsent      ValueKind = "absent"
	KindPlaceholder ValueKind = "placeholder"
	KindInvalid     ValueKind = "invalid"
	KindDated       ValueKind = "dated"
)

// DefaultPlaceholders are the markers meaning "stage not applicable".
var DefaultPlaceholders = []string{"-"}

type placeholderSet map[string]struct{}

func newPlaceholderSet(markers []string) placeholderSet {
	set := make(placeholderSet, len(markers))
	for _, m := range markers {
		if m = strings.TrimSpace(m); m != "" {
			set[strings.ToLower(m)] = struct{}{}
		}
	}
	return set
}

func (p placeholderSet) contains(value string) bool {
	_, ok := p[strings.ToLower(value)]
	return ok
}
