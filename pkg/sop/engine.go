package sop

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrThresholdMismatch is returned when a configured completion threshold
// disagrees with the schedule's total budget.
var ErrThresholdMismatch = errors.New("threshold does not match schedule budget")

// Engine classifies applications against one schedule. It holds no mutable
// state and is safe for concurrent use.
type Engine struct {
	schedule     *Schedule
	placeholders placeholderSet
	threshold    int
}

// Option configures an Engine.
type Option func(*engineOptions)

type engineOptions struct {
	threshold    int
	placeholders []string
}

// WithThreshold declares the expected completion threshold in days. NewEngine
// fails unless it equals the schedule budget. Zero means "derive".
func WithThreshold(days int) Option {
	return func(o *engineOptions) {
		o.threshold = days
	}
}

// WithPlaceholders replaces the "not applicable" markers.
func WithPlaceholders(markers ...string) Option {
	return func(o *engineOptions) {
		o.placeholders = markers
	}
}

// NewEngine builds an engine for the schedule.
func NewEngine(schedule *Schedule, opts ...Option) (*Engine, error) {
	if schedule == nil || schedule.Len() == 0 {
		return nil, ErrEmptySchedule
	}

	o := &engineOptions{placeholders: DefaultPlaceholders}
	for _, opt := range opts {
		opt(o)
	}

	if o.threshold != 0 && o.threshold != schedule.Budget() {
		return nil, fmt.Errorf("%w: threshold %d, budget %d",
			ErrThresholdMismatch, o.threshold, schedule.Budget())
	}

	placeholders := newPlaceholderSet(o.placeholders)
	if len(placeholders) == 0 {
		return nil, fmt.Errorf("at least one placeholder marker is required")
	}

	return &Engine{
		schedule:     schedule,
		placeholders: placeholders,
		threshold:    schedule.Budget(),
	}, nil
}

// Schedule returns the engine's schedule.
func (e *Engine) Schedule() *Schedule {
	return e.schedule
}

// Threshold returns the completion threshold in days.
func (e *Engine) Threshold() int {
	return e.threshold
}

// Kind classifies a raw stage value.
func (e *Engine) Kind(value string) ValueKind {
	kind, _ := e.inspect(value)
	return kind
}

// inspect classifies a raw value and returns its date when dated.
func (e *Engine) inspect(value string) (ValueKind, time.Time) {
	value = strings.TrimSpace(value)
	switch {
	case value == "":
		return KindAbsent, time.Time{}
	case e.placeholders.contains(value):
		return KindPlaceholder, time.Time{}
	}
	t, ok := ParseDate(value)
	if !ok {
		return KindInvalid, time.Time{}
	}
	return KindDated, t
}

// registration returns the parsed registration date.
func (e *Engine) registration(rec Record) (time.Time, bool) {
	return ParseDate(rec.RegistrationDate())
}
