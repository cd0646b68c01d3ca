// Package sop implements the SOP compliance rules for building-permit (PBG)
// applications.
//
// A Schedule lists the processing stages in order with the number of
// calendar days each one may take. The Engine uses it to classify an
// application as on time, late or still in progress, and to flag the
// individual stages whose recorded date lags behind the allowance
// accumulated since the previous dated stage.
//
// Basic usage:
//
//	engine, err := sop.NewEngine(sop.DefaultSchedule())
//	if err != nil {
//	    return err
//	}
//	status := engine.Classify(record)
//	flags := engine.LocateBreaches(record)
//
// Both operations are total: malformed dates never produce an error, they
// degrade to "value absent".
package sop

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptySchedule is returned when a schedule has no stages.
	ErrEmptySchedule = errors.New("schedule has no stages")
	// ErrDuplicateStage is returned when two stages share a name.
	ErrDuplicateStage = errors.New("duplicate stage name")
	// ErrInvalidSOPDays is returned when a stage has a non-positive budget.
	ErrInvalidSOPDays = errors.New("sop days must be positive")
)

// Stage is one named step in the processing sequence.
type Stage struct {
	Name    string `json:"name" yaml:"name"`
	SOPDays int    `json:"sop_days" yaml:"sop_days"`
}

// Schedule is the ordered, immutable catalogue of stages.
type Schedule struct {
	stages []Stage
	index  map[string]int
	budget int
}

// Default stage names.
const (
	StageDocumentVerification = "Document Verification"
	StageSiteSurvey           = "Site Survey"
	StageSubcoordination      = "Sub-coordination Verification"
	StageTechnicalAssessment  = "Technical Assessment (TPT/TPA)"
	StageDocumentCorrection   = "Document Correction"
	StageVolumeCalculation    = "Volume Calculation"
	StageDrawingSignOff       = "Drawing Sign-off (Head of Division + Department Head)"
	StageDrawingScan          = "Drawing Scan + Assessment Report"
	StageConsultationFeeInput = "Consultation + Fee Input"
	StageFinalSignOff         = "Final Sign-off (Department Head)"
)

// DefaultThresholdDays is the budget of the default schedule.
const DefaultThresholdDays = 23

// DefaultStages returns the standard PBG processing stages.
func DefaultStages() []Stage {
	return []Stage{
		{Name: StageDocumentVerification, SOPDays: 1},
		{Name: StageSiteSurvey, SOPDays: 2},
		{Name: StageSubcoordination, SOPDays: 3},
		{Name: StageTechnicalAssessment, SOPDays: 5},
		{Name: StageDocumentCorrection, SOPDays: 3},
		{Name: StageVolumeCalculation, SOPDays: 1},
		{Name: StageDrawingSignOff, SOPDays: 2},
		{Name: StageDrawingScan, SOPDays: 1},
		{Name: StageConsultationFeeInput, SOPDays: 4},
		{Name: StageFinalSignOff, SOPDays: 1},
	}
}

// DefaultSchedule returns the standard ten-stage schedule (23 days total).
func DefaultSchedule() *Schedule {
	s, err := NewSchedule(DefaultStages()...)
	if err != nil {
		panic(fmt.Sprintf("sop: default schedule is invalid: %v", err))
	}
	return s
}

// NewSchedule validates the stages and returns an immutable schedule.
func NewSchedule(stages ...Stage) (*Schedule, error) {
	if len(stages) == 0 {
		return nil, ErrEmptySchedule
	}

	s := &Schedule{
		stages: make([]Stage, 0, len(stages)),
		index:  make(map[string]int, len(stages)),
	}
	for i, st := range stages {
		name := strings.TrimSpace(st.Name)
		if name == "" {
			return nil, fmt.Errorf("stage %d has an empty name", i+1)
		}
		if _, ok := s.index[name]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateStage, name)
		}
		if st.SOPDays <= 0 {
			return nil, fmt.Errorf("%w: stage %q has %d", ErrInvalidSOPDays, name, st.SOPDays)
		}
		s.index[name] = len(s.stages)
		s.stages = append(s.stages, Stage{Name: name, SOPDays: st.SOPDays})
		s.budget += st.SOPDays
	}
	return s, nil
}

// Stages returns a copy of the stages in schedule order.
func (s *Schedule) Stages() []Stage {
	return append([]Stage(nil), s.stages...)
}

// Len returns the number of stages.
func (s *Schedule) Len() int {
	return len(s.stages)
}

// At returns the stage at position i.
func (s *Schedule) At(i int) Stage {
	return s.stages[i]
}

// Final returns the terminal stage.
func (s *Schedule) Final() Stage {
	return s.stages[len(s.stages)-1]
}

// Lookup finds a stage by name.
func (s *Schedule) Lookup(name string) (Stage, bool) {
	i, ok := s.index[strings.TrimSpace(name)]
	if !ok {
		return Stage{}, false
	}
	return s.stages[i], true
}

// Budget returns the sum of all SOP days.
func (s *Schedule) Budget() int {
	return s.budget
}
