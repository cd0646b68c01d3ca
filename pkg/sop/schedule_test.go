package sop

import (
	"errors"
	"testing"
)

func TestDefaultSchedule(t *testing.T) {
	s := DefaultSchedule()

	if s.Len() != 10 {
		t.Fatalf("Len() = %d, want 10", s.Len())
	}
	if s.Budget() != DefaultThresholdDays {
		t.Errorf("Budget() = %d, want %d", s.Budget(), DefaultThresholdDays)
	}
	if s.At(0).Name != StageDocumentVerification {
		t.Errorf("first stage = %q, want %q", s.At(0).Name, StageDocumentVerification)
	}
	if s.Final().Name != StageFinalSignOff {
		t.Errorf("final stage = %q, want %q", s.Final().Name, StageFinalSignOff)
	}

	want := []int{1, 2, 3, 5, 3, 1, 2, 1, 4, 1}
	for i, st := range s.Stages() {
		if st.SOPDays != want[i] {
			t.Errorf("stage %d (%s) sop = %d, want %d", i, st.Name, st.SOPDays, want[i])
		}
	}
}

func TestScheduleStagesIsCopy(t *testing.T) {
	s := DefaultSchedule()
	stages := s.Stages()
	stages[0].SOPDays = 99

	if s.At(0).SOPDays != 1 {
		t.Error("modifying Stages() result must not change the schedule")
	}
}

func TestScheduleLookup(t *testing.T) {
	s := DefaultSchedule()

	st, ok := s.Lookup("  " + StageSiteSurvey + " ")
	if !ok {
		t.Fatal("Lookup should trim the name")
	}
	if st.SOPDays != 2 {
		t.Errorf("Site Survey sop = %d, want 2", st.SOPDays)
	}

	if _, ok := s.Lookup("Unknown"); ok {
		t.Error("Lookup(Unknown) should fail")
	}
}

func TestNewScheduleValidation(t *testing.T) {
	tests := []struct {
		name   string
		stages []Stage
		target error
	}{
		{"empty", nil, ErrEmptySchedule},
		{"duplicate", []Stage{{"A", 1}, {"A", 2}}, ErrDuplicateStage},
		{"duplicate after trim", []Stage{{"A", 1}, {" A ", 2}}, ErrDuplicateStage},
		{"zero days", []Stage{{"A", 0}}, ErrInvalidSOPDays},
		{"negative days", []Stage{{"A", 1}, {"B", -2}}, ErrInvalidSOPDays},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSchedule(tt.stages...)
			if !errors.Is(err, tt.target) {
				t.Errorf("err = %v, want %v", err, tt.target)
			}
		})
	}

	if _, err := NewSchedule(Stage{Name: " ", SOPDays: 1}); err == nil {
		t.Error("expected error for blank stage name")
	}
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		input   string
		expect  Status
		wantErr bool
	}{
		{"ON_TIME", StatusOnTime, false},
		{"Tepat waktu", StatusOnTime, false},
		{"terlambat", StatusLate, false},
		{"LATE", StatusLate, false},
		{"Diproses", StatusInProgress, false},
		{"in_progress", StatusInProgress, false},
		{"", StatusInProgress, true},
		{"done", StatusInProgress, true},
	}

	for _, tt := range tests {
		got, err := ParseStatus(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseStatus(%q) err = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
		if got != tt.expect {
			t.Errorf("ParseStatus(%q) = %s, want %s", tt.input, got, tt.expect)
		}
	}
}

func TestStatusLabel(t *testing.T) {
	if StatusOnTime.Label() != "Tepat waktu" {
		t.Errorf("OnTime label = %q", StatusOnTime.Label())
	}
	if StatusLate.Label() != "Terlambat" {
		t.Errorf("Late label = %q", StatusLate.Label())
	}
	if StatusInProgress.Label() != "Diproses" {
		t.Errorf("InProgress label = %q", StatusInProgress.Label())
	}
	if !StatusLate.IsCompleted() || StatusInProgress.IsCompleted() {
		t.Error("IsCompleted mismatch")
	}
}
