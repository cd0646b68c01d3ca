package database

import (
	"errors"
	"fmt"
	"strings"

	"github.com/icon-pbg/icon-go/pkg/sop"
)

// ErrMissingColumns is returned when the sheet header lacks a column the
// engine needs.
var ErrMissingColumns = errors.New("missing required columns")

// Columns names the sheet columns read by the loader.
type Columns struct {
	RegistrationNumber string `yaml:"registration_number" json:"registration_number"`
	Applicant          string `yaml:"applicant" json:"applicant"`
	RegistrationDate   string `yaml:"registration_date" json:"registration_date"`
	Status             string `yaml:"status" json:"status"`
	Verifier           string `yaml:"verifier" json:"verifier"`
	SurveyOfficer      string `yaml:"survey_officer" json:"survey_officer"`
	TechnicalAssessor  string `yaml:"technical_assessor" json:"technical_assessor"`

	// Stages maps stage name to sheet column. Stages without an entry are
	// read from a column carrying the stage name itself.
	Stages map[string]string `yaml:"-" json:"stages"`
}

// DefaultColumns returns the column names of the PBG monitoring sheet.
func DefaultColumns() Columns {
	return Columns{
		RegistrationNumber: "NO. REGISTRASI",
		Applicant:          "NAMA PEMOHON",
		RegistrationDate:   "TGL REGISTRASI",
		Status:             "STATUS",
		Verifier:           "VERIFIKATOR",
		SurveyOfficer:      "SURVEY SUBKO",
		TechnicalAssessor:  "PENILAI TEKNIS TPT/TPA",
		Stages: map[string]string{
			sop.StageDocumentVerification: "VERIFIKASI BERKAS",
			sop.StageSiteSurvey:           "SURVEY LOKASI",
			sop.StageSubcoordination:      "VERIFIKASI SUBKO",
			sop.StageTechnicalAssessment:  "PENILAIAN TEKNIS TPT/TPA",
			sop.StageDocumentCorrection:   "MELENGKAPI PERBAIKAN BERKAS",
			sop.StageVolumeCalculation:    "PERHITUNGAN VOLUME",
			sop.StageDrawingSignOff:       "TTD GAMBAR KABID + KADIS",
			sop.StageDrawingScan:          "SCAN GAMBAR + BA TPT/TPA",
			sop.StageConsultationFeeInput: "PELAKSANAAN KONSULTASI + INPUT RETRIBUSI",
			sop.StageFinalSignOff:         "SPPST KADIS",
		},
	}
}

// StageColumn returns the sheet column for a stage.
func (c Columns) StageColumn(stage string) string {
	if col, ok := c.Stages[stage]; ok && strings.TrimSpace(col) != "" {
		return col
	}
	return stage
}

// ColumnMap resolves header positions once per load.
type ColumnMap struct {
	header    []string
	index     map[string]int
	regDate   int
	regNo     int
	applicant int
	status    int
	verifier  int
	surveyor  int
	assessor  int
	stages    []int // schedule order
}

// NewColumnMap matches the header against the configured columns. Every
// stage of the schedule and the registration date must be present.
func NewColumnMap(header []string, cols Columns, schedule *sop.Schedule) (*ColumnMap, error) {
	m := &ColumnMap{
		header: append([]string(nil), header...),
		index:  make(map[string]int, len(header)),
	}
	for i, h := range header {
		key := normalizeColumnName(h)
		if key == "" {
			continue
		}
		if _, dup := m.index[key]; !dup {
			m.index[key] = i
		}
	}

	var missing []string
	require := func(col string) int {
		i, ok := m.lookup(col)
		if !ok {
			missing = append(missing, col)
		}
		return i
	}

	m.regDate = require(cols.RegistrationDate)
	m.stages = make([]int, schedule.Len())
	for i, st := range schedule.Stages() {
		m.stages[i] = require(cols.StageColumn(st.Name))
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	m.regNo = m.optional(cols.RegistrationNumber)
	m.applicant = m.optional(cols.Applicant)
	m.status = m.optional(cols.Status)
	m.verifier = m.optional(cols.Verifier)
	m.surveyor = m.optional(cols.SurveyOfficer)
	m.assessor = m.optional(cols.TechnicalAssessor)

	return m, nil
}

// Header returns the original header.
func (m *ColumnMap) Header() []string {
	return append([]string(nil), m.header...)
}

// Index returns the position of a column, or -1.
func (m *ColumnMap) Index(col string) int {
	if i, ok := m.lookup(col); ok {
		return i
	}
	return -1
}

// StatusIndex returns the position of the status column, or -1.
func (m *ColumnMap) StatusIndex() int {
	return m.status
}

func (m *ColumnMap) lookup(col string) (int, bool) {
	key := normalizeColumnName(col)
	if key == "" {
		return -1, false
	}
	i, ok := m.index[key]
	return i, ok
}

func (m *ColumnMap) optional(col string) int {
	if i, ok := m.lookup(col); ok {
		return i
	}
	return -1
}

// normalizeColumnName upper-cases a header and collapses inner whitespace so
// "Tgl  Registrasi " matches "TGL REGISTRASI".
func normalizeColumnName(name string) string {
	name = strings.TrimPrefix(name, "\ufeff")
	return strings.ToUpper(strings.Join(strings.Fields(name), " "))
}

// cell returns the trimmed value at i, or "" when out of range.
func cell(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}
