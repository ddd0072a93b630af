// file: internals/features/school/report_cards/model/period_model.go
package model

import (
	"fmt"
	"strings"
)

// Semester: "ganjil" | "genap"
type Semester string

const (
	SemesterGanjil Semester = "ganjil"
	SemesterGenap  Semester = "genap"
)

func (s Semester) IsValid() bool {
	switch s {
	case SemesterGanjil, SemesterGenap:
		return true
	}
	return false
}

// Period = (academic year, semester). Semua data nilai & rapor di-scope oleh period.
// Example academic_year: "2025/2026"
type Period struct {
	AcademicYear string   `json:"academic_year"`
	Semester     Semester `json:"semester"`
}

func NewPeriod(academicYear string, semester string) Period {
	return Period{
		AcademicYear: strings.TrimSpace(academicYear),
		Semester:     Semester(strings.ToLower(strings.TrimSpace(semester))),
	}
}

func (p Period) Validate() error {
	if p.AcademicYear == "" {
		return fmt.Errorf("academic_year wajib diisi")
	}
	if !p.Semester.IsValid() {
		return fmt.Errorf("semester %q tidak dikenal (ganjil|genap)", p.Semester)
	}
	return nil
}

func (p Period) String() string {
	return p.AcademicYear + " " + string(p.Semester)
}
