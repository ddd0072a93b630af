// file: internals/features/school/report_cards/dto/period_dto.go
package dto

import (
	"strings"

	"github.com/google/uuid"

	"schoolku_backend/internals/features/school/report_cards/model"
)

// PeriodQuery: ?academic_year=2025/2026&semester=ganjil
type PeriodQuery struct {
	AcademicYear string `query:"academic_year" validate:"required,max=16"`
	Semester     string `query:"semester" validate:"required,oneof=ganjil genap"`
}

func (q PeriodQuery) Period() model.Period {
	return model.NewPeriod(q.AcademicYear, q.Semester)
}

// ClassPeriodQuery: daftar / statistik per kelas (uuid sebagai string: QueryParser tidak kenal uuid.UUID)
type ClassPeriodQuery struct {
	AcademicYear string `query:"academic_year" validate:"required,max=16"`
	Semester     string `query:"semester" validate:"required,oneof=ganjil genap"`
	ClassID      string `query:"class_id" validate:"required,uuid"`
	SubjectID    string `query:"subject_id" validate:"omitempty,uuid"`
	Status       string `query:"status" validate:"omitempty,oneof=DRAFT PENDING_APPROVAL RELEASED"`
}

func (q ClassPeriodQuery) Period() model.Period {
	return model.NewPeriod(q.AcademicYear, q.Semester)
}

// ClassUUID: dipanggil setelah Validate (format sudah dijamin)
func (q ClassPeriodQuery) ClassUUID() uuid.UUID {
	id, _ := uuid.Parse(strings.TrimSpace(q.ClassID))
	return id
}

// SubjectUUID: kosong → uuid.Nil (statistik keseluruhan)
func (q ClassPeriodQuery) SubjectUUID() uuid.UUID {
	id, err := uuid.Parse(strings.TrimSpace(q.SubjectID))
	if err != nil {
		return uuid.Nil
	}
	return id
}

func (q ClassPeriodQuery) StatusFilter() *model.ReportCardStatus {
	if strings.TrimSpace(q.Status) == "" {
		return nil
	}
	s := model.ReportCardStatus(strings.TrimSpace(q.Status))
	return &s
}
