// file: internals/features/school/report_cards/dto/attitude_dto.go
package dto

import (
	"github.com/google/uuid"

	"schoolku_backend/internals/features/school/report_cards/model"
	"schoolku_backend/internals/features/school/report_cards/service"
)

type UpsertAttitudeRequest struct {
	StudentID            uuid.UUID `json:"student_id" validate:"required"`
	ClassID              uuid.UUID `json:"class_id" validate:"required"`
	AcademicYear         string    `json:"academic_year" validate:"required,max=16"`
	Semester             string    `json:"semester" validate:"required,oneof=ganjil genap"`
	Spiritual            string    `json:"spiritual" validate:"required,oneof=A B C D"`
	Social               string    `json:"social" validate:"required,oneof=A B C D"`
	SpiritualDescription *string   `json:"spiritual_description" validate:"omitempty,max=1000"`
	SocialDescription    *string   `json:"social_description" validate:"omitempty,max=1000"`
	HomeroomNotes        *string   `json:"homeroom_notes" validate:"omitempty,max=2000"`
}

func (r UpsertAttitudeRequest) ToInput(homeroomTeacherID uuid.UUID) service.AttitudeInput {
	in := service.AttitudeInput{
		StudentID:            r.StudentID,
		ClassID:              r.ClassID,
		Period:               model.NewPeriod(r.AcademicYear, r.Semester),
		Spiritual:            model.AttitudeGrade(r.Spiritual),
		Social:               model.AttitudeGrade(r.Social),
		SpiritualDescription: trimPtr(r.SpiritualDescription),
		SocialDescription:    trimPtr(r.SocialDescription),
		HomeroomNotes:        trimPtr(r.HomeroomNotes),
	}
	if homeroomTeacherID != uuid.Nil {
		in.HomeroomTeacherID = &homeroomTeacherID
	}
	return in
}
