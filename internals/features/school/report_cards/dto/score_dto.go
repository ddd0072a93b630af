// file: internals/features/school/report_cards/dto/score_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"

	"schoolku_backend/internals/features/school/report_cards/model"
	"schoolku_backend/internals/features/school/report_cards/service"
)

type CreateScoreRequest struct {
	StudentID    uuid.UUID `json:"student_id" validate:"required"`
	SubjectID    uuid.UUID `json:"subject_id" validate:"required"`
	ClassID      uuid.UUID `json:"class_id" validate:"required"`
	AcademicYear string    `json:"academic_year" validate:"required,max=16"`
	Semester     string    `json:"semester" validate:"required,oneof=ganjil genap"`
	Kind         string    `json:"kind" validate:"required,oneof=UH UTS UAS PRAKTIK"`
	Number       *int      `json:"number" validate:"omitempty,min=1,max=99"`
	Value        *float64  `json:"value" validate:"required,min=0,max=100"`
}

// ToInput: recordedBy = guru dari token (bukan dari body)
func (r CreateScoreRequest) ToInput(recordedBy uuid.UUID) service.ScoreInput {
	in := service.ScoreInput{
		StudentID: r.StudentID,
		SubjectID: r.SubjectID,
		ClassID:   r.ClassID,
		Period:    model.NewPeriod(r.AcademicYear, r.Semester),
		Kind:      model.AssessmentKind(r.Kind),
		Number:    r.Number,
	}
	if r.Value != nil {
		in.Value = *r.Value
	}
	if recordedBy != uuid.Nil {
		in.RecordedBy = &recordedBy
	}
	return in
}

type PatchScoreRequest struct {
	Value  *float64 `json:"value" validate:"omitempty,min=0,max=100"`
	Number *int     `json:"number" validate:"omitempty,min=1,max=99"`
}

func (r PatchScoreRequest) ToPatch() service.ScorePatch {
	return service.ScorePatch{Value: r.Value, Number: r.Number}
}

type ScoreResponse struct {
	ID           uuid.UUID            `json:"assessment_score_id"`
	StudentID    uuid.UUID            `json:"assessment_score_student_id"`
	SubjectID    uuid.UUID            `json:"assessment_score_subject_id"`
	ClassID      uuid.UUID            `json:"assessment_score_class_id"`
	AcademicYear string               `json:"assessment_score_academic_year"`
	Semester     model.Semester       `json:"assessment_score_semester"`
	Kind         model.AssessmentKind `json:"assessment_score_kind"`
	Number       *int                 `json:"assessment_score_number,omitempty"`
	Value        float64              `json:"assessment_score_value"`
	Locked       bool                 `json:"assessment_score_locked"`
	RecordedBy   *uuid.UUID           `json:"assessment_score_recorded_by_teacher_id,omitempty"`
	CreatedAt    time.Time            `json:"assessment_score_created_at"`
	UpdatedAt    time.Time            `json:"assessment_score_updated_at"`
}

func FromScoreModel(m model.AssessmentScoreModel) ScoreResponse {
	return ScoreResponse{
		ID:           m.AssessmentScoreID,
		StudentID:    m.AssessmentScoreStudentID,
		SubjectID:    m.AssessmentScoreSubjectID,
		ClassID:      m.AssessmentScoreClassID,
		AcademicYear: m.AssessmentScoreAcademicYear,
		Semester:     m.AssessmentScoreSemester,
		Kind:         m.AssessmentScoreKind,
		Number:       m.AssessmentScoreNumber,
		Value:        m.AssessmentScoreValue,
		Locked:       m.AssessmentScoreLocked,
		RecordedBy:   m.AssessmentScoreRecordedByTeacherID,
		CreatedAt:    m.AssessmentScoreCreatedAt,
		UpdatedAt:    m.AssessmentScoreUpdatedAt,
	}
}
