// file: internals/features/school/report_cards/dto/report_card_dto.go
package dto

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"schoolku_backend/internals/features/school/report_cards/model"
)

/* =========================================================
   Requests
   ========================================================= */

// Validate / Generate: beberapa kelas sekaligus
type ClassBatchRequest struct {
	ClassIDs     []uuid.UUID `json:"class_ids" validate:"required,min=1,dive,required"`
	AcademicYear string      `json:"academic_year" validate:"required,max=16"`
	Semester     string      `json:"semester" validate:"required,oneof=ganjil genap"`
}

func (r ClassBatchRequest) Period() model.Period {
	return model.NewPeriod(r.AcademicYear, r.Semester)
}

// SubmitAll / BulkApprove: satu kelas
type ClassActionRequest struct {
	ClassID      uuid.UUID `json:"class_id" validate:"required"`
	AcademicYear string    `json:"academic_year" validate:"required,max=16"`
	Semester     string    `json:"semester" validate:"required,oneof=ganjil genap"`
}

func (r ClassActionRequest) Period() model.Period {
	return model.NewPeriod(r.AcademicYear, r.Semester)
}

type RejectRequest struct {
	Notes string `json:"notes" validate:"required,max=2000"`
}

func (r *RejectRequest) Normalize() { r.Notes = strings.TrimSpace(r.Notes) }

type AttachDocumentRequest struct {
	PDFURL string `json:"pdf_url" validate:"required,url,max=1024"`
}

/* =========================================================
   Responses
   ========================================================= */

type ReportCardResponse struct {
	ReportCardID   uuid.UUID              `json:"report_card_id"`
	StudentID      uuid.UUID              `json:"report_card_student_id"`
	ClassID        uuid.UUID              `json:"report_card_class_id"`
	AcademicYear   string                 `json:"report_card_academic_year"`
	Semester       model.Semester         `json:"report_card_semester"`
	Status         model.ReportCardStatus `json:"report_card_status"`
	AverageScore   float64                `json:"report_card_average_score"`
	ClassRank      int                    `json:"report_card_class_rank"`
	ClassSize      int                    `json:"report_card_class_size"`
	ApprovedBy     *uuid.UUID             `json:"report_card_approved_by,omitempty"`
	ApprovedAt     *time.Time             `json:"report_card_approved_at,omitempty"`
	ReleasedAt     *time.Time             `json:"report_card_released_at,omitempty"`
	SubmittedAt    *time.Time             `json:"report_card_submitted_at,omitempty"`
	RejectionNotes *string                `json:"report_card_rejection_notes,omitempty"`
	PDFURL         *string                `json:"report_card_pdf_url,omitempty"`
	LockedScores   int                    `json:"report_card_locked_scores"`
	MustRegenerate bool                   `json:"report_card_needs_regeneration"`
	Subjects       json.RawMessage        `json:"report_card_subjects,omitempty"`
	GeneratedAt    time.Time              `json:"report_card_generated_at"`
	UpdatedAt      time.Time              `json:"report_card_updated_at"`
}

func FromReportCardModel(m model.ReportCardModel) ReportCardResponse {
	resp := ReportCardResponse{
		ReportCardID:   m.ReportCardID,
		StudentID:      m.ReportCardStudentID,
		ClassID:        m.ReportCardClassID,
		AcademicYear:   m.ReportCardAcademicYear,
		Semester:       m.ReportCardSemester,
		Status:         m.ReportCardStatus,
		AverageScore:   m.ReportCardAverageScore,
		ClassRank:      m.ReportCardClassRank,
		ClassSize:      m.ReportCardClassSize,
		ApprovedBy:     m.ReportCardApprovedBy,
		ApprovedAt:     m.ReportCardApprovedAt,
		ReleasedAt:     m.ReportCardReleasedAt,
		SubmittedAt:    m.ReportCardSubmittedAt,
		RejectionNotes: m.ReportCardRejectionNotes,
		PDFURL:         m.ReportCardPDFURL,
		LockedScores:   len(m.ReportCardLockedScoreIDs),
		MustRegenerate: m.ReportCardNeedsRegeneration,
		GeneratedAt:    m.ReportCardGeneratedAt,
		UpdatedAt:      m.ReportCardUpdatedAt,
	}
	if len(m.ReportCardSubjectsSnapshot) > 0 {
		resp.Subjects = json.RawMessage(m.ReportCardSubjectsSnapshot)
	}
	return resp
}

// list: tanpa snapshot mapel (ringan)
func FromReportCardModels(rows []model.ReportCardModel) []ReportCardResponse {
	out := make([]ReportCardResponse, 0, len(rows))
	for _, m := range rows {
		r := FromReportCardModel(m)
		r.Subjects = nil
		out = append(out, r)
	}
	return out
}
