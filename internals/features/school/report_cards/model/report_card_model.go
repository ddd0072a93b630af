// file: internals/features/school/report_cards/model/report_card_model.go
package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// =========================
// Enum: Report Card Status
// DRAFT → PENDING_APPROVAL → RELEASED
// =========================

type ReportCardStatus string

const (
	ReportCardStatusDraft           ReportCardStatus = "DRAFT"
	ReportCardStatusPendingApproval ReportCardStatus = "PENDING_APPROVAL"
	ReportCardStatusReleased        ReportCardStatus = "RELEASED"
)

func (s ReportCardStatus) IsValid() bool {
	switch s {
	case ReportCardStatusDraft, ReportCardStatusPendingApproval, ReportCardStatusReleased:
		return true
	}
	return false
}

// =========================
// Model: report_cards (1 baris per siswa × kelas × period)
// =========================

type ReportCardModel struct {
	ReportCardID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:report_card_id" json:"report_card_id"`

	ReportCardStudentID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_report_cards_student_class_period,priority:1;column:report_card_student_id" json:"report_card_student_id"`
	ReportCardClassID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_report_cards_student_class_period,priority:2;index:idx_report_cards_class_period,priority:1;column:report_card_class_id" json:"report_card_class_id"`
	ReportCardAcademicYear string    `gorm:"type:varchar(16);not null;uniqueIndex:uq_report_cards_student_class_period,priority:3;index:idx_report_cards_class_period,priority:2;column:report_card_academic_year" json:"report_card_academic_year"`
	ReportCardSemester     Semester  `gorm:"type:varchar(8);not null;uniqueIndex:uq_report_cards_student_class_period,priority:4;index:idx_report_cards_class_period,priority:3;column:report_card_semester" json:"report_card_semester"`

	ReportCardStatus       ReportCardStatus `gorm:"type:varchar(20);not null;default:'DRAFT';column:report_card_status" json:"report_card_status"`
	ReportCardAverageScore float64          `gorm:"type:numeric(5,2);not null;default:0;column:report_card_average_score" json:"report_card_average_score"`
	ReportCardClassRank    int              `gorm:"type:int;not null;default:0;column:report_card_class_rank" json:"report_card_class_rank"`
	ReportCardClassSize    int              `gorm:"type:int;not null;default:0;column:report_card_class_size" json:"report_card_class_size"`

	// approval metadata
	ReportCardApprovedBy     *uuid.UUID `gorm:"type:uuid;column:report_card_approved_by" json:"report_card_approved_by,omitempty"`
	ReportCardApprovedAt     *time.Time `gorm:"type:timestamptz;column:report_card_approved_at" json:"report_card_approved_at,omitempty"`
	ReportCardReleasedAt     *time.Time `gorm:"type:timestamptz;column:report_card_released_at" json:"report_card_released_at,omitempty"`
	ReportCardSubmittedAt    *time.Time `gorm:"type:timestamptz;column:report_card_submitted_at" json:"report_card_submitted_at,omitempty"`
	ReportCardRejectionNotes *string    `gorm:"type:text;column:report_card_rejection_notes" json:"report_card_rejection_notes,omitempty"`
	ReportCardPDFURL         *string    `gorm:"type:text;column:report_card_pdf_url" json:"report_card_pdf_url,omitempty"`

	// true setelah unlock atau ada nilai baru pada DRAFT; submit ditolak sampai generate ulang
	ReportCardNeedsRegeneration bool `gorm:"not null;default:false;column:report_card_needs_regeneration" json:"report_card_needs_regeneration"`

	// baris assessment_scores yang dihitung & dikunci oleh rapor ini
	ReportCardLockedScoreIDs pq.StringArray `gorm:"type:uuid[];column:report_card_locked_score_ids" json:"report_card_locked_score_ids"`

	// snapshot nilai per mapel saat generate (breakdown komponen)
	ReportCardSubjectsSnapshot datatypes.JSON `gorm:"type:jsonb;column:report_card_subjects_snapshot" json:"report_card_subjects_snapshot,omitempty"`

	ReportCardGeneratedAt time.Time `gorm:"type:timestamptz;not null;column:report_card_generated_at" json:"report_card_generated_at"`
	ReportCardCreatedAt   time.Time `gorm:"type:timestamptz;not null;autoCreateTime;column:report_card_created_at" json:"report_card_created_at"`
	ReportCardUpdatedAt   time.Time `gorm:"type:timestamptz;not null;autoUpdateTime;column:report_card_updated_at" json:"report_card_updated_at"`
}

func (ReportCardModel) TableName() string { return "report_cards" }

func (m ReportCardModel) Period() Period {
	return Period{AcademicYear: m.ReportCardAcademicYear, Semester: m.ReportCardSemester}
}

// LockedScoreIDs: parse kolom uuid[]; entri yang tidak valid diabaikan
func (m ReportCardModel) LockedScoreIDs() []uuid.UUID {
	out := make([]uuid.UUID, 0, len(m.ReportCardLockedScoreIDs))
	for _, s := range m.ReportCardLockedScoreIDs {
		if id, err := uuid.Parse(strings.TrimSpace(s)); err == nil {
			out = append(out, id)
		}
	}
	return out
}

func (m *ReportCardModel) SetLockedScoreIDs(ids []uuid.UUID) {
	arr := make(pq.StringArray, 0, len(ids))
	for _, id := range ids {
		arr = append(arr, id.String())
	}
	m.ReportCardLockedScoreIDs = arr
}
