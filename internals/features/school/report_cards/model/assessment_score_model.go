// file: internals/features/school/report_cards/model/assessment_score_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// =========================
// Enum: Assessment Kind
// UH = ulangan harian, UTS = tengah semester, UAS = akhir semester, PRAKTIK = praktik
// =========================

type AssessmentKind string

const (
	AssessmentKindUH      AssessmentKind = "UH"
	AssessmentKindUTS     AssessmentKind = "UTS"
	AssessmentKindUAS     AssessmentKind = "UAS"
	AssessmentKindPraktik AssessmentKind = "PRAKTIK"
)

// urutan tetap, dipakai untuk breakdown & validasi kelengkapan
var AssessmentKinds = []AssessmentKind{
	AssessmentKindUH,
	AssessmentKindUTS,
	AssessmentKindUAS,
	AssessmentKindPraktik,
}

func (k AssessmentKind) IsValid() bool {
	switch k {
	case AssessmentKindUH, AssessmentKindUTS, AssessmentKindUAS, AssessmentKindPraktik:
		return true
	}
	return false
}

// Numbered: hanya UH yang punya nomor (UH-1, UH-2, ...)
func (k AssessmentKind) Numbered() bool { return k == AssessmentKindUH }

// =========================
// Model: assessment_scores
// =========================

type AssessmentScoreModel struct {
	AssessmentScoreID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:assessment_score_id" json:"assessment_score_id"`

	AssessmentScoreStudentID uuid.UUID `gorm:"type:uuid;not null;index:idx_assessment_scores_student_period,priority:1;column:assessment_score_student_id" json:"assessment_score_student_id"`
	AssessmentScoreSubjectID uuid.UUID `gorm:"type:uuid;not null;column:assessment_score_subject_id" json:"assessment_score_subject_id"`
	AssessmentScoreClassID   uuid.UUID `gorm:"type:uuid;not null;index;column:assessment_score_class_id" json:"assessment_score_class_id"`

	AssessmentScoreAcademicYear string   `gorm:"type:varchar(16);not null;index:idx_assessment_scores_student_period,priority:2;column:assessment_score_academic_year" json:"assessment_score_academic_year"`
	AssessmentScoreSemester     Semester `gorm:"type:varchar(8);not null;index:idx_assessment_scores_student_period,priority:3;column:assessment_score_semester" json:"assessment_score_semester"`

	AssessmentScoreKind   AssessmentKind `gorm:"type:varchar(10);not null;column:assessment_score_kind" json:"assessment_score_kind"`
	AssessmentScoreNumber *int           `gorm:"type:smallint;column:assessment_score_number" json:"assessment_score_number,omitempty"`
	AssessmentScoreValue  float64        `gorm:"type:numeric(5,2);not null;column:assessment_score_value" json:"assessment_score_value"`

	// true selama ada rapor non-DRAFT (atau DRAFT hasil generate) yang menghitung baris ini
	AssessmentScoreLocked bool `gorm:"not null;default:false;column:assessment_score_locked" json:"assessment_score_locked"`

	AssessmentScoreRecordedByTeacherID *uuid.UUID `gorm:"type:uuid;column:assessment_score_recorded_by_teacher_id" json:"assessment_score_recorded_by_teacher_id,omitempty"`

	AssessmentScoreCreatedAt time.Time      `gorm:"type:timestamptz;not null;autoCreateTime;column:assessment_score_created_at" json:"assessment_score_created_at"`
	AssessmentScoreUpdatedAt time.Time      `gorm:"type:timestamptz;not null;autoUpdateTime;column:assessment_score_updated_at" json:"assessment_score_updated_at"`
	AssessmentScoreDeletedAt gorm.DeletedAt `gorm:"column:assessment_score_deleted_at;index" json:"assessment_score_deleted_at,omitempty"`
}

func (AssessmentScoreModel) TableName() string { return "assessment_scores" }

func (m AssessmentScoreModel) Period() Period {
	return Period{AcademicYear: m.AssessmentScoreAcademicYear, Semester: m.AssessmentScoreSemester}
}
