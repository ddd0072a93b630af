// file: internals/features/school/report_cards/model/attitude_grade_model.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// Nilai sikap (spiritual / sosial)
type AttitudeGrade string

const (
	AttitudeGradeA AttitudeGrade = "A"
	AttitudeGradeB AttitudeGrade = "B"
	AttitudeGradeC AttitudeGrade = "C"
	AttitudeGradeD AttitudeGrade = "D"
)

func (g AttitudeGrade) IsValid() bool {
	switch g {
	case AttitudeGradeA, AttitudeGradeB, AttitudeGradeC, AttitudeGradeD:
		return true
	}
	return false
}

// =========================
// Model: attitude_grades (1 baris per siswa × kelas × period, di-upsert wali kelas)
// =========================

type AttitudeGradeModel struct {
	AttitudeGradeID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:attitude_grade_id" json:"attitude_grade_id"`

	AttitudeGradeStudentID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_attitude_grades_student_class_period,priority:1;column:attitude_grade_student_id" json:"attitude_grade_student_id"`
	AttitudeGradeClassID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_attitude_grades_student_class_period,priority:2;column:attitude_grade_class_id" json:"attitude_grade_class_id"`
	AttitudeGradeAcademicYear string    `gorm:"type:varchar(16);not null;uniqueIndex:uq_attitude_grades_student_class_period,priority:3;column:attitude_grade_academic_year" json:"attitude_grade_academic_year"`
	AttitudeGradeSemester     Semester  `gorm:"type:varchar(8);not null;uniqueIndex:uq_attitude_grades_student_class_period,priority:4;column:attitude_grade_semester" json:"attitude_grade_semester"`

	AttitudeGradeSpiritual            AttitudeGrade `gorm:"type:varchar(1);not null;column:attitude_grade_spiritual" json:"attitude_grade_spiritual"`
	AttitudeGradeSocial               AttitudeGrade `gorm:"type:varchar(1);not null;column:attitude_grade_social" json:"attitude_grade_social"`
	AttitudeGradeSpiritualDescription *string       `gorm:"type:text;column:attitude_grade_spiritual_description" json:"attitude_grade_spiritual_description,omitempty"`
	AttitudeGradeSocialDescription    *string       `gorm:"type:text;column:attitude_grade_social_description" json:"attitude_grade_social_description,omitempty"`
	AttitudeGradeHomeroomNotes        *string       `gorm:"type:text;column:attitude_grade_homeroom_notes" json:"attitude_grade_homeroom_notes,omitempty"`

	AttitudeGradeHomeroomTeacherID *uuid.UUID `gorm:"type:uuid;column:attitude_grade_homeroom_teacher_id" json:"attitude_grade_homeroom_teacher_id,omitempty"`

	AttitudeGradeCreatedAt time.Time `gorm:"type:timestamptz;not null;autoCreateTime;column:attitude_grade_created_at" json:"attitude_grade_created_at"`
	AttitudeGradeUpdatedAt time.Time `gorm:"type:timestamptz;not null;autoUpdateTime;column:attitude_grade_updated_at" json:"attitude_grade_updated_at"`
}

func (AttitudeGradeModel) TableName() string { return "attitude_grades" }
