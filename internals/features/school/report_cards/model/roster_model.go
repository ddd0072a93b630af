// file: internals/features/school/report_cards/model/roster_model.go
package model

import (
	"github.com/google/uuid"
)

/*
Read model milik subsistem lain (kelas, mapel, absensi).
Engine rapor hanya membaca; isi tabel dikelola fitur kelas/absensi.
*/

// class_students: keanggotaan siswa di kelas untuk satu period
type ClassStudentModel struct {
	ClassStudentID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:class_student_id" json:"class_student_id"`
	ClassStudentClassID      uuid.UUID `gorm:"type:uuid;not null;index;column:class_student_class_id" json:"class_student_class_id"`
	ClassStudentStudentID    uuid.UUID `gorm:"type:uuid;not null;index;column:class_student_student_id" json:"class_student_student_id"`
	ClassStudentAcademicYear string    `gorm:"type:varchar(16);not null;column:class_student_academic_year" json:"class_student_academic_year"`
	ClassStudentSemester     Semester  `gorm:"type:varchar(8);not null;column:class_student_semester" json:"class_student_semester"`
	ClassStudentIsActive     bool      `gorm:"not null;default:true;column:class_student_is_active" json:"class_student_is_active"`

	// snapshot identitas (dipakai untuk urutan ranking & dokumen rapor)
	ClassStudentName      string  `gorm:"type:varchar(160);not null;column:class_student_name" json:"class_student_name"`
	ClassStudentNIS       *string `gorm:"type:varchar(32);column:class_student_nis" json:"class_student_nis,omitempty"`
	ClassStudentClassName string  `gorm:"type:varchar(80);not null;default:'';column:class_student_class_name" json:"class_student_class_name"`
}

func (ClassStudentModel) TableName() string { return "class_students" }

// class_subjects: mapel yang diajarkan di kelas untuk satu period
type ClassSubjectModel struct {
	ClassSubjectID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:class_subject_id" json:"class_subject_id"`
	ClassSubjectClassID      uuid.UUID `gorm:"type:uuid;not null;index;column:class_subject_class_id" json:"class_subject_class_id"`
	ClassSubjectSubjectID    uuid.UUID `gorm:"type:uuid;not null;column:class_subject_subject_id" json:"class_subject_subject_id"`
	ClassSubjectAcademicYear string    `gorm:"type:varchar(16);not null;column:class_subject_academic_year" json:"class_subject_academic_year"`
	ClassSubjectSemester     Semester  `gorm:"type:varchar(8);not null;column:class_subject_semester" json:"class_subject_semester"`
	ClassSubjectName         string    `gorm:"type:varchar(120);not null;column:class_subject_name" json:"class_subject_name"`
	ClassSubjectCode         *string   `gorm:"type:varchar(32);column:class_subject_code" json:"class_subject_code,omitempty"`
	ClassSubjectOrder        int       `gorm:"type:int;not null;default:0;column:class_subject_order" json:"class_subject_order"`
}

func (ClassSubjectModel) TableName() string { return "class_subjects" }

// attendance_summaries: rekap absensi final (sakit / izin / alpa), dihitung modul absensi
type AttendanceSummaryModel struct {
	AttendanceSummaryID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:attendance_summary_id" json:"attendance_summary_id"`
	AttendanceSummaryStudentID    uuid.UUID `gorm:"type:uuid;not null;index;column:attendance_summary_student_id" json:"attendance_summary_student_id"`
	AttendanceSummaryClassID      uuid.UUID `gorm:"type:uuid;not null;column:attendance_summary_class_id" json:"attendance_summary_class_id"`
	AttendanceSummaryAcademicYear string    `gorm:"type:varchar(16);not null;column:attendance_summary_academic_year" json:"attendance_summary_academic_year"`
	AttendanceSummarySemester     Semester  `gorm:"type:varchar(8);not null;column:attendance_summary_semester" json:"attendance_summary_semester"`

	AttendanceSummaryPresent int `gorm:"type:int;not null;default:0;column:attendance_summary_present" json:"attendance_summary_present"`
	AttendanceSummarySick    int `gorm:"type:int;not null;default:0;column:attendance_summary_sick" json:"attendance_summary_sick"`
	AttendanceSummaryPermit  int `gorm:"type:int;not null;default:0;column:attendance_summary_permit" json:"attendance_summary_permit"`
	AttendanceSummaryAbsent  int `gorm:"type:int;not null;default:0;column:attendance_summary_absent" json:"attendance_summary_absent"`
}

func (AttendanceSummaryModel) TableName() string { return "attendance_summaries" }
