package roster

import (
	"fmt"
	"log"
	"os"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"schoolku_backend/internals/features/school/report_cards/model"
)

/*
Seed read model roster (kelas, mapel, absensi) + bobot default untuk
environment dev. Data produksi diisi fitur kelas/absensi.
*/

type RosterSeed struct {
	AcademicYear  string      `json:"academic_year"`
	Semester      string      `json:"semester"`
	DefaultWeight *WeightSeed `json:"default_weight"`
	Classes       []ClassSeed `json:"classes"`
}

type WeightSeed struct {
	UH      int `json:"uh"`
	UTS     int `json:"uts"`
	UAS     int `json:"uas"`
	Praktik int `json:"praktik"`
}

type ClassSeed struct {
	ClassID   uuid.UUID     `json:"class_id"`
	ClassName string        `json:"class_name"`
	Subjects  []SubjectSeed `json:"subjects"`
	Students  []StudentSeed `json:"students"`
}

type SubjectSeed struct {
	SubjectID uuid.UUID `json:"subject_id"`
	Name      string    `json:"name"`
	Code      *string   `json:"code"`
	Order     int       `json:"order"`
}

type StudentSeed struct {
	StudentID uuid.UUID `json:"student_id"`
	Name      string    `json:"name"`
	NIS       *string   `json:"nis"`
	Present   int       `json:"present"`
	Sick      int       `json:"sick"`
	Permit    int       `json:"permit"`
	Absent    int       `json:"absent"`
}

// ParseRoster: decode + validasi period dan id
func ParseRoster(content []byte) (RosterSeed, error) {
	var data RosterSeed
	if err := sonic.Unmarshal(content, &data); err != nil {
		return data, fmt.Errorf("decode roster: %w", err)
	}
	if err := model.NewPeriod(data.AcademicYear, data.Semester).Validate(); err != nil {
		return data, err
	}
	for _, cl := range data.Classes {
		if cl.ClassID == uuid.Nil {
			return data, fmt.Errorf("class %q tanpa class_id", cl.ClassName)
		}
		for _, st := range cl.Students {
			if st.StudentID == uuid.Nil {
				return data, fmt.Errorf("siswa %q di %s tanpa student_id", st.Name, cl.ClassName)
			}
		}
		for _, sb := range cl.Subjects {
			if sb.SubjectID == uuid.Nil {
				return data, fmt.Errorf("mapel %q di %s tanpa subject_id", sb.Name, cl.ClassName)
			}
		}
	}
	return data, nil
}

func SeedRosterFromJSON(db *gorm.DB, filePath string) {
	log.Println("📥 Membaca file:", filePath)

	content, err := os.ReadFile(filePath)
	if err != nil {
		log.Fatalf("❌ Gagal baca file JSON: %v", err)
	}
	data, err := ParseRoster(content)
	if err != nil {
		log.Fatalf("❌ Roster tidak valid: %v", err)
	}
	if err := SeedRoster(db, data); err != nil {
		log.Fatalf("❌ Gagal seed roster: %v", err)
	}
}

// SeedRoster: idempotent, baris yang sudah ada dilewati
func SeedRoster(db *gorm.DB, data RosterSeed) error {
	period := model.NewPeriod(data.AcademicYear, data.Semester)

	return db.Transaction(func(tx *gorm.DB) error {
		if w := data.DefaultWeight; w != nil {
			var n int64
			if err := tx.Model(&model.WeightConfigModel{}).
				Where("weight_config_academic_year = ? AND weight_config_semester = ? AND weight_config_is_default", period.AcademicYear, period.Semester).
				Count(&n).Error; err != nil {
				return err
			}
			if n == 0 {
				row := model.WeightConfigModel{
					WeightConfigAcademicYear: period.AcademicYear,
					WeightConfigSemester:     period.Semester,
					WeightConfigIsDefault:    true,
					WeightConfigUH:           w.UH,
					WeightConfigUTS:          w.UTS,
					WeightConfigUAS:          w.UAS,
					WeightConfigPraktik:      w.Praktik,
				}
				if err := tx.Create(&row).Error; err != nil {
					return fmt.Errorf("bobot default: %w", err)
				}
				log.Printf("✅ Bobot default %s %s dibuat", period.AcademicYear, period.Semester)
			}
		}

		for _, cl := range data.Classes {
			for _, sb := range cl.Subjects {
				var n int64
				if err := tx.Model(&model.ClassSubjectModel{}).
					Where("class_subject_class_id = ? AND class_subject_subject_id = ? AND class_subject_academic_year = ? AND class_subject_semester = ?",
						cl.ClassID, sb.SubjectID, period.AcademicYear, period.Semester).
					Count(&n).Error; err != nil {
					return err
				}
				if n > 0 {
					continue
				}
				row := model.ClassSubjectModel{
					ClassSubjectClassID:      cl.ClassID,
					ClassSubjectSubjectID:    sb.SubjectID,
					ClassSubjectAcademicYear: period.AcademicYear,
					ClassSubjectSemester:     period.Semester,
					ClassSubjectName:         sb.Name,
					ClassSubjectCode:         sb.Code,
					ClassSubjectOrder:        sb.Order,
				}
				if err := tx.Create(&row).Error; err != nil {
					return fmt.Errorf("mapel %s: %w", sb.Name, err)
				}
			}

			for _, st := range cl.Students {
				var n int64
				if err := tx.Model(&model.ClassStudentModel{}).
					Where("class_student_class_id = ? AND class_student_student_id = ? AND class_student_academic_year = ? AND class_student_semester = ?",
						cl.ClassID, st.StudentID, period.AcademicYear, period.Semester).
					Count(&n).Error; err != nil {
					return err
				}
				if n > 0 {
					log.Printf("ℹ️ %s sudah terdaftar di %s, lewati...", st.Name, cl.ClassName)
					continue
				}
				member := model.ClassStudentModel{
					ClassStudentClassID:      cl.ClassID,
					ClassStudentStudentID:    st.StudentID,
					ClassStudentAcademicYear: period.AcademicYear,
					ClassStudentSemester:     period.Semester,
					ClassStudentIsActive:     true,
					ClassStudentName:         st.Name,
					ClassStudentNIS:          st.NIS,
					ClassStudentClassName:    cl.ClassName,
				}
				attendance := model.AttendanceSummaryModel{
					AttendanceSummaryStudentID:    st.StudentID,
					AttendanceSummaryClassID:      cl.ClassID,
					AttendanceSummaryAcademicYear: period.AcademicYear,
					AttendanceSummarySemester:     period.Semester,
					AttendanceSummaryPresent:      st.Present,
					AttendanceSummarySick:         st.Sick,
					AttendanceSummaryPermit:       st.Permit,
					AttendanceSummaryAbsent:       st.Absent,
				}
				if err := tx.Create(&member).Error; err != nil {
					return fmt.Errorf("siswa %s: %w", st.Name, err)
				}
				if err := tx.Create(&attendance).Error; err != nil {
					return fmt.Errorf("absensi %s: %w", st.Name, err)
				}
			}
			log.Printf("✅ Roster %s: %d siswa, %d mapel", cl.ClassName, len(cl.Students), len(cl.Subjects))
		}
		return nil
	})
}
