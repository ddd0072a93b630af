// file: internals/features/school/report_cards/model/weight_config_model.go
package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Total bobot komponen wajib tepat 100
const WeightTotal = 100

var ErrWeightsNot100 = errors.New("total bobot UH+UTS+UAS+PRAKTIK harus tepat 100")

// =========================
// Model: weight_configs
// - subject_id NULL + is_default = bobot default untuk period
// - subject_id terisi = override per mapel
// =========================

type WeightConfigModel struct {
	WeightConfigID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:weight_config_id" json:"weight_config_id"`

	WeightConfigAcademicYear string     `gorm:"type:varchar(16);not null;uniqueIndex:uq_weight_configs_period_subject,priority:1;uniqueIndex:uq_weight_configs_period_default,priority:1,where:weight_config_is_default;column:weight_config_academic_year" json:"weight_config_academic_year"`
	WeightConfigSemester     Semester   `gorm:"type:varchar(8);not null;uniqueIndex:uq_weight_configs_period_subject,priority:2;uniqueIndex:uq_weight_configs_period_default,priority:2,where:weight_config_is_default;column:weight_config_semester" json:"weight_config_semester"`
	WeightConfigSubjectID    *uuid.UUID `gorm:"type:uuid;uniqueIndex:uq_weight_configs_period_subject,priority:3;column:weight_config_subject_id" json:"weight_config_subject_id,omitempty"`
	WeightConfigIsDefault    bool       `gorm:"not null;default:false;column:weight_config_is_default" json:"weight_config_is_default"`

	WeightConfigUH      int `gorm:"type:smallint;not null;column:weight_config_uh" json:"weight_config_uh"`
	WeightConfigUTS     int `gorm:"type:smallint;not null;column:weight_config_uts" json:"weight_config_uts"`
	WeightConfigUAS     int `gorm:"type:smallint;not null;column:weight_config_uas" json:"weight_config_uas"`
	WeightConfigPraktik int `gorm:"type:smallint;not null;column:weight_config_praktik" json:"weight_config_praktik"`

	WeightConfigCreatedAt time.Time `gorm:"type:timestamptz;not null;autoCreateTime;column:weight_config_created_at" json:"weight_config_created_at"`
	WeightConfigUpdatedAt time.Time `gorm:"type:timestamptz;not null;autoUpdateTime;column:weight_config_updated_at" json:"weight_config_updated_at"`
}

func (WeightConfigModel) TableName() string { return "weight_configs" }

func (m WeightConfigModel) Period() Period {
	return Period{AcademicYear: m.WeightConfigAcademicYear, Semester: m.WeightConfigSemester}
}

func (m WeightConfigModel) Sum() int {
	return m.WeightConfigUH + m.WeightConfigUTS + m.WeightConfigUAS + m.WeightConfigPraktik
}

// CheckWeights: tiap bobot 0..100 dan total = 100
func (m WeightConfigModel) CheckWeights() error {
	for _, w := range []int{m.WeightConfigUH, m.WeightConfigUTS, m.WeightConfigUAS, m.WeightConfigPraktik} {
		if w < 0 || w > WeightTotal {
			return fmt.Errorf("bobot %d di luar rentang 0..100", w)
		}
	}
	if m.Sum() != WeightTotal {
		return ErrWeightsNot100
	}
	return nil
}

// ============ Hooks: mirror CHECK (sum = 100) ============
func (m *WeightConfigModel) BeforeSave(tx *gorm.DB) error {
	if m.WeightConfigIsDefault && m.WeightConfigSubjectID != nil {
		return errors.New("config default tidak boleh punya subject_id")
	}
	if !m.WeightConfigIsDefault && m.WeightConfigSubjectID == nil {
		return errors.New("config override wajib punya subject_id")
	}
	return m.CheckWeights()
}
