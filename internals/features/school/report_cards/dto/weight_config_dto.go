// file: internals/features/school/report_cards/dto/weight_config_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"

	"schoolku_backend/internals/features/school/report_cards/model"
	"schoolku_backend/internals/features/school/report_cards/service"
)

// subject_id kosong = bobot default period
type UpsertWeightConfigRequest struct {
	AcademicYear string     `json:"academic_year" validate:"required,max=16"`
	Semester     string     `json:"semester" validate:"required,oneof=ganjil genap"`
	SubjectID    *uuid.UUID `json:"subject_id" validate:"omitempty"`
	UH           int        `json:"uh" validate:"min=0,max=100"`
	UTS          int        `json:"uts" validate:"min=0,max=100"`
	UAS          int        `json:"uas" validate:"min=0,max=100"`
	Praktik      int        `json:"praktik" validate:"min=0,max=100"`
}

func (r UpsertWeightConfigRequest) ToInput() service.WeightInput {
	return service.WeightInput{
		Period:    model.NewPeriod(r.AcademicYear, r.Semester),
		SubjectID: r.SubjectID,
		UH:        r.UH,
		UTS:       r.UTS,
		UAS:       r.UAS,
		Praktik:   r.Praktik,
	}
}

type WeightConfigResponse struct {
	ID           uuid.UUID      `json:"weight_config_id"`
	AcademicYear string         `json:"weight_config_academic_year"`
	Semester     model.Semester `json:"weight_config_semester"`
	SubjectID    *uuid.UUID     `json:"weight_config_subject_id,omitempty"`
	IsDefault    bool           `json:"weight_config_is_default"`
	UH           int            `json:"weight_config_uh"`
	UTS          int            `json:"weight_config_uts"`
	UAS          int            `json:"weight_config_uas"`
	Praktik      int            `json:"weight_config_praktik"`
	UpdatedAt    time.Time      `json:"weight_config_updated_at"`
}

func FromWeightConfigModel(m model.WeightConfigModel) WeightConfigResponse {
	return WeightConfigResponse{
		ID:           m.WeightConfigID,
		AcademicYear: m.WeightConfigAcademicYear,
		Semester:     m.WeightConfigSemester,
		SubjectID:    m.WeightConfigSubjectID,
		IsDefault:    m.WeightConfigIsDefault,
		UH:           m.WeightConfigUH,
		UTS:          m.WeightConfigUTS,
		UAS:          m.WeightConfigUAS,
		Praktik:      m.WeightConfigPraktik,
		UpdatedAt:    m.WeightConfigUpdatedAt,
	}
}

func FromWeightConfigModels(rows []model.WeightConfigModel) []WeightConfigResponse {
	out := make([]WeightConfigResponse, 0, len(rows))
	for _, m := range rows {
		out = append(out, FromWeightConfigModel(m))
	}
	return out
}
