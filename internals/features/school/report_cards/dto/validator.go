// file: internals/features/school/report_cards/dto/validator.go
package dto

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"schoolku_backend/internals/features/school/report_cards/model"
)

// NewValidator: validator dengan aturan struct-level rapor (bobot = 100)
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterStructValidation(weightSumValidation, UpsertWeightConfigRequest{})
	return v
}

func weightSumValidation(sl validator.StructLevel) {
	req := sl.Current().Interface().(UpsertWeightConfigRequest)
	if req.UH+req.UTS+req.UAS+req.Praktik != model.WeightTotal {
		sl.ReportError(req.UH, "weight_uh", "UH", "weights_sum_100", "")
	}
}

// IsWeightSumError: true bila kegagalan validasi berasal dari aturan total bobot
func IsWeightSumError(err error) bool {
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return false
	}
	for _, fe := range ves {
		if fe.Tag() == "weights_sum_100" {
			return true
		}
	}
	return false
}

// FieldErrors: ValidationErrors → map field → pesan (untuk JsonValidationError)
func FieldErrors(err error) map[string][]string {
	out := map[string][]string{}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		out["_"] = []string{err.Error()}
		return out
	}
	for _, fe := range ves {
		field := strings.ToLower(fe.Field())
		msg := fe.Tag()
		if fe.Param() != "" {
			msg += "=" + fe.Param()
		}
		out[field] = append(out[field], msg)
	}
	return out
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
