// file: internals/features/school/report_cards/service/weight_resolver.go
package service

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"

	"schoolku_backend/internals/features/school/report_cards/model"
)

type WeightSource string

const (
	WeightSourceSubject  WeightSource = "subject"
	WeightSourceDefault  WeightSource = "default"
	WeightSourceFallback WeightSource = "fallback"
)

type WeightTuple struct {
	UH      int          `json:"uh"`
	UTS     int          `json:"uts"`
	UAS     int          `json:"uas"`
	Praktik int          `json:"praktik"`
	Source  WeightSource `json:"source"`
}

// Fallback bila belum ada config sama sekali untuk period
var FallbackWeights = WeightTuple{UH: 30, UTS: 25, UAS: 30, Praktik: 15, Source: WeightSourceFallback}

func (w WeightTuple) Of(kind model.AssessmentKind) int {
	switch kind {
	case model.AssessmentKindUH:
		return w.UH
	case model.AssessmentKindUTS:
		return w.UTS
	case model.AssessmentKindUAS:
		return w.UAS
	case model.AssessmentKindPraktik:
		return w.Praktik
	}
	return 0
}

func (w WeightTuple) Sum() int { return w.UH + w.UTS + w.UAS + w.Praktik }

func tupleFromModel(m model.WeightConfigModel, src WeightSource) WeightTuple {
	return WeightTuple{
		UH:      m.WeightConfigUH,
		UTS:     m.WeightConfigUTS,
		UAS:     m.WeightConfigUAS,
		Praktik: m.WeightConfigPraktik,
		Source:  src,
	}
}

type WeightResolver struct {
	repo WeightConfigRepository
}

func NewWeightResolver(repo WeightConfigRepository) *WeightResolver {
	return &WeightResolver{repo: repo}
}

// Resolve: override mapel → default period → FallbackWeights. Tidak pernah gagal.
func (r *WeightResolver) Resolve(ctx context.Context, period model.Period, subjectID uuid.UUID) WeightTuple {
	if subjectID != uuid.Nil {
		m, err := r.repo.FindSubjectWeightConfig(ctx, period, subjectID)
		switch {
		case err == nil:
			return tupleFromModel(m, WeightSourceSubject)
		case !errors.Is(err, ErrRecordNotFound):
			log.Printf("[WeightResolver] subject config lookup failed period=%s subject=%s: %v", period, subjectID, err)
		}
	}

	m, err := r.repo.FindDefaultWeightConfig(ctx, period)
	switch {
	case err == nil:
		return tupleFromModel(m, WeightSourceDefault)
	case !errors.Is(err, ErrRecordNotFound):
		log.Printf("[WeightResolver] default config lookup failed period=%s: %v", period, err)
	}
	return FallbackWeights
}
