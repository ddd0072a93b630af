package service_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolku_backend/internals/features/school/report_cards/model"
	"schoolku_backend/internals/features/school/report_cards/service"
)

func scoreRow(kind model.AssessmentKind, value float64) model.AssessmentScoreModel {
	return model.AssessmentScoreModel{
		AssessmentScoreID:    uuid.New(),
		AssessmentScoreKind:  kind,
		AssessmentScoreValue: value,
	}
}

func TestComputeFinal(t *testing.T) {
	fallback := service.FallbackWeights

	tests := []struct {
		name      string
		scores    []model.AssessmentScoreModel
		weights   service.WeightTuple
		want      float64
		predicate service.Predicate
	}{
		{
			name: "all components",
			scores: []model.AssessmentScoreModel{
				scoreRow(model.AssessmentKindUH, 70),
				scoreRow(model.AssessmentKindUH, 80),
				scoreRow(model.AssessmentKindUH, 90),
				scoreRow(model.AssessmentKindUTS, 75),
				scoreRow(model.AssessmentKindUAS, 85),
				scoreRow(model.AssessmentKindPraktik, 90),
			},
			weights:   fallback,
			want:      81.75,
			predicate: service.PredicateB,
		},
		{
			name:      "missing components count as zero",
			scores:    []model.AssessmentScoreModel{scoreRow(model.AssessmentKindUH, 80)},
			weights:   fallback,
			want:      24,
			predicate: service.PredicateD,
		},
		{
			name:      "no scores",
			weights:   fallback,
			want:      0,
			predicate: service.PredicateD,
		},
		{
			name: "praktik weight zero ignores praktik",
			scores: []model.AssessmentScoreModel{
				scoreRow(model.AssessmentKindUH, 90),
				scoreRow(model.AssessmentKindUTS, 90),
				scoreRow(model.AssessmentKindUAS, 90),
				scoreRow(model.AssessmentKindPraktik, 10),
			},
			weights:   service.WeightTuple{UH: 40, UTS: 30, UAS: 30, Praktik: 0},
			want:      90,
			predicate: service.PredicateA,
		},
		{
			name: "rounds half up to two decimals",
			scores: []model.AssessmentScoreModel{
				scoreRow(model.AssessmentKindUH, 77),
				scoreRow(model.AssessmentKindUH, 78),
				scoreRow(model.AssessmentKindUH, 78),
				scoreRow(model.AssessmentKindUTS, 100),
				scoreRow(model.AssessmentKindUAS, 100),
			},
			// UH avg 77.666.. * 30 = 2330 → 23.30 + 25 + 30 = 78.30
			weights:   fallback,
			want:      78.3,
			predicate: service.PredicateC,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fg := service.ComputeFinal(tc.scores, tc.weights)
			assert.Equal(t, tc.want, fg.FinalGrade)
			assert.Equal(t, tc.predicate, fg.Predicate)
			assert.Equal(t, tc.predicate.Label(), fg.PredicateLabel)
			assert.Len(t, fg.Breakdown, len(model.AssessmentKinds))
			assert.Len(t, fg.ScoreIDs, len(tc.scores))
		})
	}
}

func TestComputeFinal_Breakdown(t *testing.T) {
	fg := service.ComputeFinal([]model.AssessmentScoreModel{
		scoreRow(model.AssessmentKindUH, 70),
		scoreRow(model.AssessmentKindUH, 90),
		scoreRow(model.AssessmentKindUAS, 85),
	}, service.FallbackWeights)

	byKind := map[model.AssessmentKind]service.ComponentResult{}
	for _, c := range fg.Breakdown {
		byKind[c.Kind] = c
	}

	assert.Equal(t, 80.0, byKind[model.AssessmentKindUH].Value)
	assert.Equal(t, 2, byKind[model.AssessmentKindUH].Count)
	assert.Equal(t, 24.0, byKind[model.AssessmentKindUH].Weighted)

	assert.False(t, byKind[model.AssessmentKindUTS].Present())
	assert.Equal(t, 0.0, byKind[model.AssessmentKindUTS].Value)
	assert.Equal(t, 25, byKind[model.AssessmentKindUTS].Weight)

	assert.Equal(t, 25.5, byKind[model.AssessmentKindUAS].Weighted)
	assert.Equal(t, 49.5, fg.FinalGrade)
}

func TestComputeFinal_StaysInRange(t *testing.T) {
	tuples := []service.WeightTuple{
		{UH: 100},
		{UTS: 100},
		{UH: 25, UTS: 25, UAS: 25, Praktik: 25},
		{UH: 30, UTS: 25, UAS: 30, Praktik: 15},
		{UH: 1, UTS: 1, UAS: 1, Praktik: 97},
	}
	values := []float64{0, 0.01, 33.33, 59.99, 99.99, 100}

	for _, w := range tuples {
		require.Equal(t, 100, w.Sum())
		for _, v := range values {
			fg := service.ComputeFinal([]model.AssessmentScoreModel{
				scoreRow(model.AssessmentKindUH, v),
				scoreRow(model.AssessmentKindUH, 100-v),
				scoreRow(model.AssessmentKindUTS, v),
				scoreRow(model.AssessmentKindUAS, 100),
				scoreRow(model.AssessmentKindPraktik, v),
			}, w)
			assert.GreaterOrEqual(t, fg.FinalGrade, 0.0)
			assert.LessOrEqual(t, fg.FinalGrade, 100.0)
		}
	}
}

func TestPredicateFor(t *testing.T) {
	tests := []struct {
		score float64
		want  service.Predicate
	}{
		{100, service.PredicateA},
		{90, service.PredicateA},
		{89.99, service.PredicateB},
		{80, service.PredicateB},
		{79.99, service.PredicateC},
		{70, service.PredicateC},
		{69.99, service.PredicateD},
		{0, service.PredicateD},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, service.PredicateFor(tc.score), "score %.2f", tc.score)
	}
}

func TestCalculateFinal_EndToEnd(t *testing.T) {
	f := setup(t)
	student := f.addStudent("Ahmad")
	math := f.addSubject("Matematika", 1)

	_, err := f.engine.UpsertWeightConfig(f.ctx, service.WeightInput{Period: period, UH: 30, UTS: 25, UAS: 30, Praktik: 15})
	require.NoError(t, err)

	for i, v := range []float64{70, 80, 90} {
		f.record(t, student, math, model.AssessmentKindUH, intPtr(i+1), v)
	}
	f.record(t, student, math, model.AssessmentKindUTS, nil, 75)
	f.record(t, student, math, model.AssessmentKindUAS, nil, 85)
	f.record(t, student, math, model.AssessmentKindPraktik, nil, 90)

	fg, err := f.engine.CalculateFinal(f.ctx, student, math, period)
	require.NoError(t, err)
	assert.Equal(t, 81.75, fg.FinalGrade)
	assert.Equal(t, service.PredicateB, fg.Predicate)
	assert.Equal(t, "Baik", fg.PredicateLabel)
	assert.Equal(t, service.WeightSourceDefault, fg.Weights.Source)
	assert.Equal(t, student, fg.StudentID)
	assert.Equal(t, math, fg.SubjectID)
}

func TestCalculateFinal_InvalidPeriod(t *testing.T) {
	f := setup(t)
	_, err := f.engine.CalculateFinal(f.ctx, uuid.New(), uuid.New(), model.Period{AcademicYear: "2025/2026", Semester: "summer"})
	requireReason(t, err, service.KindValidation, service.ReasonInvalidPeriod)
}

func TestCalculateFinal_NoScoresIsNotAnError(t *testing.T) {
	f := setup(t)
	fg, err := f.engine.CalculateFinal(f.ctx, uuid.New(), uuid.New(), period)
	require.NoError(t, err)
	assert.Equal(t, 0.0, fg.FinalGrade)
	assert.Equal(t, service.PredicateD, fg.Predicate)
	assert.Equal(t, service.WeightSourceFallback, fg.Weights.Source)
}
