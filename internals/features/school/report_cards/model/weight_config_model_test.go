package model

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestWeightConfigModel_CheckWeights(t *testing.T) {
	tests := []struct {
		name    string
		weights [4]int
		wantErr error
		anyErr  bool
	}{
		{name: "default split", weights: [4]int{30, 25, 30, 15}},
		{name: "praktik zero", weights: [4]int{40, 30, 30, 0}},
		{name: "sum 110", weights: [4]int{30, 30, 30, 20}, wantErr: ErrWeightsNot100},
		{name: "sum 90", weights: [4]int{30, 30, 30, 0}, wantErr: ErrWeightsNot100},
		{name: "negative", weights: [4]int{120, -20, 0, 0}, anyErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := WeightConfigModel{
				WeightConfigUH:      tc.weights[0],
				WeightConfigUTS:     tc.weights[1],
				WeightConfigUAS:     tc.weights[2],
				WeightConfigPraktik: tc.weights[3],
			}
			err := m.CheckWeights()
			switch {
			case tc.wantErr != nil:
				assert.ErrorIs(t, err, tc.wantErr)
			case tc.anyErr:
				assert.Error(t, err)
				assert.NotErrorIs(t, err, ErrWeightsNot100)
			default:
				assert.NoError(t, err)
			}
		})
	}
}

func TestWeightConfigModel_BeforeSave(t *testing.T) {
	sub := uuid.New()
	ok := WeightConfigModel{WeightConfigIsDefault: true, WeightConfigUH: 30, WeightConfigUTS: 25, WeightConfigUAS: 30, WeightConfigPraktik: 15}
	assert.NoError(t, ok.BeforeSave(nil))

	defaultWithSubject := ok
	defaultWithSubject.WeightConfigSubjectID = &sub
	assert.Error(t, defaultWithSubject.BeforeSave(nil))

	overrideWithoutSubject := ok
	overrideWithoutSubject.WeightConfigIsDefault = false
	assert.Error(t, overrideWithoutSubject.BeforeSave(nil))
}

func TestNewPeriod(t *testing.T) {
	p := NewPeriod(" 2025/2026 ", " GENAP ")
	assert.Equal(t, "2025/2026", p.AcademicYear)
	assert.Equal(t, SemesterGenap, p.Semester)
	assert.NoError(t, p.Validate())

	assert.Error(t, NewPeriod("", "ganjil").Validate())
	assert.Error(t, NewPeriod("2025/2026", "tengah").Validate())
}

func TestReportCardModel_LockedScoreIDs(t *testing.T) {
	ids := []uuid.UUID{uuid.New(), uuid.New()}
	var m ReportCardModel
	m.SetLockedScoreIDs(ids)
	assert.Equal(t, ids, m.LockedScoreIDs())

	m.ReportCardLockedScoreIDs = append(m.ReportCardLockedScoreIDs, "not-a-uuid")
	assert.Equal(t, ids, m.LockedScoreIDs())

	m.SetLockedScoreIDs(nil)
	assert.Empty(t, m.LockedScoreIDs())
}
