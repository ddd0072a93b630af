package service_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolku_backend/internals/features/school/report_cards/model"
	"schoolku_backend/internals/features/school/report_cards/service"
)

func TestValidateCompleteness_NoGrades(t *testing.T) {
	f := setup(t)
	f.addSubject("Matematika", 1)
	f.addSubject("IPA", 2)
	f.addStudent("Ani")
	f.addStudent("Bayu")
	f.addStudent("Caca")

	res, err := f.engine.ValidateCompleteness(f.ctx, []uuid.UUID{f.classID}, period)
	require.NoError(t, err)
	assert.False(t, res.IsComplete)
	// per siswa: 2 mapel × (UH, UTS, UAS) + 1 baris nilai sikap
	assert.Equal(t, 3*(2*3+1), res.MissingCount)
	assert.Len(t, res.Details, res.MissingCount)
	require.Len(t, res.Classes, 1)
	assert.Equal(t, 3, res.Classes[0].StudentCount)
	assert.Equal(t, 2, res.Classes[0].SubjectCount)
	for _, gap := range res.Details {
		assert.Equal(t, service.GapMissing, gap.Reason)
	}
}

func TestValidateCompleteness_Complete(t *testing.T) {
	f := setup(t)
	math := f.addSubject("Matematika", 1)
	s := f.addStudent("Ani")
	f.fill(t, s, 80, math)
	// UH kedua & PRAKTIK tidak mengganggu
	f.record(t, s, math, model.AssessmentKindUH, intPtr(2), 90)

	res, err := f.engine.ValidateCompleteness(f.ctx, []uuid.UUID{f.classID}, period)
	require.NoError(t, err)
	assert.True(t, res.IsComplete)
	assert.Zero(t, res.MissingCount)
	assert.Empty(t, res.Details)
}

func TestValidateCompleteness_Gaps(t *testing.T) {
	f := setup(t)
	math := f.addSubject("Matematika", 1)
	s := f.addStudent("Ani")
	f.record(t, s, math, model.AssessmentKindUH, intPtr(1), 80)
	f.record(t, s, math, model.AssessmentKindUTS, nil, 80)
	f.record(t, s, math, model.AssessmentKindUTS, nil, 85)
	f.attitude(t, s)

	res, err := f.engine.ValidateCompleteness(f.ctx, []uuid.UUID{f.classID}, period)
	require.NoError(t, err)
	assert.False(t, res.IsComplete)
	require.Len(t, res.Details, 2)

	reasons := map[string]string{}
	for _, gap := range res.Details {
		reasons[gap.Kind] = gap.Reason
		assert.Equal(t, "Ani", gap.StudentName)
		require.NotNil(t, gap.SubjectID)
		assert.Equal(t, math, *gap.SubjectID)
	}
	assert.Equal(t, service.GapDuplicate, reasons["UTS"])
	assert.Equal(t, service.GapMissing, reasons["UAS"])
}

func TestValidateCompleteness_EmptyClassIsComplete(t *testing.T) {
	f := setup(t)
	res, err := f.engine.ValidateCompleteness(f.ctx, []uuid.UUID{f.classID}, period)
	require.NoError(t, err)
	assert.True(t, res.IsComplete)
	require.Len(t, res.Classes, 1)
	assert.Zero(t, res.Classes[0].StudentCount)
}

func TestValidateCompleteness_InvalidPeriod(t *testing.T) {
	f := setup(t)
	_, err := f.engine.ValidateCompleteness(f.ctx, []uuid.UUID{f.classID}, model.Period{})
	requireReason(t, err, service.KindValidation, service.ReasonInvalidPeriod)
}
