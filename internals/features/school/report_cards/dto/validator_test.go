package dto

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidator_WeightSum(t *testing.T) {
	v := NewValidator()

	ok := UpsertWeightConfigRequest{AcademicYear: "2025/2026", Semester: "ganjil", UH: 30, UTS: 25, UAS: 30, Praktik: 15}
	require.NoError(t, v.Struct(ok))

	bad := ok
	bad.Praktik = 25
	err := v.Struct(bad)
	require.Error(t, err)
	assert.True(t, IsWeightSumError(err))

	badSemester := ok
	badSemester.Semester = "summer"
	err = v.Struct(badSemester)
	require.Error(t, err)
	assert.False(t, IsWeightSumError(err))
	assert.Contains(t, FieldErrors(err), "semester")
}

func TestCreateScoreRequest_Validation(t *testing.T) {
	v := NewValidator()
	value := 80.0
	req := CreateScoreRequest{
		StudentID: uuid.New(), SubjectID: uuid.New(), ClassID: uuid.New(),
		AcademicYear: "2025/2026", Semester: "genap", Kind: "UTS", Value: &value,
	}
	require.NoError(t, v.Struct(req))

	missingValue := req
	missingValue.Value = nil
	assert.Error(t, v.Struct(missingValue))

	badKind := req
	badKind.Kind = "QUIZ"
	assert.Error(t, v.Struct(badKind))

	recordedBy := uuid.New()
	in := req.ToInput(recordedBy)
	assert.Equal(t, 80.0, in.Value)
	require.NotNil(t, in.RecordedBy)
	assert.Equal(t, recordedBy, *in.RecordedBy)
	assert.Nil(t, req.ToInput(uuid.Nil).RecordedBy)
}

func TestClassPeriodQuery(t *testing.T) {
	v := NewValidator()
	classID := uuid.New()
	q := ClassPeriodQuery{AcademicYear: "2025/2026", Semester: "ganjil", ClassID: classID.String(), Status: "RELEASED"}
	require.NoError(t, v.Struct(q))
	assert.Equal(t, classID, q.ClassUUID())
	assert.Equal(t, uuid.Nil, q.SubjectUUID())
	require.NotNil(t, q.StatusFilter())
	assert.Equal(t, "RELEASED", string(*q.StatusFilter()))

	q.Status = "ARCHIVED"
	assert.Error(t, v.Struct(q))

	q.Status = ""
	q.ClassID = "kelas-7a"
	assert.Error(t, v.Struct(q))
}

func TestRejectRequest_Normalize(t *testing.T) {
	r := RejectRequest{Notes: "  revisi UAS \n"}
	r.Normalize()
	assert.Equal(t, "revisi UAS", r.Notes)
}
