package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"schoolku_backend/internals/features/school/report_cards/model"
	"schoolku_backend/internals/features/school/report_cards/repository/inmem"
	"schoolku_backend/internals/features/school/report_cards/service"
)

var period = model.Period{AcademicYear: "2025/2026", Semester: model.SemesterGanjil}

type fixture struct {
	ctx     context.Context
	store   *inmem.Store
	engine  *service.Engine
	classID uuid.UUID
}

func setup(t *testing.T) *fixture {
	t.Helper()
	store := inmem.New()
	return &fixture{
		ctx:     context.Background(),
		store:   store,
		engine:  service.NewEngine(store),
		classID: uuid.New(),
	}
}

func intPtr(n int) *int { return &n }

func (f *fixture) addStudent(name string) uuid.UUID {
	st := f.store.AddStudent(model.ClassStudentModel{
		ClassStudentClassID:      f.classID,
		ClassStudentAcademicYear: period.AcademicYear,
		ClassStudentSemester:     period.Semester,
		ClassStudentIsActive:     true,
		ClassStudentName:         name,
		ClassStudentClassName:    "VII A",
	})
	return st.ClassStudentStudentID
}

func (f *fixture) addSubject(name string, order int) uuid.UUID {
	sub := f.store.AddSubject(model.ClassSubjectModel{
		ClassSubjectClassID:      f.classID,
		ClassSubjectAcademicYear: period.AcademicYear,
		ClassSubjectSemester:     period.Semester,
		ClassSubjectName:         name,
		ClassSubjectOrder:        order,
	})
	return sub.ClassSubjectSubjectID
}

func (f *fixture) record(t *testing.T, studentID, subjectID uuid.UUID, kind model.AssessmentKind, number *int, value float64) model.AssessmentScoreModel {
	t.Helper()
	row, err := f.engine.RecordScore(f.ctx, service.ScoreInput{
		StudentID: studentID,
		SubjectID: subjectID,
		ClassID:   f.classID,
		Period:    period,
		Kind:      kind,
		Number:    number,
		Value:     value,
	})
	require.NoError(t, err)
	return row
}

// fill: satu UH + UTS + UAS dengan nilai sama untuk tiap mapel, plus nilai sikap
func (f *fixture) fill(t *testing.T, studentID uuid.UUID, value float64, subjectIDs ...uuid.UUID) {
	t.Helper()
	for _, sub := range subjectIDs {
		f.record(t, studentID, sub, model.AssessmentKindUH, intPtr(1), value)
		f.record(t, studentID, sub, model.AssessmentKindUTS, nil, value)
		f.record(t, studentID, sub, model.AssessmentKindUAS, nil, value)
	}
	f.attitude(t, studentID)
}

func (f *fixture) attitude(t *testing.T, studentID uuid.UUID) {
	t.Helper()
	_, err := f.engine.UpsertAttitude(f.ctx, service.AttitudeInput{
		StudentID: studentID,
		ClassID:   f.classID,
		Period:    period,
		Spiritual: model.AttitudeGradeA,
		Social:    model.AttitudeGradeB,
	})
	require.NoError(t, err)
}

func (f *fixture) score(t *testing.T, id uuid.UUID) model.AssessmentScoreModel {
	t.Helper()
	row, err := f.store.GetScore(f.ctx, id)
	require.NoError(t, err)
	return row
}

func (f *fixture) generate(t *testing.T) service.GenerateResult {
	t.Helper()
	res, err := f.engine.GenerateReportCards(f.ctx, []uuid.UUID{f.classID}, period)
	require.NoError(t, err)
	return res
}

func (f *fixture) cardOf(t *testing.T, studentID uuid.UUID) model.ReportCardModel {
	t.Helper()
	card, err := f.store.FindReportCard(f.ctx, studentID, f.classID, period)
	require.NoError(t, err)
	return card
}

func requireReason(t *testing.T, err error, kind service.ErrorKind, reason string) {
	t.Helper()
	require.Error(t, err)
	e, ok := service.AsError(err)
	require.True(t, ok, "expected *service.Error, got %T: %v", err, err)
	require.Equal(t, kind, e.Kind)
	require.Equal(t, reason, e.Reason)
}
