package service_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolku_backend/internals/features/school/report_cards/model"
	"schoolku_backend/internals/features/school/report_cards/service"
)

func TestStudentSummary(t *testing.T) {
	f := setup(t)
	math := f.addSubject("Matematika", 2)
	ipa := f.addSubject("IPA", 1)
	ani := f.addStudent("Ani")
	bayu := f.addStudent("Bayu")
	f.fill(t, ani, 100, math, ipa)
	f.fill(t, bayu, 100, math)
	f.fill(t, bayu, 80, ipa)

	sum, err := f.engine.GetStudentSummary(f.ctx, bayu, period)
	require.NoError(t, err)
	assert.Equal(t, "Bayu", sum.StudentName)
	assert.Equal(t, "VII A", sum.ClassName)
	require.Len(t, sum.Subjects, 2)
	// urut sesuai order mapel kelas
	assert.Equal(t, "IPA", sum.Subjects[0].SubjectName)
	assert.Equal(t, 68.0, sum.Subjects[0].FinalGrade)
	assert.Equal(t, 85.0, sum.Subjects[1].FinalGrade)
	assert.Equal(t, 76.5, sum.OverallAverage)
	assert.Equal(t, service.PredicateC, sum.Predicate)
	assert.Equal(t, 2, sum.Rank)
	assert.Equal(t, 2, sum.ClassSize)
}

func TestStudentSummary_NoClassIsZeroed(t *testing.T) {
	f := setup(t)
	stranger := uuid.New()

	sum, err := f.engine.GetStudentSummary(f.ctx, stranger, period)
	require.NoError(t, err)
	assert.Equal(t, stranger, sum.StudentID)
	assert.Empty(t, sum.Subjects)
	assert.Zero(t, sum.OverallAverage)
	assert.Zero(t, sum.Rank)
	assert.Zero(t, sum.ClassSize)
	assert.Equal(t, service.PredicateD, sum.Predicate)
}

func TestReportCardDocument(t *testing.T) {
	f, math, ani, _ := twoStudents(t)
	f.store.AddAttendance(model.AttendanceSummaryModel{
		AttendanceSummaryStudentID:    ani,
		AttendanceSummaryClassID:      f.classID,
		AttendanceSummaryAcademicYear: period.AcademicYear,
		AttendanceSummarySemester:     period.Semester,
		AttendanceSummaryPresent:      110,
		AttendanceSummarySick:         2,
		AttendanceSummaryPermit:       1,
	})
	f.generate(t)
	card := f.cardOf(t, ani)

	doc, err := f.engine.ReportCardDocument(f.ctx, card.ReportCardID)
	require.NoError(t, err)
	assert.Equal(t, "Ani", doc.Student.Name)
	assert.Equal(t, "VII A", doc.Student.ClassName)
	require.Len(t, doc.Subjects, 1)
	assert.Equal(t, math, doc.Subjects[0].SubjectID)
	assert.Len(t, doc.Subjects[0].Breakdown, 4)
	require.NotNil(t, doc.Attitude)
	assert.Equal(t, model.AttitudeGradeA, doc.Attitude.Spiritual)
	assert.Equal(t, 110, doc.Attendance.Present)
	assert.Equal(t, 2, doc.Attendance.Sick)
	assert.Equal(t, 76.5, doc.Average)
	assert.Equal(t, service.PredicateC, doc.Predicate)
	assert.Equal(t, 1, doc.Rank)
	assert.Equal(t, 2, doc.ClassSize)

	_, err = f.engine.ReportCardDocument(f.ctx, uuid.New())
	requireReason(t, err, service.KindNotFound, service.ReasonReportCardNotFound)
}
