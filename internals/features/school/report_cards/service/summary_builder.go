// file: internals/features/school/report_cards/service/summary_builder.go
package service

import (
	"context"
	"errors"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"

	"schoolku_backend/internals/features/school/report_cards/model"
)

type SubjectSummary struct {
	SubjectID      uuid.UUID         `json:"subject_id"`
	SubjectName    string            `json:"subject_name"`
	SubjectCode    *string           `json:"subject_code,omitempty"`
	FinalGrade     float64           `json:"final_grade"`
	Predicate      Predicate         `json:"predicate"`
	PredicateLabel string            `json:"predicate_label"`
	Breakdown      []ComponentResult `json:"breakdown"`
}

type Summary struct {
	StudentID      uuid.UUID        `json:"student_id"`
	StudentName    string           `json:"student_name"`
	ClassID        uuid.UUID        `json:"class_id"`
	ClassName      string           `json:"class_name"`
	Period         model.Period     `json:"period"`
	Subjects       []SubjectSummary `json:"subjects"`
	OverallAverage float64          `json:"overall_average"`
	Predicate      Predicate        `json:"predicate"`
	PredicateLabel string           `json:"predicate_label"`
	Rank           int              `json:"rank"`
	ClassSize      int              `json:"class_size"`
}

/* =========================================================
   ReportCardDocument: value object siap cetak (tanpa markup).
   Renderer (HTML/PDF) ada di luar engine.
========================================================= */

type DocumentStudent struct {
	StudentID uuid.UUID `json:"student_id"`
	Name      string    `json:"name"`
	NIS       *string   `json:"nis,omitempty"`
	ClassID   uuid.UUID `json:"class_id"`
	ClassName string    `json:"class_name"`
}

type DocumentAttitude struct {
	Spiritual            model.AttitudeGrade `json:"spiritual"`
	Social               model.AttitudeGrade `json:"social"`
	SpiritualDescription *string             `json:"spiritual_description,omitempty"`
	SocialDescription    *string             `json:"social_description,omitempty"`
	HomeroomNotes        *string             `json:"homeroom_notes,omitempty"`
}

type DocumentAttendance struct {
	Present int `json:"present"`
	Sick    int `json:"sick"`
	Permit  int `json:"permit"`
	Absent  int `json:"absent"`
}

type ReportCardDocument struct {
	ReportCardID   uuid.UUID              `json:"report_card_id"`
	Status         model.ReportCardStatus `json:"status"`
	Period         model.Period           `json:"period"`
	Student        DocumentStudent        `json:"student"`
	Subjects       []SubjectSnapshot      `json:"subjects"`
	Attitude       *DocumentAttitude      `json:"attitude,omitempty"`
	Attendance     DocumentAttendance     `json:"attendance"`
	Average        float64                `json:"average"`
	Predicate      Predicate              `json:"predicate"`
	PredicateLabel string                 `json:"predicate_label"`
	Rank           int                    `json:"rank"`
	ClassSize      int                    `json:"class_size"`
	ApprovedBy     *uuid.UUID             `json:"approved_by,omitempty"`
	ApprovedAt     *time.Time             `json:"approved_at,omitempty"`
	ReleasedAt     *time.Time             `json:"released_at,omitempty"`
	GeneratedAt    time.Time              `json:"generated_at"`
}

// Renderer: kolaborator cetak (HTML / PDF) yang menerima dokumen final
type Renderer interface {
	Render(ctx context.Context, doc ReportCardDocument) ([]byte, error)
}

type SummaryBuilder struct {
	repo       Repository
	aggregator *GradeAggregator
}

func NewSummaryBuilder(repo Repository, aggregator *GradeAggregator) *SummaryBuilder {
	return &SummaryBuilder{repo: repo, aggregator: aggregator}
}

// StudentSummary: nilai semua mapel + rata-rata + ranking. Siswa tanpa kelas → summary kosong.
func (b *SummaryBuilder) StudentSummary(ctx context.Context, studentID uuid.UUID, period model.Period) (Summary, error) {
	if err := period.Validate(); err != nil {
		return Summary{}, validationError(ReasonInvalidPeriod, "%v", err)
	}
	out := Summary{
		StudentID:      studentID,
		Period:         period,
		Subjects:       []SubjectSummary{},
		Predicate:      PredicateD,
		PredicateLabel: PredicateD.Label(),
	}

	member, err := b.repo.FindStudentClass(ctx, studentID, period)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return out, nil
		}
		return Summary{}, pkgerrors.Wrap(err, "find student class")
	}
	out.StudentName = member.ClassStudentName
	out.ClassID = member.ClassStudentClassID
	out.ClassName = member.ClassStudentClassName

	sheet, err := b.aggregator.ClassSheet(ctx, member.ClassStudentClassID, period)
	if err != nil {
		return Summary{}, err
	}
	names := make(map[uuid.UUID]model.ClassSubjectModel, len(sheet.Subjects))
	for _, sub := range sheet.Subjects {
		names[sub.ClassSubjectSubjectID] = sub
	}
	for _, fg := range sheet.SubjectFinals(studentID) {
		sub := names[fg.SubjectID]
		out.Subjects = append(out.Subjects, SubjectSummary{
			SubjectID:      fg.SubjectID,
			SubjectName:    sub.ClassSubjectName,
			SubjectCode:    sub.ClassSubjectCode,
			FinalGrade:     fg.FinalGrade,
			Predicate:      fg.Predicate,
			PredicateLabel: fg.PredicateLabel,
			Breakdown:      fg.Breakdown,
		})
	}

	ranking := sheet.Ranking()
	out.ClassSize = len(ranking)
	for _, e := range ranking {
		if e.StudentID == studentID {
			out.OverallAverage = e.Average
			out.Rank = e.Rank
			break
		}
	}
	out.Predicate = PredicateFor(out.OverallAverage)
	out.PredicateLabel = out.Predicate.Label()
	return out, nil
}

// Document: rakit dokumen rapor dari snapshot generate + sikap + absensi
func (b *SummaryBuilder) Document(ctx context.Context, reportCardID uuid.UUID) (ReportCardDocument, error) {
	card, err := b.repo.GetReportCard(ctx, reportCardID)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return ReportCardDocument{}, notFoundError(ReasonReportCardNotFound, "rapor %s tidak ditemukan", reportCardID)
		}
		return ReportCardDocument{}, pkgerrors.Wrap(err, "get report card")
	}
	period := card.Period()

	pred := PredicateFor(card.ReportCardAverageScore)
	doc := ReportCardDocument{
		ReportCardID:   card.ReportCardID,
		Status:         card.ReportCardStatus,
		Period:         period,
		Student:        DocumentStudent{StudentID: card.ReportCardStudentID, ClassID: card.ReportCardClassID},
		Subjects:       []SubjectSnapshot{},
		Average:        card.ReportCardAverageScore,
		Predicate:      pred,
		PredicateLabel: pred.Label(),
		Rank:           card.ReportCardClassRank,
		ClassSize:      card.ReportCardClassSize,
		ApprovedBy:     card.ReportCardApprovedBy,
		ApprovedAt:     card.ReportCardApprovedAt,
		ReleasedAt:     card.ReportCardReleasedAt,
		GeneratedAt:    card.ReportCardGeneratedAt,
	}
	if len(card.ReportCardSubjectsSnapshot) > 0 {
		if err := sonic.Unmarshal(card.ReportCardSubjectsSnapshot, &doc.Subjects); err != nil {
			return ReportCardDocument{}, pkgerrors.Wrap(err, "decode subjects snapshot")
		}
	}

	member, err := b.repo.FindStudentClass(ctx, card.ReportCardStudentID, period)
	switch {
	case err == nil:
		doc.Student.Name = member.ClassStudentName
		doc.Student.NIS = member.ClassStudentNIS
		doc.Student.ClassName = member.ClassStudentClassName
	case !errors.Is(err, ErrRecordNotFound):
		return ReportCardDocument{}, pkgerrors.Wrap(err, "find student class")
	}

	att, err := b.repo.GetAttitude(ctx, card.ReportCardStudentID, card.ReportCardClassID, period)
	switch {
	case err == nil:
		doc.Attitude = &DocumentAttitude{
			Spiritual:            att.AttitudeGradeSpiritual,
			Social:               att.AttitudeGradeSocial,
			SpiritualDescription: att.AttitudeGradeSpiritualDescription,
			SocialDescription:    att.AttitudeGradeSocialDescription,
			HomeroomNotes:        att.AttitudeGradeHomeroomNotes,
		}
	case !errors.Is(err, ErrRecordNotFound):
		return ReportCardDocument{}, pkgerrors.Wrap(err, "get attitude")
	}

	sum, err := b.repo.GetAttendanceSummary(ctx, card.ReportCardStudentID, card.ReportCardClassID, period)
	switch {
	case err == nil:
		doc.Attendance = DocumentAttendance{
			Present: sum.AttendanceSummaryPresent,
			Sick:    sum.AttendanceSummarySick,
			Permit:  sum.AttendanceSummaryPermit,
			Absent:  sum.AttendanceSummaryAbsent,
		}
	case !errors.Is(err, ErrRecordNotFound):
		return ReportCardDocument{}, pkgerrors.Wrap(err, "get attendance summary")
	}

	return doc, nil
}
