// file: internals/features/school/report_cards/service/repository.go
package service

import (
	"context"

	"github.com/google/uuid"

	"schoolku_backend/internals/features/school/report_cards/model"
)

// Kontrak persistence. Semua method mengembalikan value yang sudah lengkap (tanpa lazy load).
// Not-found → ErrRecordNotFound, unique violation → ErrDuplicate.

type ScoreRepository interface {
	// ListScores: nilai non-deleted untuk siswa × mapel × period
	ListScores(ctx context.Context, studentID, subjectID uuid.UUID, period model.Period) ([]model.AssessmentScoreModel, error)
	ListClassScores(ctx context.Context, classID uuid.UUID, period model.Period) ([]model.AssessmentScoreModel, error)
	// GetScore mengunci baris (FOR UPDATE) bila dipanggil di dalam Transaction
	GetScore(ctx context.Context, id uuid.UUID) (model.AssessmentScoreModel, error)
	CreateScore(ctx context.Context, m *model.AssessmentScoreModel) error
	UpdateScore(ctx context.Context, m *model.AssessmentScoreModel) error
	DeleteScore(ctx context.Context, id uuid.UUID) error
	SetScoresLocked(ctx context.Context, ids []uuid.UUID, locked bool) error
}

type AttitudeRepository interface {
	GetAttitude(ctx context.Context, studentID, classID uuid.UUID, period model.Period) (model.AttitudeGradeModel, error)
	ListClassAttitudes(ctx context.Context, classID uuid.UUID, period model.Period) ([]model.AttitudeGradeModel, error)
	UpsertAttitude(ctx context.Context, m *model.AttitudeGradeModel) error
}

type WeightConfigRepository interface {
	FindSubjectWeightConfig(ctx context.Context, period model.Period, subjectID uuid.UUID) (model.WeightConfigModel, error)
	FindDefaultWeightConfig(ctx context.Context, period model.Period) (model.WeightConfigModel, error)
	ListWeightConfigs(ctx context.Context, period model.Period) ([]model.WeightConfigModel, error)
	UpsertWeightConfig(ctx context.Context, m *model.WeightConfigModel) error
}

type RosterRepository interface {
	ListActiveStudents(ctx context.Context, classID uuid.UUID, period model.Period) ([]model.ClassStudentModel, error)
	ListClassSubjects(ctx context.Context, classID uuid.UUID, period model.Period) ([]model.ClassSubjectModel, error)
	FindStudentClass(ctx context.Context, studentID uuid.UUID, period model.Period) (model.ClassStudentModel, error)
	GetAttendanceSummary(ctx context.Context, studentID, classID uuid.UUID, period model.Period) (model.AttendanceSummaryModel, error)
}

type ReportCardRepository interface {
	// GetReportCard & FindReportCard mengunci baris (FOR UPDATE) bila dipanggil di dalam Transaction
	GetReportCard(ctx context.Context, id uuid.UUID) (model.ReportCardModel, error)
	FindReportCard(ctx context.Context, studentID, classID uuid.UUID, period model.Period) (model.ReportCardModel, error)
	ListReportCards(ctx context.Context, classID uuid.UUID, period model.Period, status *model.ReportCardStatus) ([]model.ReportCardModel, error)
	// SaveReportCard: insert bila ReportCardID = uuid.Nil, selain itu update
	SaveReportCard(ctx context.Context, m *model.ReportCardModel) error
}

type Repository interface {
	ScoreRepository
	AttitudeRepository
	WeightConfigRepository
	RosterRepository
	ReportCardRepository

	// Transaction: fn dijalankan atomik; error → rollback semua perubahan
	Transaction(ctx context.Context, fn func(tx Repository) error) error
}
