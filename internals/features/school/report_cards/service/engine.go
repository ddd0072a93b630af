// file: internals/features/school/report_cards/service/engine.go
package service

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"

	"schoolku_backend/internals/features/school/report_cards/model"
)

/*
Engine: facade yang dipakai controller.
Tidak menerima role; otorisasi ada di middleware (constants.Can).
*/
type Engine struct {
	repo Repository

	Weights      *WeightResolver
	Aggregator   *GradeAggregator
	Ranker       *ClassRanker
	Completeness *CompletenessValidator
	Lifecycle    *Lifecycle
	Summaries    *SummaryBuilder
}

func NewEngine(repo Repository) *Engine {
	weights := NewWeightResolver(repo)
	aggregator := NewGradeAggregator(repo, repo, weights)
	validator := NewCompletenessValidator(repo, repo, repo)
	return &Engine{
		repo:         repo,
		Weights:      weights,
		Aggregator:   aggregator,
		Ranker:       NewClassRanker(aggregator),
		Completeness: validator,
		Lifecycle:    NewLifecycle(repo, aggregator, validator),
		Summaries:    NewSummaryBuilder(repo, aggregator),
	}
}

/* ===================== Workflow ===================== */

func (e *Engine) ValidateCompleteness(ctx context.Context, classIDs []uuid.UUID, period model.Period) (CompletenessResult, error) {
	return e.Completeness.Validate(ctx, classIDs, period)
}

func (e *Engine) GenerateReportCards(ctx context.Context, classIDs []uuid.UUID, period model.Period) (GenerateResult, error) {
	return e.Lifecycle.Generate(ctx, classIDs, period)
}

func (e *Engine) SubmitForApproval(ctx context.Context, reportCardID uuid.UUID) (model.ReportCardModel, error) {
	return e.Lifecycle.Submit(ctx, reportCardID)
}

func (e *Engine) SubmitAllForApproval(ctx context.Context, classID uuid.UUID, period model.Period) (BulkResult, error) {
	return e.Lifecycle.SubmitAll(ctx, classID, period)
}

func (e *Engine) Approve(ctx context.Context, reportCardID, approverID uuid.UUID) (model.ReportCardModel, error) {
	return e.Lifecycle.Approve(ctx, reportCardID, approverID)
}

func (e *Engine) Reject(ctx context.Context, reportCardID uuid.UUID, notes string) (model.ReportCardModel, error) {
	return e.Lifecycle.Reject(ctx, reportCardID, notes)
}

func (e *Engine) BulkApprove(ctx context.Context, classID uuid.UUID, period model.Period, approverID uuid.UUID) (BulkResult, error) {
	return e.Lifecycle.BulkApprove(ctx, classID, period, approverID)
}

func (e *Engine) Unlock(ctx context.Context, reportCardID uuid.UUID) (model.ReportCardModel, error) {
	return e.Lifecycle.Unlock(ctx, reportCardID)
}

func (e *Engine) AttachDocument(ctx context.Context, reportCardID uuid.UUID, ref string) (model.ReportCardModel, error) {
	return e.Lifecycle.AttachDocument(ctx, reportCardID, ref)
}

/* ===================== Reads ===================== */

func (e *Engine) GetStudentSummary(ctx context.Context, studentID uuid.UUID, period model.Period) (Summary, error) {
	return e.Summaries.StudentSummary(ctx, studentID, period)
}

func (e *Engine) ReportCardDocument(ctx context.Context, reportCardID uuid.UUID) (ReportCardDocument, error) {
	return e.Summaries.Document(ctx, reportCardID)
}

func (e *Engine) CalculateFinal(ctx context.Context, studentID, subjectID uuid.UUID, period model.Period) (FinalGrade, error) {
	return e.Aggregator.CalculateFinal(ctx, studentID, subjectID, period)
}

func (e *Engine) ClassRanking(ctx context.Context, classID uuid.UUID, period model.Period) ([]RankEntry, error) {
	return e.Ranker.Rank(ctx, classID, period)
}

func (e *Engine) ClassStatistic(ctx context.Context, classID, subjectID uuid.UUID, period model.Period) (ClassStatistic, error) {
	return e.Ranker.ClassAverage(ctx, classID, subjectID, period)
}

func (e *Engine) ListReportCards(ctx context.Context, classID uuid.UUID, period model.Period, status *model.ReportCardStatus) ([]model.ReportCardModel, error) {
	if err := period.Validate(); err != nil {
		return nil, validationError(ReasonInvalidPeriod, "%v", err)
	}
	if status != nil && !status.IsValid() {
		return nil, validationError(ReasonInvalidInput, "status %q tidak dikenal", *status)
	}
	rows, err := e.repo.ListReportCards(ctx, classID, period, status)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "list report cards")
	}
	return rows, nil
}

func (e *Engine) GetReportCard(ctx context.Context, id uuid.UUID) (model.ReportCardModel, error) {
	card, err := e.repo.GetReportCard(ctx, id)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return model.ReportCardModel{}, notFoundError(ReasonReportCardNotFound, "rapor %s tidak ditemukan", id)
		}
		return model.ReportCardModel{}, pkgerrors.Wrap(err, "get report card")
	}
	return card, nil
}

/* =========================================================
   Input nilai (guru). Nilai terkunci tidak bisa diubah / dihapus.
========================================================= */

type ScoreInput struct {
	StudentID  uuid.UUID
	SubjectID  uuid.UUID
	ClassID    uuid.UUID
	Period     model.Period
	Kind       model.AssessmentKind
	Number     *int
	Value      float64
	RecordedBy *uuid.UUID
}

type ScorePatch struct {
	Value  *float64
	Number *int
}

func checkScoreValue(v float64) error {
	if v < 0 || v > 100 {
		return validationError(ReasonInvalidInput, "nilai %.2f di luar rentang 0..100", v)
	}
	return nil
}

func checkScoreNumber(kind model.AssessmentKind, number *int) error {
	if kind.Numbered() {
		if number == nil || *number < 1 {
			return validationError(ReasonInvalidInput, "nilai UH wajib punya nomor >= 1")
		}
		return nil
	}
	if number != nil {
		return validationError(ReasonInvalidInput, "nomor hanya untuk UH")
	}
	return nil
}

func (e *Engine) RecordScore(ctx context.Context, in ScoreInput) (model.AssessmentScoreModel, error) {
	if err := in.Period.Validate(); err != nil {
		return model.AssessmentScoreModel{}, validationError(ReasonInvalidPeriod, "%v", err)
	}
	if !in.Kind.IsValid() {
		return model.AssessmentScoreModel{}, validationError(ReasonInvalidInput, "jenis penilaian %q tidak dikenal", in.Kind)
	}
	if err := checkScoreNumber(in.Kind, in.Number); err != nil {
		return model.AssessmentScoreModel{}, err
	}
	if err := checkScoreValue(in.Value); err != nil {
		return model.AssessmentScoreModel{}, err
	}

	member, err := e.repo.FindStudentClass(ctx, in.StudentID, in.Period)
	if err != nil && !errors.Is(err, ErrRecordNotFound) {
		return model.AssessmentScoreModel{}, pkgerrors.Wrap(err, "find student class")
	}
	if err != nil || member.ClassStudentClassID != in.ClassID {
		return model.AssessmentScoreModel{}, notFoundError(ReasonStudentNotInClass, "siswa %s tidak terdaftar di kelas %s", in.StudentID, in.ClassID)
	}

	row := model.AssessmentScoreModel{
		AssessmentScoreStudentID:           in.StudentID,
		AssessmentScoreSubjectID:           in.SubjectID,
		AssessmentScoreClassID:             in.ClassID,
		AssessmentScoreAcademicYear:        in.Period.AcademicYear,
		AssessmentScoreSemester:            in.Period.Semester,
		AssessmentScoreKind:                in.Kind,
		AssessmentScoreNumber:              in.Number,
		AssessmentScoreValue:               in.Value,
		AssessmentScoreRecordedByTeacherID: in.RecordedBy,
	}
	err = e.repo.Transaction(ctx, func(tx Repository) error {
		if err := guardCardWrite(ctx, tx, in.StudentID, in.ClassID, in.Period, true); err != nil {
			return err
		}
		if err := tx.CreateScore(ctx, &row); err != nil {
			if errors.Is(err, ErrDuplicate) {
				return conflictError(ReasonDuplicate, "nilai %s sudah ada", in.Kind)
			}
			return pkgerrors.Wrap(err, "create score")
		}
		return nil
	})
	if err != nil {
		return model.AssessmentScoreModel{}, err
	}
	return row, nil
}

// guardCardWrite: nilai & sikap hanya boleh berubah selama rapor siswa masih DRAFT (atau belum ada).
// markStale menandai DRAFT yang ada agar wajib generate ulang sebelum diajukan.
func guardCardWrite(ctx context.Context, tx Repository, studentID, classID uuid.UUID, period model.Period, markStale bool) error {
	card, err := tx.FindReportCard(ctx, studentID, classID, period)
	if errors.Is(err, ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return pkgerrors.Wrap(err, "find report card")
	}
	if card.ReportCardStatus != model.ReportCardStatusDraft {
		return conflictError(ReasonScoreLocked, "rapor siswa berstatus %s, minta admin membuka rapor terlebih dulu", card.ReportCardStatus)
	}
	if !markStale || card.ReportCardNeedsRegeneration {
		return nil
	}
	card.ReportCardNeedsRegeneration = true
	if err := tx.SaveReportCard(ctx, &card); err != nil {
		return pkgerrors.Wrap(err, "mark report card stale")
	}
	return nil
}

// loadUnlockedScore: ambil nilai (FOR UPDATE di dalam tx) dan tolak bila terkunci
func loadUnlockedScore(ctx context.Context, tx Repository, id uuid.UUID) (model.AssessmentScoreModel, error) {
	row, err := tx.GetScore(ctx, id)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return model.AssessmentScoreModel{}, notFoundError(ReasonScoreNotFound, "nilai %s tidak ditemukan", id)
		}
		return model.AssessmentScoreModel{}, pkgerrors.Wrap(err, "get score")
	}
	if row.AssessmentScoreLocked {
		return model.AssessmentScoreModel{}, conflictError(ReasonScoreLocked, "nilai sudah dikunci oleh rapor, minta admin membuka rapor terlebih dulu")
	}
	return row, nil
}

func (e *Engine) UpdateScore(ctx context.Context, id uuid.UUID, patch ScorePatch) (model.AssessmentScoreModel, error) {
	var row model.AssessmentScoreModel
	err := e.repo.Transaction(ctx, func(tx Repository) error {
		var err error
		row, err = loadUnlockedScore(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := guardCardWrite(ctx, tx, row.AssessmentScoreStudentID, row.AssessmentScoreClassID, row.Period(), true); err != nil {
			return err
		}
		if patch.Value != nil {
			if err := checkScoreValue(*patch.Value); err != nil {
				return err
			}
			row.AssessmentScoreValue = *patch.Value
		}
		if patch.Number != nil {
			if err := checkScoreNumber(row.AssessmentScoreKind, patch.Number); err != nil {
				return err
			}
			row.AssessmentScoreNumber = patch.Number
		}
		return tx.UpdateScore(ctx, &row)
	})
	if err != nil {
		return model.AssessmentScoreModel{}, err
	}
	return row, nil
}

func (e *Engine) DeleteScore(ctx context.Context, id uuid.UUID) error {
	return e.repo.Transaction(ctx, func(tx Repository) error {
		row, err := loadUnlockedScore(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := guardCardWrite(ctx, tx, row.AssessmentScoreStudentID, row.AssessmentScoreClassID, row.Period(), true); err != nil {
			return err
		}
		return tx.DeleteScore(ctx, id)
	})
}

/* ===================== Nilai sikap (wali kelas) ===================== */

type AttitudeInput struct {
	StudentID            uuid.UUID
	ClassID              uuid.UUID
	Period               model.Period
	Spiritual            model.AttitudeGrade
	Social               model.AttitudeGrade
	SpiritualDescription *string
	SocialDescription    *string
	HomeroomNotes        *string
	HomeroomTeacherID    *uuid.UUID
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

func (e *Engine) UpsertAttitude(ctx context.Context, in AttitudeInput) (model.AttitudeGradeModel, error) {
	if err := in.Period.Validate(); err != nil {
		return model.AttitudeGradeModel{}, validationError(ReasonInvalidPeriod, "%v", err)
	}
	if !in.Spiritual.IsValid() || !in.Social.IsValid() {
		return model.AttitudeGradeModel{}, validationError(ReasonInvalidInput, "nilai sikap harus A, B, C, atau D")
	}
	row := model.AttitudeGradeModel{
		AttitudeGradeStudentID:            in.StudentID,
		AttitudeGradeClassID:              in.ClassID,
		AttitudeGradeAcademicYear:         in.Period.AcademicYear,
		AttitudeGradeSemester:             in.Period.Semester,
		AttitudeGradeSpiritual:            in.Spiritual,
		AttitudeGradeSocial:               in.Social,
		AttitudeGradeSpiritualDescription: trimPtr(in.SpiritualDescription),
		AttitudeGradeSocialDescription:    trimPtr(in.SocialDescription),
		AttitudeGradeHomeroomNotes:        trimPtr(in.HomeroomNotes),
		AttitudeGradeHomeroomTeacherID:    in.HomeroomTeacherID,
	}
	err := e.repo.Transaction(ctx, func(tx Repository) error {
		// sikap dibaca langsung oleh dokumen rapor, cukup tolak bila rapor sudah diajukan
		if err := guardCardWrite(ctx, tx, in.StudentID, in.ClassID, in.Period, false); err != nil {
			return err
		}
		return pkgerrors.Wrap(tx.UpsertAttitude(ctx, &row), "upsert attitude")
	})
	if err != nil {
		return model.AttitudeGradeModel{}, err
	}
	return row, nil
}

/* ===================== Bobot (admin) ===================== */

type WeightInput struct {
	Period    model.Period
	SubjectID *uuid.UUID // nil = default period
	UH        int
	UTS       int
	UAS       int
	Praktik   int
}

func (e *Engine) UpsertWeightConfig(ctx context.Context, in WeightInput) (model.WeightConfigModel, error) {
	if err := in.Period.Validate(); err != nil {
		return model.WeightConfigModel{}, validationError(ReasonInvalidPeriod, "%v", err)
	}
	if in.SubjectID != nil && *in.SubjectID == uuid.Nil {
		in.SubjectID = nil
	}
	row := model.WeightConfigModel{
		WeightConfigAcademicYear: in.Period.AcademicYear,
		WeightConfigSemester:     in.Period.Semester,
		WeightConfigSubjectID:    in.SubjectID,
		WeightConfigIsDefault:    in.SubjectID == nil,
		WeightConfigUH:           in.UH,
		WeightConfigUTS:          in.UTS,
		WeightConfigUAS:          in.UAS,
		WeightConfigPraktik:      in.Praktik,
	}
	if err := row.CheckWeights(); err != nil {
		if errors.Is(err, model.ErrWeightsNot100) {
			return model.WeightConfigModel{}, validationError(ReasonWeightsNot100, "total bobot %d, harus tepat %d", row.Sum(), model.WeightTotal)
		}
		return model.WeightConfigModel{}, validationError(ReasonInvalidInput, "%v", err)
	}
	if err := e.repo.UpsertWeightConfig(ctx, &row); err != nil {
		return model.WeightConfigModel{}, pkgerrors.Wrap(err, "upsert weight config")
	}
	log.Printf("[Engine] weight config upserted period=%s default=%v uh=%d uts=%d uas=%d praktik=%d",
		in.Period, row.WeightConfigIsDefault, row.WeightConfigUH, row.WeightConfigUTS, row.WeightConfigUAS, row.WeightConfigPraktik)
	return row, nil
}

func (e *Engine) ListWeightConfigs(ctx context.Context, period model.Period) ([]model.WeightConfigModel, error) {
	if err := period.Validate(); err != nil {
		return nil, validationError(ReasonInvalidPeriod, "%v", err)
	}
	rows, err := e.repo.ListWeightConfigs(ctx, period)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "list weight configs")
	}
	return rows, nil
}

func (e *Engine) ResolveWeights(ctx context.Context, period model.Period, subjectID uuid.UUID) (WeightTuple, error) {
	if err := period.Validate(); err != nil {
		return WeightTuple{}, validationError(ReasonInvalidPeriod, "%v", err)
	}
	return e.Weights.Resolve(ctx, period, subjectID), nil
}
