// file: internals/features/school/report_cards/service/lifecycle.go
package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"gorm.io/datatypes"

	"schoolku_backend/internals/features/school/report_cards/model"
)

/*
State machine rapor:

	DRAFT ──submit──▶ PENDING_APPROVAL ──approve──▶ RELEASED
	  ▲                     │
	  └──────reject─────────┘
	any ──unlock──▶ DRAFT (nilai dibuka kembali)

Setiap transisi = satu transaksi (kunci/buka nilai + tulis rapor atomik).
*/

// SubjectSnapshot: hasil per mapel yang dibekukan di rapor saat generate
type SubjectSnapshot struct {
	SubjectID      uuid.UUID         `json:"subject_id"`
	SubjectName    string            `json:"subject_name"`
	SubjectCode    *string           `json:"subject_code,omitempty"`
	FinalGrade     float64           `json:"final_grade"`
	Predicate      Predicate         `json:"predicate"`
	PredicateLabel string            `json:"predicate_label"`
	Weights        WeightTuple       `json:"weights"`
	Breakdown      []ComponentResult `json:"breakdown"`
}

type BulkFailure struct {
	StudentID    uuid.UUID  `json:"student_id"`
	ReportCardID *uuid.UUID `json:"report_card_id,omitempty"`
	Reason       string     `json:"reason"`
	Message      string     `json:"message"`
}

type GenerateResult struct {
	Generated     int           `json:"generated"`
	Failed        int           `json:"failed"`
	ReportCardIDs []uuid.UUID   `json:"report_card_ids"`
	Failures      []BulkFailure `json:"failures"`
}

type BulkResult struct {
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Failures  []BulkFailure `json:"failures"`
}

type Lifecycle struct {
	repo       Repository
	aggregator *GradeAggregator
	validator  *CompletenessValidator
	now        func() time.Time
}

func NewLifecycle(repo Repository, aggregator *GradeAggregator, validator *CompletenessValidator) *Lifecycle {
	return &Lifecycle{
		repo:       repo,
		aggregator: aggregator,
		validator:  validator,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func failureOf(studentID uuid.UUID, cardID *uuid.UUID, err error) BulkFailure {
	return BulkFailure{StudentID: studentID, ReportCardID: cardID, Reason: ReasonOf(err), Message: err.Error()}
}

/* =========================================================
   Generate (bulk, per kelas; kegagalan per siswa tidak menghentikan batch)
========================================================= */

func (l *Lifecycle) Generate(ctx context.Context, classIDs []uuid.UUID, period model.Period) (GenerateResult, error) {
	if err := period.Validate(); err != nil {
		return GenerateResult{}, validationError(ReasonInvalidPeriod, "%v", err)
	}
	if len(classIDs) == 0 {
		return GenerateResult{}, validationError(ReasonInvalidInput, "class_ids wajib diisi")
	}

	res := GenerateResult{ReportCardIDs: []uuid.UUID{}, Failures: []BulkFailure{}}
	for _, classID := range classIDs {
		cc, _, err := l.validator.validateClass(ctx, classID, period)
		if err != nil {
			return res, err
		}
		if !cc.IsComplete {
			log.Printf("[Lifecycle] class=%s period=%s incomplete (missing=%d), skip generate", classID, period, cc.MissingCount)
			students, err := l.repo.ListActiveStudents(ctx, classID, period)
			if err != nil {
				return res, pkgerrors.Wrap(err, "list active students")
			}
			for _, st := range students {
				res.Failures = append(res.Failures, failureOf(st.ClassStudentStudentID, nil,
					validationError(ReasonIncompleteGrades, "nilai kelas belum lengkap (%d kekurangan)", cc.MissingCount)))
			}
			continue
		}

		sheet, err := l.aggregator.ClassSheet(ctx, classID, period)
		if err != nil {
			return res, err
		}
		ranking := sheet.Ranking()
		for _, entry := range ranking {
			card, err := l.generateOne(ctx, sheet, entry, len(ranking))
			if err != nil {
				log.Printf("[Lifecycle] generate failed student=%s class=%s: %v", entry.StudentID, classID, err)
				res.Failures = append(res.Failures, failureOf(entry.StudentID, nil, err))
				continue
			}
			res.ReportCardIDs = append(res.ReportCardIDs, card.ReportCardID)
		}
	}

	res.Generated = len(res.ReportCardIDs)
	res.Failed = len(res.Failures)
	log.Printf("[Lifecycle] generate period=%s classes=%d generated=%d failed=%d", period, len(classIDs), res.Generated, res.Failed)
	return res, nil
}

func (l *Lifecycle) generateOne(ctx context.Context, sheet *ClassSheet, entry RankEntry, classSize int) (model.ReportCardModel, error) {
	snapshot := make([]SubjectSnapshot, 0, len(sheet.Subjects))
	finals := sheet.Finals[entry.StudentID]
	for _, sub := range sheet.Subjects {
		fg := finals[sub.ClassSubjectSubjectID]
		snapshot = append(snapshot, SubjectSnapshot{
			SubjectID:      sub.ClassSubjectSubjectID,
			SubjectName:    sub.ClassSubjectName,
			SubjectCode:    sub.ClassSubjectCode,
			FinalGrade:     fg.FinalGrade,
			Predicate:      fg.Predicate,
			PredicateLabel: fg.PredicateLabel,
			Weights:        fg.Weights,
			Breakdown:      fg.Breakdown,
		})
	}
	raw, err := sonic.Marshal(snapshot)
	if err != nil {
		return model.ReportCardModel{}, pkgerrors.Wrap(err, "marshal subjects snapshot")
	}
	scoreIDs := sheet.ScoreIDs(entry.StudentID)

	var card model.ReportCardModel
	err = l.repo.Transaction(ctx, func(tx Repository) error {
		existing, err := tx.FindReportCard(ctx, entry.StudentID, sheet.ClassID, sheet.Period)
		switch {
		case err == nil:
			if existing.ReportCardStatus != model.ReportCardStatusDraft {
				return conflictError(ReasonCardNotDraft, "rapor siswa sudah berstatus %s, tidak bisa digenerate ulang", existing.ReportCardStatus)
			}
			card = existing
		case errors.Is(err, ErrRecordNotFound):
			card = model.ReportCardModel{
				ReportCardStudentID:    entry.StudentID,
				ReportCardClassID:      sheet.ClassID,
				ReportCardAcademicYear: sheet.Period.AcademicYear,
				ReportCardSemester:     sheet.Period.Semester,
				ReportCardStatus:       model.ReportCardStatusDraft,
			}
		default:
			return pkgerrors.Wrap(err, "find report card")
		}

		// nilai yang dulu dihitung draft lama tapi tidak lagi → buka
		if stale := difference(card.LockedScoreIDs(), scoreIDs); len(stale) > 0 {
			if err := tx.SetScoresLocked(ctx, stale, false); err != nil {
				return pkgerrors.Wrap(err, "unlock stale scores")
			}
		}
		if err := tx.SetScoresLocked(ctx, scoreIDs, true); err != nil {
			return pkgerrors.Wrap(err, "lock scores")
		}
		// baris sudah terkunci: baca ulang, harus sama persis dengan yang dihitung
		if err := verifyCounted(ctx, tx, sheet, entry.StudentID); err != nil {
			return err
		}

		card.ReportCardAverageScore = entry.Average
		card.ReportCardClassRank = entry.Rank
		card.ReportCardClassSize = classSize
		card.ReportCardSubjectsSnapshot = datatypes.JSON(raw)
		card.ReportCardGeneratedAt = l.now()
		card.SetLockedScoreIDs(scoreIDs)
		card.ReportCardNeedsRegeneration = false

		if err := tx.SaveReportCard(ctx, &card); err != nil {
			if errors.Is(err, ErrDuplicate) {
				return conflictError(ReasonDuplicate, "rapor siswa sedang dibuat oleh proses lain")
			}
			return pkgerrors.Wrap(err, "save report card")
		}
		return nil
	})
	return card, err
}

// verifyCounted: nilai siswa di kelas ini (dibaca di dalam tx) harus sama dengan isi ClassSheet
func verifyCounted(ctx context.Context, tx Repository, sheet *ClassSheet, studentID uuid.UUID) error {
	want := sheet.CountedValues(studentID)
	seen := 0
	for _, sub := range sheet.Subjects {
		rows, err := tx.ListScores(ctx, studentID, sub.ClassSubjectSubjectID, sheet.Period)
		if err != nil {
			return pkgerrors.Wrap(err, "reload scores")
		}
		for _, r := range rows {
			if r.AssessmentScoreClassID != sheet.ClassID || !r.AssessmentScoreKind.IsValid() {
				continue
			}
			v, ok := want[r.AssessmentScoreID]
			if !ok || v != r.AssessmentScoreValue {
				return conflictError(ReasonScoresChanged, "nilai siswa berubah saat rapor dibuat, ulangi generate")
			}
			seen++
		}
	}
	if seen != len(want) {
		return conflictError(ReasonScoresChanged, "nilai siswa berubah saat rapor dibuat, ulangi generate")
	}
	return nil
}

// difference: elemen a yang tidak ada di b
func difference(a, b []uuid.UUID) []uuid.UUID {
	in := make(map[uuid.UUID]struct{}, len(b))
	for _, id := range b {
		in[id] = struct{}{}
	}
	out := make([]uuid.UUID, 0)
	for _, id := range a {
		if _, ok := in[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}

/* =========================================================
   Transisi per rapor
========================================================= */

// transition: load FOR UPDATE → guard status → mutate → save, dalam satu transaksi
func (l *Lifecycle) transition(
	ctx context.Context,
	id uuid.UUID,
	action string,
	mutate func(tx Repository, card *model.ReportCardModel) error,
) (model.ReportCardModel, error) {
	var card model.ReportCardModel
	err := l.repo.Transaction(ctx, func(tx Repository) error {
		var err error
		card, err = tx.GetReportCard(ctx, id)
		if err != nil {
			if errors.Is(err, ErrRecordNotFound) {
				return notFoundError(ReasonReportCardNotFound, "rapor %s tidak ditemukan", id)
			}
			return pkgerrors.Wrap(err, "get report card")
		}
		if err := mutate(tx, &card); err != nil {
			return err
		}
		if err := tx.SaveReportCard(ctx, &card); err != nil {
			return pkgerrors.Wrap(err, "save report card")
		}
		return nil
	})
	if err != nil {
		return model.ReportCardModel{}, err
	}
	log.Printf("[Lifecycle] %s report_card=%s status=%s", action, card.ReportCardID, card.ReportCardStatus)
	return card, nil
}

func requireStatus(card *model.ReportCardModel, want model.ReportCardStatus, action string) error {
	if card.ReportCardStatus != want {
		return conflictError(ReasonInvalidTransition, "%s hanya bisa dari status %s (status sekarang %s)", action, want, card.ReportCardStatus)
	}
	return nil
}

// Submit: DRAFT → PENDING_APPROVAL
func (l *Lifecycle) Submit(ctx context.Context, id uuid.UUID) (model.ReportCardModel, error) {
	return l.transition(ctx, id, "submit", func(_ Repository, card *model.ReportCardModel) error {
		if err := requireStatus(card, model.ReportCardStatusDraft, "submit"); err != nil {
			return err
		}
		if card.ReportCardNeedsRegeneration {
			return conflictError(ReasonRegenerationRequired, "nilai rapor sudah berubah sejak generate, generate ulang sebelum diajukan")
		}
		now := l.now()
		card.ReportCardStatus = model.ReportCardStatusPendingApproval
		card.ReportCardSubmittedAt = &now
		return nil
	})
}

// Approve: PENDING_APPROVAL → RELEASED
func (l *Lifecycle) Approve(ctx context.Context, id, approverID uuid.UUID) (model.ReportCardModel, error) {
	if approverID == uuid.Nil {
		return model.ReportCardModel{}, validationError(ReasonApproverRequired, "approver wajib diisi")
	}
	return l.transition(ctx, id, "approve", func(_ Repository, card *model.ReportCardModel) error {
		if err := requireStatus(card, model.ReportCardStatusPendingApproval, "approve"); err != nil {
			return err
		}
		now := l.now()
		approver := approverID
		card.ReportCardStatus = model.ReportCardStatusReleased
		card.ReportCardApprovedBy = &approver
		card.ReportCardApprovedAt = &now
		card.ReportCardReleasedAt = &now
		return nil
	})
}

// Reject: PENDING_APPROVAL → DRAFT; nilai tetap terkunci
func (l *Lifecycle) Reject(ctx context.Context, id uuid.UUID, notes string) (model.ReportCardModel, error) {
	notes = strings.TrimSpace(notes)
	return l.transition(ctx, id, "reject", func(_ Repository, card *model.ReportCardModel) error {
		if err := requireStatus(card, model.ReportCardStatusPendingApproval, "reject"); err != nil {
			return err
		}
		if notes == "" {
			return validationError(ReasonRejectionNotesRequired, "catatan penolakan wajib diisi")
		}
		card.ReportCardStatus = model.ReportCardStatusDraft
		card.ReportCardRejectionNotes = &notes
		card.ReportCardSubmittedAt = nil
		return nil
	})
}

// Unlock: status apa pun → DRAFT, buka tepat nilai yang dikunci rapor ini
func (l *Lifecycle) Unlock(ctx context.Context, id uuid.UUID) (model.ReportCardModel, error) {
	return l.transition(ctx, id, "unlock", func(tx Repository, card *model.ReportCardModel) error {
		if ids := card.LockedScoreIDs(); len(ids) > 0 {
			if err := tx.SetScoresLocked(ctx, ids, false); err != nil {
				return pkgerrors.Wrap(err, "unlock scores")
			}
		}
		card.ReportCardStatus = model.ReportCardStatusDraft
		card.SetLockedScoreIDs(nil)
		card.ReportCardNeedsRegeneration = true
		card.ReportCardSubmittedAt = nil
		card.ReportCardApprovedAt = nil
		card.ReportCardApprovedBy = nil
		card.ReportCardReleasedAt = nil
		return nil
	})
}

// AttachDocument: simpan referensi PDF hasil renderer eksternal (hanya rapor RELEASED)
func (l *Lifecycle) AttachDocument(ctx context.Context, id uuid.UUID, ref string) (model.ReportCardModel, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return model.ReportCardModel{}, validationError(ReasonInvalidInput, "pdf_url wajib diisi")
	}
	return l.transition(ctx, id, "attach-document", func(_ Repository, card *model.ReportCardModel) error {
		if err := requireStatus(card, model.ReportCardStatusReleased, "attach document"); err != nil {
			return err
		}
		card.ReportCardPDFURL = &ref
		return nil
	})
}

/* =========================================================
   Bulk per kelas × period
========================================================= */

func (l *Lifecycle) bulk(
	ctx context.Context,
	classID uuid.UUID,
	period model.Period,
	from model.ReportCardStatus,
	emptyReason string,
	apply func(id uuid.UUID) error,
) (BulkResult, error) {
	if err := period.Validate(); err != nil {
		return BulkResult{}, validationError(ReasonInvalidPeriod, "%v", err)
	}
	status := from
	cards, err := l.repo.ListReportCards(ctx, classID, period, &status)
	if err != nil {
		return BulkResult{}, pkgerrors.Wrap(err, "list report cards")
	}
	if len(cards) == 0 {
		return BulkResult{}, conflictError(emptyReason, "tidak ada rapor berstatus %s untuk kelas ini", from)
	}

	res := BulkResult{Failures: []BulkFailure{}}
	for _, c := range cards {
		if err := apply(c.ReportCardID); err != nil {
			id := c.ReportCardID
			res.Failures = append(res.Failures, failureOf(c.ReportCardStudentID, &id, err))
			continue
		}
		res.Succeeded++
	}
	res.Failed = len(res.Failures)
	return res, nil
}

// BulkApprove: approve semua PENDING_APPROVAL di kelas × period
func (l *Lifecycle) BulkApprove(ctx context.Context, classID uuid.UUID, period model.Period, approverID uuid.UUID) (BulkResult, error) {
	if approverID == uuid.Nil {
		return BulkResult{}, validationError(ReasonApproverRequired, "approver wajib diisi")
	}
	return l.bulk(ctx, classID, period, model.ReportCardStatusPendingApproval, ReasonNothingToApprove, func(id uuid.UUID) error {
		_, err := l.Approve(ctx, id, approverID)
		return err
	})
}

// SubmitAll: ajukan semua DRAFT di kelas × period
func (l *Lifecycle) SubmitAll(ctx context.Context, classID uuid.UUID, period model.Period) (BulkResult, error) {
	return l.bulk(ctx, classID, period, model.ReportCardStatusDraft, ReasonNothingToSubmit, func(id uuid.UUID) error {
		_, err := l.Submit(ctx, id)
		return err
	})
}
