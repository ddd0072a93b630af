// file: internals/features/school/report_cards/service/completeness_validator.go
package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"schoolku_backend/internals/features/school/report_cards/model"
)

const (
	GapMissing   = "MISSING"
	GapDuplicate = "DUPLICATE"

	// kind khusus untuk baris nilai sikap
	GapKindAttitude = "ATTITUDE"
)

// komponen wajib per mapel; PRAKTIK opsional
var requiredKinds = []model.AssessmentKind{
	model.AssessmentKindUH,
	model.AssessmentKindUTS,
	model.AssessmentKindUAS,
}

type CompletenessGap struct {
	ClassID     uuid.UUID  `json:"class_id"`
	StudentID   uuid.UUID  `json:"student_id"`
	StudentName string     `json:"student_name"`
	SubjectID   *uuid.UUID `json:"subject_id,omitempty"`
	SubjectName string     `json:"subject_name,omitempty"`
	Kind        string     `json:"kind"`
	Reason      string     `json:"reason"`
}

type ClassCompleteness struct {
	ClassID      uuid.UUID `json:"class_id"`
	StudentCount int       `json:"student_count"`
	SubjectCount int       `json:"subject_count"`
	MissingCount int       `json:"missing_count"`
	IsComplete   bool      `json:"is_complete"`
}

type CompletenessResult struct {
	IsComplete   bool                `json:"is_complete"`
	MissingCount int                 `json:"missing_count"`
	Classes      []ClassCompleteness `json:"classes"`
	Details      []CompletenessGap   `json:"details"`
}

type CompletenessValidator struct {
	scores    ScoreRepository
	attitudes AttitudeRepository
	roster    RosterRepository
}

func NewCompletenessValidator(scores ScoreRepository, attitudes AttitudeRepository, roster RosterRepository) *CompletenessValidator {
	return &CompletenessValidator{scores: scores, attitudes: attitudes, roster: roster}
}

// Validate: daftar lengkap kekurangan nilai untuk semua kelas. Kekurangan bukan error.
func (v *CompletenessValidator) Validate(ctx context.Context, classIDs []uuid.UUID, period model.Period) (CompletenessResult, error) {
	if err := period.Validate(); err != nil {
		return CompletenessResult{}, validationError(ReasonInvalidPeriod, "%v", err)
	}

	res := CompletenessResult{
		Classes: make([]ClassCompleteness, 0, len(classIDs)),
		Details: make([]CompletenessGap, 0),
	}
	for _, classID := range classIDs {
		cc, gaps, err := v.validateClass(ctx, classID, period)
		if err != nil {
			return CompletenessResult{}, err
		}
		res.Classes = append(res.Classes, cc)
		res.Details = append(res.Details, gaps...)
	}
	res.MissingCount = len(res.Details)
	res.IsComplete = res.MissingCount == 0
	return res, nil
}

func (v *CompletenessValidator) validateClass(ctx context.Context, classID uuid.UUID, period model.Period) (ClassCompleteness, []CompletenessGap, error) {
	students, err := v.roster.ListActiveStudents(ctx, classID, period)
	if err != nil {
		return ClassCompleteness{}, nil, errors.Wrap(err, "list active students")
	}
	subjects, err := v.roster.ListClassSubjects(ctx, classID, period)
	if err != nil {
		return ClassCompleteness{}, nil, errors.Wrap(err, "list class subjects")
	}
	rows, err := v.scores.ListClassScores(ctx, classID, period)
	if err != nil {
		return ClassCompleteness{}, nil, errors.Wrap(err, "list class scores")
	}
	attitudes, err := v.attitudes.ListClassAttitudes(ctx, classID, period)
	if err != nil {
		return ClassCompleteness{}, nil, errors.Wrap(err, "list class attitudes")
	}

	type key struct {
		student uuid.UUID
		subject uuid.UUID
		kind    model.AssessmentKind
	}
	counts := make(map[key]int, len(rows))
	for _, r := range rows {
		// UH hanya dihitung bila bernomor
		if r.AssessmentScoreKind == model.AssessmentKindUH && r.AssessmentScoreNumber == nil {
			continue
		}
		counts[key{r.AssessmentScoreStudentID, r.AssessmentScoreSubjectID, r.AssessmentScoreKind}]++
	}
	hasAttitude := make(map[uuid.UUID]bool, len(attitudes))
	for _, a := range attitudes {
		hasAttitude[a.AttitudeGradeStudentID] = true
	}

	gaps := make([]CompletenessGap, 0)
	for _, st := range students {
		for _, sub := range subjects {
			for _, kind := range requiredKinds {
				n := counts[key{st.ClassStudentStudentID, sub.ClassSubjectSubjectID, kind}]
				reason := ""
				switch {
				case n == 0:
					reason = GapMissing
				case n > 1 && kind != model.AssessmentKindUH:
					// UTS / UAS: tepat satu entri
					reason = GapDuplicate
				}
				if reason == "" {
					continue
				}
				sid := sub.ClassSubjectSubjectID
				gaps = append(gaps, CompletenessGap{
					ClassID:     classID,
					StudentID:   st.ClassStudentStudentID,
					StudentName: st.ClassStudentName,
					SubjectID:   &sid,
					SubjectName: sub.ClassSubjectName,
					Kind:        string(kind),
					Reason:      reason,
				})
			}
		}
		if !hasAttitude[st.ClassStudentStudentID] {
			gaps = append(gaps, CompletenessGap{
				ClassID:     classID,
				StudentID:   st.ClassStudentStudentID,
				StudentName: st.ClassStudentName,
				Kind:        GapKindAttitude,
				Reason:      GapMissing,
			})
		}
	}

	return ClassCompleteness{
		ClassID:      classID,
		StudentCount: len(students),
		SubjectCount: len(subjects),
		MissingCount: len(gaps),
		IsComplete:   len(gaps) == 0,
	}, gaps, nil
}
