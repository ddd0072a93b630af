// file: internals/features/school/report_cards/service/grade_aggregator.go
package service

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"schoolku_backend/internals/features/school/report_cards/model"
)

var hundred = decimal.NewFromInt(100)

// ComponentResult: nilai satu komponen. Count = 0 berarti tidak ada data (Value = 0).
type ComponentResult struct {
	Kind     model.AssessmentKind `json:"kind"`
	Value    float64              `json:"value"`
	Count    int                  `json:"count"`
	Weight   int                  `json:"weight"`
	Weighted float64              `json:"weighted"`
}

func (c ComponentResult) Present() bool { return c.Count > 0 }

type FinalGrade struct {
	StudentID      uuid.UUID         `json:"student_id"`
	SubjectID      uuid.UUID         `json:"subject_id"`
	Period         model.Period      `json:"period"`
	FinalGrade     float64           `json:"final_grade"`
	Predicate      Predicate         `json:"predicate"`
	PredicateLabel string            `json:"predicate_label"`
	Weights        WeightTuple       `json:"weights"`
	Breakdown      []ComponentResult `json:"breakdown"`

	// baris assessment_scores yang ikut dihitung
	ScoreIDs []uuid.UUID `json:"-"`
}

func round2(d decimal.Decimal) float64 { return d.Round(2).InexactFloat64() }

// ComputeFinal menghitung nilai akhir dari nilai mentah + bobot.
// final = (uh*wUH + uts*wUTS + uas*wUAS + praktik*wPRAKTIK) / 100, dibulatkan 2 desimal.
// Komponen kosong tetap dibagi 100 (tidak dinormalisasi ke bobot yang ada).
func ComputeFinal(scores []model.AssessmentScoreModel, w WeightTuple) FinalGrade {
	sums := make(map[model.AssessmentKind]decimal.Decimal, len(model.AssessmentKinds))
	counts := make(map[model.AssessmentKind]int, len(model.AssessmentKinds))
	ids := make([]uuid.UUID, 0, len(scores))

	for _, s := range scores {
		if !s.AssessmentScoreKind.IsValid() || s.AssessmentScoreDeletedAt.Valid {
			continue
		}
		sums[s.AssessmentScoreKind] = sums[s.AssessmentScoreKind].Add(decimal.NewFromFloat(s.AssessmentScoreValue))
		counts[s.AssessmentScoreKind]++
		ids = append(ids, s.AssessmentScoreID)
	}

	total := decimal.Zero
	breakdown := make([]ComponentResult, 0, len(model.AssessmentKinds))
	for _, kind := range model.AssessmentKinds {
		value := decimal.Zero
		if n := counts[kind]; n > 0 {
			value = sums[kind].Div(decimal.NewFromInt(int64(n)))
		}
		weight := w.Of(kind)
		contrib := value.Mul(decimal.NewFromInt(int64(weight)))
		total = total.Add(contrib)

		breakdown = append(breakdown, ComponentResult{
			Kind:     kind,
			Value:    round2(value),
			Count:    counts[kind],
			Weight:   weight,
			Weighted: round2(contrib.Div(hundred)),
		})
	}

	final := round2(total.Div(hundred))
	pred := PredicateFor(final)
	return FinalGrade{
		FinalGrade:     final,
		Predicate:      pred,
		PredicateLabel: pred.Label(),
		Weights:        w,
		Breakdown:      breakdown,
		ScoreIDs:       ids,
	}
}

type GradeAggregator struct {
	scores  ScoreRepository
	roster  RosterRepository
	weights *WeightResolver
}

func NewGradeAggregator(scores ScoreRepository, roster RosterRepository, weights *WeightResolver) *GradeAggregator {
	return &GradeAggregator{scores: scores, roster: roster, weights: weights}
}

// CalculateFinal: nilai akhir satu siswa × mapel × period. Data kosong bukan error.
func (a *GradeAggregator) CalculateFinal(ctx context.Context, studentID, subjectID uuid.UUID, period model.Period) (FinalGrade, error) {
	if err := period.Validate(); err != nil {
		return FinalGrade{}, validationError(ReasonInvalidPeriod, "%v", err)
	}
	rows, err := a.scores.ListScores(ctx, studentID, subjectID, period)
	if err != nil {
		return FinalGrade{}, errors.Wrap(err, "list scores")
	}
	fg := ComputeFinal(rows, a.weights.Resolve(ctx, period, subjectID))
	fg.StudentID = studentID
	fg.SubjectID = subjectID
	fg.Period = period
	return fg, nil
}

/* =========================================================
   ClassSheet: semua nilai akhir satu kelas × period
   (siswa aktif × mapel kelas), dihitung sekali untuk ranking & generate
========================================================= */

type ClassSheet struct {
	ClassID  uuid.UUID
	Period   model.Period
	Students []model.ClassStudentModel
	Subjects []model.ClassSubjectModel
	Finals   map[uuid.UUID]map[uuid.UUID]FinalGrade // student → subject → final

	counted map[uuid.UUID]map[uuid.UUID]float64 // student → score id → nilai yang dihitung
}

func (a *GradeAggregator) ClassSheet(ctx context.Context, classID uuid.UUID, period model.Period) (*ClassSheet, error) {
	students, err := a.roster.ListActiveStudents(ctx, classID, period)
	if err != nil {
		return nil, errors.Wrap(err, "list active students")
	}
	subjects, err := a.roster.ListClassSubjects(ctx, classID, period)
	if err != nil {
		return nil, errors.Wrap(err, "list class subjects")
	}
	rows, err := a.scores.ListClassScores(ctx, classID, period)
	if err != nil {
		return nil, errors.Wrap(err, "list class scores")
	}

	// group: student → subject → rows
	grouped := make(map[uuid.UUID]map[uuid.UUID][]model.AssessmentScoreModel, len(students))
	for _, r := range rows {
		bySubject, ok := grouped[r.AssessmentScoreStudentID]
		if !ok {
			bySubject = make(map[uuid.UUID][]model.AssessmentScoreModel)
			grouped[r.AssessmentScoreStudentID] = bySubject
		}
		bySubject[r.AssessmentScoreSubjectID] = append(bySubject[r.AssessmentScoreSubjectID], r)
	}

	weights := make(map[uuid.UUID]WeightTuple, len(subjects))
	for _, sub := range subjects {
		weights[sub.ClassSubjectSubjectID] = a.weights.Resolve(ctx, period, sub.ClassSubjectSubjectID)
	}

	sheet := &ClassSheet{
		ClassID:  classID,
		Period:   period,
		Students: students,
		Subjects: subjects,
		Finals:   make(map[uuid.UUID]map[uuid.UUID]FinalGrade, len(students)),
		counted:  make(map[uuid.UUID]map[uuid.UUID]float64, len(students)),
	}
	for _, st := range students {
		finals := make(map[uuid.UUID]FinalGrade, len(subjects))
		for _, sub := range subjects {
			fg := ComputeFinal(grouped[st.ClassStudentStudentID][sub.ClassSubjectSubjectID], weights[sub.ClassSubjectSubjectID])
			fg.StudentID = st.ClassStudentStudentID
			fg.SubjectID = sub.ClassSubjectSubjectID
			fg.Period = period
			finals[sub.ClassSubjectSubjectID] = fg
		}
		values := make(map[uuid.UUID]float64)
		for _, sub := range subjects {
			for _, r := range grouped[st.ClassStudentStudentID][sub.ClassSubjectSubjectID] {
				if r.AssessmentScoreKind.IsValid() && !r.AssessmentScoreDeletedAt.Valid {
					values[r.AssessmentScoreID] = r.AssessmentScoreValue
				}
			}
		}
		sheet.counted[st.ClassStudentStudentID] = values
		sheet.Finals[st.ClassStudentStudentID] = finals
	}
	return sheet, nil
}

// SubjectFinals: nilai akhir siswa, urut sesuai urutan mapel kelas
func (s *ClassSheet) SubjectFinals(studentID uuid.UUID) []FinalGrade {
	finals := s.Finals[studentID]
	out := make([]FinalGrade, 0, len(s.Subjects))
	for _, sub := range s.Subjects {
		if fg, ok := finals[sub.ClassSubjectSubjectID]; ok {
			out = append(out, fg)
		}
	}
	return out
}

// StudentAverage: rata-rata nilai akhir semua mapel kelas (2 desimal)
func (s *ClassSheet) StudentAverage(studentID uuid.UUID) float64 {
	finals := s.SubjectFinals(studentID)
	if len(finals) == 0 {
		return 0
	}
	sum := decimal.Zero
	for _, fg := range finals {
		sum = sum.Add(decimal.NewFromFloat(fg.FinalGrade))
	}
	return round2(sum.Div(decimal.NewFromInt(int64(len(finals)))))
}

// ScoreIDs: semua baris nilai yang dihitung untuk siswa (urut, tanpa duplikat)
func (s *ClassSheet) ScoreIDs(studentID uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{})
	out := make([]uuid.UUID, 0)
	for _, fg := range s.Finals[studentID] {
		for _, id := range fg.ScoreIDs {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

// CountedValues: score id → nilai, untuk baris yang masuk perhitungan siswa
func (s *ClassSheet) CountedValues(studentID uuid.UUID) map[uuid.UUID]float64 {
	out := make(map[uuid.UUID]float64, len(s.counted[studentID]))
	for id, v := range s.counted[studentID] {
		out[id] = v
	}
	return out
}

func (s *ClassSheet) Student(studentID uuid.UUID) (model.ClassStudentModel, bool) {
	for _, st := range s.Students {
		if st.ClassStudentStudentID == studentID {
			return st, true
		}
	}
	return model.ClassStudentModel{}, false
}

func (s *ClassSheet) Ranking() []RankEntry {
	entries := make([]RankEntry, 0, len(s.Students))
	for _, st := range s.Students {
		entries = append(entries, RankEntry{
			StudentID:   st.ClassStudentStudentID,
			StudentName: st.ClassStudentName,
			Average:     s.StudentAverage(st.ClassStudentStudentID),
		})
	}
	return DenseRank(entries)
}
