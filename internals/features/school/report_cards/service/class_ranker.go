// file: internals/features/school/report_cards/service/class_ranker.go
package service

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"schoolku_backend/internals/features/school/report_cards/model"
)

type RankEntry struct {
	StudentID   uuid.UUID `json:"student_id"`
	StudentName string    `json:"student_name"`
	Average     float64   `json:"average"`
	Rank        int       `json:"rank"`
}

// DenseRank: urut rata-rata desc (tie → nama, lalu id). Nilai sama = rank sama;
// rank = 1 + jumlah siswa dengan rata-rata lebih tinggi. [90, 90, 85] → [1, 1, 3].
func DenseRank(entries []RankEntry) []RankEntry {
	out := make([]RankEntry, len(entries))
	copy(out, entries)

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Average != out[j].Average {
			return out[i].Average > out[j].Average
		}
		if out[i].StudentName != out[j].StudentName {
			return out[i].StudentName < out[j].StudentName
		}
		return out[i].StudentID.String() < out[j].StudentID.String()
	})

	for i := range out {
		if i > 0 && out[i].Average == out[i-1].Average {
			out[i].Rank = out[i-1].Rank
			continue
		}
		out[i].Rank = i + 1
	}
	return out
}

type ClassStatistic struct {
	ClassID        uuid.UUID         `json:"class_id"`
	SubjectID      *uuid.UUID        `json:"subject_id,omitempty"`
	Period         model.Period      `json:"period"`
	Average        float64           `json:"average"`
	StudentCount   int               `json:"student_count"`
	Highest        float64           `json:"highest"`
	Lowest         float64           `json:"lowest"`
	Distribution   map[Predicate]int `json:"distribution"`
	Predicate      Predicate         `json:"predicate"`
	PredicateLabel string            `json:"predicate_label"`
}

type ClassRanker struct {
	aggregator *GradeAggregator
}

func NewClassRanker(aggregator *GradeAggregator) *ClassRanker {
	return &ClassRanker{aggregator: aggregator}
}

// Rank: ranking kelas berdasar rata-rata semua mapel
func (r *ClassRanker) Rank(ctx context.Context, classID uuid.UUID, period model.Period) ([]RankEntry, error) {
	if err := period.Validate(); err != nil {
		return nil, validationError(ReasonInvalidPeriod, "%v", err)
	}
	sheet, err := r.aggregator.ClassSheet(ctx, classID, period)
	if err != nil {
		return nil, err
	}
	return sheet.Ranking(), nil
}

// ClassAverage: statistik satu mapel di kelas. subjectID = uuid.Nil → rata-rata keseluruhan.
// Kelas kosong → average 0, count 0, predikat D, histogram nol.
func (r *ClassRanker) ClassAverage(ctx context.Context, classID, subjectID uuid.UUID, period model.Period) (ClassStatistic, error) {
	if err := period.Validate(); err != nil {
		return ClassStatistic{}, validationError(ReasonInvalidPeriod, "%v", err)
	}
	sheet, err := r.aggregator.ClassSheet(ctx, classID, period)
	if err != nil {
		return ClassStatistic{}, err
	}

	values := make([]float64, 0, len(sheet.Students))
	for _, st := range sheet.Students {
		if subjectID == uuid.Nil {
			values = append(values, sheet.StudentAverage(st.ClassStudentStudentID))
			continue
		}
		fg, ok := sheet.Finals[st.ClassStudentStudentID][subjectID]
		if !ok {
			// mapel tidak diajarkan di kelas ini
			continue
		}
		values = append(values, fg.FinalGrade)
	}

	stat := summarize(values)
	stat.ClassID = classID
	stat.Period = period
	if subjectID != uuid.Nil {
		sid := subjectID
		stat.SubjectID = &sid
	}
	return stat, nil
}

func summarize(values []float64) ClassStatistic {
	stat := ClassStatistic{Distribution: emptyDistribution()}
	if len(values) == 0 {
		stat.Predicate = PredicateD
		stat.PredicateLabel = PredicateD.Label()
		return stat
	}

	sum := decimal.Zero
	stat.Highest, stat.Lowest = values[0], values[0]
	for _, v := range values {
		sum = sum.Add(decimal.NewFromFloat(v))
		stat.Distribution[PredicateFor(v)]++
		if v > stat.Highest {
			stat.Highest = v
		}
		if v < stat.Lowest {
			stat.Lowest = v
		}
	}
	stat.StudentCount = len(values)
	stat.Average = round2(sum.Div(decimal.NewFromInt(int64(len(values)))))
	stat.Predicate = PredicateFor(stat.Average)
	stat.PredicateLabel = stat.Predicate.Label()
	return stat
}
