package service_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolku_backend/internals/features/school/report_cards/service"
)

func ranksOf(entries []service.RankEntry) []int {
	out := make([]int, len(entries))
	for i, e := range entries {
		out[i] = e.Rank
	}
	return out
}

func TestDenseRank(t *testing.T) {
	tests := []struct {
		name     string
		averages []float64
		want     []int
	}{
		{"tie at top", []float64{90, 90, 85}, []int{1, 1, 3}},
		{"unsorted input", []float64{85, 90, 90}, []int{1, 1, 3}},
		{"all distinct", []float64{70, 95, 80}, []int{1, 2, 3}},
		{"tie in the middle", []float64{95, 80, 80, 60}, []int{1, 2, 2, 4}},
		{"everyone tied", []float64{75, 75, 75}, []int{1, 1, 1}},
		{"empty", nil, []int{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			entries := make([]service.RankEntry, 0, len(tc.averages))
			for _, avg := range tc.averages {
				entries = append(entries, service.RankEntry{StudentID: uuid.New(), Average: avg})
			}
			assert.Equal(t, tc.want, ranksOf(service.DenseRank(entries)))
		})
	}
}

func TestDenseRank_TieBreakIsDeterministic(t *testing.T) {
	entries := []service.RankEntry{
		{StudentID: uuid.New(), StudentName: "Citra", Average: 88},
		{StudentID: uuid.New(), StudentName: "Budi", Average: 88},
		{StudentID: uuid.New(), StudentName: "Andi", Average: 70},
	}
	got := service.DenseRank(entries)
	require.Len(t, got, 3)
	assert.Equal(t, "Budi", got[0].StudentName)
	assert.Equal(t, "Citra", got[1].StudentName)
	assert.Equal(t, []int{1, 1, 3}, ranksOf(got))

	// input tidak diubah
	assert.Equal(t, "Citra", entries[0].StudentName)
	assert.Equal(t, 0, entries[0].Rank)
}

func TestClassRanking(t *testing.T) {
	f := setup(t)
	math := f.addSubject("Matematika", 1)
	ipa := f.addSubject("IPA", 2)

	a := f.addStudent("Ani")
	b := f.addStudent("Bayu")
	c := f.addStudent("Caca")
	f.fill(t, a, 90, math, ipa)
	f.fill(t, b, 90, math, ipa)
	f.fill(t, c, 85, math, ipa)

	ranking, err := f.engine.ClassRanking(f.ctx, f.classID, period)
	require.NoError(t, err)
	require.Len(t, ranking, 3)
	assert.Equal(t, []int{1, 1, 3}, ranksOf(ranking))
	assert.Equal(t, c, ranking[2].StudentID)
	// UH 90 + UTS 90 + UAS 90, PRAKTIK kosong (15%) → 76.5
	assert.Equal(t, 76.5, ranking[0].Average)
	assert.Equal(t, b, ranking[1].StudentID)
}

func TestClassStatistic(t *testing.T) {
	f := setup(t)
	math := f.addSubject("Matematika", 1)
	s1 := f.addStudent("Ani")
	s2 := f.addStudent("Bayu")
	f.fill(t, s1, 100, math)
	f.fill(t, s2, 80, math)

	stat, err := f.engine.ClassStatistic(f.ctx, f.classID, math, period)
	require.NoError(t, err)
	// 100 → 85, 80 → 68 (praktik kosong)
	assert.Equal(t, 2, stat.StudentCount)
	assert.Equal(t, 85.0, stat.Highest)
	assert.Equal(t, 68.0, stat.Lowest)
	assert.Equal(t, 76.5, stat.Average)
	assert.Equal(t, service.PredicateC, stat.Predicate)
	assert.Equal(t, 1, stat.Distribution[service.PredicateB])
	assert.Equal(t, 1, stat.Distribution[service.PredicateD])
	assert.Equal(t, 0, stat.Distribution[service.PredicateA])
	require.NotNil(t, stat.SubjectID)
	assert.Equal(t, math, *stat.SubjectID)
}

func TestClassStatistic_EmptyClass(t *testing.T) {
	f := setup(t)
	stat, err := f.engine.ClassStatistic(f.ctx, f.classID, uuid.Nil, period)
	require.NoError(t, err)
	assert.Equal(t, 0, stat.StudentCount)
	assert.Equal(t, 0.0, stat.Average)
	assert.Equal(t, service.PredicateD, stat.Predicate)
	assert.Nil(t, stat.SubjectID)
	assert.Len(t, stat.Distribution, 4)
}
