// file: internals/features/school/report_cards/service/predicate.go
package service

// Predikat nilai akhir: A [90,100], B [80,90), C [70,80), D [0,70)
type Predicate string

const (
	PredicateA Predicate = "A"
	PredicateB Predicate = "B"
	PredicateC Predicate = "C"
	PredicateD Predicate = "D"
)

var Predicates = []Predicate{PredicateA, PredicateB, PredicateC, PredicateD}

func PredicateFor(score float64) Predicate {
	switch {
	case score >= 90:
		return PredicateA
	case score >= 80:
		return PredicateB
	case score >= 70:
		return PredicateC
	default:
		return PredicateD
	}
}

func (p Predicate) Label() string {
	switch p {
	case PredicateA:
		return "Sangat Baik"
	case PredicateB:
		return "Baik"
	case PredicateC:
		return "Cukup"
	default:
		return "Kurang"
	}
}

// histogram kosong dengan semua key A..D
func emptyDistribution() map[Predicate]int {
	out := make(map[Predicate]int, len(Predicates))
	for _, p := range Predicates {
		out[p] = 0
	}
	return out
}
