// Package attempts numbers an account's score attempts by submission time and
// selects subsets of the numbered history.
//
// Ordinals are never stored. They are recomputed on every read, so an ordinal
// is only meaningful until the next insert or delete for the same account.
// Nothing guards that window across sessions; writes therefore always address
// attempts by ID.
package attempts

import (
	"sort"

	"github.com/dmitrijs2005/skdtracker/internal/server/models"
)

// Sequenced is an attempt with its 1-based ordinal ("SKD ke-N").
type Sequenced struct {
	Ordinal int
	models.ScoreAttempt
}

// Sequence orders attempts by ascending CreatedAt and numbers them 1..N.
// Attempts with equal timestamps keep their input order. If no attempt has a
// timestamp the input order is used as is. The input slice is not modified.
func Sequence(in []models.ScoreAttempt) []Sequenced {
	sorted := make([]models.ScoreAttempt, len(in))
	copy(sorted, in)

	if hasTimestamps(sorted) {
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
		})
	}

	out := make([]Sequenced, len(sorted))
	for i, a := range sorted {
		a.Normalize()
		out[i] = Sequenced{Ordinal: i + 1, ScoreAttempt: a}
	}
	return out
}

func hasTimestamps(in []models.ScoreAttempt) bool {
	for _, a := range in {
		if !a.CreatedAt.IsZero() {
			return true
		}
	}
	return false
}

// Select returns the part of a sequenced history picked by mode, in ordinal
// order. seq must come from Sequence.
func Select(seq []Sequenced, mode Mode) []Sequenced {
	out := make([]Sequenced, 0)
	if len(seq) == 0 {
		return out
	}

	switch mode.Kind {
	case KindLatest:
		return append(out, seq[len(seq)-1])
	case KindAll:
		return append(out, seq...)
	case KindSingle:
		if mode.Lo >= 1 && mode.Lo <= len(seq) {
			out = append(out, seq[mode.Lo-1])
		}
		return out
	case KindRange:
		for _, s := range seq {
			if s.Ordinal >= mode.Lo && s.Ordinal <= mode.Hi {
				out = append(out, s)
			}
		}
		return out
	}
	return out
}

// ByOrdinal finds the attempt numbered n.
func ByOrdinal(seq []Sequenced, n int) (Sequenced, bool) {
	if n < 1 || n > len(seq) {
		return Sequenced{}, false
	}
	return seq[n-1], true
}
