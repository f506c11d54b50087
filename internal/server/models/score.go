package models

import (
	"time"

	"github.com/dmitrijs2005/skdtracker/internal/common"
)

// ScoreAttempt is one submitted set of SKD component scores.
type ScoreAttempt struct {
	ID        string
	AccountID string
	TWK       int
	TIU       int
	TKP       int
	Total     int
	// CreatedAt is assigned by the store; zero when the store did not provide one.
	CreatedAt time.Time
}

// Normalize recomputes Total from the components.
func (s *ScoreAttempt) Normalize() {
	s.Total = s.TWK + s.TIU + s.TKP
}

// Components groups the three component scores of an attempt.
type Components struct {
	TWK int
	TIU int
	TKP int
}

func (c Components) Total() int {
	return c.TWK + c.TIU + c.TKP
}

// Validate rejects negative components.
func (c Components) Validate() error {
	switch {
	case c.TWK < 0:
		return common.Invalid("twk", common.ErrNegativeScore)
	case c.TIU < 0:
		return common.Invalid("tiu", common.ErrNegativeScore)
	case c.TKP < 0:
		return common.Invalid("tkp", common.ErrNegativeScore)
	}
	return nil
}
