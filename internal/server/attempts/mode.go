package attempts

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/skdtracker/internal/common"
)

type Kind int

const (
	KindLatest Kind = iota
	KindAll
	KindSingle
	KindRange
)

// Mode picks attempts out of a sequenced history. Single uses Lo; Range uses
// Lo and Hi inclusive.
type Mode struct {
	Kind Kind `json:"kind"`
	Lo   int  `json:"lo,omitempty"`
	Hi   int  `json:"hi,omitempty"`
}

func Latest() Mode          { return Mode{Kind: KindLatest} }
func All() Mode             { return Mode{Kind: KindAll} }
func Single(n int) Mode     { return Mode{Kind: KindSingle, Lo: n, Hi: n} }
func Range(lo, hi int) Mode { return Mode{Kind: KindRange, Lo: lo, Hi: hi} }

func (m Mode) String() string {
	switch m.Kind {
	case KindLatest:
		return "latest"
	case KindAll:
		return "all"
	case KindSingle:
		return strconv.Itoa(m.Lo)
	case KindRange:
		return fmt.Sprintf("%d-%d", m.Lo, m.Hi)
	}
	return "unknown"
}

// Validate checks the mode against a history of n attempts. Single outside
// 1..n is allowed and selects nothing; a range must satisfy 1 <= lo <= hi <= n.
func (m Mode) Validate(n int) error {
	switch m.Kind {
	case KindLatest, KindAll, KindSingle:
		return nil
	case KindRange:
		if m.Lo < 1 || m.Lo > m.Hi || m.Hi > n {
			return common.Invalid("range", fmt.Errorf("%w: need 1 <= %d <= %d <= %d", common.ErrInvalidMode, m.Lo, m.Hi, n))
		}
		return nil
	}
	return common.Invalid("mode", common.ErrInvalidMode)
}

// ParseMode reads "latest", "all", "N" or "LO-HI". Empty input means latest.
func ParseMode(s string) (Mode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "", "latest":
		return Latest(), nil
	case "all":
		return All(), nil
	}

	if lo, hi, ok := strings.Cut(s, "-"); ok {
		l, err1 := strconv.Atoi(strings.TrimSpace(lo))
		h, err2 := strconv.Atoi(strings.TrimSpace(hi))
		if err1 != nil || err2 != nil {
			return Mode{}, common.Invalid("mode", common.ErrInvalidMode)
		}
		return Range(l, h), nil
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return Mode{}, common.Invalid("mode", common.ErrInvalidMode)
	}
	return Single(n), nil
}
