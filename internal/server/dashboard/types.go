package dashboard

import (
	"github.com/dmitrijs2005/skdtracker/internal/api"
	"github.com/dmitrijs2005/skdtracker/internal/server/attempts"
	"github.com/dmitrijs2005/skdtracker/internal/server/models"
	"github.com/dmitrijs2005/skdtracker/internal/server/services"
)

func components(s api.Scores) models.Components {
	return models.Components{TWK: s.TWK, TIU: s.TIU, TKP: s.TKP}
}

func newAttemptView(s attempts.Sequenced) api.AttemptView {
	return api.AttemptView{
		Ordinal:   s.Ordinal,
		ID:        s.ID,
		TWK:       s.TWK,
		TIU:       s.TIU,
		TKP:       s.TKP,
		Total:     s.Total,
		CreatedAt: s.CreatedAt,
	}
}

func newAttemptViews(seq []attempts.Sequenced) []api.AttemptView {
	out := make([]api.AttemptView, len(seq))
	for i, s := range seq {
		out[i] = newAttemptView(s)
	}
	return out
}

func newAccountView(r services.OverviewRow) api.AccountView {
	v := api.AccountView{
		ID:       r.Account.ID,
		Username: r.Account.Username,
		Role:     string(r.Account.Role),
		Cohort:   r.Account.CohortString(),
		Attempts: r.Attempts,
	}
	if r.Latest != nil {
		latest := newAttemptView(*r.Latest)
		v.Latest = &latest
	}
	return v
}
