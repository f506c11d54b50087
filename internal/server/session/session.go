// Package session keeps per-session dashboard state between requests.
//
// A State is passed explicitly into every dashboard handler and returned,
// possibly changed, from it. Stores persist it keyed by session ID.
package session

import (
	"context"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/skdtracker/internal/server/models"
)

// State is everything a session remembers between actions.
type State struct {
	ID        string      `json:"id"`
	AccountID string      `json:"account_id,omitempty"`
	Username  string      `json:"username,omitempty"`
	Role      models.Role `json:"role,omitempty"`
	Cohort    string      `json:"cohort,omitempty"`

	// Two-step confirmations in progress.
	LogoutPending bool `json:"logout_pending,omitempty"`
	ResetPending  bool `json:"reset_pending,omitempty"`
}

// New returns an unauthenticated state with a fresh ID.
func New() State {
	return State{ID: uuid.NewString()}
}

func (s State) Authenticated() bool {
	return s.AccountID != ""
}

func (s State) IsAdmin() bool {
	return s.Authenticated() && s.Role == models.RoleAdmin
}

// WithAccount returns the state of a session that has just logged in as a.
// Pending confirmations are dropped.
func (s State) WithAccount(a *models.Account) State {
	return State{
		ID:        s.ID,
		AccountID: a.ID,
		Username:  a.Username,
		Role:      a.Role,
		Cohort:    a.CohortString(),
	}
}

// Cleared returns the state after logout: same ID, nothing else.
func (s State) Cleared() State {
	return State{ID: s.ID}
}

type Store interface {
	// Load returns common.ErrorNotFound for unknown or expired sessions.
	Load(ctx context.Context, id string) (State, error)
	Save(ctx context.Context, st State) error
	Delete(ctx context.Context, id string) error
}
