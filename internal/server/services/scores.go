package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/skdtracker/internal/common"
	"github.com/dmitrijs2005/skdtracker/internal/dbx"
	"github.com/dmitrijs2005/skdtracker/internal/logging"
	"github.com/dmitrijs2005/skdtracker/internal/server/attempts"
	"github.com/dmitrijs2005/skdtracker/internal/server/models"
	"github.com/dmitrijs2005/skdtracker/internal/server/repositories/repomanager"
)

// ScoreService records, edits and lists score attempts.
//
// Reads never fail: a store error while reading is logged and reported as an
// empty history. Writes return their store errors.
type ScoreService struct {
	db          dbx.Querier
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewScoreService(db dbx.Querier, m repomanager.RepositoryManager, logger logging.Logger) *ScoreService {
	return &ScoreService{
		db:          db,
		repomanager: m,
		logger:      logger.With("module", "scores"),
	}
}

// RecordNewAttempt appends a new attempt to the account's history. It returns
// common.ErrorNotFound when the account no longer exists.
func (s *ScoreService) RecordNewAttempt(ctx context.Context, accountID string, c models.Components) (*models.ScoreAttempt, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.repomanager.Accounts(s.db).GetByID(ctx, accountID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("error loading account: %w", err)
	}

	a, err := s.repomanager.Scores(s.db).Create(ctx, &models.ScoreAttempt{
		AccountID: accountID,
		TWK:       c.TWK,
		TIU:       c.TIU,
		TKP:       c.TKP,
		Total:     c.Total(),
	})
	if err != nil {
		return nil, fmt.Errorf("error saving attempt: %w", err)
	}
	return a, nil
}

// EditAttempt replaces the components of the attempt with attemptID.
func (s *ScoreService) EditAttempt(ctx context.Context, attemptID string, c models.Components) (*models.ScoreAttempt, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	a, err := s.repomanager.Scores(s.db).Update(ctx, attemptID, c)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("error updating attempt: %w", err)
	}
	return a, nil
}

func (s *ScoreService) DeleteAttempt(ctx context.Context, attemptID string) error {
	if err := s.repomanager.Scores(s.db).Delete(ctx, attemptID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return err
		}
		return fmt.Errorf("error deleting attempt: %w", err)
	}
	return nil
}

// DeleteAttempts removes attempts one by one and stops at the first failure.
// It returns how many were removed before that. Missing ids are skipped.
func (s *ScoreService) DeleteAttempts(ctx context.Context, attemptIDs []string) (int, error) {
	repo := s.repomanager.Scores(s.db)
	deleted := 0
	for _, id := range attemptIDs {
		err := repo.Delete(ctx, id)
		switch {
		case err == nil:
			deleted++
		case errors.Is(err, common.ErrorNotFound):
		default:
			return deleted, fmt.Errorf("error deleting attempt %s: %w", id, err)
		}
	}
	return deleted, nil
}

// GetAttempt loads a single attempt by id.
func (s *ScoreService) GetAttempt(ctx context.Context, attemptID string) (*models.ScoreAttempt, error) {
	a, err := s.repomanager.Scores(s.db).GetByID(ctx, attemptID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("error loading attempt: %w", err)
	}
	return a, nil
}

// History returns the account's numbered attempts.
func (s *ScoreService) History(ctx context.Context, accountID string) []attempts.Sequenced {
	list, err := s.repomanager.Scores(s.db).ListByAccount(ctx, accountID)
	if err != nil {
		s.logger.Warn(ctx, "reading attempts failed, showing none", "account_id", accountID, "error", err)
		return attempts.Sequence(nil)
	}
	return attempts.Sequence(list)
}

// ListAttempts returns the part of the account's history picked by mode.
// Only an invalid range is an error.
func (s *ScoreService) ListAttempts(ctx context.Context, accountID string, mode attempts.Mode) ([]attempts.Sequenced, error) {
	seq := s.History(ctx, accountID)
	if err := mode.Validate(len(seq)); err != nil {
		return nil, err
	}
	return attempts.Select(seq, mode), nil
}

// AttemptByOrdinal finds the attempt currently numbered n in the account's
// history. The ordinal may shift if attempts are added or removed
// concurrently, so callers should act on the returned ID right away.
func (s *ScoreService) AttemptByOrdinal(ctx context.Context, accountID string, n int) (attempts.Sequenced, error) {
	seq, ok := attempts.ByOrdinal(s.History(ctx, accountID), n)
	if !ok {
		return attempts.Sequenced{}, common.ErrorNotFound
	}
	return seq, nil
}

// OverviewRow summarises one account for the admin view.
type OverviewRow struct {
	Account  models.Account
	Attempts int
	Latest   *attempts.Sequenced
}

// Overview lists every account with its attempt count and latest attempt.
// Accounts and scores are fetched separately and matched here.
func (s *ScoreService) Overview(ctx context.Context) []OverviewRow {
	accounts, err := s.repomanager.Accounts(s.db).List(ctx)
	if err != nil {
		s.logger.Warn(ctx, "reading accounts failed, showing none", "error", err)
		return []OverviewRow{}
	}

	all, err := s.repomanager.Scores(s.db).ListAll(ctx)
	if err != nil {
		s.logger.Warn(ctx, "reading attempts failed, showing none", "error", err)
		all = nil
	}

	byAccount := make(map[string][]models.ScoreAttempt, len(accounts))
	for _, a := range all {
		byAccount[a.AccountID] = append(byAccount[a.AccountID], a)
	}

	out := make([]OverviewRow, 0, len(accounts))
	for _, acc := range accounts {
		row := OverviewRow{Account: acc}
		seq := attempts.Sequence(byAccount[acc.ID])
		row.Attempts = len(seq)
		if latest := attempts.Select(seq, attempts.Latest()); len(latest) == 1 {
			row.Latest = &latest[0]
		}
		out = append(out, row)
	}
	return out
}
