package scores

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/skdtracker/internal/common"
	"github.com/dmitrijs2005/skdtracker/internal/dbx"
	"github.com/dmitrijs2005/skdtracker/internal/rowstore"
	"github.com/dmitrijs2005/skdtracker/internal/server/models"
	"github.com/dmitrijs2005/skdtracker/internal/server/storetest"
)

func TestCreate_RecomputesTotalAndStampsTime(t *testing.T) {
	r := NewStoreRepository(storetest.Open(t))
	ctx := context.Background()

	got, err := r.Create(ctx, &models.ScoreAttempt{AccountID: "u1", TWK: 100, TIU: 110, TKP: 150, Total: 1})
	require.NoError(t, err)
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, 360, got.Total)
	assert.False(t, got.CreatedAt.IsZero())
	assert.WithinDuration(t, time.Now().UTC(), got.CreatedAt, time.Minute)

	again, err := r.GetByID(ctx, got.ID)
	require.NoError(t, err)
	assert.Equal(t, got, again)
}

func TestUpdate_InPlaceByID(t *testing.T) {
	r := NewStoreRepository(storetest.Open(t))
	ctx := context.Background()

	a, err := r.Create(ctx, &models.ScoreAttempt{AccountID: "u1", TWK: 1, TIU: 2, TKP: 3})
	require.NoError(t, err)

	upd, err := r.Update(ctx, a.ID, models.Components{TWK: 10, TIU: 20, TKP: 30})
	require.NoError(t, err)
	assert.Equal(t, a.ID, upd.ID)
	assert.Equal(t, 60, upd.Total)
	assert.True(t, a.CreatedAt.Equal(upd.CreatedAt))

	_, err = r.Update(ctx, "missing", models.Components{})
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestListAndDelete(t *testing.T) {
	r := NewStoreRepository(storetest.Open(t))
	ctx := context.Background()

	for _, acc := range []string{"u1", "u1", "u2"} {
		_, err := r.Create(ctx, &models.ScoreAttempt{AccountID: acc, TWK: 1})
		require.NoError(t, err)
	}

	u1, err := r.ListByAccount(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, u1, 2)

	require.NoError(t, r.Delete(ctx, u1[0].ID))
	assert.ErrorIs(t, r.Delete(ctx, u1[0].ID), common.ErrorNotFound)

	n, err := r.DeleteByAccount(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = r.DeleteAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	all, err := r.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestFromRow(t *testing.T) {
	a, err := fromRow(rowstore.Row{
		"id": "s1", "user_id": "u1", "twk": int64(5), "tiu": "6", "tkp": int64(7), "total": int64(999),
	})
	require.NoError(t, err)
	assert.Equal(t, 18, a.Total)
	assert.True(t, a.CreatedAt.IsZero())

	_, err = fromRow(rowstore.Row{"id": "s1", "user_id": "u1", "twk": int64(1), "tiu": int64(1)})
	assert.ErrorIs(t, err, common.ErrorMalformedRow)

	_, err = fromRow(rowstore.Row{"id": "s1", "twk": int64(1), "tiu": int64(1), "tkp": int64(1)})
	assert.ErrorIs(t, err, common.ErrorMalformedRow)

	_, err = fromRow(rowstore.Row{"id": "s1", "user_id": "u1", "twk": int64(1), "tiu": int64(1), "tkp": int64(1), "created_at": "soon"})
	assert.ErrorIs(t, err, common.ErrorMalformedRow)

	_, err = fromRow(rowstore.Row{"id": "s1", "user_id": "u1", "twk": 12.7, "tiu": int64(1), "tkp": int64(1)})
	assert.ErrorIs(t, err, common.ErrorMalformedRow)

	whole, err := fromRow(rowstore.Row{"id": "s1", "user_id": "u1", "twk": 12.0, "tiu": int64(1), "tkp": int64(1)})
	require.NoError(t, err)
	assert.Equal(t, 12, whole.TWK)
}

func TestStoreErrorsAreWrapped(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	r := NewStoreRepository(sqlx.NewDb(db, dbx.DriverPostgres))
	mock.ExpectExec("DELETE FROM scores").WillReturnError(errors.New("db down"))

	_, err = r.DeleteAll(context.Background())
	require.Error(t, err)
	assert.True(t, rowstore.IsStoreError(err))
	assert.Contains(t, err.Error(), "db down")
}
