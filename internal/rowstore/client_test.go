package rowstore

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/skdtracker/internal/dbx"
)

func newMockClient(t *testing.T) (*Client, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return New(sqlx.NewDb(db, dbx.DriverPostgres)), mock
}

func exact(q string) string {
	return "^" + regexp.QuoteMeta(q) + "$"
}

func TestSelect_BuildsPredicatesOrderAndLimit(t *testing.T) {
	c, mock := newMockClient(t)

	mock.ExpectQuery(exact("SELECT id, username FROM users WHERE username = $1 AND cohort IS NULL AND role <> $2 ORDER BY created_at ASC, id DESC LIMIT 5")).
		WithArgs("budi", "admin").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username"}).AddRow("u1", "budi"))

	rows, err := c.From("users").
		Eq("username", "budi").
		IsNull("cohort").
		Neq("role", "admin").
		Order("created_at", false).
		Order("id", true).
		Limit(5).
		Select(context.Background(), "id", "username")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "budi", rows[0].String("username"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSelect_NoRowsIsEmptyNotNil(t *testing.T) {
	c, mock := newMockClient(t)

	mock.ExpectQuery(exact("SELECT * FROM scores")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	rows, err := c.From("scores").Select(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestSelect_DriverErrorIsStoreError(t *testing.T) {
	c, mock := newMockClient(t)

	mock.ExpectQuery(exact("SELECT * FROM scores WHERE user_id = $1")).
		WithArgs("u1").
		WillReturnError(errors.New("connection reset"))

	_, err := c.From("scores").Eq("user_id", "u1").Select(context.Background())
	require.Error(t, err)
	assert.True(t, IsStoreError(err))
	assert.Contains(t, err.Error(), "connection reset")

	var se *StoreError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "select", se.Op)
	assert.Equal(t, "scores", se.Table)
}

func TestInsert_SortsColumnsAndReturnsStoredRow(t *testing.T) {
	c, mock := newMockClient(t)

	mock.ExpectQuery(exact("INSERT INTO scores (id, tiu, tkp, total, twk, user_id) VALUES ($1, $2, $3, $4, $5, $6) RETURNING *")).
		WithArgs("s1", 80, 150, 330, 100, "u1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "total"}).AddRow("s1", int64(330)))

	row, err := c.From("scores").Insert(context.Background(), Row{
		"id": "s1", "user_id": "u1", "twk": 100, "tiu": 80, "tkp": 150, "total": 330,
	})
	require.NoError(t, err)
	total, err := row.Int("total")
	require.NoError(t, err)
	assert.Equal(t, 330, total)
}

func TestInsert_NothingReturned(t *testing.T) {
	c, mock := newMockClient(t)

	mock.ExpectQuery(exact("INSERT INTO users (id) VALUES ($1) RETURNING *")).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := c.From("users").Insert(context.Background(), Row{"id": "u1"})
	require.ErrorIs(t, err, ErrNothingReturned)
	assert.True(t, IsStoreError(err))
}

func TestUpdate_SetThenWhereArgs(t *testing.T) {
	c, mock := newMockClient(t)

	mock.ExpectQuery(exact("UPDATE users SET password = $1, role = $2 WHERE id = $3 RETURNING *")).
		WithArgs("hash", "admin", "u1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("u1"))

	rows, err := c.From("users").Eq("id", "u1").Update(context.Background(), Row{"role": "admin", "password": "hash"})
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestDelete_ReturnsAffected(t *testing.T) {
	c, mock := newMockClient(t)

	mock.ExpectExec(exact("DELETE FROM users WHERE role <> $1")).
		WithArgs("admin").
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := c.From("users").Neq("role", "admin").Delete(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestUnfilteredWritesRejected(t *testing.T) {
	c, mock := newMockClient(t)

	_, err := c.From("scores").Delete(context.Background())
	require.ErrorIs(t, err, ErrUnfiltered)

	_, err = c.From("scores").Update(context.Background(), Row{"twk": 1})
	require.ErrorIs(t, err, ErrUnfiltered)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInvalidIdentifiersRejected(t *testing.T) {
	c, _ := newMockClient(t)
	ctx := context.Background()

	cases := []func() error{
		func() error { _, err := c.From("users; drop").Select(ctx); return err },
		func() error { _, err := c.From("users").Select(ctx, "id, password"); return err },
		func() error { _, err := c.From("users").Eq("Name", "x").Select(ctx); return err },
		func() error { _, err := c.From("users").Order("1", false).Select(ctx); return err },
		func() error { _, err := c.From("users").Insert(ctx, Row{"bad-col": 1}); return err },
	}
	for i, fn := range cases {
		err := fn()
		assert.ErrorIs(t, err, ErrInvalidIdentifier, "case %d", i)
	}
}

func TestSQLite_RoundTrip(t *testing.T) {
	ctx := context.Background()
	db, err := dbx.Open(ctx, dbx.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.ExecContext(ctx, `CREATE TABLE items (
		id TEXT PRIMARY KEY,
		label TEXT NOT NULL,
		qty INTEGER NOT NULL,
		note TEXT NULL,
		created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%d %H:%M:%f','now'))
	)`)
	require.NoError(t, err)

	c := New(db)

	stored, err := c.From("items").Insert(ctx, Row{"id": "a", "label": "first", "qty": 2})
	require.NoError(t, err)
	assert.Equal(t, "first", stored.String("label"))
	_, hasNote := stored.OptString("note")
	assert.False(t, hasNote)
	ts, err := stored.Time("created_at")
	require.NoError(t, err)
	assert.False(t, ts.IsZero())

	_, err = c.From("items").Insert(ctx, Row{"id": "b", "label": "second", "qty": 5, "note": "x"})
	require.NoError(t, err)

	updated, err := c.From("items").Eq("id", "a").Update(ctx, Row{"qty": 7})
	require.NoError(t, err)
	require.Len(t, updated, 1)
	qty, err := updated[0].Int("qty")
	require.NoError(t, err)
	assert.Equal(t, 7, qty)

	rows, err := c.From("items").IsNull("note").Select(ctx, "id")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "a", rows[0].String("id"))

	n, err := c.From("items").Neq("id", "").Delete(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	rows, err = c.From("items").Select(ctx)
	require.NoError(t, err)
	assert.Empty(t, rows)
}
