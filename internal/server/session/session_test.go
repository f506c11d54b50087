package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/skdtracker/internal/common"
	"github.com/dmitrijs2005/skdtracker/internal/server/models"
)

func TestState_Transitions(t *testing.T) {
	st := New()
	require.NotEmpty(t, st.ID)
	assert.False(t, st.Authenticated())
	assert.False(t, st.IsAdmin())

	st.LogoutPending = true
	cohort := "(2025/2026)"
	logged := st.WithAccount(&models.Account{ID: "u1", Username: "budi", Role: models.RoleAdmin, Cohort: &cohort})
	assert.Equal(t, st.ID, logged.ID)
	assert.True(t, logged.IsAdmin())
	assert.Equal(t, cohort, logged.Cohort)
	assert.False(t, logged.LogoutPending)

	cleared := logged.Cleared()
	assert.Equal(t, State{ID: st.ID}, cleared)
}

func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	_, err := s.Load(ctx, "nope")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	st := State{ID: "s1", AccountID: "u1", Username: "budi", Role: models.RoleUser, ResetPending: true}
	require.NoError(t, s.Save(ctx, st))

	got, err := s.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, st, got)

	require.NoError(t, s.Delete(ctx, "s1"))
	_, err = s.Load(ctx, "s1")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore(time.Hour))
}

func TestMemoryStore_Expiry(t *testing.T) {
	m := NewMemoryStore(time.Minute)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	require.NoError(t, m.Save(context.Background(), State{ID: "s"}))
	now = now.Add(59 * time.Second)
	_, err := m.Load(context.Background(), "s")
	require.NoError(t, err)

	now = now.Add(2 * time.Second)
	_, err = m.Load(context.Background(), "s")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	s, err := NewRedisStore(context.Background(), "redis://"+mr.Addr()+"/0", time.Hour)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Ping(context.Background()))
	exerciseStore(t, s)
}

func TestRedisStore_TTL(t *testing.T) {
	mr := miniredis.RunT(t)
	s := NewRedisStoreFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), 10*time.Minute)
	defer s.Close()

	require.NoError(t, s.Save(context.Background(), State{ID: "s"}))
	assert.Equal(t, 10*time.Minute, mr.TTL(redisKeyPrefix+"s"))

	mr.FastForward(11 * time.Minute)
	_, err := s.Load(context.Background(), "s")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestRedisStore_BadURLAndUnreachable(t *testing.T) {
	_, err := NewRedisStore(context.Background(), "http://nope", time.Minute)
	assert.Error(t, err)

	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err = NewRedisStore(ctx, "redis://"+addr, time.Minute)
	assert.Error(t, err)
}

func TestRedisStore_CorruptValue(t *testing.T) {
	mr := miniredis.RunT(t)
	require.NoError(t, mr.Set(redisKeyPrefix+"bad", "{"))

	s := NewRedisStoreFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), time.Minute)
	defer s.Close()
	_, err := s.Load(context.Background(), "bad")
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrorNotFound)
}
