package session_test

import (
	"testing"

	"github.com/UnknownOlympus/vetscout/internal/models"
	"github.com/UnknownOlympus/vetscout/internal/session"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T) (*session.RedisStore, *miniredis.Miniredis) {
	t.Helper()

	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return session.NewRedisStore(client, "vetscout:"), srv
}

func TestRedisStore(t *testing.T) {
	ctx := t.Context()

	t.Run("unknown token", func(t *testing.T) {
		store, _ := newRedisStore(t)

		current, err := store.Load(ctx, "t1")

		require.NoError(t, err)
		assert.Nil(t, current)
	})

	t.Run("save load delete", func(t *testing.T) {
		store, srv := newRedisStore(t)

		require.NoError(t, store.Save(ctx, models.Session{Token: "t1", UserID: "u1"}))
		assert.Equal(t, "t1", srv.HGet("vetscout:session:t1", session.TokenKey))
		assert.Equal(t, "u1", srv.HGet("vetscout:session:t1", session.UserIDKey))

		current, err := store.Load(ctx, "t1")
		require.NoError(t, err)
		assert.Equal(t, &models.Session{Token: "t1", UserID: "u1"}, current)

		require.NoError(t, store.Delete(ctx, "t1"))
		assert.False(t, srv.Exists("vetscout:session:t1"))
	})

	t.Run("token without user id", func(t *testing.T) {
		store, srv := newRedisStore(t)
		srv.HSet("vetscout:session:t1", session.TokenKey, "t1")

		current, err := store.Load(ctx, "t1")

		require.NoError(t, err)
		assert.Equal(t, &models.Session{Token: "t1"}, current)
	})

	t.Run("server errors", func(t *testing.T) {
		store, srv := newRedisStore(t)
		require.NoError(t, store.Ping(ctx))
		srv.SetError("ERR forced failure")

		require.Error(t, store.Ping(ctx))
		_, err := store.Load(ctx, "t1")
		require.ErrorContains(t, err, "failed to load session")
		require.ErrorContains(t, store.Save(ctx, models.Session{Token: "t"}), "failed to save session")
		require.ErrorContains(t, store.Delete(ctx, "t"), "failed to delete session")
	})

	t.Run("manager over redis", func(t *testing.T) {
		store, srv := newRedisStore(t)
		manager := newManager(store)

		require.NoError(t, manager.Login(ctx, "t1", "u1"))
		require.NoError(t, manager.Login(ctx, "t2", "u2"))
		assert.True(t, manager.State(ctx, "t1").IsAuthenticated)

		require.NoError(t, manager.Logout(ctx, "t1"))
		assert.False(t, manager.State(ctx, "t1").IsAuthenticated)
		assert.True(t, manager.State(ctx, "t2").IsAuthenticated)
		assert.Equal(t, []string{"vetscout:session:t2"}, srv.Keys())
	})
}
