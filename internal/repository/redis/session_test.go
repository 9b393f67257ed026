package redis

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/eleven-jw/ecom-lab/pkg/errors"

	"github.com/eleven-jw/ecom-lab/internal/domain"
)

func setupTestRedis(t *testing.T) (*SessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewSessionStore(client), mr
}

func sampleSession() *domain.Session {
	return &domain.Session{
		User: &domain.UserProfile{
			ID:       "user-001",
			Email:    "jane.basic@example.com",
			FullName: "Jane Basic",
			Tier:     domain.TierBasic,
		},
		Tokens: &domain.AuthTokens{
			AccessToken:  "access-abc",
			RefreshToken: "refresh-abc",
			ExpiresIn:    900,
		},
	}
}

func TestSessionStore_SaveAndLoad(t *testing.T) {
	store, mr := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, sampleSession()))

	// The record lives under a single namespaced key with no TTL.
	assert.True(t, mr.Exists(sessionKey))
	assert.Zero(t, mr.TTL(sessionKey))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "user-001", loaded.User.ID)
	assert.Equal(t, domain.TierBasic, loaded.User.Tier)
	assert.Equal(t, "access-abc", loaded.Tokens.AccessToken)
	assert.Equal(t, "refresh-abc", loaded.Tokens.RefreshToken)
	assert.Equal(t, 900, loaded.Tokens.ExpiresIn)
}

func TestSessionStore_LoadMissing(t *testing.T) {
	store, _ := setupTestRedis(t)

	_, err := store.Load(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSessionStore_LoadInvalidJSON(t *testing.T) {
	store, mr := setupTestRedis(t)

	require.NoError(t, mr.Set(sessionKey, "{not json"))

	_, err := store.Load(context.Background())
	assert.Error(t, err)
}

func TestSessionStore_LoadIncompleteRecord(t *testing.T) {
	store, mr := setupTestRedis(t)

	// A record missing its token half is treated as absent.
	data, err := json.Marshal(map[string]any{
		"user": sampleSession().User,
	})
	require.NoError(t, err)
	require.NoError(t, mr.Set(sessionKey, string(data)))

	_, err = store.Load(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSessionStore_SaveOverwrites(t *testing.T) {
	store, _ := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, sampleSession()))

	rotated := sampleSession()
	rotated.Tokens.AccessToken = "access-new"
	rotated.Tokens.RefreshToken = "refresh-new"
	require.NoError(t, store.Save(ctx, rotated))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "access-new", loaded.Tokens.AccessToken)
}

func TestSessionStore_Clear(t *testing.T) {
	store, mr := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, sampleSession()))
	require.NoError(t, store.Clear(ctx))

	assert.False(t, mr.Exists(sessionKey))

	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSessionStore_ClearWhenEmpty(t *testing.T) {
	store, _ := setupTestRedis(t)

	require.NoError(t, store.Clear(context.Background()))
}
