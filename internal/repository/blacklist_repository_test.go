package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBlacklist(t *testing.T) (*BlacklistRepo, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewBlacklistRepo(rdb), mr
}

func TestRevokeThenIsRevoked(t *testing.T) {
	repo, _ := newTestBlacklist(t)
	ctx := context.Background()

	revoked, err := repo.IsRevoked(ctx, "some.jwt.token")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, repo.Revoke(ctx, "some.jwt.token", time.Now().Add(time.Hour)))

	revoked, err = repo.IsRevoked(ctx, "some.jwt.token")
	require.NoError(t, err)
	assert.True(t, revoked)

	// A different token is unaffected.
	revoked, err = repo.IsRevoked(ctx, "other.jwt.token")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRevokeExpiredTokenIsNoOp(t *testing.T) {
	repo, mr := newTestBlacklist(t)
	ctx := context.Background()

	require.NoError(t, repo.Revoke(ctx, "stale.jwt.token", time.Now().Add(-time.Minute)))

	revoked, err := repo.IsRevoked(ctx, "stale.jwt.token")
	require.NoError(t, err)
	assert.False(t, revoked)
	assert.Empty(t, mr.Keys(), "no key should be written for an already-expired token")
}

func TestRevocationRecordEvictsAtTokenExpiry(t *testing.T) {
	repo, mr := newTestBlacklist(t)
	ctx := context.Background()

	require.NoError(t, repo.Revoke(ctx, "short.jwt.token", time.Now().Add(30*time.Second)))

	revoked, err := repo.IsRevoked(ctx, "short.jwt.token")
	require.NoError(t, err)
	require.True(t, revoked)

	mr.FastForward(time.Minute)

	revoked, err = repo.IsRevoked(ctx, "short.jwt.token")
	require.NoError(t, err)
	assert.False(t, revoked, "record must not outlive the token")
}

func TestBlacklistKeysAreHashed(t *testing.T) {
	repo, mr := newTestBlacklist(t)
	ctx := context.Background()

	const token = "raw.jwt.credential"
	require.NoError(t, repo.Revoke(ctx, token, time.Now().Add(time.Hour)))

	keys := mr.Keys()
	require.Len(t, keys, 1)
	assert.NotContains(t, keys[0], token, "raw token must not appear in the store")
}

func TestIsRevokedFailsWhenStoreIsDown(t *testing.T) {
	repo, mr := newTestBlacklist(t)
	mr.Close()

	_, err := repo.IsRevoked(context.Background(), "any.jwt.token")
	assert.Error(t, err, "a store outage must surface, never default to valid")
}
