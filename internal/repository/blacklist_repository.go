package repository

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/redis/go-redis/v9"
)

// BlacklistRepo is the revocation store: a Redis-backed set of tokens
// that are no longer honored before their natural expiry. Keys carry a
// TTL equal to the remaining token lifetime, so Redis evicts each record
// at expiry on its own; correctness never depends on prompt deletion
// because expired tokens already fail signature validation.
type BlacklistRepo struct {
	RDB    *redis.Client
	Prefix string
}

func NewBlacklistRepo(rdb *redis.Client) *BlacklistRepo {
	return &BlacklistRepo{RDB: rdb, Prefix: "bl"}
}

// key hashes the token before using it as a Redis key. Token strings are
// long and attacker-supplied; hashing bounds the key size and keeps raw
// credentials out of the store.
func (r *BlacklistRepo) key(token string) string {
	sum := sha256.Sum256([]byte(token))
	return r.Prefix + ":" + hex.EncodeToString(sum[:])
}

// Revoke records a token as revoked until its expiry. Tokens that are
// already expired are skipped: signature validation rejects them anyway,
// and a zero TTL would make Redis keep the key forever.
func (r *BlacklistRepo) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return r.RDB.Set(ctx, r.key(token), "1", ttl).Err()
}

// IsRevoked reports whether a token is present in the blacklist. This is
// the hot path: a single EXISTS per authenticated request, O(1), with no
// caching layer in front so a revocation is visible immediately.
func (r *BlacklistRepo) IsRevoked(ctx context.Context, token string) (bool, error) {
	n, err := r.RDB.Exists(ctx, r.key(token)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
