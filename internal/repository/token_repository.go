package repository

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenRepo is a Redis-backed token denylist.  A revoked token id is stored
// under "<prefix>:<jti>" with a TTL that ends when the token would have
// expired anyway, so the set never grows beyond the live tokens.
type TokenRepo struct {
	rdb    *redis.Client
	prefix string
	now    func() time.Time
}

func NewTokenRepo(rdb *redis.Client, prefix string) *TokenRepo {
	if prefix == "" {
		prefix = "denylist"
	}
	return &TokenRepo{rdb: rdb, prefix: prefix, now: time.Now}
}

func (r *TokenRepo) key(jti string) string { return r.prefix + ":" + jti }

// Revoke marks jti as revoked until `until`.  Tokens that already expired
// are skipped.
func (r *TokenRepo) Revoke(ctx context.Context, jti string, until time.Time) error {
	if jti == "" {
		return nil
	}
	ttl := until.Sub(r.now())
	if ttl <= 0 {
		return nil
	}
	return r.rdb.Set(ctx, r.key(jti), "1", ttl).Err()
}

// IsRevoked reports whether jti has been revoked.
func (r *TokenRepo) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if jti == "" {
		return false, nil
	}
	err := r.rdb.Get(ctx, r.key(jti)).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
