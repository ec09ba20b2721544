package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationRepo records invalidated access tokens and per-user request
// counters in Redis. Tokens are never persisted anywhere else; only
// their revoked state lives here, keyed by the literal token string
// with a TTL covering the token's remaining lifetime. The same store
// carries the fixed-window rate counters so all cross-request state
// sits behind one client.
//
// The client may be nil (Redis unreachable at startup). Every method
// then returns ErrStoreUnavailable and the caller decides whether the
// pipeline fails open or closed.
type RevocationRepo struct {
	RDB    *redis.Client
	Prefix string
}

func NewRevocationRepo(rdb *redis.Client, prefix string) *RevocationRepo {
	if prefix == "" {
		prefix = "auth"
	}
	return &RevocationRepo{RDB: rdb, Prefix: prefix}
}

func (r *RevocationRepo) denyKey(token string) string {
	return r.Prefix + ":deny:" + token
}

func (r *RevocationRepo) counterKey(userID uint64) string {
	return fmt.Sprintf("%s:cnt:%d", r.Prefix, userID)
}

// counterScript increments the per-user counter and, on the first hit
// in a window, arms the key's expiry. One round trip, so concurrent
// requests from the same user never lose an update.
var counterScript = redis.NewScript(`
    local count = redis.call('INCR', KEYS[1])
    if count == 1 then
        redis.call('EXPIRE', KEYS[1], ARGV[1])
    end
    return count
`)

// Revoke marks a token invalid for ttl. The ttl should equal the
// token's remaining lifetime so the entry neither outlives nor
// underlives the token itself.
func (r *RevocationRepo) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	if r.RDB == nil {
		return ErrStoreUnavailable
	}
	if ttl <= 0 {
		ttl = time.Second
	}
	if err := r.RDB.Set(ctx, r.denyKey(token), "1", ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// IsRevoked reports whether a token has been invalidated. A missing
// key means the token was never revoked or the entry already expired
// along with the token.
func (r *RevocationRepo) IsRevoked(ctx context.Context, token string) (bool, error) {
	if r.RDB == nil {
		return false, ErrStoreUnavailable
	}
	n, err := r.RDB.Exists(ctx, r.denyKey(token)).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return n > 0, nil
}

// IncrementCounter atomically bumps the user's request counter for the
// current window and returns the post-increment value. The key is
// created with expiry window on the first call; when it expires the
// count implicitly resets to zero.
func (r *RevocationRepo) IncrementCounter(ctx context.Context, userID uint64, window time.Duration) (int64, error) {
	if r.RDB == nil {
		return 0, ErrStoreUnavailable
	}
	secs := int64(window / time.Second)
	if secs < 1 {
		secs = 1
	}
	n, err := counterScript.Run(ctx, r.RDB, []string{r.counterKey(userID)}, secs).Int64()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return n, nil
}
