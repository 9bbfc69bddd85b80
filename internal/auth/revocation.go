package auth

import (
	"context"
	"time"

	"thrive/internal/utils"

	"github.com/redis/go-redis/v9"
)

// RevocationStore blacklists token jtis in Redis until their natural expiry.
// When Redis is unreachable the store fails open: logouts are best effort and
// tokens still die at their expiry time.
type RevocationStore struct {
	RDB *redis.Client
}

func revocationKey(jti string) string { return "revoked:" + jti }

func (s RevocationStore) Revoke(ctx context.Context, jti string, ttl time.Duration) {
	if s.RDB == nil || jti == "" || ttl <= 0 {
		return
	}
	if err := s.RDB.Set(ctx, revocationKey(jti), "1", ttl).Err(); err != nil {
		utils.LogEvent("", "auth", "revoke_failed", "jti="+jti+" err="+err.Error())
	}
}

func (s RevocationStore) IsRevoked(ctx context.Context, jti string) bool {
	if s.RDB == nil || jti == "" {
		return false
	}
	n, err := s.RDB.Exists(ctx, revocationKey(jti)).Result()
	if err != nil {
		utils.LogEvent("", "auth", "revocation_check_failed", "err="+err.Error())
		return false
	}
	return n > 0
}
