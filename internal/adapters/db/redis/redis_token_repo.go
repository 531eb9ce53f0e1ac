package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Miraines/MoonyAndStarry/commission-service/internal/domain/auth/repo"
)

const accessPrefix = "denylist:access:"

type RedisTokenRepo struct {
	client *redis.Client
}

func NewRedisTokenRepo(client *redis.Client) *RedisTokenRepo {
	return &RedisTokenRepo{
		client: client,
	}
}

var _ repo.TokenRepo = (*RedisTokenRepo)(nil)

// RevokeAccess keeps jti on the denylist until the token would expire anyway.
// Already expired tokens are rejected by the verifier and are not stored.
func (r *RedisTokenRepo) RevokeAccess(ctx context.Context, jti string, exp time.Time) error {
	ttl := time.Until(exp)
	if ttl <= 0 {
		return nil
	}
	return r.client.Set(ctx, accessPrefix+jti, 1, ttl).Err()
}

func (r *RedisTokenRepo) IsAccessRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := r.client.Exists(ctx, accessPrefix+jti).Result()
	return n > 0, err
}

func (r *RedisTokenRepo) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
