package store

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

var _ Revocations = (*RedisRevocations)(nil)

// RedisRevocations keeps revoked token IDs in Redis with a TTL matching the
// token's remaining lifetime, so the denylist cleans itself up.
type RedisRevocations struct {
	client *redis.Client
}

// NewRedisRevocations connects to Redis and verifies the connection.
func NewRedisRevocations(options *redis.Options) (*RedisRevocations, error) {
	client := redis.NewClient(options)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisRevocations{client: client}, nil
}

func (r *RedisRevocations) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		// Already past expiry; verification rejects it on its own.
		return nil
	}

	return r.client.Set(ctx, revocationKey(tokenID), "1", ttl).Err()
}

func (r *RedisRevocations) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	err := r.client.Get(ctx, revocationKey(tokenID)).Err()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}

func (r *RedisRevocations) Close() error {
	return r.client.Close()
}

func revocationKey(tokenID string) string {
	return "revoked:" + tokenID
}
