package submitguard

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const submissionKeyPrefix = "erpconsole:submission:"

// RedisGuard shares claimed submission ids between console instances.
type RedisGuard struct {
	client *redis.Client
}

// NewRedisGuard constructs a redis-backed guard.
func NewRedisGuard(client *redis.Client) *RedisGuard {
	return &RedisGuard{client: client}
}

// Claim uses SET NX so only one instance wins an id.
func (g *RedisGuard) Claim(ctx context.Context, submissionID string, ttl time.Duration) (bool, error) {
	if submissionID == "" {
		return true, nil
	}
	ok, err := g.client.SetNX(ctx, submissionKeyPrefix+submissionID, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("claim submission: %w", err)
	}
	return ok, nil
}

func (g *RedisGuard) Release(ctx context.Context, submissionID string) error {
	if submissionID == "" {
		return nil
	}
	if err := g.client.Del(ctx, submissionKeyPrefix+submissionID).Err(); err != nil {
		return fmt.Errorf("release submission: %w", err)
	}
	return nil
}
