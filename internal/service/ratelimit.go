package service

import (
	"context"
	"fmt"
	"time"

	"cryptoheaven.app/api/pkg/apperror"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func CheckAndSetRateLimit(ctx context.Context, rdb *redis.Client, userID uuid.UUID, action string, limit time.Duration) (bool, error) {
	if rdb == nil {
		return true, nil
	}

	key := fmt.Sprintf("rate_limit:user:%s:%s", userID.String(), action)

	wasSet, err := rdb.SetNX(ctx, key, "locked", limit).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check rate limit in redis: %w", err)
	}

	return wasSet, nil
}

func GetRateLimitTTL(ctx context.Context, rdb *redis.Client, userID uuid.UUID, action string) (time.Duration, error) {
	if rdb == nil {
		return 0, nil
	}
	key := fmt.Sprintf("rate_limit:user:%s:%s", userID.String(), action)
	return rdb.TTL(ctx, key).Result()
}

// ClearRateLimit releases the lock early, used to roll back when the
// rate-limited operation itself fails.
func ClearRateLimit(ctx context.Context, rdb *redis.Client, userID uuid.UUID, action string) error {
	if rdb == nil {
		return nil
	}
	key := fmt.Sprintf("rate_limit:user:%s:%s", userID.String(), action)
	return rdb.Del(ctx, key).Err()
}

// rateLimitError wraps the sentinel with the remaining cooldown so clients
// know how long to wait.
func rateLimitError(ctx context.Context, rdb *redis.Client, userID uuid.UUID, action string, limit time.Duration) error {
	ttl, _ := GetRateLimitTTL(ctx, rdb, userID, action)
	if ttl <= 0 {
		ttl = limit
	}
	return fmt.Errorf("%w: please wait %.0f seconds", apperror.ErrRateLimitExceeded, ttl.Seconds())
}
