package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const referenceKeyPrefix = "quotation:reference:"

// RedisReserver claims reference numbers with SETNX so two concurrent
// submissions never share one.
type RedisReserver struct {
	client redis.Cmdable
}

func NewRedisReserver(client redis.Cmdable) *RedisReserver {
	return &RedisReserver{client: client}
}

func (r *RedisReserver) Reserve(ctx context.Context, reference string, ttl time.Duration) (bool, error) {
	ok, err := r.client.SetNX(ctx, referenceKeyPrefix+reference, time.Now().UTC().Format(time.RFC3339), ttl).Result()
	if err != nil {
		return false, fmt.Errorf("reserve reference %s: %w", reference, err)
	}
	return ok, nil
}

