// Package redis implements outbound ports backed by Redis.
package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/commercekit/server/internal/port/outbound"
)

const idempotencyKeyPrefix = "order:idempotency:"

// idempotencyAdapter implements outbound.IdempotencyPort with SETNX.
type idempotencyAdapter struct {
	client redis.UniversalClient
}

// NewIdempotencyAdapter creates a new idempotency adapter.
func NewIdempotencyAdapter(client redis.UniversalClient) outbound.IdempotencyPort {
	return &idempotencyAdapter{client: client}
}

func (a *idempotencyAdapter) Claim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return a.client.SetNX(ctx, idempotencyKeyPrefix+key, 1, ttl).Result()
}

func (a *idempotencyAdapter) Release(ctx context.Context, key string) error {
	return a.client.Del(ctx, idempotencyKeyPrefix+key).Err()
}

// Compile-time check
var _ outbound.IdempotencyPort = (*idempotencyAdapter)(nil)
