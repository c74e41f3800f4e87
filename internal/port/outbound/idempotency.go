package outbound

import (
	"context"
	"time"
)

// IdempotencyPort deduplicates externally triggered mutations, such as
// gateway webhook retries replaying a transition request.
type IdempotencyPort interface {
	// Claim atomically marks key as processed for ttl. It returns false
	// when the key was already claimed within the ttl window.
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Release drops the claim on key, allowing a retry after a failed
	// mutation.
	Release(ctx context.Context, key string) error
}
