package token

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	internalerrors "github.com/stepupauth/go-mfa-server/internal/errors"
)

// ConsumedAssertionCache tracks assertion jtis that have already been
// exchanged. The assertion is single-use in intent; expiry alone does not
// stop a replay inside the TTL window, this cache does.
type ConsumedAssertionCache interface {
	MarkConsumed(ctx context.Context, jti string, exp time.Time) error
	IsConsumed(ctx context.Context, jti string) bool
	Cleanup() // Remove expired entries
}

// InMemoryConsumedCache is a simple in-memory implementation
type InMemoryConsumedCache struct {
	consumed map[string]time.Time
	mu       sync.RWMutex
}

var _ ConsumedAssertionCache = (*InMemoryConsumedCache)(nil)

func NewInMemoryConsumedCache() *InMemoryConsumedCache {
	return &InMemoryConsumedCache{
		consumed: make(map[string]time.Time),
	}
}

func (c *InMemoryConsumedCache) MarkConsumed(_ context.Context, jti string, exp time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.consumed[jti] = exp
	return nil
}

func (c *InMemoryConsumedCache) IsConsumed(_ context.Context, jti string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, exists := c.consumed[jti]
	return exists
}

func (c *InMemoryConsumedCache) Cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now()
	for jti, exp := range c.consumed {
		if now.After(exp) {
			delete(c.consumed, jti)
		}
	}
}

// RedisConsumedCache shares the consumed set across instances. Entries carry
// a TTL matching the assertion's remaining lifetime, so Redis expires them on
// its own and Cleanup is a no-op.
type RedisConsumedCache struct {
	redis  *redis.Client
	prefix string
}

var _ ConsumedAssertionCache = (*RedisConsumedCache)(nil)

func NewRedisConsumedCache(redisClient *redis.Client) *RedisConsumedCache {
	return &RedisConsumedCache{redis: redisClient, prefix: "mfa:consumed"}
}

func (c *RedisConsumedCache) key(jti string) string {
	return c.prefix + ":" + jti
}

func (c *RedisConsumedCache) MarkConsumed(ctx context.Context, jti string, exp time.Time) error {
	ttl := time.Until(exp)
	if ttl <= 0 {
		return nil
	}
	if err := c.redis.Set(ctx, c.key(jti), 1, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", internalerrors.ErrStoreUnavailable, err)
	}
	return nil
}

// IsConsumed treats an unreachable backend as consumed. A replay guard that
// fails open is no guard at all.
func (c *RedisConsumedCache) IsConsumed(ctx context.Context, jti string) bool {
	n, err := c.redis.Exists(ctx, c.key(jti)).Result()
	if err != nil {
		return true
	}
	return n > 0
}

func (c *RedisConsumedCache) Cleanup() {}
