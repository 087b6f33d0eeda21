package refreshredisrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	internalerrors "github.com/stepupauth/go-mfa-server/internal/errors"
	"github.com/stepupauth/go-mfa-server/token/refresh"
)

const (
	tokenPrefix = "mfa:refresh"
	userPrefix  = "mfa:refresh:user"
)

var _ refresh.Repo = (*RedisRefreshTokenRepo)(nil)

// RedisRefreshTokenRepo keeps refresh-token records under mfa:refresh:<token>
// with a secondary user index. Entries expire with the configured refresh
// lifetime so stale tokens vanish without a sweeper.
type RedisRefreshTokenRepo struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewRedisRefreshTokenRepo(redisClient *redis.Client, ttl time.Duration) *RedisRefreshTokenRepo {
	return &RedisRefreshTokenRepo{redis: redisClient, ttl: ttl}
}

func (r *RedisRefreshTokenRepo) tokenKey(token string) string {
	return tokenPrefix + ":" + token
}

func (r *RedisRefreshTokenRepo) userKey(userID string) string {
	return userPrefix + ":" + userID
}

func (r *RedisRefreshTokenRepo) Upsert(ctx context.Context, rt *refresh.StoredRefreshToken) error {
	data, err := json.Marshal(rt)
	if err != nil {
		return fmt.Errorf("[RedisRefreshTokenRepo Upsert] encode: %w", err)
	}

	pipe := r.redis.TxPipeline()
	pipe.Set(ctx, r.tokenKey(rt.Token), data, r.ttl)
	pipe.Set(ctx, r.userKey(rt.UserID), rt.Token, r.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: %v", internalerrors.ErrStoreUnavailable, err)
	}
	return nil
}

func (r *RedisRefreshTokenRepo) Delete(ctx context.Context, token string) error {
	rt, err := r.Get(ctx, token)
	if err != nil {
		return err
	}

	pipe := r.redis.TxPipeline()
	pipe.Del(ctx, r.tokenKey(token))
	pipe.Del(ctx, r.userKey(rt.UserID))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: %v", internalerrors.ErrStoreUnavailable, err)
	}
	return nil
}

func (r *RedisRefreshTokenRepo) Get(ctx context.Context, token string) (*refresh.StoredRefreshToken, error) {
	data, err := r.redis.Get(ctx, r.tokenKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, internalerrors.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", internalerrors.ErrStoreUnavailable, err)
	}

	var rt refresh.StoredRefreshToken
	if err := json.Unmarshal(data, &rt); err != nil {
		return nil, fmt.Errorf("[RedisRefreshTokenRepo Get] corrupt record: %w", err)
	}
	return &rt, nil
}

func (r *RedisRefreshTokenRepo) GetByUserID(ctx context.Context, userID string) (*refresh.StoredRefreshToken, error) {
	token, err := r.redis.Get(ctx, r.userKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, internalerrors.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", internalerrors.ErrStoreUnavailable, err)
	}
	return r.Get(ctx, token)
}
