// Package redisrepo provides Redis-backed credential stores. Records are kept
// as JSON documents so the field names stay the stable contract with other
// consumers of the store.
package redisrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/stepupauth/go-mfa-server/credential"
	internalerrors "github.com/stepupauth/go-mfa-server/internal/errors"
)

const (
	configKey        = "mfa:config"
	credentialPrefix = "mfa:cred"
	pendingPrefix    = "mfa:pending"
)

func wrapBackendErr(err error) error {
	return fmt.Errorf("%w: %v", internalerrors.ErrStoreUnavailable, err)
}

// ConfigRepo stores the GlobalConfig singleton under a fixed key.
type ConfigRepo struct {
	redis *redis.Client
}

var _ credential.ConfigRepo = (*ConfigRepo)(nil)

func NewConfigRepo(redisClient *redis.Client) *ConfigRepo {
	return &ConfigRepo{redis: redisClient}
}

func (r *ConfigRepo) Get(ctx context.Context) (*credential.GlobalConfig, error) {
	data, err := r.redis.Get(ctx, configKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, internalerrors.ErrNotFound
		}
		return nil, wrapBackendErr(err)
	}

	var cfg credential.GlobalConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("[ConfigRepo Get] corrupt config record: %w", err)
	}
	return &cfg, nil
}

func (r *ConfigRepo) Upsert(ctx context.Context, cfg *credential.GlobalConfig) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("[ConfigRepo Upsert] encode: %w", err)
	}
	if err := r.redis.Set(ctx, configKey, data, 0).Err(); err != nil {
		return wrapBackendErr(err)
	}
	return nil
}

// CredentialRepo stores active credentials under mfa:cred:<userID>.
type CredentialRepo struct {
	redis *redis.Client
}

var _ credential.Repo = (*CredentialRepo)(nil)

func NewCredentialRepo(redisClient *redis.Client) *CredentialRepo {
	return &CredentialRepo{redis: redisClient}
}

func (r *CredentialRepo) key(userID string) string {
	return credentialPrefix + ":" + userID
}

func (r *CredentialRepo) GetByUserID(ctx context.Context, userID string) (*credential.Credential, error) {
	data, err := r.redis.Get(ctx, r.key(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, internalerrors.ErrNotFound
		}
		return nil, wrapBackendErr(err)
	}

	var cred credential.Credential
	if err := json.Unmarshal(data, &cred); err != nil {
		return nil, fmt.Errorf("[CredentialRepo GetByUserID] corrupt credential record: %w", err)
	}
	return &cred, nil
}

func (r *CredentialRepo) Upsert(ctx context.Context, cred *credential.Credential) error {
	data, err := json.Marshal(cred)
	if err != nil {
		return fmt.Errorf("[CredentialRepo Upsert] encode: %w", err)
	}
	if err := r.redis.Set(ctx, r.key(cred.UserID), data, 0).Err(); err != nil {
		return wrapBackendErr(err)
	}
	return nil
}

// Delete is idempotent: DEL on an absent key is not an error.
func (r *CredentialRepo) Delete(ctx context.Context, userID string) error {
	if err := r.redis.Del(ctx, r.key(userID)).Err(); err != nil {
		return wrapBackendErr(err)
	}
	return nil
}

// PendingRepo stores unconfirmed enrollments under mfa:pending:<userID>.
type PendingRepo struct {
	redis *redis.Client
}

var _ credential.PendingRepo = (*PendingRepo)(nil)

func NewPendingRepo(redisClient *redis.Client) *PendingRepo {
	return &PendingRepo{redis: redisClient}
}

func (r *PendingRepo) key(userID string) string {
	return pendingPrefix + ":" + userID
}

func (r *PendingRepo) GetByUserID(ctx context.Context, userID string) (*credential.PendingEnrollment, error) {
	data, err := r.redis.Get(ctx, r.key(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, internalerrors.ErrNotFound
		}
		return nil, wrapBackendErr(err)
	}

	var pending credential.PendingEnrollment
	if err := json.Unmarshal(data, &pending); err != nil {
		return nil, fmt.Errorf("[PendingRepo GetByUserID] corrupt pending record: %w", err)
	}
	return &pending, nil
}

func (r *PendingRepo) Upsert(ctx context.Context, pending *credential.PendingEnrollment) error {
	data, err := json.Marshal(pending)
	if err != nil {
		return fmt.Errorf("[PendingRepo Upsert] encode: %w", err)
	}
	if err := r.redis.Set(ctx, r.key(pending.UserID), data, 0).Err(); err != nil {
		return wrapBackendErr(err)
	}
	return nil
}

func (r *PendingRepo) Delete(ctx context.Context, userID string) error {
	if err := r.redis.Del(ctx, r.key(userID)).Err(); err != nil {
		return wrapBackendErr(err)
	}
	return nil
}
