package mfa

import (
	"context"
	"fmt"

	"github.com/stepupauth/go-mfa-server/credential"
	internalerrors "github.com/stepupauth/go-mfa-server/internal/errors"
	"github.com/stepupauth/go-mfa-server/internal/utils"
)

// DefaultIssuer is written into the config record created at first boot.
const DefaultIssuer = "StepUp"

// ConfigPatch is a partial update to the global configuration. Nil fields are
// left untouched by UpdateConfig.
type ConfigPatch struct {
	Enabled *bool   `json:"enabled"`
	Enforce *bool   `json:"enforce"`
	Issuer  *string `json:"issuer"`
}

// ConfigService manages the GlobalConfig singleton.
type ConfigService struct {
	repo credential.ConfigRepo
}

func NewConfigService(repo credential.ConfigRepo) *ConfigService {
	return &ConfigService{repo: repo}
}

// GetConfig fetches the singleton. A missing record is materialized with
// defaults rather than reported as an error; store failures propagate.
func (s *ConfigService) GetConfig(ctx context.Context) (credential.GlobalConfig, error) {
	cfg, err := s.repo.Get(ctx)
	if err != nil {
		if internalerrors.Is(err, internalerrors.ErrNotFound) {
			return credential.GlobalConfig{}, nil
		}
		return credential.GlobalConfig{}, fmt.Errorf("[ConfigService GetConfig]: %w", err)
	}
	return *cfg, nil
}

// UpdateConfig merges the patch into the existing record, creating it from
// defaults when absent. Exactly one write is issued; the post-merge value is
// returned.
func (s *ConfigService) UpdateConfig(ctx context.Context, patch ConfigPatch) (credential.GlobalConfig, error) {
	cfg, err := s.repo.Get(ctx)
	if err != nil && !internalerrors.Is(err, internalerrors.ErrNotFound) {
		return credential.GlobalConfig{}, fmt.Errorf("[ConfigService UpdateConfig] read: %w", err)
	}
	if cfg == nil {
		cfg = &credential.GlobalConfig{}
	}

	if patch.Enabled != nil {
		cfg.Enabled = utils.Value(patch.Enabled)
	}
	if patch.Enforce != nil {
		cfg.Enforce = utils.Value(patch.Enforce)
	}
	if patch.Issuer != nil {
		cfg.Issuer = utils.Value(patch.Issuer)
	}

	if err := s.repo.Upsert(ctx, cfg); err != nil {
		return credential.GlobalConfig{}, fmt.Errorf("[ConfigService UpdateConfig] write: %w", err)
	}
	return *cfg, nil
}

// IsEnabled is a convenience projection of GetConfig().Enabled.
func (s *ConfigService) IsEnabled(ctx context.Context) (bool, error) {
	cfg, err := s.GetConfig(ctx)
	if err != nil {
		return false, err
	}
	return cfg.Enabled, nil
}

// EnsureDefault creates the boot-time default configuration when no record
// exists yet. Called once at server construction.
func (s *ConfigService) EnsureDefault(ctx context.Context) error {
	_, err := s.repo.Get(ctx)
	if err == nil {
		return nil
	}
	if !internalerrors.Is(err, internalerrors.ErrNotFound) {
		return fmt.Errorf("[ConfigService EnsureDefault] read: %w", err)
	}

	defaultCfg := &credential.GlobalConfig{Enabled: false, Enforce: false, Issuer: DefaultIssuer}
	if err := s.repo.Upsert(ctx, defaultCfg); err != nil {
		return fmt.Errorf("[ConfigService EnsureDefault] write: %w", err)
	}
	return nil
}
