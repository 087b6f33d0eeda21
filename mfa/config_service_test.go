package mfa_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stepupauth/go-mfa-server/credential"
	"github.com/stepupauth/go-mfa-server/credential/repofake"
	internalerrors "github.com/stepupauth/go-mfa-server/internal/errors"
	"github.com/stepupauth/go-mfa-server/internal/utils"
	"github.com/stepupauth/go-mfa-server/mfa"
)

func TestGetConfigMaterializesDefaults(t *testing.T) {
	repo := repofake.NewFakeConfigRepo()
	service := mfa.NewConfigService(repo)
	ctx := context.Background()

	cfg, err := service.GetConfig(ctx)
	require.NoError(t, err)
	require.Equal(t, credential.GlobalConfig{Enabled: false, Enforce: false, Issuer: ""}, cfg)

	updated, err := service.UpdateConfig(ctx, mfa.ConfigPatch{Enabled: utils.Ptr(true)})
	require.NoError(t, err)
	require.Equal(t, credential.GlobalConfig{Enabled: true, Enforce: false, Issuer: ""}, updated)
}

func TestUpdateConfigMergePreservesUnspecifiedFields(t *testing.T) {
	repo := repofake.NewFakeConfigRepo()
	service := mfa.NewConfigService(repo)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, &credential.GlobalConfig{Enabled: true, Enforce: false, Issuer: "Acme"}))

	updated, err := service.UpdateConfig(ctx, mfa.ConfigPatch{Enforce: utils.Ptr(true)})
	require.NoError(t, err)
	require.Equal(t, credential.GlobalConfig{Enabled: true, Enforce: true, Issuer: "Acme"}, updated)

	// The merge was persisted, not just returned
	stored, err := service.GetConfig(ctx)
	require.NoError(t, err)
	require.Equal(t, updated, stored)
}

func TestUpdateConfigCanClearFields(t *testing.T) {
	repo := repofake.NewFakeConfigRepo()
	service := mfa.NewConfigService(repo)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, &credential.GlobalConfig{Enabled: true, Enforce: true, Issuer: "Acme"}))

	updated, err := service.UpdateConfig(ctx, mfa.ConfigPatch{Enabled: utils.Ptr(false), Issuer: utils.Ptr("")})
	require.NoError(t, err)
	require.Equal(t, credential.GlobalConfig{Enabled: false, Enforce: true, Issuer: ""}, updated)
}

func TestIsEnabledProjectsConfig(t *testing.T) {
	repo := repofake.NewFakeConfigRepo()
	service := mfa.NewConfigService(repo)
	ctx := context.Background()

	enabled, err := service.IsEnabled(ctx)
	require.NoError(t, err)
	require.False(t, enabled)

	_, err = service.UpdateConfig(ctx, mfa.ConfigPatch{Enabled: utils.Ptr(true)})
	require.NoError(t, err)

	enabled, err = service.IsEnabled(ctx)
	require.NoError(t, err)
	require.True(t, enabled)
}

func TestEnsureDefaultCreatesOnce(t *testing.T) {
	repo := repofake.NewFakeConfigRepo()
	service := mfa.NewConfigService(repo)
	ctx := context.Background()

	require.NoError(t, service.EnsureDefault(ctx))

	cfg, err := service.GetConfig(ctx)
	require.NoError(t, err)
	require.Equal(t, credential.GlobalConfig{Enabled: false, Enforce: false, Issuer: mfa.DefaultIssuer}, cfg)

	// A second boot must not clobber operator changes
	_, err = service.UpdateConfig(ctx, mfa.ConfigPatch{Enabled: utils.Ptr(true)})
	require.NoError(t, err)
	require.NoError(t, service.EnsureDefault(ctx))

	cfg, err = service.GetConfig(ctx)
	require.NoError(t, err)
	require.True(t, cfg.Enabled)
}

func TestConfigServicePropagatesStoreErrors(t *testing.T) {
	repo := repofake.NewFakeConfigRepo()
	service := mfa.NewConfigService(repo)
	ctx := context.Background()

	repo.FailNext = true
	_, err := service.GetConfig(ctx)
	require.ErrorIs(t, err, internalerrors.ErrStoreUnavailable)

	repo.FailNext = true
	_, err = service.UpdateConfig(ctx, mfa.ConfigPatch{Enabled: utils.Ptr(true)})
	require.ErrorIs(t, err, internalerrors.ErrStoreUnavailable)
}
