package token

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	internalerrors "github.com/stepupauth/go-mfa-server/internal/errors"
	"github.com/stepupauth/go-mfa-server/token/refresh"
)

// SessionManager mints the token pair the upgrade controller places in
// cookies. The controller depends on this interface only.
type SessionManager interface {
	GenerateRefreshToken(ctx context.Context, userID, deviceID string) (string, error)
	GenerateAccessToken(ctx context.Context, refreshToken string) (string, error)
}

// AccessClaims is the claim set of the access JWT readable by client-side
// script for auth-state checks.
type AccessClaims struct {
	DeviceID string `json:"deviceId"`
	jwt.RegisteredClaims
}

// Manager issues refresh tokens (opaque random strings stored server-side)
// and exchanges them for signed access tokens.
type Manager struct {
	refreshRepo        refresh.Repo
	signer             Signer
	issuer             string
	refreshTokenLength int
	accessTokenExpiry  time.Duration
	refreshTokenExpiry time.Duration
	nowFunc            func() time.Time
}

var _ SessionManager = (*Manager)(nil)

type ManagerOption func(*Manager)

func WithTokenExpiry(accessTokenExpiry, refreshTokenExpiry time.Duration) ManagerOption {
	return func(m *Manager) {
		m.accessTokenExpiry = accessTokenExpiry
		m.refreshTokenExpiry = refreshTokenExpiry
	}
}

func WithNowFunc(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.nowFunc = now
	}
}

func WithIssuer(issuer string) ManagerOption {
	return func(m *Manager) {
		m.issuer = issuer
	}
}

func New(refreshRepo refresh.Repo, signer Signer, options ...ManagerOption) *Manager {
	m := &Manager{
		refreshRepo:        refreshRepo,
		signer:             signer,
		refreshTokenLength: 32, // 256 bits
	}

	for _, opt := range options {
		opt(m)
	}

	if m.accessTokenExpiry == 0 {
		m.accessTokenExpiry = 30 * time.Minute
	}
	if m.refreshTokenExpiry == 0 {
		m.refreshTokenExpiry = 7 * 24 * time.Hour
	}
	if m.nowFunc == nil {
		m.nowFunc = time.Now
	}
	return m
}

// GenerateRefreshToken mints a refresh token bound to the user and device.
// A user holds at most one refresh token; an existing one is rotated out.
func (m *Manager) GenerateRefreshToken(ctx context.Context, userID, deviceID string) (string, error) {
	if existingToken, err := m.refreshRepo.GetByUserID(ctx, userID); err == nil && existingToken != nil {
		if err := m.refreshRepo.Delete(ctx, existingToken.Token); err != nil {
			return "", errors.Wrap(err, "Manager.GenerateRefreshToken Delete")
		}
	}

	tokenBytes := make([]byte, m.refreshTokenLength)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", errors.Wrap(err, "Manager.GenerateRefreshToken rand.Read")
	}

	tokenStr := hex.EncodeToString(tokenBytes)
	if err := m.refreshRepo.Upsert(ctx, &refresh.StoredRefreshToken{
		Token:    tokenStr,
		UserID:   userID,
		DeviceID: deviceID,
		Iat:      m.nowFunc(),
	}); err != nil {
		return "", errors.Wrap(err, "Manager.GenerateRefreshToken Upsert")
	}

	return tokenStr, nil
}

// GenerateAccessToken exchanges a stored refresh token for a signed access
// JWT carrying the same user and device binding.
func (m *Manager) GenerateAccessToken(ctx context.Context, refreshToken string) (string, error) {
	rt, err := m.refreshRepo.Get(ctx, refreshToken)
	if err != nil {
		return "", internalerrors.Wrapf(internalerrors.ErrInvalidRefreshToken, "Manager.GenerateAccessToken: %v", err)
	}

	if m.nowFunc().Sub(rt.Iat) > m.refreshTokenExpiry {
		_ = m.refreshRepo.Delete(ctx, refreshToken)
		return "", internalerrors.ErrRefreshTokenExpired
	}

	now := m.nowFunc()
	claims := AccessClaims{
		DeviceID: rt.DeviceID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   rt.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.accessTokenExpiry)),
			ID:        uuid.New().String(),
		},
	}

	signed, err := m.signer.Sign(claims)
	if err != nil {
		return "", errors.Wrap(err, "Manager.GenerateAccessToken Sign")
	}
	return signed, nil
}

// InvalidateRefreshToken drops a refresh token from storage. Used by logout.
func (m *Manager) InvalidateRefreshToken(ctx context.Context, refreshToken string) {
	_ = m.refreshRepo.Delete(ctx, refreshToken)
}
