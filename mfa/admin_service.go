package mfa

import (
	"context"
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/stepupauth/go-mfa-server/credential"
	internalerrors "github.com/stepupauth/go-mfa-server/internal/errors"
)

// AdminService answers enrollment-state queries and performs the operator
// reset of a user's second factor.
type AdminService struct {
	credentials credential.Repo
	pending     credential.PendingRepo
	failClosed  bool
	nowFunc     func() time.Time
}

type AdminOption func(*AdminService)

// WithFailClosed makes IsEnabled propagate store errors instead of treating
// an unreadable store as "2FA not enabled".
func WithFailClosed() AdminOption {
	return func(s *AdminService) {
		s.failClosed = true
	}
}

func WithNowFunc(now func() time.Time) AdminOption {
	return func(s *AdminService) {
		s.nowFunc = now
	}
}

func NewAdminService(credentials credential.Repo, pending credential.PendingRepo, options ...AdminOption) *AdminService {
	s := &AdminService{
		credentials: credentials,
		pending:     pending,
		nowFunc:     time.Now,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// IsEnabled reports whether an enabled credential exists for the user. In the
// default fail-open mode a store failure is logged and reported as false so a
// transient outage does not block the admin UI; WithFailClosed surfaces it.
func (s *AdminService) IsEnabled(ctx context.Context, userID string) (bool, error) {
	cred, err := s.credentials.GetByUserID(ctx, userID)
	if err != nil {
		if internalerrors.Is(err, internalerrors.ErrNotFound) {
			return false, nil
		}
		if s.failClosed {
			return false, fmt.Errorf("[AdminService IsEnabled]: %w", err)
		}
		log.Error().Err(err).Str("userId", userID).Msg("2FA enabled check failed, reporting disabled")
		return false, nil
	}
	return cred.Enabled, nil
}

// Reset deletes the user's active credential and any pending enrollment. The
// two deletes run concurrently with no atomicity across the pair; both are
// idempotent, so a partial failure is safe to retry. Any failure is reported
// as ErrResetFailed and the caller must not assume the reset happened.
func (s *AdminService) Reset(ctx context.Context, userID string) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return s.credentials.Delete(gctx, userID)
	})
	g.Go(func() error {
		return s.pending.Delete(gctx, userID)
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Str("userId", userID).Msg("2FA reset failed")
		return fmt.Errorf("%w: %v", internalerrors.ErrResetFailed, err)
	}
	return nil
}

// BeginEnrollment generates a fresh secret and stores it as a pending
// enrollment, replacing any earlier unconfirmed attempt.
func (s *AdminService) BeginEnrollment(ctx context.Context, userID string) (*credential.PendingEnrollment, error) {
	secret, err := generateSecret()
	if err != nil {
		return nil, fmt.Errorf("[AdminService BeginEnrollment]: %w", err)
	}

	pending := &credential.PendingEnrollment{
		UserID:    userID,
		Secret:    secret,
		CreatedAt: s.nowFunc(),
	}
	if err := s.pending.Upsert(ctx, pending); err != nil {
		return nil, fmt.Errorf("[AdminService BeginEnrollment] store: %w", err)
	}
	return pending, nil
}

// ConfirmEnrollment promotes the pending secret into an enabled credential
// and removes the pending record. Code verification happens upstream; by the
// time this is called the user has proven possession of the secret.
func (s *AdminService) ConfirmEnrollment(ctx context.Context, userID string) error {
	pending, err := s.pending.GetByUserID(ctx, userID)
	if err != nil {
		return fmt.Errorf("[AdminService ConfirmEnrollment] read pending: %w", err)
	}

	cred := &credential.Credential{
		UserID:    userID,
		Secret:    pending.Secret,
		Enabled:   true,
		CreatedAt: s.nowFunc(),
	}
	if err := s.credentials.Upsert(ctx, cred); err != nil {
		return fmt.Errorf("[AdminService ConfirmEnrollment] store credential: %w", err)
	}
	if err := s.pending.Delete(ctx, userID); err != nil {
		return fmt.Errorf("[AdminService ConfirmEnrollment] clear pending: %w", err)
	}
	return nil
}

// generateSecret produces a base32 secret in the alphabet authenticator apps
// expect.
func generateSecret() (string, error) {
	b := make([]byte, 20) // 160 bits
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(b), nil
}
