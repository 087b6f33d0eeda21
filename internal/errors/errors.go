package errors

import (
	"errors"
	"fmt"
)

// Common error types for the MFA service
var (
	// Assertion / authentication errors
	ErrInvalidAssertion = errors.New("invalid mfa assertion")
	ErrAssertionExpired = errors.New("mfa assertion expired")
	ErrAssertionReplay  = errors.New("mfa assertion already consumed")

	// Token errors
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrRefreshTokenExpired = errors.New("refresh token expired")

	// Store errors
	ErrNotFound         = errors.New("not found")
	ErrStoreUnavailable = errors.New("store unavailable")

	// Admin service errors
	ErrResetFailed = errors.New("failed to reset 2FA for user")

	// General errors
	ErrInternal    = errors.New("internal error")
	ErrUnsupported = errors.New("unsupported operation")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
