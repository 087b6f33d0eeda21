package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	internalerrors "github.com/stepupauth/go-mfa-server/internal/errors"
)

// AssertionClaims is the claim set of the short-lived assertion minted after
// primary login. It proves the holder passed the first factor and is allowed
// to attempt the session upgrade.
type AssertionClaims struct {
	UserID   string `json:"userId"`
	DeviceID string `json:"deviceId"`
	jwt.RegisteredClaims
}

// IssueAssertion signs a new assertion for the given user and device. The
// primary login flow calls this after a successful password check on an
// MFA-enabled account.
func IssueAssertion(signer Signer, userID, deviceID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := AssertionClaims{
		UserID:   userID,
		DeviceID: deviceID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.New().String(),
		},
	}
	signed, err := signer.Sign(claims)
	if err != nil {
		return "", errors.Wrap(err, "IssueAssertion")
	}
	return signed, nil
}

// VerifyAssertion parses and validates a raw assertion. Malformed tokens, bad
// signatures and expired claims all report ErrInvalidAssertion; callers that
// need the distinction can unwrap.
func VerifyAssertion(signer Signer, raw string) (*AssertionClaims, error) {
	claims := &AssertionClaims{}
	parsed, err := jwt.ParseWithClaims(raw, claims, signer.GetVerificationKey,
		jwt.WithValidMethods([]string{signer.GetSigningMethod().Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, internalerrors.Wrapf(internalerrors.ErrAssertionExpired, "VerifyAssertion")
		}
		return nil, internalerrors.Wrapf(internalerrors.ErrInvalidAssertion, "VerifyAssertion: %v", err)
	}
	if !parsed.Valid || claims.UserID == "" {
		return nil, internalerrors.Wrapf(internalerrors.ErrInvalidAssertion, "VerifyAssertion: missing subject")
	}
	return claims, nil
}
