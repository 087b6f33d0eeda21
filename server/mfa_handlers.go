package server

import (
	"net/http"

	"github.com/rs/zerolog/log"

	internalerrors "github.com/stepupauth/go-mfa-server/internal/errors"
	"github.com/stepupauth/go-mfa-server/token"
)

// apiHandler lets protocol handlers raise errors instead of mapping them to
// status codes themselves; the wrapper owns the translation.
type apiHandler func(w http.ResponseWriter, r *http.Request) error

func (s *Server) handle(h apiHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := h(w, r)
		if err == nil {
			return
		}

		switch {
		case internalerrors.Is(err, internalerrors.ErrInvalidAssertion),
			internalerrors.Is(err, internalerrors.ErrAssertionExpired),
			internalerrors.Is(err, internalerrors.ErrAssertionReplay):
			respondError(w, http.StatusUnauthorized, "Unauthorized")
		default:
			log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
			respondError(w, http.StatusInternalServerError, "Internal server error")
		}
	}
}

// VerifyHandler is the terminal transition of the upgrade protocol:
// assertion-verified -> session-established. The assertion cookie is
// re-verified here even though the gate already checked it.
func (s *Server) VerifyHandler() http.HandlerFunc {
	return s.handle(func(w http.ResponseWriter, r *http.Request) error {
		ctx := r.Context()

		cookie, err := r.Cookie(CookieAssertion)
		if err != nil || cookie.Value == "" {
			return internalerrors.Wrapf(internalerrors.ErrInvalidAssertion, "VerifyHandler: missing assertion cookie")
		}

		claims, err := token.VerifyAssertion(s.signer, cookie.Value)
		if err != nil {
			return err
		}

		jti := claims.ID
		if jti != "" && s.consumed.IsConsumed(ctx, jti) {
			return internalerrors.Wrapf(internalerrors.ErrAssertionReplay, "VerifyHandler")
		}

		refreshToken, err := s.sessions.GenerateRefreshToken(ctx, claims.UserID, claims.DeviceID)
		if err != nil {
			return internalerrors.Wrapf(err, "VerifyHandler GenerateRefreshToken")
		}
		s.setRefreshCookie(w, refreshToken)

		accessToken, err := s.sessions.GenerateAccessToken(ctx, refreshToken)
		if err != nil {
			return internalerrors.Wrapf(err, "VerifyHandler GenerateAccessToken")
		}
		s.setAccessCookie(w, accessToken)

		if jti != "" && claims.ExpiresAt != nil {
			if err := s.consumed.MarkConsumed(ctx, jti, claims.ExpiresAt.Time); err != nil {
				// The cookie-clear below still strips the credential from the
				// client; a failed mark only widens the replay window.
				log.Warn().Err(err).Msg("failed to mark assertion consumed")
			}
		}

		s.clearAssertionCookie(w)

		respond(w, http.StatusOK, map[string]string{"message": "MFA Verified"})
		return nil
	})
}
