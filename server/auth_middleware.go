package server

import (
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/stepupauth/go-mfa-server/token"
)

// AssertionGate is the policy guarding the session-upgrade endpoint. It
// extracts the assertion cookie by exact name and verifies signature and
// expiry; every failure mode collapses to the same reject decision. Verified
// claims are discarded here. The handler re-parses the cookie itself rather
// than trusting anything threaded through.
func (s *Server) AssertionGate() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(CookieAssertion)
			if err != nil || cookie.Value == "" {
				respondError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			if _, err := token.VerifyAssertion(s.signer, cookie.Value); err != nil {
				respondError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			next(w, r)
		}
	}
}

// RequireOperator guards the operator surface. The bearer key is compared
// against the configured bcrypt hash; an unset hash rejects everything.
func (s *Server) RequireOperator() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			keyHash := s.config.GetOperatorKeyHash()
			if keyHash == "" {
				respondError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			authHeader := r.Header.Get("Authorization")
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
				respondError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			if err := bcrypt.CompareHashAndPassword([]byte(keyHash), []byte(parts[1])); err != nil {
				respondError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			next(w, r)
		}
	}
}
