package server

import (
	"net/http"
	"time"
)

// Cookie names are part of the wire contract with the admin front-end.
const (
	// CookieAssertion carries the signed assertion minted after primary login
	CookieAssertion = "mfa-assertion"
	// CookieRefresh carries the session refresh token
	CookieRefresh = "session-refresh"
	// CookieAccess carries the access token, readable by client-side script
	CookieAccess = "session-access"
)

// cookieSecure resolves the Secure attribute: an explicit override wins,
// otherwise cookies are secure exactly when running in production.
func (s *Server) cookieSecure() bool {
	if override := s.config.GetCookieSecureOverride(); override != nil {
		return *override
	}
	return s.config.IsProduction()
}

func (s *Server) setRefreshCookie(w http.ResponseWriter, refreshToken string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieRefresh,
		Value:    refreshToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.cookieSecure(),
		SameSite: http.SameSiteLaxMode,
	})
}

// setAccessCookie deliberately leaves the cookie readable by script: the
// admin front-end inspects it for its auth-state checks.
func (s *Server) setAccessCookie(w http.ResponseWriter, accessToken string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieAccess,
		Value:    accessToken,
		Path:     "/",
		HttpOnly: false,
		Secure:   s.cookieSecure(),
		SameSite: http.SameSiteLaxMode,
		Domain:   s.config.GetCookieDomain(),
	})
}

// clearAssertionCookie removes the single-use assertion from the client:
// empty value, epoch expiry.
func (s *Server) clearAssertionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieAssertion,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   s.cookieSecure(),
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
	})
}
