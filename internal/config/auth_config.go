package config

import "os"

// AuthConfig exposes the security settings the cookie and assertion layers need:
// the shared admin signing secret, the cookie Secure override, the cookie domain
// and the operator API key hash.
type AuthConfig interface {
	GetAdminAuthSecret() string
	GetCookieSecureOverride() *bool
	GetCookieDomain() string
	GetOperatorKeyHash() string
}

type Auth struct{}

var _ AuthConfig = Auth{}

func (Auth) GetAdminAuthSecret() string {
	return GetEnv("ADMIN_AUTH_SECRET", "")
}

// GetCookieSecureOverride returns nil when COOKIE_SECURE is unset, otherwise the
// explicit value. An explicit value wins over the production default.
func (Auth) GetCookieSecureOverride() *bool {
	value := os.Getenv("COOKIE_SECURE")
	switch value {
	case "true":
		v := true
		return &v
	case "false":
		v := false
		return &v
	default:
		return nil
	}
}

func (Auth) GetCookieDomain() string {
	return GetEnv("COOKIE_DOMAIN", "")
}

// GetOperatorKeyHash returns the bcrypt hash the operator API key is checked
// against. Empty means operator routes reject everything.
func (Auth) GetOperatorKeyHash() string {
	return GetEnv("OPERATOR_KEY_HASH", "")
}
