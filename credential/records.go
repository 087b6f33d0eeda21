package credential

import "time"

// GlobalConfig is the singleton MFA policy record. Exactly one instance exists
// after first boot; it is only ever mutated through the config service.
type GlobalConfig struct {
	Enabled bool   `json:"enabled"` // MFA feature switch
	Enforce bool   `json:"enforce"` // Require enrollment on next login
	Issuer  string `json:"issuer"`  // Issuer name shown by authenticator apps
}

// Credential is a confirmed, usable second factor. The presence of an enabled
// record for a user is the sole source of truth for "2FA is enabled".
type Credential struct {
	UserID    string    `json:"userId"`
	Secret    string    `json:"secret"`
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"createdAt"`
}

// PendingEnrollment is an in-progress, unconfirmed enrollment: the secret has
// been generated but not yet verified with a one-time code. Deleted on
// confirmation or on an administrative reset.
type PendingEnrollment struct {
	UserID    string    `json:"userId"`
	Secret    string    `json:"secret"`
	CreatedAt time.Time `json:"createdAt"`
}
