package credential

import "context"

// ConfigRepo stores the GlobalConfig singleton. Get returns
// internal/errors.ErrNotFound when no record has been written yet.
type ConfigRepo interface {
	Get(ctx context.Context) (*GlobalConfig, error)
	Upsert(ctx context.Context, cfg *GlobalConfig) error
}

// Repo stores active per-user credentials. At most one record exists per user.
// Delete is idempotent: deleting an absent record is a no-op.
type Repo interface {
	GetByUserID(ctx context.Context, userID string) (*Credential, error)
	Upsert(ctx context.Context, cred *Credential) error
	Delete(ctx context.Context, userID string) error
}

// PendingRepo stores unconfirmed enrollments, same contract as Repo.
type PendingRepo interface {
	GetByUserID(ctx context.Context, userID string) (*PendingEnrollment, error)
	Upsert(ctx context.Context, pending *PendingEnrollment) error
	Delete(ctx context.Context, userID string) error
}

// Repos bundles the three credential stores handed to the services.
type Repos struct {
	Config      ConfigRepo
	Credentials Repo
	Pending     PendingRepo
}
