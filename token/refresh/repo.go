package refresh

import (
	"context"
	"time"
)

// StoredRefreshToken is the server-side record behind an opaque refresh
// token. The client only ever sees the Token string; the user and device
// binding lives here.
type StoredRefreshToken struct {
	Token    string    `json:"token"`
	UserID   string    `json:"userId"`
	DeviceID string    `json:"deviceId"`
	Iat      time.Time `json:"iat"`
}

// Repo manages server-side storage of refresh token metadata.
type Repo interface {
	Upsert(ctx context.Context, refreshToken *StoredRefreshToken) error
	Delete(ctx context.Context, token string) error
	Get(ctx context.Context, token string) (*StoredRefreshToken, error)
	GetByUserID(ctx context.Context, userID string) (*StoredRefreshToken, error)
}
