package repo

import (
	"context"
	"time"
)

// TokenRepo is a denylist of token ids. Entries expire with the token.
type TokenRepo interface {
	RevokeAccess(ctx context.Context, jti string, expiresAt time.Time) error

	IsAccessRevoked(ctx context.Context, jti string) (bool, error)

	Ping(ctx context.Context) error
}
