// Package token defines the identity provider contract the auth service
// composes. Implementations live under internal/app/auth.
package token

import (
	"context"

	"github.com/Miraines/MoonyAndStarry/commission-service/internal/domain/auth/model"
	"github.com/Miraines/MoonyAndStarry/commission-service/internal/domain/result"
)

// TokenUseAccess is the token_use claim the gate accepts.
const TokenUseAccess = "access"

type Service interface {
	Register(ctx context.Context, username, email, password string, attrs map[string]string) result.Result[bool]
	Verify(ctx context.Context, token string) result.Result[model.TokenPayload]
	Login(ctx context.Context, email, password string) result.Result[model.CredentialPair]
	Logout(ctx context.Context, email string) result.Result[bool]
	Refresh(ctx context.Context, username, refreshToken string) result.Result[model.CredentialPair]
}
