package jwt

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Miraines/MoonyAndStarry/commission-service/internal/domain/auth/model"
)

const (
	UseID      = "id"
	UseAccess  = "access"
	UseRefresh = "refresh"
)

// Claims mirror the shape of Cognito tokens so both providers produce the
// same TokenPayload.
type Claims struct {
	jwt.RegisteredClaims
	Username string   `json:"username,omitempty"`
	Email    string   `json:"email,omitempty"`
	Name     string   `json:"name,omitempty"`
	Groups   []string `json:"cognito:groups,omitempty"`
	TokenUse string   `json:"token_use"`
}

type JWTUtil interface {
	GenerateIDToken(u model.User) (token string, err error)
	GenerateAccessToken(u model.User) (token string, exp time.Time, jti string, err error)
	GenerateRefreshToken(u model.User) (token string, exp time.Time, jti string, err error)
	ValidateAccessToken(token string) (Claims, error)
	ValidateRefreshToken(token string) (Claims, error)
}
