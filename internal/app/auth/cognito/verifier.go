package cognito

import (
	"github.com/golang-jwt/jwt/v5"

	customErrors "github.com/Miraines/MoonyAndStarry/commission-service/internal/domain/auth/errors"
	"github.com/Miraines/MoonyAndStarry/commission-service/internal/domain/auth/model"
	"github.com/Miraines/MoonyAndStarry/commission-service/internal/domain/auth/token"
)

type accessClaims struct {
	jwt.RegisteredClaims
	ClientID string   `json:"client_id"`
	TokenUse string   `json:"token_use"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Groups   []string `json:"cognito:groups"`
}

type verifier struct {
	keyFunc  jwt.Keyfunc
	issuer   string
	clientID string
}

func (v verifier) verify(raw string) (model.TokenPayload, error) {
	claims := &accessClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, v.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithIssuer(v.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return model.TokenPayload{}, customErrors.NewInvalidToken(err.Error())
	}
	if claims.TokenUse != token.TokenUseAccess {
		return model.TokenPayload{}, customErrors.NewInvalidToken("token use not allowed: " + claims.TokenUse)
	}
	if claims.ClientID != v.clientID {
		return model.TokenPayload{}, customErrors.NewInvalidToken("client id not allowed: " + claims.ClientID)
	}

	out := model.TokenPayload{
		Subject:   claims.Subject,
		Username:  claims.Username,
		Email:     claims.Email,
		Groups:    claims.Groups,
		TokenUse:  claims.TokenUse,
		ClientID:  claims.ClientID,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	return out, nil
}
