package jwt

import (
	"errors"
	"slices"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	customErrors "github.com/Miraines/MoonyAndStarry/commission-service/internal/domain/auth/errors"
	authjwt "github.com/Miraines/MoonyAndStarry/commission-service/internal/domain/auth/jwt"
	"github.com/Miraines/MoonyAndStarry/commission-service/internal/domain/auth/model"
	"github.com/Miraines/MoonyAndStarry/commission-service/internal/infra/config"
)

const (
	GroupAdmin = "admin"
	GroupUser  = "user"
)

type JwtUtilImpl struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	issuer        string
	audience      string
}

func NewJWTUtil(cfg *config.Config) (*JwtUtilImpl, error) {
	if cfg.JWTAccessSecret == "" || cfg.JWTRefreshSecret == "" {
		return nil, customErrors.NewInvalidArgument("jwt secrets are required")
	}
	if cfg.JWTAccessSecret == cfg.JWTRefreshSecret {
		return nil, customErrors.NewInvalidArgument("access and refresh secrets must differ")
	}
	return &JwtUtilImpl{
		accessSecret:  []byte(cfg.JWTAccessSecret),
		refreshSecret: []byte(cfg.JWTRefreshSecret),
		accessTTL:     cfg.AccessTokenTTL,
		refreshTTL:    cfg.RefreshTokenTTL,
		issuer:        cfg.Issuer,
		audience:      cfg.Audience,
	}, nil
}

func (j *JwtUtilImpl) GenerateIDToken(u model.User) (string, error) {
	claims := j.claims(u, authjwt.UseID, j.accessTTL)
	claims.Name = u.Name
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.accessSecret)
	if err != nil {
		return "", customErrors.WrapInternal(err, "sign id token")
	}
	return signed, nil
}

func (j *JwtUtilImpl) GenerateAccessToken(u model.User) (token string, exp time.Time, jti string, err error) {
	claims := j.claims(u, authjwt.UseAccess, j.accessTTL)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.accessSecret)
	if err != nil {
		return "", time.Time{}, "", customErrors.WrapInternal(err, "sign access token")
	}
	return signed, claims.ExpiresAt.Time, claims.ID, nil
}

func (j *JwtUtilImpl) GenerateRefreshToken(u model.User) (token string, exp time.Time, jti string, err error) {
	claims := j.claims(u, authjwt.UseRefresh, j.refreshTTL)
	claims.Groups = nil
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.refreshSecret)
	if err != nil {
		return "", time.Time{}, "", customErrors.WrapInternal(err, "sign refresh token")
	}
	return signed, claims.ExpiresAt.Time, claims.ID, nil
}

func (j *JwtUtilImpl) ValidateAccessToken(raw string) (authjwt.Claims, error) {
	return j.validate(raw, j.accessSecret, authjwt.UseAccess)
}

func (j *JwtUtilImpl) ValidateRefreshToken(raw string) (authjwt.Claims, error) {
	return j.validate(raw, j.refreshSecret, authjwt.UseRefresh)
}

func (j *JwtUtilImpl) claims(u model.User, use string, ttl time.Duration) *authjwt.Claims {
	now := time.Now()
	group := GroupUser
	if u.IsAdmin() {
		group = GroupAdmin
	}
	return &authjwt.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(u.ID, 10),
			Issuer:    j.issuer,
			Audience:  jwt.ClaimStrings{j.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
		Username: u.Email,
		Email:    u.Email,
		Groups:   []string{group},
		TokenUse: use,
	}
}

func (j *JwtUtilImpl) validate(raw string, secret []byte, use string) (authjwt.Claims, error) {
	token, err := jwt.ParseWithClaims(raw, &authjwt.Claims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, customErrors.ErrInvalidToken
		}
		return secret, nil
	}, jwt.WithIssuedAt(), jwt.WithLeeway(2*time.Minute))

	if err != nil {
		return authjwt.Claims{}, customErrors.NewInvalidToken(err.Error())
	}
	if !token.Valid {
		return authjwt.Claims{}, customErrors.ErrInvalidToken
	}

	claims, ok := token.Claims.(*authjwt.Claims)
	if !ok {
		return authjwt.Claims{}, customErrors.WrapInternal(
			errors.New("claims not Claims"), "validate token",
		)
	}

	if j.issuer != "" && claims.Issuer != j.issuer {
		return authjwt.Claims{}, customErrors.NewInvalidToken("issuer mismatch")
	}
	if j.audience != "" && !slices.Contains(claims.Audience, j.audience) {
		return authjwt.Claims{}, customErrors.NewInvalidToken("audience mismatch")
	}
	if claims.TokenUse != use {
		return authjwt.Claims{}, customErrors.NewInvalidToken("token_use is not " + use)
	}
	return *claims, nil
}
