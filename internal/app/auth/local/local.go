// Package local is a token.Service that issues its own HS256 tokens against
// tbl_users. It stands in for Cognito in development and tests.
package local

import (
	"context"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Miraines/MoonyAndStarry/commission-service/internal/app/auth/password"
	customErrors "github.com/Miraines/MoonyAndStarry/commission-service/internal/domain/auth/errors"
	authjwt "github.com/Miraines/MoonyAndStarry/commission-service/internal/domain/auth/jwt"
	"github.com/Miraines/MoonyAndStarry/commission-service/internal/domain/auth/model"
	"github.com/Miraines/MoonyAndStarry/commission-service/internal/domain/auth/repo"
	"github.com/Miraines/MoonyAndStarry/commission-service/internal/domain/auth/token"
	"github.com/Miraines/MoonyAndStarry/commission-service/internal/domain/result"
	"github.com/Miraines/MoonyAndStarry/commission-service/internal/infra/log"
)

type provider struct {
	users  repo.UserRepo
	jwt    authjwt.JWTUtil
	hasher *password.Hasher
	logger *zap.Logger
}

func New(users repo.UserRepo, jwtUtil authjwt.JWTUtil, hasher *password.Hasher, logger *zap.Logger) token.Service {
	return &provider{users: users, jwt: jwtUtil, hasher: hasher, logger: logger}
}

func (p *provider) Register(ctx context.Context, username, email, pass string, attrs map[string]string) result.Result[bool] {
	email = normalizeEmail(email)

	exists, err := p.users.EmailExists(ctx, email)
	if err != nil {
		return result.Fail[bool](customErrors.WrapInternal(err, "EmailExists"))
	}
	if exists {
		return result.Fail[bool](customErrors.ErrAlreadyExists)
	}

	hash, err := p.hasher.Hash(pass)
	if err != nil {
		return result.Fail[bool](err)
	}

	name := attrs["name"]
	if name == "" {
		name = username
	}
	if _, err := p.users.CreateUser(ctx, model.User{
		Name:     name,
		Email:    email,
		Password: hash,
		RoleID:   model.DefaultRoleID,
		Active:   true,
	}); err != nil {
		if customErrors.IsAlreadyExists(err) {
			return result.Fail[bool](customErrors.ErrAlreadyExists)
		}
		return result.Fail[bool](customErrors.WrapInternal(err, "CreateUser"))
	}
	return result.Ok(true)
}

func (p *provider) Verify(_ context.Context, raw string) result.Result[model.TokenPayload] {
	claims, err := p.jwt.ValidateAccessToken(raw)
	if err != nil {
		return result.Fail[model.TokenPayload](err)
	}
	return result.Ok(payloadFromClaims(claims))
}

func (p *provider) Login(ctx context.Context, email, pass string) result.Result[model.CredentialPair] {
	user, err := p.users.FindActiveUserByEmail(ctx, normalizeEmail(email))
	switch {
	case customErrors.IsNotFound(err):
		return result.Fail[model.CredentialPair](customErrors.ErrInvalidCredentials)
	case err != nil:
		return result.Fail[model.CredentialPair](customErrors.WrapInternal(err, "Login"))
	}

	if user.Password == "" {
		return result.Fail[model.CredentialPair](customErrors.ErrInvalidCredentials)
	}
	ok, err := p.hasher.Compare(pass, user.Password)
	if err != nil {
		return result.Fail[model.CredentialPair](err)
	}
	if !ok {
		return result.Fail[model.CredentialPair](customErrors.ErrInvalidCredentials)
	}

	if p.hasher.NeedsRehash(user.Password) {
		if hash, err := p.hasher.Hash(pass); err == nil {
			if err := p.users.UpdatePassword(ctx, user.ID, hash); err != nil {
				p.logger.Warn("password rehash failed", zap.Int64("user_id", user.ID), zap.Error(err))
			}
		}
	}

	return result.From(p.issue(user))
}

// Logout keeps no state; the caller revokes the access token id.
func (p *provider) Logout(_ context.Context, email string) result.Result[bool] {
	p.logger.Debug("local logout", log.Email(email))
	return result.Ok(true)
}

func (p *provider) Refresh(ctx context.Context, username, refreshToken string) result.Result[model.CredentialPair] {
	claims, err := p.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		return result.Fail[model.CredentialPair](err)
	}
	if username != "" && !strings.EqualFold(username, claims.Email) {
		return result.Fail[model.CredentialPair](customErrors.NewInvalidToken("refresh token was issued to another user"))
	}

	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return result.Fail[model.CredentialPair](customErrors.NewInvalidToken("malformed subject"))
	}

	user, err := p.users.FindActiveUserByID(ctx, id)
	switch {
	case customErrors.IsNotFound(err):
		return result.Fail[model.CredentialPair](customErrors.ErrUserBlocked)
	case err != nil:
		return result.Fail[model.CredentialPair](customErrors.WrapInternal(err, "Refresh"))
	}
	return result.From(p.issue(user))
}

func (p *provider) issue(user model.User) (model.CredentialPair, error) {
	idTok, err := p.jwt.GenerateIDToken(user)
	if err != nil {
		return model.CredentialPair{}, err
	}
	access, exp, _, err := p.jwt.GenerateAccessToken(user)
	if err != nil {
		return model.CredentialPair{}, err
	}
	refresh, _, _, err := p.jwt.GenerateRefreshToken(user)
	if err != nil {
		return model.CredentialPair{}, err
	}
	return model.CredentialPair{
		IDToken:      idTok,
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    time.Until(exp).Round(time.Second),
	}, nil
}

func payloadFromClaims(c authjwt.Claims) model.TokenPayload {
	out := model.TokenPayload{
		Subject:  c.Subject,
		Username: c.Username,
		Email:    c.Email,
		Groups:   c.Groups,
		TokenUse: c.TokenUse,
		TokenID:  c.ID,
	}
	if len(c.Audience) > 0 {
		out.ClientID = c.Audience[0]
	}
	if c.IssuedAt != nil {
		out.IssuedAt = c.IssuedAt.Time
	}
	if c.ExpiresAt != nil {
		out.ExpiresAt = c.ExpiresAt.Time
	}
	return out
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
