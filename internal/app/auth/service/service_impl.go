package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Miraines/MoonyAndStarry/commission-service/internal/adapters/transport/http/dto"
	customErrors "github.com/Miraines/MoonyAndStarry/commission-service/internal/domain/auth/errors"
	"github.com/Miraines/MoonyAndStarry/commission-service/internal/domain/auth/model"
	"github.com/Miraines/MoonyAndStarry/commission-service/internal/domain/auth/repo"
	"github.com/Miraines/MoonyAndStarry/commission-service/internal/domain/auth/token"
	"github.com/Miraines/MoonyAndStarry/commission-service/internal/domain/result"
	"github.com/Miraines/MoonyAndStarry/commission-service/internal/infra/log"
)

type authService struct {
	userRepo  repo.UserRepo
	roleRepo  repo.RoleRepo
	tokenRepo repo.TokenRepo
	tokens    token.Service
	v         *validator.Validate
	logger    *zap.Logger
}

// Service never panics across its boundary: every outcome, expected or
// not, comes back as a Result.
type Service interface {
	Login(context.Context, dto.LoginDTO) result.Result[model.Tokens]
	Logout(context.Context, model.Principal) result.Result[bool]
	Register(context.Context, dto.RegisterDTO) result.Result[bool]
	Verify(ctx context.Context, access string) result.Result[bool]
	VerifyPrincipal(ctx context.Context, access string) result.Result[model.Principal]
	Refresh(context.Context, dto.RefreshDTO) result.Result[model.Tokens]
	BlockUser(ctx context.Context, targetID, adminID int64) result.Result[bool]
	UnblockUser(ctx context.Context, targetID, adminID int64) result.Result[bool]
	DeleteUser(ctx context.Context, targetID, adminID int64) result.Result[bool]
	RestoreUser(ctx context.Context, targetID, adminID int64) result.Result[bool]
	ResolveUser(context.Context, model.Principal) result.Result[model.User]
	Profile(context.Context, model.Principal) result.Result[model.Profile]
}

// New wires the service. tr may be nil, which disables token revocation.
func New(
	ur repo.UserRepo,
	rr repo.RoleRepo,
	tr repo.TokenRepo,
	tokens token.Service,
	v *validator.Validate,
	logger *zap.Logger,
) Service {
	return &authService{
		userRepo: ur, roleRepo: rr, tokenRepo: tr, tokens: tokens, v: v, logger: logger,
	}
}

func (a *authService) Login(ctx context.Context, in dto.LoginDTO) (res result.Result[model.Tokens]) {
	defer recoverInto(a.logger, &res, "Login")

	if err := a.v.Struct(in); err != nil {
		return result.Fail[model.Tokens](customErrors.NewInvalidArgument(err.Error()))
	}
	out := a.tokens.Login(ctx, in.Email, in.Password)
	if !out.HasValue() {
		return result.Fail[model.Tokens](out.Err())
	}
	if err := a.ensureCanSignIn(ctx, in.Email); err != nil {
		return result.Fail[model.Tokens](err)
	}
	return result.Map(out, toTokens)
}

func (a *authService) Logout(ctx context.Context, p model.Principal) (res result.Result[bool]) {
	defer recoverInto(a.logger, &res, "Logout")

	if out := a.tokens.Logout(ctx, p.Email); !out.HasValue() {
		return out
	}
	if a.tokenRepo != nil && p.TokenID != "" {
		if err := a.tokenRepo.RevokeAccess(ctx, p.TokenID, p.ExpiresAt); err != nil {
			return result.Fail[bool](customErrors.WrapInternal(err, "RevokeAccess"))
		}
	}
	return result.Ok(true)
}

// Register provisions an identity for an existing personal record. The
// account username is the email, so access tokens carry it.
func (a *authService) Register(ctx context.Context, in dto.RegisterDTO) (res result.Result[bool]) {
	defer recoverInto(a.logger, &res, "Register")

	if err := a.v.Struct(in); err != nil {
		return result.Fail[bool](customErrors.NewInvalidArgument(err.Error()))
	}

	personal, err := a.userRepo.GetPersonalByID(ctx, in.ID)
	switch {
	case customErrors.IsNotFound(err):
		return result.Fail[bool](customErrors.NewNotFound("personal record " + in.ID))
	case err != nil:
		return result.Fail[bool](customErrors.WrapInternal(err, "GetPersonalByID"))
	}

	a.logger.Info("register", log.Email(in.Email), zap.String("cedula", personal.Cedula))

	attrs := map[string]string{
		"name":     firstName(personal.Nombre),
		"nickname": personal.Cedula,
	}
	return a.tokens.Register(ctx, in.Email, in.Email, in.Password, attrs)
}

func (a *authService) Verify(ctx context.Context, access string) result.Result[bool] {
	return result.Map(a.VerifyPrincipal(ctx, access), func(model.Principal) bool { return true })
}

// VerifyPrincipal checks the token with the provider and, when a denylist is
// configured, rejects revoked token ids.
func (a *authService) VerifyPrincipal(ctx context.Context, access string) (res result.Result[model.Principal]) {
	defer recoverInto(a.logger, &res, "VerifyPrincipal")

	if access == "" {
		return result.Fail[model.Principal](customErrors.ErrNoToken)
	}
	payload, err := a.tokens.Verify(ctx, access).Unwrap()
	if err != nil {
		return result.Fail[model.Principal](err)
	}
	if payload.TokenUse != token.TokenUseAccess {
		return result.Fail[model.Principal](customErrors.NewInvalidToken("token use not allowed: " + payload.TokenUse))
	}

	p := model.PrincipalFromPayload(payload)
	if a.tokenRepo != nil && p.TokenID != "" {
		revoked, err := a.tokenRepo.IsAccessRevoked(ctx, p.TokenID)
		if err != nil {
			return result.Fail[model.Principal](customErrors.WrapInternal(err, "IsAccessRevoked"))
		}
		if revoked {
			return result.Fail[model.Principal](customErrors.NewInvalidToken("token has been revoked"))
		}
	}
	return result.Ok(p)
}

func (a *authService) Refresh(ctx context.Context, in dto.RefreshDTO) (res result.Result[model.Tokens]) {
	defer recoverInto(a.logger, &res, "Refresh")

	if in.RefreshToken == "" {
		return result.Fail[model.Tokens](customErrors.ErrNoToken)
	}
	if err := a.v.Struct(in); err != nil {
		return result.Fail[model.Tokens](customErrors.NewInvalidArgument(err.Error()))
	}
	out := a.tokens.Refresh(ctx, in.Email, in.RefreshToken)
	if !out.HasValue() {
		return result.Fail[model.Tokens](out.Err())
	}
	if err := a.ensureCanSignIn(ctx, in.Email); err != nil {
		return result.Fail[model.Tokens](err)
	}
	return result.Map(out, toTokens)
}

// ensureCanSignIn runs after the provider accepted the caller. The provider
// knows nothing of tbl_users, so blocked and deleted rows are refused here.
// Identities without a local row are the provider's call.
func (a *authService) ensureCanSignIn(ctx context.Context, email string) error {
	u, err := a.userRepo.FindUserByEmail(ctx, email, true)
	switch {
	case customErrors.IsNotFound(err):
		return nil
	case err != nil:
		return customErrors.WrapInternal(err, "FindUserByEmail")
	case !u.CanSignIn():
		a.logger.Info("sign-in refused for blocked user", log.Email(email), zap.Int64("user_id", u.ID))
		return customErrors.ErrUserBlocked
	}
	return nil
}

func (a *authService) BlockUser(ctx context.Context, targetID, adminID int64) result.Result[bool] {
	return a.asAdmin(ctx, "BlockUser", targetID, adminID, func(tx repo.UserRepo) (bool, error) {
		return tx.UpdateUserStatus(ctx, targetID, false)
	})
}

func (a *authService) UnblockUser(ctx context.Context, targetID, adminID int64) result.Result[bool] {
	return a.asAdmin(ctx, "UnblockUser", targetID, adminID, func(tx repo.UserRepo) (bool, error) {
		return tx.UpdateUserStatus(ctx, targetID, true)
	})
}

// DeleteUser soft-deletes the target and records the acting admin.
func (a *authService) DeleteUser(ctx context.Context, targetID, adminID int64) result.Result[bool] {
	return a.asAdmin(ctx, "DeleteUser", targetID, adminID, func(tx repo.UserRepo) (bool, error) {
		return tx.DeleteUser(ctx, targetID, adminID)
	})
}

func (a *authService) RestoreUser(ctx context.Context, targetID, adminID int64) result.Result[bool] {
	return a.asAdmin(ctx, "RestoreUser", targetID, adminID, func(tx repo.UserRepo) (bool, error) {
		return tx.RestoreUser(ctx, targetID)
	})
}

// asAdmin re-reads the acting user inside the transaction so a demoted or
// blocked admin cannot act on a stale role. change runs only when the actor
// holds the admin role.
func (a *authService) asAdmin(
	ctx context.Context,
	op string,
	targetID, adminID int64,
	change func(tx repo.UserRepo) (bool, error),
) (res result.Result[bool]) {
	defer recoverInto(a.logger, &res, op)

	if targetID <= 0 {
		return result.Fail[bool](customErrors.NewInvalidArgument("user id must be a positive integer"))
	}

	var updated bool
	err := a.userRepo.Transaction(ctx, func(tx repo.UserRepo) error {
		admin, err := tx.FindActiveUserByID(ctx, adminID)
		switch {
		case customErrors.IsNotFound(err):
			return customErrors.ErrForbidden
		case err != nil:
			return customErrors.WrapInternal(err, "FindActiveUserByID")
		}
		if !admin.IsAdmin() {
			return customErrors.ErrForbidden
		}

		updated, err = change(tx)
		if err != nil {
			return customErrors.WrapInternal(err, op)
		}
		return nil
	})
	if err != nil {
		return result.Fail[bool](err)
	}

	a.logger.Info(strings.ToLower(op),
		zap.Int64("target_id", targetID),
		zap.Int64("admin_id", adminID),
		zap.Bool("updated", updated))
	return result.Ok(updated)
}

func (a *authService) ResolveUser(ctx context.Context, p model.Principal) (res result.Result[model.User]) {
	defer recoverInto(a.logger, &res, "ResolveUser")

	if p.Email == "" {
		return result.Fail[model.User](customErrors.NewInvalidToken("token carries no user"))
	}
	u, err := a.userRepo.FindActiveUserByEmail(ctx, p.Email)
	switch {
	case customErrors.IsNotFound(err):
		return result.Failf[model.User]("%w: no active user for this account", customErrors.ErrForbidden)
	case err != nil:
		return result.Fail[model.User](customErrors.WrapInternal(err, "FindActiveUserByEmail"))
	}
	return result.Ok(u)
}

// Profile describes the caller. Identities without a local user row get
// what the token says; otherwise the role name comes from tbl_roles.
func (a *authService) Profile(ctx context.Context, p model.Principal) (res result.Result[model.Profile]) {
	defer recoverInto(a.logger, &res, "Profile")

	out := model.Profile{SubjectID: p.SubjectID, Email: p.Email, Role: p.Role}

	u, err := a.userRepo.FindActiveUserByEmail(ctx, p.Email)
	switch {
	case customErrors.IsNotFound(err):
		return result.Ok(out)
	case err != nil:
		return result.Fail[model.Profile](customErrors.WrapInternal(err, "FindActiveUserByEmail"))
	}
	out.UserID = u.ID
	out.Name = u.Name

	role, err := a.roleRepo.GetRoleByID(ctx, u.RoleID, false)
	switch {
	case customErrors.IsNotFound(err):
	case err != nil:
		return result.Fail[model.Profile](customErrors.WrapInternal(err, "GetRoleByID"))
	default:
		out.Role = role.Name
		out.IsAdmin = role.IsAdmin
	}
	return result.Ok(out)
}

// recoverInto turns a panic in a service method into an internal failure.
func recoverInto[T any](logger *zap.Logger, res *result.Result[T], op string) {
	r := recover()
	if r == nil {
		return
	}
	logger.Error("panic in auth service", zap.String("op", op), zap.Any("panic", r), zap.Stack("stack"))
	*res = result.Fail[T](customErrors.WrapInternal(fmt.Errorf("panic: %v", r), op))
}

func toTokens(p model.CredentialPair) model.Tokens {
	return model.Tokens{ID: p.IDToken, Access: p.AccessToken, Refresh: p.RefreshToken, TTL: p.ExpiresIn}
}

func firstName(full string) string {
	if parts := strings.Fields(full); len(parts) > 0 {
		return parts[0]
	}
	return full
}
