package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	customErrors "github.com/Miraines/MoonyAndStarry/commission-service/internal/domain/auth/errors"
	"github.com/Miraines/MoonyAndStarry/commission-service/internal/domain/auth/model"
	"github.com/Miraines/MoonyAndStarry/commission-service/internal/domain/auth/repo"
)

const activeUser = "deleted_at IS NULL AND active = ?"

type PostgresUserRepo struct {
	db *gorm.DB
}

// NewPostgresUserRepo expects db opened with TranslateError so unique
// violations surface as gorm.ErrDuplicatedKey.
func NewPostgresUserRepo(db *gorm.DB) *PostgresUserRepo {
	return &PostgresUserRepo{db: db}
}

var _ repo.UserRepo = (*PostgresUserRepo)(nil)

func (p *PostgresUserRepo) FindActiveUserByEmail(ctx context.Context, email string) (model.User, error) {
	var u model.User
	res := p.db.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		Where(activeUser, true).
		First(&u)
	return u, notFoundOr(res.Error, "FindActiveUserByEmail")
}

func (p *PostgresUserRepo) FindActiveUserByID(ctx context.Context, id int64) (model.User, error) {
	var u model.User
	res := p.db.WithContext(ctx).Where("id = ?", id).Where(activeUser, true).First(&u)
	return u, notFoundOr(res.Error, "FindActiveUserByID")
}

func (p *PostgresUserRepo) FindUserByEmail(ctx context.Context, email string, includeDeleted bool) (model.User, error) {
	var u model.User
	q := p.db.WithContext(ctx).Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email)))
	if !includeDeleted {
		q = q.Where("deleted_at IS NULL")
	}
	res := q.First(&u)
	return u, notFoundOr(res.Error, "FindUserByEmail")
}

func (p *PostgresUserRepo) CreateUser(ctx context.Context, user model.User) (int64, error) {
	res := p.db.WithContext(ctx).Create(&user)
	if err := res.Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return 0, customErrors.ErrAlreadyExists
		}
		return 0, customErrors.WrapInternal(err, "CreateUser")
	}
	return user.ID, nil
}

// UpdateUserStatus reports whether a live row with that id existed.
func (p *PostgresUserRepo) UpdateUserStatus(ctx context.Context, id int64, active bool) (bool, error) {
	res := p.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ? AND deleted_at IS NULL", id).
		Updates(map[string]any{"active": active, "updated_at": time.Now()})
	if err := res.Error; err != nil {
		return false, customErrors.WrapInternal(err, "UpdateUserStatus")
	}
	return res.RowsAffected > 0, nil
}

func (p *PostgresUserRepo) UpdatePassword(ctx context.Context, id int64, hash string) error {
	res := p.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Updates(map[string]any{"password": hash, "updated_at": time.Now()})
	if err := res.Error; err != nil {
		return customErrors.WrapInternal(err, "UpdatePassword")
	}
	if res.RowsAffected == 0 {
		return customErrors.ErrNotFound
	}
	return nil
}

// EmailExists also counts soft-deleted rows: their addresses stay reserved
// by the unique index.
func (p *PostgresUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	var n int64
	res := p.db.WithContext(ctx).Model(&model.User{}).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		Count(&n)
	if err := res.Error; err != nil {
		return false, customErrors.WrapInternal(err, "EmailExists")
	}
	return n > 0, nil
}

func (p *PostgresUserRepo) GetPersonalByID(ctx context.Context, cedula string) (model.Personal, error) {
	var rec model.Personal
	res := p.db.WithContext(ctx).Where("cedula = ?", cedula).First(&rec)
	return rec, notFoundOr(res.Error, "GetPersonalByID")
}

func (p *PostgresUserRepo) DeleteUser(ctx context.Context, id, deletedBy int64) (bool, error) {
	now := time.Now()
	res := p.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ? AND deleted_at IS NULL", id).
		Updates(map[string]any{
			"deleted_at": now,
			"deleted_by": deletedBy,
			"active":     false,
			"updated_at": now,
		})
	if err := res.Error; err != nil {
		return false, customErrors.WrapInternal(err, "DeleteUser")
	}
	return res.RowsAffected > 0, nil
}

func (p *PostgresUserRepo) RestoreUser(ctx context.Context, id int64) (bool, error) {
	res := p.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ? AND deleted_at IS NOT NULL", id).
		Updates(map[string]any{
			"deleted_at": nil,
			"deleted_by": nil,
			"active":     true,
			"updated_at": time.Now(),
		})
	if err := res.Error; err != nil {
		return false, customErrors.WrapInternal(err, "RestoreUser")
	}
	return res.RowsAffected > 0, nil
}

func (p *PostgresUserRepo) Ping(ctx context.Context) error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (p *PostgresUserRepo) Transaction(ctx context.Context, fn func(tx repo.UserRepo) error) error {
	return p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresUserRepo{db: tx})
	})
}

func notFoundOr(err error, op string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return customErrors.ErrNotFound
	default:
		return customErrors.WrapInternal(err, op)
	}
}
