package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/Miraines/MoonyAndStarry/commission-service/internal/domain/auth/model"
	"github.com/Miraines/MoonyAndStarry/commission-service/internal/domain/auth/repo"
)

type PostgresRoleRepo struct {
	db *gorm.DB
}

func NewPostgresRoleRepo(db *gorm.DB) *PostgresRoleRepo {
	return &PostgresRoleRepo{db: db}
}

var _ repo.RoleRepo = (*PostgresRoleRepo)(nil)

func (p *PostgresRoleRepo) GetRoleByID(ctx context.Context, id int64, includeDeleted bool) (model.Role, error) {
	var r model.Role
	q := p.db.WithContext(ctx).Where("id = ?", id)
	if !includeDeleted {
		q = q.Where("deleted_at IS NULL")
	}
	res := q.First(&r)
	return r, notFoundOr(res.Error, "GetRoleByID")
}
