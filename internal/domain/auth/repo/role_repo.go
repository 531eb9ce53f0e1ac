package repo

import (
	"context"

	"github.com/Miraines/MoonyAndStarry/commission-service/internal/domain/auth/model"
)

type RoleRepo interface {
	GetRoleByID(ctx context.Context, id int64, includeDeleted bool) (model.Role, error)
}
