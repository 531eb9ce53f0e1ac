package repo

import (
	"context"

	"github.com/Miraines/MoonyAndStarry/commission-service/internal/domain/auth/model"
)

// UserRepo is the data-access contract for tbl_users and the personal
// records users are linked to. Active lookups skip soft-deleted and blocked rows.
type UserRepo interface {
	FindActiveUserByEmail(ctx context.Context, email string) (model.User, error)

	FindActiveUserByID(ctx context.Context, id int64) (model.User, error)

	// FindUserByEmail also returns blocked rows, and soft-deleted ones when
	// includeDeleted is set.
	FindUserByEmail(ctx context.Context, email string, includeDeleted bool) (model.User, error)

	CreateUser(ctx context.Context, u model.User) (int64, error)

	UpdateUserStatus(ctx context.Context, id int64, active bool) (bool, error)

	UpdatePassword(ctx context.Context, id int64, hash string) error

	EmailExists(ctx context.Context, email string) (bool, error)

	GetPersonalByID(ctx context.Context, cedula string) (model.Personal, error)

	DeleteUser(ctx context.Context, id, deletedBy int64) (bool, error)

	RestoreUser(ctx context.Context, id int64) (bool, error)

	Ping(ctx context.Context) error

	// Transaction runs fn against a repo bound to one transaction. Any error
	// or panic from fn rolls it back.
	Transaction(ctx context.Context, fn func(tx UserRepo) error) error
}
