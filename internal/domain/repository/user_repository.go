package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/user-management/internal/domain/entity"
)

// ErrNotFound is returned by repositories when no row matches a lookup.
var ErrNotFound = errors.New("not found")

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
	FindByID(ctx context.Context, id int64) (*entity.User, error)
	// Save inserts the user when ID is zero, otherwise updates it. The role
	// associations are replaced by u.Roles.
	Save(ctx context.Context, u *entity.User) (*entity.User, error)
	Delete(ctx context.Context, u *entity.User) error
	FindAll(ctx context.Context) ([]entity.User, error)
}

// RoleRepository exposes the pre-existing roles users can reference.
type RoleRepository interface {
	FindAll(ctx context.Context) ([]entity.Role, error)
	FindByIDs(ctx context.Context, ids []int64) ([]entity.Role, error)
}
