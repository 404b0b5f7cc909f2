package postgres

import (
	"context"
	"fmt"

	"github.com/oksasatya/user-management/internal/domain/entity"
	"github.com/oksasatya/user-management/internal/domain/repository"
)

type RoleRepository struct {
	db DB
}

func NewRoleRepository(db DB) *RoleRepository {
	return &RoleRepository{db: db}
}

func (r *RoleRepository) FindAll(ctx context.Context) ([]entity.Role, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, description, created_at, updated_at
		FROM roles
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	return collectRoles(rows)
}

func (r *RoleRepository) FindByIDs(ctx context.Context, ids []int64) ([]entity.Role, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, description, created_at, updated_at
		FROM roles
		WHERE id = ANY($1)
		ORDER BY id
	`, ids)
	if err != nil {
		return nil, err
	}
	return collectRoles(rows)
}

// Ensure inserts roles that are missing by name. Existing rows keep their
// description.
func (r *RoleRepository) Ensure(ctx context.Context, roles []entity.Role) error {
	for _, role := range roles {
		if _, err := r.db.Exec(ctx, `
			INSERT INTO roles (name, description) VALUES ($1, $2)
			ON CONFLICT (name) DO NOTHING
		`, role.Name, role.Description); err != nil {
			return fmt.Errorf("ensure role %s: %w", role.Name, err)
		}
	}
	return nil
}

var _ repository.RoleRepository = (*RoleRepository)(nil)
