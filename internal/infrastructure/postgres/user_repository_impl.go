package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/user-management/internal/domain/entity"
	"github.com/oksasatya/user-management/internal/domain/repository"
)

const userColumns = `id, username, password, email, first_name, last_name, created_at, updated_at`

type UserRepository struct {
	db DB
}

func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{db: db}
}

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	if err := row.Scan(&u.ID, &u.Username, &u.Password, &u.Email, &u.FirstName, &u.LastName,
		&u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE username = $1
	`, username))
	if err != nil {
		return nil, err
	}
	if u.Roles, err = loadRoles(ctx, r.db, u.ID); err != nil {
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*entity.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1
	`, id))
	if err != nil {
		return nil, err
	}
	if u.Roles, err = loadRoles(ctx, r.db, u.ID); err != nil {
		return nil, err
	}
	return u, nil
}

// FindAll returns users ordered by id with their roles.
func (r *UserRepository) FindAll(ctx context.Context) ([]entity.User, error) {
	rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	users := []entity.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		users = append(users, *u)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].Roles, err = loadRoles(ctx, r.db, users[i].ID); err != nil {
			return nil, err
		}
	}
	return users, nil
}

// Save inserts or updates the user row and replaces its role links in one
// transaction.
func (r *UserRepository) Save(ctx context.Context, u *entity.User) (*entity.User, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if u.ID == 0 {
		err = tx.QueryRow(ctx, `
			INSERT INTO users (username, password, email, first_name, last_name)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, created_at, updated_at
		`, u.Username, u.Password, u.Email, u.FirstName, u.LastName).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	} else {
		err = tx.QueryRow(ctx, `
			UPDATE users
			SET username = $1, password = $2, email = $3, first_name = $4, last_name = $5, updated_at = now()
			WHERE id = $6
			RETURNING updated_at
		`, u.Username, u.Password, u.Email, u.FirstName, u.LastName, u.ID).Scan(&u.UpdatedAt)
	}
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("write user: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM user_roles WHERE user_id = $1`, u.ID); err != nil {
		return nil, fmt.Errorf("clear roles: %w", err)
	}
	for _, role := range u.Roles {
		if _, err := tx.Exec(ctx, `
			INSERT INTO user_roles (user_id, role_id) VALUES ($1, $2)
			ON CONFLICT (user_id, role_id) DO NOTHING
		`, u.ID, role.ID); err != nil {
			return nil, fmt.Errorf("link role %d: %w", role.ID, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return u, nil
}

// Delete removes the user; user_roles rows go with it via ON DELETE CASCADE.
func (r *UserRepository) Delete(ctx context.Context, u *entity.User) error {
	res, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, u.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func loadRoles(ctx context.Context, q querier, userID int64) ([]entity.Role, error) {
	rows, err := q.Query(ctx, `
		SELECT r.id, r.name, r.description, r.created_at, r.updated_at
		FROM roles r
		JOIN user_roles ur ON ur.role_id = r.id
		WHERE ur.user_id = $1
		ORDER BY r.id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("load roles: %w", err)
	}
	return collectRoles(rows)
}

func collectRoles(rows pgx.Rows) ([]entity.Role, error) {
	defer rows.Close()
	roles := []entity.Role{}
	for rows.Next() {
		var role entity.Role
		if err := rows.Scan(&role.ID, &role.Name, &role.Description, &role.CreatedAt, &role.UpdatedAt); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

var _ repository.UserRepository = (*UserRepository)(nil)
