package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/user-management/internal/domain/entity"
	"github.com/oksasatya/user-management/internal/domain/repository"
)

var (
	userCols = []string{"id", "username", "password", "email", "first_name", "last_name", "created_at", "updated_at"}
	roleCols = []string{"id", "name", "description", "created_at", "updated_at"}
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func TestUserRepository_FindByUsername(t *testing.T) {
	mock := newMock(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT .* FROM users\s+WHERE username = \$1`).
		WithArgs("alice").
		WillReturnRows(pgxmock.NewRows(userCols).
			AddRow(int64(1), "alice", "hash", "a@example.com", "Alice", "A", now, now))
	mock.ExpectQuery(`FROM roles r\s+JOIN user_roles ur`).
		WithArgs(int64(1)).
		WillReturnRows(pgxmock.NewRows(roleCols).
			AddRow(int64(1), "ADMIN", "ROLE_ADMIN", now, now).
			AddRow(int64(2), "USER", "ROLE_USER", now, now))

	u, err := NewUserRepository(mock).FindByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)
	assert.Equal(t, "hash", u.Password)
	require.Len(t, u.Roles, 2)
	assert.Equal(t, "ROLE_USER", u.Roles[1].Description)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByUsername_NotFound(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`SELECT .* FROM users\s+WHERE username = \$1`).
		WithArgs("ghost").
		WillReturnError(pgx.ErrNoRows)

	_, err := NewUserRepository(mock).FindByUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByID_DBError(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`SELECT .* FROM users\s+WHERE id = \$1`).
		WithArgs(int64(4)).
		WillReturnError(errors.New("db down"))

	_, err := NewUserRepository(mock).FindByID(context.Background(), 4)
	require.Error(t, err)
	assert.NotErrorIs(t, err, repository.ErrNotFound)
}

func TestUserRepository_SaveInsert(t *testing.T) {
	mock := newMock(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("bob", "enc", "b@example.com", "Bob", "B").
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(10), now, now))
	mock.ExpectExec(`DELETE FROM user_roles WHERE user_id = \$1`).
		WithArgs(int64(10)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectExec(`INSERT INTO user_roles`).
		WithArgs(int64(10), int64(2)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	u := &entity.User{Username: "bob", Password: "enc", Email: "b@example.com", FirstName: "Bob", LastName: "B",
		Roles: []entity.Role{{ID: 2, Name: "USER", Description: "ROLE_USER"}}}
	saved, err := NewUserRepository(mock).Save(context.Background(), u)
	require.NoError(t, err)
	assert.Equal(t, int64(10), saved.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_SaveUpdateMissingRow(t *testing.T) {
	mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`UPDATE users`).
		WithArgs("bob", "enc", "", "", "", int64(77)).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()

	_, err := NewUserRepository(mock).Save(context.Background(), &entity.User{ID: 77, Username: "bob", Password: "enc"})
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Delete(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec(`DELETE FROM users WHERE id = \$1`).
		WithArgs(int64(3)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(`DELETE FROM users WHERE id = \$1`).
		WithArgs(int64(4)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	repo := NewUserRepository(mock)
	assert.NoError(t, repo.Delete(context.Background(), &entity.User{ID: 3}))
	assert.ErrorIs(t, repo.Delete(context.Background(), &entity.User{ID: 4}), repository.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoleRepository_FindByIDs(t *testing.T) {
	mock := newMock(t)
	now := time.Now()
	mock.ExpectQuery(`FROM roles\s+WHERE id = ANY\(\$1\)`).
		WithArgs([]int64{1, 2}).
		WillReturnRows(pgxmock.NewRows(roleCols).
			AddRow(int64(1), "ADMIN", "ROLE_ADMIN", now, now).
			AddRow(int64(2), "USER", "ROLE_USER", now, now))

	roles, err := NewRoleRepository(mock).FindByIDs(context.Background(), []int64{1, 2})
	require.NoError(t, err)
	require.Len(t, roles, 2)
	assert.Equal(t, "ROLE_ADMIN", roles[0].Authority())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoleRepository_Ensure(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec(`INSERT INTO roles \(name, description\)`).
		WithArgs("ADMIN", "ROLE_ADMIN").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`INSERT INTO roles \(name, description\)`).
		WithArgs("USER", "ROLE_USER").
		WillReturnError(errors.New("boom"))

	err := NewRoleRepository(mock).Ensure(context.Background(), []entity.Role{
		{Name: "ADMIN", Description: "ROLE_ADMIN"},
		{Name: "USER", Description: "ROLE_USER"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ensure role USER")
	assert.NoError(t, mock.ExpectationsWereMet())
}
