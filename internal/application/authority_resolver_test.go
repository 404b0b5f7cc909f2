package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/user-management/internal/domain/entity"
)

func TestResolve_MapsRoleDescriptions(t *testing.T) {
	r := NewAuthorityResolver(newFakeUserRepo(entity.User{
		ID: 1, Username: "alice", Password: "$2a$10$hash",
		Roles: []entity.Role{
			{ID: 1, Name: "ADMIN", Description: "ROLE_ADMIN"},
			{ID: 2, Name: "USER", Description: "ROLE_USER"},
		},
	}))
	p, err := r.Resolve(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(1), p.UserID)
	assert.Equal(t, "alice", p.Username)
	assert.Equal(t, "$2a$10$hash", p.Password)
	assert.ElementsMatch(t, []string{"ROLE_ADMIN", "ROLE_USER"}, p.Authorities)
	assert.True(t, p.IsAdmin())
}

func TestResolve_NoRoles(t *testing.T) {
	r := NewAuthorityResolver(newFakeUserRepo(entity.User{ID: 1, Username: "bob"}))
	p, err := r.Resolve(context.Background(), "bob")
	require.NoError(t, err)
	assert.NotNil(t, p.Authorities)
	assert.Empty(t, p.Authorities)
}

func TestResolve_DuplicateDescriptionsCollapse(t *testing.T) {
	r := NewAuthorityResolver(newFakeUserRepo(entity.User{
		ID: 1, Username: "carol",
		Roles: []entity.Role{
			{ID: 1, Name: "A", Description: "ROLE_X"},
			{ID: 2, Name: "B", Description: "ROLE_X"},
		},
	}))
	p, err := r.Resolve(context.Background(), "carol")
	require.NoError(t, err)
	assert.Equal(t, []string{"ROLE_X"}, p.Authorities)
}

func TestResolve_DescriptionUsedVerbatim(t *testing.T) {
	r := NewAuthorityResolver(newFakeUserRepo(entity.User{
		ID: 1, Username: "dave",
		Roles: []entity.Role{{ID: 1, Name: "ADMIN", Description: "admin access"}},
	}))
	p, err := r.Resolve(context.Background(), "dave")
	require.NoError(t, err)
	assert.Equal(t, []string{"admin access"}, p.Authorities)
	assert.False(t, p.IsAdmin())
}

func TestResolve_UnknownUsername(t *testing.T) {
	r := NewAuthorityResolver(newFakeUserRepo())
	for _, name := range []string{"ghost", ""} {
		_, err := r.Resolve(context.Background(), name)
		assertAppError(t, err, ErrPrincipalNotFound, "Login Username Invalid.")
	}
}

func TestResolve_EmptyUsernameStillQueries(t *testing.T) {
	r := NewAuthorityResolver(newFakeUserRepo(entity.User{ID: 5, Username: ""}))
	p, err := r.Resolve(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, int64(5), p.UserID)
}

func TestResolve_RepositoryFailureIsWrapped(t *testing.T) {
	repo := newFakeUserRepo()
	repo.err = errors.New("db down")
	_, err := NewAuthorityResolver(repo).Resolve(context.Background(), "alice")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrPrincipalNotFound)
	assert.ErrorIs(t, err, repo.err)
}
