package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/oksasatya/user-management/internal/domain/entity"
	repo "github.com/oksasatya/user-management/internal/domain/repository"
)

// AuthorityResolver turns a stored user into a Principal for login.
type AuthorityResolver struct {
	Repo repo.UserRepository
}

func NewAuthorityResolver(users repo.UserRepository) *AuthorityResolver {
	return &AuthorityResolver{Repo: users}
}

// Resolve looks the username up (empty included) and maps each role to its
// description as an authority token.
func (r *AuthorityResolver) Resolve(ctx context.Context, username string) (*entity.Principal, error) {
	u, err := r.Repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, PrincipalNotFound()
		}
		return nil, fmt.Errorf("lookup principal: %w", err)
	}
	tokens := make([]string, 0, len(u.Roles))
	for _, role := range u.Roles {
		tokens = append(tokens, role.Authority())
	}
	return &entity.Principal{
		UserID:      u.ID,
		Username:    u.Username,
		Password:    u.Password,
		Authorities: entity.NewAuthoritySet(tokens...),
	}, nil
}
