package auth

import (
	"context"
	"strings"

	"github.com/fieldsales/backoffice/internal/rbac"
	"github.com/fieldsales/backoffice/internal/shared"
)

// Service coordinates sign-in.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Authenticate signs in against the upstream and returns the identity to keep
// in the session together with the bearer token.
func (s *Service) Authenticate(ctx context.Context, email, password string) (shared.Identity, string, error) {
	token, user, err := s.repo.Login(ctx, strings.TrimSpace(strings.ToLower(email)), password)
	if err != nil {
		return shared.Identity{}, "", err
	}
	role := rbac.Normalize(user.Role)
	if !rbac.Allowed(role, rbac.RoleAdmin, rbac.RoleSales) {
		return shared.Identity{}, "", ErrRoleNotAllowed
	}
	name := user.Name
	if name == "" {
		name = user.Email
	}
	return shared.Identity{UserID: user.ID.String(), Name: name, Role: role}, token, nil
}
