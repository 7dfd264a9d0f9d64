package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/adminkit/rbac-service/internal/core/domain"
	"github.com/adminkit/rbac-service/internal/core/port"
	"github.com/adminkit/rbac-service/internal/repository"
)

// PermissionResolver computes the effective permission set for a user at
// authorization time. Resolution is stateless and reads fresh data on every
// call; repeated calls with unchanged data yield equal sets.
type PermissionResolver struct {
	users port.UserRepository
	roles port.RoleRepository
}

// NewPermissionResolver constructs a PermissionResolver.
func NewPermissionResolver(users port.UserRepository, roles port.RoleRepository) *PermissionResolver {
	return &PermissionResolver{users: users, roles: roles}
}

// Resolve maps a user id to its effective permission set.
//
// A super admin assignment short-circuits to the all-permissions sentinel
// without touching role storage. Role codes that no longer resolve to a role
// are skipped silently; they widen nothing.
func (r *PermissionResolver) Resolve(ctx context.Context, userID string) (domain.PermissionSet, error) {
	user, err := r.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.PermissionSet{}, ErrUserNotFound
		}
		return domain.PermissionSet{}, fmt.Errorf("lookup user: %w", err)
	}

	if len(user.RoleCodes) == 0 {
		return domain.PermissionSet{}, nil
	}

	if user.HasRole(domain.RoleSuperAdmin) {
		return domain.AllPermissions(), nil
	}

	roles, err := r.roles.ListByCodes(ctx, user.RoleCodes)
	if err != nil {
		return domain.PermissionSet{}, fmt.Errorf("resolve roles: %w", err)
	}

	set := domain.PermissionSet{}
	for _, role := range roles {
		set.Add(role.PermissionCodes...)
	}

	return set, nil
}
