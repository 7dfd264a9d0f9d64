package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	uuid "github.com/google/uuid"

	"github.com/adminkit/rbac-service/internal/core/domain"
	"github.com/adminkit/rbac-service/internal/core/port"
	"github.com/adminkit/rbac-service/internal/repository"
)

var (
	// ErrRoleNotFound indicates the referenced role does not exist.
	ErrRoleNotFound = errors.New("role not found")
	// ErrRoleCodeTaken indicates another role already holds the code.
	ErrRoleCodeTaken = errors.New("role code already exists")
	// ErrSystemRole indicates a seeded system role cannot be modified or
	// deleted.
	ErrSystemRole = errors.New("system role is read-only")
)

// CreateRoleInput captures the payload for creating a role. Created roles are
// always custom; the system type is reserved for seeding.
type CreateRoleInput struct {
	Name            string
	Code            string
	Description     *string
	PermissionCodes []string
}

// UpdateRoleInput is a partial update: nil fields keep their stored value.
type UpdateRoleInput struct {
	Name            *string
	Code            *string
	Description     *string
	PermissionCodes []string
}

// ListRolesInput narrows and paginates role listings.
type ListRolesInput struct {
	Name     string
	Code     string
	Type     domain.RecordType
	OrderBy  string
	Order    string
	Page     int
	PageSize int
}

// RoleService manages role records and their permission references.
type RoleService struct {
	roles       port.RoleRepository
	permissions port.PermissionRepository
}

// NewRoleService constructs a RoleService.
func NewRoleService(roles port.RoleRepository, permissions port.PermissionRepository) *RoleService {
	return &RoleService{roles: roles, permissions: permissions}
}

// Create provisions a new custom role. The code is pre-checked for
// duplicates; the unique index remains the authority under concurrency.
func (s *RoleService) Create(ctx context.Context, input CreateRoleInput) (*domain.Role, error) {
	name := strings.TrimSpace(input.Name)
	code := strings.TrimSpace(input.Code)
	if name == "" {
		return nil, fmt.Errorf("role name is required")
	}
	if code == "" {
		return nil, fmt.Errorf("role code is required")
	}

	if _, err := s.roles.GetByCode(ctx, code); err == nil {
		return nil, ErrRoleCodeTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("lookup role by code: %w", err)
	}

	role := domain.Role{
		ID:              uuid.NewString(),
		Name:            name,
		Code:            code,
		Description:     input.Description,
		PermissionCodes: input.PermissionCodes,
		Type:            domain.RecordTypeCustom,
	}

	if err := s.roles.Create(ctx, role); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrRoleCodeTaken
		}
		return nil, fmt.Errorf("create role: %w", err)
	}

	return &role, nil
}

// Get loads a single role by id.
func (s *RoleService) Get(ctx context.Context, id string) (*domain.Role, error) {
	role, err := s.roles.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, fmt.Errorf("lookup role: %w", err)
	}
	return role, nil
}

// Update merges the supplied fields into the stored record. The system guard
// applies before any duplicate check: a conflicting code on a system role
// still reports ErrSystemRole.
func (s *RoleService) Update(ctx context.Context, id string, input UpdateRoleInput) (*domain.Role, error) {
	role, err := s.roles.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, fmt.Errorf("lookup role: %w", err)
	}

	if role.IsSystem() {
		return nil, ErrSystemRole
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, fmt.Errorf("role name cannot be empty")
		}
		role.Name = name
	}
	if input.Code != nil {
		code := strings.TrimSpace(*input.Code)
		if code == "" {
			return nil, fmt.Errorf("role code cannot be empty")
		}
		if code != role.Code {
			if _, err := s.roles.GetByCode(ctx, code); err == nil {
				return nil, ErrRoleCodeTaken
			} else if !errors.Is(err, repository.ErrNotFound) {
				return nil, fmt.Errorf("lookup role by code: %w", err)
			}
			role.Code = code
		}
	}
	if input.Description != nil {
		role.Description = input.Description
	}
	if input.PermissionCodes != nil {
		role.PermissionCodes = input.PermissionCodes
	}

	if err := s.roles.Update(ctx, *role); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrRoleCodeTaken
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, fmt.Errorf("update role: %w", err)
	}

	return role, nil
}

// Delete removes a custom role. Users referencing the code keep their
// dangling assignment; resolution skips it.
func (s *RoleService) Delete(ctx context.Context, id string) error {
	role, err := s.roles.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRoleNotFound
		}
		return fmt.Errorf("lookup role: %w", err)
	}

	if role.IsSystem() {
		return ErrSystemRole
	}

	if err := s.roles.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRoleNotFound
		}
		return fmt.Errorf("delete role: %w", err)
	}

	return nil
}

// List returns a page of roles plus the total match count.
func (s *RoleService) List(ctx context.Context, input ListRolesInput) ([]domain.Role, int, error) {
	page, pageSize := normalizePage(input.Page, input.PageSize)

	filter := port.RoleFilter{
		Name:    input.Name,
		Code:    input.Code,
		Type:    input.Type,
		OrderBy: input.OrderBy,
		Order:   input.Order,
		Limit:   pageSize,
		Offset:  (page - 1) * pageSize,
	}

	roles, err := s.roles.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list roles: %w", err)
	}

	total, err := s.roles.Count(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count roles: %w", err)
	}

	return roles, total, nil
}

// Permissions expands a role's permission codes into full permission records.
// Codes without a backing permission are omitted from the result.
func (s *RoleService) Permissions(ctx context.Context, id string) ([]domain.Permission, error) {
	role, err := s.roles.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, fmt.Errorf("lookup role: %w", err)
	}

	permissions, err := s.permissions.ListByCodes(ctx, role.PermissionCodes)
	if err != nil {
		return nil, fmt.Errorf("list role permissions: %w", err)
	}

	return permissions, nil
}
