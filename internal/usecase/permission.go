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
	// ErrPermissionNotFound indicates the referenced permission does not exist.
	ErrPermissionNotFound = errors.New("permission not found")
	// ErrPermissionCodeTaken indicates another permission already holds the
	// code.
	ErrPermissionCodeTaken = errors.New("permission code already exists")
	// ErrSystemPermission indicates a seeded system permission cannot be
	// modified or deleted.
	ErrSystemPermission = errors.New("system permission is read-only")
)

// CreatePermissionInput captures the payload for creating a permission.
// Created permissions are always custom; the system type is reserved for
// seeding.
type CreatePermissionInput struct {
	Name        string
	Code        string
	Description *string
	Resource    *string
}

// UpdatePermissionInput is a partial update: nil fields keep their stored
// value.
type UpdatePermissionInput struct {
	Name        *string
	Code        *string
	Description *string
	Resource    *string
}

// ListPermissionsInput narrows and paginates permission listings.
type ListPermissionsInput struct {
	Name     string
	Code     string
	Resource string
	Type     domain.RecordType
	OrderBy  string
	Order    string
	Page     int
	PageSize int
}

// PermissionService manages permission records.
type PermissionService struct {
	permissions port.PermissionRepository
}

// NewPermissionService constructs a PermissionService.
func NewPermissionService(permissions port.PermissionRepository) *PermissionService {
	return &PermissionService{permissions: permissions}
}

// Create provisions a new custom permission.
func (s *PermissionService) Create(ctx context.Context, input CreatePermissionInput) (*domain.Permission, error) {
	name := strings.TrimSpace(input.Name)
	code := strings.TrimSpace(input.Code)
	if name == "" {
		return nil, fmt.Errorf("permission name is required")
	}
	if code == "" {
		return nil, fmt.Errorf("permission code is required")
	}

	if _, err := s.permissions.GetByCode(ctx, code); err == nil {
		return nil, ErrPermissionCodeTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("lookup permission by code: %w", err)
	}

	permission := domain.Permission{
		ID:          uuid.NewString(),
		Name:        name,
		Code:        code,
		Description: input.Description,
		Resource:    input.Resource,
		Type:        domain.RecordTypeCustom,
	}

	if err := s.permissions.Create(ctx, permission); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrPermissionCodeTaken
		}
		return nil, fmt.Errorf("create permission: %w", err)
	}

	return &permission, nil
}

// Get loads a single permission by id.
func (s *PermissionService) Get(ctx context.Context, id string) (*domain.Permission, error) {
	permission, err := s.permissions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPermissionNotFound
		}
		return nil, fmt.Errorf("lookup permission: %w", err)
	}
	return permission, nil
}

// Update merges the supplied fields into the stored record. The system guard
// applies before any duplicate check.
func (s *PermissionService) Update(ctx context.Context, id string, input UpdatePermissionInput) (*domain.Permission, error) {
	permission, err := s.permissions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPermissionNotFound
		}
		return nil, fmt.Errorf("lookup permission: %w", err)
	}

	if permission.IsSystem() {
		return nil, ErrSystemPermission
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, fmt.Errorf("permission name cannot be empty")
		}
		permission.Name = name
	}
	if input.Code != nil {
		code := strings.TrimSpace(*input.Code)
		if code == "" {
			return nil, fmt.Errorf("permission code cannot be empty")
		}
		if code != permission.Code {
			if _, err := s.permissions.GetByCode(ctx, code); err == nil {
				return nil, ErrPermissionCodeTaken
			} else if !errors.Is(err, repository.ErrNotFound) {
				return nil, fmt.Errorf("lookup permission by code: %w", err)
			}
			permission.Code = code
		}
	}
	if input.Description != nil {
		permission.Description = input.Description
	}
	if input.Resource != nil {
		permission.Resource = input.Resource
	}

	if err := s.permissions.Update(ctx, *permission); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrPermissionCodeTaken
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPermissionNotFound
		}
		return nil, fmt.Errorf("update permission: %w", err)
	}

	return permission, nil
}

// Delete removes a custom permission. Roles referencing the code keep their
// dangling reference; resolution tolerates it.
func (s *PermissionService) Delete(ctx context.Context, id string) error {
	permission, err := s.permissions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPermissionNotFound
		}
		return fmt.Errorf("lookup permission: %w", err)
	}

	if permission.IsSystem() {
		return ErrSystemPermission
	}

	if err := s.permissions.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPermissionNotFound
		}
		return fmt.Errorf("delete permission: %w", err)
	}

	return nil
}

// List returns a page of permissions plus the total match count.
func (s *PermissionService) List(ctx context.Context, input ListPermissionsInput) ([]domain.Permission, int, error) {
	page, pageSize := normalizePage(input.Page, input.PageSize)

	filter := port.PermissionFilter{
		Name:     input.Name,
		Code:     input.Code,
		Resource: input.Resource,
		Type:     input.Type,
		OrderBy:  input.OrderBy,
		Order:    input.Order,
		Limit:    pageSize,
		Offset:   (page - 1) * pageSize,
	}

	permissions, err := s.permissions.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list permissions: %w", err)
	}

	total, err := s.permissions.Count(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count permissions: %w", err)
	}

	return permissions, total, nil
}
