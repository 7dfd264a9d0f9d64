package port

import (
	"context"

	"github.com/adminkit/rbac-service/internal/core/domain"
)

// PermissionFilter narrows and paginates permission listings.
type PermissionFilter struct {
	Name     string
	Code     string
	Resource string
	Type     domain.RecordType
	OrderBy  string
	Order    string
	Limit    int
	Offset   int
}

// PermissionRepository manages permission persistence. ListByCodes follows
// the same partial-resolution contract as RoleRepository.ListByCodes.
type PermissionRepository interface {
	Create(ctx context.Context, permission domain.Permission) error
	GetByID(ctx context.Context, id string) (*domain.Permission, error)
	GetByCode(ctx context.Context, code string) (*domain.Permission, error)
	ListByCodes(ctx context.Context, codes []string) ([]domain.Permission, error)
	Update(ctx context.Context, permission domain.Permission) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter PermissionFilter) ([]domain.Permission, error)
	Count(ctx context.Context, filter PermissionFilter) (int, error)
}
