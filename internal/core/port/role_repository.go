package port

import (
	"context"

	"github.com/adminkit/rbac-service/internal/core/domain"
)

// RoleFilter narrows and paginates role listings.
type RoleFilter struct {
	Name    string
	Code    string
	Type    domain.RecordType
	OrderBy string
	Order   string
	Limit   int
	Offset  int
}

// RoleRepository handles role persistence.
//
// ListByCodes resolves role references and may return fewer roles than codes
// requested; dangling codes are not an error.
type RoleRepository interface {
	Create(ctx context.Context, role domain.Role) error
	GetByID(ctx context.Context, id string) (*domain.Role, error)
	GetByCode(ctx context.Context, code string) (*domain.Role, error)
	ListByCodes(ctx context.Context, codes []string) ([]domain.Role, error)
	Update(ctx context.Context, role domain.Role) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter RoleFilter) ([]domain.Role, error)
	Count(ctx context.Context, filter RoleFilter) (int, error)
}
