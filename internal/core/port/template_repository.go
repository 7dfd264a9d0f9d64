package port

import (
	"context"

	"github.com/adminkit/rbac-service/internal/core/domain"
)

// TemplateFilter narrows and paginates template listings.
type TemplateFilter struct {
	Name    string
	OrderBy string
	Order   string
	Limit   int
	Offset  int
}

// TemplateRepository manages template persistence.
type TemplateRepository interface {
	Create(ctx context.Context, template domain.Template) error
	GetByID(ctx context.Context, id string) (*domain.Template, error)
	Update(ctx context.Context, template domain.Template) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter TemplateFilter) ([]domain.Template, error)
	Count(ctx context.Context, filter TemplateFilter) (int, error)
}
