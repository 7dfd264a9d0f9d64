package port

import (
	"context"

	"github.com/adminkit/rbac-service/internal/core/domain"
)

// UserFilter narrows and paginates user listings.
type UserFilter struct {
	Username string
	OrderBy  string
	Order    string
	Limit    int
	Offset   int
}

// UserRepository exposes persistence behaviour for users.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user domain.User) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter UserFilter) ([]domain.User, error)
	Count(ctx context.Context, filter UserFilter) (int, error)
}
