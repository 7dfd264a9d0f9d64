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
	// ErrUsernameTaken indicates another user already holds the username.
	ErrUsernameTaken = errors.New("username already exists")
	// ErrEmailTaken indicates another user already holds the email.
	ErrEmailTaken = errors.New("email already exists")
)

// CreateUserInput captures the payload for creating a user. Password arrives
// pre-hashed and is stored verbatim.
type CreateUserInput struct {
	Username  string
	Password  string
	Email     *string
	Nickname  *string
	RoleCodes []string
}

// UpdateUserInput is a partial update: nil fields keep their stored value.
type UpdateUserInput struct {
	Username  *string
	Password  *string
	Email     *string
	Nickname  *string
	RoleCodes []string
}

// ListUsersInput narrows and paginates user listings.
type ListUsersInput struct {
	Username string
	OrderBy  string
	Order    string
	Page     int
	PageSize int
}

// UserService manages user records.
type UserService struct {
	users port.UserRepository
}

// NewUserService constructs a UserService.
func NewUserService(users port.UserRepository) *UserService {
	return &UserService{users: users}
}

// Create provisions a new user. Username and email are pre-checked for
// duplicates; the unique indexes remain the authority under concurrency and
// a constraint violation is reported as the taken error for its field.
func (s *UserService) Create(ctx context.Context, input CreateUserInput) (*domain.User, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, fmt.Errorf("username is required")
	}
	if input.Password == "" {
		return nil, fmt.Errorf("password is required")
	}

	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("lookup user by username: %w", err)
	}

	email := normalizeEmail(input.Email)
	if email != nil {
		if _, err := s.users.GetByEmail(ctx, *email); err == nil {
			return nil, ErrEmailTaken
		} else if !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("lookup user by email: %w", err)
		}
	}

	user := domain.User{
		ID:        uuid.NewString(),
		Username:  username,
		Password:  input.Password,
		Email:     email,
		Nickname:  input.Nickname,
		RoleCodes: input.RoleCodes,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, mapUserDuplicate(err, "create user")
	}

	return &user, nil
}

// Get loads a single user by id.
func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	return user, nil
}

// Update merges the supplied fields into the stored record. Fields left nil
// keep their current value, including the password.
func (s *UserService) Update(ctx context.Context, id string, input UpdateUserInput) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if input.Username != nil {
		username := strings.TrimSpace(*input.Username)
		if username == "" {
			return nil, fmt.Errorf("username cannot be empty")
		}
		if username != user.Username {
			if _, err := s.users.GetByUsername(ctx, username); err == nil {
				return nil, ErrUsernameTaken
			} else if !errors.Is(err, repository.ErrNotFound) {
				return nil, fmt.Errorf("lookup user by username: %w", err)
			}
			user.Username = username
		}
	}
	if input.Password != nil && *input.Password != "" {
		user.Password = *input.Password
	}
	if input.Email != nil {
		// An empty string clears the email; the partial unique index only
		// covers non-null values, so cleared emails never collide.
		email := normalizeEmail(input.Email)
		if email != nil && (user.Email == nil || *user.Email != *email) {
			if _, err := s.users.GetByEmail(ctx, *email); err == nil {
				return nil, ErrEmailTaken
			} else if !errors.Is(err, repository.ErrNotFound) {
				return nil, fmt.Errorf("lookup user by email: %w", err)
			}
		}
		user.Email = email
	}
	if input.Nickname != nil {
		user.Nickname = input.Nickname
	}
	if input.RoleCodes != nil {
		user.RoleCodes = input.RoleCodes
	}

	if err := s.users.Update(ctx, *user); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, mapUserDuplicate(err, "update user")
	}

	return user, nil
}

// Delete removes a user by id.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

// List returns a page of users plus the total match count.
func (s *UserService) List(ctx context.Context, input ListUsersInput) ([]domain.User, int, error) {
	page, pageSize := normalizePage(input.Page, input.PageSize)

	filter := port.UserFilter{
		Username: input.Username,
		OrderBy:  input.OrderBy,
		Order:    input.Order,
		Limit:    pageSize,
		Offset:   (page - 1) * pageSize,
	}

	users, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}

	total, err := s.users.Count(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	return users, total, nil
}

// mapUserDuplicate converts a storage-level duplicate into the taken error
// naming the conflicting field. The field-specific sentinels come from the
// constraint name; a bare duplicate defaults to the username.
func mapUserDuplicate(err error, op string) error {
	switch {
	case errors.Is(err, repository.ErrDuplicateEmail):
		return ErrEmailTaken
	case errors.Is(err, repository.ErrDuplicate):
		return ErrUsernameTaken
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

// normalizeEmail trims the input and collapses empty strings to nil so the
// stored document either carries a real address or omits the field.
func normalizeEmail(email *string) *string {
	if email == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*email)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}
