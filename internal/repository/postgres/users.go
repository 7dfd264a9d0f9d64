package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/adminkit/rbac-service/internal/core/domain"
	"github.com/adminkit/rbac-service/internal/core/port"
	"github.com/adminkit/rbac-service/internal/repository"
)

const userTable = `"user"`

// userDocument is the JSONB attribute bag persisted in the user table.
type userDocument struct {
	Username  string   `json:"username"`
	Password  string   `json:"password"`
	Email     *string  `json:"email,omitempty"`
	Nickname  *string  `json:"nickname,omitempty"`
	RoleCodes []string `json:"role_codes,omitempty"`
}

// UserRepository implements port.UserRepository over a JSONB document table.
type UserRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewUserRepository constructs a repository backed by any executor that
// satisfies pgExecutor.
func NewUserRepository(exec pgExecutor) *UserRepository {
	return &UserRepository{exec: exec, builder: newBuilder()}
}

// duplicateUserError names the field behind a unique index violation. The
// user table carries two unique indexes, so the constraint name decides
// which field the caller reports as taken.
func duplicateUserError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return repository.ErrDuplicate
	}
	switch pgErr.ConstraintName {
	case "idx_user_email":
		return repository.ErrDuplicateEmail
	case "idx_user_username":
		return repository.ErrDuplicateUsername
	default:
		return repository.ErrDuplicate
	}
}

func userToDocument(user domain.User) userDocument {
	return userDocument{
		Username:  user.Username,
		Password:  user.Password,
		Email:     user.Email,
		Nickname:  user.Nickname,
		RoleCodes: user.RoleCodes,
	}
}

func (d userDocument) toDomain(id string, createdAt, updatedAt time.Time) domain.User {
	return domain.User{
		ID:        id,
		Username:  d.Username,
		Password:  d.Password,
		Email:     d.Email,
		Nickname:  d.Nickname,
		RoleCodes: d.RoleCodes,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
}

// Create inserts a new user document. A unique index collision on username
// or email surfaces as repository.ErrDuplicate.
func (r *UserRepository) Create(ctx context.Context, user domain.User) error {
	payload, err := json.Marshal(userToDocument(user))
	if err != nil {
		return fmt.Errorf("marshal user document: %w", err)
	}

	stmt, args, err := r.builder.Insert(userTable).
		Columns("id", "data").
		Values(user.ID, payload).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert user sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert user: %w", duplicateUserError(err))
		}
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

func (r *UserRepository) getOne(ctx context.Context, pred any, label string) (*domain.User, error) {
	stmt, args, err := r.builder.
		Select("id", "created_at", "updated_at", "data").
		From(userTable).
		Where(pred).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select %s sql: %w", label, err)
	}

	var (
		id                   string
		createdAt, updatedAt time.Time
		payload              []byte
	)

	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&id, &createdAt, &updatedAt, &payload); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan %s: %w", label, err)
	}

	var doc userDocument
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal %s document: %w", label, err)
	}

	user := doc.toDomain(id, createdAt, updatedAt)
	return &user, nil
}

// GetByID retrieves a user by identifier.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id}, "user")
}

// GetByUsername retrieves a user by exact username.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.getOne(ctx, squirrel.Eq{"data->>'username'": username}, "user by username")
}

// GetByEmail retrieves a user by exact email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOne(ctx, squirrel.Eq{"data->>'email'": email}, "user by email")
}

// Update replaces the user's attribute bag. updated_at is maintained by the
// table trigger, not written here.
func (r *UserRepository) Update(ctx context.Context, user domain.User) error {
	payload, err := json.Marshal(userToDocument(user))
	if err != nil {
		return fmt.Errorf("marshal user document: %w", err)
	}

	stmt, args, err := r.builder.Update(userTable).
		Set("data", payload).
		Where(squirrel.Eq{"id": user.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update user sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("update user: %w", duplicateUserError(err))
		}
		return fmt.Errorf("update user: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Delete removes a user by id.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	stmt, args, err := r.builder.Delete(userTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete user sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func (r *UserRepository) applyFilter(query squirrel.SelectBuilder, filter port.UserFilter) squirrel.SelectBuilder {
	if filter.Username != "" {
		query = query.Where(squirrel.Expr("data->>'username' ILIKE ?", "%"+filter.Username+"%"))
	}
	return query
}

// List returns users matching the filter, newest first by default.
func (r *UserRepository) List(ctx context.Context, filter port.UserFilter) ([]domain.User, error) {
	query := r.builder.
		Select("id", "created_at", "updated_at", "data").
		From(userTable).
		OrderBy(orderClause(filter.OrderBy, filter.Order))

	query = r.applyFilter(query, filter)

	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		query = query.Offset(uint64(filter.Offset))
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list users sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	users := make([]domain.User, 0)
	for rows.Next() {
		var (
			id                   string
			createdAt, updatedAt time.Time
			payload              []byte
		)
		if err := rows.Scan(&id, &createdAt, &updatedAt, &payload); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}

		var doc userDocument
		if err := json.Unmarshal(payload, &doc); err != nil {
			return nil, fmt.Errorf("unmarshal user document: %w", err)
		}

		users = append(users, doc.toDomain(id, createdAt, updatedAt))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}

	return users, nil
}

// Count returns the total number of users matching the filter.
func (r *UserRepository) Count(ctx context.Context, filter port.UserFilter) (int, error) {
	query := r.builder.Select("COUNT(*)").From(userTable)
	query = r.applyFilter(query, filter)

	stmt, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count users sql: %w", err)
	}

	var count int64
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("scan users count: %w", err)
	}

	return int(count), nil
}

var _ port.UserRepository = (*UserRepository)(nil)
