package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/adminkit/rbac-service/internal/core/domain"
	"github.com/adminkit/rbac-service/internal/core/port"
	"github.com/adminkit/rbac-service/internal/repository"
)

const roleTable = "role"

type roleDocument struct {
	Name            string            `json:"name"`
	Code            string            `json:"code"`
	Description     *string           `json:"description,omitempty"`
	PermissionCodes []string          `json:"permission_codes,omitempty"`
	Type            domain.RecordType `json:"type"`
}

// RoleRepository implements port.RoleRepository over a JSONB document table.
type RoleRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewRoleRepository constructs a repository backed by any executor that
// satisfies pgExecutor.
func NewRoleRepository(exec pgExecutor) *RoleRepository {
	return &RoleRepository{exec: exec, builder: newBuilder()}
}

func roleToDocument(role domain.Role) roleDocument {
	return roleDocument{
		Name:            role.Name,
		Code:            role.Code,
		Description:     role.Description,
		PermissionCodes: role.PermissionCodes,
		Type:            role.Type,
	}
}

func (d roleDocument) toDomain(id string, createdAt, updatedAt time.Time) domain.Role {
	return domain.Role{
		ID:              id,
		Name:            d.Name,
		Code:            d.Code,
		Description:     d.Description,
		PermissionCodes: d.PermissionCodes,
		Type:            d.Type,
		CreatedAt:       createdAt,
		UpdatedAt:       updatedAt,
	}
}

// Create inserts a new role document; a code collision surfaces as
// repository.ErrDuplicate.
func (r *RoleRepository) Create(ctx context.Context, role domain.Role) error {
	payload, err := json.Marshal(roleToDocument(role))
	if err != nil {
		return fmt.Errorf("marshal role document: %w", err)
	}

	stmt, args, err := r.builder.Insert(roleTable).
		Columns("id", "data").
		Values(role.ID, payload).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert role sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert role: %w", repository.ErrDuplicate)
		}
		return fmt.Errorf("insert role: %w", err)
	}

	return nil
}

func (r *RoleRepository) getOne(ctx context.Context, pred any, label string) (*domain.Role, error) {
	stmt, args, err := r.builder.
		Select("id", "created_at", "updated_at", "data").
		From(roleTable).
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

	var doc roleDocument
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal %s document: %w", label, err)
	}

	role := doc.toDomain(id, createdAt, updatedAt)
	return &role, nil
}

// GetByID retrieves a role by identifier.
func (r *RoleRepository) GetByID(ctx context.Context, id string) (*domain.Role, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id}, "role")
}

// GetByCode retrieves a role by exact code.
func (r *RoleRepository) GetByCode(ctx context.Context, code string) (*domain.Role, error) {
	return r.getOne(ctx, squirrel.Eq{"data->>'code'": code}, "role by code")
}

// ListByCodes returns the roles whose codes are present in storage. Codes
// without a backing role are skipped: references may be stale by design.
func (r *RoleRepository) ListByCodes(ctx context.Context, codes []string) ([]domain.Role, error) {
	if len(codes) == 0 {
		return []domain.Role{}, nil
	}

	stmt, args, err := r.builder.
		Select("id", "created_at", "updated_at", "data").
		From(roleTable).
		Where(squirrel.Expr("data->>'code' = ANY(?)", codes)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select roles by codes sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query roles by codes: %w", err)
	}
	defer rows.Close()

	return scanRoles(rows)
}

// Update replaces the role's attribute bag.
func (r *RoleRepository) Update(ctx context.Context, role domain.Role) error {
	payload, err := json.Marshal(roleToDocument(role))
	if err != nil {
		return fmt.Errorf("marshal role document: %w", err)
	}

	stmt, args, err := r.builder.Update(roleTable).
		Set("data", payload).
		Where(squirrel.Eq{"id": role.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update role sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("update role: %w", repository.ErrDuplicate)
		}
		return fmt.Errorf("update role: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Delete removes a role by id. Users referencing the role's code keep their
// dangling reference; resolution tolerates it.
func (r *RoleRepository) Delete(ctx context.Context, id string) error {
	stmt, args, err := r.builder.Delete(roleTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete role sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete role: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func (r *RoleRepository) applyFilter(query squirrel.SelectBuilder, filter port.RoleFilter) squirrel.SelectBuilder {
	if filter.Name != "" {
		query = query.Where(squirrel.Expr("data->>'name' ILIKE ?", "%"+filter.Name+"%"))
	}
	if filter.Code != "" {
		query = query.Where(squirrel.Expr("data->>'code' ILIKE ?", "%"+filter.Code+"%"))
	}
	if filter.Type != "" {
		query = query.Where(squirrel.Eq{"data->>'type'": string(filter.Type)})
	}
	return query
}

// List returns roles matching the filter.
func (r *RoleRepository) List(ctx context.Context, filter port.RoleFilter) ([]domain.Role, error) {
	query := r.builder.
		Select("id", "created_at", "updated_at", "data").
		From(roleTable).
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
		return nil, fmt.Errorf("build list roles sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query roles: %w", err)
	}
	defer rows.Close()

	return scanRoles(rows)
}

// Count returns the total number of roles matching the filter.
func (r *RoleRepository) Count(ctx context.Context, filter port.RoleFilter) (int, error) {
	query := r.builder.Select("COUNT(*)").From(roleTable)
	query = r.applyFilter(query, filter)

	stmt, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count roles sql: %w", err)
	}

	var count int64
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("scan roles count: %w", err)
	}

	return int(count), nil
}

func scanRoles(rows pgx.Rows) ([]domain.Role, error) {
	roles := make([]domain.Role, 0)
	for rows.Next() {
		var (
			id                   string
			createdAt, updatedAt time.Time
			payload              []byte
		)
		if err := rows.Scan(&id, &createdAt, &updatedAt, &payload); err != nil {
			return nil, fmt.Errorf("scan role: %w", err)
		}

		var doc roleDocument
		if err := json.Unmarshal(payload, &doc); err != nil {
			return nil, fmt.Errorf("unmarshal role document: %w", err)
		}

		roles = append(roles, doc.toDomain(id, createdAt, updatedAt))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate roles: %w", err)
	}

	return roles, nil
}

var _ port.RoleRepository = (*RoleRepository)(nil)
