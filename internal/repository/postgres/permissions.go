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

const permissionTable = "permission"

type permissionDocument struct {
	Name        string            `json:"name"`
	Code        string            `json:"code"`
	Description *string           `json:"description,omitempty"`
	Resource    *string           `json:"resource,omitempty"`
	Type        domain.RecordType `json:"type"`
}

// PermissionRepository implements port.PermissionRepository over a JSONB
// document table.
type PermissionRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewPermissionRepository constructs a repository backed by any executor
// that satisfies pgExecutor.
func NewPermissionRepository(exec pgExecutor) *PermissionRepository {
	return &PermissionRepository{exec: exec, builder: newBuilder()}
}

func permissionToDocument(p domain.Permission) permissionDocument {
	return permissionDocument{
		Name:        p.Name,
		Code:        p.Code,
		Description: p.Description,
		Resource:    p.Resource,
		Type:        p.Type,
	}
}

func (d permissionDocument) toDomain(id string, createdAt, updatedAt time.Time) domain.Permission {
	return domain.Permission{
		ID:          id,
		Name:        d.Name,
		Code:        d.Code,
		Description: d.Description,
		Resource:    d.Resource,
		Type:        d.Type,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}
}

// Create inserts a new permission document; a code collision surfaces as
// repository.ErrDuplicate.
func (r *PermissionRepository) Create(ctx context.Context, permission domain.Permission) error {
	payload, err := json.Marshal(permissionToDocument(permission))
	if err != nil {
		return fmt.Errorf("marshal permission document: %w", err)
	}

	stmt, args, err := r.builder.Insert(permissionTable).
		Columns("id", "data").
		Values(permission.ID, payload).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert permission sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert permission: %w", repository.ErrDuplicate)
		}
		return fmt.Errorf("insert permission: %w", err)
	}

	return nil
}

func (r *PermissionRepository) getOne(ctx context.Context, pred any, label string) (*domain.Permission, error) {
	stmt, args, err := r.builder.
		Select("id", "created_at", "updated_at", "data").
		From(permissionTable).
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

	var doc permissionDocument
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal %s document: %w", label, err)
	}

	permission := doc.toDomain(id, createdAt, updatedAt)
	return &permission, nil
}

// GetByID retrieves a permission by identifier.
func (r *PermissionRepository) GetByID(ctx context.Context, id string) (*domain.Permission, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id}, "permission")
}

// GetByCode retrieves a permission by exact code.
func (r *PermissionRepository) GetByCode(ctx context.Context, code string) (*domain.Permission, error) {
	return r.getOne(ctx, squirrel.Eq{"data->>'code'": code}, "permission by code")
}

// ListByCodes returns the permissions whose codes exist in storage; unknown
// codes are skipped.
func (r *PermissionRepository) ListByCodes(ctx context.Context, codes []string) ([]domain.Permission, error) {
	if len(codes) == 0 {
		return []domain.Permission{}, nil
	}

	stmt, args, err := r.builder.
		Select("id", "created_at", "updated_at", "data").
		From(permissionTable).
		Where(squirrel.Expr("data->>'code' = ANY(?)", codes)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select permissions by codes sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query permissions by codes: %w", err)
	}
	defer rows.Close()

	return scanPermissions(rows)
}

// Update replaces the permission's attribute bag.
func (r *PermissionRepository) Update(ctx context.Context, permission domain.Permission) error {
	payload, err := json.Marshal(permissionToDocument(permission))
	if err != nil {
		return fmt.Errorf("marshal permission document: %w", err)
	}

	stmt, args, err := r.builder.Update(permissionTable).
		Set("data", payload).
		Where(squirrel.Eq{"id": permission.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update permission sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("update permission: %w", repository.ErrDuplicate)
		}
		return fmt.Errorf("update permission: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Delete removes a permission by id. Roles referencing the code keep their
// dangling reference.
func (r *PermissionRepository) Delete(ctx context.Context, id string) error {
	stmt, args, err := r.builder.Delete(permissionTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete permission sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete permission: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func (r *PermissionRepository) applyFilter(query squirrel.SelectBuilder, filter port.PermissionFilter) squirrel.SelectBuilder {
	if filter.Name != "" {
		query = query.Where(squirrel.Expr("data->>'name' ILIKE ?", "%"+filter.Name+"%"))
	}
	if filter.Code != "" {
		query = query.Where(squirrel.Expr("data->>'code' ILIKE ?", "%"+filter.Code+"%"))
	}
	if filter.Resource != "" {
		query = query.Where(squirrel.Expr("data->>'resource' ILIKE ?", "%"+filter.Resource+"%"))
	}
	if filter.Type != "" {
		query = query.Where(squirrel.Eq{"data->>'type'": string(filter.Type)})
	}
	return query
}

// List returns permissions matching the filter.
func (r *PermissionRepository) List(ctx context.Context, filter port.PermissionFilter) ([]domain.Permission, error) {
	query := r.builder.
		Select("id", "created_at", "updated_at", "data").
		From(permissionTable).
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
		return nil, fmt.Errorf("build list permissions sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query permissions: %w", err)
	}
	defer rows.Close()

	return scanPermissions(rows)
}

// Count returns the total number of permissions matching the filter.
func (r *PermissionRepository) Count(ctx context.Context, filter port.PermissionFilter) (int, error) {
	query := r.builder.Select("COUNT(*)").From(permissionTable)
	query = r.applyFilter(query, filter)

	stmt, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count permissions sql: %w", err)
	}

	var count int64
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("scan permissions count: %w", err)
	}

	return int(count), nil
}

func scanPermissions(rows pgx.Rows) ([]domain.Permission, error) {
	permissions := make([]domain.Permission, 0)
	for rows.Next() {
		var (
			id                   string
			createdAt, updatedAt time.Time
			payload              []byte
		)
		if err := rows.Scan(&id, &createdAt, &updatedAt, &payload); err != nil {
			return nil, fmt.Errorf("scan permission: %w", err)
		}

		var doc permissionDocument
		if err := json.Unmarshal(payload, &doc); err != nil {
			return nil, fmt.Errorf("unmarshal permission document: %w", err)
		}

		permissions = append(permissions, doc.toDomain(id, createdAt, updatedAt))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate permissions: %w", err)
	}

	return permissions, nil
}

var _ port.PermissionRepository = (*PermissionRepository)(nil)
