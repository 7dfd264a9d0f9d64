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

const templateTable = "template"

type templateDocument struct {
	Name string `json:"name"`
}

// TemplateRepository implements port.TemplateRepository over a JSONB
// document table.
type TemplateRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewTemplateRepository constructs a repository backed by any executor that
// satisfies pgExecutor.
func NewTemplateRepository(exec pgExecutor) *TemplateRepository {
	return &TemplateRepository{exec: exec, builder: newBuilder()}
}

// Create inserts a new template document.
func (r *TemplateRepository) Create(ctx context.Context, template domain.Template) error {
	payload, err := json.Marshal(templateDocument{Name: template.Name})
	if err != nil {
		return fmt.Errorf("marshal template document: %w", err)
	}

	stmt, args, err := r.builder.Insert(templateTable).
		Columns("id", "data").
		Values(template.ID, payload).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert template sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert template: %w", err)
	}

	return nil
}

// GetByID retrieves a template by identifier.
func (r *TemplateRepository) GetByID(ctx context.Context, id string) (*domain.Template, error) {
	stmt, args, err := r.builder.
		Select("id", "created_at", "updated_at", "data").
		From(templateTable).
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select template sql: %w", err)
	}

	var (
		rowID                string
		createdAt, updatedAt time.Time
		payload              []byte
	)

	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&rowID, &createdAt, &updatedAt, &payload); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan template: %w", err)
	}

	var doc templateDocument
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal template document: %w", err)
	}

	return &domain.Template{
		ID:        rowID,
		Name:      doc.Name,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}, nil
}

// Update replaces the template's attribute bag.
func (r *TemplateRepository) Update(ctx context.Context, template domain.Template) error {
	payload, err := json.Marshal(templateDocument{Name: template.Name})
	if err != nil {
		return fmt.Errorf("marshal template document: %w", err)
	}

	stmt, args, err := r.builder.Update(templateTable).
		Set("data", payload).
		Where(squirrel.Eq{"id": template.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update template sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update template: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Delete removes a template by id.
func (r *TemplateRepository) Delete(ctx context.Context, id string) error {
	stmt, args, err := r.builder.Delete(templateTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete template sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete template: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func (r *TemplateRepository) applyFilter(query squirrel.SelectBuilder, filter port.TemplateFilter) squirrel.SelectBuilder {
	if filter.Name != "" {
		query = query.Where(squirrel.Expr("data->>'name' ILIKE ?", "%"+filter.Name+"%"))
	}
	return query
}

// List returns templates matching the filter.
func (r *TemplateRepository) List(ctx context.Context, filter port.TemplateFilter) ([]domain.Template, error) {
	query := r.builder.
		Select("id", "created_at", "updated_at", "data").
		From(templateTable).
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
		return nil, fmt.Errorf("build list templates sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query templates: %w", err)
	}
	defer rows.Close()

	templates := make([]domain.Template, 0)
	for rows.Next() {
		var (
			rowID                string
			createdAt, updatedAt time.Time
			payload              []byte
		)
		if err := rows.Scan(&rowID, &createdAt, &updatedAt, &payload); err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}

		var doc templateDocument
		if err := json.Unmarshal(payload, &doc); err != nil {
			return nil, fmt.Errorf("unmarshal template document: %w", err)
		}

		templates = append(templates, domain.Template{
			ID:        rowID,
			Name:      doc.Name,
			CreatedAt: createdAt,
			UpdatedAt: updatedAt,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate templates: %w", err)
	}

	return templates, nil
}

// Count returns the total number of templates matching the filter.
func (r *TemplateRepository) Count(ctx context.Context, filter port.TemplateFilter) (int, error) {
	query := r.builder.Select("COUNT(*)").From(templateTable)
	query = r.applyFilter(query, filter)

	stmt, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count templates sql: %w", err)
	}

	var count int64
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("scan templates count: %w", err)
	}

	return int(count), nil
}

var _ port.TemplateRepository = (*TemplateRepository)(nil)
