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

// ErrTemplateNotFound indicates the referenced template does not exist.
var ErrTemplateNotFound = errors.New("template not found")

// CreateTemplateInput captures the payload for creating a template.
type CreateTemplateInput struct {
	Name string
}

// UpdateTemplateInput is a partial update: nil fields keep their stored
// value.
type UpdateTemplateInput struct {
	Name *string
}

// ListTemplatesInput narrows and paginates template listings.
type ListTemplatesInput struct {
	Name     string
	OrderBy  string
	Order    string
	Page     int
	PageSize int
}

// TemplateService manages the minimal template records kept as scaffolding
// for new resource modules.
type TemplateService struct {
	templates port.TemplateRepository
}

// NewTemplateService constructs a TemplateService.
func NewTemplateService(templates port.TemplateRepository) *TemplateService {
	return &TemplateService{templates: templates}
}

// Create provisions a new template.
func (s *TemplateService) Create(ctx context.Context, input CreateTemplateInput) (*domain.Template, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("template name is required")
	}

	template := domain.Template{ID: uuid.NewString(), Name: name}
	if err := s.templates.Create(ctx, template); err != nil {
		return nil, fmt.Errorf("create template: %w", err)
	}

	return &template, nil
}

// Get loads a single template by id.
func (s *TemplateService) Get(ctx context.Context, id string) (*domain.Template, error) {
	template, err := s.templates.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, fmt.Errorf("lookup template: %w", err)
	}
	return template, nil
}

// Update merges the supplied fields into the stored record.
func (s *TemplateService) Update(ctx context.Context, id string, input UpdateTemplateInput) (*domain.Template, error) {
	template, err := s.templates.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, fmt.Errorf("lookup template: %w", err)
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, fmt.Errorf("template name cannot be empty")
		}
		template.Name = name
	}

	if err := s.templates.Update(ctx, *template); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, fmt.Errorf("update template: %w", err)
	}

	return template, nil
}

// Delete removes a template by id.
func (s *TemplateService) Delete(ctx context.Context, id string) error {
	if err := s.templates.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTemplateNotFound
		}
		return fmt.Errorf("delete template: %w", err)
	}
	return nil
}

// List returns a page of templates plus the total match count.
func (s *TemplateService) List(ctx context.Context, input ListTemplatesInput) ([]domain.Template, int, error) {
	page, pageSize := normalizePage(input.Page, input.PageSize)

	filter := port.TemplateFilter{
		Name:    input.Name,
		OrderBy: input.OrderBy,
		Order:   input.Order,
		Limit:   pageSize,
		Offset:  (page - 1) * pageSize,
	}

	templates, err := s.templates.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list templates: %w", err)
	}

	total, err := s.templates.Count(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count templates: %w", err)
	}

	return templates, total, nil
}
