package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/adminkit/rbac-service/internal/core/domain"
)

func TestTemplateLifecycle(t *testing.T) {
	templates := newTemplateRepoMock()
	svc := NewTemplateService(templates)

	created, err := svc.Create(context.Background(), CreateTemplateInput{Name: "starter"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.Update(context.Background(), created.ID, UpdateTemplateInput{Name: strPtr("renamed")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "renamed" {
		t.Fatalf("name not applied: %+v", updated)
	}

	list, total, err := svc.List(context.Background(), ListTemplatesInput{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 1 || len(list) != 1 {
		t.Fatalf("want one template, got %d (total %d)", len(list), total)
	}

	if err := svc.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(context.Background(), created.ID); !errors.Is(err, ErrTemplateNotFound) {
		t.Fatalf("want ErrTemplateNotFound, got %v", err)
	}
}

func TestTemplateUpdateMissing(t *testing.T) {
	svc := NewTemplateService(newTemplateRepoMock(domain.Template{ID: "t1", Name: "starter"}))

	_, err := svc.Update(context.Background(), "ghost", UpdateTemplateInput{Name: strPtr("x")})
	if !errors.Is(err, ErrTemplateNotFound) {
		t.Fatalf("want ErrTemplateNotFound, got %v", err)
	}
}
