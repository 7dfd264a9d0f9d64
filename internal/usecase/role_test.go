package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/adminkit/rbac-service/internal/core/domain"
)

func TestCreateRole(t *testing.T) {
	roles := newRoleRepoMock()
	svc := NewRoleService(roles, newPermissionRepoMock())

	created, err := svc.Create(context.Background(), CreateRoleInput{
		Name:            "Editor",
		Code:            "editor",
		PermissionCodes: []string{"doc:write"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Type != domain.RecordTypeCustom {
		t.Fatalf("created roles must be custom, got %q", created.Type)
	}
}

func TestCreateRoleDuplicateCode(t *testing.T) {
	roles := newRoleRepoMock(domain.Role{ID: "r1", Name: "Editor", Code: "editor"})
	svc := NewRoleService(roles, newPermissionRepoMock())

	_, err := svc.Create(context.Background(), CreateRoleInput{Name: "Other", Code: "editor"})
	if !errors.Is(err, ErrRoleCodeTaken) {
		t.Fatalf("want ErrRoleCodeTaken, got %v", err)
	}
}

func TestUpdateRoleMergesFields(t *testing.T) {
	roles := newRoleRepoMock(domain.Role{
		ID:              "r1",
		Name:            "Editor",
		Code:            "editor",
		Description:     strPtr("edits documents"),
		PermissionCodes: []string{"doc:write"},
		Type:            domain.RecordTypeCustom,
	})
	svc := NewRoleService(roles, newPermissionRepoMock())

	updated, err := svc.Update(context.Background(), "r1", UpdateRoleInput{
		PermissionCodes: []string{"doc:write", "doc:read"},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Editor" || updated.Code != "editor" || *updated.Description != "edits documents" {
		t.Fatalf("untouched fields changed: %+v", updated)
	}
	if len(updated.PermissionCodes) != 2 {
		t.Fatalf("permission codes not applied: %v", updated.PermissionCodes)
	}
}

// A seeded system role refuses updates even when the new code would collide;
// the guard fires before the duplicate check.
func TestUpdateSystemRoleGuarded(t *testing.T) {
	roles := newRoleRepoMock(
		domain.Role{ID: "r1", Name: "Admin", Code: "admin", Type: domain.RecordTypeSystem},
		domain.Role{ID: "r2", Name: "User", Code: "user", Type: domain.RecordTypeSystem},
	)
	svc := NewRoleService(roles, newPermissionRepoMock())

	_, err := svc.Update(context.Background(), "r1", UpdateRoleInput{Code: strPtr("user")})
	if !errors.Is(err, ErrSystemRole) {
		t.Fatalf("want ErrSystemRole, got %v", err)
	}
}

func TestDeleteSystemRoleGuarded(t *testing.T) {
	roles := newRoleRepoMock(domain.Role{ID: "r1", Name: "Admin", Code: "admin", Type: domain.RecordTypeSystem})
	svc := NewRoleService(roles, newPermissionRepoMock())

	if err := svc.Delete(context.Background(), "r1"); !errors.Is(err, ErrSystemRole) {
		t.Fatalf("want ErrSystemRole, got %v", err)
	}
	if _, ok := roles.roles["r1"]; !ok {
		t.Fatal("system role must survive the delete attempt")
	}
}

func TestDeleteCustomRole(t *testing.T) {
	roles := newRoleRepoMock(domain.Role{ID: "r1", Name: "Editor", Code: "editor", Type: domain.RecordTypeCustom})
	svc := NewRoleService(roles, newPermissionRepoMock())

	if err := svc.Delete(context.Background(), "r1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(context.Background(), "r1"); !errors.Is(err, ErrRoleNotFound) {
		t.Fatalf("want ErrRoleNotFound, got %v", err)
	}
}

// Expanding a role's permissions returns full records, omitting codes that
// no longer resolve.
func TestRolePermissionsSkipsDangling(t *testing.T) {
	roles := newRoleRepoMock(domain.Role{
		ID:              "r1",
		Name:            "Editor",
		Code:            "editor",
		PermissionCodes: []string{"doc:write", "deleted:code"},
		Type:            domain.RecordTypeCustom,
	})
	permissions := newPermissionRepoMock(
		domain.Permission{ID: "p1", Name: "Write docs", Code: "doc:write"},
	)
	svc := NewRoleService(roles, permissions)

	got, err := svc.Permissions(context.Background(), "r1")
	if err != nil {
		t.Fatalf("permissions: %v", err)
	}
	if len(got) != 1 || got[0].Code != "doc:write" {
		t.Fatalf("unexpected permissions %+v", got)
	}
}
