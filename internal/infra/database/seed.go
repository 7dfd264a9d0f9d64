package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/adminkit/rbac-service/internal/core/domain"
)

type permissionSeed struct {
	Name        string            `json:"name"`
	Code        string            `json:"code"`
	Description string            `json:"description,omitempty"`
	Resource    string            `json:"resource,omitempty"`
	Type        domain.RecordType `json:"type"`
}

type roleSeed struct {
	Name            string            `json:"name"`
	Code            string            `json:"code"`
	Description     string            `json:"description,omitempty"`
	PermissionCodes []string          `json:"permission_codes,omitempty"`
	Type            domain.RecordType `json:"type"`
}

type userSeed struct {
	Username  string   `json:"username"`
	Password  string   `json:"password"`
	Email     string   `json:"email,omitempty"`
	Nickname  string   `json:"nickname,omitempty"`
	RoleCodes []string `json:"role_codes,omitempty"`
}

func defaultPermissions() []permissionSeed {
	resources := []struct {
		resource string
		prefix   string
		label    string
	}{
		{"user management", "user", "user"},
		{"role management", "role", "role"},
		{"permission management", "permission", "permission"},
	}

	actions := []struct {
		action string
		name   string
	}{
		{"create", "Create"},
		{"read", "Read"},
		{"update", "Update"},
		{"delete", "Delete"},
		{"list", "List"},
	}

	seeds := make([]permissionSeed, 0, len(resources)*len(actions))
	for _, res := range resources {
		for _, act := range actions {
			seeds = append(seeds, permissionSeed{
				Name:        fmt.Sprintf("%s %s", act.name, res.label),
				Code:        fmt.Sprintf("%s:%s", res.prefix, act.action),
				Description: fmt.Sprintf("%s %s records", act.name, res.label),
				Resource:    res.resource,
				Type:        domain.RecordTypeSystem,
			})
		}
	}

	return seeds
}

func defaultRoles() []roleSeed {
	return []roleSeed{
		{
			Name:        "Super Administrator",
			Code:        domain.RoleSuperAdmin,
			Description: "Holds every permission; resolution short-circuits on this code.",
			Type:        domain.RecordTypeSystem,
			// No permission list: the resolver returns the all-permissions
			// sentinel without consulting it.
		},
		{
			Name:        "Administrator",
			Code:        "admin",
			Description: "All management permissions except permission management.",
			PermissionCodes: []string{
				"user:create", "user:read", "user:update", "user:delete", "user:list",
				"role:create", "role:read", "role:update", "role:delete", "role:list",
			},
			Type: domain.RecordTypeSystem,
		},
		{
			Name:            "User",
			Code:            "user",
			Description:     "Basic self-service permissions.",
			PermissionCodes: []string{"user:read", "user:update"},
			Type:            domain.RecordTypeSystem,
		},
		{
			Name:            "Guest",
			Code:            "guest",
			Description:     "No permissions.",
			PermissionCodes: []string{},
			Type:            domain.RecordTypeSystem,
		},
	}
}

func defaultAdminUser() userSeed {
	return userSeed{
		Username:  "administrator",
		Password:  "e10adc3949ba59abbe56e057f20f883e",
		Email:     "admin@example.com",
		Nickname:  "Administrator",
		RoleCodes: []string{domain.RoleSuperAdmin},
	}
}

// SeedDefaults re-creates the system-typed permissions and roles and ensures
// the administrator account exists. System records are replaced on every
// start so that code, not storage, is their source of truth.
func SeedDefaults(ctx context.Context, pool *pgxpool.Pool, log *zap.Logger) error {
	admin, err := json.Marshal(defaultAdminUser())
	if err != nil {
		return fmt.Errorf("marshal admin user: %w", err)
	}
	if _, err := pool.Exec(ctx, `INSERT INTO "user" (data) VALUES ($1) ON CONFLICT DO NOTHING`, admin); err != nil {
		return fmt.Errorf("seed admin user: %w", err)
	}

	if _, err := pool.Exec(ctx, `DELETE FROM permission WHERE data->>'type' = 'system'`); err != nil {
		return fmt.Errorf("delete system permissions: %w", err)
	}
	for _, seed := range defaultPermissions() {
		payload, err := json.Marshal(seed)
		if err != nil {
			return fmt.Errorf("marshal permission %s: %w", seed.Code, err)
		}
		if _, err := pool.Exec(ctx, `INSERT INTO permission (data) VALUES ($1)`, payload); err != nil {
			return fmt.Errorf("seed permission %s: %w", seed.Code, err)
		}
	}

	if _, err := pool.Exec(ctx, `DELETE FROM role WHERE data->>'type' = 'system'`); err != nil {
		return fmt.Errorf("delete system roles: %w", err)
	}
	for _, seed := range defaultRoles() {
		payload, err := json.Marshal(seed)
		if err != nil {
			return fmt.Errorf("marshal role %s: %w", seed.Code, err)
		}
		if _, err := pool.Exec(ctx, `INSERT INTO role (data) VALUES ($1)`, payload); err != nil {
			return fmt.Errorf("seed role %s: %w", seed.Code, err)
		}
	}

	log.Info("seeded default records",
		zap.Int("permissions", len(defaultPermissions())),
		zap.Int("roles", len(defaultRoles())),
	)

	return nil
}
