package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/adminkit/rbac-service/internal/core/domain"
	"github.com/adminkit/rbac-service/internal/usecase"
)

func newGateFixture(users map[string]domain.User, roles map[string]domain.Role) (*usecase.PermissionResolver, gin.HandlerFunc) {
	resolver := usecase.NewPermissionResolver(&stubUserRepo{users: users}, &stubRoleRepo{roles: roles})

	// Fake authentication: inject the principal from a header so the gate can
	// be exercised without minting tokens.
	principal := func(c *gin.Context) {
		if id := c.GetHeader("X-Test-User"); id != "" {
			c.Set(UserIDKey, id)
		}
		c.Next()
	}
	return resolver, principal
}

func gateRequest(router *gin.Engine, userID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/gated", nil)
	if userID != "" {
		req.Header.Set("X-Test-User", userID)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRequirePermissionNoPrincipal(t *testing.T) {
	resolver, principal := newGateFixture(nil, nil)

	router := gin.New()
	router.GET("/gated", principal, RequirePermission(resolver, "user:read"), okHandler)

	rec := gateRequest(router, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("want 401, got %d", rec.Code)
	}
	if body := decodeEnvelope(t, rec); body.Msg != "not logged in" {
		t.Fatalf("want %q, got %q", "not logged in", body.Msg)
	}
}

func TestRequirePermissionDeletedUser(t *testing.T) {
	resolver, principal := newGateFixture(nil, nil)

	router := gin.New()
	router.GET("/gated", principal, RequirePermission(resolver, "user:read"), okHandler)

	rec := gateRequest(router, "ghost")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("want 404, got %d", rec.Code)
	}
	if body := decodeEnvelope(t, rec); body.Msg != "user does not exist" {
		t.Fatalf("want %q, got %q", "user does not exist", body.Msg)
	}
}

func TestRequirePermissionInsufficient(t *testing.T) {
	users := map[string]domain.User{
		"user-1": {ID: "user-1", Username: "alice", RoleCodes: []string{"viewer"}},
	}
	roles := map[string]domain.Role{
		"viewer": {ID: "r1", Code: "viewer", PermissionCodes: []string{"doc:read"}},
	}
	resolver, principal := newGateFixture(users, roles)

	router := gin.New()
	router.GET("/gated", principal, RequirePermission(resolver, "user:delete"), okHandler)

	rec := gateRequest(router, "user-1")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("want 403, got %d", rec.Code)
	}
	if body := decodeEnvelope(t, rec); body.Msg != "insufficient permission" {
		t.Fatalf("want %q, got %q", "insufficient permission", body.Msg)
	}
}

func TestRequirePermissionEmptySetRejected(t *testing.T) {
	users := map[string]domain.User{
		"user-1": {ID: "user-1", Username: "alice"},
	}
	resolver, principal := newGateFixture(users, nil)

	router := gin.New()
	router.GET("/gated", principal, RequirePermission(resolver, "user:read"), okHandler)

	rec := gateRequest(router, "user-1")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("want 403, got %d", rec.Code)
	}
}

func TestRequirePermissionAnyOfMatches(t *testing.T) {
	users := map[string]domain.User{
		"user-1": {ID: "user-1", Username: "alice", RoleCodes: []string{"viewer"}},
	}
	roles := map[string]domain.Role{
		"viewer": {ID: "r1", Code: "viewer", PermissionCodes: []string{"doc:read"}},
	}
	resolver, principal := newGateFixture(users, roles)

	router := gin.New()
	router.GET("/gated", principal, RequirePermission(resolver, "doc:admin", "doc:read"), okHandler)

	rec := gateRequest(router, "user-1")
	if rec.Code != http.StatusOK {
		t.Fatalf("want 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

// The super admin role satisfies any gate without any matching role rows.
func TestRequirePermissionSuperAdminBypass(t *testing.T) {
	users := map[string]domain.User{
		"root": {ID: "root", Username: "administrator", RoleCodes: []string{domain.RoleSuperAdmin}},
	}
	resolver, principal := newGateFixture(users, nil)

	router := gin.New()
	router.GET("/gated", principal, RequirePermission(resolver, "anything:whatever"), okHandler)

	rec := gateRequest(router, "root")
	if rec.Code != http.StatusOK {
		t.Fatalf("want 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRequirePermissionNoCodesAllowsAuthenticated(t *testing.T) {
	users := map[string]domain.User{
		"user-1": {ID: "user-1", Username: "alice"},
	}
	resolver, principal := newGateFixture(users, nil)

	router := gin.New()
	router.GET("/gated", principal, RequirePermission(resolver), okHandler)

	rec := gateRequest(router, "user-1")
	if rec.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", rec.Code)
	}
}
