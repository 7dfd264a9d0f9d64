package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/adminkit/rbac-service/internal/core/domain"
	"github.com/adminkit/rbac-service/internal/core/port"
	"github.com/adminkit/rbac-service/internal/infra/security"
	"github.com/adminkit/rbac-service/internal/repository"
	"github.com/adminkit/rbac-service/internal/usecase"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubUserRepo struct {
	users map[string]domain.User
}

func (s *stubUserRepo) Create(context.Context, domain.User) error { return nil }

func (s *stubUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	if user, ok := s.users[id]; ok {
		return &user, nil
	}
	return nil, repository.ErrNotFound
}

func (s *stubUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, user := range s.users {
		if user.Username == username {
			u := user
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *stubUserRepo) GetByEmail(context.Context, string) (*domain.User, error) {
	return nil, repository.ErrNotFound
}

func (s *stubUserRepo) Update(context.Context, domain.User) error { return nil }
func (s *stubUserRepo) Delete(context.Context, string) error      { return nil }

func (s *stubUserRepo) List(context.Context, port.UserFilter) ([]domain.User, error) {
	return nil, nil
}

func (s *stubUserRepo) Count(context.Context, port.UserFilter) (int, error) { return 0, nil }

type stubRoleRepo struct {
	roles map[string]domain.Role
}

func (s *stubRoleRepo) Create(context.Context, domain.Role) error { return nil }

func (s *stubRoleRepo) GetByID(context.Context, string) (*domain.Role, error) {
	return nil, repository.ErrNotFound
}

func (s *stubRoleRepo) GetByCode(context.Context, string) (*domain.Role, error) {
	return nil, repository.ErrNotFound
}

func (s *stubRoleRepo) ListByCodes(_ context.Context, codes []string) ([]domain.Role, error) {
	out := make([]domain.Role, 0, len(codes))
	for _, code := range codes {
		if role, ok := s.roles[code]; ok {
			out = append(out, role)
		}
	}
	return out, nil
}

func (s *stubRoleRepo) Update(context.Context, domain.Role) error { return nil }
func (s *stubRoleRepo) Delete(context.Context, string) error      { return nil }

func (s *stubRoleRepo) List(context.Context, port.RoleFilter) ([]domain.Role, error) {
	return nil, nil
}

func (s *stubRoleRepo) Count(context.Context, port.RoleFilter) (int, error) { return 0, nil }

var (
	_ port.UserRepository = (*stubUserRepo)(nil)
	_ port.RoleRepository = (*stubRoleRepo)(nil)
)

func newAuthFixture(t *testing.T, users map[string]domain.User) (*usecase.AuthService, *security.TokenService) {
	t.Helper()

	tokens, err := security.NewTokenService(security.TokenConfig{Secret: "middleware-test"})
	if err != nil {
		t.Fatalf("new token service: %v", err)
	}
	return usecase.NewAuthService(&stubUserRepo{users: users}, tokens), tokens
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()

	var body envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return body
}

func performRequest(router *gin.Engine, method, path, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func okHandler(c *gin.Context) {
	c.JSON(http.StatusOK, envelope{Code: http.StatusOK, Msg: "success"})
}
