package usecase

import (
	"context"

	"github.com/adminkit/rbac-service/internal/core/domain"
	"github.com/adminkit/rbac-service/internal/core/port"
	"github.com/adminkit/rbac-service/internal/repository"
)

// Mock repositories shared across service tests.

type userRepoMock struct {
	users     map[string]domain.User
	createErr error
	updateErr error
	deleteErr error
	getErr    error
}

func newUserRepoMock(users ...domain.User) *userRepoMock {
	m := &userRepoMock{users: make(map[string]domain.User)}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func (m *userRepoMock) Create(_ context.Context, user domain.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	for _, existing := range m.users {
		if existing.Username == user.Username {
			return repository.ErrDuplicate
		}
	}
	m.users[user.ID] = user
	return nil
}

func (m *userRepoMock) GetByID(_ context.Context, id string) (*domain.User, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if user, ok := m.users[id]; ok {
		return &user, nil
	}
	return nil, repository.ErrNotFound
}

func (m *userRepoMock) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	for _, user := range m.users {
		if user.Username == username {
			u := user
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *userRepoMock) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range m.users {
		if user.Email != nil && *user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *userRepoMock) Update(_ context.Context, user domain.User) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	if _, ok := m.users[user.ID]; !ok {
		return repository.ErrNotFound
	}
	m.users[user.ID] = user
	return nil
}

func (m *userRepoMock) Delete(_ context.Context, id string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	if _, ok := m.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.users, id)
	return nil
}

func (m *userRepoMock) List(_ context.Context, _ port.UserFilter) ([]domain.User, error) {
	users := make([]domain.User, 0, len(m.users))
	for _, user := range m.users {
		users = append(users, user)
	}
	return users, nil
}

func (m *userRepoMock) Count(_ context.Context, _ port.UserFilter) (int, error) {
	return len(m.users), nil
}

type roleRepoMock struct {
	roles           map[string]domain.Role
	listByCodesHits int
	createErr       error
	updateErr       error
	deleteErr       error
}

func newRoleRepoMock(roles ...domain.Role) *roleRepoMock {
	m := &roleRepoMock{roles: make(map[string]domain.Role)}
	for _, r := range roles {
		m.roles[r.ID] = r
	}
	return m
}

func (m *roleRepoMock) Create(_ context.Context, role domain.Role) error {
	if m.createErr != nil {
		return m.createErr
	}
	for _, existing := range m.roles {
		if existing.Code == role.Code {
			return repository.ErrDuplicate
		}
	}
	m.roles[role.ID] = role
	return nil
}

func (m *roleRepoMock) GetByID(_ context.Context, id string) (*domain.Role, error) {
	if role, ok := m.roles[id]; ok {
		return &role, nil
	}
	return nil, repository.ErrNotFound
}

func (m *roleRepoMock) GetByCode(_ context.Context, code string) (*domain.Role, error) {
	for _, role := range m.roles {
		if role.Code == code {
			r := role
			return &r, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *roleRepoMock) ListByCodes(_ context.Context, codes []string) ([]domain.Role, error) {
	m.listByCodesHits++
	out := make([]domain.Role, 0, len(codes))
	for _, code := range codes {
		for _, role := range m.roles {
			if role.Code == code {
				out = append(out, role)
			}
		}
	}
	return out, nil
}

func (m *roleRepoMock) Update(_ context.Context, role domain.Role) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	if _, ok := m.roles[role.ID]; !ok {
		return repository.ErrNotFound
	}
	m.roles[role.ID] = role
	return nil
}

func (m *roleRepoMock) Delete(_ context.Context, id string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	if _, ok := m.roles[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.roles, id)
	return nil
}

func (m *roleRepoMock) List(_ context.Context, _ port.RoleFilter) ([]domain.Role, error) {
	roles := make([]domain.Role, 0, len(m.roles))
	for _, role := range m.roles {
		roles = append(roles, role)
	}
	return roles, nil
}

func (m *roleRepoMock) Count(_ context.Context, _ port.RoleFilter) (int, error) {
	return len(m.roles), nil
}

type permissionRepoMock struct {
	permissions map[string]domain.Permission
	createErr   error
	updateErr   error
	deleteErr   error
}

func newPermissionRepoMock(permissions ...domain.Permission) *permissionRepoMock {
	m := &permissionRepoMock{permissions: make(map[string]domain.Permission)}
	for _, p := range permissions {
		m.permissions[p.ID] = p
	}
	return m
}

func (m *permissionRepoMock) Create(_ context.Context, permission domain.Permission) error {
	if m.createErr != nil {
		return m.createErr
	}
	for _, existing := range m.permissions {
		if existing.Code == permission.Code {
			return repository.ErrDuplicate
		}
	}
	m.permissions[permission.ID] = permission
	return nil
}

func (m *permissionRepoMock) GetByID(_ context.Context, id string) (*domain.Permission, error) {
	if permission, ok := m.permissions[id]; ok {
		return &permission, nil
	}
	return nil, repository.ErrNotFound
}

func (m *permissionRepoMock) GetByCode(_ context.Context, code string) (*domain.Permission, error) {
	for _, permission := range m.permissions {
		if permission.Code == code {
			p := permission
			return &p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *permissionRepoMock) ListByCodes(_ context.Context, codes []string) ([]domain.Permission, error) {
	out := make([]domain.Permission, 0, len(codes))
	for _, code := range codes {
		for _, permission := range m.permissions {
			if permission.Code == code {
				out = append(out, permission)
			}
		}
	}
	return out, nil
}

func (m *permissionRepoMock) Update(_ context.Context, permission domain.Permission) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	if _, ok := m.permissions[permission.ID]; !ok {
		return repository.ErrNotFound
	}
	m.permissions[permission.ID] = permission
	return nil
}

func (m *permissionRepoMock) Delete(_ context.Context, id string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	if _, ok := m.permissions[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.permissions, id)
	return nil
}

func (m *permissionRepoMock) List(_ context.Context, _ port.PermissionFilter) ([]domain.Permission, error) {
	permissions := make([]domain.Permission, 0, len(m.permissions))
	for _, permission := range m.permissions {
		permissions = append(permissions, permission)
	}
	return permissions, nil
}

func (m *permissionRepoMock) Count(_ context.Context, _ port.PermissionFilter) (int, error) {
	return len(m.permissions), nil
}

type templateRepoMock struct {
	templates map[string]domain.Template
}

func newTemplateRepoMock(templates ...domain.Template) *templateRepoMock {
	m := &templateRepoMock{templates: make(map[string]domain.Template)}
	for _, tpl := range templates {
		m.templates[tpl.ID] = tpl
	}
	return m
}

func (m *templateRepoMock) Create(_ context.Context, template domain.Template) error {
	m.templates[template.ID] = template
	return nil
}

func (m *templateRepoMock) GetByID(_ context.Context, id string) (*domain.Template, error) {
	if template, ok := m.templates[id]; ok {
		return &template, nil
	}
	return nil, repository.ErrNotFound
}

func (m *templateRepoMock) Update(_ context.Context, template domain.Template) error {
	if _, ok := m.templates[template.ID]; !ok {
		return repository.ErrNotFound
	}
	m.templates[template.ID] = template
	return nil
}

func (m *templateRepoMock) Delete(_ context.Context, id string) error {
	if _, ok := m.templates[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.templates, id)
	return nil
}

func (m *templateRepoMock) List(_ context.Context, _ port.TemplateFilter) ([]domain.Template, error) {
	templates := make([]domain.Template, 0, len(m.templates))
	for _, template := range m.templates {
		templates = append(templates, template)
	}
	return templates, nil
}

func (m *templateRepoMock) Count(_ context.Context, _ port.TemplateFilter) (int, error) {
	return len(m.templates), nil
}

var (
	_ port.UserRepository       = (*userRepoMock)(nil)
	_ port.RoleRepository       = (*roleRepoMock)(nil)
	_ port.PermissionRepository = (*permissionRepoMock)(nil)
	_ port.TemplateRepository   = (*templateRepoMock)(nil)
)

func strPtr(s string) *string { return &s }
