package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adminkit/rbac-service/internal/core/domain"
)

// Response is the envelope returned by every endpoint. The HTTP status code
// mirrors Code.
type Response struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data any    `json:"data"`
}

// OK writes a 200 envelope with the given payload.
func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{Code: http.StatusOK, Msg: "success", Data: data})
}

// Fail writes an error envelope; the status mirrors the envelope code.
func Fail(c *gin.Context, status int, msg string) {
	c.JSON(status, Response{Code: status, Msg: msg})
}

// BadRequest reports a validation or binding failure.
func BadRequest(c *gin.Context, err error) {
	Fail(c, http.StatusBadRequest, err.Error())
}

// PageResult is the payload shape for paginated listings.
type PageResult struct {
	List  any `json:"list"`
	Total int `json:"total"`
}

// UserView is the user representation returned by the API. It never carries
// the password.
type UserView struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     *string   `json:"email,omitempty"`
	Nickname  *string   `json:"nickname,omitempty"`
	RoleCodes []string  `json:"role_codes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toUserView(user domain.User) UserView {
	roleCodes := user.RoleCodes
	if roleCodes == nil {
		roleCodes = []string{}
	}
	return UserView{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Nickname:  user.Nickname,
		RoleCodes: roleCodes,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

func toUserViews(users []domain.User) []UserView {
	views := make([]UserView, 0, len(users))
	for _, user := range users {
		views = append(views, toUserView(user))
	}
	return views
}

// RoleView is the role representation returned by the API.
type RoleView struct {
	ID              string            `json:"id"`
	Name            string            `json:"name"`
	Code            string            `json:"code"`
	Description     *string           `json:"description,omitempty"`
	PermissionCodes []string          `json:"permission_codes"`
	Type            domain.RecordType `json:"type"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

func toRoleView(role domain.Role) RoleView {
	codes := role.PermissionCodes
	if codes == nil {
		codes = []string{}
	}
	return RoleView{
		ID:              role.ID,
		Name:            role.Name,
		Code:            role.Code,
		Description:     role.Description,
		PermissionCodes: codes,
		Type:            role.Type,
		CreatedAt:       role.CreatedAt,
		UpdatedAt:       role.UpdatedAt,
	}
}

func toRoleViews(roles []domain.Role) []RoleView {
	views := make([]RoleView, 0, len(roles))
	for _, role := range roles {
		views = append(views, toRoleView(role))
	}
	return views
}

// PermissionView is the permission representation returned by the API.
type PermissionView struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Code        string            `json:"code"`
	Description *string           `json:"description,omitempty"`
	Resource    *string           `json:"resource,omitempty"`
	Type        domain.RecordType `json:"type"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

func toPermissionView(permission domain.Permission) PermissionView {
	return PermissionView{
		ID:          permission.ID,
		Name:        permission.Name,
		Code:        permission.Code,
		Description: permission.Description,
		Resource:    permission.Resource,
		Type:        permission.Type,
		CreatedAt:   permission.CreatedAt,
		UpdatedAt:   permission.UpdatedAt,
	}
}

func toPermissionViews(permissions []domain.Permission) []PermissionView {
	views := make([]PermissionView, 0, len(permissions))
	for _, permission := range permissions {
		views = append(views, toPermissionView(permission))
	}
	return views
}

// TemplateView is the template representation returned by the API.
type TemplateView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toTemplateView(template domain.Template) TemplateView {
	return TemplateView{
		ID:        template.ID,
		Name:      template.Name,
		CreatedAt: template.CreatedAt,
		UpdatedAt: template.UpdatedAt,
	}
}

func toTemplateViews(templates []domain.Template) []TemplateView {
	views := make([]TemplateView, 0, len(templates))
	for _, template := range templates {
		views = append(views, toTemplateView(template))
	}
	return views
}

// PageQuery carries the shared pagination fields of page endpoints.
type PageQuery struct {
	Page     int    `json:"page"`
	PageSize int    `json:"pageSize"`
	OrderBy  string `json:"orderBy" binding:"omitempty,oneof=created_at updated_at"`
	Order    string `json:"order" binding:"omitempty,oneof=asc desc ASC DESC"`
}

// LoginRequest is the payload for POST /auth/login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued tokens, their access lifetime in seconds,
// and the authenticated user.
type LoginResponse struct {
	Token        string   `json:"token"`
	RefreshToken string   `json:"refresh_token"`
	ExpiresIn    int64    `json:"expires_in"`
	User         UserView `json:"user"`
}

// RefreshRequest is the payload for POST /auth/refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// RefreshResponse carries the renewed token pair.
type RefreshResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// CreateUserRequest is the payload for POST /user.
type CreateUserRequest struct {
	Username  string   `json:"username" binding:"required"`
	Password  string   `json:"password" binding:"required"`
	Email     *string  `json:"email" binding:"omitempty,email"`
	Nickname  *string  `json:"nickname"`
	RoleCodes []string `json:"role_codes"`
}

// UpdateUserRequest is the payload for PUT /user/:id; absent fields keep
// their stored value.
type UpdateUserRequest struct {
	Username  *string  `json:"username"`
	Password  *string  `json:"password"`
	Email     *string  `json:"email" binding:"omitempty,email"`
	Nickname  *string  `json:"nickname"`
	RoleCodes []string `json:"role_codes"`
}

// UserPageRequest is the payload for POST /user/page.
type UserPageRequest struct {
	PageQuery
	Username string `json:"username"`
}

// CreateRoleRequest is the payload for POST /role.
type CreateRoleRequest struct {
	Name            string   `json:"name" binding:"required"`
	Code            string   `json:"code" binding:"required"`
	Description     *string  `json:"description"`
	PermissionCodes []string `json:"permission_codes"`
}

// UpdateRoleRequest is the payload for PUT /role/:id.
type UpdateRoleRequest struct {
	Name            *string  `json:"name"`
	Code            *string  `json:"code"`
	Description     *string  `json:"description"`
	PermissionCodes []string `json:"permission_codes"`
}

// RolePageRequest is the payload for POST /role/page.
type RolePageRequest struct {
	PageQuery
	Name string `json:"name"`
	Code string `json:"code"`
	Type string `json:"type" binding:"omitempty,oneof=system custom"`
}

// CreatePermissionRequest is the payload for POST /permission.
type CreatePermissionRequest struct {
	Name        string  `json:"name" binding:"required"`
	Code        string  `json:"code" binding:"required"`
	Description *string `json:"description"`
	Resource    *string `json:"resource"`
}

// UpdatePermissionRequest is the payload for PUT /permission/:id.
type UpdatePermissionRequest struct {
	Name        *string `json:"name"`
	Code        *string `json:"code"`
	Description *string `json:"description"`
	Resource    *string `json:"resource"`
}

// PermissionPageRequest is the payload for POST /permission/page.
type PermissionPageRequest struct {
	PageQuery
	Name     string `json:"name"`
	Code     string `json:"code"`
	Resource string `json:"resource"`
	Type     string `json:"type" binding:"omitempty,oneof=system custom"`
}

// CreateTemplateRequest is the payload for POST /template.
type CreateTemplateRequest struct {
	Name string `json:"name" binding:"required"`
}

// UpdateTemplateRequest is the payload for PUT /template/:id.
type UpdateTemplateRequest struct {
	Name *string `json:"name"`
}

// TemplatePageRequest is the payload for POST /template/page.
type TemplatePageRequest struct {
	PageQuery
	Name string `json:"name"`
}
