package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adminkit/rbac-service/internal/core/domain"
	"github.com/adminkit/rbac-service/internal/usecase"
)

// RoleHandler serves role CRUD, pagination, and permission expansion.
type RoleHandler struct {
	roles *usecase.RoleService
}

// NewRoleHandler constructs a RoleHandler.
func NewRoleHandler(roles *usecase.RoleService) *RoleHandler {
	return &RoleHandler{roles: roles}
}

var roleErrorCases = []ErrorCase{
	{Err: usecase.ErrRoleNotFound, Status: http.StatusNotFound, Message: "role does not exist"},
	{Err: usecase.ErrRoleCodeTaken, Status: http.StatusBadRequest, Message: "role code already exists"},
	{Err: usecase.ErrSystemRole, Status: http.StatusForbidden, Message: "system role cannot be modified"},
}

// Create provisions a new custom role.
func (h *RoleHandler) Create(c *gin.Context) {
	var req CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err)
		return
	}

	role, err := h.roles.Create(c.Request.Context(), usecase.CreateRoleInput{
		Name:            req.Name,
		Code:            req.Code,
		Description:     req.Description,
		PermissionCodes: req.PermissionCodes,
	})
	if err != nil {
		RespondWithMappedError(c, err, roleErrorCases)
		return
	}

	OK(c, toRoleView(*role))
}

// Get returns a single role by id.
func (h *RoleHandler) Get(c *gin.Context) {
	role, err := h.roles.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondWithMappedError(c, err, roleErrorCases)
		return
	}

	OK(c, toRoleView(*role))
}

// Update merges the supplied fields into the stored role.
func (h *RoleHandler) Update(c *gin.Context) {
	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err)
		return
	}

	role, err := h.roles.Update(c.Request.Context(), c.Param("id"), usecase.UpdateRoleInput{
		Name:            req.Name,
		Code:            req.Code,
		Description:     req.Description,
		PermissionCodes: req.PermissionCodes,
	})
	if err != nil {
		RespondWithMappedError(c, err, roleErrorCases)
		return
	}

	OK(c, toRoleView(*role))
}

// Delete removes a custom role by id.
func (h *RoleHandler) Delete(c *gin.Context) {
	if err := h.roles.Delete(c.Request.Context(), c.Param("id")); err != nil {
		RespondWithMappedError(c, err, roleErrorCases)
		return
	}

	OK(c, nil)
}

// Page returns a filtered page of roles.
func (h *RoleHandler) Page(c *gin.Context) {
	var req RolePageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err)
		return
	}

	roles, total, err := h.roles.List(c.Request.Context(), usecase.ListRolesInput{
		Name:     req.Name,
		Code:     req.Code,
		Type:     domain.RecordType(req.Type),
		OrderBy:  req.OrderBy,
		Order:    req.Order,
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		RespondWithMappedError(c, err, roleErrorCases)
		return
	}

	OK(c, PageResult{List: toRoleViews(roles), Total: total})
}

// Permissions expands a role's permission codes into full records.
func (h *RoleHandler) Permissions(c *gin.Context) {
	permissions, err := h.roles.Permissions(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondWithMappedError(c, err, roleErrorCases)
		return
	}

	OK(c, toPermissionViews(permissions))
}
