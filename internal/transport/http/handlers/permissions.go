package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adminkit/rbac-service/internal/core/domain"
	"github.com/adminkit/rbac-service/internal/usecase"
)

// PermissionHandler serves permission CRUD and pagination endpoints.
type PermissionHandler struct {
	permissions *usecase.PermissionService
}

// NewPermissionHandler constructs a PermissionHandler.
func NewPermissionHandler(permissions *usecase.PermissionService) *PermissionHandler {
	return &PermissionHandler{permissions: permissions}
}

var permissionErrorCases = []ErrorCase{
	{Err: usecase.ErrPermissionNotFound, Status: http.StatusNotFound, Message: "permission does not exist"},
	{Err: usecase.ErrPermissionCodeTaken, Status: http.StatusBadRequest, Message: "permission code already exists"},
	{Err: usecase.ErrSystemPermission, Status: http.StatusForbidden, Message: "system permission cannot be modified"},
}

// Create provisions a new custom permission.
func (h *PermissionHandler) Create(c *gin.Context) {
	var req CreatePermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err)
		return
	}

	permission, err := h.permissions.Create(c.Request.Context(), usecase.CreatePermissionInput{
		Name:        req.Name,
		Code:        req.Code,
		Description: req.Description,
		Resource:    req.Resource,
	})
	if err != nil {
		RespondWithMappedError(c, err, permissionErrorCases)
		return
	}

	OK(c, toPermissionView(*permission))
}

// Get returns a single permission by id.
func (h *PermissionHandler) Get(c *gin.Context) {
	permission, err := h.permissions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondWithMappedError(c, err, permissionErrorCases)
		return
	}

	OK(c, toPermissionView(*permission))
}

// Update merges the supplied fields into the stored permission.
func (h *PermissionHandler) Update(c *gin.Context) {
	var req UpdatePermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err)
		return
	}

	permission, err := h.permissions.Update(c.Request.Context(), c.Param("id"), usecase.UpdatePermissionInput{
		Name:        req.Name,
		Code:        req.Code,
		Description: req.Description,
		Resource:    req.Resource,
	})
	if err != nil {
		RespondWithMappedError(c, err, permissionErrorCases)
		return
	}

	OK(c, toPermissionView(*permission))
}

// Delete removes a custom permission by id.
func (h *PermissionHandler) Delete(c *gin.Context) {
	if err := h.permissions.Delete(c.Request.Context(), c.Param("id")); err != nil {
		RespondWithMappedError(c, err, permissionErrorCases)
		return
	}

	OK(c, nil)
}

// Page returns a filtered page of permissions.
func (h *PermissionHandler) Page(c *gin.Context) {
	var req PermissionPageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err)
		return
	}

	permissions, total, err := h.permissions.List(c.Request.Context(), usecase.ListPermissionsInput{
		Name:     req.Name,
		Code:     req.Code,
		Resource: req.Resource,
		Type:     domain.RecordType(req.Type),
		OrderBy:  req.OrderBy,
		Order:    req.Order,
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		RespondWithMappedError(c, err, permissionErrorCases)
		return
	}

	OK(c, PageResult{List: toPermissionViews(permissions), Total: total})
}
