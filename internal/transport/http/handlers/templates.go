package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adminkit/rbac-service/internal/usecase"
)

// TemplateHandler serves the scaffold resource's CRUD endpoints.
type TemplateHandler struct {
	templates *usecase.TemplateService
}

// NewTemplateHandler constructs a TemplateHandler.
func NewTemplateHandler(templates *usecase.TemplateService) *TemplateHandler {
	return &TemplateHandler{templates: templates}
}

var templateErrorCases = []ErrorCase{
	{Err: usecase.ErrTemplateNotFound, Status: http.StatusNotFound, Message: "template does not exist"},
}

// Create provisions a new template.
func (h *TemplateHandler) Create(c *gin.Context) {
	var req CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err)
		return
	}

	template, err := h.templates.Create(c.Request.Context(), usecase.CreateTemplateInput{Name: req.Name})
	if err != nil {
		RespondWithMappedError(c, err, templateErrorCases)
		return
	}

	OK(c, toTemplateView(*template))
}

// Get returns a single template by id.
func (h *TemplateHandler) Get(c *gin.Context) {
	template, err := h.templates.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondWithMappedError(c, err, templateErrorCases)
		return
	}

	OK(c, toTemplateView(*template))
}

// Update merges the supplied fields into the stored template.
func (h *TemplateHandler) Update(c *gin.Context) {
	var req UpdateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err)
		return
	}

	template, err := h.templates.Update(c.Request.Context(), c.Param("id"), usecase.UpdateTemplateInput{Name: req.Name})
	if err != nil {
		RespondWithMappedError(c, err, templateErrorCases)
		return
	}

	OK(c, toTemplateView(*template))
}

// Delete removes a template by id.
func (h *TemplateHandler) Delete(c *gin.Context) {
	if err := h.templates.Delete(c.Request.Context(), c.Param("id")); err != nil {
		RespondWithMappedError(c, err, templateErrorCases)
		return
	}

	OK(c, nil)
}

// Page returns a filtered page of templates.
func (h *TemplateHandler) Page(c *gin.Context) {
	var req TemplatePageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err)
		return
	}

	templates, total, err := h.templates.List(c.Request.Context(), usecase.ListTemplatesInput{
		Name:     req.Name,
		OrderBy:  req.OrderBy,
		Order:    req.Order,
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		RespondWithMappedError(c, err, templateErrorCases)
		return
	}

	OK(c, PageResult{List: toTemplateViews(templates), Total: total})
}
