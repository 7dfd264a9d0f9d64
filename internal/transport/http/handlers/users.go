package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adminkit/rbac-service/internal/usecase"
)

// UserHandler serves user CRUD and pagination endpoints.
type UserHandler struct {
	users *usecase.UserService
}

// NewUserHandler constructs a UserHandler.
func NewUserHandler(users *usecase.UserService) *UserHandler {
	return &UserHandler{users: users}
}

var userErrorCases = []ErrorCase{
	{Err: usecase.ErrUserNotFound, Status: http.StatusNotFound, Message: "user does not exist"},
	{Err: usecase.ErrUsernameTaken, Status: http.StatusBadRequest, Message: "username already exists"},
	{Err: usecase.ErrEmailTaken, Status: http.StatusBadRequest, Message: "email already exists"},
}

// Create provisions a new user.
func (h *UserHandler) Create(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err)
		return
	}

	user, err := h.users.Create(c.Request.Context(), usecase.CreateUserInput{
		Username:  req.Username,
		Password:  req.Password,
		Email:     req.Email,
		Nickname:  req.Nickname,
		RoleCodes: req.RoleCodes,
	})
	if err != nil {
		RespondWithMappedError(c, err, userErrorCases)
		return
	}

	OK(c, toUserView(*user))
}

// Get returns a single user by id.
func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.users.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondWithMappedError(c, err, userErrorCases)
		return
	}

	OK(c, toUserView(*user))
}

// Update merges the supplied fields into the stored user.
func (h *UserHandler) Update(c *gin.Context) {
	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err)
		return
	}

	user, err := h.users.Update(c.Request.Context(), c.Param("id"), usecase.UpdateUserInput{
		Username:  req.Username,
		Password:  req.Password,
		Email:     req.Email,
		Nickname:  req.Nickname,
		RoleCodes: req.RoleCodes,
	})
	if err != nil {
		RespondWithMappedError(c, err, userErrorCases)
		return
	}

	OK(c, toUserView(*user))
}

// Delete removes a user by id.
func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.users.Delete(c.Request.Context(), c.Param("id")); err != nil {
		RespondWithMappedError(c, err, userErrorCases)
		return
	}

	OK(c, nil)
}

// Page returns a filtered page of users.
func (h *UserHandler) Page(c *gin.Context) {
	var req UserPageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err)
		return
	}

	users, total, err := h.users.List(c.Request.Context(), usecase.ListUsersInput{
		Username: req.Username,
		OrderBy:  req.OrderBy,
		Order:    req.Order,
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		RespondWithMappedError(c, err, userErrorCases)
		return
	}

	OK(c, PageResult{List: toUserViews(users), Total: total})
}
