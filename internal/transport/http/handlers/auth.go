package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/adminkit/rbac-service/internal/infra/logger"
	"github.com/adminkit/rbac-service/internal/transport/http/middleware"
	"github.com/adminkit/rbac-service/internal/usecase"
)

// AuthHandler serves login, refresh, and current-profile endpoints.
type AuthHandler struct {
	auth *usecase.AuthService
	log  *zap.Logger
}

// NewAuthHandler constructs an AuthHandler. A nil logger disables auth event
// logging.
func NewAuthHandler(auth *usecase.AuthService, log *zap.Logger) *AuthHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthHandler{auth: auth, log: log}
}

// Login exchanges credentials for a token pair.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err)
		return
	}

	pair, user, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.log.Warn("login rejected", zap.String("username", req.Username))
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrUserNotFound, Status: http.StatusNotFound, Message: "user does not exist"},
			{Err: usecase.ErrInvalidCredentials, Status: http.StatusUnauthorized, Message: "invalid username or password"},
		})
		return
	}

	fields := []zap.Field{zap.String("user_id", user.ID), zap.String("username", user.Username)}
	if user.Email != nil {
		fields = append(fields, zap.String("email", logger.MaskEmail(*user.Email)))
	}
	h.log.Info("user logged in", fields...)

	OK(c, LoginResponse{
		Token:        pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    int64(h.auth.AccessTokenTTL().Seconds()),
		User:         toUserView(*user),
	})
}

// Refresh exchanges a refresh token for a new pair.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err)
		return
	}

	pair, err := h.auth.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrInvalidRefreshToken, Status: http.StatusUnauthorized, Message: "refresh token invalid or expired"},
		})
		return
	}

	OK(c, RefreshResponse{
		Token:        pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    int64(h.auth.AccessTokenTTL().Seconds()),
	})
}

// Me returns the authenticated principal's profile.
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		Fail(c, http.StatusUnauthorized, "not logged in")
		return
	}

	user, err := h.auth.CurrentUser(c.Request.Context(), userID)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrUserNotFound, Status: http.StatusNotFound, Message: "user does not exist"},
		})
		return
	}

	OK(c, toUserView(*user))
}
