package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/adminkit/rbac-service/internal/usecase"
)

// envelope mirrors the handlers response shape. Duplicated here to avoid an
// import cycle with the handlers package.
type envelope struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data any    `json:"data"`
}

func abort(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, envelope{Code: status, Msg: msg})
}

// RequireAuth validates the bearer token and stores the principal's user id
// in the request context. A missing or blank token yields "not logged in";
// any verification failure yields "session expired".
func RequireAuth(auth *usecase.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abort(c, http.StatusUnauthorized, "not logged in")
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abort(c, http.StatusUnauthorized, "not logged in")
			return
		}

		token := strings.TrimSpace(parts[1])
		if token == "" {
			abort(c, http.StatusUnauthorized, "not logged in")
			return
		}

		userID, err := auth.ParseAccessToken(token)
		if err != nil {
			abort(c, http.StatusUnauthorized, "session expired")
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}
