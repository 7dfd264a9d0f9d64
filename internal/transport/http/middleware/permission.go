package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adminkit/rbac-service/internal/usecase"
)

// RequirePermission gates a route behind the given permission codes: the
// authenticated user's effective set must contain at least one of them.
//
// A route registered with no codes carries no requirement and lets any
// authenticated user through. An empty effective set fails fast without
// consulting the codes. The super admin sentinel satisfies every gate.
func RequirePermission(resolver *usecase.PermissionResolver, codes ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := GetAuthenticatedUserID(c)
		if !ok {
			abort(c, http.StatusUnauthorized, "not logged in")
			return
		}

		if len(codes) == 0 {
			c.Next()
			return
		}

		set, err := resolver.Resolve(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, usecase.ErrUserNotFound) {
				abort(c, http.StatusNotFound, "user does not exist")
				return
			}
			abort(c, http.StatusInternalServerError, "permission resolution failed")
			return
		}

		if set.IsEmpty() || !set.HasAny(codes...) {
			abort(c, http.StatusForbidden, "insufficient permission")
			return
		}

		c.Next()
	}
}
