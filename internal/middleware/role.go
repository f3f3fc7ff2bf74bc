package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pradeepl-italliance/Era-flix-sub000/internal/pkg/jwt"
	"github.com/pradeepl-italliance/Era-flix-sub000/internal/pkg/response"
)

// RequireRole lets the request through when the token role is one of roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(c *gin.Context) {
		role := c.GetString("role")
		if role == "" {
			response.Abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "Role not found in token")
			return
		}
		if !allowed[role] {
			response.Abort(c, http.StatusForbidden, "FORBIDDEN", "Access denied: insufficient permissions")
			return
		}
		c.Next()
	}
}

// StaffOnly admits venue staff and admins.
func StaffOnly() gin.HandlerFunc {
	return RequireRole(jwt.RoleStaff, jwt.RoleAdmin)
}
