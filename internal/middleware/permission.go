package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// RequirePermission blocks the request unless the caller holds the named
// permission. Direct callers carry permissions in the verified token (set
// into context by Auth); gateway traffic carries them in the
// X-User-Permissions header as a comma-separated list. Admin and manager
// grants satisfy every check.
func RequirePermission(required string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !hasPermission(c, required) {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Insufficient permissions",
				"code":  "MISSING_PERMISSION",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

func hasPermission(c *gin.Context, required string) bool {
	var perms []string
	if v, ok := c.Get("permissions"); ok {
		if fromToken, ok := v.([]string); ok {
			perms = fromToken
		}
	}
	if len(perms) == 0 {
		if header := c.GetHeader("X-User-Permissions"); header != "" {
			perms = strings.Split(header, ",")
		}
	}

	for _, perm := range perms {
		perm = strings.TrimSpace(perm)
		if perm == required || strings.HasPrefix(perm, AdminPermission) || strings.HasPrefix(perm, ManagerPermission) {
			return true
		}
	}
	return false
}
