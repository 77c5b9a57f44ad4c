package middleware

import (
	"net/http"
	"strings"

	domainUser "ecommerce-backend/internal/domain/user"
	"ecommerce-backend/internal/logger"
	"ecommerce-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RoleMiddleware(allowedRoles ...domainUser.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !hasRole(c, allowedRoles) {
			c.Abort()
			return
		}
		c.Next()
	}
}

func AdminOnly() gin.HandlerFunc {
	return RoleMiddleware(domainUser.RoleAdmin, domainUser.RoleSuperAdmin)
}

// SuperAdminOnly requires the superadmin role and a token email listed in allowed.
// An empty list denies everyone.
func SuperAdminOnly(allowed []string) gin.HandlerFunc {
	emails := make(map[string]struct{}, len(allowed))
	for _, e := range allowed {
		emails[strings.ToLower(strings.TrimSpace(e))] = struct{}{}
	}

	return func(c *gin.Context) {
		if !hasRole(c, []domainUser.Role{domainUser.RoleSuperAdmin}) {
			c.Abort()
			return
		}

		address := c.GetString(EmailKey)
		if _, ok := emails[strings.ToLower(address)]; !ok {
			logger.FromContext(c.Request.Context()).Warn("Super admin access denied",
				zap.String("email", address),
				zap.String("event", "superadmin_forbidden"),
			)
			utils.ErrorResponse(c, http.StatusForbidden, "Insufficient permissions")
			c.Abort()
			return
		}

		c.Next()
	}
}

// hasRole writes a 403 response when the context role is not one of allowed.
func hasRole(c *gin.Context, allowed []domainUser.Role) bool {
	role, exists := c.Get(RoleKey)
	if !exists {
		utils.ErrorResponse(c, http.StatusForbidden, "Role not found in context")
		return false
	}

	userRole, _ := role.(string)
	for _, allowedRole := range allowed {
		if domainUser.Role(userRole) == allowedRole {
			return true
		}
	}

	logger.FromContext(c.Request.Context()).Warn("Access denied",
		zap.String("role", userRole),
		zap.String("event", "role_forbidden"),
	)
	utils.ErrorResponse(c, http.StatusForbidden, "Insufficient permissions")
	return false
}
