package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/chemedu/periodic-table-api/internal/core/domain"
)

// RBAC enforces role-based access control on top of Auth. The route
// proceeds only when the claim role is in the allowed set; there is no
// role hierarchy beyond listing both roles where both are permitted.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[string(r)] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(string)
			if _, ok := allowed[role]; !ok {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "insufficient role"})
			}
			return next(c)
		}
	}
}
