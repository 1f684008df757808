package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dockside/truck-management/internal/core/domain"
)

// RequireRole enforces hierarchical role-based access control: any role
// ranking at or above min passes. Roles order viewer < user < admin, so
// RequireRole(domain.RoleUser) admits users and admins but not viewers.
func RequireRole(min string) echo.MiddlewareFunc {
	minRank := domain.RoleRank(min)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(string)
			if !domain.ValidRole(role) || domain.RoleRank(role) < minRank {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
