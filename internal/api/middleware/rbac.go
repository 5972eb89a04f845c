package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/secstack/identity-api/internal/api/metrics"
	"github.com/secstack/identity-api/internal/core/domain"
	"github.com/secstack/identity-api/internal/core/service"
)

// RBAC enforces role-based access control against the claims injected by
// Auth. A single shared role is enough; an empty required set is public.
func RBAC(requiredRoles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, _ := c.Get("claims").(*domain.Claims)
			if !service.Authorize(claims, requiredRoles) {
				metrics.AuthDeniedTotal.WithLabelValues("insufficient_role").Inc()
				return domain.ErrInsufficientRole
			}
			return next(c)
		}
	}
}
