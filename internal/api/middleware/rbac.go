package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tracklight/tracklight/internal/core/domain"
	"github.com/tracklight/tracklight/internal/core/policy"
)

// RequireGlobal gates a route group on a global capability flag. The service
// layer performs its own evaluation too; this is the cheap outer gate that
// keeps unauthorized traffic away from the handlers.
func RequireGlobal(reg policy.Registry, allowed func(policy.GlobalCapabilities) bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(domain.Role)
			if !allowed(reg.CapabilitiesFor(role).Global) {
				return c.JSON(http.StatusForbidden, map[string]string{
					"error":  "forbidden",
					"reason": string(policy.ReasonCapabilityMissing),
				})
			}
			return next(c)
		}
	}
}

// RequireManagerTier restricts a route to team_leader, admin and superadmin.
func RequireManagerTier() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(domain.Role)
			if !role.ManagerTier() {
				return c.JSON(http.StatusForbidden, map[string]string{
					"error":  "forbidden",
					"reason": string(policy.ReasonRoleForbidden),
				})
			}
			return next(c)
		}
	}
}
