package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/tracklight/tracklight/internal/core/domain"
	"github.com/tracklight/tracklight/internal/core/ports"
)

// Auth validates the JWT and injects the actor identity into context. The
// token carries identity only; the global role is resolved fresh through the
// role lookup so a role change takes effect without re-issuing tokens. A
// failed lookup degrades to the least-privileged role, never a 500.
func Auth(jwtSecret string, roles ports.RoleLookup) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !tkn.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			actorID, _ := claims["sub"].(string)
			if actorID == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "token missing subject")
			}

			role := domain.RoleUser
			if roles != nil {
				role = roles.RoleFor(c.Request().Context(), actorID)
			}

			c.Set("actor_id", actorID)
			c.Set("email", claims["email"])
			c.Set("role", role)

			return next(c)
		}
	}
}
