package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tracklight/tracklight/internal/core/domain"
	"github.com/tracklight/tracklight/internal/core/ports"
)

// ctxActor extracts the identity injected by the Auth middleware. The role
// always carries a value once Auth ran; an empty actor id means the route was
// registered without the middleware, which is a wiring bug surfaced as 401.
func ctxActor(c echo.Context) (ports.Actor, error) {
	actorID, _ := c.Get("actor_id").(string)
	if actorID == "" {
		return ports.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	role, ok := c.Get("role").(domain.Role)
	if !ok {
		role = domain.RoleUser
	}
	return ports.Actor{ID: actorID, Role: role}, nil
}
