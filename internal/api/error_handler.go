package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/tracklight/tracklight/internal/core/domain"
	"github.com/tracklight/tracklight/internal/core/policy"
)

// errorResponse is the canonical error envelope for all API errors. Reason
// carries the stable denial or drift code when one applies.
type errorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Surfaces the stable reason code for authorization denials.
//   - Logs unexpected errors internally without leaking details to the client.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	// Authorization denials → 403 with the reason code.
	switch {
	case errors.Is(err, domain.ErrRoleForbidden):
		return http.StatusForbidden, errorResponse{Error: err.Error(), Reason: string(policy.ReasonRoleForbidden)}
	case errors.Is(err, domain.ErrNotOwner):
		return http.StatusForbidden, errorResponse{Error: err.Error(), Reason: string(policy.ReasonNotOwner)}
	case errors.Is(err, domain.ErrCapabilityMissing):
		return http.StatusForbidden, errorResponse{Error: err.Error(), Reason: string(policy.ReasonCapabilityMissing)}
	}

	// Hierarchy violations carry their own unprocessable-entity semantics.
	if errors.Is(err, domain.ErrInvalidHierarchy) {
		return http.StatusUnprocessableEntity, errorResponse{Error: err.Error(), Reason: string(policy.ReasonInvalidHierarchy)}
	}

	// Storage drift that survived the degraded retry is an internal fault,
	// but the reason code lets clients distinguish it from a generic 500.
	var drift *domain.SchemaDriftError
	if errors.As(err, &drift) || errors.Is(err, domain.ErrSchemaDriftUnrecovered) {
		log.Error().Err(err).
			Str("method", c.Request().Method).
			Str("path", c.Path()).
			Msg("schema drift surfaced to client")
		return http.StatusInternalServerError, errorResponse{Error: "storage schema mismatch", Reason: string(policy.ReasonSchemaDrift)}
	}

	if errors.Is(err, domain.ErrUpstreamUnavailable) {
		return http.StatusServiceUnavailable, errorResponse{Error: err.Error(), Reason: string(policy.ReasonUpstreamUnavailable)}
	}

	switch {
	case errors.Is(err, domain.ErrIssueNotFound),
		errors.Is(err, domain.ErrTaskNotFound),
		errors.Is(err, domain.ErrProjectNotFound),
		errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, errorResponse{Error: err.Error()}
	case errors.Is(err, domain.ErrProjectExists),
		errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, errorResponse{Error: err.Error()}
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, errorResponse{Error: "invalid credentials"}
	case errors.Is(err, domain.ErrUnknownRole):
		return http.StatusUnprocessableEntity, errorResponse{Error: err.Error()}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Error: "internal server error"}
}
