package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/users-api/internal/api/apierror"
	"github.com/99minutos/users-api/internal/core/domain"
	"github.com/99minutos/users-api/internal/core/policy"
)

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Renders *apierror.Error values as they are.
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error", "message", "issues"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, apierror.Body) {
	var ae *apierror.Error
	if errors.As(err, &ae) {
		return ae.Status, ae.Body
	}

	// Echo's own errors (router 404/405, body limit, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, apierror.Body{Error: http.StatusText(he.Code), Message: fmt.Sprintf("%v", he.Message)}
	}

	// Known domain errors → deterministic HTTP codes.
	var denial *policy.Denial
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, apierror.Body{Error: "User not found", Message: "The requested user does not exist"}
	case errors.As(err, &denial):
		return http.StatusForbidden, apierror.Body{Error: "Forbidden", Message: denial.Reason}
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, apierror.Body{Error: "Forbidden", Message: "Insufficient permissions"}
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, apierror.Body{Error: "Access denied", Message: "Invalid email or password"}
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, apierror.Body{Error: "Conflict", Message: "Email already in use"}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Msg("unhandled error")

	return http.StatusInternalServerError, apierror.Body{Error: "Internal server error", Message: "An unexpected error occurred"}
}
