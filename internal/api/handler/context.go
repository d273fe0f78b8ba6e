package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/99minutos/users-api/internal/api/apierror"
	"github.com/99minutos/users-api/internal/api/middleware"
	"github.com/99minutos/users-api/internal/core/domain"
	"github.com/99minutos/users-api/internal/core/policy"
	"github.com/99minutos/users-api/internal/pkg/metrics"
)

// ctxIdentity extracts the identity injected by the Authenticate middleware.
// Its absence means the route was wired without authentication: reject with 401.
func ctxIdentity(c echo.Context) (domain.Identity, error) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return domain.Identity{}, apierror.Unauthorized("Authentication required")
	}
	return identity, nil
}

// authorize consults the policy table once for the request.
func authorize(action policy.Action, identity domain.Identity, targetID int64, fields ...policy.Field) error {
	if err := policy.Evaluate(action, identity, targetID, fields...); err != nil {
		metrics.AccessDeniedTotal.WithLabelValues(string(action)).Inc()
		return err
	}
	return nil
}
