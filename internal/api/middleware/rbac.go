package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/99minutos/users-api/internal/api/apierror"
	"github.com/99minutos/users-api/internal/core/domain"
)

// RequireRoles enforces role-based access control. It must run after
// Authenticate. With no roles every authenticated identity passes.
func RequireRoles(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, ok := IdentityFrom(c)
			if !ok {
				return apierror.Unauthorized("Authentication required")
			}
			if len(allowed) == 0 {
				return next(c)
			}
			if _, ok := allowed[identity.Role]; !ok {
				return apierror.Forbidden("Insufficient permissions")
			}
			return next(c)
		}
	}
}
