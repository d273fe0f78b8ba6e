package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/users-api/internal/api/apierror"
	"github.com/99minutos/users-api/internal/core/domain"
	"github.com/99minutos/users-api/internal/pkg/metrics"
)

// TokenCookie is the cookie that carries the session token.
const TokenCookie = "token"

const identityKey = "identity"

// TokenVerifier turns a raw token into an identity.
type TokenVerifier interface {
	Verify(ctx context.Context, raw string) (domain.Identity, error)
}

// Authenticate validates the token cookie and injects the identity into context.
func Authenticate(verifier TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(TokenCookie)
			if err != nil || cookie.Value == "" {
				if err != nil && !errors.Is(err, http.ErrNoCookie) {
					c.Logger().Debugf("read token cookie: %v", err)
				}
				metrics.AuthAttemptsTotal.WithLabelValues("verify", "missing").Inc()
				return apierror.Unauthorized("No token provided")
			}

			identity, err := verifier.Verify(c.Request().Context(), cookie.Value)
			if err != nil {
				metrics.AuthAttemptsTotal.WithLabelValues("verify", "rejected").Inc()
				return apierror.Unauthorized("Invalid token")
			}

			metrics.AuthAttemptsTotal.WithLabelValues("verify", "ok").Inc()
			SetIdentity(c, identity)
			return next(c)
		}
	}
}

// SetIdentity attaches identity to the request context.
func SetIdentity(c echo.Context, identity domain.Identity) {
	c.Set(identityKey, identity)
}

// IdentityFrom returns the identity placed by Authenticate, if any.
func IdentityFrom(c echo.Context) (domain.Identity, bool) {
	identity, ok := c.Get(identityKey).(domain.Identity)
	return identity, ok
}
