package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/users-api/internal/core/domain"
)

func TestRequireRoles_Allows(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	SetIdentity(c, domain.Identity{UserID: 1, Role: domain.RoleAdmin})

	called := false
	handler := RequireRoles(domain.RoleAdmin)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next handler not called")
	}
}

func TestRequireRoles_Forbids(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	SetIdentity(c, domain.Identity{UserID: 5, Role: domain.RoleUser})

	handler := RequireRoles(domain.RoleAdmin)(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	assertAPIError(t, handler(c), http.StatusForbidden, "Insufficient permissions")
}

func TestRequireRoles_EmptySetAdmitsAnyIdentity(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	SetIdentity(c, domain.Identity{UserID: 5, Role: domain.RoleUser})

	called := false
	handler := RequireRoles()(func(c echo.Context) error {
		called = true
		return nil
	})

	if err := handler(c); err != nil || !called {
		t.Fatalf("expected pass-through, err=%v called=%v", err, called)
	}
}

func TestRequireRoles_WithoutAuthenticate(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	handler := RequireRoles()(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	assertAPIError(t, handler(c), http.StatusUnauthorized, "Authentication required")
}
