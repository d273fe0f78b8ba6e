package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/users-api/internal/api/apierror"
	"github.com/99minutos/users-api/internal/core/domain"
	"github.com/99minutos/users-api/internal/core/policy"
)

func renderError(t *testing.T, err error, log zerolog.Logger) (int, apierror.Body) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/users/1", nil), rec)

	NewHTTPErrorHandler(log)(err, c)

	var body apierror.Body
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	return rec.Code, body
}

func TestHTTPErrorHandler_Mapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		title  string
	}{
		{"api error", apierror.Unauthorized("No token provided"), http.StatusUnauthorized, "Access denied"},
		{"not found", fmt.Errorf("get user 9: %w", domain.ErrUserNotFound), http.StatusNotFound, "User not found"},
		{"policy denial", &policy.Denial{Action: policy.ActionUpdate, Reason: "You can only update your own profile"}, http.StatusForbidden, "Forbidden"},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden, "Forbidden"},
		{"credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, "Access denied"},
		{"conflict", fmt.Errorf("register: %w", domain.ErrUserExists), http.StatusConflict, "Conflict"},
		{"echo", echo.ErrNotFound, http.StatusNotFound, "Not Found"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, body := renderError(t, tc.err, zerolog.Nop())
			if code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, code)
			}
			if body.Error != tc.title {
				t.Fatalf("expected title %q, got %q", tc.title, body.Error)
			}
		})
	}
}

func TestHTTPErrorHandler_NotFoundMessage(t *testing.T) {
	_, body := renderError(t, domain.ErrUserNotFound, zerolog.Nop())
	if body.Message != "The requested user does not exist" {
		t.Fatalf("unexpected message %q", body.Message)
	}
}

func TestHTTPErrorHandler_UnexpectedErrorIsLoggedNotLeaked(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	code, body := renderError(t, errors.New("dial tcp 10.0.0.3:5432: connection refused"), log)

	if code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", code)
	}
	if strings.Contains(body.Message, "10.0.0.3") {
		t.Fatalf("internal detail leaked: %q", body.Message)
	}
	if !strings.Contains(buf.String(), "connection refused") {
		t.Fatalf("expected cause in server log, got %q", buf.String())
	}
}

func TestHTTPErrorHandler_ValidationIssues(t *testing.T) {
	code, body := renderError(t, apierror.Validation(
		apierror.Issue{Field: "name", Message: "name must be at least 2 characters"},
		apierror.Issue{Field: "email", Message: "email must be a valid email"},
	), zerolog.Nop())

	if code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
	if body.Message != "name must be at least 2 characters; email must be a valid email" {
		t.Fatalf("unexpected joined message %q", body.Message)
	}
	if len(body.Issues) != 2 || body.Issues[1].Field != "email" {
		t.Fatalf("unexpected issues: %+v", body.Issues)
	}
}
