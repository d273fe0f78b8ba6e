package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/99minutos/users-api/internal/api/middleware"
	"github.com/99minutos/users-api/internal/core/domain"
	"github.com/99minutos/users-api/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, in ports.RegisterInput) (*domain.User, error)
	loginFn    func(ctx context.Context, email, password string) (*ports.Session, error)
	logoutFn   func(ctx context.Context, identity domain.Identity) error
	currentFn  func(ctx context.Context, identity domain.Identity) (*domain.User, error)
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*ports.Session, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Logout(ctx context.Context, identity domain.Identity) error {
	return s.logoutFn(ctx, identity)
}

func (s *stubAuthService) Current(ctx context.Context, identity domain.Identity) (*domain.User, error) {
	return s.currentFn(ctx, identity)
}

func findCookie(rec interface{ Result() *http.Response }, name string) *http.Cookie {
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == name {
			return ck
		}
	}
	return nil
}

func TestAuthHandler_Register_Success(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(_ context.Context, in ports.RegisterInput) (*domain.User, error) {
			if in.Name != "Alice" || in.Email != "alice@example.com" || in.Password != "sup3rsecret" {
				t.Fatalf("unexpected input: %+v", in)
			}
			u := sampleUser(3)
			u.Name, u.Email = in.Name, in.Email
			return u, nil
		},
	}
	c, rec := newTestContext(http.MethodPost, "/auth/register",
		`{"name":" Alice ","email":" Alice@Example.COM ","password":"sup3rsecret","role":"admin"}`, nil, "")

	if err := NewAuthHandler(stub, false).Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp userEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.User.Email != "alice@example.com" || resp.User.Role != "user" {
		t.Fatalf("unexpected user payload: %+v", resp.User)
	}
}

func TestAuthHandler_Register_UserExists(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(context.Context, ports.RegisterInput) (*domain.User, error) {
			return nil, domain.ErrUserExists
		},
	}
	c, _ := newTestContext(http.MethodPost, "/auth/register",
		`{"name":"Alice","email":"alice@example.com","password":"sup3rsecret"}`, nil, "")

	if err := NewAuthHandler(stub, false).Register(c); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthHandler_Register_InvalidPayload(t *testing.T) {
	cases := map[string]struct {
		body  string
		field string
	}{
		"short password": {`{"name":"Alice","email":"alice@example.com","password":"short"}`, "password"},
		"missing name":   {`{"email":"alice@example.com","password":"sup3rsecret"}`, "name"},
		"bad email":      {`{"name":"Alice","email":"nope","password":"sup3rsecret"}`, "email"},
		"malformed":      {`{"name":`, "body"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			c, _ := newTestContext(http.MethodPost, "/auth/register", tc.body, nil, "")
			err := NewAuthHandler(&stubAuthService{}, false).Register(c)
			requireAPIError(t, err, http.StatusBadRequest, tc.field)
		})
	}
}

func TestAuthHandler_Login_SetsCookie(t *testing.T) {
	exp := time.Now().Add(time.Hour)
	stub := &stubAuthService{
		loginFn: func(_ context.Context, email, password string) (*ports.Session, error) {
			if email != "alice@example.com" || password != "sup3rsecret" {
				t.Fatalf("unexpected credentials: %s %s", email, password)
			}
			return &ports.Session{Token: "signed.jwt.token", ExpiresAt: exp, User: sampleUser(3)}, nil
		},
	}
	c, rec := newTestContext(http.MethodPost, "/auth/login",
		`{"email":"alice@example.com","password":"sup3rsecret"}`, nil, "")

	if err := NewAuthHandler(stub, true).Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	ck := findCookie(rec, middleware.TokenCookie)
	if ck == nil {
		t.Fatalf("expected token cookie")
	}
	if ck.Value != "signed.jwt.token" || !ck.HttpOnly || !ck.Secure || ck.SameSite != http.SameSiteStrictMode || ck.MaxAge <= 0 {
		t.Fatalf("unexpected cookie: %+v", ck)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(context.Context, string, string) (*ports.Session, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	c, rec := newTestContext(http.MethodPost, "/auth/login",
		`{"email":"alice@example.com","password":"wrong-password"}`, nil, "")

	if err := NewAuthHandler(stub, false).Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if findCookie(rec, middleware.TokenCookie) != nil {
		t.Fatalf("no cookie must be set on failure")
	}
}

func TestAuthHandler_Login_InvalidPayload(t *testing.T) {
	c, _ := newTestContext(http.MethodPost, "/auth/login", `{"email":"alice@example.com"}`, nil, "")

	err := NewAuthHandler(&stubAuthService{}, false).Login(c)
	requireAPIError(t, err, http.StatusBadRequest, "password")
}

func TestAuthHandler_Logout_ClearsCookie(t *testing.T) {
	var revoked string
	stub := &stubAuthService{
		logoutFn: func(_ context.Context, identity domain.Identity) error {
			revoked = identity.TokenID
			return nil
		},
	}
	identity := &domain.Identity{UserID: 5, Role: domain.RoleUser, TokenID: "jti-5", ExpiresAt: time.Now().Add(time.Hour)}
	c, rec := newTestContext(http.MethodPost, "/auth/logout", "", identity, "")

	if err := NewAuthHandler(stub, false).Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if revoked != "jti-5" {
		t.Fatalf("expected jti-5 to be revoked, got %q", revoked)
	}
	ck := findCookie(rec, middleware.TokenCookie)
	if ck == nil || ck.Value != "" || ck.MaxAge >= 0 {
		t.Fatalf("expected cleared cookie, got %+v", ck)
	}
}

func TestAuthHandler_Me(t *testing.T) {
	stub := &stubAuthService{
		currentFn: func(_ context.Context, identity domain.Identity) (*domain.User, error) {
			return sampleUser(identity.UserID), nil
		},
	}
	c, rec := newTestContext(http.MethodGet, "/auth/me", "", user5, "")

	if err := NewAuthHandler(stub, false).Me(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp userEnvelope
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.User.ID != 5 {
		t.Fatalf("unexpected body: %+v", resp)
	}
}
