package ports

import (
	"context"
	"time"

	"github.com/99minutos/users-api/internal/core/domain"
)

// RegisterInput carries the fields accepted by the registration endpoint.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Session is the result of a successful login.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*Session, error)
	Logout(ctx context.Context, identity domain.Identity) error
	Current(ctx context.Context, identity domain.Identity) (*domain.User, error)
}

// TokenIssuer mints and revokes credentials for the auth service.
type TokenIssuer interface {
	Issue(user *domain.User) (token string, expiresAt time.Time, err error)
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
}

// SessionRevoker invalidates every credential issued to a user so far.
type SessionRevoker interface {
	RevokeUser(ctx context.Context, userID int64) error
}

// RevocationStore remembers revoked token ids until they would expire anyway.
// A per-user cutoff is a token id: ids of that user sorting before it are
// revoked. Cutoff returns "" when none is set.
type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
	SetCutoff(ctx context.Context, userID int64, tokenID string, until time.Time) error
	Cutoff(ctx context.Context, userID int64) (string, error)
}
