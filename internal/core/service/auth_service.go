package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/99minutos/users-api/internal/core/domain"
	"github.com/99minutos/users-api/internal/core/ports"
	"github.com/99minutos/users-api/internal/pkg/metrics"
)

// AuthService implements registration, login and logout.
type AuthService struct {
	repo       ports.UserRepository
	tokens     ports.TokenIssuer
	events     ports.EventSink
	bcryptCost int
	log        zerolog.Logger
	now        func() time.Time
}

func NewAuthService(repo ports.UserRepository, tokens ports.TokenIssuer, events ports.EventSink, bcryptCost int, log zerolog.Logger) *AuthService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{
		repo:       repo,
		tokens:     tokens,
		events:     events,
		bcryptCost: bcryptCost,
		log:        log,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Register creates an account with the default user role.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	name := strings.TrimSpace(in.Name)
	email := domain.NormalizeEmail(in.Email)
	if name == "" || email == "" || in.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	created, err := s.repo.Create(ctx, &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	if s.events != nil {
		s.events.Enqueue(domain.UserEvent{
			Type:       domain.EventUserRegistered,
			UserID:     created.ID,
			Email:      created.Email,
			Role:       created.Role,
			OccurredAt: now,
		})
	}
	s.log.Info().Int64("user_id", created.ID).Msg("user registered")
	return created, nil
}

// Login checks the password and issues a session token. Unknown emails and
// wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.Session, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		metrics.AuthAttemptsTotal.WithLabelValues("login", "rejected").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.AuthAttemptsTotal.WithLabelValues("login", "rejected").Inc()
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("login", "rejected").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	token, exp, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	metrics.AuthAttemptsTotal.WithLabelValues("login", "ok").Inc()
	return &ports.Session{Token: token, ExpiresAt: exp, User: user}, nil
}

// Logout revokes the token the identity was authenticated with.
func (s *AuthService) Logout(ctx context.Context, identity domain.Identity) error {
	if err := s.tokens.Revoke(ctx, identity.TokenID, identity.ExpiresAt); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// Current loads the record behind identity.
func (s *AuthService) Current(ctx context.Context, identity domain.Identity) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, identity.UserID)
	if err != nil {
		return nil, fmt.Errorf("current user: %w", err)
	}
	return user, nil
}
