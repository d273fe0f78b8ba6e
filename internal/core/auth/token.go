// Package auth issues and verifies the signed credentials carried in the
// "token" cookie.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/99minutos/users-api/internal/core/domain"
	"github.com/99minutos/users-api/internal/core/ports"
)

// ErrInvalidCredential is returned for any token that cannot be trusted:
// bad signature, wrong algorithm, expired, malformed or revoked.
var ErrInvalidCredential = errors.New("invalid credential")

const issuer = "users-api"

// Claims is the JWT payload. UserID and Role are the identity; the embedded
// registered claims carry exp, iat and jti.
type Claims struct {
	UserID int64       `json:"id"`
	Role   domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager signs HS256 tokens and verifies them against the same secret.
type TokenManager struct {
	secret      []byte
	ttl         time.Duration
	revocations ports.RevocationStore
	log         zerolog.Logger
	now         func() time.Time
}

// NewTokenManager builds a TokenManager. A nil revocation store disables
// revocation checks.
func NewTokenManager(secret string, ttl time.Duration, revocations ports.RevocationStore, log zerolog.Logger) *TokenManager {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenManager{
		secret:      []byte(secret),
		ttl:         ttl,
		revocations: revocations,
		log:         log,
		now:         time.Now,
	}
}

// Issue signs a token for user and returns it with its expiry.
func (m *TokenManager) Issue(user *domain.User) (string, time.Time, error) {
	now := m.now().UTC()
	exp := now.Add(m.ttl)

	claims := Claims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        ulid.Make().String(),
			Subject:   strconv.FormatInt(user.ID, 10),
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

// Verify decodes raw and returns the identity it carries.
func (m *TokenManager) Verify(ctx context.Context, raw string) (domain.Identity, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !tkn.Valid {
		return domain.Identity{}, ErrInvalidCredential
	}
	if claims.UserID <= 0 || !claims.Role.IsValid() {
		return domain.Identity{}, ErrInvalidCredential
	}

	if m.revocations != nil && claims.ID != "" {
		revoked, err := m.revocations.IsRevoked(ctx, claims.ID)
		if err != nil {
			m.log.Warn().Err(err).Str("jti", claims.ID).Msg("revocation check failed, accepting token")
		} else if revoked {
			return domain.Identity{}, ErrInvalidCredential
		}

		cutoff, err := m.revocations.Cutoff(ctx, claims.UserID)
		if err != nil {
			m.log.Warn().Err(err).Int64("user_id", claims.UserID).Msg("session cutoff check failed, accepting token")
		} else if cutoff != "" && claims.ID < cutoff {
			return domain.Identity{}, ErrInvalidCredential
		}
	}

	return domain.Identity{
		UserID:    claims.UserID,
		Role:      claims.Role,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Revoke marks tokenID unusable until it expires.
func (m *TokenManager) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if m.revocations == nil || tokenID == "" {
		return nil
	}
	if !expiresAt.After(m.now()) {
		return nil
	}
	return m.revocations.Revoke(ctx, tokenID, expiresAt)
}

// RevokeUser invalidates every token issued to userID before this call.
// Token ids are monotonic ULIDs, so a fresh id marks the cutoff.
func (m *TokenManager) RevokeUser(ctx context.Context, userID int64) error {
	if m.revocations == nil {
		return nil
	}
	return m.revocations.SetCutoff(ctx, userID, ulid.Make().String(), m.now().Add(m.ttl))
}
