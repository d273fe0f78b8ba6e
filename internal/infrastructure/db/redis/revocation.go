package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationStore keeps revoked token ids until their natural expiry.
// Key formats: revoked:<jti> and revoked-user:<id>
type RevocationStore struct {
	client *redis.Client
}

// NewRevocationStore creates a RevocationStore wrapping the given Redis client.
func NewRevocationStore(client *redis.Client) *RevocationStore {
	return &RevocationStore{client: client}
}

// Revoke marks tokenID as revoked until the given instant. Tokens that have
// already expired are not stored.
func (s *RevocationStore) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, s.key(tokenID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// IsRevoked reports whether tokenID has been revoked.
func (s *RevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := s.client.Exists(ctx, s.key(tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("revocation check: %w", err)
	}
	return n > 0, nil
}

// SetCutoff revokes every token of userID whose id sorts before tokenID.
// The marker outlives the longest token still in circulation.
func (s *RevocationStore) SetCutoff(ctx context.Context, userID int64, tokenID string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, s.userKey(userID), tokenID, ttl).Err(); err != nil {
		return fmt.Errorf("revoke user %d: %w", userID, err)
	}
	return nil
}

// Cutoff returns the cutoff token id of userID, or "" when none is set.
func (s *RevocationStore) Cutoff(ctx context.Context, userID int64) (string, error) {
	cutoff, err := s.client.Get(ctx, s.userKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("cutoff check: %w", err)
	}
	return cutoff, nil
}

func (s *RevocationStore) Name() string { return "redis" }

func (s *RevocationStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RevocationStore) key(tokenID string) string {
	return "revoked:" + tokenID
}

func (s *RevocationStore) userKey(userID int64) string {
	return "revoked-user:" + strconv.FormatInt(userID, 10)
}
