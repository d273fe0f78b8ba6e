package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/users-api/internal/core/domain"
	"github.com/99minutos/users-api/internal/core/ports"
	"github.com/99minutos/users-api/internal/pkg/metrics"
)

type userService struct {
	repo     ports.UserRepository
	events   ports.EventSink
	sessions ports.SessionRevoker
	log      zerolog.Logger
	now      func() time.Time
}

// NewUserService returns a UserService implementation. When sessions is set,
// a role change or deletion ends every session of the affected user.
func NewUserService(repo ports.UserRepository, events ports.EventSink, sessions ports.SessionRevoker, log zerolog.Logger) ports.UserService {
	return &userService{
		repo:     repo,
		events:   events,
		sessions: sessions,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *userService) ListAll(ctx context.Context) ([]domain.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *userService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	return user, nil
}

// Update merges patch into the record. The repository checks existence and
// writes inside one transaction and stamps updated_at with the given time.
func (s *userService) Update(ctx context.Context, actor domain.Identity, id int64, patch domain.UserPatch) (*domain.User, error) {
	patch = patch.Normalized()
	if patch.Role != nil && !patch.Role.IsValid() {
		return nil, fmt.Errorf("update user %d: invalid role %q", id, *patch.Role)
	}

	user, err := s.repo.Update(ctx, id, patch, s.now())
	if err != nil {
		metrics.UserMutationsTotal.WithLabelValues("update", "error").Inc()
		return nil, fmt.Errorf("update user %d: %w", id, err)
	}
	metrics.UserMutationsTotal.WithLabelValues("update", "ok").Inc()

	if patch.Role != nil {
		s.endSessions(ctx, id)
	}
	s.emit(domain.EventUserUpdated, user, actor)
	s.log.Info().Int64("user_id", id).Int64("actor_id", actor.UserID).Msg("user updated")
	return user, nil
}

func (s *userService) Delete(ctx context.Context, actor domain.Identity, id int64) (*domain.DeletedUser, error) {
	user, err := s.repo.Delete(ctx, id)
	if err != nil {
		metrics.UserMutationsTotal.WithLabelValues("delete", "error").Inc()
		return nil, fmt.Errorf("delete user %d: %w", id, err)
	}
	metrics.UserMutationsTotal.WithLabelValues("delete", "ok").Inc()

	s.endSessions(ctx, id)
	s.emit(domain.EventUserDeleted, user, actor)
	s.log.Info().Int64("user_id", id).Int64("actor_id", actor.UserID).Msg("user deleted")
	return user.Snapshot(), nil
}

// endSessions is best effort: the mutation is already committed.
func (s *userService) endSessions(ctx context.Context, id int64) {
	if s.sessions == nil {
		return
	}
	if err := s.sessions.RevokeUser(ctx, id); err != nil {
		s.log.Warn().Err(err).Int64("user_id", id).Msg("could not end sessions")
	}
}

func (s *userService) emit(t domain.EventType, user *domain.User, actor domain.Identity) {
	if s.events == nil {
		return
	}
	s.events.Enqueue(domain.UserEvent{
		Type:       t,
		UserID:     user.ID,
		Email:      user.Email,
		Role:       user.Role,
		ActorID:    actor.UserID,
		OccurredAt: s.now(),
	})
}
