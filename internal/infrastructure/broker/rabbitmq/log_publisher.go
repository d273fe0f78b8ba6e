package rabbitmq

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/99minutos/users-api/internal/core/domain"
)

// LogPublisher writes events to the log instead of a broker. It is used when
// no AMQP_URL is configured.
type LogPublisher struct {
	log zerolog.Logger
}

func NewLogPublisher(log zerolog.Logger) *LogPublisher {
	return &LogPublisher{log: log.With().Str("component", "events").Logger()}
}

func (p *LogPublisher) Publish(_ context.Context, event domain.UserEvent) error {
	p.log.Info().
		Str("type", string(event.Type)).
		Int64("user_id", event.UserID).
		Int64("actor_id", event.ActorID).
		Str("role", string(event.Role)).
		Time("occurred_at", event.OccurredAt).
		Msg("user event")
	return nil
}
