package ports

import (
	"context"

	"github.com/99minutos/users-api/internal/core/domain"
)

// EventSink accepts events without blocking the caller.
type EventSink interface {
	Enqueue(event domain.UserEvent)
}

// EventPublisher delivers a single event to the outside world.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.UserEvent) error
}
