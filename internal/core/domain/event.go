package domain

import "time"

// EventType names a user lifecycle event published to the broker.
type EventType string

const (
	EventUserRegistered EventType = "user.registered"
	EventUserUpdated    EventType = "user.updated"
	EventUserDeleted    EventType = "user.deleted"
)

// UserEvent is emitted after a successful mutation.
type UserEvent struct {
	Type       EventType `json:"type"`
	UserID     int64     `json:"user_id"`
	Email      string    `json:"email"`
	Role       Role      `json:"role"`
	ActorID    int64     `json:"actor_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
