package rabbitmq

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/users-api/internal/core/domain"
)

func TestLogPublisher_WritesEvent(t *testing.T) {
	var buf bytes.Buffer
	p := NewLogPublisher(zerolog.New(&buf))

	err := p.Publish(context.Background(), domain.UserEvent{
		Type:       domain.EventUserDeleted,
		UserID:     7,
		ActorID:    1,
		Role:       domain.RoleUser,
		OccurredAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("invalid log line: %v", err)
	}
	if entry["type"] != "user.deleted" || entry["user_id"] != float64(7) || entry["actor_id"] != float64(1) {
		t.Fatalf("unexpected entry: %+v", entry)
	}
}
