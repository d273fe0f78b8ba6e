package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/users-api/internal/core/domain"
)

type recordingPublisher struct {
	mu     sync.Mutex
	byUser map[int64][]domain.EventType
	fail   bool
	block  chan struct{}
}

func newRecordingPublisher() *recordingPublisher {
	return &recordingPublisher{byUser: map[int64][]domain.EventType{}}
}

func (p *recordingPublisher) Publish(ctx context.Context, e domain.UserEvent) error {
	if p.block != nil {
		select {
		case <-p.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if p.fail {
		return errors.New("broker down")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.byUser[e.UserID] = append(p.byUser[e.UserID], e.Type)
	return nil
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, events := range p.byUser {
		n += len(events)
	}
	return n
}

func TestDispatcher_PreservesPerUserOrder(t *testing.T) {
	pub := newRecordingPublisher()
	d := NewDispatcher(3, pub, zerolog.Nop())
	d.Start()

	for userID := int64(1); userID <= 5; userID++ {
		d.Enqueue(domain.UserEvent{Type: domain.EventUserRegistered, UserID: userID})
		d.Enqueue(domain.UserEvent{Type: domain.EventUserUpdated, UserID: userID})
		d.Enqueue(domain.UserEvent{Type: domain.EventUserDeleted, UserID: userID})
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := d.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}

	want := []domain.EventType{domain.EventUserRegistered, domain.EventUserUpdated, domain.EventUserDeleted}
	for userID := int64(1); userID <= 5; userID++ {
		got := pub.byUser[userID]
		if len(got) != len(want) {
			t.Fatalf("user %d: expected %d events, got %v", userID, len(want), got)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("user %d: expected %v, got %v", userID, want, got)
			}
		}
	}
}

func TestDispatcher_ShardIndexIsStable(t *testing.T) {
	d := NewDispatcher(4, newRecordingPublisher(), zerolog.Nop())
	for _, id := range []int64{1, 2, 7, 1000, -3} {
		first := d.shardIndex(id)
		if first < 0 || first >= 4 {
			t.Fatalf("shard %d out of range for id %d", first, id)
		}
		if d.shardIndex(id) != first {
			t.Fatalf("shard for id %d is not stable", id)
		}
	}
}

func TestDispatcher_EnqueueAfterShutdownIsDropped(t *testing.T) {
	pub := newRecordingPublisher()
	d := NewDispatcher(1, pub, zerolog.Nop())
	d.Start()
	if err := d.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}

	d.Enqueue(domain.UserEvent{Type: domain.EventUserUpdated, UserID: 1})
	if pub.count() != 0 {
		t.Fatalf("expected no events after shutdown")
	}
	// A second Shutdown is a no-op.
	if err := d.Shutdown(context.Background()); err != nil {
		t.Fatalf("second shutdown: %v", err)
	}
}

func TestDispatcher_FullQueueDoesNotBlock(t *testing.T) {
	pub := newRecordingPublisher()
	pub.block = make(chan struct{})
	d := NewDispatcher(1, pub, zerolog.Nop())
	d.Start()

	done := make(chan struct{})
	go func() {
		for range channelBuffer + 10 {
			d.Enqueue(domain.UserEvent{Type: domain.EventUserUpdated, UserID: 1})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Enqueue blocked on a full queue")
	}

	close(pub.block)
	if err := d.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	if got := pub.count(); got > channelBuffer+1 {
		t.Fatalf("expected overflow to be dropped, published %d", got)
	}
}

func TestDispatcher_PublishFailureIsNotFatal(t *testing.T) {
	pub := newRecordingPublisher()
	pub.fail = true
	d := NewDispatcher(2, pub, zerolog.Nop())
	d.Start()

	d.Enqueue(domain.UserEvent{Type: domain.EventUserDeleted, UserID: 9})

	if err := d.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestDispatcher_ShutdownHonoursContext(t *testing.T) {
	pub := newRecordingPublisher()
	pub.block = make(chan struct{})
	defer close(pub.block)

	d := NewDispatcher(1, pub, zerolog.Nop())
	d.Start()
	d.Enqueue(domain.UserEvent{Type: domain.EventUserUpdated, UserID: 1})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := d.Shutdown(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", err)
	}
}
