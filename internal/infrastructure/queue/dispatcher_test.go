package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/chemedu/periodic-table-api/internal/core/domain"
)

type captureAuditService struct {
	mu     sync.Mutex
	stored []domain.AuditEvent
}

func (s *captureAuditService) Store(_ context.Context, event domain.AuditEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stored = append(s.stored, event)
	return nil
}

func (s *captureAuditService) ListRecent(_ context.Context, _ int) ([]domain.AuditEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.AuditEvent, len(s.stored))
	copy(out, s.stored)
	return out, nil
}

func TestAuditDispatcher_DeliversEvents(t *testing.T) {
	svc := &captureAuditService{}
	d := NewAuditDispatcher(2, svc, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	for i := 0; i < 10; i++ {
		d.Record(domain.AuditEvent{Actor: "alice", Action: domain.AuditLogin})
	}

	deadline := time.After(2 * time.Second)
	for {
		events, _ := svc.ListRecent(context.Background(), 0)
		if len(events) == 10 {
			return
		}
		select {
		case <-deadline:
			t.Fatalf("expected 10 stored events, got %d", len(events))
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestAuditDispatcher_ShardIsStablePerActor(t *testing.T) {
	d := NewAuditDispatcher(4, &captureAuditService{}, zerolog.Nop())

	first := d.shardIndex("alice")
	for i := 0; i < 100; i++ {
		if d.shardIndex("alice") != first {
			t.Fatalf("shard index not stable for the same actor")
		}
	}
}
