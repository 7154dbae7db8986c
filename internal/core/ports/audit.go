package ports

import (
	"context"

	"github.com/chemedu/periodic-table-api/internal/core/domain"
)

// AuditRecorder accepts audit events for asynchronous persistence. Record
// never blocks the caller; events may be dropped under pressure (the trail
// is best-effort).
type AuditRecorder interface {
	Record(event domain.AuditEvent)
}

// AuditService persists and queries the audit trail.
type AuditService interface {
	Store(ctx context.Context, event domain.AuditEvent) error
	ListRecent(ctx context.Context, limit int) ([]domain.AuditEvent, error)
}

// AuditRepository is the persistence contract for audit events.
type AuditRepository interface {
	Insert(ctx context.Context, event *domain.AuditEvent) error
	ListRecent(ctx context.Context, limit int) ([]domain.AuditEvent, error)
}
