package ports

import (
	"context"

	"github.com/secstack/identity-api/internal/core/domain"
)

// AuditSink accepts security events for asynchronous recording. Enqueue must
// never block the login path for longer than a channel send.
type AuditSink interface {
	Enqueue(event domain.AuditEvent)
}

// AuditRepository persists audit events.
type AuditRepository interface {
	Insert(ctx context.Context, event domain.AuditEvent) error
}
