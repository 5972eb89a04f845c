package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/secstack/identity-api/internal/core/domain"
	"github.com/secstack/identity-api/internal/core/ports"
)

// AuditService persists security events drained from the audit dispatcher.
type AuditService struct {
	repo   ports.AuditRepository
	logger zerolog.Logger
}

func NewAuditService(repo ports.AuditRepository, logger zerolog.Logger) *AuditService {
	return &AuditService{repo: repo, logger: logger}
}

// Process writes a single event. Failures are returned to the caller (the
// dispatcher worker) for logging; the originating request is long gone.
func (s *AuditService) Process(ctx context.Context, event domain.AuditEvent) error {
	if err := s.repo.Insert(ctx, event); err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	s.logger.Debug().
		Str("type", event.Type).
		Str("username", event.Username).
		Msg("audit event recorded")
	return nil
}
