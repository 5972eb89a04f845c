package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/secstack/identity-api/internal/core/domain"
	"github.com/secstack/identity-api/internal/core/ports"
)

// IdentityService handles administrative identity management. Role changes
// do not touch already-issued tokens; those keep their issuance-time
// snapshot until expiry.
type IdentityService struct {
	repo   ports.IdentityRepository
	audit  ports.AuditSink
	logger zerolog.Logger
}

func NewIdentityService(repo ports.IdentityRepository, audit ports.AuditSink, logger zerolog.Logger) *IdentityService {
	return &IdentityService{repo: repo, audit: audit, logger: logger}
}

func (s *IdentityService) List(ctx context.Context) ([]*domain.Identity, error) {
	return s.repo.List(ctx)
}

func (s *IdentityService) GrantRole(ctx context.Context, username, role string) (*domain.Identity, error) {
	if !domain.ValidRole(role) {
		return nil, domain.ErrInvalidRole
	}
	identity, err := s.repo.AddRole(ctx, username, role)
	if err != nil {
		return nil, err
	}
	s.record(domain.AuditEvent{Type: domain.AuditRoleGranted, Username: username, Detail: role, CreatedAt: time.Now().UTC()})
	return identity, nil
}

func (s *IdentityService) RevokeRole(ctx context.Context, username, role string) (*domain.Identity, error) {
	identity, err := s.repo.RemoveRole(ctx, username, role)
	if err != nil {
		return nil, err
	}
	s.record(domain.AuditEvent{Type: domain.AuditRoleRevoked, Username: username, Detail: role, CreatedAt: time.Now().UTC()})
	return identity, nil
}

func (s *IdentityService) Delete(ctx context.Context, username string) error {
	if err := s.repo.Delete(ctx, username); err != nil {
		return err
	}
	s.record(domain.AuditEvent{Type: domain.AuditDeleted, Username: username, CreatedAt: time.Now().UTC()})
	return nil
}

func (s *IdentityService) record(event domain.AuditEvent) {
	if s.audit != nil {
		s.audit.Enqueue(event)
	}
}
