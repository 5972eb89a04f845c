package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/secstack/identity-api/internal/core/domain"
)

func TestIdentityService_GrantRole(t *testing.T) {
	repo := newStubIdentityRepo()
	sink := &stubSink{}
	svc := NewIdentityService(repo, sink, zerolog.Nop())

	repo.identities["alice"] = &domain.Identity{Username: "alice", Roles: []string{domain.RoleUser}}

	identity, err := svc.GrantRole(context.Background(), "alice", domain.RoleAdmin)
	if err != nil {
		t.Fatalf("GrantRole returned error: %v", err)
	}
	if !identity.HasRole(domain.RoleAdmin) || !identity.HasRole(domain.RoleUser) {
		t.Fatalf("unexpected roles: %v", identity.Roles)
	}

	if len(sink.events) != 1 || sink.events[0].Type != domain.AuditRoleGranted {
		t.Fatalf("expected a role-granted audit event, got %+v", sink.events)
	}
}

func TestIdentityService_GrantRole_Unknown(t *testing.T) {
	repo := newStubIdentityRepo()
	svc := NewIdentityService(repo, nil, zerolog.Nop())

	if _, err := svc.GrantRole(context.Background(), "alice", "superuser"); !errors.Is(err, domain.ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole for unknown role, got %v", err)
	}
	if _, err := svc.GrantRole(context.Background(), "ghost", domain.RoleUser); !errors.Is(err, domain.ErrIdentityNotFound) {
		t.Fatalf("expected ErrIdentityNotFound, got %v", err)
	}
}

func TestIdentityService_RevokeRole(t *testing.T) {
	repo := newStubIdentityRepo()
	svc := NewIdentityService(repo, nil, zerolog.Nop())

	repo.identities["bob"] = &domain.Identity{Username: "bob", Roles: []string{domain.RoleUser, domain.RoleAdmin}}

	identity, err := svc.RevokeRole(context.Background(), "bob", domain.RoleAdmin)
	if err != nil {
		t.Fatalf("RevokeRole returned error: %v", err)
	}
	if identity.HasRole(domain.RoleAdmin) {
		t.Fatalf("admin role should be gone: %v", identity.Roles)
	}
}

func TestIdentityService_Delete(t *testing.T) {
	repo := newStubIdentityRepo()
	svc := NewIdentityService(repo, nil, zerolog.Nop())

	repo.identities["carol"] = &domain.Identity{Username: "carol", Roles: []string{domain.RoleUser}}

	if err := svc.Delete(context.Background(), "carol"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if err := svc.Delete(context.Background(), "carol"); !errors.Is(err, domain.ErrIdentityNotFound) {
		t.Fatalf("expected ErrIdentityNotFound on second delete, got %v", err)
	}
}
