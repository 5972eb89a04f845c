package ports

import (
	"context"

	"github.com/secstack/identity-api/internal/core/domain"
)

// IdentityService covers administrative identity management: listing,
// explicit role grants/revocations, and deletion.
type IdentityService interface {
	List(ctx context.Context) ([]*domain.Identity, error)
	GrantRole(ctx context.Context, username, role string) (*domain.Identity, error)
	RevokeRole(ctx context.Context, username, role string) (*domain.Identity, error)
	Delete(ctx context.Context, username string) error
}
