package ports

import (
	"context"

	"github.com/secstack/identity-api/internal/core/domain"
)

// IdentityRepository defines the interface for identity persistence.
type IdentityRepository interface {
	FindByUsername(ctx context.Context, username string) (*domain.Identity, error)
	Create(ctx context.Context, identity *domain.Identity) (*domain.Identity, error)
	List(ctx context.Context) ([]*domain.Identity, error)
	AddRole(ctx context.Context, username, role string) (*domain.Identity, error)
	RemoveRole(ctx context.Context, username, role string) (*domain.Identity, error)
	Delete(ctx context.Context, username string) error
}
