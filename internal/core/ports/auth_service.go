package ports

import (
	"context"

	"github.com/secstack/identity-api/internal/core/domain"
)

type AuthService interface {
	Register(ctx context.Context, username, password string, roles []string) (*domain.Identity, error)
	Login(ctx context.Context, username, password string) (string, *domain.Identity, error)
}
