package ports

import (
	"time"

	"github.com/secstack/identity-api/internal/core/domain"
)

// TokenVerifier validates a compact token string against the signing key and
// the supplied clock. Verification is stateless and side-effect free.
type TokenVerifier interface {
	Verify(tokenString string, now time.Time) (*domain.Claims, error)
}
