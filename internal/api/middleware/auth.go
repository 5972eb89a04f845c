package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/secstack/identity-api/internal/api/metrics"
	"github.com/secstack/identity-api/internal/core/domain"
	"github.com/secstack/identity-api/internal/core/ports"
)

// Auth verifies the bearer token and injects the verified claims into the
// request context. Signature and expiry failures never reach the handler.
func Auth(verifier ports.TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				metrics.AuthDeniedTotal.WithLabelValues("missing_token").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				metrics.AuthDeniedTotal.WithLabelValues("missing_token").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims, err := verifier.Verify(parts[1], time.Now().UTC())
			if err != nil {
				metrics.AuthDeniedTotal.WithLabelValues(denialReason(err)).Inc()
				return err
			}

			c.Set("claims", claims)
			c.Set("username", claims.Subject)
			c.Set("roles", claims.Roles)

			return next(c)
		}
	}
}

func denialReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrTokenExpired):
		return "expired"
	case errors.Is(err, domain.ErrInvalidSignature):
		return "bad_signature"
	default:
		return "malformed_token"
	}
}
