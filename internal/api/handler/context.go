package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/secstack/identity-api/internal/core/domain"
)

// ctxClaims extracts the verified claims injected by the Auth middleware.
// A nil value means the middleware never ran; fail closed with 401 rather
// than trusting anything on the request.
func ctxClaims(c echo.Context) (*domain.Claims, error) {
	claims, _ := c.Get("claims").(*domain.Claims)
	if claims == nil || claims.Subject == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return claims, nil
}
