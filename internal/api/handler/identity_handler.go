package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/secstack/identity-api/internal/core/ports"
)

// IdentityHandler exposes the authenticated-user and admin identity surface.
type IdentityHandler struct {
	identityService ports.IdentityService
}

func NewIdentityHandler(identityService ports.IdentityService) *IdentityHandler {
	return &IdentityHandler{identityService: identityService}
}

type grantRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

type claimsResponse struct {
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
}

// Me returns the verified claims of the calling token.
//
// @Summary      Current identity
// @Tags         users
// @Produce      json
// @Success      200  {object}  claimsResponse
// @Failure      401  {object}  map[string]string
// @Router       /users/me [get]
func (h *IdentityHandler) Me(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, claimsResponse{Username: claims.Subject, Roles: claims.Roles})
}

// List returns all identities without credential material.
//
// @Summary      List identities
// @Tags         admin
// @Produce      json
// @Success      200  {array}   domain.Identity
// @Failure      403  {object}  map[string]string
// @Router       /admin/users [get]
func (h *IdentityHandler) List(c echo.Context) error {
	identities, err := h.identityService.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, identities)
}

// GrantRole adds a role to an identity. Tokens issued before the change keep
// their issuance-time role snapshot.
//
// @Summary      Grant a role
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        username  path  string            true  "Username"
// @Param        body      body  grantRoleRequest  true  "Role to grant"
// @Success      200  {object}  identityResponse
// @Failure      404  {object}  map[string]string
// @Router       /admin/users/{username}/roles [post]
func (h *IdentityHandler) GrantRole(c echo.Context) error {
	var req grantRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	identity, err := h.identityService.GrantRole(c.Request().Context(), c.Param("username"), req.Role)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, identityResponse{Identity: identity})
}

// RevokeRole removes a role from an identity.
//
// @Summary      Revoke a role
// @Tags         admin
// @Produce      json
// @Param        username  path  string  true  "Username"
// @Param        role      path  string  true  "Role"
// @Success      200  {object}  identityResponse
// @Failure      404  {object}  map[string]string
// @Router       /admin/users/{username}/roles/{role} [delete]
func (h *IdentityHandler) RevokeRole(c echo.Context) error {
	identity, err := h.identityService.RevokeRole(c.Request().Context(), c.Param("username"), c.Param("role"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, identityResponse{Identity: identity})
}

// Delete removes an identity entirely.
//
// @Summary      Delete an identity
// @Tags         admin
// @Param        username  path  string  true  "Username"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /admin/users/{username} [delete]
func (h *IdentityHandler) Delete(c echo.Context) error {
	if err := h.identityService.Delete(c.Request().Context(), c.Param("username")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
