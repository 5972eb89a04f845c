package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/secstack/identity-api/docs"
	"github.com/secstack/identity-api/internal/api/handler"
	"github.com/secstack/identity-api/internal/api/middleware"
	"github.com/secstack/identity-api/internal/core/domain"
	"github.com/secstack/identity-api/internal/core/ports"
)

// Deps carries the explicitly constructed collaborators the router wires
// together. There is no ambient application instance; main builds these once
// and passes them here.
type Deps struct {
	Auth       ports.AuthService
	Identities ports.IdentityService
	Verifier   ports.TokenVerifier
	Mongo      *mongo.Database
	Redis      *redis.Client
	Log        zerolog.Logger
}

// Registrar binds routes together with their declared required-role sets.
// An empty role set makes the route public; any other set puts the token
// verifier and the role check in front of the handler.
type Registrar struct {
	e    *echo.Echo
	auth echo.MiddlewareFunc
}

func NewRegistrar(e *echo.Echo, verifier ports.TokenVerifier) *Registrar {
	return &Registrar{e: e, auth: middleware.Auth(verifier)}
}

func (r *Registrar) Register(method, path string, requiredRoles []string, h echo.HandlerFunc) {
	if len(requiredRoles) == 0 {
		r.e.Add(method, path, h)
		return
	}
	r.e.Add(method, path, h, r.auth, middleware.RBAC(requiredRoles...))
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("identity"))

	authHandler := handler.NewAuthHandler(d.Auth)
	identityHandler := handler.NewIdentityHandler(d.Identities)

	r := NewRegistrar(e, d.Verifier)

	// --- Auth routes (public) ---
	r.Register(http.MethodPost, "/auth/register", nil, authHandler.Register)
	r.Register(http.MethodPost, "/auth/login", nil, authHandler.Login)

	// --- Authenticated routes ---
	r.Register(http.MethodGet, "/users/me", []string{domain.RoleUser, domain.RoleAdmin}, identityHandler.Me)

	// --- Admin routes ---
	adminOnly := []string{domain.RoleAdmin}
	r.Register(http.MethodGet, "/admin/users", adminOnly, identityHandler.List)
	r.Register(http.MethodPost, "/admin/users/:username/roles", adminOnly, identityHandler.GrantRole)
	r.Register(http.MethodDelete, "/admin/users/:username/roles/:role", adminOnly, identityHandler.RevokeRole)
	r.Register(http.MethodDelete, "/admin/users/:username", adminOnly, identityHandler.Delete)

	// --- Operational endpoints (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(d.Mongo, d.Redis)

	e.GET("/health", healthHandler.Liveness)          // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
