package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/secstack/identity-api/internal/core/domain"
	"github.com/secstack/identity-api/internal/core/service"
)

type memIdentityRepo struct {
	identities map[string]*domain.Identity
}

func newMemIdentityRepo() *memIdentityRepo {
	return &memIdentityRepo{identities: make(map[string]*domain.Identity)}
}

func (r *memIdentityRepo) clone(i *domain.Identity) *domain.Identity {
	clone := *i
	clone.Roles = append([]string(nil), i.Roles...)
	return &clone
}

func (r *memIdentityRepo) FindByUsername(_ context.Context, username string) (*domain.Identity, error) {
	i, ok := r.identities[username]
	if !ok {
		return nil, domain.ErrIdentityNotFound
	}
	return r.clone(i), nil
}

func (r *memIdentityRepo) Create(_ context.Context, identity *domain.Identity) (*domain.Identity, error) {
	if _, exists := r.identities[identity.Username]; exists {
		return nil, domain.ErrIdentityExists
	}
	r.identities[identity.Username] = r.clone(identity)
	return r.clone(identity), nil
}

func (r *memIdentityRepo) List(_ context.Context) ([]*domain.Identity, error) {
	out := make([]*domain.Identity, 0, len(r.identities))
	for _, i := range r.identities {
		out = append(out, r.clone(i))
	}
	return out, nil
}

func (r *memIdentityRepo) AddRole(_ context.Context, username, role string) (*domain.Identity, error) {
	i, ok := r.identities[username]
	if !ok {
		return nil, domain.ErrIdentityNotFound
	}
	if !i.HasRole(role) {
		i.Roles = append(i.Roles, role)
	}
	return r.clone(i), nil
}

func (r *memIdentityRepo) RemoveRole(_ context.Context, username, role string) (*domain.Identity, error) {
	i, ok := r.identities[username]
	if !ok {
		return nil, domain.ErrIdentityNotFound
	}
	roles := i.Roles[:0]
	for _, existing := range i.Roles {
		if existing != role {
			roles = append(roles, existing)
		}
	}
	i.Roles = roles
	return r.clone(i), nil
}

func (r *memIdentityRepo) Delete(_ context.Context, username string) error {
	if _, ok := r.identities[username]; !ok {
		return domain.ErrIdentityNotFound
	}
	delete(r.identities, username)
	return nil
}

// TestRouter_AuthScenario drives the full login and authorization flow over
// the HTTP surface: seed user/user with role user and admin/admin with role
// admin, then exercise login, protected routes, and admin role management.
// The router is built once because the prometheus middleware registers its
// collectors globally.
func TestRouter_AuthScenario(t *testing.T) {
	repo := newMemIdentityRepo()
	tokens := service.NewTokenService("test-secret", 2*time.Hour)
	authService := service.NewAuthService(repo, tokens, nil, nil, zerolog.Nop())
	identityService := service.NewIdentityService(repo, nil, zerolog.Nop())

	e := NewRouter(Deps{
		Auth:       authService,
		Identities: identityService,
		Verifier:   tokens,
		Log:        zerolog.Nop(),
	})

	if _, err := authService.Register(context.Background(), "user", "user", []string{domain.RoleUser}); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	if _, err := authService.Register(context.Background(), "admin", "admin", []string{domain.RoleAdmin}); err != nil {
		t.Fatalf("seed admin: %v", err)
	}

	do := func(method, path, body, token string) *httptest.ResponseRecorder {
		t.Helper()
		var reader *strings.Reader
		if body == "" {
			reader = strings.NewReader("")
		} else {
			reader = strings.NewReader(body)
		}
		req := httptest.NewRequest(method, path, reader)
		if body != "" {
			req.Header.Set("Content-Type", "application/json")
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	login := func(username, password string) (*httptest.ResponseRecorder, string) {
		t.Helper()
		rec := do(http.MethodPost, "/auth/login", `{"username":"`+username+`","password":"`+password+`"}`, "")
		var resp map[string]any
		_ = json.Unmarshal(rec.Body.Bytes(), &resp)
		token, _ := resp["token"].(string)
		return rec, token
	}

	var userToken, adminToken string

	t.Run("login as user", func(t *testing.T) {
		rec, token := login("user", "user")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		var resp map[string]any
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("invalid json: %v", err)
		}
		if resp["userName"] != "user" {
			t.Fatalf("expected userName user, got %v", resp["userName"])
		}
		if token == "" {
			t.Fatalf("expected a token in the response")
		}
		userToken = token
	})

	t.Run("login as admin", func(t *testing.T) {
		rec, token := login("admin", "admin")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if token == "" {
			t.Fatalf("expected a token in the response")
		}
		adminToken = token
	})

	t.Run("login with wrong password", func(t *testing.T) {
		wrongRec, _ := login("user", "wrong")
		if wrongRec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", wrongRec.Code)
		}

		ghostRec, _ := login("ghost", "whatever")
		if ghostRec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", ghostRec.Code)
		}

		// No enumeration signal: both failures produce the same body.
		if wrongRec.Body.String() != ghostRec.Body.String() {
			t.Fatalf("bad password and unknown user must be indistinguishable: %q vs %q",
				wrongRec.Body.String(), ghostRec.Body.String())
		}
	})

	t.Run("me with user token", func(t *testing.T) {
		rec := do(http.MethodGet, "/users/me", "", userToken)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		var resp map[string]any
		_ = json.Unmarshal(rec.Body.Bytes(), &resp)
		if resp["username"] != "user" {
			t.Fatalf("expected username user, got %v", resp)
		}
	})

	t.Run("me without token", func(t *testing.T) {
		rec := do(http.MethodGet, "/users/me", "", "")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("admin route with user token", func(t *testing.T) {
		rec := do(http.MethodGet, "/admin/users", "", userToken)
		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
	})

	t.Run("admin route with admin token", func(t *testing.T) {
		rec := do(http.MethodGet, "/admin/users", "", adminToken)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("grant and revoke role", func(t *testing.T) {
		rec := do(http.MethodPost, "/admin/users/user/roles", `{"role":"admin"}`, adminToken)
		if rec.Code != http.StatusOK {
			t.Fatalf("grant: expected 200, got %d: %s", rec.Code, rec.Body.String())
		}

		// The user token predates the grant, so it still lacks admin.
		rec = do(http.MethodGet, "/admin/users", "", userToken)
		if rec.Code != http.StatusForbidden {
			t.Fatalf("stale token should still be denied, got %d", rec.Code)
		}

		// A fresh token picks up the new role.
		loginRec, fresh := login("user", "user")
		if loginRec.Code != http.StatusOK {
			t.Fatalf("relogin failed: %d", loginRec.Code)
		}
		rec = do(http.MethodGet, "/admin/users", "", fresh)
		if rec.Code != http.StatusOK {
			t.Fatalf("fresh token should be allowed, got %d", rec.Code)
		}

		rec = do(http.MethodDelete, "/admin/users/user/roles/admin", "", adminToken)
		if rec.Code != http.StatusOK {
			t.Fatalf("revoke: expected 200, got %d", rec.Code)
		}
	})

	t.Run("register with unknown role", func(t *testing.T) {
		rec := do(http.MethodPost, "/auth/register", `{"username":"zed","password":"pass","roles":["superuser"]}`, "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
		}
		if strings.Contains(rec.Body.String(), "credentials") {
			t.Fatalf("a bad role is not a credential failure: %s", rec.Body.String())
		}
	})

	t.Run("grant unknown role", func(t *testing.T) {
		rec := do(http.MethodPost, "/admin/users/admin/roles", `{"role":"superuser"}`, adminToken)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("delete identity", func(t *testing.T) {
		rec := do(http.MethodDelete, "/admin/users/user", "", adminToken)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}

		loginRec, _ := login("user", "user")
		if loginRec.Code != http.StatusUnauthorized {
			t.Fatalf("deleted identity should no longer log in, got %d", loginRec.Code)
		}
	})

	t.Run("health", func(t *testing.T) {
		rec := do(http.MethodGet, "/health", "", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})
}
