package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/secstack/identity-api/internal/core/domain"
)

var testNow = time.Unix(1_700_000_000, 0).UTC()

func TestTokenService_RoundTrip(t *testing.T) {
	svc := NewTokenService("secret", 2*time.Hour)

	token, err := svc.Issue("alice", []string{"user", "admin"}, testNow)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	claims, err := svc.Verify(token, testNow)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if claims.Subject != "alice" {
		t.Fatalf("expected subject alice, got %q", claims.Subject)
	}
	if len(claims.Roles) != 2 || claims.Roles[0] != "user" || claims.Roles[1] != "admin" {
		t.Fatalf("unexpected roles: %v", claims.Roles)
	}
	if !claims.IssuedAt.Equal(testNow) {
		t.Fatalf("expected issuedAt %v, got %v", testNow, claims.IssuedAt)
	}
	if !claims.ExpiresAt.Equal(testNow.Add(2 * time.Hour)) {
		t.Fatalf("expected expiresAt %v, got %v", testNow.Add(2*time.Hour), claims.ExpiresAt)
	}
}

func TestTokenService_Deterministic(t *testing.T) {
	svc := NewTokenService("secret", 2*time.Hour)

	a, err := svc.Issue("alice", []string{"user"}, testNow)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	b, err := svc.Issue("alice", []string{"user"}, testNow)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	if a != b {
		t.Fatalf("HS256 signing should be deterministic for identical inputs")
	}
}

func TestTokenService_VerifyIdempotent(t *testing.T) {
	svc := NewTokenService("secret", 2*time.Hour)

	token, _ := svc.Issue("alice", []string{"user"}, testNow)

	first, err := svc.Verify(token, testNow)
	if err != nil {
		t.Fatalf("first Verify failed: %v", err)
	}
	second, err := svc.Verify(token, testNow)
	if err != nil {
		t.Fatalf("second Verify failed: %v", err)
	}
	if first.Subject != second.Subject || len(first.Roles) != len(second.Roles) {
		t.Fatalf("repeated verification changed the result: %+v vs %+v", first, second)
	}
}

func TestTokenService_ExpiryBoundary(t *testing.T) {
	svc := NewTokenService("secret", 2*time.Hour)
	token, _ := svc.Issue("alice", []string{"user"}, testNow)

	// One second before expiry the token is still good.
	if _, err := svc.Verify(token, testNow.Add(2*time.Hour-time.Second)); err != nil {
		t.Fatalf("token should be valid just before expiry: %v", err)
	}

	// At exactly expiresAt the token is already expired.
	if _, err := svc.Verify(token, testNow.Add(2*time.Hour)); !errors.Is(err, domain.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired at expiresAt, got %v", err)
	}

	if _, err := svc.Verify(token, testNow.Add(3*time.Hour)); !errors.Is(err, domain.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired past expiry, got %v", err)
	}
}

func TestTokenService_TamperedClaims(t *testing.T) {
	svc := NewTokenService("secret", 2*time.Hour)
	token, _ := svc.Issue("alice", []string{"user"}, testNow)

	// Swap the payload segment for one from a token with different claims.
	forged, _ := svc.Issue("admin", []string{"admin"}, testNow)
	parts := strings.Split(token, ".")
	forgedParts := strings.Split(forged, ".")
	tampered := parts[0] + "." + forgedParts[1] + "." + parts[2]

	if _, err := svc.Verify(tampered, testNow); !errors.Is(err, domain.ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature for tampered claims, got %v", err)
	}
}

func TestTokenService_WrongKey(t *testing.T) {
	issuer := NewTokenService("secret", 2*time.Hour)
	verifier := NewTokenService("other-secret", 2*time.Hour)

	token, _ := issuer.Issue("alice", []string{"user"}, testNow)
	if _, err := verifier.Verify(token, testNow); !errors.Is(err, domain.ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature with wrong key, got %v", err)
	}
}

func TestTokenService_Malformed(t *testing.T) {
	svc := NewTokenService("secret", 2*time.Hour)

	for _, tok := range []string{"", "garbage", "a.b", "a.b.c.d"} {
		if _, err := svc.Verify(tok, testNow); !errors.Is(err, domain.ErrMalformedToken) {
			t.Fatalf("expected ErrMalformedToken for %q, got %v", tok, err)
		}
	}
}

func TestAuthorize(t *testing.T) {
	claims := &domain.Claims{Subject: "alice", Roles: []string{"user"}}

	if !Authorize(claims, nil) {
		t.Fatalf("empty required set should be public")
	}
	if !Authorize(nil, nil) {
		t.Fatalf("public routes must not require claims at all")
	}
	if !Authorize(claims, []string{"user", "admin"}) {
		t.Fatalf("one shared role should be enough")
	}
	if Authorize(claims, []string{"admin"}) {
		t.Fatalf("disjoint role sets should be denied")
	}
	if Authorize(nil, []string{"admin"}) {
		t.Fatalf("nil claims should never satisfy a required set")
	}
	if Authorize(&domain.Claims{Subject: "bob"}, []string{"user"}) {
		t.Fatalf("claims without roles should be denied")
	}
}
