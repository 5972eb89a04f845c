package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/secstack/identity-api/internal/core/domain"
)

const defaultTokenTTL = 2 * time.Hour

// tokenClaims is the wire shape of an issued token.
type tokenClaims struct {
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256-signed tokens. The signing key is
// loaded once at startup and never logged; signing is deterministic, so
// identical (subject, roles, issuedAt) inputs produce identical tokens.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}
}

// TTL returns the validity duration applied to issued tokens.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Issue builds a signed token for the subject carrying the role snapshot
// taken at issuance. Roles revoked later remain in already-issued tokens
// until expiry.
func (s *TokenService) Issue(username string, roles []string, now time.Time) (string, error) {
	claims := tokenClaims{
		Roles: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a compact token string against the signing key
// and the supplied clock. The signature is checked before any claim is
// trusted, and a token is expired from the instant now >= expiresAt.
func (s *TokenService) Verify(tokenString string, now time.Time) (*domain.Claims, error) {
	var claims tokenClaims
	_, err := jwt.ParseWithClaims(tokenString, &claims,
		func(token *jwt.Token) (interface{}, error) {
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, domain.ErrMalformedToken
		case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
			return nil, domain.ErrInvalidSignature
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, domain.ErrTokenExpired
		default:
			return nil, domain.ErrMalformedToken
		}
	}

	out := &domain.Claims{
		Subject: claims.Subject,
		Roles:   claims.Roles,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}

// Authorize reports whether the claims satisfy a route's required-role set.
// An empty required set means the route is public. Otherwise any single
// shared role is enough (OR semantics).
func Authorize(claims *domain.Claims, requiredRoles []string) bool {
	if len(requiredRoles) == 0 {
		return true
	}
	if claims == nil {
		return false
	}
	required := make(map[string]struct{}, len(requiredRoles))
	for _, r := range requiredRoles {
		required[r] = struct{}{}
	}
	for _, r := range claims.Roles {
		if _, ok := required[r]; ok {
			return true
		}
	}
	return false
}
