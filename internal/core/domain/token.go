package domain

import (
	"errors"
	"time"
)

var ErrMalformedToken = errors.New("malformed token")
var ErrInvalidSignature = errors.New("invalid token signature")
var ErrTokenExpired = errors.New("token expired")
var ErrInsufficientRole = errors.New("insufficient role")

// Claims are the verified contents of a token. Roles are the snapshot taken
// at issuance; a role revoked afterwards stays valid until the token expires.
type Claims struct {
	Subject   string    `json:"sub"`
	Roles     []string  `json:"roles"`
	IssuedAt  time.Time `json:"iat"`
	ExpiresAt time.Time `json:"exp"`
}
